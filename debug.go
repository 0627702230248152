package cpld

import (
	"io"
)

// Recorder writes one row per tick with the level of each watched line, tab
// separated, '1' for high and '0' for low. It implements Ticker so it can be
// stepped together with the blocks it observes.
type Recorder struct {
	w     io.Writer
	lines []*Line
	out   []byte
	err   error
}

func NewRecorder(w io.Writer, lines ...*Line) *Recorder {
	r := &Recorder{w: w, lines: lines}
	r.out = make([]byte, 2*len(lines))
	for i := 1; i < len(r.out)-1; i += 2 {
		r.out[i] = '\t'
	}
	if len(r.out) > 0 {
		r.out[len(r.out)-1] = '\n'
	}
	return r
}

// Header writes one row with the line names.
func (r *Recorder) Header() error {
	for i, l := range r.lines {
		if i > 0 {
			if _, err := io.WriteString(r.w, "\t"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(r.w, l.Name()); err != nil {
			return err
		}
	}
	_, err := io.WriteString(r.w, "\n")
	return err
}

func (r *Recorder) Tick() {
	if r.err != nil {
		return
	}
	for i, l := range r.lines {
		if l.Level() {
			r.out[2*i] = '1'
		} else {
			r.out[2*i] = '0'
		}
	}
	_, r.err = r.w.Write(r.out)
}

// Err reports the first write error, if any.
func (r *Recorder) Err() error { return r.err }
