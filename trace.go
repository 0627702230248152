package cpld

// Trace records the level of a line for the current tick and the tick
// before, so edge conditions can be derived from sampled levels. Deriving
// conditions from two traces is the usual idiom, e.g. a START condition on
// an I2C bus is
//
//	scl.Hi() && sda.Falling()
type Trace struct {
	from bool
	to   bool // most recent tick
}

// NewTrace returns a trace that starts high, matching an idle pulled-up
// line.
func NewTrace() Trace {
	return Trace{from: true, to: true}
}

// Tick records the line level for the current tick.
func (t *Trace) Tick(v bool) {
	t.from = t.to
	t.to = v
}

func (t *Trace) Hi() bool      { return t.to }
func (t *Trace) Lo() bool      { return !t.to }
func (t *Trace) Rising() bool  { return !t.from && t.to }
func (t *Trace) Falling() bool { return t.from && !t.to }
func (t *Trace) Changed() bool { return t.from != t.to }
