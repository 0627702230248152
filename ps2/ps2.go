// Package ps2 decodes the PS/2 keyboard serial protocol: 11-bit frames of
// one start bit (0), eight data bits LSB first, one odd-parity bit and one
// stop bit (1), clocked by the device on the falling edge of its clock line.
package ps2

// pipeDepth is the length of the sampling pipeline in front of the edge
// detector. Both lines cross from the keyboard's clock domain, so they pass
// through a chain of registers before being looked at, the same way the
// source design synchronizes them.
const pipeDepth = 3

// Receiver shifts scan codes in from the clock and data lines. Feed it one
// Sample per system tick.
type Receiver struct {
	clkPipe [pipeDepth]bool
	datPipe [pipeDepth]bool
	prevClk bool

	shift uint16
	nbits int

	data  byte
	fresh bool

	// BadFrames counts frames dropped for a bad start, stop or parity
	// bit.
	BadFrames int
}

func NewReceiver() *Receiver {
	r := &Receiver{prevClk: true}
	for i := range r.clkPipe {
		r.clkPipe[i] = true
		r.datPipe[i] = true
	}
	return r
}

// Sample feeds one tick's raw line levels. A falling edge of the filtered
// clock shifts in one bit.
func (r *Receiver) Sample(clk, dat bool) {
	fclk := r.clkPipe[pipeDepth-1]
	fdat := r.datPipe[pipeDepth-1]
	for i := pipeDepth - 1; i > 0; i-- {
		r.clkPipe[i] = r.clkPipe[i-1]
		r.datPipe[i] = r.datPipe[i-1]
	}
	r.clkPipe[0] = clk
	r.datPipe[0] = dat

	falling := r.prevClk && !fclk
	r.prevClk = fclk
	if !falling {
		return
	}

	r.shift >>= 1
	if fdat {
		r.shift |= 1 << 10
	}
	r.nbits++
	if r.nbits < 11 {
		return
	}
	r.nbits = 0
	frame := r.shift
	r.shift = 0

	start := frame & 1
	data := byte(frame >> 1)
	parity := frame>>9&1 == 1
	stop := frame>>10&1 == 1
	if start != 0 || !stop || !oddParity(data, parity) {
		r.BadFrames++
		return
	}
	r.data = data
	r.fresh = true
}

// Byte returns the most recent scan code and whether it is new since the
// last call. Reading consumes the new-byte flag.
func (r *Receiver) Byte() (byte, bool) {
	fresh := r.fresh
	r.fresh = false
	return r.data, fresh
}

// oddParity reports whether data plus the parity bit has an odd number of
// ones, as the protocol requires.
func oddParity(data byte, parity bool) bool {
	n := 0
	for b := data; b != 0; b >>= 1 {
		n += int(b & 1)
	}
	if parity {
		n++
	}
	return n%2 == 1
}
