// Package uart implements the transmit half of the board's serial port.
// A frame is one start bit (0), eight data bits LSB first and one stop bit
// (1). The transmitter asks its baud-rate divider to run only while a frame
// is in flight, which is what the Busy output is for.
package uart

// Transmitter shifts one frame out at a time. It implements cpld.Ticker;
// the internal baud divider counts system ticks only while busy.
type Transmitter struct {
	div int // system ticks per bit
	cnt int

	shift uint16
	nbits int
	busy  bool
	tx    bool
}

// NewTransmitter returns a transmitter sending one bit every ticksPerBit
// system ticks. It panics if ticksPerBit < 1.
func NewTransmitter(ticksPerBit int) *Transmitter {
	if ticksPerBit < 1 {
		panic("uart: ticksPerBit < 1")
	}
	return &Transmitter{div: ticksPerBit, tx: true}
}

// Load starts transmission of b. It reports false, and does nothing, while
// a frame is still in flight.
func (t *Transmitter) Load(b byte) bool {
	if t.busy {
		return false
	}
	// stop bit on top, data in the middle, start bit at the bottom
	t.shift = 1<<9 | uint16(b)<<1
	t.nbits = 10
	t.cnt = 0
	t.busy = true
	t.tx = t.shift&1 == 1
	return true
}

// Tick advances the transmitter one system tick.
func (t *Transmitter) Tick() {
	if !t.busy {
		return
	}
	t.cnt++
	if t.cnt < t.div {
		return
	}
	t.cnt = 0
	t.shift >>= 1
	t.nbits--
	if t.nbits == 0 {
		t.busy = false
		t.tx = true
		return
	}
	t.tx = t.shift&1 == 1
}

// TX returns the current level of the transmit line. Idle is high.
func (t *Transmitter) TX() bool { return t.tx }

// Busy reports whether a frame is in flight. It doubles as the request line
// that keeps the baud-rate generator running until the frame completes.
func (t *Transmitter) Busy() bool { return t.busy }
