// Package lcd drives an HD44780-style character module in 8-bit mode. The
// module accepts one (rs, byte) pair per EN strobe derived from a slow
// clock; there is no flow control and no read-back.
package lcd

// Op is one bus cycle: a command (RS low) or a character (RS high).
type Op struct {
	RS   bool
	Data byte
}

// initProgram is the fixed power-on sequence: 8-bit/2-line function set,
// display on, clear, entry mode increment.
var initProgram = []Op{
	{Data: 0x38},
	{Data: 0x0c},
	{Data: 0x01},
	{Data: 0x06},
}

// Controller walks the init program and then a buffered (rs, byte) stream,
// presenting one pair per EN pulse. It implements cpld.Ticker.
type Controller struct {
	div int // system ticks per strobe period
	cnt int

	queue []Op
	cur   Op
	valid bool
	en    bool
}

// NewController returns a controller strobing EN once every ticksPerStrobe
// system ticks, with the init program already queued. It panics if
// ticksPerStrobe < 2.
func NewController(ticksPerStrobe int) *Controller {
	if ticksPerStrobe < 2 {
		panic("lcd: ticksPerStrobe < 2")
	}
	c := &Controller{div: ticksPerStrobe}
	c.queue = append(c.queue, initProgram...)
	return c
}

// Write queues raw bus cycles.
func (c *Controller) Write(ops ...Op) {
	c.queue = append(c.queue, ops...)
}

// WriteString queues the characters of s as data cycles.
func (c *Controller) WriteString(s string) {
	for i := 0; i < len(s); i++ {
		c.queue = append(c.queue, Op{RS: true, Data: s[i]})
	}
}

// Tick advances the strobe divider. A queued pair is latched at the start
// of a period, EN goes high, and EN drops at the half period; consumers
// latch on the falling edge of EN.
func (c *Controller) Tick() {
	switch c.cnt {
	case 0:
		if len(c.queue) > 0 {
			c.cur = c.queue[0]
			c.queue = c.queue[1:]
			c.valid = true
			c.en = true
		} else {
			c.valid = false
		}
	case c.div / 2:
		c.en = false
	}
	c.cnt++
	if c.cnt == c.div {
		c.cnt = 0
	}
}

// EN returns the strobe level.
func (c *Controller) EN() bool { return c.en }

// RS returns the register-select level of the current pair.
func (c *Controller) RS() bool { return c.cur.RS }

// Data returns the data byte of the current pair.
func (c *Controller) Data() byte { return c.cur.Data }

// Idle reports whether the queue has drained and no pair is presented.
func (c *Controller) Idle() bool { return len(c.queue) == 0 && !c.valid }
