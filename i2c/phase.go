// Package i2c implements the bit-banged I2C master of the EPM240/570 board:
// a clock-accurate emulation of a controller that performs single-byte reads
// and writes against a serial EEPROM over a shared open-drain data line and a
// master-owned clock line. All bus transitions are scheduled on four phase
// pulses derived from a free-running divider; the controller advances one
// state per system tick and never blocks.
package i2c

// Phase identifies one of the four single-tick pulses emitted per
// serial-clock period. Each pulse fires exactly once per period, in the
// fixed order Sample, Fall, Setup, Rise.
type Phase uint8

const (
	PhaseNone   Phase = iota
	PhaseSample       // middle of the SCL-high window: SDA is sampled, START/STOP move SDA
	PhaseFall         // SCL driven low
	PhaseSetup        // middle of the SCL-low window: SDA changes for the next bit
	PhaseRise         // SCL driven high
)

func (p Phase) String() string {
	switch p {
	case PhaseSample:
		return "sample"
	case PhaseFall:
		return "fall"
	case PhaseSetup:
		return "setup"
	case PhaseRise:
		return "rise"
	}
	return "none"
}

// phaseGen derives the four phase pulses and the serial-clock level from a
// free-running divider counting system ticks. With the default period of 100
// the pulses sit at ticks 24, 49, 74 and 99; SCL is high exactly on the
// contiguous range between the Rise and Fall pulses.
type phaseGen struct {
	period int
	sample int
	fall   int
	setup  int
	rise   int

	cnt int
	scl bool
}

func newPhaseGen(period int) phaseGen {
	return phaseGen{
		period: period,
		sample: period/4 - 1,
		fall:   period/2 - 1,
		setup:  3*period/4 - 1,
		rise:   period - 1,
		scl:    true,
	}
}

// tick advances the divider one system tick and reports which pulse, if any,
// fires on this tick. The SCL level is updated before the pulse is reported.
func (g *phaseGen) tick() Phase {
	p := PhaseNone
	switch g.cnt {
	case g.sample:
		p = PhaseSample
	case g.fall:
		g.scl = false
		p = PhaseFall
	case g.setup:
		p = PhaseSetup
	case g.rise:
		g.scl = true
		p = PhaseRise
	}
	g.cnt++
	if g.cnt == g.period {
		g.cnt = 0
	}
	return p
}
