package i2c

import (
	cpld "github.com/AIDevelopersMonster/CPLD-EPM240-570"
)

// bitOp is one bus-level operation. Each operation occupies exactly one
// serial-clock period: its SDA transitions are gated on the phase pulses and
// it completes on the PhaseFall that ends the slot.
type bitOp uint8

const (
	opIdle     bitOp = iota
	opStart          // SDA raised while SCL is low, then dropped while SCL is high
	opStop           // SDA lowered while SCL is low, then raised while SCL is high
	opWriteBit       // SDA asserted at Setup and held through the slot
	opReadBit        // SDA released at Setup, level captured at Sample
)

// engine drives or samples the data line one bit slot at a time. It holds no
// protocol knowledge; the sequencer decides what each slot means.
type engine struct {
	sda cpld.Wire

	op   bitOp
	out  bool // value driven by opWriteBit
	in   bool // level captured by opReadBit
	live bool // the slot's Setup pulse has been seen
	done bool // set on the PhaseFall that ends the slot
}

func (e *engine) begin(op bitOp, out bool) {
	e.op = op
	e.out = out
	e.live = false
	e.done = false
}

// onPhase advances the active operation. It must be called for every phase
// pulse. A slot only starts counting from its Setup pulse, so an operation
// armed mid-period waits for the next full slot.
func (e *engine) onPhase(p Phase) {
	if e.op == opIdle {
		return
	}
	switch p {
	case PhaseSetup:
		e.live = true
		switch e.op {
		case opStart:
			e.sda.Drive(true)
		case opStop:
			e.sda.Drive(false)
		case opWriteBit:
			e.sda.Drive(e.out)
		case opReadBit:
			e.sda.Release()
		}
	case PhaseSample:
		if !e.live {
			return
		}
		// SCL is high here.
		switch e.op {
		case opStart:
			e.sda.Drive(false)
		case opStop:
			e.sda.Drive(true)
		case opReadBit:
			e.in = e.sda.Level()
		}
	case PhaseFall:
		if !e.live {
			return
		}
		e.done = true
	}
}
