package i2c

import (
	cpld "github.com/AIDevelopersMonster/CPLD-EPM240-570"
)

// stepKind names one protocol step of a transaction. Steps are tagged values
// with explicit transitions rather than raw state codes, so there is no
// reachable undefined state.
type stepKind uint8

const (
	stepStart   stepKind = iota
	stepRestart          // repeated START, no intervening STOP
	stepSend             // eight data bits out, MSB first, then an acknowledge check
	stepRecv             // eight data bits sampled, MSB first, then a master acknowledge
	stepStop
)

// step couples a step kind with its source byte. dev marks the step that
// carries the device address, so a missing acknowledge there can be reported
// as "no such device" rather than a generic NACK.
type step struct {
	kind stepKind
	data byte
	dev  bool
}

// writeProgram is the fixed step list of a write transaction:
// START, device+W, ACK, word address, ACK, payload, ACK, STOP.
func writeProgram(dev, mem, payload byte) []step {
	return []step{
		{kind: stepStart},
		{kind: stepSend, data: dev << 1, dev: true},
		{kind: stepSend, data: mem},
		{kind: stepSend, data: payload},
		{kind: stepStop},
	}
}

// readProgram is the fixed step list of a read transaction:
// START, device+W, ACK, word address, ACK, repeated START, device+R, ACK,
// data byte sampled, master ACK, STOP.
func readProgram(dev, mem byte) []step {
	return []step{
		{kind: stepStart},
		{kind: stepSend, data: dev << 1, dev: true},
		{kind: stepSend, data: mem},
		{kind: stepRestart},
		{kind: stepSend, data: dev<<1 | 1, dev: true},
		{kind: stepRecv},
		{kind: stepStop},
	}
}

// sequencer walks the fixed step list of one transaction, one bit slot per
// serial-clock period. It owns all per-transaction state; a fresh sequencer
// is built for every transaction and dropped on return to idle.
type sequencer struct {
	eng        engine
	steps      []step
	idx        int  // current step
	bit        int  // bit cursor 0..8 within stepSend/stepRecv; 8 is the acknowledge slot
	acc        byte // read accumulator, MSB first
	stopOnNACK bool

	err  error // ErrNACK or ErrNoDevice when aborted
	done bool
}

func newSequencer(sda cpld.Wire, steps []step, stopOnNACK bool) *sequencer {
	s := &sequencer{eng: engine{sda: sda}, steps: steps, stopOnNACK: stopOnNACK}
	s.arm()
	return s
}

// arm loads the engine with the bus operation for the current cursor.
func (s *sequencer) arm() {
	st := s.steps[s.idx]
	switch st.kind {
	case stepStart, stepRestart:
		s.eng.begin(opStart, false)
	case stepStop:
		s.eng.begin(opStop, false)
	case stepSend:
		if s.bit < 8 {
			s.eng.begin(opWriteBit, st.data&(0x80>>s.bit) != 0)
		} else {
			// acknowledge slot: release the line and sample it
			s.eng.begin(opReadBit, false)
		}
	case stepRecv:
		if s.bit < 8 {
			s.eng.begin(opReadBit, false)
		} else {
			// the master always acknowledges the received byte
			s.eng.begin(opWriteBit, false)
		}
	}
}

// onPhase feeds one phase pulse to the engine and, when a slot completes,
// records its result and moves the cursor.
func (s *sequencer) onPhase(p Phase) {
	if s.done {
		return
	}
	s.eng.onPhase(p)
	if !s.eng.done || p != PhaseFall {
		return
	}

	st := s.steps[s.idx]
	switch st.kind {
	case stepStart, stepRestart, stepStop:
		s.idx++
	case stepSend:
		if s.bit < 8 {
			s.bit++
			break
		}
		if s.eng.in {
			// line left high in the acknowledge slot
			s.abort(st)
			return
		}
		s.bit = 0
		s.idx++
	case stepRecv:
		if s.bit < 8 {
			s.acc <<= 1
			if s.eng.in {
				s.acc |= 1
			}
			s.bit++
			break
		}
		s.bit = 0
		s.idx++
	}

	if s.idx == len(s.steps) {
		s.finish()
		return
	}
	s.arm()
}

// abort ends the transaction on a missing acknowledge. The reference design
// leaves the bus without a STOP; stopOnNACK emits one instead.
func (s *sequencer) abort(st step) {
	if st.dev {
		s.err = ErrNoDevice
	} else {
		s.err = ErrNACK
	}
	if s.stopOnNACK {
		s.steps = []step{{kind: stepStop}}
		s.idx = 0
		s.bit = 0
		s.arm()
		return
	}
	s.finish()
}

func (s *sequencer) finish() {
	s.done = true
	s.eng.op = opIdle
	s.eng.sda.Release()
}
