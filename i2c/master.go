package i2c

import (
	"github.com/rs/zerolog"

	cpld "github.com/AIDevelopersMonster/CPLD-EPM240-570"
)

// Mode is the top-level lifecycle state of the controller. Idle is both the
// initial and the terminal state of every transaction.
type Mode uint8

const (
	Idle Mode = iota
	Writing
	Reading
)

func (m Mode) String() string {
	switch m {
	case Writing:
		return "writing"
	case Reading:
		return "reading"
	}
	return "idle"
}

// Op identifies the kind of a transaction.
type Op uint8

const (
	OpWrite Op = iota
	OpRead
)

func (o Op) String() string {
	if o == OpRead {
		return "read"
	}
	return "write"
}

// Result reports the outcome of the most recent transaction. Data is valid
// only for a successful read. Err is ErrNACK or ErrNoDevice when the
// transaction was aborted on a missing acknowledge.
type Result struct {
	Op   Op
	OK   bool
	Data byte
	Err  error
}

// Config holds the fixed configuration of a Master.
type Config struct {
	Device byte // 7-bit device address of the EEPROM
	Mem    byte // memory address used for every transaction
	Period int  // serial-clock divider period, in system ticks
	Settle int  // settle interval between transactions, in system ticks

	// StopOnNACK emits a STOP even when aborting on a missing acknowledge.
	// The reference design leaves the bus without one.
	StopOnNACK bool
}

// DefaultConfig matches the source design: a 24Cxx EEPROM at 0x50, a 100:1
// clock divider and an 800000-tick settle interval.
var DefaultConfig = Config{
	Device: 0x50,
	Mem:    0x00,
	Period: 100,
	Settle: 800000,
}

// Master is the transaction arbiter: it owns the serial clock, selects
// between idle, write and read modes, gates entry on the request lines plus
// the settle delay, and returns to idle on completion or NACK. It implements
// cpld.Ticker; the request lines are sampled once per tick.
type Master struct {
	cfg Config
	log zerolog.Logger

	scl cpld.Wire
	sda cpld.Wire

	phase  phaseGen
	settle delayTimer

	mode Mode
	seq  *sequencer

	writeReq  bool
	readReq   bool
	payloadIn byte
	payload   byte // latched when the settle gate first arms

	last      Result
	readData  byte
	readValid bool
}

// New returns a Master driving the given clock and data wires. New panics if
// the configuration is invalid.
func New(scl, sda cpld.Wire, cfg Config) *Master {
	if cfg.Period < 4 {
		panic("i2c: Period < 4")
	}
	if cfg.Settle < 1 {
		panic("i2c: Settle < 1")
	}
	m := &Master{
		cfg:   cfg,
		log:   zerolog.Nop(),
		scl:   scl,
		sda:   sda,
		phase: newPhaseGen(cfg.Period),
	}
	m.settle.limit = cfg.Settle
	m.scl.Drive(true)
	m.sda.Release()
	return m
}

// SetLogger installs a logger for protocol events. The default discards
// everything.
func (m *Master) SetLogger(l zerolog.Logger) { m.log = l }

// SetWriteRequest sets the level of the write-request line. The line must be
// held through the whole settle window for the request to be honored.
func (m *Master) SetWriteRequest(v bool) { m.writeReq = v }

// SetReadRequest sets the level of the read-request line.
func (m *Master) SetReadRequest(v bool) { m.readReq = v }

// SetPayload sets the write payload input. The value is latched into the
// transaction when a request is first accepted into the settle gate.
func (m *Master) SetPayload(b byte) { m.payloadIn = b }

// Mode returns the current arbiter state.
func (m *Master) Mode() Mode { return m.mode }

// Busy reports whether a transaction is in flight.
func (m *Master) Busy() bool { return m.mode != Idle }

// ReadData returns the byte received by the last successful read. It stays
// valid until overwritten by the next successful read.
func (m *Master) ReadData() (byte, bool) { return m.readData, m.readValid }

// LastResult returns the outcome of the most recent transaction.
func (m *Master) LastResult() Result { return m.last }

// Tick advances the controller one system tick.
func (m *Master) Tick() {
	m.settle.Tick()

	// The divider free-runs and the serial clock follows it even while
	// idle, as in the source design; the bus has a single device and START
	// detection keys on the data line.
	switch p := m.phase.tick(); p {
	case PhaseNone:
	case PhaseRise:
		m.scl.Drive(true)
		if m.seq != nil {
			m.seq.onPhase(p)
		}
	case PhaseFall:
		m.scl.Drive(false)
		if m.seq != nil {
			m.seq.onPhase(p)
		}
	default:
		if m.seq != nil {
			m.seq.onPhase(p)
		}
	}

	if m.mode == Idle {
		m.gate()
		return
	}
	if m.seq != nil && m.seq.done {
		m.finish()
	}
}

// gate implements the settle-delay debounce on the request lines. The timer
// starts when a request is first observed; the request must then stay
// asserted through the whole settle window before a transaction begins.
// Write wins when both lines are asserted.
func (m *Master) gate() {
	if !m.writeReq && !m.readReq {
		m.settle.Stop()
		return
	}
	if !m.settle.armed && !m.settle.Elapsed() {
		m.settle.Start()
		m.payload = m.payloadIn
		m.log.Debug().Int("settle", m.cfg.Settle).Msg("request observed, settle gate armed")
		return
	}
	if !m.settle.Elapsed() {
		return
	}
	m.settle.Stop()
	if m.writeReq {
		m.begin(OpWrite)
	} else {
		m.begin(OpRead)
	}
}

func (m *Master) begin(op Op) {
	var steps []step
	switch op {
	case OpWrite:
		m.mode = Writing
		steps = writeProgram(m.cfg.Device, m.cfg.Mem, m.payload)
	case OpRead:
		m.mode = Reading
		steps = readProgram(m.cfg.Device, m.cfg.Mem)
	}
	m.seq = newSequencer(m.sda, steps, m.cfg.StopOnNACK)
	ev := m.log.Debug().
		Str("op", op.String()).
		Uint8("device", m.cfg.Device).
		Uint8("addr", m.cfg.Mem)
	if op == OpWrite {
		ev = ev.Uint8("payload", m.payload)
	}
	ev.Msg("transaction started")
}

func (m *Master) finish() {
	res := Result{Op: OpWrite}
	if m.mode == Reading {
		res.Op = OpRead
	}
	if err := m.seq.err; err != nil {
		res.Err = err
		m.log.Debug().Err(err).Str("op", res.Op.String()).Msg("transaction aborted")
	} else {
		res.OK = true
		if m.mode == Reading {
			res.Data = m.seq.acc
			m.readData = m.seq.acc
			m.readValid = true
		}
		ev := m.log.Debug().Str("op", res.Op.String())
		if res.Op == OpRead {
			ev = ev.Uint8("data", res.Data)
		}
		ev.Msg("transaction complete")
	}
	m.last = res
	m.seq = nil
	m.mode = Idle
	// a fresh settle window is required before the next transaction
	m.settle.Stop()
}
