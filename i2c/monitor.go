package i2c

import (
	"strings"

	cpld "github.com/AIDevelopersMonster/CPLD-EPM240-570"
)

// EventKind classifies a decoded bus condition.
type EventKind uint8

const (
	EventStart EventKind = iota
	EventStop
	EventBit
)

// Event is one decoded bus condition. Bit is meaningful for EventBit only;
// acknowledge slots appear as ordinary bits.
type Event struct {
	Kind EventKind
	Bit  bool
}

func (e Event) String() string {
	switch e.Kind {
	case EventStart:
		return "S"
	case EventStop:
		return "P"
	}
	if e.Bit {
		return "1"
	}
	return "0"
}

// Monitor is a passive bus observer. It samples both lines once per tick and
// decodes START, STOP and bit events; byte and acknowledge framing is left
// to the consumer. A bit is latched on the clock's rising edge but only
// committed on the falling edge, so the SDA movement of a START or STOP
// never counts as data.
type Monitor struct {
	scl *cpld.Line
	sda *cpld.Line

	tscl cpld.Trace
	tsda cpld.Trace

	active  bool // between START and STOP
	pending bool
	bit     bool

	events []Event
}

func NewMonitor(scl, sda *cpld.Line) *Monitor {
	return &Monitor{
		scl:  scl,
		sda:  sda,
		tscl: cpld.NewTrace(),
		tsda: cpld.NewTrace(),
	}
}

// Tick samples the lines for the current system tick. Implements
// cpld.Ticker.
func (m *Monitor) Tick() {
	m.tscl.Tick(m.scl.Level())
	m.tsda.Tick(m.sda.Level())

	switch {
	case m.tscl.Hi() && m.tsda.Falling():
		m.pending = false
		m.active = true
		m.events = append(m.events, Event{Kind: EventStart})
	case m.tscl.Hi() && m.tsda.Rising():
		m.pending = false
		if m.active {
			m.active = false
			m.events = append(m.events, Event{Kind: EventStop})
		}
	case m.tscl.Rising() && m.active:
		m.pending = true
		m.bit = m.tsda.Hi()
	case m.tscl.Falling() && m.pending:
		m.pending = false
		m.events = append(m.events, Event{Kind: EventBit, Bit: m.bit})
	}
}

// Events returns the decoded events so far.
func (m *Monitor) Events() []Event { return m.events }

// Reset discards all recorded events.
func (m *Monitor) Reset() {
	m.events = nil
	m.pending = false
}

// Trace renders the recorded events as a compact string, e.g.
// "S101000000...P", with S for START, P for STOP and one digit per bit.
func (m *Monitor) Trace() string {
	var b strings.Builder
	for _, e := range m.events {
		b.WriteString(e.String())
	}
	return b.String()
}
