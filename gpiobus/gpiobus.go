// Package gpiobus adapts the controller's bus lines to real GPIO pins via
// periph.io, so the same tick-level master can bit-bang physical SCL/SDA.
// Open-drain is done with the usual open-collector idiom: a low level is
// actively driven, a high or released line becomes an input with the
// pull-up enabled.
package gpiobus

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/physic"

	cpld "github.com/AIDevelopersMonster/CPLD-EPM240-570"
)

// Pin implements cpld.Wire on a periph.io pin. Pin configuration errors are
// sticky; check Err once the bus conversation is over.
type Pin struct {
	p   gpio.PinIO
	err error
}

// NewPin wraps p, leaving it released (input, pulled up).
func NewPin(p gpio.PinIO) *Pin {
	pin := &Pin{p: p}
	pin.Release()
	return pin
}

func (p *Pin) Drive(v bool) {
	if v {
		p.set(p.p.In(gpio.PullUp, gpio.NoEdge))
		return
	}
	p.set(p.p.Out(gpio.Low))
}

func (p *Pin) Release() {
	p.set(p.p.In(gpio.PullUp, gpio.NoEdge))
}

func (p *Pin) Level() bool {
	return p.p.Read() == gpio.High
}

// Err returns the first pin configuration error, if any.
func (p *Pin) Err() error { return p.err }

func (p *Pin) set(err error) {
	if p.err == nil && err != nil {
		p.err = err
	}
}

// Run ticks t at the given system-tick frequency until ctx is done. With the
// default 100-tick clock divider, a 400 kHz tick rate yields a 4 kHz serial
// clock.
func Run(ctx context.Context, t cpld.Ticker, f physic.Frequency) error {
	if f <= 0 {
		return fmt.Errorf("gpiobus: invalid tick frequency %s", f)
	}
	tk := time.NewTicker(f.Period())
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tk.C:
			t.Tick()
		}
	}
}
