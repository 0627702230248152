// Package eeprom emulates a 24C02-style serial EEPROM attached to the
// bit-banged I2C bus. The device watches the clock and data lines once per
// system tick, decodes START/STOP conditions and MSB-first bytes, drives the
// data line only during its acknowledge slots and read-data bits, and keeps
// a byte array that can optionally be backed by a memory-mapped file.
package eeprom

import (
	"errors"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/rs/zerolog"

	cpld "github.com/AIDevelopersMonster/CPLD-EPM240-570"
)

type state uint8

const (
	stopped state = iota
	deviceSelect
	wordAddress
	dataWrite
	dataRead
)

// Config holds the device configuration. The zero value selects a 256-byte
// device at address 0x50 with no write-cycle delay and no backing file.
type Config struct {
	Addr byte // 7-bit device address
	Size int  // memory size in bytes, at most 256

	// WriteCycle is the length of the internal write cycle in system
	// ticks. After a STOP that follows a byte write the device stays
	// silent for this long and will not acknowledge its address. Zero
	// disables the model.
	WriteCycle int

	// File names an optional backing file. When set the memory array is a
	// memory-mapped view of the file and survives Close/New cycles.
	File string
}

// Device is the emulated EEPROM. It implements cpld.Ticker.
type Device struct {
	cfg Config
	log zerolog.Logger

	scl *cpld.Line
	sda *cpld.Line
	drv *cpld.Driver

	tscl cpld.Trace
	tsda cpld.Trace

	state     state
	bits      byte
	nbits     int
	ackSlot   bool
	sent      bool // read data byte fully shifted out
	masterAck bool
	wrote     bool
	busy      int

	addr int
	out  byte

	mem  []byte
	mm   mmap.MMap
	file *os.File
}

// New attaches a device to the given lines.
func New(scl, sda *cpld.Line, cfg Config) (*Device, error) {
	if cfg.Addr == 0 {
		cfg.Addr = 0x50
	}
	if cfg.Addr > 0x7f {
		return nil, fmt.Errorf("eeprom: device address %#02x does not fit in 7 bits", cfg.Addr)
	}
	if cfg.Size == 0 {
		cfg.Size = 256
	}
	if cfg.Size < 1 || cfg.Size > 256 {
		return nil, errors.New("eeprom: only sizes of 1 to 256 bytes are addressable with a single word-address byte")
	}

	d := &Device{
		cfg:  cfg,
		log:  zerolog.Nop(),
		scl:  scl,
		sda:  sda,
		drv:  sda.Attach(),
		tscl: cpld.NewTrace(),
		tsda: cpld.NewTrace(),
	}

	if cfg.File == "" {
		d.mem = make([]byte, cfg.Size)
		for i := range d.mem {
			d.mem[i] = 0xff
		}
		return d, nil
	}
	if err := d.mapFile(); err != nil {
		return nil, err
	}
	return d, nil
}

// SetLogger installs a logger for protocol events. The default discards
// everything.
func (d *Device) SetLogger(l zerolog.Logger) { d.log = l }

// Peek returns the memory byte at addr without touching the bus.
func (d *Device) Peek(addr byte) byte { return d.mem[int(addr)%len(d.mem)] }

// Poke stores v at addr without touching the bus.
func (d *Device) Poke(addr, v byte) { d.mem[int(addr)%len(d.mem)] = v }

// Size returns the memory size in bytes.
func (d *Device) Size() int { return len(d.mem) }

// Busy reports whether the device is inside its internal write cycle.
func (d *Device) Busy() bool { return d.busy > 0 }

// Tick samples the bus lines for the current system tick and advances the
// protocol state machine.
func (d *Device) Tick() {
	d.tscl.Tick(d.scl.Level())
	d.tsda.Tick(d.sda.Level())

	if d.busy > 0 {
		d.busy--
		if d.busy == 0 {
			d.log.Debug().Msg("write cycle complete")
		}
		return
	}

	// START and STOP: data edge while the clock is high.
	if d.tscl.Hi() && d.tsda.Falling() {
		d.state = deviceSelect
		d.bits = 0
		d.nbits = 0
		d.ackSlot = false
		d.sent = false
		d.drv.Release()
		d.log.Debug().Msg("start condition")
		return
	}
	if d.tscl.Hi() && d.tsda.Rising() {
		if d.state != stopped {
			d.log.Debug().Msg("stop condition")
		}
		d.state = stopped
		d.ackSlot = false
		d.drv.Release()
		if d.wrote && d.cfg.WriteCycle > 0 {
			d.busy = d.cfg.WriteCycle
			d.log.Debug().Int("ticks", d.busy).Msg("write cycle started")
		}
		d.wrote = false
		return
	}

	switch {
	case d.tscl.Rising():
		d.onRise()
	case d.tscl.Falling():
		d.onFall()
	}
}

// onRise samples the data line. The master sets data up while the clock is
// low, so every receive direction latches on the rising edge.
func (d *Device) onRise() {
	if d.ackSlot {
		if d.state == dataRead {
			// the master drives this slot; low means it acknowledged
			d.masterAck = d.tsda.Lo()
		}
		return
	}
	switch d.state {
	case deviceSelect, wordAddress, dataWrite:
		d.bits <<= 1
		if d.tsda.Hi() {
			d.bits |= 1
		}
		d.nbits++
		if d.nbits == 8 {
			d.ackSlot = true
		}
	case dataRead:
		// the master samples the bit we are driving
		d.nbits++
		if d.nbits == 8 {
			d.ackSlot = true
		}
	}
}

// onFall moves the data line. The device changes what it drives only while
// the clock is low.
func (d *Device) onFall() {
	if d.ackSlot && d.nbits == 8 {
		d.enterAck()
		return
	}
	if d.ackSlot {
		d.leaveAck()
		return
	}
	if d.state == dataRead {
		// shift the next bit onto the line
		d.driveBit(d.out&(0x80>>d.nbits) != 0)
	}
}

// enterAck runs once per byte, on the falling edge that opens the
// acknowledge slot.
func (d *Device) enterAck() {
	d.nbits = 0
	switch d.state {
	case deviceSelect:
		if d.bits>>1 != d.cfg.Addr {
			d.log.Debug().Uint8("byte", d.bits).Msg("not addressed")
			d.state = stopped
			d.drv.Release()
			return
		}
		d.drv.Drive(false)
		if d.bits&1 == 1 {
			// current-address read
			d.state = dataRead
			d.out = d.mem[d.addr]
			d.log.Debug().Int("addr", d.addr).Uint8("data", d.out).Msg("selected for read")
		} else {
			d.state = wordAddress
			d.log.Debug().Msg("selected for write")
		}
	case wordAddress:
		d.addr = int(d.bits) % len(d.mem)
		d.drv.Drive(false)
		d.state = dataWrite
		d.log.Debug().Int("addr", d.addr).Msg("word address set")
	case dataWrite:
		d.mem[d.addr] = d.bits
		d.log.Debug().Int("addr", d.addr).Uint8("data", d.bits).Msg("byte written")
		d.addr = (d.addr + 1) % len(d.mem)
		d.wrote = true
		d.drv.Drive(false)
	case dataRead:
		// the acknowledge after a read byte belongs to the master
		d.sent = true
		d.drv.Release()
	}
}

// leaveAck runs on the falling edge that closes the acknowledge slot.
func (d *Device) leaveAck() {
	d.ackSlot = false
	d.bits = 0
	if d.state != dataRead {
		d.drv.Release()
		return
	}
	if d.sent {
		// Single-byte controller scope: after the master's acknowledge
		// the device stops driving and waits for a STOP or a new START
		// instead of streaming the next sequential byte.
		d.log.Debug().Bool("master_ack", d.masterAck).Msg("read complete")
		d.sent = false
		d.addr = (d.addr + 1) % len(d.mem)
		d.state = stopped
		d.drv.Release()
		return
	}
	// first data bit of the outgoing byte
	d.driveBit(d.out&0x80 != 0)
}

// driveBit puts one bit on the open-drain line: zero is actively driven,
// one is the released pull-up level.
func (d *Device) driveBit(v bool) {
	if v {
		d.drv.Release()
	} else {
		d.drv.Drive(false)
	}
}
