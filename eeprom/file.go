package eeprom

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// mapFile opens or creates the backing file and maps the memory array onto
// it. A freshly created file is initialised to the erased state (0xff);
// existing contents are used as-is.
func (d *Device) mapFile() error {
	f, err := os.OpenFile(d.cfg.File, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("eeprom: open backing file: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("eeprom: stat backing file: %w", err)
	}
	fresh := st.Size() == 0
	if st.Size() != int64(d.cfg.Size) {
		if err := f.Truncate(int64(d.cfg.Size)); err != nil {
			f.Close()
			return fmt.Errorf("eeprom: size backing file: %w", err)
		}
	}
	mm, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return fmt.Errorf("eeprom: map backing file: %w", err)
	}
	if fresh {
		for i := range mm {
			mm[i] = 0xff
		}
	}
	d.file = f
	d.mm = mm
	d.mem = mm
	return nil
}

// Flush writes the memory array through to the backing file, if any.
func (d *Device) Flush() error {
	if d.mm == nil {
		return nil
	}
	if err := d.mm.Flush(); err != nil {
		return fmt.Errorf("eeprom: flush backing file: %w", err)
	}
	return nil
}

// Close flushes and unmaps the backing file. It is a no-op for a purely
// in-memory device.
func (d *Device) Close() error {
	if d.mm == nil {
		return nil
	}
	err := d.mm.Flush()
	if uerr := d.mm.Unmap(); err == nil {
		err = uerr
	}
	if cerr := d.file.Close(); err == nil {
		err = cerr
	}
	d.mm = nil
	d.file = nil
	d.mem = nil
	if err != nil {
		return fmt.Errorf("eeprom: close backing file: %w", err)
	}
	return nil
}
