// Package cpld provides the shared wire and clocking primitives used by the
// emulated peripheral blocks of the EPM240/570 board.
package cpld

// Line models an open-drain wire with a pull-up resistor. Any number of
// parties attach a Driver; the line reads high unless at least one enabled
// driver holds it low (wired-AND). Contention is avoided by protocol phase
// discipline, not detected here.
type Line struct {
	name string
	drv  []*Driver
}

func NewLine(name string) *Line {
	return &Line{name: name}
}

func (l *Line) Name() string { return l.name }

// Attach connects a new party to the line. The returned Driver starts
// released.
func (l *Line) Attach() *Driver {
	d := &Driver{line: l}
	l.drv = append(l.drv, d)
	return d
}

// Level returns the current line level.
func (l *Line) Level() bool {
	for _, d := range l.drv {
		if d.enabled && !d.value {
			return false
		}
	}
	return true
}

// Driver is one party's connection to a Line. It implements Wire.
type Driver struct {
	line    *Line
	enabled bool
	value   bool
}

// Drive asserts v on the line. Driving high cannot win against another
// party driving low.
func (d *Driver) Drive(v bool) {
	d.enabled = true
	d.value = v
}

// Release stops driving; the line floats to the pull-up unless someone else
// holds it low.
func (d *Driver) Release() {
	d.enabled = false
}

func (d *Driver) Level() bool { return d.line.Level() }
