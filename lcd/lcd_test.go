package lcd_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/AIDevelopersMonster/CPLD-EPM240-570/lcd"
)

// capture runs the controller for n ticks and collects the (RS, Data) pair
// present at every falling edge of EN, the way the display latches it.
func capture(c *lcd.Controller, n int) []lcd.Op {
	var ops []lcd.Op
	en := c.EN()
	for i := 0; i < n; i++ {
		c.Tick()
		if en && !c.EN() {
			ops = append(ops, lcd.Op{RS: c.RS(), Data: c.Data()})
		}
		en = c.EN()
	}
	return ops
}

func TestInitThenText(t *testing.T) {
	c := lcd.NewController(8)
	c.WriteString("Hi")

	got := capture(c, 8*8)
	want := []lcd.Op{
		{Data: 0x38},
		{Data: 0x0c},
		{Data: 0x01},
		{Data: 0x06},
		{RS: true, Data: 'H'},
		{RS: true, Data: 'i'},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("strobed cycles mismatch (-want +got):\n%s", diff)
	}
	if !c.Idle() {
		t.Error("controller should be idle after the queue drains")
	}
}

func TestWriteWhileRunning(t *testing.T) {
	c := lcd.NewController(8)
	capture(c, 8*2) // two init cycles already strobed
	c.Write(lcd.Op{Data: 0x80})

	got := capture(c, 8*4)
	want := []lcd.Op{
		{Data: 0x01},
		{Data: 0x06},
		{Data: 0x80},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("strobed cycles mismatch (-want +got):\n%s", diff)
	}
}

func TestIdleBeforeFirstWrite(t *testing.T) {
	c := lcd.NewController(4)
	if c.Idle() {
		t.Fatal("controller starts with the init program queued")
	}
	capture(c, 4*5)
	if !c.Idle() {
		t.Fatal("controller should go idle once the init program drains")
	}
}
