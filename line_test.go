package cpld

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLineWiredAND(t *testing.T) {
	l := NewLine("SDA")
	a := l.Attach()
	b := l.Attach()

	if !l.Level() {
		t.Fatal("released line should read high")
	}

	a.Drive(false)
	if l.Level() {
		t.Fatal("line should read low while a drives low")
	}

	b.Drive(true)
	if l.Level() {
		t.Fatal("driving high must not win against a low driver")
	}

	a.Release()
	if !l.Level() {
		t.Fatal("line should follow b high after a releases")
	}

	b.Release()
	if !l.Level() {
		t.Fatal("fully released line should float high")
	}

	if a.Level() != l.Level() {
		t.Fatal("driver Level should mirror the line")
	}
}

func TestTraceEdges(t *testing.T) {
	tr := NewTrace()
	if !tr.Hi() || tr.Changed() {
		t.Fatal("new trace should be steady high")
	}

	tr.Tick(false)
	if !tr.Falling() || tr.Rising() {
		t.Fatal("high to low should read as falling")
	}

	tr.Tick(false)
	if tr.Changed() || !tr.Lo() {
		t.Fatal("steady low should not read as an edge")
	}

	tr.Tick(true)
	if !tr.Rising() || tr.Falling() {
		t.Fatal("low to high should read as rising")
	}
}

func TestRecorder(t *testing.T) {
	scl := NewLine("SCL")
	sda := NewLine("SDA")
	d := sda.Attach()

	var buf bytes.Buffer
	r := NewRecorder(&buf, scl, sda)
	if err := r.Header(); err != nil {
		t.Fatal(err)
	}

	r.Tick()
	d.Drive(false)
	r.Tick()
	d.Release()
	r.Tick()

	want := "SCL\tSDA\n1\t1\n1\t0\n1\t1\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("recorder output mismatch (-want +got):\n%s", diff)
	}
	if r.Err() != nil {
		t.Fatal(r.Err())
	}
}
