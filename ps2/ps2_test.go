package ps2_test

import (
	"testing"

	"github.com/AIDevelopersMonster/CPLD-EPM240-570/ps2"
)

// clockBit holds the data line steady through one full clock period, long
// enough for both levels to make it through the sampling pipeline.
func clockBit(r *ps2.Receiver, bit bool) {
	for i := 0; i < 6; i++ {
		r.Sample(true, bit)
	}
	for i := 0; i < 6; i++ {
		r.Sample(false, bit)
	}
}

func odd(b byte) bool {
	n := 0
	for ; b != 0; b >>= 1 {
		n += int(b & 1)
	}
	return n%2 == 1
}

// sendFrame clocks a full 11-bit frame and then returns the clock line high.
func sendFrame(r *ps2.Receiver, b byte, flipParity, badStop bool) {
	clockBit(r, false) // start
	for i := 0; i < 8; i++ {
		clockBit(r, b>>uint(i)&1 == 1)
	}
	parity := !odd(b)
	if flipParity {
		parity = !parity
	}
	clockBit(r, parity)
	clockBit(r, !badStop)
	for i := 0; i < 6; i++ {
		r.Sample(true, true)
	}
}

func TestReceiveScanCodes(t *testing.T) {
	r := ps2.NewReceiver()
	for _, b := range []byte{0x1c, 0x00, 0xff, 0xaa, 0xf0} {
		sendFrame(r, b, false, false)
		got, fresh := r.Byte()
		if !fresh || got != b {
			t.Fatalf("Byte() = %#02x, %v after sending %#02x", got, fresh, b)
		}
		if _, fresh := r.Byte(); fresh {
			t.Fatal("second read must not report the byte as new")
		}
	}
	if r.BadFrames != 0 {
		t.Errorf("BadFrames = %d after clean frames", r.BadFrames)
	}
}

func TestBadParityDropsFrame(t *testing.T) {
	r := ps2.NewReceiver()
	sendFrame(r, 0x5a, true, false)
	if _, fresh := r.Byte(); fresh {
		t.Fatal("frame with bad parity must not deliver a byte")
	}
	if r.BadFrames != 1 {
		t.Errorf("BadFrames = %d, want 1", r.BadFrames)
	}

	// the receiver recovers on the next clean frame
	sendFrame(r, 0x5a, false, false)
	if got, fresh := r.Byte(); !fresh || got != 0x5a {
		t.Fatalf("Byte() = %#02x, %v after recovery frame", got, fresh)
	}
}

func TestBadStopDropsFrame(t *testing.T) {
	r := ps2.NewReceiver()
	sendFrame(r, 0x33, false, true)
	if _, fresh := r.Byte(); fresh {
		t.Fatal("frame with a low stop bit must not deliver a byte")
	}
	if r.BadFrames != 1 {
		t.Errorf("BadFrames = %d, want 1", r.BadFrames)
	}
}
