package cpld

// Wire is one party's handle on a bus line. Drive asserts a level on the
// line, Release stops driving so the line floats to its pull-up or to
// whatever another party drives, Level reads the current line level.
// A Wire must be released before an external party is expected to drive.
type Wire interface {
	Drive(v bool)
	Release()
	Level() bool
}

// A Ticker advances one system-clock tick at a time. Every emulated block is
// synchronous to the same free-running tick source; a block that waits for
// something does so by staying in the same state across ticks, never by
// stalling the source.
type Ticker interface {
	Tick()
}

// Step drives every Ticker through n ticks, in the given order within each
// tick.
func Step(n int, ts ...Ticker) {
	for i := 0; i < n; i++ {
		for _, t := range ts {
			t.Tick()
		}
	}
}
