package i2c

// delayTimer enforces the settle interval between bus transactions, modeling
// the EEPROM's internal write-cycle time. Start arms it; the counter runs
// once per tick while armed until the limit, then rewinds to zero and
// reports elapsed. Stop disarms and clears everything.
type delayTimer struct {
	limit   int
	cnt     int
	armed   bool
	elapsed bool
}

func (t *delayTimer) Start() {
	if !t.armed && !t.elapsed {
		t.armed = true
	}
}

func (t *delayTimer) Stop() {
	t.armed = false
	t.cnt = 0
	t.elapsed = false
}

func (t *delayTimer) Tick() {
	if !t.armed {
		return
	}
	t.cnt++
	if t.cnt >= t.limit {
		t.cnt = 0
		t.armed = false
		t.elapsed = true
	}
}

func (t *delayTimer) Elapsed() bool { return t.elapsed }
