package timing

import "time"

// TXTicker is a recurring deadline timer that fires once per symbol
// period. Start/Stop are synchronous and idempotent: calling Stop on an
// already-stopped ticker, or Start on an already-running one, has no
// additional effect. The period is supplied to Start rather than fixed;
// the OOK48 transmit paths start it at one ninth of a second.
type TXTicker struct {
	ticker  *time.Ticker
	running bool
}

// NewTXTicker returns a stopped TXTicker.
func NewTXTicker() *TXTicker {
	return &TXTicker{}
}

// Start begins firing on C every period. It is a no-op if already running.
func (t *TXTicker) Start(period time.Duration) <-chan time.Time {
	if t.running {
		return t.ticker.C
	}
	t.ticker = time.NewTicker(period)
	t.running = true
	return t.ticker.C
}

// Stop cancels the ticker. It is a no-op if already stopped.
func (t *TXTicker) Stop() {
	if !t.running {
		return
	}
	t.ticker.Stop()
	t.running = false
}

// Running reports whether the ticker is currently firing.
func (t *TXTicker) Running() bool {
	return t.running
}
