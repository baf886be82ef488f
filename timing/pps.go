// Package timing implements the PPS-disciplined symbol cadence state
// machine and the symbol-paced transmit ticker.
package timing

import "time"

// State is the PPS cadence state machine's current phase.
type State int

const (
	Idle State = iota
	ArmedForSecond
	Capturing
	FrameReady
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case ArmedForSecond:
		return "ArmedForSecond"
	case Capturing:
		return "Capturing"
	case FrameReady:
		return "FrameReady"
	default:
		return "unknown"
	}
}

// Clock abstracts wall-clock access so the cadence machine can be driven
// deterministically in tests, mirroring the reference's rx.Clock/cw.Clock
// abstractions.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// WallClock is the real-time Clock used in production.
type WallClock struct{}

func (WallClock) Now() time.Time { return time.Now() }

// freeRunTimeout is the "no DMA event" safety window.
const freeRunTimeout = 250 * time.Millisecond

// PPS drives the Idle/ArmedForSecond/Capturing/FrameReady cadence. It holds
// no timer and no cache: ArmRX/ArmTX return the arm delay and the slot the
// tone cache resets to, and the caller (the engine's run loop) runs the
// timer and applies the reset through tonecache.Cache.Reset.
type PPS struct {
	clock Clock

	state         State
	rxRetard      time.Duration
	txAdvance     time.Duration
	halfRate      bool
	armDeadline   time.Time
	lastFrameSeen time.Time
}

// NewPPS returns a PPS cadence machine using clock for all timing decisions.
func NewPPS(clock Clock) *PPS {
	return &PPS{
		clock:         clock,
		state:         Idle,
		lastFrameSeen: clock.Now(),
	}
}

// SetOffsets configures the RX-retard and TX-advance delays applied to the
// next PPS edge. Exactly one of the two is meaningful depending on
// whether the engine is currently receiving or transmitting; the caller
// selects which by calling ArmRX or ArmTX.
func (p *PPS) SetOffsets(rxRetard, txAdvance time.Duration) {
	p.rxRetard = rxRetard
	p.txAdvance = txAdvance
}

// SetHalfRate toggles half-rate cache-point alignment.
func (p *PPS) SetHalfRate(halfRate bool) {
	p.halfRate = halfRate
}

// State returns the current cadence state.
func (p *PPS) State() State {
	return p.state
}

// ArmRX is called on a 1PPS edge while receiving. secondOfMinute is the GPS
// second counter (0..59); its parity selects the half-rate reset point
// (the half-rate cache-point reset parity rule). It returns the delay after
// which Capturing should begin and the slot the cache should reset to.
func (p *PPS) ArmRX(secondOfMinute int) (delay time.Duration, resetSlot int) {
	p.state = ArmedForSecond
	p.armDeadline = p.clock.Now().Add(p.rxRetard)
	return p.rxRetard, p.halfRateResetSlot(secondOfMinute)
}

// ArmTX is called on a 1PPS edge while transmitting, advancing the cadence
// ahead of the second boundary by txAdvance.
func (p *PPS) ArmTX(secondOfMinute int) (delay time.Duration, resetSlot int) {
	p.state = ArmedForSecond
	lead := time.Second - p.txAdvance
	p.armDeadline = p.clock.Now().Add(lead)
	return lead, p.halfRateResetSlot(secondOfMinute)
}

func (p *PPS) halfRateResetSlot(secondOfMinute int) int {
	if p.halfRate && secondOfMinute&1 == 1 {
		return 8
	}
	return 0
}

// BeginCapturing transitions from ArmedForSecond to Capturing once the armed
// delay has elapsed; the cache's write index has already been reset by the
// caller using the resetSlot value returned from Arm{RX,TX}.
func (p *PPS) BeginCapturing() {
	p.state = Capturing
	p.lastFrameSeen = p.clock.Now()
}

// FrameWritten is called once per completed spectrum while Capturing. full
// indicates whether the tone cache just reached its configured size; if so
// the machine transitions to FrameReady, otherwise it stays in Capturing.
func (p *PPS) FrameWritten(full bool) State {
	p.lastFrameSeen = p.clock.Now()
	if p.state != Capturing {
		return p.state
	}
	if full {
		p.state = FrameReady
	}
	return p.state
}

// AcknowledgeFrameReady returns the machine to Idle after the mode decoder
// has consumed a FrameReady event, pending the next PPS.
func (p *PPS) AcknowledgeFrameReady() {
	if p.state == FrameReady {
		p.state = Idle
	}
}

// CheckFreeRun returns true if no frame has been observed for at least the
// free-run safety window, in which case the caller must reset the tone
// cache's slot index to 0 (the "No DMA event for ≥ 250 ms" rule).
func (p *PPS) CheckFreeRun() bool {
	if p.state != Capturing {
		return false
	}
	if p.clock.Now().Sub(p.lastFrameSeen) >= freeRunTimeout {
		p.state = Idle
		return true
	}
	return false
}
