package dispatch

import "github.com/rszemeti/RP2040-OOK48-Headless/ook48"

// App selects which of the four receive applications is active
// (changed via SET:app); changing it triggers a reboot.
type App int

const (
	AppOOK48 App = iota
	AppJT4
	AppPI4
	AppMorse
)

// MessageSlotCount is the number of addressable TX message slots
// (set via SET:msg:<slot>:<text>).
const MessageSlotCount = 10

// Settings is the in-memory, boot-defaulted configuration record owned by
// the dispatch context. It is never persisted across reboots and is snapshotted atomically into
// DSP parameters on mode change; no component reads a partially-updated
// record.
type Settings struct {
	MessageSlots [MessageSlotCount]string
	LocatorLen   int
	DecodeMode   ook48.DecodeMode
	TXAdvanceMs  int
	RXRetardMs   int
	HalfRate     bool
	App          App
	MorseWPM     int
	Confidence   float64
}

// DefaultSettings returns the boot-time defaults.
func DefaultSettings() Settings {
	return Settings{
		LocatorLen: 6,
		DecodeMode: ook48.Normal,
		App:        AppOOK48,
		MorseWPM:   20,
		Confidence: ook48.DefaultConfidenceThreshold,
	}
}

// Snapshot returns a copy of s, safe to hand to the DSP context on a mode
// change without exposing the live, dispatch-context-owned record.
func (s Settings) Snapshot() Settings {
	return s
}
