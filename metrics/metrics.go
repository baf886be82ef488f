// Package metrics exposes the DSP context's level and decode-outcome
// counters as Prometheus collectors, using the promauto-registered
// gauge/counter convention rather than hand-rolled counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the DSP context updates. A nil *Metrics is
// safe to call methods on — every Record/Set method is a no-op in that
// case — so callers that run without a `serve` HTTP endpoint never need to
// guard every call site.
type Metrics struct {
	audioLevel *prometheus.GaugeVec

	ook48Decodes *prometheus.CounterVec

	beaconAttempts *prometheus.CounterVec
	beaconSuccess  *prometheus.CounterVec

	morseLocked prometheus.Gauge
	morseWPM    prometheus.Gauge
	morseChars  prometheus.Counter
}

// New registers every collector against the default Prometheus registerer
// and returns a Metrics. Call it at most once per process; promauto panics
// on a duplicate registration.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer is New but against an explicit registerer, so tests (or
// a `cmd/serve.go` that wants an isolated registry) don't collide with
// other Metrics instances in the same process.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		audioLevel: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ook48_audio_level",
				Help: "Current input audio level, by channel.",
			},
			[]string{"channel"},
		),
		ook48Decodes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ook48_decode_outcomes_total",
				Help: "OOK48 character decode outcomes by kind (decoded, low_confidence, invalid_code).",
			},
			[]string{"kind"},
		),
		beaconAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "beacon_decode_attempts_total",
				Help: "Beacon frame decode attempts by mode (jt4, pi4).",
			},
			[]string{"mode"},
		),
		beaconSuccess: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "beacon_decode_success_total",
				Help: "Beacon frame decodes that produced a message, by mode (jt4, pi4).",
			},
			[]string{"mode"},
		),
		morseLocked: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "morse_locked",
				Help: "1 if the Morse decoder currently holds lock, else 0.",
			},
		),
		morseWPM: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "morse_wpm",
				Help: "Current Morse decoder speed estimate in words per minute.",
			},
		),
		morseChars: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "morse_characters_total",
				Help: "Total Morse characters emitted by the decoder.",
			},
		),
	}
}

// SetAudioLevel records the current input level for channel.
func (m *Metrics) SetAudioLevel(channel string, level float64) {
	if m == nil {
		return
	}
	m.audioLevel.WithLabelValues(channel).Set(level)
}

// RecordOOK48Outcome increments the counter for an OOK48 decode outcome kind.
func (m *Metrics) RecordOOK48Outcome(kind string) {
	if m == nil {
		return
	}
	m.ook48Decodes.WithLabelValues(kind).Inc()
}

// RecordBeaconAttempt increments the attempt counter for a beacon mode.
func (m *Metrics) RecordBeaconAttempt(mode string) {
	if m == nil {
		return
	}
	m.beaconAttempts.WithLabelValues(mode).Inc()
}

// RecordBeaconSuccess increments the success counter for a beacon mode.
func (m *Metrics) RecordBeaconSuccess(mode string) {
	if m == nil {
		return
	}
	m.beaconSuccess.WithLabelValues(mode).Inc()
}

// SetMorseLock records the Morse decoder's lock state and, while locked,
// its current speed estimate.
func (m *Metrics) SetMorseLock(locked bool, wpm float64) {
	if m == nil {
		return
	}
	if locked {
		m.morseLocked.Set(1)
		m.morseWPM.Set(wpm)
	} else {
		m.morseLocked.Set(0)
	}
}

// RecordMorseChar increments the Morse character counter.
func (m *Metrics) RecordMorseChar() {
	if m == nil {
		return
	}
	m.morseChars.Inc()
}
