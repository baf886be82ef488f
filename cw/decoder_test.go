package cw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testFrameRate = 36.0
	testMarkMag   = 1.0
	testSpaceMag  = 0.05
)

func appendRun(mags []float64, mag float64, frames int) []float64 {
	for i := 0; i < frames; i++ {
		mags = append(mags, mag)
	}
	return mags
}

// appendLetterA appends one "A" (.-) at the given dit length in frames,
// followed by an inter-character gap.
func appendLetterA(mags []float64, uf int) []float64 {
	mags = appendRun(mags, testMarkMag, uf)     // dit
	mags = appendRun(mags, testSpaceMag, uf)    // intra-element gap
	mags = appendRun(mags, testMarkMag, 3*uf)   // dah
	mags = appendRun(mags, testSpaceMag, 3*uf)  // inter-character gap
	return mags
}

func feedAll(d *Decoder, mags []float64) []Event {
	var events []Event
	for _, m := range mags {
		events = append(events, d.Feed(m)...)
	}
	return events
}

func TestDecoderLocksAndDecodesRepeatedLetter(t *testing.T) {
	const wpm = 20.0
	const uf = 2 // round(ditFrames(20, 36)) == round(2.16) == 2

	d := NewDecoder(testFrameRate, 5, 35)

	var mags []float64
	for i := 0; i < 30; i++ {
		mags = appendLetterA(mags, uf)
	}

	events := feedAll(d, mags)

	require.True(t, d.IsLocked(), "decoder should have acquired a WPM lock")
	assert.InDelta(t, wpm, d.LockedWPM(), 10)

	sawLocked := false
	sawA := false
	for _, ev := range events {
		switch ev.Kind {
		case Locked:
			sawLocked = true
		case Char:
			if ev.Char == 'A' {
				sawA = true
			}
		}
	}
	assert.True(t, sawLocked, "expected a Locked event")
	assert.True(t, sawA, "expected at least one decoded 'A'")
}

func TestDecoderDeclaresLostAfterExtendedSilence(t *testing.T) {
	const uf = 2
	d := NewDecoder(testFrameRate, 5, 35)

	var mags []float64
	for i := 0; i < 30; i++ {
		mags = appendLetterA(mags, uf)
	}
	feedAll(d, mags)
	require.True(t, d.IsLocked())

	unitEst := d.unitEst
	silenceFrames := int(lostTimeoutDits*unitEst) + 20

	var sawLost bool
	for i := 0; i < silenceFrames; i++ {
		for _, ev := range d.Feed(testSpaceMag) {
			if ev.Kind == Lost {
				sawLost = true
			}
		}
	}

	assert.True(t, sawLost, "expected a Lost event after extended silence")
	assert.False(t, d.IsLocked())
}

func TestNewDecoderStartsInAcquire(t *testing.T) {
	d := NewDecoder(testFrameRate, 5, 35)
	assert.False(t, d.IsLocked())
	assert.Equal(t, AcquireState, d.state)
}
