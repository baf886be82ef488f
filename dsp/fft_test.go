package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMagnitudesFindsASingleTone(t *testing.T) {
	const blockSize = 256
	const sampleRate = 1024.0
	const toneBin = 20

	samples := make([]float64, blockSize)
	freq := toneBin * sampleRate / blockSize
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}

	s := NewRealSpectrum[float64](blockSize)
	require.Equal(t, blockSize, s.BlockSize())

	magnitude := make([]float64, 10)
	s.Magnitudes(samples, toneBin-5, 10, magnitude)

	peakOffset := 0
	for i, v := range magnitude {
		if v > magnitude[peakOffset] {
			peakOffset = i
		}
	}
	assert.Equal(t, 5, peakOffset, "the tone's own bin should carry the largest magnitude")
}

func TestMagnitudesPanicsOnLengthMismatch(t *testing.T) {
	s := NewRealSpectrum[float64](64)
	assert.Panics(t, func() {
		s.Magnitudes(make([]float64, 32), 0, 8, make([]float64, 8))
	})
	assert.Panics(t, func() {
		s.Magnitudes(make([]float64, 64), 0, 8, make([]float64, 4))
	})
}
