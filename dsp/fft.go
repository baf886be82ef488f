package dsp

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

// RealSpectrum computes windowed magnitude spectra for a real-valued
// (non-IQ) sample stream, the shape every decode mode's front end needs:
// a Hann-windowed block goes in, a magnitude-per-bin vector comes out.
// The window and FFT scratch buffers are retained across calls so a
// RealSpectrum can be reused once per sample frame without allocating.
type RealSpectrum[T Number] struct {
	window   []float64
	real     []float64
	fftInput []complex128
}

// NewRealSpectrum returns a RealSpectrum sized for blocks of blockSize
// real samples, with a Hann window precomputed for that size.
func NewRealSpectrum[T Number](blockSize int) *RealSpectrum[T] {
	return &RealSpectrum[T]{
		window:   hannWindow(blockSize),
		real:     make([]float64, blockSize),
		fftInput: make([]complex128, blockSize),
	}
}

func hannWindow(size int) []float64 {
	w := make([]float64, size)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}
	return w
}

// BlockSize is the number of real samples this RealSpectrum expects per call.
func (s *RealSpectrum[T]) BlockSize() int {
	return len(s.window)
}

// Magnitudes applies the Hann window to samples, runs the forward real FFT,
// and copies numBins magnitudes starting at startBin into magnitude.
// samples must have length BlockSize(); magnitude must have length numBins.
func (s *RealSpectrum[T]) Magnitudes(samples []T, startBin, numBins int, magnitude []T) {
	if len(samples) != len(s.window) {
		panic(fmt.Sprintf("expected %d samples, got %d", len(s.window), len(samples)))
	}
	if len(magnitude) != numBins {
		panic(fmt.Sprintf("magnitude slice must have length %d, got %d", numBins, len(magnitude)))
	}

	for i, sample := range samples {
		s.real[i] = float64(sample) * s.window[i]
	}

	fftResult := fft.FFTReal(s.real)

	for m := 0; m < numBins; m++ {
		bin := startBin + m
		magnitude[m] = T(cmplx.Abs(fftResult[bin]))
	}
}

