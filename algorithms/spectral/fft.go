package spectral

import (
	"github.com/mjibson/go-dsp/fft"
)

// FFT wraps the mjibson/go-dsp transform used as the numeric primitive of
// the estimator
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the full complex transform of a real signal.
// go-dsp handles all sizes, including non-power-of-2.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)
}

// ComputePadded zero-pads x to n samples before transforming. n smaller than
// len(x) truncates nothing: the signal is transformed at its own length.
func (f *FFT) ComputePadded(x []float64, n int) []complex128 {
	if n <= len(x) {
		return f.Compute(x)
	}

	padded := make([]float64, n)
	copy(padded, x)
	return fft.FFTReal(padded)
}

// FrequencyAxis returns the non-negative bin frequencies of an n-point
// real transform: k*sampleRate/n for k in [0, n/2]
func FrequencyAxis(n, sampleRate int) []float64 {
	if n <= 0 {
		return []float64{}
	}

	freqs := make([]float64, n/2+1)
	resolution := float64(sampleRate) / float64(n)
	for k := range freqs {
		freqs[k] = float64(k) * resolution
	}
	return freqs
}
