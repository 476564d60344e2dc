package spectral

import (
	"math"
	"testing"

	"github.com/RyanBlaney/acorde-sonar/algorithms/common"
	"github.com/RyanBlaney/acorde-sonar/algorithms/synthesis"
	"github.com/RyanBlaney/acorde-sonar/algorithms/windowing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SpectrumEstimatorTestSuite struct {
	suite.Suite
	estimator *SpectrumEstimator
}

func (s *SpectrumEstimatorTestSuite) SetupTest() {
	s.estimator = NewSpectrumEstimator()
}

func TestSpectrumEstimatorTestSuite(t *testing.T) {
	suite.Run(t, new(SpectrumEstimatorTestSuite))
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

func (s *SpectrumEstimatorTestSuite) TestFrequencyAxisShape() {
	cases := []struct {
		length        int
		transformSize int
	}{
		{length: 64, transformSize: 0},
		{length: 63, transformSize: 0},
		{length: 100, transformSize: 256},
		{length: 100, transformSize: 255},
		{length: 2, transformSize: 0},
	}

	for _, tc := range cases {
		signal := make([]float64, tc.length)
		for i := range signal {
			signal[i] = math.Sin(float64(i))
		}

		spec, err := s.estimator.Estimate(signal, 8000, windowing.TypeHann, tc.transformSize)
		s.Require().NoError(err)

		n := tc.transformSize
		if n == 0 {
			n = tc.length
		}
		s.Equal(n/2+1, spec.Bins())
		s.Len(spec.Magnitude, n/2+1)
		s.Len(spec.MagnitudeDB, n/2+1)
		s.Equal(0.0, spec.Frequencies[0])
		s.InDelta(8000.0/float64(n), spec.FreqResolution, 1e-12)

		for i := 1; i < len(spec.Frequencies); i++ {
			s.Greater(spec.Frequencies[i], spec.Frequencies[i-1])
			s.InDelta(spec.FreqResolution, spec.Frequencies[i]-spec.Frequencies[i-1], 1e-9)
		}
	}
}

func (s *SpectrumEstimatorTestSuite) TestPureSineRecovery() {
	const (
		sampleRate = 44100
		f0         = 1000.0
		amplitude  = 0.8
	)
	_, signal, err := synthesis.Sine(f0, 1.0, sampleRate, amplitude)
	s.Require().NoError(err)

	for _, window := range windowing.Types {
		spec, err := s.estimator.Estimate(signal, sampleRate, window, 0)
		s.Require().NoError(err)

		peak := argmax(spec.Magnitude)
		s.InDelta(f0, spec.Frequencies[peak], spec.FreqResolution, "window %s", window)
		s.InEpsilon(amplitude, spec.Magnitude[peak], 0.03, "window %s", window)
	}
}

func (s *SpectrumEstimatorTestSuite) TestOddTransformDoublesLastBin() {
	const sampleRate = 1000
	n := 101
	signal := make([]float64, n)
	// bin 50 is the last bin of a 101-point transform
	freq := 50.0 * sampleRate / float64(n)
	for i := range signal {
		signal[i] = 0.5 * math.Cos(2*math.Pi*freq*float64(i)/sampleRate)
	}

	spec, err := s.estimator.Estimate(signal, sampleRate, windowing.TypeNone, 0)
	s.Require().NoError(err)
	s.Equal(51, spec.Bins())
	s.InDelta(0.5, spec.Magnitude[50], 1e-2)
}

func (s *SpectrumEstimatorTestSuite) TestDCAndNyquistAreNotDoubled() {
	constant := []float64{1, 1, 1, 1, 1, 1, 1, 1}
	spec, err := s.estimator.Estimate(constant, 8, windowing.TypeNone, 0)
	s.Require().NoError(err)
	s.InDelta(1.0, spec.Magnitude[0], 1e-12)

	alternating := []float64{1, -1, 1, -1, 1, -1, 1, -1}
	spec, err = s.estimator.Estimate(alternating, 8, windowing.TypeNone, 0)
	s.Require().NoError(err)
	s.InDelta(1.0, spec.Magnitude[4], 1e-12)
	s.InDelta(0.0, spec.Magnitude[0], 1e-12)
}

func (s *SpectrumEstimatorTestSuite) TestEstimateIsDeterministic() {
	_, signal, err := synthesis.Chord([]float64{523.25, 659.25, 783.99}, 8000, 0.25, 0.9)
	s.Require().NoError(err)
	original := append([]float64(nil), signal...)

	first, err := s.estimator.Estimate(signal, 8000, windowing.TypeBlackman, 4096)
	s.Require().NoError(err)
	second, err := s.estimator.Estimate(signal, 8000, windowing.TypeBlackman, 4096)
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Equal(original, signal)
}

func (s *SpectrumEstimatorTestSuite) TestSilenceHasFiniteDecibels() {
	spec, err := s.estimator.Estimate(make([]float64, 32), 1000, windowing.TypeHamming, 0)
	s.Require().NoError(err)

	for i := range spec.Magnitude {
		s.Equal(0.0, spec.Magnitude[i])
		s.InDelta(-240.0, spec.MagnitudeDB[i], 1e-9)
	}
}

func (s *SpectrumEstimatorTestSuite) TestSingleSampleBuffer() {
	spec, err := s.estimator.Estimate([]float64{-0.25}, 44100, windowing.TypeHann, 0)
	s.Require().NoError(err)

	s.Equal([]float64{0}, spec.Frequencies)
	s.Require().Len(spec.Magnitude, 1)
	s.InDelta(0.25, spec.Magnitude[0], 1e-12)
}

func TestEstimateRejectsInvalidInput(t *testing.T) {
	estimator := NewSpectrumEstimator()
	signal := []float64{0, 1, 0, -1}

	_, err := estimator.Estimate(nil, 44100, windowing.TypeHann, 0)
	assert.ErrorIs(t, err, common.ErrEmptySignal)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)

	_, err = estimator.Estimate(signal, 44100, windowing.TypeHann, 3)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)

	_, err = estimator.Estimate(signal, 44100, windowing.Type(""), 0)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)

	_, err = estimator.Estimate(signal, 44100, windowing.Type("kaiser"), 0)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)

	_, err = estimator.Estimate(signal, 0, windowing.TypeHann, 0)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
}

func TestFrequencyAxis(t *testing.T) {
	freqs := FrequencyAxis(8, 8000)
	require.Len(t, freqs, 5)
	assert.Equal(t, []float64{0, 1000, 2000, 3000, 4000}, freqs)
	assert.Empty(t, FrequencyAxis(0, 8000))
}

func TestComputePaddedZeroPads(t *testing.T) {
	f := NewFFT()
	padded := f.ComputePadded([]float64{1, 1}, 4)
	require.Len(t, padded, 4)
	assert.InDelta(t, 2.0, real(padded[0]), 1e-12)
	assert.Len(t, f.ComputePadded([]float64{1, 2, 3}, 2), 3)
}
