package harmonic

import (
	"testing"

	"github.com/RyanBlaney/acorde-sonar/algorithms/spectral"
	"github.com/RyanBlaney/acorde-sonar/algorithms/windowing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spikeSpectrum builds a 1 Hz resolution spectrum from 0 to 2000 Hz with
// single-bin spikes at the given frequencies
func spikeSpectrum(spikes map[int]float64) *spectral.Spectrum {
	const n = 4000
	spec := &spectral.Spectrum{
		Frequencies:    spectral.FrequencyAxis(n, n),
		Magnitude:      make([]float64, n/2+1),
		SampleRate:     n,
		TransformSize:  n,
		FreqResolution: 1,
		Window:         windowing.TypeNone,
	}
	for bin, mag := range spikes {
		spec.Magnitude[bin] = mag
	}
	return spec
}

func frequencies(peaks []SpectralPeak) []float64 {
	out := make([]float64, len(peaks))
	for i, p := range peaks {
		out[i] = p.Frequency
	}
	return out
}

func TestExtractEmptyAndSilentSpectra(t *testing.T) {
	extractor := NewPeakExtractor(DefaultMinPeakCount)

	assert.Empty(t, extractor.Extract(nil))
	assert.Empty(t, extractor.Extract(&spectral.Spectrum{}))

	spec, err := spectral.NewSpectrumEstimator().Estimate(make([]float64, 1024), 44100, windowing.TypeHann, 0)
	require.NoError(t, err)
	peaks := extractor.Extract(spec)
	assert.NotNil(t, peaks)
	assert.Empty(t, peaks)
}

func TestExtractFlatSpectrumTerminates(t *testing.T) {
	spec := spikeSpectrum(nil)
	for i := range spec.Magnitude {
		spec.Magnitude[i] = 0.5
	}
	assert.Empty(t, NewPeakExtractor(10).Extract(spec))
}

func TestExtractBandIsExclusive(t *testing.T) {
	spec := spikeSpectrum(map[int]float64{
		100:  1.0,
		450:  0.9,
		451:  0.1,
		900:  0.8,
		1399: 0.7,
		1400: 0.6,
		1800: 0.5,
	})

	// 451 sits next to 450 and is not a local maximum
	peaks := NewPeakExtractor(DefaultMinPeakCount).Extract(spec)
	assert.Equal(t, []float64{900, 1399}, frequencies(peaks))
	for _, p := range peaks {
		assert.Greater(t, p.Frequency, DefaultBandLow)
		assert.Less(t, p.Frequency, DefaultBandHigh)
	}
}

func TestExtractRanksByMagnitudeStably(t *testing.T) {
	spec := spikeSpectrum(map[int]float64{
		500: 0.5,
		600: 0.5,
		700: 0.5,
		800: 1.0,
		900: 0.2,
	})

	peaks := NewPeakExtractor(DefaultMinPeakCount).Extract(spec)
	require.Len(t, peaks, 5)
	assert.Equal(t, []float64{800, 500, 600, 700, 900}, frequencies(peaks))
	for i := 1; i < len(peaks); i++ {
		assert.GreaterOrEqual(t, peaks[i-1].Magnitude, peaks[i].Magnitude)
	}
}

func TestExtractRelaxesProminence(t *testing.T) {
	spec := spikeSpectrum(map[int]float64{
		500: 1.0,
		600: 0.03,
	})

	// the second spike only clears the prominence threshold after a few
	// relaxation steps
	peaks := NewPeakExtractor(2).Extract(spec)
	assert.Equal(t, []float64{500, 600}, frequencies(peaks))

	indices, iterations, fallback := NewPeakExtractor(2).search(spec.Magnitude, 1.0)
	assert.Equal(t, []int{500, 600}, indices)
	assert.Greater(t, iterations, 1)
	assert.False(t, fallback)
}

func TestExtractFallsBackToHeightOnly(t *testing.T) {
	spec := spikeSpectrum(map[int]float64{
		500: 1.0,
		600: 0.03,
		700: 0.06,
	})

	// 100 peaks can never be reached: the fallback keeps spikes >= 5% only
	extractor := NewPeakExtractor(100)
	peaks := extractor.Extract(spec)
	assert.Equal(t, []float64{500, 700}, frequencies(peaks))

	_, iterations, fallback := extractor.search(spec.Magnitude, 1.0)
	assert.Equal(t, maxRelaxations, iterations)
	assert.True(t, fallback)
}

func TestMaxRelaxations(t *testing.T) {
	assert.Equal(t, 21, maxRelaxations)
}

func TestExtractNonPositiveMinCountStillSearches(t *testing.T) {
	spec := spikeSpectrum(map[int]float64{700: 1.0})
	assert.Equal(t, []float64{700}, frequencies(NewPeakExtractor(0).Extract(spec)))
}

func TestExtractCustomBand(t *testing.T) {
	spec := spikeSpectrum(map[int]float64{
		200:  1.0,
		1500: 0.9,
	})

	extractor := NewPeakExtractorWithParams(PeakExtractionParams{
		MinPeakCount: 2,
		BandLow:      100,
		BandHigh:     2000,
	})
	assert.Equal(t, []float64{200, 1500}, frequencies(extractor.Extract(spec)))
}

func TestExtractRefinement(t *testing.T) {
	spec := spikeSpectrum(nil)
	spec.Magnitude[599] = 0.5
	spec.Magnitude[600] = 1.0
	spec.Magnitude[601] = 0.5
	spec.Magnitude[700] = 0.5
	spec.Magnitude[701] = 1.0
	spec.Magnitude[702] = 0.9

	params := DefaultPeakExtractionParams()
	params.Refine = true
	peaks := NewPeakExtractorWithParams(params).Extract(spec)
	require.Len(t, peaks, 2)

	assert.InDelta(t, 701.0, peaks[0].Frequency, 0.5)
	assert.Greater(t, peaks[0].Frequency, 701.0)
	assert.Greater(t, peaks[0].Magnitude, 1.0)
	assert.InDelta(t, 600.0, peaks[1].Frequency, 1e-9)
	assert.InDelta(t, 1.0, peaks[1].Magnitude, 1e-9)
}

func TestCalculatePeakStats(t *testing.T) {
	assert.Equal(t, PeakStats{}, CalculatePeakStats(nil))

	stats := CalculatePeakStats([]SpectralPeak{
		{Frequency: 800, Magnitude: 1.0},
		{Frequency: 500, Magnitude: 0.5},
		{Frequency: 650, Magnitude: 0.3},
	})
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 1.0, stats.MaxMagnitude)
	assert.Equal(t, 0.3, stats.MinMagnitude)
	assert.InDelta(t, 0.6, stats.MeanMagnitude, 1e-12)
	assert.Equal(t, 500.0, stats.MinFrequency)
	assert.Equal(t, 800.0, stats.MaxFrequency)
}
