package harmonic

import (
	"math"
	"slices"

	"github.com/RyanBlaney/acorde-sonar/algorithms/common"
	"github.com/RyanBlaney/acorde-sonar/algorithms/spectral"
	"github.com/RyanBlaney/acorde-sonar/logging"
	"gonum.org/v1/gonum/stat"
)

// Thresholds of the adaptive search, as fractions of the spectrum maximum
const (
	InitialProminenceRatio = 0.10
	MinProminenceRatio     = 0.001
	ProminenceDecay        = 0.8
	MinHeightRatio         = 0.01
	FallbackHeightRatio    = 0.05

	DefaultMinPeakCount = 5
	DefaultBandLow      = 450.0
	DefaultBandHigh     = 1400.0
)

// maxRelaxations bounds the adaptive loop: the number of decay steps needed
// to bring the initial prominence ratio down to the minimum one (21)
var maxRelaxations = int(math.Ceil(math.Log(InitialProminenceRatio/MinProminenceRatio) / math.Log(1/ProminenceDecay)))

// SpectralPeak represents a detected spectral peak
type SpectralPeak struct {
	Frequency  float64 `json:"frequency"`  // Peak frequency in Hz
	Magnitude  float64 `json:"magnitude"`  // Peak magnitude
	BinIndex   int     `json:"bin_index"`  // Original FFT bin index
	Prominence float64 `json:"prominence"` // Height above the higher surrounding base
}

// PeakExtractionParams contains parameters for peak extraction
type PeakExtractionParams struct {
	MinPeakCount int     `json:"min_peak_count"` // Yield the adaptive search tries to reach
	BandLow      float64 `json:"band_low"`       // Exclusive lower band edge in Hz
	BandHigh     float64 `json:"band_high"`      // Exclusive upper band edge in Hz
	Refine       bool    `json:"refine"`         // Parabolic sub-bin refinement of frequency and magnitude
}

// DefaultPeakExtractionParams returns the parameters tuned for the default
// chord catalog
func DefaultPeakExtractionParams() PeakExtractionParams {
	return PeakExtractionParams{
		MinPeakCount: DefaultMinPeakCount,
		BandLow:      DefaultBandLow,
		BandHigh:     DefaultBandHigh,
	}
}

// PeakExtractor finds the most prominent tones of a magnitude spectrum
// without a hand-tuned threshold
type PeakExtractor struct {
	params PeakExtractionParams
	logger logging.Logger
}

// NewPeakExtractor creates a peak extractor with the default band
func NewPeakExtractor(minPeakCount int) *PeakExtractor {
	params := DefaultPeakExtractionParams()
	params.MinPeakCount = minPeakCount
	return NewPeakExtractorWithParams(params)
}

// NewPeakExtractorWithParams creates a peak extractor with custom parameters
func NewPeakExtractorWithParams(params PeakExtractionParams) *PeakExtractor {
	return &PeakExtractor{
		params: params,
		logger: logging.WithFields(logging.Fields{
			"component": "peak_extractor",
		}),
	}
}

// Params returns the extraction parameters
func (pe *PeakExtractor) Params() PeakExtractionParams {
	return pe.params
}

// Extract returns the in-band peaks of spectrum ordered by magnitude,
// largest first; equal magnitudes keep their frequency order. It never fails
// and returns an empty list for an empty or silent spectrum.
func (pe *PeakExtractor) Extract(spectrum *spectral.Spectrum) []SpectralPeak {
	if spectrum == nil || len(spectrum.Magnitude) == 0 {
		return []SpectralPeak{}
	}

	magnitude := spectrum.Magnitude
	maxMag := common.Max(magnitude)
	if maxMag <= 0 {
		return []SpectralPeak{}
	}

	indices, iterations, fallback := pe.search(magnitude, maxMag)

	peaks := make([]SpectralPeak, 0, len(indices))
	for _, idx := range indices {
		peak := SpectralPeak{
			Frequency:  spectrum.Frequencies[idx],
			Magnitude:  magnitude[idx],
			BinIndex:   idx,
			Prominence: Prominence(magnitude, idx),
		}
		if pe.params.Refine {
			peak = refine(magnitude, peak, spectrum.FreqResolution)
		}
		if peak.Frequency <= pe.params.BandLow || peak.Frequency >= pe.params.BandHigh {
			continue
		}
		peaks = append(peaks, peak)
	}

	slices.SortStableFunc(peaks, func(a, b SpectralPeak) int {
		switch {
		case a.Magnitude > b.Magnitude:
			return -1
		case a.Magnitude < b.Magnitude:
			return 1
		}
		return 0
	})

	pe.logger.Debug("Peaks extracted", logging.Fields{
		"found":      len(indices),
		"in_band":    len(peaks),
		"iterations": iterations,
		"fallback":   fallback,
	})

	return peaks
}

// search runs the prominence relaxation loop and, if the yield is still
// short, the height-only fallback
func (pe *PeakExtractor) search(magnitude []float64, maxMag float64) (indices []int, iterations int, fallback bool) {
	minCount := max(pe.params.MinPeakCount, 1)
	prominence := InitialProminenceRatio * maxMag
	floor := MinProminenceRatio * maxMag

	for iterations < maxRelaxations && len(indices) < minCount && prominence > floor {
		indices = FindPeaks(magnitude, PeakCriteria{
			MinHeight:     MinHeightRatio * maxMag,
			MinProminence: prominence,
		})
		prominence *= ProminenceDecay
		iterations++
	}

	if len(indices) < minCount {
		indices = FindPeaks(magnitude, PeakCriteria{MinHeight: FallbackHeightRatio * maxMag})
		fallback = true
	}

	return indices, iterations, fallback
}

// refine moves a peak to the vertex of the parabola through its bin and the
// two neighbours
func refine(magnitude []float64, peak SpectralPeak, resolution float64) SpectralPeak {
	idx := peak.BinIndex
	if idx <= 0 || idx >= len(magnitude)-1 {
		return peak
	}

	offset, height, ok := common.ParabolicVertex(magnitude[idx-1], magnitude[idx], magnitude[idx+1])
	if !ok {
		return peak
	}

	peak.Frequency = (float64(idx) + offset) * resolution
	peak.Magnitude = height
	return peak
}

// PeakStats summarizes a peak list
type PeakStats struct {
	Count         int     `json:"count"`
	MaxMagnitude  float64 `json:"max_magnitude"`
	MinMagnitude  float64 `json:"min_magnitude"`
	MeanMagnitude float64 `json:"mean_magnitude"`
	MinFrequency  float64 `json:"min_frequency"`
	MaxFrequency  float64 `json:"max_frequency"`
}

// CalculatePeakStats calculates statistics for detected peaks
func CalculatePeakStats(peaks []SpectralPeak) PeakStats {
	if len(peaks) == 0 {
		return PeakStats{}
	}

	magnitudes := make([]float64, len(peaks))
	frequencies := make([]float64, len(peaks))
	for i, peak := range peaks {
		magnitudes[i] = peak.Magnitude
		frequencies[i] = peak.Frequency
	}

	minMag, maxMag := common.MinMax(magnitudes)
	minFreq, maxFreq := common.MinMax(frequencies)

	return PeakStats{
		Count:         len(peaks),
		MaxMagnitude:  maxMag,
		MinMagnitude:  minMag,
		MeanMagnitude: stat.Mean(magnitudes, nil),
		MinFrequency:  minFreq,
		MaxFrequency:  maxFreq,
	}
}
