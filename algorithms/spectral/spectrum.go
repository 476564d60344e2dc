package spectral

import (
	"math/cmplx"

	"github.com/RyanBlaney/acorde-sonar/algorithms/common"
	"github.com/RyanBlaney/acorde-sonar/algorithms/windowing"
	"github.com/RyanBlaney/acorde-sonar/logging"
)

// DBFloor is added to every magnitude before the decibel conversion so a
// silent bin never produces log(0)
const DBFloor = 1e-12

// Spectrum is a single-sided, amplitude-normalized magnitude spectrum.
// All three slices have TransformSize/2+1 entries.
type Spectrum struct {
	Frequencies    []float64      `json:"frequencies"`     // Bin centre frequencies in Hz, ascending from 0
	Magnitude      []float64      `json:"magnitude"`       // Linear amplitude per bin
	MagnitudeDB    []float64      `json:"magnitude_db"`    // 20*log10(magnitude + DBFloor), informational
	SampleRate     int            `json:"sample_rate"`     // Sample rate of the source buffer
	TransformSize  int            `json:"transform_size"`  // FFT length after zero padding
	SignalLength   int            `json:"signal_length"`   // Number of source samples
	FreqResolution float64        `json:"freq_resolution"` // Hz per bin
	Window         windowing.Type `json:"window"`          // Taper applied before the transform
}

// Bins returns the number of frequency bins
func (s *Spectrum) Bins() int {
	return len(s.Frequencies)
}

// SpectrumEstimator converts time-domain buffers into single-sided
// magnitude spectra. It holds no per-call state and is safe for concurrent use.
type SpectrumEstimator struct {
	fft    *FFT
	logger logging.Logger
}

// NewSpectrumEstimator creates a new spectrum estimator
func NewSpectrumEstimator() *SpectrumEstimator {
	return &SpectrumEstimator{
		fft: NewFFT(),
		logger: logging.WithFields(logging.Fields{
			"component": "spectrum_estimator",
		}),
	}
}

// Estimate tapers signal with the requested window, transforms it over
// transformSize points (0 means len(signal)) and returns the normalized
// single-sided spectrum.
//
// Magnitudes are divided by the sum of the window weights (or by the signal
// length when that sum is zero) and every bin except DC, and Nyquist for an
// even transform size, is doubled to fold in the negative frequencies.
func (e *SpectrumEstimator) Estimate(signal []float64, sampleRate int, window windowing.Type, transformSize int) (*Spectrum, error) {
	if len(signal) == 0 {
		return nil, common.ErrEmptySignal
	}
	if sampleRate <= 0 {
		return nil, common.InvalidConfigf("sample rate must be positive: %d", sampleRate)
	}
	if !window.Valid() {
		return nil, common.InvalidConfigf("unsupported window %q", string(window))
	}

	n := transformSize
	if n == 0 {
		n = len(signal)
	}
	if n < len(signal) {
		return nil, common.InvalidConfigf("transform size (%d) must be >= signal length (%d)", n, len(signal))
	}

	logger := e.logger.WithFields(logging.Fields{
		"function":       "Estimate",
		"signal_length":  len(signal),
		"transform_size": n,
		"window":         window,
	})

	w, err := windowing.New(window, len(signal))
	if err != nil {
		return nil, err
	}

	spectrum := e.fft.ComputePadded(w.Apply(signal), n)

	scale := w.Sum()
	if scale == 0 {
		scale = float64(len(signal))
	}

	bins := n/2 + 1
	magnitude := make([]float64, bins)
	for k := range bins {
		magnitude[k] = cmplx.Abs(spectrum[k]) / scale
	}

	// Nyquist only exists as its own bin for even sizes
	last := bins
	if n%2 == 0 {
		last = bins - 1
	}
	for k := 1; k < last; k++ {
		magnitude[k] *= 2.0
	}

	result := &Spectrum{
		Frequencies:    FrequencyAxis(n, sampleRate),
		Magnitude:      magnitude,
		MagnitudeDB:    common.AmplitudeToDB(magnitude, DBFloor),
		SampleRate:     sampleRate,
		TransformSize:  n,
		SignalLength:   len(signal),
		FreqResolution: float64(sampleRate) / float64(n),
		Window:         window,
	}

	logger.Debug("Spectrum estimated", logging.Fields{
		"freq_bins":       bins,
		"freq_resolution": result.FreqResolution,
		"window_sum":      scale,
	})

	return result, nil
}
