// Package recognition runs the chord recognition pipeline: a windowed
// magnitude spectrum, adaptive peak extraction and catalog matching.
package recognition

import (
	"time"

	"github.com/RyanBlaney/acorde-sonar/algorithms/harmonic"
	"github.com/RyanBlaney/acorde-sonar/algorithms/spectral"
	"github.com/RyanBlaney/acorde-sonar/algorithms/tonal"
	"github.com/RyanBlaney/acorde-sonar/logging"
	"github.com/RyanBlaney/acorde-sonar/recognition/config"
)

// Analysis is the outcome of one buffer: the spectrum it produced, the
// ranked in-band peaks and the chord decision
type Analysis struct {
	Spectrum    *spectral.Spectrum      `json:"-"`
	Peaks       []harmonic.SpectralPeak `json:"peaks"`
	PeakStats   harmonic.PeakStats      `json:"peak_stats"`
	Match       tonal.ChordMatch        `json:"match"`
	SampleRate  int                     `json:"sample_rate"`
	Duration    time.Duration           `json:"duration"`
	ProcessTime time.Duration           `json:"process_time"`
}

// Recognizer wires the three analysis stages together. It keeps no state
// between calls and may be used from several goroutines.
type Recognizer struct {
	config     *config.AnalysisConfig
	estimator  *spectral.SpectrumEstimator
	extractor  *harmonic.PeakExtractor
	classifier *tonal.ChordClassifier
	logger     logging.Logger
}

// NewRecognizer validates cfg and builds a recognizer over catalog. A nil cfg
// selects the defaults; a nil catalog selects the built-in one.
func NewRecognizer(cfg *config.AnalysisConfig, catalog *tonal.Catalog) (*Recognizer, error) {
	if cfg == nil {
		cfg = config.DefaultAnalysisConfig()
	}
	if catalog == nil {
		catalog = tonal.DefaultCatalog()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	classifier, err := tonal.NewChordClassifier(catalog, cfg.Tolerance)
	if err != nil {
		return nil, err
	}

	low, high := Band(cfg, catalog)
	extractor := harmonic.NewPeakExtractorWithParams(harmonic.PeakExtractionParams{
		MinPeakCount: cfg.MinPeakCount,
		BandLow:      low,
		BandHigh:     high,
		Refine:       cfg.RefinePeaks,
	})

	logger := logging.WithFields(logging.Fields{
		"component": "recognizer",
		"window":    cfg.Window,
		"band_low":  low,
		"band_high": high,
	})

	return &Recognizer{
		config:     cfg,
		estimator:  spectral.NewSpectrumEstimator(),
		extractor:  extractor,
		classifier: classifier,
		logger:     logger,
	}, nil
}

// Band returns the peak band used for cfg: either the configured edges or
// the catalog's frequency range widened by the margin
func Band(cfg *config.AnalysisConfig, catalog *tonal.Catalog) (low, high float64) {
	if !cfg.BandFromCatalog {
		return cfg.BandLow, cfg.BandHigh
	}

	lo, hi := catalog.FrequencyRange()
	return max(lo-cfg.BandMargin, 0), hi + cfg.BandMargin
}

// Config returns the recognizer configuration
func (r *Recognizer) Config() *config.AnalysisConfig {
	return r.config
}

// Catalog returns the catalog chords are matched against
func (r *Recognizer) Catalog() *tonal.Catalog {
	return r.classifier.Catalog()
}

// Analyze runs the full pipeline on one buffer. An invalid buffer aborts the
// analysis with an error; an unrecognised chord is reported in the result.
func (r *Recognizer) Analyze(samples []float64, sampleRate int) (*Analysis, error) {
	start := time.Now()

	spectrum, err := r.estimator.Estimate(samples, sampleRate, r.config.Window, r.config.TransformSize)
	if err != nil {
		r.logger.Debug("Spectrum estimation failed", logging.Fields{"error": err.Error()})
		return nil, err
	}

	peaks := r.extractor.Extract(spectrum)
	match := r.classifier.Classify(peaks)

	analysis := &Analysis{
		Spectrum:    spectrum,
		Peaks:       peaks,
		PeakStats:   harmonic.CalculatePeakStats(peaks),
		Match:       match,
		SampleRate:  sampleRate,
		Duration:    time.Duration(float64(len(samples)) / float64(sampleRate) * float64(time.Second)),
		ProcessTime: time.Since(start),
	}

	r.logger.Debug("Analysis completed", logging.Fields{
		"samples":    len(samples),
		"peaks":      len(peaks),
		"label":      match.Label,
		"score":      match.Score,
		"process_ms": analysis.ProcessTime.Milliseconds(),
	})

	return analysis, nil
}
