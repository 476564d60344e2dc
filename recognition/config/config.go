package config

import (
	"math"

	"github.com/RyanBlaney/acorde-sonar/algorithms/common"
	"github.com/RyanBlaney/acorde-sonar/algorithms/harmonic"
	"github.com/RyanBlaney/acorde-sonar/algorithms/tonal"
	"github.com/RyanBlaney/acorde-sonar/algorithms/windowing"
)

// AnalysisConfig holds the tunables of the spectrum → peaks → chord pipeline
type AnalysisConfig struct {
	// Spectral Analysis
	Window        windowing.Type `json:"window" yaml:"window" mapstructure:"window"`
	TransformSize int            `json:"transform_size" yaml:"transform_size" mapstructure:"transform_size"` // 0 = buffer length

	// Peak extraction
	MinPeakCount int     `json:"min_peak_count" yaml:"min_peak_count" mapstructure:"min_peak_count"`
	BandLow      float64 `json:"band_low" yaml:"band_low" mapstructure:"band_low"`    // Hz, exclusive
	BandHigh     float64 `json:"band_high" yaml:"band_high" mapstructure:"band_high"` // Hz, exclusive
	RefinePeaks  bool    `json:"refine_peaks" yaml:"refine_peaks" mapstructure:"refine_peaks"`

	// Derive the band from the catalog range widened by BandMargin instead
	// of BandLow/BandHigh
	BandFromCatalog bool    `json:"band_from_catalog" yaml:"band_from_catalog" mapstructure:"band_from_catalog"`
	BandMargin      float64 `json:"band_margin" yaml:"band_margin" mapstructure:"band_margin"`

	// Matching parameters
	Tolerance float64 `json:"tolerance" yaml:"tolerance" mapstructure:"tolerance"` // Hz

	// Batch processing
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`
}

// DefaultAnalysisConfig returns the configuration the default catalog was
// tuned for
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		Window:          windowing.TypeHann,
		TransformSize:   0,
		MinPeakCount:    harmonic.DefaultMinPeakCount,
		BandLow:         harmonic.DefaultBandLow,
		BandHigh:        harmonic.DefaultBandHigh,
		RefinePeaks:     false,
		BandFromCatalog: false,
		BandMargin:      50.0,
		Tolerance:       tonal.DefaultTolerance,
		Concurrency:     4,
	}
}

// Validate checks the configuration. Every failure wraps
// common.ErrInvalidConfiguration.
func (c *AnalysisConfig) Validate() error {
	if !c.Window.Valid() {
		return common.InvalidConfigf("unsupported window %q", string(c.Window))
	}
	if c.TransformSize < 0 {
		return common.InvalidConfigf("transform size must not be negative: %d", c.TransformSize)
	}
	if c.BandFromCatalog {
		if c.BandMargin < 0 {
			return common.InvalidConfigf("band margin must not be negative: %g", c.BandMargin)
		}
	} else if !(c.BandLow < c.BandHigh) || c.BandLow < 0 {
		return common.InvalidConfigf("invalid band (%g, %g)", c.BandLow, c.BandHigh)
	}
	if c.Tolerance < 0 || math.IsNaN(c.Tolerance) {
		return common.InvalidConfigf("tolerance must not be negative: %g", c.Tolerance)
	}
	if c.Concurrency < 0 {
		return common.InvalidConfigf("concurrency must not be negative: %d", c.Concurrency)
	}
	return nil
}
