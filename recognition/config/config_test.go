package config

import (
	"testing"

	"github.com/RyanBlaney/acorde-sonar/algorithms/common"
	"github.com/RyanBlaney/acorde-sonar/algorithms/windowing"
	"github.com/stretchr/testify/assert"
)

func TestDefaultAnalysisConfigIsValid(t *testing.T) {
	cfg := DefaultAnalysisConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, windowing.TypeHann, cfg.Window)
	assert.Equal(t, 5, cfg.MinPeakCount)
	assert.Equal(t, 450.0, cfg.BandLow)
	assert.Equal(t, 1400.0, cfg.BandHigh)
}

func TestValidateRejects(t *testing.T) {
	mutations := map[string]func(*AnalysisConfig){
		"window":         func(c *AnalysisConfig) { c.Window = "" },
		"transform size": func(c *AnalysisConfig) { c.TransformSize = -1 },
		"band order":     func(c *AnalysisConfig) { c.BandLow, c.BandHigh = 1400, 450 },
		"tolerance":      func(c *AnalysisConfig) { c.Tolerance = -1 },
		"concurrency":    func(c *AnalysisConfig) { c.Concurrency = -2 },
		"margin": func(c *AnalysisConfig) {
			c.BandFromCatalog = true
			c.BandMargin = -5
		},
	}

	for name, mutate := range mutations {
		cfg := DefaultAnalysisConfig()
		mutate(cfg)
		assert.ErrorIs(t, cfg.Validate(), common.ErrInvalidConfiguration, name)
	}
}

func TestBandIgnoredWhenDerivedFromCatalog(t *testing.T) {
	cfg := DefaultAnalysisConfig()
	cfg.BandFromCatalog = true
	cfg.BandLow, cfg.BandHigh = 0, 0
	assert.NoError(t, cfg.Validate())
}
