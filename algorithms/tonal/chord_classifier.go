package tonal

import (
	"math"

	"github.com/RyanBlaney/acorde-sonar/algorithms/common"
	"github.com/RyanBlaney/acorde-sonar/algorithms/harmonic"
	"github.com/RyanBlaney/acorde-sonar/logging"
)

const (
	// UnidentifiedLabel is reported when no signature is fully matched
	UnidentifiedLabel = "Acorde Não Identificado"

	// MaxCandidatePeaks is how many of the strongest peaks are compared
	MaxCandidatePeaks = 3

	// DefaultTolerance is the default matching window in Hz
	DefaultTolerance = 5.0
)

// ChordMatch is the outcome of a classification. An unidentified result is
// a normal outcome, not an error: Score still reports the best partial
// match for diagnostics.
type ChordMatch struct {
	Label      string `json:"label"`
	Key        string `json:"key,omitempty"`
	Score      int    `json:"score"`
	Identified bool   `json:"identified"`
}

// ChordClassifier matches ranked spectral peaks against a chord catalog
type ChordClassifier struct {
	catalog   *Catalog
	tolerance float64
	logger    logging.Logger
}

// NewChordClassifier creates a classifier over catalog. tolerance is the
// largest accepted distance in Hz between a peak and a target frequency.
func NewChordClassifier(catalog *Catalog, tolerance float64) (*ChordClassifier, error) {
	if catalog == nil {
		return nil, common.InvalidConfigf("chord catalog is required")
	}
	if tolerance < 0 || math.IsNaN(tolerance) || math.IsInf(tolerance, 0) {
		return nil, common.InvalidConfigf("tolerance must be a non-negative number of Hz: %g", tolerance)
	}

	return &ChordClassifier{
		catalog:   catalog,
		tolerance: tolerance,
		logger: logging.WithFields(logging.Fields{
			"component": "chord_classifier",
		}),
	}, nil
}

// Catalog returns the catalog the classifier matches against
func (cc *ChordClassifier) Catalog() *Catalog {
	return cc.catalog
}

// Tolerance returns the matching window in Hz
func (cc *ChordClassifier) Tolerance() float64 {
	return cc.tolerance
}

// Classify compares the first three peaks (expected strongest first) with
// every signature in catalog order. A signature scores one point per target
// frequency that has a peak within tolerance. The highest score wins and the
// earliest signature wins ties; only a full score of 3 identifies a chord.
func (cc *ChordClassifier) Classify(peaks []harmonic.SpectralPeak) ChordMatch {
	candidates := peaks[:min(len(peaks), MaxCandidatePeaks)]

	bestScore := 0
	var best *ChordSignature
	for i := range cc.catalog.signatures {
		sig := &cc.catalog.signatures[i]
		score := cc.score(sig, candidates)
		if score > bestScore {
			bestScore = score
			best = sig
		}
	}

	match := ChordMatch{Label: UnidentifiedLabel, Score: bestScore}
	if best != nil && bestScore == TonesPerChord {
		match.Label = best.Name
		match.Key = best.Key
		match.Identified = true
	}

	fields := logging.Fields{
		"candidates": len(candidates),
		"score":      bestScore,
		"label":      match.Label,
	}
	if best != nil {
		fields["closest"] = best.Key
	}
	cc.logger.Debug("Chord classified", fields)

	return match
}

func (cc *ChordClassifier) score(sig *ChordSignature, candidates []harmonic.SpectralPeak) int {
	score := 0
	for _, target := range sig.Frequencies {
		for _, peak := range candidates {
			if math.Abs(peak.Frequency-target) <= cc.tolerance {
				score++
				break
			}
		}
	}
	return score
}
