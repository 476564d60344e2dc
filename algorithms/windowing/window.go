package windowing

import (
	"math"
	"strings"

	"github.com/RyanBlaney/acorde-sonar/algorithms/common"
)

// Type names one of the supported taper functions
type Type string

const (
	TypeNone     Type = "none"
	TypeHann     Type = "hann"
	TypeHamming  Type = "hamming"
	TypeBlackman Type = "blackman"
)

// Types lists every supported window in presentation order
var Types = []Type{TypeNone, TypeHann, TypeHamming, TypeBlackman}

// Window is a taper applied elementwise to a signal before transformation
type Window interface {
	// Apply returns a tapered copy of signal, or nil on a size mismatch
	Apply(signal []float64) []float64

	// Coefficients returns a copy of the window weights
	Coefficients() []float64

	// Sum returns the sum of the window weights
	Sum() float64

	Size() int
	Type() Type
}

// ParseType resolves a window name. Matching is case-insensitive; an empty
// or unknown name is rejected rather than defaulted.
func ParseType(name string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(name)))
	if !t.Valid() {
		return "", common.InvalidConfigf("unsupported window %q (use none, hann, hamming or blackman)", name)
	}
	return t, nil
}

// Valid reports whether t is one of the supported windows
func (t Type) Valid() bool {
	switch t {
	case TypeNone, TypeHann, TypeHamming, TypeBlackman:
		return true
	}
	return false
}

func (t Type) String() string {
	return string(t)
}

// New builds a symmetric window of the requested type and size
func New(t Type, size int) (Window, error) {
	if size <= 0 {
		return nil, common.InvalidConfigf("window size must be positive: %d", size)
	}

	switch t {
	case TypeNone:
		return NewRectangular(size), nil
	case TypeHann:
		return NewHann(size, true), nil
	case TypeHamming:
		return NewHamming(size, true), nil
	case TypeBlackman:
		return NewBlackman(size, true), nil
	default:
		return nil, common.InvalidConfigf("unsupported window %q", string(t))
	}
}

// cosineSum fills coefficients for a generalized cosine window
// w[n] = a0 - a1*cos(x) + a2*cos(2x), x = 2*pi*n/denominator.
// A single-sample window is always [1].
func cosineSum(size int, symmetric bool, a0, a1, a2 float64) []float64 {
	coefficients := make([]float64, size)
	if size == 1 {
		coefficients[0] = 1.0
		return coefficients
	}

	denominator := float64(size)
	if symmetric {
		denominator = float64(size - 1)
	}

	for i := range size {
		arg := 2 * math.Pi * float64(i) / denominator
		coefficients[i] = a0 - a1*math.Cos(arg) + a2*math.Cos(2*arg)
	}
	return coefficients
}

func applyCoefficients(coefficients, signal []float64) []float64 {
	if len(signal) != len(coefficients) {
		return nil
	}

	windowed := make([]float64, len(signal))
	for i := range signal {
		windowed[i] = signal[i] * coefficients[i]
	}
	return windowed
}

func copyCoefficients(coefficients []float64) []float64 {
	coeffs := make([]float64, len(coefficients))
	copy(coeffs, coefficients)
	return coeffs
}
