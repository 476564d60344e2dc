package windowing

import "github.com/RyanBlaney/acorde-sonar/algorithms/common"

// Hann represents a Hann window function
type Hann struct {
	size         int
	symmetric    bool
	coefficients []float64
	sum          float64
}

// NewHann creates a new Hann window. Symmetric windows use N-1 as the
// period denominator, periodic ones use N.
func NewHann(size int, symmetric bool) *Hann {
	h := &Hann{
		size:      size,
		symmetric: symmetric,
	}
	h.coefficients = cosineSum(size, symmetric, 0.5, 0.5, 0.0)
	h.sum = common.Sum(h.coefficients)
	return h
}

// Apply applies the window to a signal (creates new array)
func (h *Hann) Apply(signal []float64) []float64 {
	return applyCoefficients(h.coefficients, signal)
}

// Coefficients returns a copy of the window coefficients
func (h *Hann) Coefficients() []float64 {
	return copyCoefficients(h.coefficients)
}

func (h *Hann) Sum() float64 { return h.sum }
func (h *Hann) Size() int    { return h.size }
func (h *Hann) Type() Type   { return TypeHann }
