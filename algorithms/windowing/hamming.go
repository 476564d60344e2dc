package windowing

import "github.com/RyanBlaney/acorde-sonar/algorithms/common"

// Hamming represents a Hamming window function
type Hamming struct {
	size         int
	symmetric    bool
	coefficients []float64
	sum          float64
}

// NewHamming creates a new Hamming window
func NewHamming(size int, symmetric bool) *Hamming {
	h := &Hamming{
		size:      size,
		symmetric: symmetric,
	}
	h.coefficients = cosineSum(size, symmetric, 0.54, 0.46, 0.0)
	h.sum = common.Sum(h.coefficients)
	return h
}

// Apply applies the window to a signal (creates new array)
func (h *Hamming) Apply(signal []float64) []float64 {
	return applyCoefficients(h.coefficients, signal)
}

// Coefficients returns a copy of the window coefficients
func (h *Hamming) Coefficients() []float64 {
	return copyCoefficients(h.coefficients)
}

func (h *Hamming) Sum() float64 { return h.sum }
func (h *Hamming) Size() int    { return h.size }
func (h *Hamming) Type() Type   { return TypeHamming }
