package windowing

import "github.com/RyanBlaney/acorde-sonar/algorithms/common"

// Blackman represents a classic three-term Blackman window
// (a0=0.42, a1=0.5, a2=0.08)
type Blackman struct {
	size         int
	symmetric    bool
	coefficients []float64
	sum          float64
}

// NewBlackman creates a new Blackman window
func NewBlackman(size int, symmetric bool) *Blackman {
	b := &Blackman{
		size:      size,
		symmetric: symmetric,
	}
	b.coefficients = cosineSum(size, symmetric, 0.42, 0.5, 0.08)
	b.sum = common.Sum(b.coefficients)
	return b
}

// Apply applies the window to a signal (creates new array)
func (b *Blackman) Apply(signal []float64) []float64 {
	return applyCoefficients(b.coefficients, signal)
}

// Coefficients returns a copy of the window coefficients
func (b *Blackman) Coefficients() []float64 {
	return copyCoefficients(b.coefficients)
}

func (b *Blackman) Sum() float64 { return b.sum }
func (b *Blackman) Size() int    { return b.size }
func (b *Blackman) Type() Type   { return TypeBlackman }
