package windowing

// Rectangular is the identity taper used when no window is requested
type Rectangular struct {
	size         int
	coefficients []float64
}

// NewRectangular creates a new rectangular window
func NewRectangular(size int) *Rectangular {
	r := &Rectangular{
		size:         size,
		coefficients: make([]float64, size),
	}
	for i := range r.coefficients {
		r.coefficients[i] = 1.0
	}
	return r
}

// Apply returns a copy of the signal
func (r *Rectangular) Apply(signal []float64) []float64 {
	if len(signal) != r.size {
		return nil
	}

	windowed := make([]float64, r.size)
	copy(windowed, signal)
	return windowed
}

// Coefficients returns a copy of the window coefficients
func (r *Rectangular) Coefficients() []float64 {
	return copyCoefficients(r.coefficients)
}

func (r *Rectangular) Sum() float64 { return float64(r.size) }
func (r *Rectangular) Size() int    { return r.size }
func (r *Rectangular) Type() Type   { return TypeNone }
