package harmonic

// PeakCriteria selects local maxima of a sampled curve. A zero or negative
// threshold disables the corresponding constraint.
type PeakCriteria struct {
	MinHeight     float64
	MinProminence float64
}

// LocalMaxima returns the indices of all local maxima in x. A flat top of
// equal samples counts once, at its midpoint (rounded down), and only if both
// neighbours of the plateau are lower. The first and last samples are never
// peaks.
func LocalMaxima(x []float64) []int {
	var peaks []int

	last := len(x) - 1
	i := 1
	for i < last {
		if x[i-1] < x[i] {
			ahead := i + 1
			for ahead < last && x[ahead] == x[i] {
				ahead++
			}
			if x[ahead] < x[i] {
				peaks = append(peaks, (i+ahead-1)/2)
				i = ahead
			}
		}
		i++
	}

	return peaks
}

// Prominence measures how far a peak stands out: on each side the curve is
// walked until a strictly higher sample or the border, the lowest point on
// that stretch is the base, and the prominence is the peak height minus the
// higher of the two bases.
func Prominence(x []float64, peak int) float64 {
	height := x[peak]

	leftMin := height
	for i := peak; i >= 0 && x[i] <= height; i-- {
		if x[i] < leftMin {
			leftMin = x[i]
		}
	}

	rightMin := height
	for i := peak; i < len(x) && x[i] <= height; i++ {
		if x[i] < rightMin {
			rightMin = x[i]
		}
	}

	return height - max(leftMin, rightMin)
}

// FindPeaks returns the local maxima of x that satisfy the criteria, in
// ascending index order
func FindPeaks(x []float64, criteria PeakCriteria) []int {
	var peaks []int
	for _, idx := range LocalMaxima(x) {
		if criteria.MinHeight > 0 && x[idx] < criteria.MinHeight {
			continue
		}
		if criteria.MinProminence > 0 && Prominence(x, idx) < criteria.MinProminence {
			continue
		}
		peaks = append(peaks, idx)
	}
	return peaks
}
