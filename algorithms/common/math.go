package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic numeric helpers shared by the analysis stages, backed by gonum

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// Sum returns the sum of all elements, 0 for an empty slice
func Sum(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Sum(data)
}

// Max returns the largest element, 0 for an empty slice
func Max(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Max(data)
}

// MinMax returns the smallest and largest element of a slice
func MinMax(data []float64) (lo, hi float64) {
	if len(data) == 0 {
		return 0.0, 0.0
	}
	return floats.Min(data), floats.Max(data)
}

// AmplitudeToDB converts linear magnitudes to decibels, adding eps to
// every value so that silent bins map to a finite floor
func AmplitudeToDB(magnitude []float64, eps float64) []float64 {
	db := make([]float64, len(magnitude))
	for i, mag := range magnitude {
		db[i] = 20.0 * math.Log10(mag+eps)
	}
	return db
}

// ParabolicVertex fits a parabola through three equally spaced samples and
// returns the vertex offset (in samples, relative to the centre) and height
func ParabolicVertex(y1, y2, y3 float64) (offset, height float64, ok bool) {
	denom := 2.0 * (2.0*y2 - y1 - y3)
	if math.Abs(denom) <= 1e-10 {
		return 0, y2, false
	}

	offset = (y3 - y1) / denom
	a := 0.5 * (y1 - 2.0*y2 + y3)
	b := 0.5 * (y3 - y1)
	return offset, y2 + a*offset*offset + b*offset, true
}
