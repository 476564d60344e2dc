package harmonic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalMaxima(t *testing.T) {
	assert.Equal(t, []int{1, 3}, LocalMaxima([]float64{0, 1, 0, 2, 2, 0, 3}))
	assert.Equal(t, []int{2}, LocalMaxima([]float64{0, 2, 2, 2, 0}))
	assert.Equal(t, []int{3}, LocalMaxima([]float64{0, 2, 2, 3, 0}))
	assert.Empty(t, LocalMaxima([]float64{1, 1, 1, 1}))
	assert.Empty(t, LocalMaxima([]float64{3, 2, 1}))
	assert.Empty(t, LocalMaxima([]float64{1}))
	assert.Empty(t, LocalMaxima(nil))
}

func TestProminence(t *testing.T) {
	x := []float64{0, 5, 1, 3, 0}
	assert.Equal(t, 5.0, Prominence(x, 1))
	assert.Equal(t, 2.0, Prominence(x, 3))

	// equal neighbours do not stop the walk
	y := []float64{1, 4, 2, 4, 0}
	assert.Equal(t, 3.0, Prominence(y, 1))
	assert.Equal(t, 3.0, Prominence(y, 3))
}

func TestFindPeaksCriteria(t *testing.T) {
	x := []float64{0, 5, 1, 3, 0, 0.5, 0}

	assert.Equal(t, []int{1, 3, 5}, FindPeaks(x, PeakCriteria{}))
	assert.Equal(t, []int{1, 3}, FindPeaks(x, PeakCriteria{MinHeight: 1}))
	assert.Equal(t, []int{1}, FindPeaks(x, PeakCriteria{MinProminence: 2.5}))
	assert.Equal(t, []int{1, 3}, FindPeaks(x, PeakCriteria{MinHeight: 0.1, MinProminence: 2}))
}
