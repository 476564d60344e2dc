// Package synthesis generates test tones and chords sampled on a uniform
// time grid t[i] = i/sampleRate.
package synthesis

import (
	"math"

	"github.com/RyanBlaney/acorde-sonar/algorithms/common"
)

// DefaultChordAmplitude is the peak amplitude budget shared by all the
// tones of a synthesized chord
const DefaultChordAmplitude = 0.9

// TimeAxis returns int(duration*sampleRate) sample instants starting at 0,
// excluding the end point
func TimeAxis(duration float64, sampleRate int) []float64 {
	n := int(duration * float64(sampleRate))
	if n <= 0 {
		return []float64{}
	}

	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i) / float64(sampleRate)
	}
	return t
}

// Sine generates amplitude*sin(2*pi*freq*t) and returns the time axis
// alongside the samples
func Sine(freq, duration float64, sampleRate int, amplitude float64) (t, samples []float64, err error) {
	if sampleRate <= 0 {
		return nil, nil, common.InvalidConfigf("sample rate must be positive: %d", sampleRate)
	}
	if duration <= 0 {
		return nil, nil, common.InvalidConfigf("duration must be positive: %g", duration)
	}

	t = TimeAxis(duration, sampleRate)
	samples = make([]float64, len(t))
	for i, ti := range t {
		samples[i] = amplitude * math.Sin(2*math.Pi*freq*ti)
	}
	return t, samples, nil
}

// Chord sums one sine per frequency. The amplitude is split evenly across
// the tones so the sum never exceeds it.
func Chord(freqs []float64, sampleRate int, duration, amplitude float64) (t, samples []float64, err error) {
	if len(freqs) == 0 {
		return nil, nil, common.InvalidConfigf("chord needs at least one frequency")
	}

	perTone := amplitude / float64(len(freqs))
	for _, f := range freqs {
		var tone []float64
		t, tone, err = Sine(f, duration, sampleRate, perTone)
		if err != nil {
			return nil, nil, err
		}
		if samples == nil {
			samples = tone
			continue
		}
		for i := range samples {
			samples[i] += tone[i]
		}
	}
	return t, samples, nil
}
