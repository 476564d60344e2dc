// Package audio loads and stores sample buffers as PCM WAV files.
package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/RyanBlaney/acorde-sonar/algorithms/common"
)

// wavFormatPCM is the WAVE_FORMAT_PCM tag
const wavFormatPCM = 1

// Buffer is a mono buffer of samples in [-1, 1]
type Buffer struct {
	Samples    []float64 `json:"-"`
	SampleRate int       `json:"sample_rate"`
	Channels   int       `json:"channels"`  // Channel count of the source before downmix
	BitDepth   int       `json:"bit_depth"` // Bit depth of the source
}

// Duration returns the playing time of the buffer
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// ReadWAV decodes a PCM WAV stream. Multi-channel audio is averaged to mono
// and integer samples are scaled by the source bit depth.
func ReadWAV(r io.ReadSeeker) (*Buffer, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not read PCM buffer: %w", err)
	}
	if pcm.Format == nil || pcm.Format.NumChannels <= 0 || pcm.Format.SampleRate <= 0 {
		return nil, errors.New("WAV file has no usable format chunk")
	}

	bitDepth := pcm.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = int(decoder.BitDepth)
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}

	channels := pcm.Format.NumChannels
	fullScale := math.Pow(2, float64(bitDepth-1))
	// 8-bit WAV is unsigned
	offset := 0.0
	if bitDepth == 8 {
		offset = fullScale
	}

	frames := len(pcm.Data) / channels
	samples := make([]float64, frames)
	for i := range frames {
		sum := 0.0
		for ch := range channels {
			sum += (float64(pcm.Data[i*channels+ch]) - offset) / fullScale
		}
		samples[i] = sum / float64(channels)
	}

	return &Buffer{
		Samples:    samples,
		SampleRate: pcm.Format.SampleRate,
		Channels:   channels,
		BitDepth:   bitDepth,
	}, nil
}

// ReadWAVFile opens and decodes a WAV file
func ReadWAVFile(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer f.Close()

	buf, err := ReadWAV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// WriteWAV encodes samples as a mono PCM WAV stream. Samples outside
// [-1, 1] are clipped.
func WriteWAV(w io.WriteSeeker, samples []float64, sampleRate, bitDepth int) error {
	if sampleRate <= 0 {
		return common.InvalidConfigf("sample rate must be positive: %d", sampleRate)
	}
	switch bitDepth {
	case 16, 24, 32:
	default:
		return common.InvalidConfigf("unsupported bit depth %d (use 16, 24 or 32)", bitDepth)
	}

	fullScale := math.Pow(2, float64(bitDepth-1)) - 1
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(math.Round(math.Max(-1, math.Min(1, s)) * fullScale))
	}

	encoder := wav.NewEncoder(w, sampleRate, bitDepth, 1, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("could not write PCM data: %w", err)
	}
	return encoder.Close()
}

// WriteWAVFile creates path and writes samples to it
func WriteWAVFile(path string, samples []float64, sampleRate, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}

	if err := WriteWAV(f, samples, sampleRate, bitDepth); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
