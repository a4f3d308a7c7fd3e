// Package wavio reads and writes mono PCM WAV files as float64 samples
// in [-1, 1].
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const pcmFormat = 1

var (
	ErrInvalidFile = errors.New("wavio: not a valid WAV file")
	ErrNotMono     = errors.New("wavio: only mono files are supported")
	ErrBitDepth    = errors.New("wavio: unsupported bit depth")
)

// Clip is a mono signal with its sample rate.
type Clip struct {
	Samples    []float64
	SampleRate int
}

// Read decodes a mono WAV stream.
func Read(r io.ReadSeeker) (Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Clip{}, ErrInvalidFile
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("wavio: read PCM: %w", err)
	}

	if buf.Format == nil || buf.Format.NumChannels != 1 {
		channels := 0
		if buf.Format != nil {
			channels = buf.Format.NumChannels
		}
		return Clip{}, fmt.Errorf("%w: %d channels", ErrNotMono, channels)
	}

	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = int(dec.BitDepth)
	}

	if err := checkDepth(depth); err != nil {
		return Clip{}, err
	}

	scale := 1 / math.Exp2(float64(depth-1))
	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v) * scale
	}

	return Clip{Samples: samples, SampleRate: buf.Format.SampleRate}, nil
}

// ReadFile decodes the mono WAV file at path.
func ReadFile(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, fmt.Errorf("wavio: %w", err)
	}
	defer f.Close()

	clip, err := Read(f)
	if err != nil {
		return Clip{}, fmt.Errorf("%s: %w", path, err)
	}

	return clip, nil
}

// Write encodes clip as integer PCM with the given bit depth. Samples
// outside [-1, 1] are clipped.
func Write(w io.WriteSeeker, clip Clip, bitDepth int) error {
	if err := checkDepth(bitDepth); err != nil {
		return err
	}

	if clip.SampleRate <= 0 {
		return fmt.Errorf("wavio: sample rate must be > 0: %d", clip.SampleRate)
	}

	full := math.Exp2(float64(bitDepth-1)) - 1
	data := make([]int, len(clip.Samples))
	for i, v := range clip.Samples {
		v = math.Max(-1, math.Min(1, v))
		data[i] = int(math.Round(v * full))
	}

	enc := wav.NewEncoder(w, clip.SampleRate, bitDepth, 1, pcmFormat)

	err := enc.Write(&audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  clip.SampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	})
	if err != nil {
		return fmt.Errorf("wavio: write: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavio: close encoder: %w", err)
	}

	return nil
}

// WriteFile encodes clip to a new file at path.
func WriteFile(path string, clip Clip, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: %w", err)
	}

	if err := Write(f, clip, bitDepth); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	return f.Close()
}

func checkDepth(bits int) error {
	switch bits {
	case 16, 24:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrBitDepth, bits)
	}
}
