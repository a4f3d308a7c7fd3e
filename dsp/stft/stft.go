package stft

import (
	"fmt"

	"github.com/cwbudde/algo-separation/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// normFloor is the smallest squared-window envelope that is divided out
// during synthesis. Samples below it are left unnormalised.
const normFloor = 1e-12

// Spectrogram holds one full complex spectrum per frame, indexed [frame][bin].
type Spectrogram [][]complex128

// Frames returns the frame count.
func (s Spectrogram) Frames() int { return len(s) }

// Bins returns the bin count of the first frame, or 0 if empty.
func (s Spectrogram) Bins() int {
	if len(s) == 0 {
		return 0
	}

	return len(s[0])
}

// SameShape reports whether s and o have equal frame and bin counts
// across every frame.
func (s Spectrogram) SameShape(o Spectrogram) bool {
	if len(s) != len(o) {
		return false
	}

	for k := range s {
		if len(s[k]) != len(o[k]) {
			return false
		}
	}

	return true
}

// Transform performs STFT analysis and synthesis for a fixed window and hop.
type Transform struct {
	window []float64
	hop    int
	fft    fftBackend

	frame []float64
	in    []complex128
	out   []complex128
}

// New creates a transform. The window length defines the FFT size N and
// hop must lie in [1, N].
func New(win []float64, hop int) (*Transform, error) {
	if err := window.Validate(win); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWindow, err)
	}

	n := len(win)
	if hop <= 0 || hop > n {
		return nil, fmt.Errorf("%w: must be in [1, %d]: %d", ErrInvalidHop, n, hop)
	}

	fft, err := newBackend(n)
	if err != nil {
		return nil, err
	}

	return &Transform{
		window: append([]float64(nil), win...),
		hop:    hop,
		fft:    fft,
		frame:  make([]float64, n),
		in:     make([]complex128, n),
		out:    make([]complex128, n),
	}, nil
}

// Clone returns an independent transform with the same window and hop.
func (t *Transform) Clone() (*Transform, error) {
	return New(t.window, t.hop)
}

// Size returns the window length, which is also the bin count per frame.
func (t *Transform) Size() int { return len(t.window) }

// Hop returns the frame advance in samples.
func (t *Transform) Hop() int { return t.hop }

// Window returns a copy of the analysis/synthesis window.
func (t *Transform) Window() []float64 {
	return append([]float64(nil), t.window...)
}

// FrameCount returns the number of whole frames in a signal of n samples:
// floor((n-N)/hop)+1, or 0 when n < N.
func (t *Transform) FrameCount(n int) int {
	return FrameCount(n, len(t.window), t.hop)
}

// OutputLen returns the synthesized length for the given frame count.
func (t *Transform) OutputLen(frames int) int {
	return OutputLen(frames, len(t.window), t.hop)
}

// FrameCount returns floor((n-size)/hop)+1, or 0 when n < size.
func FrameCount(n, size, hop int) int {
	if size <= 0 || hop <= 0 || n < size {
		return 0
	}

	return (n-size)/hop + 1
}

// OutputLen returns (frames-1)*hop + size, or 0 for no frames.
func OutputLen(frames, size, hop int) int {
	if frames <= 0 {
		return 0
	}

	return (frames-1)*hop + size
}

// Analyze windows each frame of x and transforms it to a length-N spectrum.
func (t *Transform) Analyze(x []float64) (Spectrogram, error) {
	n := len(t.window)
	if len(x) < n {
		return nil, fmt.Errorf("%w: %d < %d", ErrSignalTooShort, len(x), n)
	}

	frames := t.FrameCount(len(x))
	spec := make(Spectrogram, frames)

	for k := range frames {
		pos := k * t.hop
		if err := window.ApplyCoefficients(t.frame, x[pos:pos+n], t.window); err != nil {
			return nil, fmt.Errorf("stft: frame %d: %w", k, err)
		}

		for i, v := range t.frame {
			t.in[i] = complex(v, 0)
		}

		bins := make([]complex128, n)
		if err := t.fft.Forward(bins, t.in); err != nil {
			return nil, fmt.Errorf("stft: forward FFT failed at frame %d: %w", k, err)
		}

		spec[k] = bins
	}

	return spec, nil
}

// Synthesize inverse-transforms every frame, applies the synthesis window
// and overlap-adds at k*hop. The sum is divided by the squared-window
// envelope wherever that envelope exceeds a small floor.
func (t *Transform) Synthesize(spec Spectrogram) ([]float64, error) {
	if len(spec) == 0 {
		return nil, ErrEmptySpectrogram
	}

	n := len(t.window)
	for k, bins := range spec {
		if len(bins) != n {
			return nil, fmt.Errorf("%w: frame %d has %d bins, want %d", ErrShapeMismatch, k, len(bins), n)
		}
	}

	env, err := window.SquaredEnvelope(t.window, t.hop, len(spec))
	if err != nil {
		return nil, fmt.Errorf("stft: %w", err)
	}

	out := make([]float64, t.OutputLen(len(spec)))

	for k, bins := range spec {
		if err := t.fft.Inverse(t.out, bins); err != nil {
			return nil, fmt.Errorf("stft: inverse FFT failed at frame %d: %w", k, err)
		}

		for i, v := range t.out {
			t.frame[i] = real(v)
		}

		vecmath.MulBlockInPlace(t.frame, t.window)

		pos := k * t.hop
		vecmath.AddBlockInPlace(out[pos:pos+n], t.frame)
	}

	for i, e := range env {
		if e > normFloor {
			out[i] /= e
		}
	}

	return out, nil
}
