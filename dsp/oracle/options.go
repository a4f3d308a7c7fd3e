package oracle

import (
	"fmt"

	"github.com/cwbudde/algo-separation/dsp/window"
)

// WindowSpec selects the analysis window: either a generated window of a
// fixed size ([FixedSize]) or caller-supplied coefficients ([Explicit]).
type WindowSpec interface {
	size() int
	resolve() ([]float64, error)
}

// FixedSize requests a symmetric Hamming window of the given length.
type FixedSize int

func (s FixedSize) size() int { return int(s) }

func (s FixedSize) resolve() ([]float64, error) {
	if s <= 0 {
		return nil, invalidf("transform size must be a positive integer: %d", int(s))
	}

	w, err := window.Hamming(int(s))
	if err != nil {
		return nil, invalidf("%v", err)
	}

	return w, nil
}

// Explicit uses the given coefficients as the window; its length is the
// transform size.
type Explicit []float64

func (e Explicit) size() int { return len(e) }

func (e Explicit) resolve() ([]float64, error) {
	if err := window.Validate(e); err != nil {
		return nil, invalidf("window: %v", err)
	}

	return append([]float64(nil), e...), nil
}

// Option configures [Separate].
type Option func(*config)

type config struct {
	window WindowSpec

	hop    int
	hopSet bool

	sampleRate    float64
	sampleRateSet bool

	binaryMask bool
	timeAxis   bool
	masks      bool
	parallel   bool
}

func defaultConfig() config {
	return config{
		window:     FixedSize(window.DefaultSize),
		sampleRate: 1,
	}
}

// WithWindow sets the window or transform size. Default FixedSize(1024).
func WithWindow(spec WindowSpec) Option {
	return func(c *config) {
		c.window = spec
	}
}

// WithHop sets the frame advance. It must lie in [1, N]; default N/2.
func WithHop(hop int) Option {
	return func(c *config) {
		c.hop = hop
		c.hopSet = true
	}
}

// WithSampleRate sets the sample rate used for the time axis. Default 1.
func WithSampleRate(fs float64) Option {
	return func(c *config) {
		c.sampleRate = fs
		c.sampleRateSet = true
	}
}

// WithBinaryMask also computes the binary-mask separation.
func WithBinaryMask() Option {
	return func(c *config) {
		c.binaryMask = true
	}
}

// WithTimeAxis also returns t[i] = i/fs for every output sample.
func WithTimeAxis() Option {
	return func(c *config) {
		c.timeAxis = true
	}
}

// WithMasks also returns the derived masks.
func WithMasks() Option {
	return func(c *config) {
		c.masks = true
	}
}

// WithParallel runs the three analyses and the two syntheses on separate
// goroutines. Results are identical to the sequential path.
func WithParallel() Option {
	return func(c *config) {
		c.parallel = true
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// describe returns a short label for a window spec.
func describe(spec WindowSpec) string {
	switch s := spec.(type) {
	case FixedSize:
		return fmt.Sprintf("hamming(%d)", int(s))
	case Explicit:
		return fmt.Sprintf("explicit(%d)", len(s))
	default:
		return "none"
	}
}
