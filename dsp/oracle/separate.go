package oracle

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-separation/dsp/core"
	"github.com/cwbudde/algo-separation/dsp/mask"
	"github.com/cwbudde/algo-separation/dsp/stft"
)

// Params reports the resolved analysis parameters of a separation.
type Params struct {
	Window     string
	Size       int
	Hop        int
	SampleRate float64
	Length     int
	Frames     int
}

// Result holds the separated signals. Every signal has Params.Length
// samples. Binary, Time and the masks are nil unless requested.
type Result struct {
	Ratio  []float64
	Binary []float64
	Time   []float64

	RatioMask  mask.Mask
	BinaryMask mask.Mask

	Params Params
}

type plan struct {
	target       []float64
	interference []float64
	window       []float64
	hop          int
	sampleRate   float64
	length       int
}

// Separate applies the oracle ratio mask (and optionally the binary mask)
// derived from target and interference to their mixture.
func Separate(target, interference []float64, opts ...Option) (Result, error) {
	cfg := applyOptions(opts)

	p, err := resolve(target, interference, cfg)
	if err != nil {
		return Result{}, err
	}

	tr, err := stft.New(p.window, p.hop)
	if err != nil {
		return Result{}, fmt.Errorf("oracle: %w", err)
	}

	mixture, err := core.Sum(p.target, p.interference)
	if err != nil {
		return Result{}, fmt.Errorf("oracle: %w", err)
	}

	specs, err := analyze(tr, cfg.parallel, p.target, p.interference, mixture)
	if err != nil {
		return Result{}, err
	}

	ratioMask, binaryMask, err := mask.Derive(specs[0], specs[1])
	if err != nil {
		return Result{}, fmt.Errorf("oracle: %w", err)
	}

	masks := []mask.Mask{ratioMask}
	if cfg.binaryMask {
		masks = append(masks, binaryMask)
	}

	outs, err := synthesize(tr, cfg.parallel, specs[2], masks)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Ratio: core.Fit(outs[0], p.length),
		Params: Params{
			Window:     describe(cfg.window),
			Size:       len(p.window),
			Hop:        p.hop,
			SampleRate: p.sampleRate,
			Length:     p.length,
			Frames:     specs[2].Frames(),
		},
	}

	if cfg.binaryMask {
		res.Binary = core.Fit(outs[1], p.length)
	}

	if cfg.timeAxis {
		res.Time = TimeAxis(p.length, p.sampleRate)
	}

	if cfg.masks {
		res.RatioMask = ratioMask
		res.BinaryMask = binaryMask
	}

	return res, nil
}

// TimeAxis returns t[i] = i/fs for i in [0, n).
func TimeAxis(n int, fs float64) []float64 {
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i) / fs
	}

	return t
}

func resolve(target, interference []float64, cfg config) (plan, error) {
	if len(target) < 2 {
		return plan{}, invalidf("target must have at least 2 samples: %d", len(target))
	}

	if len(interference) < 2 {
		return plan{}, invalidf("interference must have at least 2 samples: %d", len(interference))
	}

	length := core.MaxLen(target, interference)

	if cfg.window == nil {
		return plan{}, invalidf("window spec must not be nil")
	}

	// Size is checked before the window is built.
	if n := cfg.window.size(); n > length {
		return plan{}, invalidf("signals must have at least %d samples (transform size): %d", n, length)
	}

	win, err := cfg.window.resolve()
	if err != nil {
		return plan{}, err
	}

	n := len(win)

	hop := max(n/2, 1)
	if cfg.hopSet {
		if cfg.hop <= 0 || cfg.hop > n {
			return plan{}, invalidf("hop must be in [1, %d]: %d", n, cfg.hop)
		}
		hop = cfg.hop
	}

	fs := 1.0
	if cfg.sampleRateSet {
		if !core.IsFinite(cfg.sampleRate) || cfg.sampleRate <= 0 {
			return plan{}, invalidf("sample rate must be finite and > 0: %v", cfg.sampleRate)
		}
		fs = cfg.sampleRate
	}

	return plan{
		target:       core.PadTo(target, length),
		interference: core.PadTo(interference, length),
		window:       win,
		hop:          hop,
		sampleRate:   fs,
		length:       length,
	}, nil
}

// analyze returns the spectrograms of signals in order.
func analyze(tr *stft.Transform, parallel bool, signals ...[]float64) ([]stft.Spectrogram, error) {
	specs := make([]stft.Spectrogram, len(signals))

	err := forEach(tr, parallel, len(signals), func(t *stft.Transform, i int) error {
		s, err := t.Analyze(signals[i])
		if err != nil {
			return fmt.Errorf("oracle: analysis %d: %w", i, err)
		}
		specs[i] = s
		return nil
	})

	return specs, err
}

// synthesize resynthesizes mixture under each mask in order.
func synthesize(tr *stft.Transform, parallel bool, mixture stft.Spectrogram, masks []mask.Mask) ([][]float64, error) {
	outs := make([][]float64, len(masks))

	err := forEach(tr, parallel, len(masks), func(t *stft.Transform, i int) error {
		masked, err := mask.Apply(mixture, masks[i])
		if err != nil {
			return fmt.Errorf("oracle: %w", err)
		}

		y, err := t.Synthesize(masked)
		if err != nil {
			return fmt.Errorf("oracle: synthesis %d: %w", i, err)
		}
		outs[i] = y
		return nil
	})

	return outs, err
}

// forEach runs fn for i in [0, n). In parallel mode every goroutine gets
// its own transform clone since transforms carry scratch buffers.
func forEach(tr *stft.Transform, parallel bool, n int, fn func(*stft.Transform, int) error) error {
	if !parallel || n < 2 {
		for i := range n {
			if err := fn(tr, i); err != nil {
				return err
			}
		}
		return nil
	}

	workers := make([]*stft.Transform, n)
	workers[0] = tr
	for i := 1; i < n; i++ {
		cl, err := tr.Clone()
		if err != nil {
			return fmt.Errorf("oracle: %w", err)
		}
		workers[i] = cl
	}

	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = fn(workers[i], i)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}
