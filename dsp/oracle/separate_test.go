package oracle

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-separation/dsp/stft"
	"github.com/cwbudde/algo-separation/dsp/window"
	"github.com/cwbudde/algo-separation/internal/testutil"
)

func TestTargetOnlyReconstructsTarget(t *testing.T) {
	target := testutil.Repeat([]float64{1, 0, -1, 0}, 128)
	interference := testutil.Zeros(128)

	res, err := Separate(target, interference,
		WithWindow(FixedSize(16)),
		WithHop(8),
		WithBinaryMask(),
		WithMasks(),
	)
	if err != nil {
		t.Fatal(err)
	}

	tr, err := stft.New(window.Generate(window.TypeHamming, 16), 8)
	if err != nil {
		t.Fatal(err)
	}

	spec, err := tr.Analyze(target)
	if err != nil {
		t.Fatal(err)
	}

	for k := range res.RatioMask {
		for b := range res.RatioMask[k] {
			want := 0.0
			if cmplx.Abs(spec[k][b]) > 0 {
				want = 1
			}

			if math.Abs(res.RatioMask[k][b]-want) > 1e-12 {
				t.Fatalf("ratio mask [%d][%d]=%v, want %v", k, b, res.RatioMask[k][b], want)
			}

			if res.BinaryMask[k][b] != want {
				t.Fatalf("binary mask [%d][%d]=%v, want %v", k, b, res.BinaryMask[k][b], want)
			}
		}
	}

	testutil.RequireSliceNearlyEqual(t, res.Ratio, target, 1e-9)
	testutil.RequireSliceNearlyEqual(t, res.Binary, target, 1e-9)
}

func TestSilentTargetYieldsSilence(t *testing.T) {
	target := testutil.Zeros(256)
	interference := testutil.DeterministicNoise(11, 1, 256)

	res, err := Separate(target, interference,
		WithWindow(FixedSize(32)),
		WithBinaryMask(),
		WithMasks(),
	)
	if err != nil {
		t.Fatal(err)
	}

	for k := range res.RatioMask {
		for b, v := range res.RatioMask[k] {
			if v != 0 {
				t.Fatalf("ratio mask [%d][%d]=%v, want 0", k, b, v)
			}
		}
	}

	if peak := testutil.MaxAbs(res.Ratio); peak > 1e-12 {
		t.Fatalf("ratio output peak=%v, want silence", peak)
	}

	if peak := testutil.MaxAbs(res.Binary); peak > 1e-12 {
		t.Fatalf("binary output peak=%v, want silence", peak)
	}
}

func TestUnequalLengthsArePadded(t *testing.T) {
	target := testutil.DeterministicNoise(1, 1, 100)
	interference := testutil.DeterministicNoise(2, 0.5, 150)

	res, err := Separate(target, interference,
		WithWindow(FixedSize(32)),
		WithHop(16),
		WithBinaryMask(),
		WithTimeAxis(),
	)
	if err != nil {
		t.Fatal(err)
	}

	for name, sig := range map[string][]float64{"ratio": res.Ratio, "binary": res.Binary, "time": res.Time} {
		if len(sig) != 150 {
			t.Fatalf("%s len=%d, want 150", name, len(sig))
		}
	}

	if res.Params.Length != 150 || res.Params.Frames != 8 {
		t.Fatalf("params=%+v, want length 150 and 8 frames", res.Params)
	}

	// Frames cover 144 samples; the remainder is zero-filled.
	for i := 144; i < 150; i++ {
		if res.Ratio[i] != 0 || res.Binary[i] != 0 {
			t.Fatalf("sample %d beyond the last frame is not zero: %v %v", i, res.Ratio[i], res.Binary[i])
		}
	}

	// Samples 128..143 are covered only by the frame at 112, which holds
	// no target energy, so the ratio mask silences them.
	if peak := testutil.MaxAbs(res.Ratio[128:144]); peak > 1e-12 {
		t.Fatalf("interference-only region peak=%v, want silence", peak)
	}
}

func TestHopLargerThanWindowRejected(t *testing.T) {
	x := testutil.DeterministicNoise(1, 1, 64)

	_, err := Separate(x, x, WithWindow(FixedSize(16)), WithHop(17))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestValidation(t *testing.T) {
	long := testutil.DeterministicNoise(1, 1, 64)

	tests := []struct {
		name         string
		target       []float64
		interference []float64
		opts         []Option
	}{
		{name: "empty target", target: nil, interference: long},
		{name: "single sample target", target: []float64{1}, interference: long},
		{name: "single sample interference", target: long, interference: []float64{1}},
		{name: "zero size", target: long, interference: long, opts: []Option{WithWindow(FixedSize(0))}},
		{name: "negative size", target: long, interference: long, opts: []Option{WithWindow(FixedSize(-8))}},
		{name: "nil spec", target: long, interference: long, opts: []Option{WithWindow(nil)}},
		{name: "empty explicit window", target: long, interference: long, opts: []Option{WithWindow(Explicit(nil))}},
		{name: "nan window", target: long, interference: long, opts: []Option{WithWindow(Explicit{1, math.NaN(), 1})}},
		{name: "zero window", target: long, interference: long, opts: []Option{WithWindow(Explicit{0, 0, 0, 0})}},
		{name: "shorter than default window", target: long, interference: long},
		{name: "shorter than window", target: long, interference: long, opts: []Option{WithWindow(FixedSize(65))}},
		{name: "huge size", target: long, interference: long, opts: []Option{WithWindow(FixedSize(math.MaxInt))}},
		{name: "explicit longer than signal", target: long, interference: long, opts: []Option{WithWindow(make(Explicit, 65))}},
		{name: "zero hop", target: long, interference: long, opts: []Option{WithWindow(FixedSize(16)), WithHop(0)}},
		{name: "negative hop", target: long, interference: long, opts: []Option{WithWindow(FixedSize(16)), WithHop(-1)}},
		{name: "hop past window", target: long, interference: long, opts: []Option{WithWindow(FixedSize(16)), WithHop(17)}},
		{name: "zero rate", target: long, interference: long, opts: []Option{WithWindow(FixedSize(16)), WithSampleRate(0)}},
		{name: "negative rate", target: long, interference: long, opts: []Option{WithWindow(FixedSize(16)), WithSampleRate(-8000)}},
		{name: "nan rate", target: long, interference: long, opts: []Option{WithWindow(FixedSize(16)), WithSampleRate(math.NaN())}},
		{name: "inf rate", target: long, interference: long, opts: []Option{WithWindow(FixedSize(16)), WithSampleRate(math.Inf(1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Separate(tt.target, tt.interference, tt.opts...)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}

			if res.Ratio != nil || res.Binary != nil || res.Time != nil {
				t.Fatal("failed call returned partial results")
			}
		})
	}
}

func TestLengthInvariant(t *testing.T) {
	lengths := [][2]int{{64, 64}, {64, 65}, {100, 150}, {151, 90}, {333, 2}, {2, 200}}
	configs := []struct {
		size, hop int
	}{
		{16, 8}, {16, 16}, {16, 1}, {24, 7}, {32, 10}, {50, 25},
	}

	for _, l := range lengths {
		for _, c := range configs {
			if max(l[0], l[1]) < c.size {
				continue
			}

			target := testutil.DeterministicNoise(int64(l[0]), 1, l[0])
			interference := testutil.DeterministicNoise(int64(l[1]+1), 1, l[1])

			res, err := Separate(target, interference,
				WithWindow(FixedSize(c.size)),
				WithHop(c.hop),
				WithBinaryMask(),
				WithTimeAxis(),
			)
			if err != nil {
				t.Fatalf("lengths %v size %d hop %d: %v", l, c.size, c.hop, err)
			}

			want := max(l[0], l[1])
			if len(res.Ratio) != want || len(res.Binary) != want || len(res.Time) != want {
				t.Fatalf("lengths %v size %d hop %d: got %d/%d/%d, want %d",
					l, c.size, c.hop, len(res.Ratio), len(res.Binary), len(res.Time), want)
			}

			testutil.RequireFinite(t, res.Ratio)
			testutil.RequireFinite(t, res.Binary)
		}
	}
}

func TestOptionalOutputsOmitted(t *testing.T) {
	x := testutil.DeterministicNoise(1, 1, 64)
	y := testutil.DeterministicNoise(2, 1, 64)

	res, err := Separate(x, y, WithWindow(FixedSize(16)))
	if err != nil {
		t.Fatal(err)
	}

	if res.Ratio == nil {
		t.Fatal("ratio output missing")
	}

	if res.Binary != nil || res.Time != nil || res.RatioMask != nil || res.BinaryMask != nil {
		t.Fatal("unrequested outputs populated")
	}

	withBinary, err := Separate(x, y, WithWindow(FixedSize(16)), WithBinaryMask())
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, withBinary.Ratio, res.Ratio, 0)
}

func TestDefaults(t *testing.T) {
	x := testutil.DeterministicNoise(1, 1, 2048)

	res, err := Separate(x, testutil.Zeros(10))
	if err != nil {
		t.Fatal(err)
	}

	p := res.Params
	if p.Size != 1024 || p.Hop != 512 || p.SampleRate != 1 || p.Length != 2048 || p.Frames != 3 {
		t.Fatalf("params=%+v", p)
	}

	if p.Window != "hamming(1024)" {
		t.Fatalf("window label=%q", p.Window)
	}

	testutil.RequireSliceNearlyEqual(t, res.Ratio, x, 1e-9)
}

func TestSingleSampleWindowDefaultsHopToOne(t *testing.T) {
	res, err := Separate([]float64{1, 2, 3}, []float64{0, 0, 0}, WithWindow(FixedSize(1)))
	if err != nil {
		t.Fatal(err)
	}

	if res.Params.Hop != 1 || res.Params.Frames != 3 {
		t.Fatalf("params=%+v", res.Params)
	}

	testutil.RequireSliceNearlyEqual(t, res.Ratio, []float64{1, 2, 3}, 1e-12)
}

func TestExplicitWindow(t *testing.T) {
	w := window.Generate(window.TypeHamming, 20, window.WithPeriodic())
	x := testutil.DeterministicSine(440, 8000, 0.8, 400)

	res, err := Separate(x, testutil.Zeros(400), WithWindow(Explicit(w)), WithHop(5))
	if err != nil {
		t.Fatal(err)
	}

	if res.Params.Size != 20 || res.Params.Hop != 5 || res.Params.Window != "explicit(20)" {
		t.Fatalf("params=%+v", res.Params)
	}

	testutil.RequireSliceNearlyEqual(t, res.Ratio, x, 1e-9)
}

func TestTimeAxis(t *testing.T) {
	x := testutil.DeterministicNoise(1, 1, 16000)

	res, err := Separate(x, x, WithWindow(FixedSize(256)), WithSampleRate(8000), WithTimeAxis())
	if err != nil {
		t.Fatal(err)
	}

	if res.Time[0] != 0 || res.Time[8000] != 1 || math.Abs(res.Time[15999]-15999.0/8000) > 1e-15 {
		t.Fatalf("time axis t[0]=%v t[8000]=%v t[end]=%v", res.Time[0], res.Time[8000], res.Time[15999])
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	target := testutil.DeterministicSine(300, 8000, 1, 3000)
	interference := testutil.DeterministicNoise(9, 0.3, 2500)
	opts := []Option{WithWindow(FixedSize(128)), WithHop(32), WithBinaryMask(), WithMasks()}

	seq, err := Separate(target, interference, opts...)
	if err != nil {
		t.Fatal(err)
	}

	par, err := Separate(target, interference, append(opts, WithParallel())...)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, par.Ratio, seq.Ratio, 0)
	testutil.RequireSliceNearlyEqual(t, par.Binary, seq.Binary, 0)

	for k := range seq.RatioMask {
		testutil.RequireSliceNearlyEqual(t, par.RatioMask[k], seq.RatioMask[k], 0)
		testutil.RequireSliceNearlyEqual(t, par.BinaryMask[k], seq.BinaryMask[k], 0)
	}
}

func TestInputsNotModified(t *testing.T) {
	target := testutil.DeterministicNoise(1, 1, 100)
	interference := testutil.DeterministicNoise(2, 1, 80)
	targetCopy := append([]float64(nil), target...)
	interferenceCopy := append([]float64(nil), interference...)

	if _, err := Separate(target, interference, WithWindow(FixedSize(16))); err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, target, targetCopy, 0)
	testutil.RequireSliceNearlyEqual(t, interference, interferenceCopy, 0)
}
