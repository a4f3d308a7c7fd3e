package window

import (
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeSqrtHann
)

// DefaultSize is the window length used when a caller gives none.
const DefaultSize = 1024

var (
	hannCoeffs     = []float64{0.5, -0.5}
	hammingCoeffs  = []float64{0.54, -0.46}
	blackmanCoeffs = []float64{0.42, -0.5, 0.08}
)

var typeNames = map[Type]string{
	TypeRectangular: "rectangular",
	TypeHann:        "hann",
	TypeHamming:     "hamming",
	TypeBlackman:    "blackman",
	TypeSqrtHann:    "sqrt-hann",
}

// String returns the lower-case window name.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	return "unknown"
}

// ParseType resolves a window name as printed by [Type.String].
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}

	return 0, errUnknownType(name)
}

// Types returns every supported window type in declaration order.
func Types() []Type {
	return []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman, TypeSqrtHann}
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length.
// Non-positive lengths yield nil.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length, cfg.periodic))
	}

	return out
}

// Hamming returns symmetric Hamming window coefficients,
// w[n] = 0.54 - 0.46*cos(2*pi*n/(size-1)).
func Hamming(size int, opts ...Option) ([]float64, error) {
	if err := validateLength(size); err != nil {
		return nil, err
	}

	return Generate(TypeHamming, size, opts...), nil
}

// ApplyCoefficients multiplies samples with coefficients into dst.
// All three slices must share one length.
func ApplyCoefficients(dst, samples, coeffs []float64) error {
	if len(samples) != len(coeffs) || len(dst) != len(samples) {
		return errMismatchedLength
	}

	vecmath.MulBlock(dst, samples, coeffs)

	return nil
}

// Validate reports whether coeffs is usable as an analysis window:
// non-empty, finite and not identically zero.
func Validate(coeffs []float64) error {
	if len(coeffs) == 0 {
		return errEmptyCoeffs
	}

	nonZero := false

	for i, c := range coeffs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return errNonFinite(i, c)
		}

		if c != 0 {
			nonZero = true
		}
	}

	if !nonZero {
		return errAllZero
	}

	return nil
}

func evalWindow(t Type, x float64) float64 {
	switch t {
	case TypeRectangular:
		return 1
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeHamming:
		return cosineFromCoeffs(x, hammingCoeffs)
	case TypeBlackman:
		// Clamp tiny negative rounding at the edges.
		return math.Max(0, cosineFromCoeffs(x, blackmanCoeffs))
	case TypeSqrtHann:
		return math.Sqrt(math.Max(0, cosineFromCoeffs(x, hannCoeffs)))
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0.5
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}
