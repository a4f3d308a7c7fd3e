package core

import "github.com/cwbudde/algo-vecmath"

// PadTo returns x zero-padded at its tail to n samples.
// If x already has at least n samples it is returned unchanged, so
// repeated padding to the same length is a no-op.
func PadTo(x []float64, n int) []float64 {
	if len(x) >= n {
		return x
	}

	out := make([]float64, n)
	copy(out, x)

	return out
}

// Fit returns a copy of x with exactly n samples, truncating or
// zero-filling the tail as needed.
func Fit(x []float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}

	out := make([]float64, n)
	copy(out, x)

	return out
}

// Sum returns a + b elementwise. Both slices must have the same length.
func Sum(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, errLengthMismatch(len(a), len(b))
	}

	out := make([]float64, len(a))
	copy(out, a)
	vecmath.AddBlockInPlace(out, b)

	return out, nil
}

// MaxLen returns the largest length among the given slices.
func MaxLen(xs ...[]float64) int {
	n := 0
	for _, x := range xs {
		n = max(n, len(x))
	}

	return n
}
