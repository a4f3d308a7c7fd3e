package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	RequireSpanNearlyEqual(t, got, want, 0, len(got), eps)
}

// RequireSpanNearlyEqual compares got and want on the half-open index
// range [from, to) only. Edge samples outside the span are ignored.
func RequireSpanNearlyEqual(t *testing.T, got, want []float64, from, to int, eps float64) {
	t.Helper()
	if to > len(got) || to > len(want) || from < 0 || from > to {
		t.Fatalf("span [%d,%d) out of range for lengths %d and %d", from, to, len(got), len(want))
	}
	for i := from; i < to; i++ {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		maxDiff = math.Max(maxDiff, math.Abs(a[i]-b[i]))
	}
	return maxDiff, nil
}

// MaxAbs returns the peak absolute value of data.
func MaxAbs(data []float64) float64 {
	peak := 0.0
	for _, v := range data {
		peak = math.Max(peak, math.Abs(v))
	}
	return peak
}
