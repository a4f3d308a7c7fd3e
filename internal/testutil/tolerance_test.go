package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float64{1.0, 2.0, 3.0}, []float64{1.0, 2.1, 3.0})
	if err != nil {
		t.Fatalf("MaxAbsDiff error: %v", err)
	}

	if math.Abs(d-0.1) > 1e-15 {
		t.Fatalf("MaxAbsDiff = %v, want 0.1", d)
	}

	if _, err := MaxAbsDiff([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestMaxAbs(t *testing.T) {
	if got := MaxAbs([]float64{0.5, -2, 1}); got != 2 {
		t.Fatalf("MaxAbs = %v, want 2", got)
	}

	if got := MaxAbs(nil); got != 0 {
		t.Fatalf("MaxAbs(nil) = %v, want 0", got)
	}
}

func TestRequireSpanNearlyEqualIgnoresEdges(t *testing.T) {
	got := []float64{9, 1, 2, 9}
	want := []float64{0, 1, 2, 0}
	RequireSpanNearlyEqual(t, got, want, 1, 3, 1e-12)
}
