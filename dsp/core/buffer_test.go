package core

import "testing"

func TestPadTo(t *testing.T) {
	x := []float64{1, 2, 3}

	got := PadTo(x, 5)
	want := []float64{1, 2, 3, 0, 0}
	if len(got) != len(want) {
		t.Fatalf("len=%d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d]=%v, want %v", i, got[i], want[i])
		}
	}

	got[0] = 42
	if x[0] != 1 {
		t.Fatal("PadTo must not alias the input when it grows")
	}
}

func TestPadToIdempotent(t *testing.T) {
	x := []float64{1, 2, 3, 4}

	if got := PadTo(x, 4); &got[0] != &x[0] {
		t.Fatal("padding to the current length should return the input")
	}

	if got := PadTo(x, 2); len(got) != 4 {
		t.Fatalf("padding to a shorter length changed len to %d", len(got))
	}

	once := PadTo([]float64{5}, 3)
	twice := PadTo(once, 3)
	if len(twice) != 3 || twice[0] != 5 || twice[1] != 0 || twice[2] != 0 {
		t.Fatalf("re-padding changed the sequence: %v", twice)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		n    int
		want []float64
	}{
		{name: "truncate", in: []float64{1, 2, 3, 4}, n: 2, want: []float64{1, 2}},
		{name: "extend", in: []float64{1, 2}, n: 4, want: []float64{1, 2, 0, 0}},
		{name: "same", in: []float64{1, 2}, n: 2, want: []float64{1, 2}},
		{name: "zero", in: []float64{1, 2}, n: 0, want: []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(tt.in, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("len=%d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got[%d]=%v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSum(t *testing.T) {
	got, err := Sum([]float64{1, 2, 3}, []float64{0.5, -2, 1})
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{1.5, 0, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d]=%v, want %v", i, got[i], want[i])
		}
	}

	if _, err := Sum([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestMaxLen(t *testing.T) {
	if got := MaxLen(make([]float64, 100), make([]float64, 150)); got != 150 {
		t.Fatalf("MaxLen=%d, want 150", got)
	}

	if got := MaxLen(); got != 0 {
		t.Fatalf("MaxLen()=%d, want 0", got)
	}
}
