package window

import (
	"errors"
	"math"
	"testing"
)

func assertClose(t *testing.T, got, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > tol {
			t.Fatalf("w[%d] = %v, want %v (all: %v)", i, got[i], want[i], got)
		}
	}
}

func TestBlackman(t *testing.T) {
	sym, err := Blackman(5)
	if err != nil {
		t.Fatal(err)
	}
	assertClose(t, sym, []float64{0, 0.34, 1, 0.34, 0}, 1e-12)

	per, err := Blackman(4, WithPeriodic())
	if err != nil {
		t.Fatal(err)
	}
	assertClose(t, per, []float64{0, 0.34, 1, 0.34}, 1e-12)
}

func TestBlackman_Alpha(t *testing.T) {
	// alpha 0 reduces Blackman to Hann.
	w, _ := Blackman(5, WithAlpha(0))
	assertClose(t, w, []float64{0, 0.5, 1, 0.5, 0}, 1e-12)
}

func TestKaiser(t *testing.T) {
	flat, err := Kaiser(6, 0)
	if err != nil {
		t.Fatal(err)
	}
	assertClose(t, flat, []float64{1, 1, 1, 1, 1, 1}, 1e-12)

	w, _ := Kaiser(9, 8)
	if math.Abs(w[4]-1) > 1e-12 {
		t.Fatalf("center = %v, want 1", w[4])
	}
	for i := range 4 {
		if math.Abs(w[i]-w[8-i]) > 1e-12 {
			t.Fatalf("not symmetric at %d: %v vs %v", i, w[i], w[8-i])
		}
		if w[i] >= w[i+1] {
			t.Fatalf("not increasing toward center at %d: %v", i, w)
		}
	}
}

func TestErrors(t *testing.T) {
	if _, err := Blackman(0); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("Blackman(0) err = %v", err)
	}
	if _, err := Kaiser(-1, 1); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("Kaiser(-1) err = %v", err)
	}
	if _, err := Kaiser(8, -1); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("Kaiser beta err = %v", err)
	}
	if err := ApplyInPlace(make([]float64, 3), make([]float64, 4)); !errors.Is(err, ErrMismatchedLength) {
		t.Fatalf("ApplyInPlace err = %v", err)
	}
}

func TestApplyInPlace(t *testing.T) {
	buf := []float64{2, 2, 2, 2, 2}
	w, _ := Blackman(5)
	if err := ApplyInPlace(buf, w); err != nil {
		t.Fatal(err)
	}
	assertClose(t, buf, []float64{0, 0.68, 2, 0.68, 0}, 1e-12)
}

func TestBesselI0AndKaiserBeta(t *testing.T) {
	if got := BesselI0(0); got != 1 {
		t.Fatalf("I0(0) = %v", got)
	}
	if got := BesselI0(1); math.Abs(got-1.2660658777520082) > 1e-12 {
		t.Fatalf("I0(1) = %v", got)
	}
	if got := KaiserBeta(60); math.Abs(got-5.65326) > 1e-9 {
		t.Fatalf("KaiserBeta(60) = %v", got)
	}
	if got := KaiserBeta(10); got != 0 {
		t.Fatalf("KaiserBeta(10) = %v", got)
	}
}
