package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine_QuarterPeriods(t *testing.T) {
	// 1 kHz at 4 kHz visits 0, 1, 0, -1 on consecutive frames.
	s := DeterministicSine(1000, 4000, 0.5, 8)
	want := []float64{0, 0.5, 0, -0.5, 0, 0.5, 0, -0.5}
	RequireSliceNearlyEqual(t, s, want, 1e-12)
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(7, 0.25, 128)
	b := DeterministicNoise(7, 0.25, 128)
	if d := MaxAbsDiff(a, b); d != 0 {
		t.Fatalf("same seed differs by %v", d)
	}
	for i, v := range a {
		if math.Abs(v) > 0.25 {
			t.Fatalf("a[%d] = %v exceeds amplitude", i, v)
		}
	}
	if MaxAbsDiff(a, DeterministicNoise(8, 0.25, 128)) == 0 {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestImpulseAndDC(t *testing.T) {
	tests := []struct {
		name string
		got  []float64
		want []float64
	}{
		{"impulse", Impulse(4, 2), []float64{0, 0, 1, 0}},
		{"impulse past end", Impulse(3, 5), []float64{0, 0, 0}},
		{"impulse negative", Impulse(2, -1), []float64{0, 0}},
		{"dc", DC(-0.5, 3), []float64{-0.5, -0.5, -0.5}},
		{"empty dc", DC(1, 0), []float64{}},
	}
	for _, tt := range tests {
		if len(tt.got) != len(tt.want) || MaxAbsDiff(tt.got, tt.want) != 0 {
			t.Fatalf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}
