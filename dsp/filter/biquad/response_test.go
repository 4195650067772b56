package biquad

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestMagnitudeSquared_MatchesResponse(t *testing.T) {
	c := testCoefficients()
	sr := 48000.0

	for _, freq := range []float64{100, 500, 1000, 5000, 10000, 20000} {
		h := c.Response(freq, sr)
		fromResponse := real(h)*real(h) + imag(h)*imag(h)
		fromClosed := c.MagnitudeSquared(freq, sr)
		if !almostEqual(fromClosed, fromResponse, 1e-10) {
			t.Errorf("freq=%v: MagnitudeSquared=%.15f, |Response|²=%.15f", freq, fromClosed, fromResponse)
		}
	}
}

func TestMagnitudeDB_MatchesMagnitudeSquared(t *testing.T) {
	c := testCoefficients()
	sr := 48000.0

	for _, freq := range []float64{100, 1000, 10000} {
		db := c.MagnitudeDB(freq, sr)
		fromSq := 10 * math.Log10(c.MagnitudeSquared(freq, sr))
		if !almostEqual(db, fromSq, 1e-12) {
			t.Errorf("freq=%v: MagnitudeDB=%.15f, 10*log10(MagSq)=%.15f", freq, db, fromSq)
		}
	}
}

func TestPhase_MatchesResponse(t *testing.T) {
	c := testCoefficients()
	for _, freq := range []float64{50, 2000, 15000} {
		if got, want := c.Phase(freq, 48000), cmplx.Phase(c.Response(freq, 48000)); got != want {
			t.Fatalf("freq=%v: Phase=%v, want %v", freq, got, want)
		}
	}
}

func TestResponse_Passthrough(t *testing.T) {
	c := Coefficients{B0: 1}
	for _, freq := range []float64{0, 1000, 22050} {
		h := c.Response(freq, 44100)
		if !almostEqual(cmplx.Abs(h), 1, eps) {
			t.Fatalf("freq=%v: |H| = %v, want 1", freq, cmplx.Abs(h))
		}
	}
}

func TestFrequencyResponse(t *testing.T) {
	c := testCoefficients()
	sr := 48000.0
	freqs := []float64{-1, 0, 1000, 24000, 30000}
	mag := make([]float64, len(freqs))
	phase := make([]float64, len(freqs))
	c.FrequencyResponse(freqs, mag, phase, sr)

	for _, i := range []int{0, 4} {
		if !math.IsNaN(mag[i]) || !math.IsNaN(phase[i]) {
			t.Fatalf("freq %v: want NaN, got mag=%v phase=%v", freqs[i], mag[i], phase[i])
		}
	}
	for _, i := range []int{1, 2, 3} {
		h := c.Response(freqs[i], sr)
		if !almostEqual(mag[i], cmplx.Abs(h), 1e-12) {
			t.Fatalf("freq %v: mag = %v, want %v", freqs[i], mag[i], cmplx.Abs(h))
		}
	}
}

func TestSection_ImpulseResponse(t *testing.T) {
	s := NewSection(testCoefficients())
	s.ProcessSample(0.3)
	before := s.State()
	ir := s.ImpulseResponse(3)
	if !almostEqual(ir[0], 0.25, eps) || !almostEqual(ir[1], 0.55, eps) || !almostEqual(ir[2], 0.35, eps) {
		t.Fatalf("ir = %v", ir)
	}
	if s.State() != before {
		t.Fatal("ImpulseResponse modified the section state")
	}
	if s.ImpulseResponse(0) != nil {
		t.Fatal("ImpulseResponse(0) should be nil")
	}
}
