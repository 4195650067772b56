package design

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-webaudio/dsp/filter/biquad"
)

const tol = 1e-9

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func mag(c biquad.Coefficients, freq, sampleRate float64) float64 {
	return cmplx.Abs(c.Response(freq, sampleRate))
}

func magDB(c biquad.Coefficients, freq, sampleRate float64) float64 {
	return 20 * math.Log10(mag(c, freq, sampleRate))
}

func TestDesigners_BasicResponseShape(t *testing.T) {
	sr := 48000.0
	f := 1000.0

	lp := Lowpass(f, 0, sr)
	if !(mag(lp, 100, sr) > mag(lp, 10000, sr)) {
		t.Fatal("lowpass shape check failed")
	}

	hp := Highpass(f, 0, sr)
	if !(mag(hp, 10000, sr) > mag(hp, 100, sr)) {
		t.Fatal("highpass shape check failed")
	}

	bp := Bandpass(f, 1, sr)
	if !(mag(bp, f, sr) > mag(bp, 100, sr) && mag(bp, f, sr) > mag(bp, 10000, sr)) {
		t.Fatal("bandpass shape check failed")
	}

	n := Notch(f, 1, sr)
	if !(mag(n, f, sr) < mag(n, 100, sr) && mag(n, f, sr) < mag(n, 10000, sr)) {
		t.Fatal("notch shape check failed")
	}

	ap := Allpass(f, 1, sr)
	for _, hz := range []float64{100, 500, 1000, 5000, 10000} {
		if !almostEqual(mag(ap, hz, sr), 1, 1e-6) {
			t.Fatalf("allpass magnitude at %v Hz = %v, want ~1", hz, mag(ap, hz, sr))
		}
	}
}

func TestLowpass_UnityDCGain(t *testing.T) {
	for _, q := range []float64{-10, 0, 6, 20} {
		c := Lowpass(2000, q, 44100)
		if got := mag(c, 0, 44100); !almostEqual(got, 1, tol) {
			t.Fatalf("q=%v: DC gain = %v, want 1", q, got)
		}
	}
}

func TestLowpassHighpass_ResonanceInDB(t *testing.T) {
	sr := 44100.0
	for _, q := range []float64{-3, 0, 6, 12} {
		lp := Lowpass(1000, q, sr)
		if got := magDB(lp, 1000, sr); !almostEqual(got, q, 1e-6) {
			t.Fatalf("lowpass q=%v: gain at cutoff = %v dB", q, got)
		}
		hp := Highpass(1000, q, sr)
		if got := magDB(hp, 1000, sr); !almostEqual(got, q, 1e-6) {
			t.Fatalf("highpass q=%v: gain at cutoff = %v dB", q, got)
		}
	}
}

func TestPeakAndShelves_Gain(t *testing.T) {
	sr := 48000.0
	for _, g := range []float64{-12, -6, 3, 9} {
		if got := magDB(Peak(2000, g, 2, sr), 2000, sr); !almostEqual(got, g, 1e-6) {
			t.Fatalf("peak gain %v: center = %v dB", g, got)
		}
		if got := magDB(LowShelf(500, g, sr), 0, sr); !almostEqual(got, g, 1e-6) {
			t.Fatalf("lowshelf gain %v: DC = %v dB", g, got)
		}
		if got := magDB(HighShelf(4000, g, sr), sr/2, sr); !almostEqual(got, g, 1e-6) {
			t.Fatalf("highshelf gain %v: Nyquist = %v dB", g, got)
		}
	}
}

func TestEdgeCases(t *testing.T) {
	const sr = 48000.0
	a2 := math.Pow(10, 6.0/20)
	pass := biquad.Coefficients{B0: 1}
	zero := biquad.Coefficients{}

	tests := []struct {
		name string
		got  biquad.Coefficients
		want biquad.Coefficients
	}{
		{"lowpass at nyquist", Lowpass(sr/2, 1, sr), pass},
		{"lowpass above nyquist", Lowpass(sr, 1, sr), pass},
		{"lowpass at dc", Lowpass(0, 1, sr), zero},
		{"highpass at nyquist", Highpass(sr/2, 1, sr), zero},
		{"highpass at dc", Highpass(0, 1, sr), pass},
		{"bandpass at dc", Bandpass(0, 1, sr), zero},
		{"bandpass q zero", Bandpass(1000, 0, sr), pass},
		{"notch at nyquist", Notch(sr/2, 1, sr), pass},
		{"notch q zero", Notch(1000, 0, sr), zero},
		{"allpass at dc", Allpass(0, 1, sr), pass},
		{"allpass q zero", Allpass(1000, 0, sr), biquad.Coefficients{B0: -1}},
		{"peak at dc", Peak(0, 6, 1, sr), pass},
		{"peak q zero", Peak(1000, 6, 0, sr), biquad.Coefficients{B0: a2}},
		{"lowshelf at nyquist", LowShelf(sr/2, 6, sr), biquad.Coefficients{B0: a2}},
		{"lowshelf at dc", LowShelf(0, 6, sr), pass},
		{"highshelf at nyquist", HighShelf(sr/2, 6, sr), pass},
		{"highshelf at dc", HighShelf(0, 6, sr), biquad.Coefficients{B0: a2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !almostEqual(tt.got.B0, tt.want.B0, tol) || tt.got.B1 != tt.want.B1 ||
				tt.got.B2 != tt.want.B2 || tt.got.A1 != tt.want.A1 || tt.got.A2 != tt.want.A2 {
				t.Fatalf("got %+v, want %+v", tt.got, tt.want)
			}
		})
	}
}

func TestLowpass_QClamp(t *testing.T) {
	huge := Lowpass(1000, 1e6, 44100)
	clamped := Lowpass(1000, QMax, 44100)
	if huge != clamped {
		t.Fatalf("q above QMax not clamped: %+v vs %+v", huge, clamped)
	}
	if !almostEqual(QMax, 770.6, 0.1) {
		t.Fatalf("QMax = %v", QMax)
	}
}

func TestCoefficients_Dispatch(t *testing.T) {
	const sr = 44100.0
	if Coefficients(TypeLowpass, 800, 3, 0, sr) != Lowpass(800, 3, sr) {
		t.Fatal("lowpass dispatch mismatch")
	}
	if Coefficients(TypeLowshelf, 800, 3, 4, sr) != LowShelf(800, 4, sr) {
		t.Fatal("lowshelf dispatch ignores q")
	}
	if Coefficients(TypePeaking, 800, 3, 4, sr) != Peak(800, 4, 3, sr) {
		t.Fatal("peaking dispatch mismatch")
	}
	if Coefficients(Type(99), 800, 3, 4, sr) != (biquad.Coefficients{B0: 1}) {
		t.Fatal("unknown type should pass through")
	}
}

func TestComputedFrequency(t *testing.T) {
	if got := ComputedFrequency(440, 1200, 44100); !almostEqual(got, 880, tol) {
		t.Fatalf("detune +1200 = %v, want 880", got)
	}
	if got := ComputedFrequency(20000, 1200, 44100); got != 22050 {
		t.Fatalf("clamp to nyquist = %v", got)
	}
	if got := ComputedFrequency(-5, 0, 44100); got != 0 {
		t.Fatalf("negative frequency = %v", got)
	}
}

func TestParseType(t *testing.T) {
	for typ := TypeLowpass; typ <= TypeAllpass; typ++ {
		got, err := ParseType(typ.String())
		if err != nil || got != typ {
			t.Fatalf("ParseType(%q) = %v, %v", typ.String(), got, err)
		}
	}
	if _, err := ParseType("bandstop"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("err = %v, want ErrUnknownType", err)
	}
	if s := Type(42).String(); s != "Type(42)" {
		t.Fatalf("String() = %q", s)
	}
}
