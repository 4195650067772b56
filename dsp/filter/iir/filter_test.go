package iir

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-webaudio/dsp/filter/biquad"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNew_Validation(t *testing.T) {
	long := make([]float64, MaxOrder+1)
	long[0] = 1

	tests := []struct {
		name    string
		ff, fb  []float64
		wantErr error
	}{
		{"empty feedforward", nil, []float64{1}, ErrLength},
		{"empty feedback", []float64{1}, nil, ErrLength},
		{"long feedforward", long, []float64{1}, ErrLength},
		{"long feedback", []float64{1}, long, ErrLength},
		{"zero feedforward", []float64{0, 0}, []float64{1}, ErrZeroFeedforward},
		{"zero a0", []float64{1}, []float64{0, 1}, ErrZeroFeedback},
		{"max order ok", long[:MaxOrder], long[:MaxOrder], nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.ff, tt.fb)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_NormalizesByA0(t *testing.T) {
	f, err := New([]float64{2, 4}, []float64{2, -1})
	if err != nil {
		t.Fatal(err)
	}
	ff, fb := f.Feedforward(), f.Feedback()
	if ff[0] != 1 || ff[1] != 2 || fb[0] != 1 || fb[1] != -0.5 {
		t.Fatalf("ff=%v fb=%v", ff, fb)
	}
}

func TestProcessSample_OnePole(t *testing.T) {
	// y[n] = x[n] + 0.5 y[n-1]
	f, err := New([]float64{1}, []float64{1, -0.5})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 0.5, 0.25, 0.125, 0.0625}
	for i, w := range want {
		x := 0.0
		if i == 0 {
			x = 1
		}
		if got := f.ProcessSample(x); !almostEqual(got, w, 1e-15) {
			t.Fatalf("y[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestProcessSample_MatchesBiquad(t *testing.T) {
	c := biquad.Coefficients{B0: 0.2, B1: 0.4, B2: 0.2, A1: -0.6, A2: 0.2}
	s := biquad.NewSection(c)
	f, err := New([]float64{c.B0, c.B1, c.B2}, []float64{1, c.A1, c.A2})
	if err != nil {
		t.Fatal(err)
	}

	for i := range 64 {
		x := math.Sin(float64(i) * 0.3)
		want := s.ProcessSample(x)
		if got := f.ProcessSample(x); !almostEqual(got, want, 1e-12) {
			t.Fatalf("sample %d: got %v, want %v", i, got, want)
		}
	}
}

func TestProcessBlock_MatchesSample(t *testing.T) {
	ff := []float64{0.1, 0.2, 0.3}
	fb := []float64{1, -0.3, 0.1, 0.05}
	input := []float64{1, -1, 0.5, 0.25, 0, 0, 0.75, -0.5}

	ref, _ := New(ff, fb)
	want := make([]float64, len(input))
	for i, x := range input {
		want[i] = ref.ProcessSample(x)
	}

	f, _ := New(ff, fb)
	dst := make([]float64, len(input))
	f.ProcessBlockTo(dst, input)
	buf := append([]float64(nil), input...)
	g, _ := New(ff, fb)
	g.ProcessBlock(buf)
	for i := range want {
		if !almostEqual(dst[i], want[i], 1e-15) || !almostEqual(buf[i], want[i], 1e-15) {
			t.Fatalf("sample %d: to=%v inplace=%v want=%v", i, dst[i], buf[i], want[i])
		}
	}
}

func TestReset(t *testing.T) {
	f, _ := New([]float64{1}, []float64{1, -0.9})
	first := f.ProcessSample(1)
	f.ProcessSample(0)
	f.Reset()
	if got := f.ProcessSample(1); got != first {
		t.Fatalf("after reset got %v, want %v", got, first)
	}
}

func TestResponse(t *testing.T) {
	f, _ := New([]float64{1}, []float64{1, -0.5})
	if got := cmplx.Abs(f.Response(0, 48000)); !almostEqual(got, 2, 1e-12) {
		t.Fatalf("DC gain = %v, want 2", got)
	}
	if got := cmplx.Abs(f.Response(24000, 48000)); !almostEqual(got, 2.0/3, 1e-12) {
		t.Fatalf("Nyquist gain = %v, want 2/3", got)
	}

	c := biquad.Coefficients{B0: 0.2, B1: 0.4, B2: 0.2, A1: -0.6, A2: 0.2}
	g, _ := New([]float64{c.B0, c.B1, c.B2}, []float64{1, c.A1, c.A2})
	for _, hz := range []float64{10, 1000, 12000} {
		if d := cmplx.Abs(g.Response(hz, 48000) - c.Response(hz, 48000)); d > 1e-12 {
			t.Fatalf("%v Hz: response differs from biquad by %v", hz, d)
		}
	}
}

func TestFrequencyResponse_OutOfRange(t *testing.T) {
	f, _ := New([]float64{1}, []float64{1, -0.5})
	freqs := []float64{-10, 0, 30000}
	mag := make([]float64, 3)
	phase := make([]float64, 3)
	f.FrequencyResponse(freqs, mag, phase, 48000)

	if !math.IsNaN(mag[0]) || !math.IsNaN(phase[2]) || !math.IsNaN(mag[2]) {
		t.Fatalf("out-of-range bins not NaN: mag=%v phase=%v", mag, phase)
	}
	if !almostEqual(mag[1], 2, 1e-12) || phase[1] != 0 {
		t.Fatalf("DC bin: mag=%v phase=%v", mag[1], phase[1])
	}
}
