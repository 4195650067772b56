package iir

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-webaudio/dsp/core"
)

// MaxOrder is the largest number of taps accepted per coefficient array.
const MaxOrder = 20

var (
	// ErrLength is returned when a coefficient array is empty or longer
	// than MaxOrder.
	ErrLength = errors.New("iir: coefficient array length out of range")
	// ErrZeroFeedforward is returned when every feedforward tap is zero.
	ErrZeroFeedforward = errors.New("iir: all feedforward coefficients are zero")
	// ErrZeroFeedback is returned when the leading feedback tap is zero.
	ErrZeroFeedback = errors.New("iir: first feedback coefficient is zero")
)

// Filter implements
//
//	y[n] = sum_k b[k] x[n-k] - sum_{k>=1} a[k] y[n-k]
//
// with a[0] normalized to 1.
type Filter struct {
	ff []float64
	fb []float64

	xHist []float64
	yHist []float64
	pos   int
}

// New validates and copies the coefficient arrays and returns a filter
// with zero history.
func New(feedforward, feedback []float64) (*Filter, error) {
	if err := validate(feedforward, feedback); err != nil {
		return nil, err
	}

	a0 := feedback[0]
	ff := make([]float64, len(feedforward))
	for i, b := range feedforward {
		ff[i] = b / a0
	}
	fb := make([]float64, len(feedback))
	for i, a := range feedback {
		fb[i] = a / a0
	}

	n := max(len(ff), len(fb))
	return &Filter{
		ff:    ff,
		fb:    fb,
		xHist: make([]float64, n),
		yHist: make([]float64, n),
	}, nil
}

// validate checks coefficient arrays without building a filter.
func validate(feedforward, feedback []float64) error {
	if len(feedforward) == 0 || len(feedforward) > MaxOrder {
		return fmt.Errorf("%w: feedforward has %d taps", ErrLength, len(feedforward))
	}
	if len(feedback) == 0 || len(feedback) > MaxOrder {
		return fmt.Errorf("%w: feedback has %d taps", ErrLength, len(feedback))
	}

	allZero := true
	for _, b := range feedforward {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return ErrZeroFeedforward
	}
	if feedback[0] == 0 {
		return ErrZeroFeedback
	}
	return nil
}

// ProcessSample filters one input sample.
func (f *Filter) ProcessSample(x float64) float64 {
	n := len(f.xHist)
	y := f.ff[0] * x

	p := f.pos
	for k := 1; k < n; k++ {
		p--
		if p < 0 {
			p = n - 1
		}
		if k < len(f.ff) {
			y += f.ff[k] * f.xHist[p]
		}
		if k < len(f.fb) {
			y -= f.fb[k] * f.yHist[p]
		}
	}

	f.xHist[f.pos] = x
	f.yHist[f.pos] = core.FlushDenormals(y)
	f.pos++
	if f.pos >= n {
		f.pos = 0
	}
	return y
}

// ProcessBlock filters a block of samples in-place.
func (f *Filter) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// ProcessBlockTo filters src into dst. Both slices must have the same length.
func (f *Filter) ProcessBlockTo(dst, src []float64) {
	if len(src) == 0 {
		return
	}
	_ = dst[len(src)-1]
	for i, x := range src {
		dst[i] = f.ProcessSample(x)
	}
}

// Reset clears the history to zero.
func (f *Filter) Reset() {
	clear(f.xHist)
	clear(f.yHist)
	f.pos = 0
}

// Feedforward returns a copy of the normalized feedforward coefficients.
func (f *Filter) Feedforward() []float64 {
	return append([]float64(nil), f.ff...)
}

// Feedback returns a copy of the normalized feedback coefficients.
func (f *Filter) Feedback() []float64 {
	return append([]float64(nil), f.fb...)
}

// Response evaluates H(z) = B(z)/A(z) at z = e^{jw} for the given
// frequency (Hz) and sample rate (Hz).
func (f *Filter) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	zInv := cmplx.Exp(complex(0, -w))
	return polyval(f.ff, zInv) / polyval(f.fb, zInv)
}

// FrequencyResponse writes magnitude and phase for each frequency in
// freqHz. Frequencies outside [0, Nyquist] produce NaN.
func (f *Filter) FrequencyResponse(freqHz, mag, phase []float64, sampleRate float64) {
	n := len(freqHz)
	if n == 0 {
		return
	}
	_ = mag[n-1]
	_ = phase[n-1]

	re := make([]float64, n)
	im := make([]float64, n)
	nyquist := sampleRate / 2
	for i, hz := range freqHz {
		if hz < 0 || hz > nyquist || math.IsNaN(hz) {
			re[i], im[i] = math.NaN(), math.NaN()
			phase[i] = math.NaN()
			continue
		}
		h := f.Response(hz, sampleRate)
		re[i], im[i] = real(h), imag(h)
		phase[i] = cmplx.Phase(h)
	}
	vecmath.Magnitude(mag, re, im)
}

// polyval evaluates sum c[k] * z^k with Horner's rule.
func polyval(c []float64, z complex128) complex128 {
	var acc complex128
	for k := len(c) - 1; k >= 0; k-- {
		acc = acc*z + complex(c[k], 0)
	}
	return acc
}
