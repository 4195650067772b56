package design

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-webaudio/dsp/core"
	"github.com/cwbudde/algo-webaudio/dsp/filter/biquad"
)

// ErrUnknownType is returned by ParseType for an unrecognized filter name.
var ErrUnknownType = errors.New("design: unknown filter type")

// QMax bounds the dB-valued Q of lowpass and highpass filters so that
// 10^(Q/20) stays representable in single precision.
var QMax = 20 * math.Log10(math.MaxFloat32)

// Type selects one of the biquad filter responses.
type Type int

const (
	TypeLowpass Type = iota
	TypeHighpass
	TypeBandpass
	TypeLowshelf
	TypeHighshelf
	TypePeaking
	TypeNotch
	TypeAllpass
)

var typeNames = [...]string{
	TypeLowpass:   "lowpass",
	TypeHighpass:  "highpass",
	TypeBandpass:  "bandpass",
	TypeLowshelf:  "lowshelf",
	TypeHighshelf: "highshelf",
	TypePeaking:   "peaking",
	TypeNotch:     "notch",
	TypeAllpass:   "allpass",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType maps a Web Audio filter type name to its Type.
func ParseType(name string) (Type, error) {
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// ComputedFrequency applies a detune in cents to freq and clamps the
// result to [0, sampleRate/2].
func ComputedFrequency(freq, detune, sampleRate float64) float64 {
	return core.Clamp(freq*core.CentsToRatio(detune), 0, sampleRate/2)
}

// Coefficients derives the section for filter type t. freq is in Hz, q is
// in dB for lowpass and highpass and linear otherwise, gainDB only affects
// the shelving and peaking types.
func Coefficients(t Type, freq, q, gainDB, sampleRate float64) biquad.Coefficients {
	switch t {
	case TypeLowpass:
		return Lowpass(freq, q, sampleRate)
	case TypeHighpass:
		return Highpass(freq, q, sampleRate)
	case TypeBandpass:
		return Bandpass(freq, q, sampleRate)
	case TypeLowshelf:
		return LowShelf(freq, gainDB, sampleRate)
	case TypeHighshelf:
		return HighShelf(freq, gainDB, sampleRate)
	case TypePeaking:
		return Peak(freq, gainDB, q, sampleRate)
	case TypeNotch:
		return Notch(freq, q, sampleRate)
	case TypeAllpass:
		return Allpass(freq, q, sampleRate)
	}
	return identity()
}

// Lowpass designs a resonant lowpass with cutoff freq (Hz) and resonance
// qDB (dB).
func Lowpass(freq, qDB, sampleRate float64) biquad.Coefficients {
	cutoff := normalizedFrequency(freq, sampleRate)
	switch {
	case cutoff >= 1:
		return identity()
	case cutoff <= 0:
		return biquad.Coefficients{}
	}

	w0 := math.Pi * cutoff
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * math.Pow(10, clampQDB(qDB)/20))
	beta := (1 - cw) / 2

	return biquad.Normalize(beta, 2*beta, beta, 1+alpha, -2*cw, 1-alpha)
}

// Highpass designs a resonant highpass with cutoff freq (Hz) and resonance
// qDB (dB).
func Highpass(freq, qDB, sampleRate float64) biquad.Coefficients {
	cutoff := normalizedFrequency(freq, sampleRate)
	switch {
	case cutoff >= 1:
		return biquad.Coefficients{}
	case cutoff <= 0:
		return identity()
	}

	w0 := math.Pi * cutoff
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * math.Pow(10, clampQDB(qDB)/20))
	beta := (1 + cw) / 2

	return biquad.Normalize(beta, -2*beta, beta, 1+alpha, -2*cw, 1-alpha)
}

// Bandpass designs a constant 0 dB peak gain bandpass centered at freq.
func Bandpass(freq, q, sampleRate float64) biquad.Coefficients {
	f := normalizedFrequency(freq, sampleRate)
	if f <= 0 || f >= 1 {
		return biquad.Coefficients{}
	}
	if q <= 0 {
		return identity()
	}

	w0 := math.Pi * f
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	return biquad.Normalize(alpha, 0, -alpha, 1+alpha, -2*cw, 1-alpha)
}

// Notch designs a band-reject filter centered at freq.
func Notch(freq, q, sampleRate float64) biquad.Coefficients {
	f := normalizedFrequency(freq, sampleRate)
	if f <= 0 || f >= 1 {
		return identity()
	}
	if q <= 0 {
		return biquad.Coefficients{}
	}

	w0 := math.Pi * f
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	return biquad.Normalize(1, -2*cw, 1, 1+alpha, -2*cw, 1-alpha)
}

// Allpass designs a second-order allpass whose phase passes -180 degrees
// at freq.
func Allpass(freq, q, sampleRate float64) biquad.Coefficients {
	f := normalizedFrequency(freq, sampleRate)
	if f <= 0 || f >= 1 {
		return identity()
	}
	if q <= 0 {
		return biquad.Coefficients{B0: -1}
	}

	w0 := math.Pi * f
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	return biquad.Normalize(1-alpha, -2*cw, 1+alpha, 1+alpha, -2*cw, 1-alpha)
}

// Peak designs a peaking EQ with gainDB of boost or cut at freq.
func Peak(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	a := math.Pow(10, gainDB/40)
	f := normalizedFrequency(freq, sampleRate)
	if f <= 0 || f >= 1 {
		return identity()
	}
	if q <= 0 {
		return biquad.Coefficients{B0: a * a}
	}

	w0 := math.Pi * f
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	return biquad.Normalize(1+alpha*a, -2*cw, 1-alpha*a, 1+alpha/a, -2*cw, 1-alpha/a)
}

// LowShelf designs a shelf that applies gainDB below freq. The shelf slope
// is fixed at 1.
func LowShelf(freq, gainDB, sampleRate float64) biquad.Coefficients {
	a := math.Pow(10, gainDB/40)
	f := normalizedFrequency(freq, sampleRate)
	switch {
	case f >= 1:
		return biquad.Coefficients{B0: a * a}
	case f <= 0:
		return identity()
	}

	w0 := math.Pi * f
	cw := math.Cos(w0)
	beta := shelfBeta(w0, a)

	b0 := a * ((a + 1) - (a-1)*cw + beta)
	b1 := 2 * a * ((a - 1) - (a+1)*cw)
	b2 := a * ((a + 1) - (a-1)*cw - beta)
	a0 := (a + 1) + (a-1)*cw + beta
	a1 := -2 * ((a - 1) + (a+1)*cw)
	a2 := (a + 1) + (a-1)*cw - beta

	return biquad.Normalize(b0, b1, b2, a0, a1, a2)
}

// HighShelf designs a shelf that applies gainDB above freq. The shelf
// slope is fixed at 1.
func HighShelf(freq, gainDB, sampleRate float64) biquad.Coefficients {
	a := math.Pow(10, gainDB/40)
	f := normalizedFrequency(freq, sampleRate)
	switch {
	case f >= 1:
		return identity()
	case f <= 0:
		return biquad.Coefficients{B0: a * a}
	}

	w0 := math.Pi * f
	cw := math.Cos(w0)
	beta := shelfBeta(w0, a)

	b0 := a * ((a + 1) + (a-1)*cw + beta)
	b1 := -2 * a * ((a - 1) + (a+1)*cw)
	b2 := a * ((a + 1) + (a-1)*cw - beta)
	a0 := (a + 1) - (a-1)*cw + beta
	a1 := 2 * ((a - 1) - (a+1)*cw)
	a2 := (a + 1) - (a-1)*cw - beta

	return biquad.Normalize(b0, b1, b2, a0, a1, a2)
}

// shelfBeta is 2*sqrt(A)*alpha with alpha = sin(w0)/2 * sqrt(2) for S = 1.
func shelfBeta(w0, a float64) float64 {
	alpha := math.Sin(w0) / 2 * math.Sqrt2
	return 2 * math.Sqrt(a) * alpha
}

// normalizedFrequency maps freq to [0, 1] where 1 is Nyquist.
func normalizedFrequency(freq, sampleRate float64) float64 {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) || math.IsNaN(freq) {
		return 0
	}
	return core.Clamp(freq/(sampleRate/2), 0, 1)
}

func clampQDB(q float64) float64 {
	if math.IsNaN(q) {
		return 0
	}
	return core.Clamp(q, -QMax, QMax)
}

func identity() biquad.Coefficients {
	return biquad.Coefficients{B0: 1}
}
