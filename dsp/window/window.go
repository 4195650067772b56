// Package window generates the Blackman and Kaiser tapers used by the
// analyser and the resampling filter designs.
package window

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// DefaultBlackmanAlpha gives the classic Blackman coefficients
// 0.42, 0.5, 0.08.
const DefaultBlackmanAlpha = 0.16

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
	alpha    float64
}

func defaultConfig() config {
	return config{alpha: DefaultBlackmanAlpha}
}

// WithPeriodic samples the window over [0, N) instead of [0, N-1], the
// form used for spectral analysis frames.
func WithPeriodic() Option {
	return func(cfg *config) {
		cfg.periodic = true
	}
}

// WithAlpha overrides the Blackman alpha parameter.
func WithAlpha(v float64) Option {
	return func(cfg *config) {
		cfg.alpha = v
	}
}

// Blackman returns Blackman window coefficients:
//
//	w[n] = a0 - a1 cos(2 pi x) + a2 cos(4 pi x)
//
// with a0 = (1-alpha)/2, a1 = 1/2, a2 = alpha/2.
func Blackman(size int, opts ...Option) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, size)
	}
	cfg := apply(opts)

	a0 := (1 - cfg.alpha) / 2
	a1 := 0.5
	a2 := cfg.alpha / 2

	w := make([]float64, size)
	for n := range w {
		phase := 2 * math.Pi * samplePosition(n, size, cfg.periodic)
		w[n] = a0 - a1*math.Cos(phase) + a2*math.Cos(2*phase)
	}
	return w, nil
}

// Kaiser returns Kaiser window coefficients with shape parameter beta.
func Kaiser(size int, beta float64, opts ...Option) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, size)
	}
	if beta < 0 || math.IsNaN(beta) {
		return nil, fmt.Errorf("%w: kaiser beta %f", ErrInvalidParameter, beta)
	}
	cfg := apply(opts)

	w := make([]float64, size)
	norm := BesselI0(beta)
	for n := range w {
		r := 2*samplePosition(n, size, cfg.periodic) - 1
		w[n] = BesselI0(beta*math.Sqrt(math.Max(0, 1-r*r))) / norm
	}
	return w, nil
}

// KaiserBeta estimates the beta reaching the given stopband attenuation
// in dB (Kaiser's empirical formula).
func KaiserBeta(attenuationDB float64) float64 {
	switch {
	case attenuationDB > 50:
		return 0.1102 * (attenuationDB - 8.7)
	case attenuationDB >= 21:
		d := attenuationDB - 21
		return 0.5842*math.Pow(d, 0.4) + 0.07886*d
	default:
		return 0
	}
}

// ApplyInPlace multiplies samples by coeffs element-wise.
func ApplyInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return fmt.Errorf("%w: %d vs %d", ErrMismatchedLength, len(samples), len(coeffs))
	}
	vecmath.MulBlockInPlace(samples, coeffs)
	return nil
}

// BesselI0 evaluates the zeroth-order modified Bessel function of the first
// kind by its power series.
func BesselI0(x float64) float64 {
	sum := 1.0
	term := 1.0
	x2 := x * x / 4
	for k := 1; k < 200; k++ {
		term *= x2 / float64(k*k)
		sum += term
		if term < 1e-17*sum {
			break
		}
	}
	return sum
}

func apply(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0.5
	}
	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}
	return float64(n) / den
}
