package webaudio

import (
	"math"

	"github.com/cwbudde/algo-webaudio/webaudio/exception"
)

// WavetableSize is the number of entries in a PeriodicWave table.
const WavetableSize = 8192

// PeriodicWaveOptions holds Fourier coefficients. Index 0 (DC) is
// ignored. When one array is nil it is taken as zeros of the other's
// length; when both are nil the wave is a sine.
type PeriodicWaveOptions struct {
	Real                 []float64
	Imag                 []float64
	DisableNormalization bool
}

// PeriodicWave is a single-cycle wavetable built from Fourier
// coefficients.
type PeriodicWave struct {
	table []float64
}

// CreatePeriodicWave builds a wavetable by direct summation of the
// harmonics below half the table size. Unless normalization is disabled,
// the table is scaled to a peak of 1. Arrays of different length or
// shorter than 2 fail with IndexSizeError.
func (c *BaseAudioContext) CreatePeriodicWave(opts PeriodicWaveOptions) (*PeriodicWave, error) {
	re, im := opts.Real, opts.Imag
	switch {
	case re == nil && im == nil:
		re, im = []float64{0, 0}, []float64{0, 1}
	case re == nil:
		re = make([]float64, len(im))
	case im == nil:
		im = make([]float64, len(re))
	}
	if len(re) != len(im) {
		return nil, exception.IndexSize("PeriodicWave: real has %d terms, imag %d", len(re), len(im))
	}
	if len(re) < 2 {
		return nil, exception.IndexSize("PeriodicWave: need at least 2 terms, got %d", len(re))
	}
	return &PeriodicWave{table: buildWavetable(re, im, !opts.DisableNormalization)}, nil
}

func buildWavetable(re, im []float64, normalize bool) []float64 {
	sine := make([]float64, WavetableSize)
	for k := range sine {
		sine[k] = math.Sin(2 * math.Pi * float64(k) / WavetableSize)
	}
	const quarter = WavetableSize / 4

	harmonics := min(len(re), WavetableSize/2)
	table := make([]float64, WavetableSize)
	for k := range table {
		var sum float64
		for n := 1; n < harmonics; n++ {
			idx := (n * k) % WavetableSize
			sum += re[n]*sine[(idx+quarter)%WavetableSize] + im[n]*sine[idx]
		}
		table[k] = sum
	}

	if normalize {
		var peak float64
		for _, v := range table {
			peak = max(peak, math.Abs(v))
		}
		if peak > 0 {
			for k := range table {
				table[k] /= peak
			}
		}
	}
	return table
}

// at returns the table value at phase (cycles in [0, 1)), interpolated
// linearly.
func (w *PeriodicWave) at(phase float64) float64 {
	pos := phase * WavetableSize
	i := int(pos)
	frac := pos - float64(i)
	i %= WavetableSize
	return w.table[i]*(1-frac) + w.table[(i+1)%WavetableSize]*frac
}
