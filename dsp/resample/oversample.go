package resample

import (
	"fmt"

	"github.com/cwbudde/algo-webaudio/dsp/conv"
	"github.com/cwbudde/algo-webaudio/dsp/window"
)

// HalfbandTaps is the length of the 2x interpolation and decimation
// filter. It is odd so the filter delay is a whole number of samples.
const HalfbandTaps = 127

// halfband designs the Blackman windowed-sinc low-pass at a quarter of the
// oversampled rate.
func halfband(gain float64) ([]float64, error) {
	win, err := window.Blackman(HalfbandTaps)
	if err != nil {
		return nil, err
	}
	return windowedSinc(0.25, win, gain)
}

// Upsampler doubles the rate of fixed-size blocks: zero stuffing followed
// by FFT-domain low-pass filtering.
type Upsampler struct {
	blockSize int
	stuffed   []float64
	filter    *conv.StreamingOverlapAdd
}

// NewUpsampler returns an Upsampler taking blocks of blockSize input
// samples.
func NewUpsampler(blockSize int) (*Upsampler, error) {
	taps, err := halfband(2)
	if err != nil {
		return nil, fmt.Errorf("resample: upsampler design: %w", err)
	}
	f, err := conv.NewStreamingOverlapAdd(taps, 2*blockSize)
	if err != nil {
		return nil, fmt.Errorf("resample: upsampler: %w", err)
	}
	return &Upsampler{
		blockSize: blockSize,
		stuffed:   make([]float64, 2*blockSize),
		filter:    f,
	}, nil
}

// Process writes 2*len(src) samples to dst.
func (u *Upsampler) Process(dst, src []float64) error {
	if len(src) != u.blockSize || len(dst) != 2*u.blockSize {
		return fmt.Errorf("%w: upsampler wants %d -> %d samples, got %d -> %d",
			conv.ErrLengthMismatch, u.blockSize, 2*u.blockSize, len(src), len(dst))
	}
	for i, x := range src {
		u.stuffed[2*i] = x
		u.stuffed[2*i+1] = 0
	}
	return u.filter.ProcessBlockTo(dst, u.stuffed)
}

// Latency returns the filter delay in output (oversampled) samples.
func (u *Upsampler) Latency() int {
	return (HalfbandTaps - 1) / 2
}

// Reset clears filter state.
func (u *Upsampler) Reset() {
	u.filter.Reset()
}

// Downsampler halves the rate of fixed-size blocks: low-pass filtering
// followed by decimation.
type Downsampler struct {
	blockSize int
	filtered  []float64
	filter    *conv.StreamingOverlapAdd
}

// NewDownsampler returns a Downsampler producing blocks of blockSize
// output samples from 2*blockSize input samples.
func NewDownsampler(blockSize int) (*Downsampler, error) {
	taps, err := halfband(1)
	if err != nil {
		return nil, fmt.Errorf("resample: downsampler design: %w", err)
	}
	f, err := conv.NewStreamingOverlapAdd(taps, 2*blockSize)
	if err != nil {
		return nil, fmt.Errorf("resample: downsampler: %w", err)
	}
	return &Downsampler{
		blockSize: blockSize,
		filtered:  make([]float64, 2*blockSize),
		filter:    f,
	}, nil
}

// Process writes len(src)/2 samples to dst.
func (d *Downsampler) Process(dst, src []float64) error {
	if len(dst) != d.blockSize || len(src) != 2*d.blockSize {
		return fmt.Errorf("%w: downsampler wants %d -> %d samples, got %d -> %d",
			conv.ErrLengthMismatch, 2*d.blockSize, d.blockSize, len(src), len(dst))
	}
	if err := d.filter.ProcessBlockTo(d.filtered, src); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = d.filtered[2*i]
	}
	return nil
}

// Latency returns the filter delay in input (oversampled) samples.
func (d *Downsampler) Latency() int {
	return (HalfbandTaps - 1) / 2
}

// Reset clears filter state.
func (d *Downsampler) Reset() {
	d.filter.Reset()
}
