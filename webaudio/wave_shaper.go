package webaudio

import (
	"fmt"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/resample"
	"github.com/cwbudde/algo-webaudio/webaudio/exception"
)

// OverSampleType selects the oversampling factor of a WaveShaperNode.
type OverSampleType int

const (
	OverSampleNone OverSampleType = iota
	OverSample2x
	OverSample4x
)

func (o OverSampleType) String() string {
	switch o {
	case OverSampleNone:
		return "none"
	case OverSample2x:
		return "2x"
	case OverSample4x:
		return "4x"
	}
	return fmt.Sprintf("OverSampleType(%d)", int(o))
}

// WaveShaperOptions configures a WaveShaperNode.
type WaveShaperOptions struct {
	NodeOptions
	Curve      []float64
	Oversample OverSampleType
}

// WaveShaperNode maps each input sample through a transfer curve. Without
// a curve it passes its input through.
type WaveShaperNode struct {
	*AudioNode
	kernel *waveShaperKernel
}

// shaperChannel holds the oversampling stages of one channel.
type shaperChannel struct {
	up   []*resample.Upsampler
	down []*resample.Downsampler
	bufs [][]float64 // bufs[s] holds size·2^s samples
}

type waveShaperKernel struct {
	curve      []float64
	oversample OverSampleType
	size       int
	channels   []*shaperChannel
}

// CreateWaveShaper adds a WaveShaperNode.
func (c *BaseAudioContext) CreateWaveShaper(opts WaveShaperOptions) (*WaveShaperNode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.newNode("WaveShaperNode", 1, 1, 2, Max)
	if err := opts.apply(n); err != nil {
		return nil, err
	}
	w := &WaveShaperNode{AudioNode: n, kernel: &waveShaperKernel{size: c.quantumSize}}
	if err := w.kernel.setCurve(opts.Curve); err != nil {
		return nil, err
	}
	if err := w.kernel.setOversample(opts.Oversample); err != nil {
		return nil, err
	}
	n.kernel = w.kernel
	c.register(n)
	return w, nil
}

// Curve returns a copy of the transfer curve.
func (w *WaveShaperNode) Curve() []float64 {
	w.ctx.mu.Lock()
	defer w.ctx.mu.Unlock()
	return append([]float64(nil), w.kernel.curve...)
}

// SetCurve installs a copy of curve. A nil curve disables shaping; a
// curve with fewer than 2 points fails with InvalidStateError.
func (w *WaveShaperNode) SetCurve(curve []float64) error {
	w.ctx.mu.Lock()
	defer w.ctx.mu.Unlock()
	return w.kernel.setCurve(curve)
}

// Oversample returns the oversampling factor.
func (w *WaveShaperNode) Oversample() OverSampleType {
	w.ctx.mu.Lock()
	defer w.ctx.mu.Unlock()
	return w.kernel.oversample
}

// SetOversample changes the oversampling factor and resets the filters.
func (w *WaveShaperNode) SetOversample(o OverSampleType) error {
	w.ctx.mu.Lock()
	defer w.ctx.mu.Unlock()
	return w.kernel.setOversample(o)
}

func (k *waveShaperKernel) setCurve(curve []float64) error {
	if curve == nil {
		k.curve = nil
		return nil
	}
	if len(curve) < 2 {
		return exception.InvalidState("WaveShaperNode: curve needs at least 2 points, got %d", len(curve))
	}
	k.curve = append([]float64(nil), curve...)
	return nil
}

func (k *waveShaperKernel) setOversample(o OverSampleType) error {
	if o < OverSampleNone || o > OverSample4x {
		return exception.NotSupported("WaveShaperNode: unknown oversample %d", int(o))
	}
	if o != k.oversample {
		k.oversample = o
		k.channels = nil
	}
	return nil
}

func (k *waveShaperKernel) newChannel() (*shaperChannel, error) {
	stages := int(k.oversample)
	sc := &shaperChannel{bufs: make([][]float64, stages+1)}
	for s := range stages {
		block := k.size << s
		up, err := resample.NewUpsampler(block)
		if err != nil {
			return nil, err
		}
		down, err := resample.NewDownsampler(block)
		if err != nil {
			return nil, err
		}
		sc.up = append(sc.up, up)
		sc.down = append(sc.down, down)
	}
	for s := range sc.bufs {
		sc.bufs[s] = make([]float64, k.size<<s)
	}
	return sc, nil
}

func (k *waveShaperKernel) process(_ *renderInfo, inputs, outputs []*buffer.Quantum) {
	in, out := inputs[0], outputs[0]
	channels := in.Channels()
	out.SetChannels(channels)

	if k.curve == nil {
		out.CopyFrom(in)
		return
	}
	if k.oversample == OverSampleNone {
		for ch := range channels {
			dst := out.Channel(ch)
			for i, x := range in.Channel(ch) {
				dst[i] = k.shape(x)
			}
		}
		return
	}

	for len(k.channels) < channels {
		sc, err := k.newChannel()
		if err != nil {
			out.Zero()
			return
		}
		k.channels = append(k.channels, sc)
	}
	for ch := range channels {
		k.processOversampled(k.channels[ch], out.Channel(ch), in.Channel(ch))
	}
}

// processOversampled raises the rate one octave per stage, shapes at the
// top rate and comes back down through the matching decimators.
func (k *waveShaperKernel) processOversampled(sc *shaperChannel, dst, src []float64) {
	copy(sc.bufs[0], src)
	stages := len(sc.up)
	for s := range stages {
		_ = sc.up[s].Process(sc.bufs[s+1], sc.bufs[s])
	}
	top := sc.bufs[stages]
	for i, x := range top {
		top[i] = k.shape(x)
	}
	for s := stages - 1; s >= 0; s-- {
		_ = sc.down[s].Process(sc.bufs[s], sc.bufs[s+1])
	}
	copy(dst, sc.bufs[0])
}

// shape looks x up on the curve: v = (N-1)/2·(x+1), interpolated
// linearly and clamped to the end points.
func (k *waveShaperKernel) shape(x float64) float64 {
	n := len(k.curve)
	v := float64(n-1) / 2 * (x + 1)
	if !(v > 0) {
		return k.curve[0]
	}
	if v >= float64(n-1) {
		return k.curve[n-1]
	}
	i := int(v)
	f := v - float64(i)
	return k.curve[i]*(1-f) + k.curve[i+1]*f
}
