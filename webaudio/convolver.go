package webaudio

import (
	"math"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/conv"
	"github.com/cwbudde/algo-webaudio/dsp/core"
	"github.com/cwbudde/algo-webaudio/webaudio/exception"
)

// Impulse response normalization constants.
const (
	convolverCalibrationDB   = -58.0
	convolverReferenceRate   = 44100.0
	convolverMinPower        = 0.000125
	convolverTrueStereoScale = 0.5
)

// ConvolverOptions configures a ConvolverNode.
type ConvolverOptions struct {
	NodeOptions
	Buffer               *AudioBuffer
	DisableNormalization bool
}

// ConvolverNode convolves its input with an impulse response. Mono and
// stereo responses filter each input channel; a four-channel response is
// a true-stereo matrix (LL, LR, RL, RR).
type ConvolverNode struct {
	*AudioNode
	kernel *convolverKernel
}

// blockConvolver is satisfied by the partitioned and streaming
// convolvers of dsp/conv through small adapters.
type blockConvolver interface {
	process(dst, src []float64) error
}

type partitionedConvolver struct{ *conv.UniformPartitioned }

func (p partitionedConvolver) process(dst, src []float64) error { return p.ProcessBlock(dst, src) }

type streamingConvolver struct{ *conv.StreamingOverlapAdd }

func (s streamingConvolver) process(dst, src []float64) error { return s.ProcessBlockTo(dst, src) }

// convolverRoute feeds one input side through one response channel into
// one output channel.
type convolverRoute struct {
	input, output int
	conv          blockConvolver
}

type convolverKernel struct {
	buffer    *AudioBuffer
	normalize bool
	irChans   int
	routes    []convolverRoute
	scratch   []float64
}

// CreateConvolver adds a ConvolverNode. Its channel count is at most 2
// and its channel count mode cannot be Max.
func (c *BaseAudioContext) CreateConvolver(opts ConvolverOptions) (*ConvolverNode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.newNode("ConvolverNode", 1, 1, 2, ClampedMax)
	n.constraints.maxCount = 2
	n.constraints.noMaxMode = true
	if err := opts.apply(n); err != nil {
		return nil, err
	}
	cv := &ConvolverNode{AudioNode: n, kernel: &convolverKernel{
		normalize: !opts.DisableNormalization,
		scratch:   make([]float64, c.quantumSize),
	}}
	n.kernel = cv.kernel
	if opts.Buffer != nil {
		if err := cv.setBuffer(opts.Buffer); err != nil {
			return nil, err
		}
	}
	c.register(n)
	return cv, nil
}

// Normalize reports whether the next buffer will be normalized.
func (cv *ConvolverNode) Normalize() bool {
	cv.ctx.mu.Lock()
	defer cv.ctx.mu.Unlock()
	return cv.kernel.normalize
}

// SetNormalize controls normalization of buffers set afterwards.
func (cv *ConvolverNode) SetNormalize(on bool) {
	cv.ctx.mu.Lock()
	defer cv.ctx.mu.Unlock()
	cv.kernel.normalize = on
}

// Buffer returns the impulse response, or nil.
func (cv *ConvolverNode) Buffer() *AudioBuffer {
	cv.ctx.mu.Lock()
	defer cv.ctx.mu.Unlock()
	return cv.kernel.buffer
}

// SetBuffer installs an impulse response, or silences the node for nil.
// The response must have 1, 2 or 4 channels and the context sample rate,
// else NotSupportedError.
func (cv *ConvolverNode) SetBuffer(b *AudioBuffer) error {
	cv.ctx.mu.Lock()
	defer cv.ctx.mu.Unlock()
	return cv.setBuffer(b)
}

func (cv *ConvolverNode) setBuffer(b *AudioBuffer) error {
	k := cv.kernel
	if b == nil {
		k.buffer, k.routes, k.irChans = nil, nil, 0
		return nil
	}

	irChans := b.NumberOfChannels()
	if irChans != 1 && irChans != 2 && irChans != 4 {
		return exception.NotSupported("ConvolverNode: buffer has %d channels, want 1, 2 or 4", irChans)
	}
	if b.SampleRate() != cv.ctx.sampleRate {
		return exception.NotSupported("ConvolverNode: buffer sample rate %v differs from context rate %v",
			b.SampleRate(), cv.ctx.sampleRate)
	}

	scale := 1.0
	if k.normalize {
		scale = normalizationScale(b)
	}
	kernels := make([][]float64, irChans)
	for ch := range kernels {
		kernels[ch] = make([]float64, b.Length())
		for i, v := range b.channels[ch] {
			kernels[ch][i] = v * scale
		}
	}

	var layout []convolverRoute
	switch irChans {
	case 1, 2:
		layout = []convolverRoute{{input: 0, output: 0}, {input: 1, output: 1}}
	case 4:
		layout = []convolverRoute{
			{input: 0, output: 0}, {input: 0, output: 1},
			{input: 1, output: 0}, {input: 1, output: 1},
		}
	}
	for i := range layout {
		c, err := newBlockConvolver(kernels[min(i, irChans-1)], cv.ctx.quantumSize)
		if err != nil {
			return exception.Wrap(exception.ErrNotSupported, err)
		}
		layout[i].conv = c
	}

	k.buffer, k.routes, k.irChans = b, layout, irChans
	cv.ctx.log.Debugf("convolver #%d: %d-channel response, %d frames, scale %.6g",
		cv.id, irChans, b.Length(), scale)
	return nil
}

// newBlockConvolver prefers the zero-latency partitioned convolver and
// falls back to streaming overlap-add for quantum sizes that are not a
// power of two.
func newBlockConvolver(ir []float64, blockSize int) (blockConvolver, error) {
	if core.IsPowerOfTwo(blockSize) {
		up, err := conv.NewUniformPartitioned(ir, blockSize)
		if err != nil {
			return nil, err
		}
		return partitionedConvolver{up}, nil
	}
	soa, err := conv.NewStreamingOverlapAdd(ir, blockSize)
	if err != nil {
		return nil, err
	}
	return streamingConvolver{soa}, nil
}

// normalizationScale returns the gain that brings the response to the
// calibrated loudness: the inverse RMS over all channels, the -58 dB
// calibration, the 44.1 kHz rate correction and the true-stereo halving.
func normalizationScale(b *AudioBuffer) float64 {
	var power float64
	for _, c := range b.channels {
		for _, v := range c {
			power += v * v
		}
	}
	power = math.Sqrt(power / float64(b.NumberOfChannels()*b.Length()))
	if !core.IsFinite(power) || power < convolverMinPower {
		power = convolverMinPower
	}

	scale := 1 / power
	scale *= core.DBToLinear(convolverCalibrationDB)
	scale *= convolverReferenceRate / b.SampleRate()
	if b.NumberOfChannels() == 4 {
		scale *= convolverTrueStereoScale
	}
	return scale
}

func (k *convolverKernel) process(_ *renderInfo, inputs, outputs []*buffer.Quantum) {
	in, out := inputs[0], outputs[0]
	if k.routes == nil {
		out.SetChannels(1)
		out.Zero()
		return
	}

	mono := in.Channels() == 1
	if mono && k.irChans == 1 {
		out.SetChannels(1)
		_ = k.routes[0].conv.process(out.Channel(0), in.Channel(0))
		return
	}

	out.SetChannels(2)
	out.Zero()
	for _, route := range k.routes {
		side := route.input
		if mono {
			side = 0
		}
		if err := route.conv.process(k.scratch, in.Channel(side)); err != nil {
			continue
		}
		dst := out.Channel(route.output)
		for i, v := range k.scratch {
			dst[i] += v
		}
	}
}
