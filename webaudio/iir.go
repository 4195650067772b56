package webaudio

import (
	"errors"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/filter/iir"
	"github.com/cwbudde/algo-webaudio/webaudio/exception"
)

// IIRFilterOptions holds the transfer function of an IIRFilterNode.
type IIRFilterOptions struct {
	NodeOptions
	Feedforward []float64
	Feedback    []float64
}

// IIRFilterNode is a fixed general-order IIR filter.
type IIRFilterNode struct {
	*AudioNode
	kernel *iirKernel
}

type iirKernel struct {
	proto   *iir.Filter
	filters []*iir.Filter
}

// CreateIIRFilter adds an IIRFilterNode. Arrays that are empty or longer
// than 20 taps fail with NotSupportedError; all-zero feedforward or a
// zero leading feedback tap fail with InvalidStateError.
func (c *BaseAudioContext) CreateIIRFilter(opts IIRFilterOptions) (*IIRFilterNode, error) {
	proto, err := iir.New(opts.Feedforward, opts.Feedback)
	if err != nil {
		return nil, iirError(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.newNode("IIRFilterNode", 1, 1, 2, Max)
	if err := opts.apply(n); err != nil {
		return nil, err
	}
	f := &IIRFilterNode{AudioNode: n, kernel: &iirKernel{proto: proto}}
	n.kernel = f.kernel
	c.register(n)
	return f, nil
}

func iirError(err error) error {
	switch {
	case errors.Is(err, iir.ErrLength):
		return exception.Wrap(exception.ErrNotSupported, err)
	case errors.Is(err, iir.ErrZeroFeedforward), errors.Is(err, iir.ErrZeroFeedback):
		return exception.Wrap(exception.ErrInvalidState, err)
	}
	return err
}

// GetFrequencyResponse writes the magnitude and phase response at each
// frequency in freqHz. The three slices must have the same length, else
// InvalidAccessError.
func (f *IIRFilterNode) GetFrequencyResponse(freqHz, mag, phase []float64) error {
	if len(mag) != len(freqHz) || len(phase) != len(freqHz) {
		return exception.InvalidAccess("IIRFilterNode: response arrays have lengths %d, %d, %d",
			len(freqHz), len(mag), len(phase))
	}
	f.kernel.proto.FrequencyResponse(freqHz, mag, phase, f.ctx.sampleRate)
	return nil
}

func (k *iirKernel) process(_ *renderInfo, inputs, outputs []*buffer.Quantum) {
	in, out := inputs[0], outputs[0]
	channels := in.Channels()
	out.SetChannels(channels)
	for len(k.filters) < channels {
		// The prototype validated already, so a copy cannot fail.
		f, _ := iir.New(k.proto.Feedforward(), k.proto.Feedback())
		k.filters = append(k.filters, f)
	}
	for ch := range channels {
		k.filters[ch].ProcessBlockTo(out.Channel(ch), in.Channel(ch))
	}
}
