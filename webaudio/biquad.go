package webaudio

import (
	"math"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/filter/biquad"
	"github.com/cwbudde/algo-webaudio/dsp/filter/design"
	"github.com/cwbudde/algo-webaudio/webaudio/exception"
)

// BiquadFilterType selects the response of a BiquadFilterNode.
type BiquadFilterType = design.Type

// Filter types re-exported from the design package.
const (
	Lowpass   = design.TypeLowpass
	Highpass  = design.TypeHighpass
	Bandpass  = design.TypeBandpass
	Lowshelf  = design.TypeLowshelf
	Highshelf = design.TypeHighshelf
	Peaking   = design.TypePeaking
	Notch     = design.TypeNotch
	Allpass   = design.TypeAllpass
)

// BiquadFilterOptions configures a BiquadFilterNode.
type BiquadFilterOptions struct {
	NodeOptions
	Type BiquadFilterType
}

// BiquadFilterNode is a second-order filter whose coefficients follow its
// params sample by sample.
type BiquadFilterNode struct {
	*AudioNode

	Frequency *AudioParam
	Detune    *AudioParam
	Q         *AudioParam
	Gain      *AudioParam

	kernel *biquadKernel
}

type biquadKernel struct {
	typ                        BiquadFilterType
	frequency, detune, q, gain *AudioParam

	sections []*biquad.Section
	coeffs   []biquad.Coefficients
}

// CreateBiquadFilter adds a BiquadFilterNode, lowpass at 350 Hz by
// default.
func (c *BaseAudioContext) CreateBiquadFilter(opts BiquadFilterOptions) (*BiquadFilterNode, error) {
	if opts.Type < Lowpass || opts.Type > Allpass {
		return nil, exception.NotSupported("BiquadFilterNode: unknown type %d", int(opts.Type))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.newNode("BiquadFilterNode", 1, 1, 2, Max)
	if err := opts.apply(n); err != nil {
		return nil, err
	}
	nyquist := c.sampleRate / 2
	b := &BiquadFilterNode{AudioNode: n}
	b.Frequency = n.newParam("frequency", 350, 0, nyquist, ARate)
	b.Detune = n.newParam("detune", 0, -maxDetune, maxDetune, ARate)
	b.Q = n.newParam("Q", 1, -mostPositive, mostPositive, ARate)
	b.Gain = n.newParam("gain", 0, -mostPositive, 40*math.Log10(mostPositive), ARate)
	b.kernel = &biquadKernel{
		typ:       opts.Type,
		frequency: b.Frequency,
		detune:    b.Detune,
		q:         b.Q,
		gain:      b.Gain,
		coeffs:    make([]biquad.Coefficients, c.quantumSize),
	}
	n.kernel = b.kernel
	c.register(n)
	return b, nil
}

// Type returns the filter type.
func (b *BiquadFilterNode) Type() BiquadFilterType {
	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()
	return b.kernel.typ
}

// SetType changes the filter type. The filter history is kept.
func (b *BiquadFilterNode) SetType(t BiquadFilterType) error {
	if t < Lowpass || t > Allpass {
		return exception.NotSupported("BiquadFilterNode: unknown type %d", int(t))
	}
	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()
	b.kernel.typ = t
	return nil
}

// GetFrequencyResponse writes the magnitude and phase response for the
// current param values at each frequency in freqHz. The three slices
// must have the same length, else InvalidAccessError.
func (b *BiquadFilterNode) GetFrequencyResponse(freqHz, mag, phase []float64) error {
	if len(mag) != len(freqHz) || len(phase) != len(freqHz) {
		return exception.InvalidAccess("BiquadFilterNode: response arrays have lengths %d, %d, %d",
			len(freqHz), len(mag), len(phase))
	}

	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()

	k := b.kernel
	sr := b.ctx.sampleRate
	c := design.Coefficients(k.typ, design.ComputedFrequency(k.frequency.value, k.detune.value, sr),
		k.q.value, k.gain.value, sr)
	c.FrequencyResponse(freqHz, mag, phase, sr)
	return nil
}

func (k *biquadKernel) process(r *renderInfo, inputs, outputs []*buffer.Quantum) {
	in, out := inputs[0], outputs[0]
	channels := in.Channels()
	out.SetChannels(channels)
	for len(k.sections) < channels {
		k.sections = append(k.sections, biquad.NewSection(biquad.Coefficients{}))
	}

	if k.frequency.constant() && k.detune.constant() && k.q.constant() && k.gain.constant() {
		c := k.design(0, r.sampleRate)
		for ch := range channels {
			s := k.sections[ch]
			s.Coefficients = c
			dst := out.Channel(ch)
			copy(dst, in.Channel(ch))
			s.ProcessBlock(dst)
		}
		return
	}

	coeffs := k.coeffs[:r.size]
	for i := range coeffs {
		coeffs[i] = k.design(i, r.sampleRate)
	}
	for ch := range channels {
		k.sections[ch].ProcessBlockVarying(out.Channel(ch), in.Channel(ch), coeffs)
	}
}

func (k *biquadKernel) design(i int, sampleRate float64) biquad.Coefficients {
	f := design.ComputedFrequency(k.frequency.values[i], k.detune.values[i], sampleRate)
	return design.Coefficients(k.typ, f, k.q.values[i], k.gain.values[i], sampleRate)
}
