package webaudio

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/core"
	"github.com/cwbudde/algo-webaudio/webaudio/exception"
)

// OscillatorType selects the waveform of an OscillatorNode.
type OscillatorType int

const (
	Sine OscillatorType = iota
	Square
	Sawtooth
	Triangle
	Custom
)

func (t OscillatorType) String() string {
	switch t {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Sawtooth:
		return "sawtooth"
	case Triangle:
		return "triangle"
	case Custom:
		return "custom"
	}
	return fmt.Sprintf("OscillatorType(%d)", int(t))
}

// OscillatorOptions configures an OscillatorNode. A non-nil PeriodicWave
// selects Custom regardless of Type.
type OscillatorOptions struct {
	NodeOptions
	Type         OscillatorType
	PeriodicWave *PeriodicWave
}

// OscillatorNode generates a periodic waveform at frequency·2^(detune/1200).
type OscillatorNode struct {
	*AudioNode
	*scheduledSource

	Frequency *AudioParam
	Detune    *AudioParam

	kernel *oscillatorKernel
}

type oscillatorKernel struct {
	src       *scheduledSource
	frequency *AudioParam
	detune    *AudioParam

	typ   OscillatorType
	wave  *PeriodicWave
	phase float64
}

// CreateOscillator adds an OscillatorNode, a 440 Hz sine by default.
func (c *BaseAudioContext) CreateOscillator(opts OscillatorOptions) (*OscillatorNode, error) {
	typ := opts.Type
	if opts.PeriodicWave != nil {
		typ = Custom
	} else if typ == Custom {
		return nil, exception.InvalidState("OscillatorNode: custom type requires a PeriodicWave")
	}
	if typ < Sine || typ > Custom {
		return nil, exception.NotSupported("OscillatorNode: unknown type %d", int(typ))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.newNode("OscillatorNode", 0, 1, 2, Max)
	if err := opts.apply(n); err != nil {
		return nil, err
	}
	nyquist := c.sampleRate / 2
	o := &OscillatorNode{AudioNode: n, scheduledSource: newScheduledSource(n)}
	o.Frequency = n.newParam("frequency", 440, -nyquist, nyquist, ARate)
	o.Detune = n.newParam("detune", 0, -maxDetune, maxDetune, ARate)
	o.kernel = &oscillatorKernel{
		src:       o.scheduledSource,
		frequency: o.Frequency,
		detune:    o.Detune,
		typ:       typ,
		wave:      opts.PeriodicWave,
	}
	n.kernel = o.kernel
	c.register(n)
	return o, nil
}

// Start begins output at context time when.
func (o *OscillatorNode) Start(when float64) error {
	return o.start(when, nil)
}

// Type returns the waveform.
func (o *OscillatorNode) Type() OscillatorType {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	return o.kernel.typ
}

// SetType selects a built-in waveform. Custom fails with
// InvalidStateError; use SetPeriodicWave.
func (o *OscillatorNode) SetType(t OscillatorType) error {
	if t == Custom {
		return exception.InvalidState("OscillatorNode: use SetPeriodicWave for a custom waveform")
	}
	if t < Sine || t > Custom {
		return exception.NotSupported("OscillatorNode: unknown type %d", int(t))
	}
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	o.kernel.typ = t
	return nil
}

// SetPeriodicWave switches to the custom waveform w.
func (o *OscillatorNode) SetPeriodicWave(w *PeriodicWave) error {
	if w == nil {
		return exception.InvalidState("OscillatorNode: nil PeriodicWave")
	}
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	o.kernel.typ = Custom
	o.kernel.wave = w
	return nil
}

func (k *oscillatorKernel) process(r *renderInfo, _, outputs []*buffer.Quantum) {
	out := outputs[0]
	out.SetChannels(1)
	dst := out.Channel(0)
	clear(dst)

	lo, hi := k.src.window(r)
	freq := k.frequency.values
	detune := k.detune.values
	for i := lo; i < hi; i++ {
		dst[i] = k.sample(k.phase)
		k.phase += freq[i] * core.CentsToRatio(detune[i]) / r.sampleRate
		k.phase -= math.Floor(k.phase)
	}
}

// sample evaluates the waveform at phase in cycles.
func (k *oscillatorKernel) sample(phase float64) float64 {
	switch k.typ {
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case Sawtooth:
		if phase < 0.5 {
			return 2 * phase
		}
		return 2*phase - 2
	case Triangle:
		switch {
		case phase < 0.25:
			return 4 * phase
		case phase < 0.75:
			return 2 - 4*phase
		default:
			return 4*phase - 4
		}
	case Custom:
		return k.wave.at(phase)
	}
	return math.Sin(2 * math.Pi * phase)
}
