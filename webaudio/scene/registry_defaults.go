package scene

import (
	"fmt"

	"github.com/cwbudde/algo-webaudio/dsp/filter/design"
	"github.com/cwbudde/algo-webaudio/webaudio"
)

var oscillatorTypes = map[string]webaudio.OscillatorType{
	"sine":     webaudio.Sine,
	"square":   webaudio.Square,
	"sawtooth": webaudio.Sawtooth,
	"triangle": webaudio.Triangle,
}

var overSampleTypes = map[string]webaudio.OverSampleType{
	"none": webaudio.OverSampleNone,
	"2x":   webaudio.OverSample2x,
	"4x":   webaudio.OverSample4x,
}

var countModes = map[string]webaudio.ChannelCountMode{
	"max":         webaudio.Max,
	"clamped-max": webaudio.ClampedMax,
	"explicit":    webaudio.Explicit,
}

var interpretations = map[string]webaudio.ChannelInterpretation{
	"speakers": webaudio.Speakers,
	"discrete": webaudio.Discrete,
}

// Defaults returns a registry with a factory for every built-in node.
func Defaults() *Registry {
	r := NewRegistry()
	r.MustRegister("gain", newGain)
	r.MustRegister("constant", newConstant)
	r.MustRegister("oscillator", newOscillator)
	r.MustRegister("buffer", newBufferSource)
	r.MustRegister("delay", newDelay)
	r.MustRegister("biquad", newBiquad)
	r.MustRegister("iir", newIIR)
	r.MustRegister("convolver", newConvolver)
	r.MustRegister("panner", newStereoPanner)
	r.MustRegister("waveshaper", newWaveShaper)
	r.MustRegister("analyser", newAnalyser)
	return r
}

// nodeOptions reads the channel configuration shared by all nodes.
func nodeOptions(p Params) (webaudio.NodeOptions, error) {
	opts := webaudio.NodeOptions{ChannelCount: int(p.GetNum("channelCount", 0))}
	if s := p.GetStr("channelCountMode", ""); s != "" {
		m, ok := countModes[s]
		if !ok {
			return opts, fmt.Errorf("scene: %s: unknown channel count mode %q", p.ID, s)
		}
		opts.ChannelCountMode = &m
	}
	if s := p.GetStr("channelInterpretation", ""); s != "" {
		i, ok := interpretations[s]
		if !ok {
			return opts, fmt.Errorf("scene: %s: unknown channel interpretation %q", p.ID, s)
		}
		opts.ChannelInterpretation = &i
	}
	return opts, nil
}

func newGain(env Env, p Params) (*Entry, error) {
	no, err := nodeOptions(p)
	if err != nil {
		return nil, err
	}
	n, err := env.Context.CreateGain(webaudio.GainOptions{NodeOptions: no})
	if err != nil {
		return nil, err
	}
	return &Entry{Node: n, Params: map[string]*webaudio.AudioParam{"gain": n.Gain}}, nil
}

func newConstant(env Env, p Params) (*Entry, error) {
	no, err := nodeOptions(p)
	if err != nil {
		return nil, err
	}
	n, err := env.Context.CreateConstantSource(webaudio.ConstantSourceOptions{NodeOptions: no})
	if err != nil {
		return nil, err
	}
	return &Entry{
		Node:   n,
		Params: map[string]*webaudio.AudioParam{"offset": n.Offset},
		Start:  n.Start,
		Stop:   n.Stop,
	}, nil
}

func newOscillator(env Env, p Params) (*Entry, error) {
	no, err := nodeOptions(p)
	if err != nil {
		return nil, err
	}
	opts := webaudio.OscillatorOptions{NodeOptions: no}
	if real, imag := p.List["real"], p.List["imag"]; real != nil || imag != nil {
		wave, err := env.Context.CreatePeriodicWave(webaudio.PeriodicWaveOptions{
			Real:                 real,
			Imag:                 imag,
			DisableNormalization: p.GetNum("disableNormalization", 0) != 0,
		})
		if err != nil {
			return nil, err
		}
		opts.PeriodicWave = wave
	} else {
		name := p.GetStr("type", "sine")
		t, ok := oscillatorTypes[name]
		if !ok {
			return nil, fmt.Errorf("scene: %s: unknown oscillator type %q", p.ID, name)
		}
		opts.Type = t
	}
	n, err := env.Context.CreateOscillator(opts)
	if err != nil {
		return nil, err
	}
	return &Entry{
		Node:   n,
		Params: map[string]*webaudio.AudioParam{"frequency": n.Frequency, "detune": n.Detune},
		Start:  n.Start,
		Stop:   n.Stop,
	}, nil
}

func newBufferSource(env Env, p Params) (*Entry, error) {
	no, err := nodeOptions(p)
	if err != nil {
		return nil, err
	}
	b, err := env.buffer(p)
	if err != nil {
		return nil, err
	}
	n, err := env.Context.CreateBufferSource(webaudio.AudioBufferSourceOptions{
		NodeOptions: no,
		Buffer:      b,
		Loop:        p.GetNum("loop", 0) != 0,
		LoopStart:   p.GetNum("loopStart", 0),
		LoopEnd:     p.GetNum("loopEnd", 0),
	})
	if err != nil {
		return nil, err
	}
	offset := p.GetNum("offset", 0)
	return &Entry{
		Node:   n,
		Params: map[string]*webaudio.AudioParam{"playbackRate": n.PlaybackRate, "detune": n.Detune},
		Start:  func(when float64) error { return n.StartAt(when, offset) },
		Stop:   n.Stop,
	}, nil
}

func newDelay(env Env, p Params) (*Entry, error) {
	no, err := nodeOptions(p)
	if err != nil {
		return nil, err
	}
	n, err := env.Context.CreateDelay(webaudio.DelayOptions{
		NodeOptions:  no,
		MaxDelayTime: p.GetNum("maxDelayTime", 0),
	})
	if err != nil {
		return nil, err
	}
	return &Entry{Node: n, Params: map[string]*webaudio.AudioParam{"delayTime": n.DelayTime}}, nil
}

func newBiquad(env Env, p Params) (*Entry, error) {
	no, err := nodeOptions(p)
	if err != nil {
		return nil, err
	}
	t, err := design.ParseType(p.GetStr("type", "lowpass"))
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", p.ID, err)
	}
	n, err := env.Context.CreateBiquadFilter(webaudio.BiquadFilterOptions{NodeOptions: no, Type: t})
	if err != nil {
		return nil, err
	}
	return &Entry{Node: n, Params: map[string]*webaudio.AudioParam{
		"frequency": n.Frequency,
		"detune":    n.Detune,
		"Q":         n.Q,
		"gain":      n.Gain,
	}}, nil
}

func newIIR(env Env, p Params) (*Entry, error) {
	no, err := nodeOptions(p)
	if err != nil {
		return nil, err
	}
	n, err := env.Context.CreateIIRFilter(webaudio.IIRFilterOptions{
		NodeOptions: no,
		Feedforward: p.List["feedforward"],
		Feedback:    p.List["feedback"],
	})
	if err != nil {
		return nil, err
	}
	return &Entry{Node: n}, nil
}

func newConvolver(env Env, p Params) (*Entry, error) {
	no, err := nodeOptions(p)
	if err != nil {
		return nil, err
	}
	b, err := env.buffer(p)
	if err != nil {
		return nil, err
	}
	if ir := p.List["ir"]; b == nil && len(ir) > 0 {
		b, err = webaudio.NewAudioBufferFromChannels([][]float64{ir}, env.Context.SampleRate())
		if err != nil {
			return nil, err
		}
	}
	n, err := env.Context.CreateConvolver(webaudio.ConvolverOptions{
		NodeOptions:          no,
		Buffer:               b,
		DisableNormalization: p.GetNum("disableNormalization", 0) != 0,
	})
	if err != nil {
		return nil, err
	}
	return &Entry{Node: n}, nil
}

func newStereoPanner(env Env, p Params) (*Entry, error) {
	no, err := nodeOptions(p)
	if err != nil {
		return nil, err
	}
	n, err := env.Context.CreateStereoPanner(webaudio.StereoPannerOptions{NodeOptions: no})
	if err != nil {
		return nil, err
	}
	return &Entry{Node: n, Params: map[string]*webaudio.AudioParam{"pan": n.Pan}}, nil
}

func newWaveShaper(env Env, p Params) (*Entry, error) {
	no, err := nodeOptions(p)
	if err != nil {
		return nil, err
	}
	name := p.GetStr("oversample", "none")
	o, ok := overSampleTypes[name]
	if !ok {
		return nil, fmt.Errorf("scene: %s: unknown oversample %q", p.ID, name)
	}
	n, err := env.Context.CreateWaveShaper(webaudio.WaveShaperOptions{
		NodeOptions: no,
		Curve:       p.List["curve"],
		Oversample:  o,
	})
	if err != nil {
		return nil, err
	}
	return &Entry{Node: n}, nil
}

func newAnalyser(env Env, p Params) (*Entry, error) {
	no, err := nodeOptions(p)
	if err != nil {
		return nil, err
	}
	n, err := env.Context.CreateAnalyser(webaudio.AnalyserOptions{
		NodeOptions: no,
		FFTSize:     int(p.GetNum("fftSize", 0)),
	})
	if err != nil {
		return nil, err
	}
	if p.HasNum("smoothingTimeConstant") {
		if err := n.SetSmoothingTimeConstant(p.GetNum("smoothingTimeConstant", 0)); err != nil {
			return nil, err
		}
	}
	return &Entry{Node: n}, nil
}
