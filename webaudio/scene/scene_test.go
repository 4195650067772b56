package scene

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/pion/logging"

	"github.com/cwbudde/algo-webaudio/webaudio"
)

func offline(t *testing.T, length int, rate float64) *webaudio.OfflineAudioContext {
	t.Helper()
	f := logging.NewDefaultLoggerFactory()
	f.DefaultLogLevel = logging.LogLevelDisabled
	c, err := webaudio.NewOfflineAudioContext(1, length, rate, webaudio.WithLoggerFactory(f))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func render(t *testing.T, c *webaudio.OfflineAudioContext) []float64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	b, err := c.StartRendering().Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}
	data, err := b.GetChannelData(0)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func requireAll(t *testing.T, data []float64, want float64) {
	t.Helper()
	for i, v := range data {
		if math.Abs(v-want) > 1e-9 {
			t.Fatalf("sample %d = %v, want %v", i, v, want)
		}
	}
}

func TestLoadChain(t *testing.T) {
	c := offline(t, 256, 44100)
	s, err := Load(c.BaseAudioContext, []byte(`{
		"nodes": [
			{"id": "dc", "type": "constant", "params": {"offset": 0.5}, "start": 0},
			{"id": "g", "type": "gain", "params": {"gain": 0.5}}
		],
		"connections": [
			{"from": "dc", "to": "g"},
			{"from": "g", "to": "destination"}
		]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if ids := s.IDs(); len(ids) != 2 || ids[0] != "dc" || ids[1] != "g" {
		t.Fatalf("IDs = %v", ids)
	}
	if s.Node("g") == nil || s.Node(DestinationID) == nil || s.Node("missing") != nil {
		t.Fatal("Node lookup mismatch")
	}
	if p := s.Param("g", "gain"); p == nil || p.Value() != 0.5 {
		t.Fatalf("gain param = %v", p)
	}
	requireAll(t, render(t, c), 0.25)
}

func TestLoadParamConnection(t *testing.T) {
	c := offline(t, 128, 44100)
	_, err := Load(c.BaseAudioContext, []byte(`{
		"nodes": [
			{"id": "one", "type": "constant", "start": 0},
			{"id": "mod", "type": "constant", "params": {"offset": 0.25}, "start": 0},
			{"id": "g", "type": "gain", "params": {"gain": 0}}
		],
		"connections": [
			{"from": "one", "to": "g"},
			{"from": "mod", "to": "g", "param": "gain"},
			{"from": "g", "to": "destination"}
		]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	requireAll(t, render(t, c), 0.25)
}

func TestLoadAutomationAndStop(t *testing.T) {
	c := offline(t, 8, 4000)
	_, err := Load(c.BaseAudioContext, []byte(`{
		"nodes": [
			{"id": "dc", "type": "constant", "start": 0, "stop": 0.001,
			 "automation": [
				{"param": "offset", "method": "setValue", "value": 0, "time": 0},
				{"param": "offset", "method": "linearRamp", "value": 1, "time": 0.001}
			 ]}
		],
		"connections": [{"from": "dc", "to": "destination"}]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	data := render(t, c)
	want := []float64{0, 0.25, 0.5, 0.75, 0, 0, 0, 0}
	for i := range want {
		if math.Abs(data[i]-want[i]) > 1e-9 {
			t.Fatalf("sample %d = %v, want %v", i, data[i], want[i])
		}
	}
}

func TestLoadAllDefaultTypes(t *testing.T) {
	c := offline(t, 128, 44100)
	ir, _ := webaudio.NewAudioBufferFromChannels([][]float64{{1}}, 44100)
	_, err := Load(c.BaseAudioContext, []byte(`{
		"nodes": [
			{"id": "osc", "type": "oscillator", "params": {"type": "triangle", "frequency": 220}, "start": 0},
			{"id": "wave", "type": "oscillator", "params": {"real": [0, 0], "imag": [0, 1]}},
			{"id": "src", "type": "buffer", "params": {"buffer": "ir", "loop": true}, "start": 0},
			{"id": "d", "type": "delay", "params": {"maxDelayTime": 0.5, "delayTime": 0.01}},
			{"id": "bq", "type": "biquad", "params": {"type": "highpass", "frequency": 100, "Q": 1}},
			{"id": "iir", "type": "iir", "params": {"feedforward": [0.5, 0.5], "feedback": [1]}},
			{"id": "conv", "type": "convolver", "params": {"ir": [1, 0.5]}},
			{"id": "conv2", "type": "convolver", "params": {"buffer": "ir", "disableNormalization": true}},
			{"id": "pan", "type": "panner", "params": {"pan": -0.5, "channelCountMode": "clamped-max"}},
			{"id": "shape", "type": "waveshaper", "params": {"curve": [-1, 0, 1], "oversample": "2x"}},
			{"id": "an", "type": "analyser", "params": {"fftSize": 64, "smoothingTimeConstant": 0.5}},
			{"id": "mix", "type": "gain", "params": {"channelCount": 1, "channelCountMode": "explicit", "channelInterpretation": "discrete"}}
		],
		"connections": [
			{"from": "osc", "to": "d"},
			{"from": "d", "to": "bq"},
			{"from": "bq", "to": "iir"},
			{"from": "iir", "to": "conv"},
			{"from": "src", "to": "conv2"},
			{"from": "conv", "to": "pan"},
			{"from": "conv2", "to": "pan"},
			{"from": "pan", "to": "shape"},
			{"from": "shape", "to": "an"},
			{"from": "an", "to": "mix"},
			{"from": "mix", "to": "destination"}
		]
	}`), WithBuffers(map[string]*webaudio.AudioBuffer{"ir": ir}))
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range render(t, c) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite output %v", v)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		scene string
		want  error
	}{
		{"bad json", `{"nodes": [`, ErrInvalidScene},
		{"missing type", `{"nodes": [{"id": "a"}]}`, ErrInvalidScene},
		{"duplicate id", `{"nodes": [{"id": "a", "type": "gain"}, {"id": "a", "type": "gain"}]}`, ErrInvalidScene},
		{"reserved id", `{"nodes": [{"id": "destination", "type": "gain"}]}`, ErrInvalidScene},
		{"unknown type", `{"nodes": [{"id": "a", "type": "reverb"}]}`, ErrUnknownType},
		{"unknown source", `{"connections": [{"from": "a", "to": "destination"}]}`, ErrInvalidScene},
		{"unknown target", `{"nodes": [{"id": "a", "type": "gain"}], "connections": [{"from": "a", "to": "b"}]}`, ErrInvalidScene},
		{"unknown param", `{"nodes": [{"id": "a", "type": "gain"}, {"id": "b", "type": "gain"}], "connections": [{"from": "a", "to": "b", "param": "pan"}]}`, ErrInvalidScene},
		{"automation param", `{"nodes": [{"id": "a", "type": "gain", "automation": [{"param": "x", "method": "setValue"}]}]}`, ErrInvalidScene},
		{"automation method", `{"nodes": [{"id": "a", "type": "gain", "automation": [{"param": "gain", "method": "wobble"}]}]}`, ErrInvalidScene},
		{"start on filter", `{"nodes": [{"id": "a", "type": "gain", "start": 0}]}`, ErrInvalidScene},
		{"unknown buffer", `{"nodes": [{"id": "a", "type": "buffer", "params": {"buffer": "x"}}]}`, ErrUnknownBuffer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := offline(t, 128, 44100)
			_, err := Load(c.BaseAudioContext, []byte(tt.scene))
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadNodeErrors(t *testing.T) {
	scenes := []string{
		`{"nodes": [{"id": "a", "type": "oscillator", "params": {"type": "noise"}}]}`,
		`{"nodes": [{"id": "a", "type": "biquad", "params": {"type": "bandstop"}}]}`,
		`{"nodes": [{"id": "a", "type": "waveshaper", "params": {"oversample": "8x"}}]}`,
		`{"nodes": [{"id": "a", "type": "gain", "params": {"channelCountMode": "min"}}]}`,
		`{"nodes": [{"id": "a", "type": "gain", "params": {"channelInterpretation": "ambisonic"}}]}`,
		`{"nodes": [{"id": "a", "type": "iir", "params": {"feedforward": [0], "feedback": [1]}}]}`,
		`{"nodes": [{"id": "a", "type": "delay", "params": {"maxDelayTime": 500}}]}`,
		`{"nodes": [{"id": "a", "type": "analyser", "params": {"fftSize": 100}}]}`,
		`{"nodes": [{"id": "a", "type": "constant", "start": -1}]}`,
		`{"nodes": [{"id": "a", "type": "panner", "params": {"channelCount": 3}}]}`,
	}
	for _, s := range scenes {
		c := offline(t, 128, 44100)
		if _, err := Load(c.BaseAudioContext, []byte(s)); err == nil {
			t.Fatalf("Load(%s) succeeded", s)
		}
	}
}

func TestRead(t *testing.T) {
	c := offline(t, 128, 44100)
	s, err := Read(c.BaseAudioContext, strings.NewReader(`{"nodes": [{"id": "g", "type": "gain"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if s.Node("g") == nil {
		t.Fatal("missing node g")
	}
}

func TestCustomRegistry(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("Half", func(env Env, p Params) (*Entry, error) {
		g, err := env.Context.CreateGain(webaudio.GainOptions{})
		if err != nil {
			return nil, err
		}
		return &Entry{Node: g}, g.Gain.SetValue(0.5)
	})

	c := offline(t, 128, 44100)
	_, err := Load(c.BaseAudioContext, []byte(`{"nodes": [{"id": "g", "type": "gain"}]}`), WithRegistry(r))
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("err = %v, want ErrUnknownType", err)
	}
	_, err = Load(c.BaseAudioContext, []byte(`{"nodes": [{"id": "h", "type": "half"}]}`), WithRegistry(r))
	if err != nil {
		t.Fatal(err)
	}
}

func TestLoadWithDestination(t *testing.T) {
	c := offline(t, 128, 44100)
	master, err := c.CreateGain(webaudio.GainOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if err := master.Gain.SetValue(0.25); err != nil {
		t.Fatal(err)
	}
	if err := master.Connect(c.Destination(), 0, 0); err != nil {
		t.Fatal(err)
	}

	s, err := Load(c.BaseAudioContext, []byte(`{
		"nodes": [{"id": "dc", "type": "constant", "start": 0}],
		"connections": [{"from": "dc", "to": "destination"}]
	}`), WithDestination(master))
	if err != nil {
		t.Fatal(err)
	}
	if s.Node(DestinationID) != webaudio.Node(master) {
		t.Fatal("destination not redirected")
	}
	requireAll(t, render(t, c), 0.25)
}
