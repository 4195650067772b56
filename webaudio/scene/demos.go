package scene

import "sort"

var demos = map[string]string{
	"tone": `{
  "nodes": [
    {"id": "osc", "type": "oscillator", "params": {"frequency": 440}, "start": 0},
    {"id": "env", "type": "gain", "params": {"gain": 0},
     "automation": [
       {"param": "gain", "method": "linearRamp", "value": 0.5, "time": 0.05},
       {"param": "gain", "method": "setTarget", "value": 0, "time": 1, "timeConstant": 0.2}
     ]}
  ],
  "connections": [
    {"from": "osc", "to": "env"},
    {"from": "env", "to": "destination"}
  ]
}`,
	"feedback": `{
  "nodes": [
    {"id": "blip", "type": "oscillator", "params": {"type": "square", "frequency": 660}, "start": 0, "stop": 0.05},
    {"id": "level", "type": "gain", "params": {"gain": 0.3}},
    {"id": "echo", "type": "delay", "params": {"delayTime": 0.25}},
    {"id": "fb", "type": "gain", "params": {"gain": 0.5}},
    {"id": "damp", "type": "biquad", "params": {"type": "lowpass", "frequency": 3000}}
  ],
  "connections": [
    {"from": "blip", "to": "level"},
    {"from": "level", "to": "destination"},
    {"from": "level", "to": "echo"},
    {"from": "echo", "to": "damp"},
    {"from": "damp", "to": "fb"},
    {"from": "fb", "to": "echo"},
    {"from": "damp", "to": "destination"}
  ]
}`,
	"filter": `{
  "nodes": [
    {"id": "saw", "type": "oscillator", "params": {"type": "sawtooth", "frequency": 110}, "start": 0},
    {"id": "lp", "type": "biquad", "params": {"type": "lowpass", "frequency": 200, "Q": 8},
     "automation": [
       {"param": "frequency", "method": "setValue", "value": 200, "time": 0},
       {"param": "frequency", "method": "exponentialRamp", "value": 5000, "time": 2}
     ]},
    {"id": "out", "type": "gain", "params": {"gain": 0.3}}
  ],
  "connections": [
    {"from": "saw", "to": "lp"},
    {"from": "lp", "to": "out"},
    {"from": "out", "to": "destination"}
  ]
}`,
	"shaper": `{
  "nodes": [
    {"id": "osc", "type": "oscillator", "params": {"frequency": 220}, "start": 0},
    {"id": "drive", "type": "gain", "params": {"gain": 4}},
    {"id": "clip", "type": "waveshaper", "params": {
      "curve": [-1, -0.96, -0.76, -0.46, 0, 0.46, 0.76, 0.96, 1],
      "oversample": "4x"}},
    {"id": "lfo", "type": "oscillator", "params": {"frequency": 0.5}, "start": 0},
    {"id": "pan", "type": "panner"},
    {"id": "out", "type": "gain", "params": {"gain": 0.25}}
  ],
  "connections": [
    {"from": "osc", "to": "drive"},
    {"from": "drive", "to": "clip"},
    {"from": "clip", "to": "pan"},
    {"from": "lfo", "to": "pan", "param": "pan"},
    {"from": "pan", "to": "out"},
    {"from": "out", "to": "destination"}
  ]
}`,
	"convolver": `{
  "nodes": [
    {"id": "tri", "type": "oscillator", "params": {"type": "triangle", "frequency": 330}, "start": 0, "stop": 0.1},
    {"id": "room", "type": "convolver", "params": {
      "ir": [1, 0, 0.6, 0, 0, 0.4, 0, 0, 0, 0.25, 0, 0, 0, 0, 0.15, 0, 0, 0, 0, 0, 0.08],
      "disableNormalization": true}},
    {"id": "out", "type": "gain", "params": {"gain": 0.4}},
    {"id": "meter", "type": "analyser", "params": {"fftSize": 1024}}
  ],
  "connections": [
    {"from": "tri", "to": "room"},
    {"from": "room", "to": "out"},
    {"from": "out", "to": "meter"},
    {"from": "meter", "to": "destination"}
  ]
}`,
}

// Demo returns the built-in scene called name.
func Demo(name string) ([]byte, bool) {
	s, ok := demos[name]
	return []byte(s), ok
}

// DemoNames lists the built-in scenes in sorted order.
func DemoNames() []string {
	names := make([]string, 0, len(demos))
	for n := range demos {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
