// Package scene builds an audio graph from a JSON description.
//
// A scene lists nodes and the connections between them:
//
//	{
//	  "nodes": [
//	    {"id": "osc", "type": "oscillator", "params": {"type": "sawtooth", "frequency": 110}, "start": 0},
//	    {"id": "lp", "type": "biquad", "params": {"type": "lowpass", "frequency": 800},
//	     "automation": [{"param": "frequency", "method": "exponentialRamp", "value": 4000, "time": 2}]}
//	  ],
//	  "connections": [
//	    {"from": "osc", "to": "lp"},
//	    {"from": "lp", "to": "destination"}
//	  ]
//	}
//
// The reserved ID "destination" names the context's destination node. A
// connection with a "param" field targets that AudioParam of the "to"
// node instead of one of its inputs. Node types are resolved through a
// Registry; Defaults covers every built-in node.
package scene
