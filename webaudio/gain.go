package webaudio

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

// GainOptions configures a GainNode.
type GainOptions struct {
	NodeOptions
}

// GainNode multiplies its input by the gain param.
type GainNode struct {
	*AudioNode
	Gain *AudioParam
}

type gainKernel struct {
	gain *AudioParam
}

// CreateGain adds a GainNode with gain 1.
func (c *BaseAudioContext) CreateGain(opts GainOptions) (*GainNode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.newNode("GainNode", 1, 1, 2, Max)
	if err := opts.apply(n); err != nil {
		return nil, err
	}
	g := &GainNode{AudioNode: n}
	g.Gain = n.newParam("gain", 1, -mostPositive, mostPositive, ARate)
	n.kernel = &gainKernel{gain: g.Gain}
	c.register(n)
	return g, nil
}

func (k *gainKernel) process(r *renderInfo, inputs, outputs []*buffer.Quantum) {
	in, out := inputs[0], outputs[0]
	out.SetChannels(in.Channels())

	gain := k.gain.values[:r.size]
	if k.gain.constant() {
		for ch := range in.Channels() {
			vecmath.ScaleBlock(out.Channel(ch), in.Channel(ch), gain[0])
		}
		return
	}
	for ch := range in.Channels() {
		vecmath.MulBlock(out.Channel(ch), in.Channel(ch), gain)
	}
}
