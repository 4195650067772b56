package webaudio

import (
	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

// AudioDestinationNode is the final input of the graph. Whatever reaches
// it, mixed to the context channel count, is the rendered output.
type AudioDestinationNode struct {
	*AudioNode
}

type destinationKernel struct {
	out *buffer.Quantum
}

func (c *BaseAudioContext) newDestination() *AudioDestinationNode {
	n := c.newNode("AudioDestinationNode", 1, 0, c.channels, Explicit)
	n.constraints.maxCount = c.channels
	n.kernel = &destinationKernel{out: buffer.New(c.channels, c.quantumSize)}
	c.register(n)
	return &AudioDestinationNode{AudioNode: n}
}

// MaxChannelCount returns the channel count of the context output.
func (d *AudioDestinationNode) MaxChannelCount() int {
	return d.ctx.channels
}

func (k *destinationKernel) process(_ *renderInfo, inputs, _ []*buffer.Quantum) {
	k.out.Zero()
	k.out.SumFrom(inputs[0], buffer.Speakers)
}
