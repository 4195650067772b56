package webaudio

import (
	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

// ConstantSourceOptions configures a ConstantSourceNode.
type ConstantSourceOptions struct {
	NodeOptions
}

// ConstantSourceNode outputs the offset param as a mono signal while it
// plays.
type ConstantSourceNode struct {
	*AudioNode
	*scheduledSource
	Offset *AudioParam
}

type constantSourceKernel struct {
	src    *scheduledSource
	offset *AudioParam
}

// CreateConstantSource adds a ConstantSourceNode with offset 1.
func (c *BaseAudioContext) CreateConstantSource(opts ConstantSourceOptions) (*ConstantSourceNode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.newNode("ConstantSourceNode", 0, 1, 2, Max)
	if err := opts.apply(n); err != nil {
		return nil, err
	}
	s := &ConstantSourceNode{AudioNode: n, scheduledSource: newScheduledSource(n)}
	s.Offset = n.newParam("offset", 1, -mostPositive, mostPositive, ARate)
	n.kernel = &constantSourceKernel{src: s.scheduledSource, offset: s.Offset}
	c.register(n)
	return s, nil
}

// Start begins output at context time when.
func (s *ConstantSourceNode) Start(when float64) error {
	return s.start(when, nil)
}

func (k *constantSourceKernel) process(r *renderInfo, _, outputs []*buffer.Quantum) {
	out := outputs[0]
	out.SetChannels(1)
	dst := out.Channel(0)
	clear(dst)

	lo, hi := k.src.window(r)
	copy(dst[lo:hi], k.offset.values[lo:hi])
}
