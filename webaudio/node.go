package webaudio

import (
	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/webaudio/exception"
)

// Node is implemented by every node type. Concrete nodes embed
// *AudioNode, which provides Base.
type Node interface {
	Base() *AudioNode
}

// kernel is the per-type processing of a node. process is called once per
// quantum with inputs already mixed to the computed channel count and
// params already evaluated. It must set the channel count of every output
// and write every sample.
type kernel interface {
	process(r *renderInfo, inputs, outputs []*buffer.Quantum)
}

// renderInfo describes the quantum being rendered.
type renderInfo struct {
	frame      int64
	sampleRate float64
	size       int
	events     *EventLoop
}

// time returns the context time of frame offset i in this quantum.
func (r *renderInfo) time(i int) float64 {
	return float64(r.frame+int64(i)) / r.sampleRate
}

// edge is an outgoing connection. Exactly one of node and param is set:
// node is the handle of a destination node, param a destination param.
type edge struct {
	output int
	node   int
	input  int
	param  *AudioParam
}

// source identifies one output of a node feeding an input or a param.
type source struct {
	node   int
	output int
}

// AudioNode is the graph-facing part of every node: identity, channel
// configuration and connections. Edges hold integer handles into the
// context arena rather than pointers to other nodes.
type AudioNode struct {
	ctx  *BaseAudioContext
	id   int
	kind string

	numberOfInputs  int
	numberOfOutputs int

	channelCount   int
	countMode      ChannelCountMode
	interpretation ChannelInterpretation

	// constraints is consulted by the channel setters of nodes that
	// restrict their configuration.
	constraints channelConstraints

	outputs  []edge
	inputs   [][]source
	indirect map[int]int // node handle -> number of edges into our params
	params   []*AudioParam

	kernel  kernel
	inBufs  []*buffer.Quantum
	outBufs []*buffer.Quantum
	removed bool
}

type channelConstraints struct {
	maxCount    int
	fixedCount  bool
	fixedMode   bool
	noMaxMode   bool
	fixedInterp bool
}

func (c *BaseAudioContext) newNode(kind string, inputs, outputs, channelCount int, mode ChannelCountMode) *AudioNode {
	n := &AudioNode{
		ctx:             c,
		id:              len(c.nodes),
		kind:            kind,
		numberOfInputs:  inputs,
		numberOfOutputs: outputs,
		channelCount:    channelCount,
		countMode:       mode,
		interpretation:  Speakers,
		inputs:          make([][]source, inputs),
		indirect:        make(map[int]int),
		inBufs:          make([]*buffer.Quantum, inputs),
		outBufs:         make([]*buffer.Quantum, outputs),
	}
	for i := range n.inBufs {
		n.inBufs[i] = buffer.New(1, c.quantumSize)
	}
	for i := range n.outBufs {
		n.outBufs[i] = buffer.New(1, c.quantumSize)
	}
	return n
}

// Base returns n itself.
func (n *AudioNode) Base() *AudioNode {
	return n
}

// ID returns the arena handle of the node.
func (n *AudioNode) ID() int {
	return n.id
}

// Kind returns the node type name, e.g. "GainNode".
func (n *AudioNode) Kind() string {
	return n.kind
}

// Context returns the owning context.
func (n *AudioNode) Context() *BaseAudioContext {
	return n.ctx
}

func (n *AudioNode) NumberOfInputs() int  { return n.numberOfInputs }
func (n *AudioNode) NumberOfOutputs() int { return n.numberOfOutputs }

// ChannelCount returns the channel count used by ClampedMax and Explicit.
func (n *AudioNode) ChannelCount() int {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	return n.channelCount
}

// SetChannelCount changes the channel count. Counts outside [1, 32]
// fail with NotSupportedError.
func (n *AudioNode) SetChannelCount(count int) error {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	return n.setChannelCount(count)
}

func (n *AudioNode) setChannelCount(count int) error {
	limit := MaxChannels
	if n.constraints.maxCount > 0 {
		limit = n.constraints.maxCount
	}
	if count < 1 || count > limit {
		return exception.NotSupported("%s: channel count %d outside [1, %d]", n.kind, count, limit)
	}
	if n.constraints.fixedCount && count != n.channelCount {
		return exception.InvalidState("%s: channel count is fixed at %d", n.kind, n.channelCount)
	}
	n.channelCount = count
	return nil
}

// ChannelCountMode returns the channel count mode.
func (n *AudioNode) ChannelCountMode() ChannelCountMode {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	return n.countMode
}

// SetChannelCountMode changes the channel count mode.
func (n *AudioNode) SetChannelCountMode(mode ChannelCountMode) error {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	return n.setChannelCountMode(mode)
}

func (n *AudioNode) setChannelCountMode(mode ChannelCountMode) error {
	if mode < Max || mode > Explicit {
		return exception.NotSupported("%s: unknown channel count mode %d", n.kind, int(mode))
	}
	if n.constraints.fixedMode && mode != n.countMode {
		return exception.InvalidState("%s: channel count mode is fixed at %s", n.kind, n.countMode)
	}
	if n.constraints.noMaxMode && mode == Max {
		return exception.NotSupported("%s: channel count mode %s not allowed", n.kind, mode)
	}
	n.countMode = mode
	return nil
}

// ChannelInterpretation returns the mixing interpretation.
func (n *AudioNode) ChannelInterpretation() ChannelInterpretation {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	return n.interpretation
}

// SetChannelInterpretation changes the mixing interpretation.
func (n *AudioNode) SetChannelInterpretation(interp ChannelInterpretation) error {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	return n.setChannelInterpretation(interp)
}

func (n *AudioNode) setChannelInterpretation(interp ChannelInterpretation) error {
	if interp != Speakers && interp != Discrete {
		return exception.NotSupported("%s: unknown channel interpretation %d", n.kind, int(interp))
	}
	if n.constraints.fixedInterp && interp != n.interpretation {
		return exception.InvalidState("%s: channel interpretation is fixed", n.kind)
	}
	n.interpretation = interp
	return nil
}

// computedChannels returns the channel count input i is mixed to.
func (n *AudioNode) computedChannels(i int) int {
	if n.countMode == Explicit {
		return n.channelCount
	}
	count := 1
	for _, s := range n.inputs[i] {
		src := n.ctx.nodes[s.node]
		count = max(count, src.outBufs[s.output].Channels())
	}
	if n.countMode == ClampedMax {
		count = min(count, n.channelCount)
	}
	return count
}
