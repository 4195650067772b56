package webaudio

import (
	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

type stepOp int

const (
	opProcess stepOp = iota
	opMute
	opDelayRead
	opDelayWrite
)

type step struct {
	node *AudioNode
	op   stepOp
}

// compile rebuilds the render schedule from the connection graph.
//
// Strongly connected components come out in topological order. A
// component that is a single node off any cycle renders in place. In a
// cycle, every DelayNode is split: its reader renders first without
// inputs, the rest of the component is sorted with the edges into the
// delays removed, and the writers run after every other node. Nodes left
// on a cycle with no delay are muted.
func (c *BaseAudioContext) compile() {
	g := c.digraph()

	var sched, writers []step
	muted, split := 0, 0
	for _, comp := range g.StronglyConnectedComponents() {
		if len(comp) == 1 && !g.IsPartOfCycle(comp[0]) {
			n := c.nodes[comp[0]]
			if d, ok := n.kernel.(*delayKernel); ok {
				d.inCycle = false
			}
			sched = append(sched, step{node: n, op: opProcess})
			continue
		}

		delays := make(map[int]bool)
		for _, id := range comp {
			if d, ok := c.nodes[id].kernel.(*delayKernel); ok {
				d.inCycle = true
				delays[id] = true
			}
		}

		sub := g.Subgraph(comp, func(_, to int) bool { return delays[to] })
		order, cyclic := sub.TopologicalOrder()
		for _, id := range order {
			op := opProcess
			if delays[id] {
				op = opDelayRead
				writers = append(writers, step{node: c.nodes[id], op: opDelayWrite})
				split++
			}
			sched = append(sched, step{node: c.nodes[id], op: op})
		}
		for _, id := range cyclic {
			sched = append(sched, step{node: c.nodes[id], op: opMute})
			muted++
		}
		if len(cyclic) > 0 {
			c.log.Warnf("muting %d nodes on a cycle without a DelayNode", len(cyclic))
		}
	}

	c.schedule = append(sched, writers...)
	c.log.Debugf("compiled render schedule: %d steps, %d delays split, %d muted", len(c.schedule), split, muted)
}

// render produces one quantum and advances the clock. Callers hold c.mu.
func (c *BaseAudioContext) render() *buffer.Quantum {
	c.drain()
	if c.dirty {
		c.compile()
		c.dirty = false
	}

	r := &renderInfo{
		frame:      c.frame,
		sampleRate: c.sampleRate,
		size:       c.quantumSize,
		events:     c.events,
	}
	for _, s := range c.schedule {
		n := s.node
		switch s.op {
		case opMute:
			for _, out := range n.outBufs {
				out.SetChannels(1)
				out.Zero()
			}
		case opDelayRead:
			c.computeParams(n, r)
			n.kernel.(*delayKernel).read(r, n.outBufs[0])
		case opDelayWrite:
			c.pullInputs(n)
			n.kernel.(*delayKernel).write(n.inBufs[0])
		default:
			c.pullInputs(n)
			c.computeParams(n, r)
			n.kernel.process(r, n.inBufs, n.outBufs)
		}
	}

	c.frame += int64(c.quantumSize)
	return c.destination.kernel.(*destinationKernel).out
}

// pullInputs sums the outputs feeding each input of n, mixed to the
// computed channel count.
func (c *BaseAudioContext) pullInputs(n *AudioNode) {
	for i, in := range n.inBufs {
		in.SetChannels(n.computedChannels(i))
		in.Zero()
		for _, s := range n.inputs[i] {
			in.SumFrom(c.nodes[s.node].outBufs[s.output], n.interpretation)
		}
	}
}

func (c *BaseAudioContext) computeParams(n *AudioNode, r *renderInfo) {
	for _, p := range n.params {
		p.compute(r, c.pool)
	}
}
