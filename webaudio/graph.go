package webaudio

import (
	"fmt"
	"maps"
	"slices"

	"github.com/cwbudde/algo-webaudio/internal/graph"
	"github.com/cwbudde/algo-webaudio/webaudio/exception"
)

// Connect routes output of n into input of dst. Connecting the same edge
// twice is a no-op.
func (n *AudioNode) Connect(dst Node, output, input int) error {
	d, err := n.peer(dst)
	if err != nil {
		return err
	}

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	if err := n.checkOutput(output); err != nil {
		return err
	}
	if input < 0 || input >= d.numberOfInputs {
		return exception.IndexSize("%s has no input %d", d.kind, input)
	}
	if n.removed || d.removed {
		return exception.InvalidAccess("connect: node was removed from its context")
	}

	for _, e := range n.outputs {
		if e.param == nil && e.node == d.id && e.output == output && e.input == input {
			return nil
		}
	}
	n.outputs = append(n.outputs, edge{output: output, node: d.id, input: input})
	d.inputs[input] = append(d.inputs[input], source{node: n.id, output: output})
	n.ctx.dirty = true
	return nil
}

// ConnectParam routes output of n into p. The param's owner records n as
// an indirect input so reverse traversals see the dependency.
func (n *AudioNode) ConnectParam(p *AudioParam, output int) error {
	if p == nil || p.owner.ctx != n.ctx {
		return exception.InvalidAccess("connect: param belongs to a different context")
	}

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	if err := n.checkOutput(output); err != nil {
		return err
	}
	if n.removed || p.owner.removed {
		return exception.InvalidAccess("connect: node was removed from its context")
	}

	for _, e := range n.outputs {
		if e.param == p && e.output == output {
			return nil
		}
	}
	n.outputs = append(n.outputs, edge{output: output, node: -1, param: p})
	p.sources = append(p.sources, source{node: n.id, output: output})
	p.owner.indirect[n.id]++
	n.ctx.dirty = true
	return nil
}

// Disconnect removes every outgoing connection.
func (n *AudioNode) Disconnect() {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	n.removeEdges(func(edge) bool { return true })
}

// DisconnectOutput removes every connection leaving output. It fails with
// InvalidAccessError when output has no connections.
func (n *AudioNode) DisconnectOutput(output int) error {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	if err := n.checkOutput(output); err != nil {
		return err
	}
	return n.removeMatching(func(e edge) bool { return e.output == output }, fmt.Sprintf("anything on output %d", output))
}

// DisconnectNode removes every connection from n to dst.
func (n *AudioNode) DisconnectNode(dst Node) error {
	d, err := n.peer(dst)
	if err != nil {
		return err
	}

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	return n.removeMatching(func(e edge) bool {
		return e.param == nil && e.node == d.id
	}, d.kind)
}

// DisconnectNodeOutput removes the connections from output of n to dst.
func (n *AudioNode) DisconnectNodeOutput(dst Node, output int) error {
	d, err := n.peer(dst)
	if err != nil {
		return err
	}

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	if err := n.checkOutput(output); err != nil {
		return err
	}
	return n.removeMatching(func(e edge) bool {
		return e.param == nil && e.node == d.id && e.output == output
	}, d.kind)
}

// DisconnectNodeOutputInput removes the single connection from output of
// n to input of dst.
func (n *AudioNode) DisconnectNodeOutputInput(dst Node, output, input int) error {
	d, err := n.peer(dst)
	if err != nil {
		return err
	}

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	if err := n.checkOutput(output); err != nil {
		return err
	}
	if input < 0 || input >= d.numberOfInputs {
		return exception.IndexSize("%s has no input %d", d.kind, input)
	}
	return n.removeMatching(func(e edge) bool {
		return e.param == nil && e.node == d.id && e.output == output && e.input == input
	}, d.kind)
}

// DisconnectParam removes every connection from n to p.
func (n *AudioNode) DisconnectParam(p *AudioParam) error {
	if p == nil || p.owner.ctx != n.ctx {
		return exception.InvalidAccess("disconnect: param belongs to a different context")
	}

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	return n.removeMatching(func(e edge) bool { return e.param == p }, p.name)
}

// DisconnectParamOutput removes the connection from output of n to p.
func (n *AudioNode) DisconnectParamOutput(p *AudioParam, output int) error {
	if p == nil || p.owner.ctx != n.ctx {
		return exception.InvalidAccess("disconnect: param belongs to a different context")
	}

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	if err := n.checkOutput(output); err != nil {
		return err
	}
	return n.removeMatching(func(e edge) bool {
		return e.param == p && e.output == output
	}, p.name)
}

func (n *AudioNode) peer(dst Node) (*AudioNode, error) {
	if dst == nil {
		return nil, exception.InvalidAccess("nil destination node")
	}
	d := dst.Base()
	if d == nil || d.ctx != n.ctx {
		return nil, exception.InvalidAccess("destination node belongs to a different context")
	}
	return d, nil
}

func (n *AudioNode) checkOutput(output int) error {
	if output < 0 || output >= n.numberOfOutputs {
		return exception.IndexSize("%s has no output %d", n.kind, output)
	}
	return nil
}

func (n *AudioNode) removeMatching(match func(edge) bool, target string) error {
	if n.removeEdges(match) == 0 {
		return exception.InvalidAccess("%s is not connected to %s", n.kind, target)
	}
	return nil
}

// removeEdges drops the outgoing edges for which match reports true and
// unlinks the backward side of each. It returns the number removed.
func (n *AudioNode) removeEdges(match func(edge) bool) int {
	kept := n.outputs[:0]
	removed := 0
	for _, e := range n.outputs {
		if !match(e) {
			kept = append(kept, e)
			continue
		}
		removed++
		src := source{node: n.id, output: e.output}
		if e.param != nil {
			e.param.sources = slices.DeleteFunc(e.param.sources, func(s source) bool { return s == src })
			owner := e.param.owner
			if owner.indirect[n.id]--; owner.indirect[n.id] <= 0 {
				delete(owner.indirect, n.id)
			}
			continue
		}
		dst := n.ctx.nodes[e.node]
		dst.inputs[e.input] = slices.DeleteFunc(dst.inputs[e.input], func(s source) bool { return s == src })
	}
	clear(n.outputs[len(kept):])
	n.outputs = kept
	if removed > 0 {
		n.ctx.dirty = true
	}
	return removed
}

// digraph returns the connection graph over live node handles. Param
// connections become edges to the param owner, taken from the owner's
// indirect inputs.
func (c *BaseAudioContext) digraph() *graph.Digraph {
	g := graph.New()
	for _, n := range c.nodes {
		if n != nil {
			g.AddVertex(n.id)
		}
	}
	for _, n := range c.nodes {
		if n == nil {
			continue
		}
		for _, e := range n.outputs {
			if e.param == nil {
				g.AddEdge(n.id, e.node)
			}
		}
		for _, src := range slices.Sorted(maps.Keys(n.indirect)) {
			g.AddEdge(src, n.id)
		}
	}
	return g
}

// IsPartOfCycle reports whether a connection path leads from n back to n.
func (c *BaseAudioContext) IsPartOfCycle(n Node) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.digraph().IsPartOfCycle(n.Base().id)
}

// StronglyConnectedComponents partitions the live nodes into strongly
// connected components, in topological order of the component graph.
func (c *BaseAudioContext) StronglyConnectedComponents() [][]*AudioNode {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out [][]*AudioNode
	for _, ids := range c.digraph().StronglyConnectedComponents() {
		comp := make([]*AudioNode, len(ids))
		for i, id := range ids {
			comp[i] = c.nodes[id]
		}
		out = append(out, comp)
	}
	return out
}

// RemoveNode drops n from the arena together with every connection into
// or out of it. The destination and the listener cannot be removed.
func (c *BaseAudioContext) RemoveNode(n Node) error {
	if n == nil || n.Base().ctx != c {
		return exception.InvalidAccess("node belongs to a different context")
	}
	node := n.Base()

	c.mu.Lock()
	defer c.mu.Unlock()

	if node == c.destination.AudioNode || node == c.listener.AudioNode {
		return exception.InvalidAccess("%s cannot be removed", node.kind)
	}
	if node.removed {
		return nil
	}

	node.removeEdges(func(edge) bool { return true })
	for _, sources := range node.inputs {
		for _, s := range slices.Clone(sources) {
			c.nodes[s.node].removeEdges(func(e edge) bool {
				return e.param == nil && e.node == node.id
			})
		}
	}
	for _, p := range node.params {
		for _, s := range slices.Clone(p.sources) {
			c.nodes[s.node].removeEdges(func(e edge) bool { return e.param == p })
		}
	}

	node.removed = true
	c.nodes[node.id] = nil
	c.dirty = true
	c.log.Debugf("removed %s #%d", node.kind, node.id)
	return nil
}
