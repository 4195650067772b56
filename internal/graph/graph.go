// Package graph holds the directed-graph algorithms the render scheduler
// relies on: cycle membership, strongly connected components and
// topological ordering over integer vertex handles.
package graph

// Digraph is a directed graph over integer vertices. Vertices and edges
// keep insertion order so every traversal is deterministic.
type Digraph struct {
	vertices []int
	index    map[int]int
	out      map[int][]int
	in       map[int][]int
}

// New returns an empty graph.
func New() *Digraph {
	return &Digraph{
		index: make(map[int]int),
		out:   make(map[int][]int),
		in:    make(map[int][]int),
	}
}

// AddVertex adds v if it is not present yet.
func (g *Digraph) AddVertex(v int) {
	if _, ok := g.index[v]; ok {
		return
	}
	g.index[v] = len(g.vertices)
	g.vertices = append(g.vertices, v)
}

// AddEdge adds the edge from -> to, adding missing vertices. Parallel
// edges collapse into one.
func (g *Digraph) AddEdge(from, to int) {
	g.AddVertex(from)
	g.AddVertex(to)
	for _, w := range g.out[from] {
		if w == to {
			return
		}
	}
	g.out[from] = append(g.out[from], to)
	g.in[to] = append(g.in[to], from)
}

// Has reports whether v is a vertex of g.
func (g *Digraph) Has(v int) bool {
	_, ok := g.index[v]
	return ok
}

// Vertices returns the vertices in insertion order.
func (g *Digraph) Vertices() []int {
	return append([]int(nil), g.vertices...)
}

// Successors returns the targets of edges leaving v.
func (g *Digraph) Successors(v int) []int {
	return g.out[v]
}

// Predecessors returns the sources of edges entering v.
func (g *Digraph) Predecessors(v int) []int {
	return g.in[v]
}

// Subgraph returns the graph induced by keep, minus the edges for which
// drop reports true. drop may be nil.
func (g *Digraph) Subgraph(keep []int, drop func(from, to int) bool) *Digraph {
	sub := New()
	member := make(map[int]bool, len(keep))
	for _, v := range keep {
		member[v] = true
		sub.AddVertex(v)
	}
	for _, v := range keep {
		for _, w := range g.out[v] {
			if !member[w] || (drop != nil && drop(v, w)) {
				continue
			}
			sub.AddEdge(v, w)
		}
	}
	return sub
}

const (
	white = iota
	gray
	black
)

// IsPartOfCycle reports whether a path of one or more edges leads from
// origin back to origin. It runs a three-color depth-first search and
// stops at the first edge that closes on origin.
func (g *Digraph) IsPartOfCycle(origin int) bool {
	if !g.Has(origin) {
		return false
	}

	color := make(map[int]int, len(g.vertices))
	type frame struct{ v, next int }
	stack := []frame{{v: origin}}
	color[origin] = gray

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		succ := g.out[top.v]
		if top.next == len(succ) {
			color[top.v] = black
			stack = stack[:len(stack)-1]
			continue
		}
		w := succ[top.next]
		top.next++

		if w == origin {
			return true
		}
		if color[w] == white {
			color[w] = gray
			stack = append(stack, frame{v: w})
		}
	}
	return false
}

// StronglyConnectedComponents decomposes g with Kosaraju's algorithm. A
// first depth-first pass over forward edges records finish order; a
// second pass over reverse edges, taking vertices by decreasing finish
// time, collects one component per tree. Components come out in
// topological order of the condensation: no edge leads from a later
// component into an earlier one.
func (g *Digraph) StronglyConnectedComponents() [][]int {
	finished := g.finishOrder()

	assigned := make(map[int]bool, len(g.vertices))
	var components [][]int
	for i := len(finished) - 1; i >= 0; i-- {
		root := finished[i]
		if assigned[root] {
			continue
		}

		assigned[root] = true
		component := []int{root}
		for j := 0; j < len(component); j++ {
			for _, w := range g.in[component[j]] {
				if !assigned[w] {
					assigned[w] = true
					component = append(component, w)
				}
			}
		}
		components = append(components, component)
	}
	return components
}

func (g *Digraph) finishOrder() []int {
	visited := make(map[int]bool, len(g.vertices))
	order := make([]int, 0, len(g.vertices))

	type frame struct{ v, next int }
	for _, start := range g.vertices {
		if visited[start] {
			continue
		}
		visited[start] = true
		stack := []frame{{v: start}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			succ := g.out[top.v]
			if top.next == len(succ) {
				order = append(order, top.v)
				stack = stack[:len(stack)-1]
				continue
			}
			w := succ[top.next]
			top.next++
			if !visited[w] {
				visited[w] = true
				stack = append(stack, frame{v: w})
			}
		}
	}
	return order
}

// TopologicalOrder sorts g with Kahn's algorithm. Vertices that sit on or
// behind a cycle never reach in-degree zero; they are returned in cyclic,
// in insertion order.
func (g *Digraph) TopologicalOrder() (order, cyclic []int) {
	indegree := make(map[int]int, len(g.vertices))
	for _, v := range g.vertices {
		indegree[v] = len(g.in[v])
	}

	queue := make([]int, 0, len(g.vertices))
	for _, v := range g.vertices {
		if indegree[v] == 0 {
			queue = append(queue, v)
		}
	}

	order = make([]int, 0, len(g.vertices))
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]

		order = append(order, v)
		for _, w := range g.out[v] {
			indegree[w]--
			if indegree[w] == 0 {
				queue = append(queue, w)
			}
		}
	}

	if len(order) != len(g.vertices) {
		for _, v := range g.vertices {
			if indegree[v] > 0 {
				cyclic = append(cyclic, v)
			}
		}
	}
	return order, cyclic
}
