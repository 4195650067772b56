package graph

import (
	"slices"
	"testing"
)

func build(edges [][2]int, vertices ...int) *Digraph {
	g := New()
	for _, v := range vertices {
		g.AddVertex(v)
	}
	for _, e := range edges {
		g.AddEdge(e[0], e[1])
	}
	return g
}

func TestIsPartOfCycle(t *testing.T) {
	tests := []struct {
		name  string
		edges [][2]int
		want  map[int]bool
	}{
		{
			name:  "self loop",
			edges: [][2]int{{1, 1}},
			want:  map[int]bool{1: true},
		},
		{
			name:  "two node cycle",
			edges: [][2]int{{1, 2}, {2, 1}},
			want:  map[int]bool{1: true, 2: true},
		},
		{
			name:  "chain",
			edges: [][2]int{{1, 2}, {2, 3}},
			want:  map[int]bool{1: false, 2: false, 3: false},
		},
		{
			name:  "diamond",
			edges: [][2]int{{1, 2}, {1, 3}, {2, 4}, {3, 4}},
			want:  map[int]bool{1: false, 2: false, 3: false, 4: false},
		},
		{
			name:  "feeder into cycle",
			edges: [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 1}},
			want:  map[int]bool{0: false, 1: true, 2: true, 3: true},
		},
		{
			name:  "cycle behind a gray vertex",
			edges: [][2]int{{1, 2}, {2, 3}, {3, 2}},
			want:  map[int]bool{1: false, 2: true, 3: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(tt.edges)
			for v, want := range tt.want {
				if got := g.IsPartOfCycle(v); got != want {
					t.Fatalf("IsPartOfCycle(%d) = %v, want %v", v, got, want)
				}
			}
		})
	}

	if New().IsPartOfCycle(7) {
		t.Fatal("unknown vertex reported in a cycle")
	}
}

func TestStronglyConnectedComponents_FourNodes(t *testing.T) {
	// 0 feeds a 3-cycle 1 -> 2 -> 3 -> 1.
	g := build([][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 1}})
	comps := g.StronglyConnectedComponents()
	if len(comps) != 2 {
		t.Fatalf("components = %v, want 2", comps)
	}

	var singleton, cycle []int
	for _, c := range comps {
		switch len(c) {
		case 1:
			singleton = c
		case 3:
			cycle = slices.Sorted(slices.Values(c))
		}
	}
	if !slices.Equal(singleton, []int{0}) {
		t.Fatalf("singleton = %v, want [0]", singleton)
	}
	if !slices.Equal(cycle, []int{1, 2, 3}) {
		t.Fatalf("cycle component = %v, want [1 2 3]", cycle)
	}
}

func TestStronglyConnectedComponents_TopologicalOrder(t *testing.T) {
	// a(1,2) -> b(3) -> c(4,5), plus isolated 6.
	g := build([][2]int{{4, 5}, {5, 4}, {3, 4}, {1, 2}, {2, 1}, {2, 3}}, 6)
	comps := g.StronglyConnectedComponents()

	pos := make(map[int]int)
	for i, c := range comps {
		for _, v := range c {
			pos[v] = i
		}
	}
	if len(comps) != 4 {
		t.Fatalf("components = %v, want 4", comps)
	}
	for _, v := range g.Vertices() {
		for _, w := range g.Successors(v) {
			if pos[v] > pos[w] {
				t.Fatalf("edge %d->%d goes backwards in %v", v, w, comps)
			}
		}
	}
}

func TestTopologicalOrder(t *testing.T) {
	g := build([][2]int{{1, 2}, {1, 3}, {2, 4}, {3, 4}})
	order, cyclic := g.TopologicalOrder()
	if len(cyclic) != 0 {
		t.Fatalf("cyclic = %v", cyclic)
	}
	if !slices.Equal(order, []int{1, 2, 3, 4}) {
		t.Fatalf("order = %v", order)
	}

	g = build([][2]int{{1, 2}, {2, 3}, {3, 2}, {3, 4}}, 5)
	order, cyclic = g.TopologicalOrder()
	if !slices.Equal(order, []int{5, 1}) {
		t.Fatalf("order = %v, want [5 1]", order)
	}
	if !slices.Equal(cyclic, []int{2, 3, 4}) {
		t.Fatalf("cyclic = %v, want [2 3 4]", cyclic)
	}
}

func TestSubgraph(t *testing.T) {
	g := build([][2]int{{1, 2}, {2, 3}, {3, 1}, {3, 4}})
	sub := g.Subgraph([]int{1, 2, 3}, func(from, to int) bool { return to == 1 })
	if sub.Has(4) {
		t.Fatal("vertex outside keep set copied")
	}
	if sub.IsPartOfCycle(1) {
		t.Fatal("dropped edge still closes the cycle")
	}
	order, cyclic := sub.TopologicalOrder()
	if !slices.Equal(order, []int{1, 2, 3}) || cyclic != nil {
		t.Fatalf("order = %v cyclic = %v", order, cyclic)
	}
}

func TestAddEdge_Dedup(t *testing.T) {
	g := build([][2]int{{1, 2}, {1, 2}})
	if len(g.Successors(1)) != 1 || len(g.Predecessors(2)) != 1 {
		t.Fatalf("parallel edge not collapsed: %v %v", g.Successors(1), g.Predecessors(2))
	}
}
