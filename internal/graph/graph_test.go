package graph

import (
	"reflect"
	"testing"
)

func TestBuilderDedupAndOrdering(t *testing.T) {
	b := NewBuilder()
	for _, id := range []string{"zeta", "alpha", "mid"} {
		b.AddModule(id)
	}

	b.AddImport("zeta", "alpha", "zeta.py", 3)
	b.AddImport("zeta", "alpha", "zeta.py", 9) // duplicate pair
	b.AddImport("mid", "alpha", "mid.py", 1)
	b.AddImport("zeta", "mid", "zeta.py", 4)

	g := b.Build()

	wantNodes := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(g.Nodes(), wantNodes) {
		t.Errorf("nodes = %v, want %v", g.Nodes(), wantNodes)
	}

	if g.EdgeCount() != 3 {
		t.Fatalf("expected 3 edges after dedup, got %d", g.EdgeCount())
	}

	edges := g.Edges()
	last := edges[len(edges)-1]
	if last.From != "zeta" || last.To != "mid" {
		t.Errorf("unexpected last edge %+v", last)
	}

	// Dedup keeps the first observed location.
	for _, e := range edges {
		if e.From == "zeta" && e.To == "alpha" && e.Line != 3 {
			t.Errorf("dedup should keep first location, got line %d", e.Line)
		}
	}

	if !reflect.DeepEqual(g.Successors("zeta"), []string{"alpha", "mid"}) {
		t.Errorf("successors(zeta) = %v", g.Successors("zeta"))
	}
	if !reflect.DeepEqual(g.Predecessors("alpha"), []string{"mid", "zeta"}) {
		t.Errorf("predecessors(alpha) = %v", g.Predecessors("alpha"))
	}
}

func TestBuilderDropsUnknownEndpoints(t *testing.T) {
	b := NewBuilder()
	b.AddModule("a")
	b.AddImport("a", "ghost", "a.py", 1)
	b.AddImport("ghost", "a", "ghost.py", 1)

	g := b.Build()
	if g.EdgeCount() != 0 {
		t.Errorf("edges to unknown modules must be dropped, got %d", g.EdgeCount())
	}
	if g.NodeCount() != 1 {
		t.Errorf("expected 1 node, got %d", g.NodeCount())
	}
}

func TestBuilderSelfLoopSeparation(t *testing.T) {
	b := NewBuilder()
	b.AddModule("a")
	b.AddModule("b")
	b.AddImport("a", "a", "a.py", 2)
	b.AddImport("a", "b", "a.py", 3)

	g := b.Build()

	if g.EdgeCount() != 1 {
		t.Errorf("self-import must not appear in the edge set, got %d edges", g.EdgeCount())
	}
	if !g.HasSelfLoop("a") {
		t.Error("expected self-loop recorded for a")
	}
	if g.HasSelfLoop("b") {
		t.Error("b has no self-loop")
	}
	if !reflect.DeepEqual(g.SelfLoops(), []string{"a"}) {
		t.Errorf("SelfLoops() = %v", g.SelfLoops())
	}
}

func TestBuildDeterminismAcrossInsertionOrder(t *testing.T) {
	build := func(order []string) *Graph {
		b := NewBuilder()
		for _, id := range order {
			b.AddModule(id)
		}
		b.AddImport("c", "a", "c.py", 1)
		b.AddImport("a", "b", "a.py", 1)
		b.AddImport("b", "c", "b.py", 1)
		return b.Build()
	}

	g1 := build([]string{"a", "b", "c"})
	g2 := build([]string{"c", "b", "a"})

	if !reflect.DeepEqual(g1.Nodes(), g2.Nodes()) {
		t.Errorf("node order differs: %v vs %v", g1.Nodes(), g2.Nodes())
	}
	if !reflect.DeepEqual(g1.Edges(), g2.Edges()) {
		t.Errorf("edge order differs: %v vs %v", g1.Edges(), g2.Edges())
	}
}
