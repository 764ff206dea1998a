package graph

import "sort"

// Edge is one deduplicated "From imports To" relation between internal
// modules. File and Line point at the first import statement observed for the
// pair, for diagnostics only.
type Edge struct {
	From string
	To   string
	File string
	Line int
}

// Graph is the frozen dependency graph handed to the detectors. All accessors
// return sorted data so every downstream consumer sees the same order
// regardless of how the builder was fed.
type Graph struct {
	nodes        []string
	edges        []Edge
	successors   map[string][]string
	predecessors map[string][]string
	selfLoops    map[string]Edge
}

func (g *Graph) Nodes() []string { return g.nodes }
func (g *Graph) Edges() []Edge   { return g.edges }

func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return len(g.edges) }

func (g *Graph) Successors(id string) []string   { return g.successors[id] }
func (g *Graph) Predecessors(id string) []string { return g.predecessors[id] }

func (g *Graph) HasNode(id string) bool {
	_, ok := g.successors[id]
	return ok
}

func (g *Graph) HasSelfLoop(id string) bool {
	_, ok := g.selfLoops[id]
	return ok
}

// SelfLoops returns the modules that import themselves, sorted. Self-imports
// are kept out of the edge set so SCC computation never sees them.
func (g *Graph) SelfLoops() []string {
	out := make([]string, 0, len(g.selfLoops))
	for id := range g.selfLoops {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Builder accumulates modules and resolved imports, then freezes them into a
// Graph. Duplicate imports of the same ordered pair collapse to one edge;
// self-imports are diverted into the self-loop set.
type Builder struct {
	nodes     map[string]bool
	edges     map[string]map[string]Edge
	selfLoops map[string]Edge
}

func NewBuilder() *Builder {
	return &Builder{
		nodes:     make(map[string]bool),
		edges:     make(map[string]map[string]Edge),
		selfLoops: make(map[string]Edge),
	}
}

func (b *Builder) AddModule(id string) {
	if id != "" {
		b.nodes[id] = true
	}
}

// AddImport records one resolved internal import. Both endpoints must already
// be known modules; anything else is silently dropped, matching the rule that
// the edge set is restricted to internal nodes.
func (b *Builder) AddImport(from, to, file string, line int) {
	if !b.nodes[from] || !b.nodes[to] {
		return
	}

	if from == to {
		if _, ok := b.selfLoops[from]; !ok {
			b.selfLoops[from] = Edge{From: from, To: to, File: file, Line: line}
		}
		return
	}

	if b.edges[from] == nil {
		b.edges[from] = make(map[string]Edge)
	}
	if _, ok := b.edges[from][to]; !ok {
		b.edges[from][to] = Edge{From: from, To: to, File: file, Line: line}
	}
}

// Build freezes the accumulated state. The Builder can keep accepting input
// afterwards, but the returned Graph never changes.
func (b *Builder) Build() *Graph {
	g := &Graph{
		successors:   make(map[string][]string, len(b.nodes)),
		predecessors: make(map[string][]string, len(b.nodes)),
		selfLoops:    make(map[string]Edge, len(b.selfLoops)),
	}

	g.nodes = make([]string, 0, len(b.nodes))
	for id := range b.nodes {
		g.nodes = append(g.nodes, id)
		g.successors[id] = nil
		g.predecessors[id] = nil
	}
	sort.Strings(g.nodes)

	for from, targets := range b.edges {
		for to, edge := range targets {
			g.edges = append(g.edges, edge)
			g.successors[from] = append(g.successors[from], to)
			g.predecessors[to] = append(g.predecessors[to], from)
		}
	}
	sort.Slice(g.edges, func(i, j int) bool {
		if g.edges[i].From != g.edges[j].From {
			return g.edges[i].From < g.edges[j].From
		}
		return g.edges[i].To < g.edges[j].To
	})
	for id := range g.successors {
		sort.Strings(g.successors[id])
		sort.Strings(g.predecessors[id])
	}

	for id, edge := range b.selfLoops {
		g.selfLoops[id] = edge
	}

	return g
}
