package graph

import "sort"

type CycleKind int

const (
	KindMutual CycleKind = iota
	KindSelf
)

func (k CycleKind) String() string {
	if k == KindSelf {
		return "self-cycle"
	}
	return "mutual-cycle"
}

// CycleGroup is one circular-dependency finding: either a strongly connected
// component of two or more modules, or a single module that imports itself.
type CycleGroup struct {
	Members     []string
	ExamplePath []string
	Kind        CycleKind
	Severity    string
}

const SeverityCritical = "critical"

// FindCycles reports every circular-dependency group in the graph. SCCs of
// size >= 2 become mutual-cycle groups; recorded self-loops become degenerate
// one-node self-cycle groups. The result is ordered by descending size, then
// by the smallest member id, and is fully deterministic including the example
// paths.
func FindCycles(g *Graph) []CycleGroup {
	var groups []CycleGroup

	for _, scc := range stronglyConnected(g) {
		if len(scc) < 2 {
			continue
		}
		groups = append(groups, CycleGroup{
			Members:     scc,
			ExamplePath: examplePath(g, scc),
			Kind:        KindMutual,
			Severity:    SeverityCritical,
		})
	}

	for _, id := range g.SelfLoops() {
		groups = append(groups, CycleGroup{
			Members:     []string{id},
			ExamplePath: []string{id, id},
			Kind:        KindSelf,
			Severity:    SeverityCritical,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].Members) != len(groups[j].Members) {
			return len(groups[i].Members) > len(groups[j].Members)
		}
		return groups[i].Members[0] < groups[j].Members[0]
	})

	return groups
}

type tarjanFrame struct {
	node string
	next int // cursor into the node's successor list
}

// stronglyConnected is Tarjan's algorithm with an explicit frame stack instead
// of recursion, so component discovery survives dependency chains deeper than
// the goroutine stack would allow. Members of each component come back sorted.
func stronglyConnected(g *Graph) [][]string {
	index := 0
	indexOf := make(map[string]int, g.NodeCount())
	lowlink := make(map[string]int, g.NodeCount())
	onStack := make(map[string]bool, g.NodeCount())
	stack := make([]string, 0, g.NodeCount())
	var components [][]string

	for _, root := range g.Nodes() {
		if _, seen := indexOf[root]; seen {
			continue
		}

		work := []tarjanFrame{{node: root}}
		for len(work) > 0 {
			frame := &work[len(work)-1]
			v := frame.node

			if frame.next == 0 {
				indexOf[v] = index
				lowlink[v] = index
				index++
				stack = append(stack, v)
				onStack[v] = true
			}

			descended := false
			succ := g.Successors(v)
			for frame.next < len(succ) {
				w := succ[frame.next]
				frame.next++
				if _, seen := indexOf[w]; !seen {
					work = append(work, tarjanFrame{node: w})
					descended = true
					break
				}
				if onStack[w] && indexOf[w] < lowlink[v] {
					lowlink[v] = indexOf[w]
				}
			}
			if descended {
				continue
			}

			if lowlink[v] == indexOf[v] {
				var component []string
				for {
					last := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[last] = false
					component = append(component, last)
					if last == v {
						break
					}
				}
				sort.Strings(component)
				components = append(components, component)
			}

			work = work[:len(work)-1]
			if len(work) > 0 {
				parent := work[len(work)-1].node
				if lowlink[v] < lowlink[parent] {
					lowlink[parent] = lowlink[v]
				}
			}
		}
	}

	return components
}

// examplePath finds one concrete cycle inside the component's induced
// subgraph: a depth-first walk from the lexicographically smallest member back
// to itself, over sorted adjacency, capped at len(members)+1 hops. The cap is
// safe because an SCC always contains a cycle through any node of at most
// |members| edges.
func examplePath(g *Graph, members []string) []string {
	start := members[0]
	inSCC := make(map[string]bool, len(members))
	for _, m := range members {
		inSCC[m] = true
	}

	maxNodes := len(members) + 1
	path := []string{start}
	visited := map[string]bool{start: true}

	var walk func(cur string) bool
	walk = func(cur string) bool {
		for _, w := range g.Successors(cur) {
			if !inSCC[w] {
				continue
			}
			if w == start && len(path) > 1 {
				path = append(path, start)
				return true
			}
			if !visited[w] && len(path) < maxNodes {
				visited[w] = true
				path = append(path, w)
				if walk(w) {
					return true
				}
				path = path[:len(path)-1]
				visited[w] = false
			}
		}
		return false
	}

	if walk(start) {
		return path
	}

	// Unreachable for a true SCC; kept so a caller handing in a bogus member
	// set still gets something printable.
	fallback := append([]string(nil), members...)
	return append(fallback, start)
}
