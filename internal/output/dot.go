package output

import (
	"fmt"
	"strings"

	"depscan/internal/analyzer"
)

type DOTGenerator struct {
	result *analyzer.Result
}

func NewDOTGenerator(result *analyzer.Result) *DOTGenerator {
	return &DOTGenerator{result: result}
}

// Generate renders the dependency graph as a Graphviz digraph. Cycle members
// and edges are red, god modules orange, everything ordered by the graph's
// sorted accessors so the output is stable.
func (d *DOTGenerator) Generate() (string, error) {
	g := d.result.Graph

	var buf strings.Builder
	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  overlap=false;\n\n")

	cycleEdges := cycleEdgeSet(d.result)
	cycleMembers := cycleModuleSet(d.result)
	godModules := make(map[string]bool, len(d.result.GodModules))
	for _, gm := range d.result.GodModules {
		godModules[gm.Module] = true
	}

	for _, id := range g.Nodes() {
		switch {
		case cycleMembers[id]:
			fmt.Fprintf(&buf, "  %q [fillcolor=\"mistyrose\", color=\"red\", style=\"rounded,filled\", penwidth=2.0];\n", id)
		case godModules[id]:
			fmt.Fprintf(&buf, "  %q [fillcolor=\"papayawhip\", color=\"darkorange\", style=\"rounded,filled\", penwidth=2.0];\n", id)
		default:
			fmt.Fprintf(&buf, "  %q [color=\"darkslategrey\"];\n", id)
		}
	}
	buf.WriteString("\n")

	for _, e := range g.Edges() {
		if cycleEdges[e.From+"->"+e.To] {
			fmt.Fprintf(&buf, "  %q -> %q [color=\"red\", penwidth=3.0, label=\"CYCLE\"];\n", e.From, e.To)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [color=\"darkslategrey\"];\n", e.From, e.To)
		}
	}
	for _, id := range g.SelfLoops() {
		fmt.Fprintf(&buf, "  %q -> %q [color=\"red\", penwidth=3.0, label=\"SELF\"];\n", id, id)
	}

	buf.WriteString("\n  subgraph cluster_legend {\n")
	buf.WriteString("    label=\"Legend\";\n")
	buf.WriteString("    style=dashed;\n")
	buf.WriteString("    legend_module [label=\"Module\", style=rounded];\n")
	buf.WriteString("    legend_cycle [label=\"Cycle Member\", fillcolor=\"mistyrose\", color=\"red\", style=\"rounded,filled\"];\n")
	buf.WriteString("    legend_god [label=\"God Module\", fillcolor=\"papayawhip\", color=\"darkorange\", style=\"rounded,filled\"];\n")
	buf.WriteString("  }\n")

	buf.WriteString("}\n")
	return buf.String(), nil
}

// cycleEdgeSet marks the edges along each group's example path, which are the
// edges worth highlighting.
func cycleEdgeSet(result *analyzer.Result) map[string]bool {
	out := make(map[string]bool)
	for _, group := range result.Cycles {
		path := group.ExamplePath
		for i := 0; i < len(path)-1; i++ {
			out[path[i]+"->"+path[i+1]] = true
		}
	}
	return out
}

func cycleModuleSet(result *analyzer.Result) map[string]bool {
	out := make(map[string]bool)
	for _, group := range result.Cycles {
		for _, m := range group.Members {
			out[m] = true
		}
	}
	return out
}
