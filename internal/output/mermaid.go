package output

import (
	"fmt"
	"strings"
	"unicode"

	"depscan/internal/analyzer"
)

type MermaidGenerator struct {
	result *analyzer.Result
}

func NewMermaidGenerator(result *analyzer.Result) *MermaidGenerator {
	return &MermaidGenerator{result: result}
}

// Generate renders the graph as a Mermaid flowchart with cycle members and
// god modules styled via classDefs and cycle edges via linkStyle indexes.
func (m *MermaidGenerator) Generate() (string, error) {
	g := m.result.Graph

	var b strings.Builder
	b.WriteString("%%{init: {'flowchart': {'nodeSpacing': 60, 'rankSpacing': 90, 'curve': 'basis'}}}%%\n")
	b.WriteString("flowchart LR\n")

	ids := makeMermaidIDs(g.Nodes())
	for _, id := range g.Nodes() {
		fmt.Fprintf(&b, "  %s[\"%s\"]\n", ids[id], escapeMermaidLabel(id))
	}

	cycleMembers := cycleModuleSet(m.result)
	if names := orderedMembers(g.Nodes(), cycleMembers); len(names) > 0 {
		b.WriteString("  classDef cycleNode fill:#ffecec,stroke:#cc0000,stroke-width:2px;\n")
		fmt.Fprintf(&b, "  class %s cycleNode;\n", strings.Join(toIDs(names, ids), ","))
	}

	godSet := make(map[string]bool, len(m.result.GodModules))
	for _, gm := range m.result.GodModules {
		godSet[gm.Module] = true
	}
	if names := orderedMembers(g.Nodes(), godSet); len(names) > 0 {
		b.WriteString("  classDef godNode fill:#fff3e0,stroke:#e65100,stroke-width:2px;\n")
		fmt.Fprintf(&b, "  class %s godNode;\n", strings.Join(toIDs(names, ids), ","))
	}

	b.WriteString("\n")
	cycleEdges := cycleEdgeSet(m.result)
	linkIndex := 0
	var cycleLinks []int
	for _, e := range g.Edges() {
		if cycleEdges[e.From+"->"+e.To] {
			fmt.Fprintf(&b, "  %s -->|CYCLE| %s\n", ids[e.From], ids[e.To])
			cycleLinks = append(cycleLinks, linkIndex)
		} else {
			fmt.Fprintf(&b, "  %s --> %s\n", ids[e.From], ids[e.To])
		}
		linkIndex++
	}
	for _, id := range g.SelfLoops() {
		fmt.Fprintf(&b, "  %s -->|SELF| %s\n", ids[id], ids[id])
		cycleLinks = append(cycleLinks, linkIndex)
		linkIndex++
	}

	if len(cycleLinks) > 0 {
		fmt.Fprintf(&b, "\n  linkStyle %s stroke:#cc0000,stroke-width:3px;\n", joinInts(cycleLinks))
	}

	return b.String(), nil
}

func sanitizeMermaidID(module string) string {
	if module == "" {
		return "m"
	}
	var b strings.Builder
	for _, r := range module {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if unicode.IsDigit(rune(out[0])) {
		return "m_" + out
	}
	return out
}

func makeMermaidIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]int, len(names))
	for _, name := range names {
		base := sanitizeMermaidID(name)
		idx := used[base]
		used[base] = idx + 1
		if idx == 0 {
			ids[name] = base
			continue
		}
		ids[name] = fmt.Sprintf("%s_%d", base, idx+1)
	}
	return ids
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func orderedMembers(ordered []string, set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for _, item := range ordered {
		if set[item] {
			out = append(out, item)
		}
	}
	return out
}

func toIDs(names []string, ids map[string]string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, ids[name])
	}
	return out
}

func joinInts(v []int) string {
	parts := make([]string, 0, len(v))
	for _, n := range v {
		parts = append(parts, fmt.Sprintf("%d", n))
	}
	return strings.Join(parts, ",")
}
