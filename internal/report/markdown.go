package report

import (
	"fmt"
	"strings"

	"depscan/internal/analyzer"
	"depscan/internal/graph"
)

// Generate renders the human-facing Markdown analysis report for one run.
func Generate(result *analyzer.Result) string {
	var b strings.Builder
	summary := result.Summary()

	b.WriteString("# Dependency Analysis Report\n\n")
	fmt.Fprintf(&b, "- **Project**: `%s`\n", result.ProjectRoot)
	fmt.Fprintf(&b, "- **Run**: `%s`\n", result.RunID)
	fmt.Fprintf(&b, "- **Date**: %s\n", result.StartedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	if len(result.TechStacks) > 0 {
		fmt.Fprintf(&b, "- **Detected stacks**: %s\n", strings.Join(result.TechStacks, ", "))
	}
	b.WriteString("\n")

	b.WriteString("## Overview\n\n")
	b.WriteString("| Metric | Count |\n|---|---|\n")
	fmt.Fprintf(&b, "| Files analyzed | %d |\n", result.FileCount)
	fmt.Fprintf(&b, "| Modules | %d |\n", summary.Modules)
	fmt.Fprintf(&b, "| Dependencies | %d |\n", summary.Edges)
	fmt.Fprintf(&b, "| Circular dependency groups | %d |\n", summary.Cycles)
	fmt.Fprintf(&b, "| God modules | %d |\n", summary.GodModules)
	fmt.Fprintf(&b, "| Layer violations | %d |\n", summary.Violations)
	fmt.Fprintf(&b, "| Complexity hotspots | %d |\n", summary.Hotspots)
	fmt.Fprintf(&b, "| Parse errors | %d |\n", summary.ParseErrors)
	fmt.Fprintf(&b, "| Unresolved third-party imports | %d |\n", summary.Unresolved)
	b.WriteString("\n")

	if result.EmptyProject {
		b.WriteString("No internal modules were discovered under the project root.\n")
		return b.String()
	}

	writeCycles(&b, result.Cycles)
	writeGodModules(&b, result.GodModules)
	writeViolations(&b, result.Violations)
	writeHotspots(&b, result.Hotspots)
	writeDiagnostics(&b, result)

	return b.String()
}

func writeCycles(b *strings.Builder, cycles []graph.CycleGroup) {
	b.WriteString("## Circular Dependencies\n\n")
	if len(cycles) == 0 {
		b.WriteString("None found.\n\n")
		return
	}

	for i, group := range cycles {
		fmt.Fprintf(b, "### Group %d (%s, %d modules)\n\n", i+1, group.Kind, len(group.Members))
		fmt.Fprintf(b, "- Severity: **%s**\n", group.Severity)
		fmt.Fprintf(b, "- Members: %s\n", codeList(group.Members))
		fmt.Fprintf(b, "- Example: `%s`\n\n", strings.Join(group.ExamplePath, " -> "))
	}
}

func writeGodModules(b *strings.Builder, gods []graph.GodModule) {
	b.WriteString("## God Modules\n\n")
	if len(gods) == 0 {
		b.WriteString("None found.\n\n")
		return
	}

	b.WriteString("| Module | Importers | Ratio | Threshold |\n|---|---|---|---|\n")
	for _, gm := range gods {
		fmt.Fprintf(b, "| `%s` | %d | %.2f | %.2f |\n", gm.Module, gm.InDegree, gm.Ratio, gm.Threshold)
	}
	b.WriteString("\n")
}

func writeViolations(b *strings.Builder, violations []graph.LayerViolation) {
	if len(violations) == 0 {
		return
	}

	b.WriteString("## Layer Violations\n\n")
	for _, v := range violations {
		fmt.Fprintf(b, "- **%s**: `%s` (%s) imports `%s` (%s) at %s:%d\n",
			v.RuleName, v.FromModule, v.FromLayer, v.ToModule, v.ToLayer, v.File, v.Line)
	}
	b.WriteString("\n")
}

func writeHotspots(b *strings.Builder, hotspots []analyzer.ComplexityHotspot) {
	if len(hotspots) == 0 {
		return
	}

	b.WriteString("## Complexity Hotspots\n\n")
	b.WriteString("Functions above the complexity threshold, worst first.\n\n")
	b.WriteString("| Function | Module | Score | Location |\n|---|---|---|---|\n")
	for _, h := range hotspots {
		fmt.Fprintf(b, "| `%s` | `%s` | %d | %s:%d |\n", h.Function, h.Module, h.Score, h.File, h.Line)
	}
	b.WriteString("\n")
}

func writeDiagnostics(b *strings.Builder, result *analyzer.Result) {
	if len(result.Diagnostics) == 0 {
		return
	}

	b.WriteString("## Files Skipped\n\n")
	for _, d := range result.Diagnostics {
		fmt.Fprintf(b, "- `%s`: %s (%s)\n", d.Path, d.Kind, d.Detail)
	}
	b.WriteString("\n")
}

func codeList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "`" + item + "`"
	}
	return strings.Join(quoted, ", ")
}
