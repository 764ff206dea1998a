package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"depscan/internal/analyzer"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	badStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func printSummary(result *analyzer.Result) {
	s := result.Summary()
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render("depscan"), dimStyle.Render(result.ProjectRoot))
	if len(result.TechStacks) > 0 {
		fmt.Fprintf(&b, "%s\n", dimStyle.Render("stacks: "+strings.Join(result.TechStacks, ", ")))
	}

	if result.EmptyProject {
		fmt.Fprintf(&b, "%s\n", warnStyle.Render("empty project: no internal modules discovered"))
		fmt.Print(b.String())
		return
	}

	fmt.Fprintf(&b, "%d files, %d modules, %d dependencies\n", result.FileCount, s.Modules, s.Edges)

	if s.Cycles > 0 {
		fmt.Fprintf(&b, "%s\n", badStyle.Render(fmt.Sprintf("✗ %d circular dependency group(s)", s.Cycles)))
		for _, group := range result.Cycles {
			fmt.Fprintf(&b, "  %s\n", strings.Join(group.ExamplePath, " -> "))
		}
	} else {
		fmt.Fprintf(&b, "%s\n", okStyle.Render("✓ no circular dependencies"))
	}

	if s.GodModules > 0 {
		fmt.Fprintf(&b, "%s\n", warnStyle.Render(fmt.Sprintf("! %d god module(s)", s.GodModules)))
		for _, gm := range result.GodModules {
			fmt.Fprintf(&b, "  %s (imported by %d modules, ratio %.2f)\n", gm.Module, gm.InDegree, gm.Ratio)
		}
	}

	if s.Violations > 0 {
		fmt.Fprintf(&b, "%s\n", warnStyle.Render(fmt.Sprintf("! %d layer violation(s)", s.Violations)))
		for _, v := range result.Violations {
			fmt.Fprintf(&b, "  %s\n", v.String())
		}
	}

	if s.Hotspots > 0 {
		fmt.Fprintf(&b, "%s\n", warnStyle.Render(fmt.Sprintf("! %d complexity hotspot(s)", s.Hotspots)))
		for _, h := range result.Hotspots {
			fmt.Fprintf(&b, "  %s.%s (score %d) at %s:%d\n", h.Module, h.Function, h.Score, h.File, h.Line)
		}
	}

	if s.ParseErrors > 0 {
		fmt.Fprintf(&b, "%s\n", dimStyle.Render(fmt.Sprintf("%d file(s) skipped with parse errors", s.ParseErrors)))
	}

	fmt.Print(b.String())
}
