package output

import (
	"encoding/json"
	"time"

	"depscan/internal/analyzer"
	"depscan/internal/graph"
)

// jsonPayload is the raw machine-readable dump of one run. Field order and
// the graph's sorted slices keep repeated runs byte-identical.
type jsonPayload struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	ProjectRoot string    `json:"project_root"`
	TechStacks  []string  `json:"tech_stacks,omitempty"`

	Modules    []jsonModule           `json:"modules"`
	Edges      []jsonEdge             `json:"edges"`
	Cycles     []jsonCycle            `json:"cycles"`
	GodModules []jsonGodModule        `json:"god_modules"`
	Violations []graph.LayerViolation `json:"violations,omitempty"`
	Hotspots   []jsonHotspot          `json:"complexity_hotspots,omitempty"`
	Errors     []jsonDiagnostic       `json:"errors,omitempty"`

	Summary analyzer.Summary `json:"summary"`
}

type jsonModule struct {
	ID   string `json:"id"`
	Path string `json:"path,omitempty"`
}

type jsonEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
	File string `json:"file,omitempty"`
	Line int    `json:"line,omitempty"`
}

type jsonCycle struct {
	Members     []string `json:"members"`
	ExamplePath []string `json:"example_path"`
	Kind        string   `json:"kind"`
	Severity    string   `json:"severity"`
}

type jsonGodModule struct {
	Module    string  `json:"module"`
	InDegree  int     `json:"in_degree"`
	Ratio     float64 `json:"ratio"`
	Threshold float64 `json:"threshold"`
	Severity  string  `json:"severity"`
}

type jsonHotspot struct {
	Module   string `json:"module"`
	Function string `json:"function"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Score    int    `json:"score"`
}

type jsonDiagnostic struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

// GenerateJSON serializes the complete analysis result as indented JSON.
func GenerateJSON(result *analyzer.Result) ([]byte, error) {
	payload := jsonPayload{
		RunID:       result.RunID,
		GeneratedAt: result.StartedAt.UTC(),
		ProjectRoot: result.ProjectRoot,
		TechStacks:  result.TechStacks,
		Modules:     make([]jsonModule, 0, result.Graph.NodeCount()),
		Edges:       make([]jsonEdge, 0, result.Graph.EdgeCount()),
		Cycles:      make([]jsonCycle, 0, len(result.Cycles)),
		GodModules:  make([]jsonGodModule, 0, len(result.GodModules)),
		Violations:  result.Violations,
		Summary:     result.Summary(),
	}

	for _, id := range result.Graph.Nodes() {
		payload.Modules = append(payload.Modules, jsonModule{ID: id, Path: result.ModulePaths[id]})
	}
	for _, e := range result.Graph.Edges() {
		payload.Edges = append(payload.Edges, jsonEdge{From: e.From, To: e.To, File: e.File, Line: e.Line})
	}
	for _, c := range result.Cycles {
		payload.Cycles = append(payload.Cycles, jsonCycle{
			Members:     c.Members,
			ExamplePath: c.ExamplePath,
			Kind:        c.Kind.String(),
			Severity:    c.Severity,
		})
	}
	for _, gm := range result.GodModules {
		payload.GodModules = append(payload.GodModules, jsonGodModule{
			Module:    gm.Module,
			InDegree:  gm.InDegree,
			Ratio:     gm.Ratio,
			Threshold: gm.Threshold,
			Severity:  gm.Severity,
		})
	}
	for _, h := range result.Hotspots {
		payload.Hotspots = append(payload.Hotspots, jsonHotspot{
			Module:   h.Module,
			Function: h.Function,
			File:     h.File,
			Line:     h.Line,
			Score:    h.Score,
		})
	}
	for _, d := range result.Diagnostics {
		payload.Errors = append(payload.Errors, jsonDiagnostic{
			Path:   d.Path,
			Kind:   d.Kind.String(),
			Detail: d.Detail,
		})
	}

	return json.MarshalIndent(payload, "", "  ")
}
