package output

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depscan/internal/analyzer"
	"depscan/internal/graph"
)

func sampleResult(t *testing.T) *analyzer.Result {
	t.Helper()

	b := graph.NewBuilder()
	for _, id := range []string{"app.auth", "app.db", "app.util", "app.api", "app.web"} {
		b.AddModule(id)
	}
	b.AddImport("app.auth", "app.db", "app/auth.py", 1)
	b.AddImport("app.db", "app.auth", "app/db.py", 2)
	b.AddImport("app.api", "app.util", "app/api.py", 1)
	b.AddImport("app.web", "app.util", "app/web.py", 1)
	b.AddImport("app.auth", "app.util", "app/auth.py", 3)
	g := b.Build()

	return &analyzer.Result{
		RunID:       "test-run",
		StartedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		ProjectRoot: "/proj",
		Graph:       g,
		ModulePaths: map[string]string{"app.auth": "app/auth.py"},
		Cycles:      graph.FindCycles(g),
		GodModules:  graph.DetectGodModules(g, 0.30),
		Hotspots: []analyzer.ComplexityHotspot{{
			Module: "app.api", Function: "dispatch", File: "app/api.py", Line: 14, Score: 13,
		}},
	}
}

func TestDOTGenerator(t *testing.T) {
	out, err := NewDOTGenerator(sampleResult(t)).Generate()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "digraph dependencies {"))
	assert.Contains(t, out, `"app.auth" [fillcolor="mistyrose"`)
	assert.Contains(t, out, `"app.util" [fillcolor="papayawhip"`)
	assert.Contains(t, out, `"app.auth" -> "app.db" [color="red", penwidth=3.0, label="CYCLE"];`)
	assert.Contains(t, out, `"app.api" -> "app.util" [color="darkslategrey"];`)
	assert.Contains(t, out, "cluster_legend")
}

func TestDOTSelfLoop(t *testing.T) {
	b := graph.NewBuilder()
	b.AddModule("loop")
	b.AddImport("loop", "loop", "loop.py", 1)
	g := b.Build()

	result := &analyzer.Result{Graph: g, Cycles: graph.FindCycles(g)}
	out, err := NewDOTGenerator(result).Generate()
	require.NoError(t, err)
	assert.Contains(t, out, `"loop" -> "loop" [color="red", penwidth=3.0, label="SELF"];`)
}

func TestMermaidGenerator(t *testing.T) {
	out, err := NewMermaidGenerator(sampleResult(t)).Generate()
	require.NoError(t, err)

	assert.Contains(t, out, "flowchart LR")
	assert.Contains(t, out, `app_auth["app.auth"]`)
	assert.Contains(t, out, "classDef cycleNode")
	assert.Contains(t, out, "classDef godNode")
	assert.Contains(t, out, "-->|CYCLE|")
	assert.Contains(t, out, "linkStyle")
}

func TestMermaidIDCollisions(t *testing.T) {
	ids := makeMermaidIDs([]string{"a.b", "a_b", "a-b"})
	seen := make(map[string]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate mermaid id %q", id)
		seen[id] = true
	}
}

func TestGenerateJSON(t *testing.T) {
	result := sampleResult(t)

	first, err := GenerateJSON(result)
	require.NoError(t, err)
	second, err := GenerateJSON(result)
	require.NoError(t, err)
	assert.Equal(t, first, second, "json output must be byte-identical across runs")

	var decoded struct {
		RunID   string `json:"run_id"`
		Modules []struct {
			ID string `json:"id"`
		} `json:"modules"`
		Cycles []struct {
			Members []string `json:"members"`
			Kind    string   `json:"kind"`
		} `json:"cycles"`
		Hotspots []struct {
			Function string `json:"function"`
			Score    int    `json:"score"`
		} `json:"complexity_hotspots"`
		Summary struct {
			Modules int `json:"Modules"`
			Cycles  int `json:"Cycles"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(first, &decoded))

	assert.Equal(t, "test-run", decoded.RunID)
	require.Len(t, decoded.Modules, 5)
	assert.Equal(t, "app.api", decoded.Modules[0].ID)
	require.Len(t, decoded.Cycles, 1)
	assert.Equal(t, []string{"app.auth", "app.db"}, decoded.Cycles[0].Members)
	assert.Equal(t, "mutual-cycle", decoded.Cycles[0].Kind)
	require.Len(t, decoded.Hotspots, 1)
	assert.Equal(t, "dispatch", decoded.Hotspots[0].Function)
	assert.Equal(t, 13, decoded.Hotspots[0].Score)
}
