package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depscan/internal/config"
	"depscan/internal/graph"
	"depscan/internal/parser"
)

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func pythonProject(t *testing.T) string {
	root := t.TempDir()
	write(t, root, "pyproject.toml", "[project]\nname = \"demo\"\n")
	write(t, root, "app/__init__.py", "")
	write(t, root, "app/auth.py", "from app import db\n")
	write(t, root, "app/db.py", "from app import auth\n")
	write(t, root, "app/api.py", "from app import auth\nimport os\nimport requests\n")
	return root
}

func run(t *testing.T, root string, mutate func(*config.Config)) *Result {
	t.Helper()
	cfg := config.Default()
	cfg.ProjectRoot = root
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())

	result, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	return result
}

func TestRunFindsCycle(t *testing.T) {
	result := run(t, pythonProject(t), nil)

	assert.Equal(t, []string{"python"}, result.TechStacks)
	assert.Equal(t, 4, result.FileCount)
	assert.Equal(t, 4, result.Graph.NodeCount())

	require.Len(t, result.Cycles, 1)
	assert.Equal(t, []string{"app.auth", "app.db"}, result.Cycles[0].Members)
	assert.Equal(t, graph.KindMutual, result.Cycles[0].Kind)

	// os is stdlib, requests is an unresolved third-party import.
	assert.Equal(t, 1, result.Unresolved)
	assert.False(t, result.EmptyProject)
}

func TestRunSurvivesBrokenFile(t *testing.T) {
	root := pythonProject(t)
	write(t, root, "app/broken.py", "def broken(:\n    pass\n")

	result := run(t, root, nil)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, parser.DiagParseError, result.Diagnostics[0].Kind)
	assert.Equal(t, 1, result.Summary().ParseErrors)

	// The rest of the project still analyzes fully.
	require.Len(t, result.Cycles, 1)
	assert.Equal(t, []string{"app.auth", "app.db"}, result.Cycles[0].Members)
	assert.True(t, result.Graph.HasNode("app.broken"))
}

func TestRunEmptyProject(t *testing.T) {
	result := run(t, t.TempDir(), nil)

	assert.True(t, result.EmptyProject)
	assert.Equal(t, 0, result.Graph.NodeCount())
	assert.Empty(t, result.Cycles)
	assert.Empty(t, result.GodModules)
}

func TestRunDeterministic(t *testing.T) {
	root := pythonProject(t)

	first := run(t, root, nil)
	second := run(t, root, nil)

	assert.Equal(t, first.Graph.Nodes(), second.Graph.Nodes())
	assert.Equal(t, first.Graph.Edges(), second.Graph.Edges())
	assert.Equal(t, first.Cycles, second.Cycles)
	assert.Equal(t, first.GodModules, second.GodModules)
}

func TestRunLayerViolations(t *testing.T) {
	root := t.TempDir()
	write(t, root, "app/__init__.py", "")
	write(t, root, "app/domain/__init__.py", "")
	write(t, root, "app/domain/user.py", "from app.infra import db\n")
	write(t, root, "app/infra/__init__.py", "")
	write(t, root, "app/infra/db.py", "")

	result := run(t, root, func(cfg *config.Config) {
		cfg.Layers = config.Layers{
			Enabled: true,
			Layers: []config.Layer{
				{Name: "domain", Patterns: []string{"app/domain"}},
				{Name: "infra", Patterns: []string{"app/infra"}},
			},
			Rules: []config.LayerRule{
				{Name: "domain-is-pure", From: "domain", Allow: []string{"domain"}},
			},
		}
	})

	require.Len(t, result.Violations, 1)
	v := result.Violations[0]
	assert.Equal(t, "domain-is-pure", v.RuleName)
	assert.Equal(t, "app.domain.user", v.FromModule)
	assert.Equal(t, "infra", v.ToLayer)
}

func TestRunJavaScriptProject(t *testing.T) {
	root := t.TempDir()
	write(t, root, "package.json", "{\"name\": \"demo\"}\n")
	write(t, root, "src/app.js", "import { q } from './queries.js';\nimport fs from 'fs';\n")
	write(t, root, "src/queries.js", "const { render } = require('./app.js');\n")
	write(t, root, "src/standalone.js", "")

	result := run(t, root, nil)

	assert.Equal(t, []string{"javascript"}, result.TechStacks)
	assert.Equal(t, 2, result.Graph.EdgeCount())

	require.Len(t, result.Cycles, 1)
	assert.Equal(t, []string{"src/app", "src/queries"}, result.Cycles[0].Members)
}

func TestRunFlagsComplexityHotspots(t *testing.T) {
	root := t.TempDir()
	write(t, root, "app/__init__.py", "")
	write(t, root, "app/metrics.py", `
def heavy(items):
    for item in items:
        if item:
            pass
        elif item is None:
            pass
    assert items

def dense(a, b, c):
    if a and b and c:
        return True
    return False

def trivial():
    return 0
`)

	result := run(t, root, func(cfg *config.Config) {
		cfg.Analysis.ComplexityThreshold = 3
	})

	// heavy scores 5 (for, if, elif, assert), dense 4 (if plus two boolean
	// operators), trivial 1.
	require.Len(t, result.Hotspots, 2)
	assert.Equal(t, "heavy", result.Hotspots[0].Function)
	assert.Equal(t, "app.metrics", result.Hotspots[0].Module)
	assert.Equal(t, 5, result.Hotspots[0].Score)
	assert.Equal(t, "dense", result.Hotspots[1].Function)
	assert.Equal(t, 4, result.Hotspots[1].Score)
	assert.Equal(t, 2, result.Summary().Hotspots)

	// The default threshold of 10 flags none of these.
	quiet := run(t, root, nil)
	assert.Empty(t, quiet.Hotspots)
}

func TestRunGoProject(t *testing.T) {
	root := t.TempDir()
	write(t, root, "go.mod", "module example.com/demo\n\ngo 1.24\n")
	write(t, root, "main.go", `package main

import (
	"fmt"

	"example.com/demo/internal/auth"
)

func main() { fmt.Println(auth.Name) }
`)
	write(t, root, "internal/auth/auth.go", "package auth\n\nconst Name = \"auth\"\n")

	result := run(t, root, nil)

	assert.True(t, result.Graph.HasNode("example.com/demo"))
	assert.True(t, result.Graph.HasNode("example.com/demo/internal/auth"))
	assert.Equal(t, 1, result.Graph.EdgeCount())
	assert.Empty(t, result.Cycles)
}
