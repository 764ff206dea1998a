package graph

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// LayerModel declares an intended layering: named layers matched by module id
// or path patterns, and per-layer rules listing which target layers that layer
// may import.
type LayerModel struct {
	Enabled bool
	Layers  []Layer
	Rules   []LayerRule
}

type Layer struct {
	Name     string
	Patterns []string
}

type LayerRule struct {
	Name  string
	From  string
	Allow []string
}

type LayerViolation struct {
	RuleName   string
	FromModule string
	FromLayer  string
	ToModule   string
	ToLayer    string
	File       string
	Line       int
}

func (v LayerViolation) String() string {
	return fmt.Sprintf("%s (%s -> %s): %s imports %s", v.RuleName, v.FromLayer, v.ToLayer, v.FromModule, v.ToModule)
}

type LayerEngine struct {
	enabled bool
	layers  []layerMatcher
	rules   map[string]ruleSet
}

type layerMatcher struct {
	name     string
	patterns []compiledPattern
}

type compiledPattern struct {
	raw        string
	isWildcard bool
	glob       glob.Glob
}

type ruleSet struct {
	name  string
	allow map[string]bool
}

func NewLayerEngine(model LayerModel) *LayerEngine {
	engine := &LayerEngine{
		enabled: model.Enabled,
		rules:   make(map[string]ruleSet),
	}

	for _, layer := range model.Layers {
		matcher := layerMatcher{name: layer.Name}
		for _, raw := range layer.Patterns {
			pattern := normalizeMatchPath(raw)
			cp := compiledPattern{
				raw:        pattern,
				isWildcard: strings.ContainsAny(pattern, "*?[]{}"),
			}
			if cp.isWildcard {
				g, err := glob.Compile(pattern, '/')
				if err != nil {
					continue
				}
				cp.glob = g
			}
			matcher.patterns = append(matcher.patterns, cp)
		}
		engine.layers = append(engine.layers, matcher)
	}

	for _, rule := range model.Rules {
		allow := make(map[string]bool, len(rule.Allow))
		for _, target := range rule.Allow {
			allow[target] = true
		}
		engine.rules[rule.From] = ruleSet{name: rule.Name, allow: allow}
	}

	return engine
}

// Validate checks every edge against the layer rules. modulePaths maps module
// ids to a representative source path, the second thing patterns can match.
func (e *LayerEngine) Validate(g *Graph, modulePaths map[string]string) []LayerViolation {
	if e == nil || !e.enabled {
		return nil
	}

	layerOf := make(map[string]string, g.NodeCount())
	for _, id := range g.Nodes() {
		layerOf[id] = e.layerFor(id, modulePaths[id])
	}

	var violations []LayerViolation
	for _, edge := range g.Edges() {
		fromLayer := layerOf[edge.From]
		rule, hasRule := e.rules[fromLayer]
		if !hasRule {
			continue
		}

		toLayer := layerOf[edge.To]
		if toLayer == "" || rule.allow[toLayer] {
			continue
		}

		violations = append(violations, LayerViolation{
			RuleName:   rule.name,
			FromModule: edge.From,
			FromLayer:  fromLayer,
			ToModule:   edge.To,
			ToLayer:    toLayer,
			File:       edge.File,
			Line:       edge.Line,
		})
	}

	return violations
}

// layerFor picks the layer whose longest pattern matches the module id or its
// representative path. Dots in module ids are treated as separators so python
// ids match path-style patterns.
func (e *LayerEngine) layerFor(moduleID, samplePath string) string {
	type candidate struct {
		layer string
		score int
	}

	modName := normalizeMatchPath(strings.ReplaceAll(moduleID, ".", "/"))
	sample := normalizeMatchPath(samplePath)

	var candidates []candidate
	for _, layer := range e.layers {
		best := 0
		for _, p := range layer.patterns {
			if matchPattern(p, modName, sample) {
				if l := len(p.raw); l > best {
					best = l
				}
			}
		}
		if best > 0 {
			candidates = append(candidates, candidate{layer: layer.name, score: best})
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score == candidates[j].score {
			return candidates[i].layer < candidates[j].layer
		}
		return candidates[i].score > candidates[j].score
	})
	return candidates[0].layer
}

func matchPattern(p compiledPattern, moduleName, samplePath string) bool {
	if p.isWildcard {
		if p.glob == nil {
			return false
		}
		if p.glob.Match(moduleName) {
			return true
		}
		return samplePath != "" && p.glob.Match(samplePath)
	}

	if hasPathPrefix(moduleName, p.raw) {
		return true
	}
	return samplePath != "" && hasPathPrefix(samplePath, p.raw)
}

func hasPathPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}

func normalizeMatchPath(s string) string {
	clean := filepath.ToSlash(filepath.Clean(strings.TrimSpace(s)))
	if clean == "." {
		return ""
	}
	return strings.TrimPrefix(clean, "./")
}
