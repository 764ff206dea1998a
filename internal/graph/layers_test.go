package graph

import (
	"testing"
)

func layerTestModel() LayerModel {
	return LayerModel{
		Enabled: true,
		Layers: []Layer{
			{Name: "domain", Patterns: []string{"app/domain"}},
			{Name: "infra", Patterns: []string{"app/infra/**"}},
			{Name: "api", Patterns: []string{"app/api"}},
		},
		Rules: []LayerRule{
			{Name: "domain-is-pure", From: "domain", Allow: []string{"domain"}},
			{Name: "api-skips-infra", From: "api", Allow: []string{"domain", "api"}},
		},
	}
}

func TestLayerEngine_Validate(t *testing.T) {
	b := NewBuilder()
	for _, id := range []string{"app.domain.user", "app.infra.db", "app.api.routes"} {
		b.AddModule(id)
	}
	b.AddImport("app.domain.user", "app.infra.db", "user.py", 4)
	b.AddImport("app.api.routes", "app.domain.user", "routes.py", 2)
	b.AddImport("app.api.routes", "app.infra.db", "routes.py", 3)
	g := b.Build()

	engine := NewLayerEngine(layerTestModel())
	violations := engine.Validate(g, nil)

	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %v", violations)
	}

	first := violations[0]
	if first.RuleName != "api-skips-infra" && first.RuleName != "domain-is-pure" {
		t.Errorf("unexpected rule %q", first.RuleName)
	}
	for _, v := range violations {
		if v.ToLayer != "infra" {
			t.Errorf("only infra targets should be flagged, got %+v", v)
		}
		if v.File == "" || v.Line == 0 {
			t.Errorf("violation must carry the import location, got %+v", v)
		}
	}
}

func TestLayerEngine_LongestPatternWins(t *testing.T) {
	model := LayerModel{
		Enabled: true,
		Layers: []Layer{
			{Name: "everything", Patterns: []string{"app"}},
			{Name: "storage", Patterns: []string{"app/storage"}},
		},
	}
	engine := NewLayerEngine(model)

	if got := engine.layerFor("app.storage.sqlite", ""); got != "storage" {
		t.Errorf("layerFor = %q, want storage", got)
	}
	if got := engine.layerFor("app.api", ""); got != "everything" {
		t.Errorf("layerFor = %q, want everything", got)
	}
}

func TestLayerEngine_PathFallback(t *testing.T) {
	model := LayerModel{
		Enabled: true,
		Layers:  []Layer{{Name: "scripts", Patterns: []string{"tools/**"}}},
	}
	engine := NewLayerEngine(model)

	// Module id gives no match but the sample path does.
	if got := engine.layerFor("cleanup", "tools/cleanup.py"); got != "scripts" {
		t.Errorf("layerFor = %q, want scripts", got)
	}
}

func TestLayerEngine_DisabledAndUnmatched(t *testing.T) {
	b := NewBuilder()
	b.AddModule("a")
	b.AddModule("b")
	b.AddImport("a", "b", "a.py", 1)
	g := b.Build()

	disabled := NewLayerEngine(LayerModel{Enabled: false})
	if v := disabled.Validate(g, nil); v != nil {
		t.Errorf("disabled engine must report nothing, got %v", v)
	}

	// Modules outside every layer never violate rules.
	engine := NewLayerEngine(layerTestModel())
	if v := engine.Validate(g, nil); len(v) != 0 {
		t.Errorf("unmatched modules must not violate, got %v", v)
	}
}
