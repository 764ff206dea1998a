package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"depscan/internal/parser"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPythonResolver_ModuleName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "__init__.py"), "")
	writeFile(t, filepath.Join(root, "pkg", "sub", "__init__.py"), "")
	writeFile(t, filepath.Join(root, "pkg", "sub", "mod.py"), "")
	writeFile(t, filepath.Join(root, "scripts", "tool.py"), "")

	r := NewPythonResolver(root)

	if got := r.ModuleName(filepath.Join(root, "pkg", "sub", "mod.py")); got != "pkg.sub.mod" {
		t.Errorf("expected pkg.sub.mod, got %q", got)
	}
	if got := r.ModuleName(filepath.Join(root, "pkg", "sub", "__init__.py")); got != "pkg.sub" {
		t.Errorf("expected pkg.sub, got %q", got)
	}
	// scripts has no __init__.py, so the prefix is stripped.
	if got := r.ModuleName(filepath.Join(root, "scripts", "tool.py")); got != "tool" {
		t.Errorf("expected tool, got %q", got)
	}
}

func TestPythonResolver_ResolveImport(t *testing.T) {
	r := NewPythonResolver(t.TempDir())
	known := map[string]bool{
		"pkg":         true,
		"pkg.auth":    true,
		"pkg.db":      true,
		"pkg.db.conn": true,
	}

	// Absolute import of a known module.
	if id, ok := r.ResolveImport("pkg.api", parser.Import{Target: "pkg.auth"}, known); !ok || id != "pkg.auth" {
		t.Errorf("expected pkg.auth, got %q ok=%v", id, ok)
	}

	// from pkg.db import conn -> the item is itself a module.
	if id, ok := r.ResolveImport("pkg.api", parser.Import{Target: "pkg.db", Items: []string{"conn"}}, known); !ok || id != "pkg.db.conn" {
		t.Errorf("expected pkg.db.conn, got %q ok=%v", id, ok)
	}

	// Deep absolute target falls back to the longest known prefix.
	if id, ok := r.ResolveImport("pkg.api", parser.Import{Target: "pkg.auth.tokens.jwt"}, known); !ok || id != "pkg.auth" {
		t.Errorf("expected prefix fallback to pkg.auth, got %q ok=%v", id, ok)
	}

	// Relative: from . import db inside pkg.api resolves under pkg.
	if id, ok := r.ResolveImport("pkg.api", parser.Import{RelativeLevel: 1, Items: []string{"db"}}, known); !ok || id != "pkg.db" {
		t.Errorf("expected pkg.db, got %q ok=%v", id, ok)
	}

	// Relative: from ..auth import login inside pkg.db.conn.
	if id, ok := r.ResolveImport("pkg.db.conn", parser.Import{Target: "auth", RelativeLevel: 2, Items: []string{"login"}}, known); !ok || id != "pkg.auth" {
		t.Errorf("expected pkg.auth, got %q ok=%v", id, ok)
	}

	// Stdlib and unknown imports do not resolve.
	if _, ok := r.ResolveImport("pkg.api", parser.Import{Target: "os.path"}, known); ok {
		t.Error("os.path must not resolve internally")
	}
	if _, ok := r.ResolveImport("pkg.api", parser.Import{Target: "requests"}, known); ok {
		t.Error("requests must not resolve internally")
	}
}

func TestGoResolver(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/demo\n\ngo 1.24\n")
	writeFile(t, filepath.Join(root, "internal", "auth", "auth.go"), "package auth\n")

	r := NewGoResolver()
	if err := r.FindGoMod(filepath.Join(root, "internal", "auth", "auth.go")); err != nil {
		t.Fatal(err)
	}

	if r.ModulePath() != "example.com/demo" {
		t.Errorf("expected example.com/demo, got %q", r.ModulePath())
	}
	if got := r.ModuleName(filepath.Join(root, "internal", "auth", "auth.go")); got != "example.com/demo/internal/auth" {
		t.Errorf("unexpected module name %q", got)
	}

	known := map[string]bool{"example.com/demo/internal/auth": true}
	if id, ok := r.ResolveImport("example.com/demo/cmd", parser.Import{Target: "example.com/demo/internal/auth"}, known); !ok || id != "example.com/demo/internal/auth" {
		t.Errorf("expected internal resolve, got %q ok=%v", id, ok)
	}
	if _, ok := r.ResolveImport("example.com/demo/cmd", parser.Import{Target: "fmt"}, known); ok {
		t.Error("fmt must not resolve internally")
	}
	if _, ok := r.ResolveImport("example.com/demo/cmd", parser.Import{Target: "github.com/other/pkg"}, known); ok {
		t.Error("foreign module path must not resolve internally")
	}
}

func TestGoResolver_NoGoMod(t *testing.T) {
	r := NewGoResolver()
	if err := r.FindGoMod(t.TempDir()); err == nil {
		t.Fatal("expected error when no go.mod exists")
	}
}

func TestJavaScriptResolver(t *testing.T) {
	r := NewJavaScriptResolver("/proj")
	known := map[string]bool{
		"src/util":   true,
		"src/app":    true,
		"src/views":  true, // src/views/index.js
		"src/deep/x": true,
	}

	if got := r.ModuleName("/proj/src/util.js"); got != "src/util" {
		t.Errorf("expected src/util, got %q", got)
	}
	if got := r.ModuleName("/proj/src/views/index.js"); got != "src/views" {
		t.Errorf("expected src/views, got %q", got)
	}

	if id, ok := r.ResolveImport("src/app", parser.Import{Target: "./util"}, known); !ok || id != "src/util" {
		t.Errorf("expected src/util, got %q ok=%v", id, ok)
	}
	// ESM code spells relative imports with the extension.
	if id, ok := r.ResolveImport("src/app", parser.Import{Target: "./util.js"}, known); !ok || id != "src/util" {
		t.Errorf("expected src/util for ./util.js, got %q ok=%v", id, ok)
	}
	if id, ok := r.ResolveImport("src/deep/x", parser.Import{Target: "../views/index.mjs"}, known); !ok || id != "src/views" {
		t.Errorf("expected src/views for ../views/index.mjs, got %q ok=%v", id, ok)
	}
	if id, ok := r.ResolveImport("src/deep/x", parser.Import{Target: "../views"}, known); !ok || id != "src/views" {
		t.Errorf("expected src/views, got %q ok=%v", id, ok)
	}
	if _, ok := r.ResolveImport("src/app", parser.Import{Target: "lodash"}, known); ok {
		t.Error("bare specifier must not resolve internally")
	}
	if _, ok := r.ResolveImport("src/app", parser.Import{Target: "../../outside"}, known); ok {
		t.Error("escape above project root must not resolve")
	}
}

func TestIsStdlib(t *testing.T) {
	cases := []struct {
		lang, target string
		want         bool
	}{
		{"python", "os", true},
		{"python", "os.path", true},
		{"python", "__future__", true},
		{"python", "contextvars", true},
		{"python", "zoneinfo", true},
		{"python", "requests", false},
		{"go", "fmt", true},
		{"go", "log/slog", true},
		{"go", "github.com/gobwas/glob", false},
		{"javascript", "fs", true},
		{"javascript", "node:path", true},
		{"javascript", "lodash", false},
	}
	for _, c := range cases {
		if got := IsStdlib(c.lang, c.target); got != c.want {
			t.Errorf("IsStdlib(%s, %s) = %v, want %v", c.lang, c.target, got, c.want)
		}
	}
}
