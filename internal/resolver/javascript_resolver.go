package resolver

import (
	"path"
	"path/filepath"
	"strings"

	"depscan/internal/parser"
)

// JavaScriptResolver uses project-relative slash paths without extensions as
// module ids ("src/util", "src/widgets/index" collapses to "src/widgets").
// Only relative specifiers can be internal; bare specifiers are packages.
type JavaScriptResolver struct {
	projectRoot string
}

func NewJavaScriptResolver(projectRoot string) *JavaScriptResolver {
	return &JavaScriptResolver{projectRoot: projectRoot}
}

func (r *JavaScriptResolver) ModuleName(filePath string) string {
	rel, err := filepath.Rel(r.projectRoot, filePath)
	if err != nil {
		return ""
	}

	id := filepath.ToSlash(rel)
	id = strings.TrimSuffix(id, filepath.Ext(id))
	id = strings.TrimSuffix(id, "/index")
	return id
}

func (r *JavaScriptResolver) ResolveImport(fromModule string, imp parser.Import, known map[string]bool) (string, bool) {
	if !strings.HasPrefix(imp.Target, "./") && !strings.HasPrefix(imp.Target, "../") {
		return "", false
	}

	// ESM relative specifiers carry the extension; ids never do.
	target := imp.Target
	switch path.Ext(target) {
	case ".js", ".mjs", ".cjs":
		target = strings.TrimSuffix(target, path.Ext(target))
	}

	fromDir := path.Dir(fromModule)
	resolved := path.Clean(path.Join(fromDir, target))
	if resolved == "." || strings.HasPrefix(resolved, "..") {
		return "", false
	}
	// Mirror the "/index" collapse ModuleName applies to defining files.
	resolved = strings.TrimSuffix(resolved, "/index")

	if known[resolved] {
		return resolved, true
	}
	return "", false
}
