package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"depscan/internal/parser"
)

// PythonResolver maps python files to dotted module ids and normalizes import
// targets against the importing module's package path.
type PythonResolver struct {
	projectRoot string
}

func NewPythonResolver(projectRoot string) *PythonResolver {
	return &PythonResolver{projectRoot: projectRoot}
}

func (r *PythonResolver) ModuleName(filePath string) string {
	rel, err := filepath.Rel(r.projectRoot, filePath)
	if err != nil {
		return ""
	}

	parts := strings.Split(rel, string(os.PathSeparator))

	// Skip leading directories that are not packages (no __init__.py).
	packageStart := 0
	for i := 0; i < len(parts)-1; i++ {
		checkPath := filepath.Join(r.projectRoot, filepath.Join(parts[:i+1]...), "__init__.py")
		if _, err := os.Stat(checkPath); os.IsNotExist(err) {
			packageStart = i + 1
		} else {
			break
		}
	}

	parts = parts[packageStart:]
	parts[len(parts)-1] = strings.TrimSuffix(parts[len(parts)-1], ".py")

	if parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}

	return strings.Join(parts, ".")
}

// ResolveImport turns one raw import into candidate internal module ids and
// returns the first candidate present in known. Relative imports are rebased
// onto fromModule's package path first. A (candidate, false) result means the
// import is external or unresolvable and contributes no edge.
func (r *PythonResolver) ResolveImport(fromModule string, imp parser.Import, known map[string]bool) (string, bool) {
	base := imp.Target
	if imp.RelativeLevel > 0 {
		base = r.rebaseRelative(fromModule, imp.Target, imp.RelativeLevel)
		if base == "" && len(imp.Items) == 0 {
			return "", false
		}
	}

	for _, candidate := range pythonCandidates(base, imp.Items) {
		if known[candidate] {
			return candidate, true
		}
	}
	return "", false
}

// rebaseRelative resolves "from ..pkg import x" against the importing module.
// Level 1 is the current package, each extra dot climbs one package.
func (r *PythonResolver) rebaseRelative(fromModule, target string, level int) string {
	parts := strings.Split(fromModule, ".")
	if level > len(parts) {
		return target
	}

	base := strings.Join(parts[:len(parts)-level], ".")
	if target == "" {
		return base
	}
	if base == "" {
		return target
	}
	return base + "." + target
}

// pythonCandidates orders resolution attempts: target.item for each imported
// item (items may themselves be modules), then the exact target, then
// successively shorter prefixes of the target.
func pythonCandidates(base string, items []string) []string {
	var out []string

	if base != "" {
		for _, item := range items {
			out = append(out, base+"."+item)
		}
		out = append(out, base)

		parts := strings.Split(base, ".")
		for i := len(parts) - 1; i > 0; i-- {
			out = append(out, strings.Join(parts[:i], "."))
		}
	} else {
		for _, item := range items {
			out = append(out, item)
		}
	}

	return out
}
