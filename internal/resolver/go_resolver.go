package resolver

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"depscan/internal/parser"
)

var goModuleRe = regexp.MustCompile(`(?m)^module\s+(\S+)`)

// GoResolver names go files after their enclosing go.mod module path plus the
// package directory, the same id form the import paths use.
type GoResolver struct {
	goModPath  string
	modulePath string
	moduleRoot string
}

func NewGoResolver() *GoResolver {
	return &GoResolver{}
}

// FindGoMod walks upward from startPath until a go.mod is found.
func (r *GoResolver) FindGoMod(startPath string) error {
	current := startPath
	if info, err := os.Stat(startPath); err != nil || !info.IsDir() {
		current = filepath.Dir(startPath)
	}

	for {
		modPath := filepath.Join(current, "go.mod")
		if _, err := os.Stat(modPath); err == nil {
			r.goModPath = modPath
			r.moduleRoot = current
			return r.parseGoMod()
		}

		parent := filepath.Dir(current)
		if parent == current {
			return errors.New("no go.mod found")
		}
		current = parent
	}
}

func (r *GoResolver) parseGoMod() error {
	data, err := os.ReadFile(r.goModPath)
	if err != nil {
		return err
	}

	matches := goModuleRe.FindSubmatch(data)
	if len(matches) < 2 {
		return errors.New("go.mod has no module directive")
	}
	r.modulePath = string(matches[1])
	return nil
}

func (r *GoResolver) ModuleRoot() string { return r.moduleRoot }
func (r *GoResolver) ModulePath() string { return r.modulePath }

func (r *GoResolver) ModuleName(filePath string) string {
	rel, err := filepath.Rel(r.moduleRoot, filePath)
	if err != nil {
		return ""
	}

	dir := filepath.Dir(rel)
	if dir == "." {
		return r.modulePath
	}
	return r.modulePath + "/" + filepath.ToSlash(dir)
}

// ResolveImport: a go import is internal exactly when its path sits under the
// project's module path and names a known package.
func (r *GoResolver) ResolveImport(fromModule string, imp parser.Import, known map[string]bool) (string, bool) {
	if r.modulePath == "" || !strings.HasPrefix(imp.Target, r.modulePath) {
		return "", false
	}
	if known[imp.Target] {
		return imp.Target, true
	}
	return "", false
}
