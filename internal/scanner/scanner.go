package scanner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

var extensions = map[string]string{
	".py":  "python",
	".go":  "go",
	".js":  "javascript",
	".mjs": "javascript",
	".cjs": "javascript",
}

// Scanner walks a project tree and yields the source files the analysis
// should look at, with exclude globs applied before anything else sees a path.
type Scanner struct {
	root      string
	languages map[string]bool
	dirGlobs  []glob.Glob
	fileGlobs []glob.Glob
}

func New(root string, languages, excludeDirs, excludeFiles []string) (*Scanner, error) {
	s := &Scanner{
		root:      root,
		languages: make(map[string]bool, len(languages)),
	}
	for _, lang := range languages {
		s.languages[lang] = true
	}

	for _, pattern := range excludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("exclude dir pattern %q: %w", pattern, err)
		}
		s.dirGlobs = append(s.dirGlobs, g)
	}
	for _, pattern := range excludeFiles {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("exclude file pattern %q: %w", pattern, err)
		}
		s.fileGlobs = append(s.fileGlobs, g)
	}

	return s, nil
}

// Scan returns the absolute paths of all source files under the root, sorted.
// Unreadable directories are logged and skipped.
func (s *Scanner) Scan() ([]string, error) {
	var files []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path != s.root && s.excludedDir(name) {
				return filepath.SkipDir
			}
			return nil
		}

		lang, ok := extensions[strings.ToLower(filepath.Ext(name))]
		if !ok || !s.languages[lang] {
			return nil
		}
		if s.excludedFile(name) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.root, err)
	}

	sort.Strings(files)
	return files, nil
}

func (s *Scanner) excludedDir(name string) bool {
	for _, g := range s.dirGlobs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (s *Scanner) excludedFile(name string) bool {
	for _, g := range s.fileGlobs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// LanguageOf reports the analysis language for a path, if any.
func LanguageOf(path string) (string, bool) {
	lang, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

var stackMarkers = []struct {
	file  string
	stack string
}{
	{"requirements.txt", "python"},
	{"setup.py", "python"},
	{"pyproject.toml", "python"},
	{"Pipfile", "python"},
	{"go.mod", "go"},
	{"package.json", "javascript"},
	{"tsconfig.json", "typescript"},
}

// DetectTechStack inspects well-known marker files at the project root and
// reports the stacks present, sorted and deduplicated.
func DetectTechStack(root string) []string {
	seen := make(map[string]bool)
	for _, marker := range stackMarkers {
		if _, err := os.Stat(filepath.Join(root, marker.file)); err == nil {
			seen[marker.stack] = true
		}
	}

	stacks := make([]string, 0, len(seen))
	for stack := range seen {
		stacks = append(stacks, stack)
	}
	sort.Strings(stacks)
	return stacks
}
