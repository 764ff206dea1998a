package resolver

import "depscan/internal/parser"

// ImportResolver is the per-language resolution capability: name a file's
// module, and map one raw import onto a known internal module id. Anything it
// cannot map is external (or unresolvable) and is dropped from the graph.
type ImportResolver interface {
	ModuleName(filePath string) string
	ResolveImport(fromModule string, imp parser.Import, known map[string]bool) (string, bool)
}

// ImportClass distinguishes dropped imports for the run summary. The graph
// itself only cares about internal targets.
type ImportClass int

const (
	ClassInternal ImportClass = iota
	ClassStdlib
	ClassThirdParty
)

func (c ImportClass) String() string {
	switch c {
	case ClassInternal:
		return "internal"
	case ClassStdlib:
		return "stdlib"
	case ClassThirdParty:
		return "third-party"
	}
	return "unknown"
}

// Classify buckets an import that did NOT resolve internally.
func Classify(language string, imp parser.Import) ImportClass {
	if IsStdlib(language, imp.Target) {
		return ClassStdlib
	}
	return ClassThirdParty
}
