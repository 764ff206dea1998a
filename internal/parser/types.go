package parser

// File is the parsed view of one source file: where it lives, which language
// it is, and every import statement found in it. Module ids are assigned later
// by the resolver; the extractor only records raw targets.
type File struct {
	Path        string
	Language    string
	Module      string // canonical module id, filled in by the resolver
	PackageName string // local package/module name, if the language has one
	Imports     []Import
	Definitions []Definition
}

// Import is one raw import statement. Target is exactly what the source says
// ("os.path", "fmt", "./util"); normalization against the importing module
// happens in the resolver.
type Import struct {
	Target        string
	Alias         string
	Items         []string // for "from X import a, b"
	RelativeLevel int      // Python: number of leading dots, 0 = absolute
	Location      Location
}

// Definition is a top-level named declaration. The dependency graph does not
// need definitions; the complexity hotspot check and report labels use them.
type Definition struct {
	Name       string
	Kind       DefinitionKind
	Exported   bool
	Complexity int // simplified cyclomatic score, decision points + 1
	Location   Location
}

type DefinitionKind int

const (
	KindFunction DefinitionKind = iota
	KindClass
	KindType
	KindInterface
)

type Location struct {
	File   string
	Line   int
	Column int
}

// DiagnosticKind classifies per-file problems the run recovered from.
type DiagnosticKind int

const (
	DiagParseError DiagnosticKind = iota
	DiagUnreadable
	DiagUnsupported
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagParseError:
		return "parse-error"
	case DiagUnreadable:
		return "unreadable"
	case DiagUnsupported:
		return "unsupported"
	}
	return "unknown"
}

// Diagnostic records a file that could not be fully analyzed. The run never
// aborts on these; they surface in the report and the summary.
type Diagnostic struct {
	Path   string
	Kind   DiagnosticKind
	Detail string
}
