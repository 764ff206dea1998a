package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"depscan/internal/config"
	"depscan/internal/graph"
	"depscan/internal/observability"
	"depscan/internal/parser"
	"depscan/internal/resolver"
	"depscan/internal/scanner"
)

// Result is everything one batch analysis produced. It is self-contained:
// output generators, the report, and the history store all read from here and
// never reach back into the engine.
type Result struct {
	RunID       string
	StartedAt   time.Time
	Duration    time.Duration
	ProjectRoot string
	TechStacks  []string
	FileCount   int

	Graph       *graph.Graph
	ModulePaths map[string]string
	Cycles      []graph.CycleGroup
	GodModules  []graph.GodModule
	Violations  []graph.LayerViolation
	Hotspots    []ComplexityHotspot
	Diagnostics []parser.Diagnostic

	Unresolved   int
	EmptyProject bool
}

// ComplexityHotspot is a function whose simplified cyclomatic score exceeds
// the configured threshold.
type ComplexityHotspot struct {
	Module   string
	Function string
	File     string
	Line     int
	Score    int
}

type Analyzer struct {
	cfg    *config.Config
	parser *parser.Parser
	layers *graph.LayerEngine
}

func New(cfg *config.Config) *Analyzer {
	loader := parser.NewGrammarLoader()

	p := parser.NewParser(loader)
	p.RegisterExtractor("python", &parser.PythonExtractor{})
	p.RegisterExtractor("go", &parser.GoExtractor{})
	p.RegisterExtractor("javascript", &parser.JavaScriptExtractor{})

	model := graph.LayerModel{Enabled: cfg.Layers.Enabled}
	for _, l := range cfg.Layers.Layers {
		model.Layers = append(model.Layers, graph.Layer{Name: l.Name, Patterns: l.Patterns})
	}
	for _, r := range cfg.Layers.Rules {
		model.Rules = append(model.Rules, graph.LayerRule{Name: r.Name, From: r.From, Allow: r.Allow})
	}

	return &Analyzer{
		cfg:    cfg,
		parser: p,
		layers: graph.NewLayerEngine(model),
	}
}

// Run executes one complete batch analysis: scan, parse, resolve, build,
// detect. Per-file failures become diagnostics; only setup-level problems
// return an error.
func (a *Analyzer) Run(ctx context.Context) (*Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "analysis.run")
	defer span.End()

	started := time.Now()
	result := &Result{
		RunID:       uuid.NewString(),
		StartedAt:   started,
		ProjectRoot: a.cfg.ProjectRoot,
		TechStacks:  scanner.DetectTechStack(a.cfg.ProjectRoot),
		ModulePaths: make(map[string]string),
	}

	paths, err := a.scanPhase(ctx)
	if err != nil {
		return nil, err
	}
	result.FileCount = len(paths)
	observability.FilesScanned.Set(float64(len(paths)))

	files, diagnostics := a.parsePhase(ctx, paths)
	result.Diagnostics = diagnostics

	a.buildPhase(ctx, files, result)
	a.detectPhase(ctx, result)

	result.Duration = time.Since(started)
	span.SetAttributes(
		attribute.Int("depscan.modules", result.Graph.NodeCount()),
		attribute.Int("depscan.cycles", len(result.Cycles)),
	)

	slog.Info("analysis complete",
		"run_id", result.RunID,
		"files", result.FileCount,
		"modules", result.Graph.NodeCount(),
		"edges", result.Graph.EdgeCount(),
		"cycles", len(result.Cycles),
		"god_modules", len(result.GodModules),
		"duration", result.Duration)

	return result, nil
}

func (a *Analyzer) scanPhase(ctx context.Context) ([]string, error) {
	_, span := observability.Tracer.Start(ctx, "analysis.scan")
	defer span.End()
	defer a.observePhase("scan")()

	s, err := scanner.New(a.cfg.ProjectRoot, a.cfg.Languages, a.cfg.Exclude.Dirs, a.cfg.Exclude.Files)
	if err != nil {
		return nil, err
	}
	return s.Scan()
}

type parseOutcome struct {
	file *parser.File
	diag *parser.Diagnostic
}

// parsePhase reads and parses all files on a bounded worker pool. Outcomes
// come back in submission order, and files are re-sorted by path afterwards
// so the graph build sees the same sequence on every run.
func (a *Analyzer) parsePhase(ctx context.Context, paths []string) ([]*parser.File, []parser.Diagnostic) {
	_, span := observability.Tracer.Start(ctx, "analysis.parse")
	defer span.End()
	defer a.observePhase("parse")()

	p := pool.NewWithResults[parseOutcome]().WithMaxGoroutines(2 * runtime.NumCPU())
	for _, path := range paths {
		p.Go(func() parseOutcome {
			return a.parseOne(path)
		})
	}
	outcomes := p.Wait()

	var files []*parser.File
	var diagnostics []parser.Diagnostic
	for _, out := range outcomes {
		if out.file != nil {
			files = append(files, out.file)
		}
		if out.diag != nil {
			diagnostics = append(diagnostics, *out.diag)
			observability.ParseErrorsTotal.Inc()
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	sort.Slice(diagnostics, func(i, j int) bool { return diagnostics[i].Path < diagnostics[j].Path })
	return files, diagnostics
}

func (a *Analyzer) parseOne(path string) parseOutcome {
	content, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("unreadable file skipped", "path", path, "error", err)
		return parseOutcome{diag: &parser.Diagnostic{
			Path:   path,
			Kind:   parser.DiagUnreadable,
			Detail: err.Error(),
		}}
	}

	lang, _ := scanner.LanguageOf(path)
	timer := time.Now()
	file, diag, err := a.parser.ParseFile(path, content)
	observability.ParsingDuration.WithLabelValues(lang).Observe(time.Since(timer).Seconds())

	if err != nil {
		slog.Warn("file could not be processed", "path", path, "error", err)
		return parseOutcome{diag: &parser.Diagnostic{
			Path:   path,
			Kind:   parser.DiagUnsupported,
			Detail: err.Error(),
		}}
	}
	if diag != nil {
		slog.Warn("syntax errors, imports skipped", "path", path)
	}
	return parseOutcome{file: file, diag: diag}
}

// buildPhase names every file's module, then resolves each import against the
// known module set and feeds the edges into the graph builder. Each language
// resolves strictly within its own resolver.
func (a *Analyzer) buildPhase(ctx context.Context, files []*parser.File, result *Result) {
	_, span := observability.Tracer.Start(ctx, "analysis.build")
	defer span.End()
	defer a.observePhase("build")()

	resolvers := map[string]resolver.ImportResolver{
		"python":     resolver.NewPythonResolver(a.cfg.ProjectRoot),
		"javascript": resolver.NewJavaScriptResolver(a.cfg.ProjectRoot),
	}

	goResolver := resolver.NewGoResolver()
	for _, f := range files {
		if f.Language == "go" {
			if err := goResolver.FindGoMod(f.Path); err != nil {
				slog.Warn("go files present but no go.mod found, treating as external", "error", err)
			} else {
				resolvers["go"] = goResolver
			}
			break
		}
	}

	known := make(map[string]map[string]bool, len(resolvers))
	builder := graph.NewBuilder()

	for _, f := range files {
		r, ok := resolvers[f.Language]
		if !ok {
			continue
		}
		id := r.ModuleName(f.Path)
		if id == "" {
			continue
		}
		f.Module = id
		builder.AddModule(id)
		if known[f.Language] == nil {
			known[f.Language] = make(map[string]bool)
		}
		known[f.Language][id] = true
		if _, exists := result.ModulePaths[id]; !exists {
			result.ModulePaths[id] = a.relPath(f.Path)
		}
	}

	for _, f := range files {
		r, ok := resolvers[f.Language]
		if !ok || f.Module == "" {
			continue
		}
		for _, def := range f.Definitions {
			if def.Kind == parser.KindFunction && def.Complexity > a.cfg.Analysis.ComplexityThreshold {
				result.Hotspots = append(result.Hotspots, ComplexityHotspot{
					Module:   f.Module,
					Function: def.Name,
					File:     a.relPath(def.Location.File),
					Line:     def.Location.Line,
					Score:    def.Complexity,
				})
			}
		}
		for _, imp := range f.Imports {
			target, ok := r.ResolveImport(f.Module, imp, known[f.Language])
			if !ok {
				if resolver.Classify(f.Language, imp) == resolver.ClassThirdParty {
					result.Unresolved++
				}
				continue
			}
			builder.AddImport(f.Module, target, a.relPath(imp.Location.File), imp.Location.Line)
		}
	}

	sort.Slice(result.Hotspots, func(i, j int) bool {
		hi, hj := result.Hotspots[i], result.Hotspots[j]
		if hi.Score != hj.Score {
			return hi.Score > hj.Score
		}
		if hi.Module != hj.Module {
			return hi.Module < hj.Module
		}
		return hi.Function < hj.Function
	})

	result.Graph = builder.Build()
	result.EmptyProject = result.Graph.NodeCount() == 0

	observability.GraphNodes.Set(float64(result.Graph.NodeCount()))
	observability.GraphEdges.Set(float64(result.Graph.EdgeCount()))
	observability.UnresolvedImports.Set(float64(result.Unresolved))

	if result.EmptyProject {
		slog.Info("no internal modules discovered", "root", a.cfg.ProjectRoot)
	}
}

func (a *Analyzer) detectPhase(ctx context.Context, result *Result) {
	_, span := observability.Tracer.Start(ctx, "analysis.detect")
	defer span.End()
	defer a.observePhase("detect")()

	result.Cycles = graph.FindCycles(result.Graph)
	result.GodModules = graph.DetectGodModules(result.Graph, a.cfg.Analysis.GodModuleThreshold)
	result.Violations = a.layers.Validate(result.Graph, result.ModulePaths)

	observability.CycleGroups.Set(float64(len(result.Cycles)))
	observability.GodModules.Set(float64(len(result.GodModules)))
	observability.ComplexityHotspots.Set(float64(len(result.Hotspots)))
}

func (a *Analyzer) observePhase(phase string) func() {
	start := time.Now()
	return func() {
		observability.AnalysisDuration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
	}
}

func (a *Analyzer) relPath(path string) string {
	rel, err := filepath.Rel(a.cfg.ProjectRoot, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// Summary is the one-line counts block used by logs, history and the report.
type Summary struct {
	Modules     int
	Edges       int
	Cycles      int
	GodModules  int
	Violations  int
	Hotspots    int
	ParseErrors int
	Unresolved  int
}

func (r *Result) Summary() Summary {
	parseErrors := 0
	for _, d := range r.Diagnostics {
		if d.Kind == parser.DiagParseError {
			parseErrors++
		}
	}
	return Summary{
		Modules:     r.Graph.NodeCount(),
		Edges:       r.Graph.EdgeCount(),
		Cycles:      len(r.Cycles),
		GodModules:  len(r.GodModules),
		Violations:  len(r.Violations),
		Hotspots:    len(r.Hotspots),
		ParseErrors: parseErrors,
		Unresolved:  r.Unresolved,
	}
}

func (r *Result) String() string {
	s := r.Summary()
	return fmt.Sprintf("%d modules, %d edges, %d cycle groups, %d god modules, %d violations",
		s.Modules, s.Edges, s.Cycles, s.GodModules, s.Violations)
}
