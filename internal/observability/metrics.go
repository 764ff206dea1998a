package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "depscan_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	ParseErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depscan_parse_errors_total",
		Help: "Total number of files that failed to parse.",
	})

	FilesScanned = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depscan_files_scanned",
		Help: "Number of source files picked up by the last scan.",
	})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depscan_graph_nodes_total",
		Help: "Total number of nodes in the dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depscan_graph_edges_total",
		Help: "Total number of edges in the dependency graph.",
	})

	CycleGroups = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depscan_cycle_groups",
		Help: "Circular dependency groups found by the last analysis.",
	})

	GodModules = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depscan_god_modules",
		Help: "God modules flagged by the last analysis.",
	})

	ComplexityHotspots = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depscan_complexity_hotspots",
		Help: "Functions above the complexity threshold in the last analysis.",
	})

	UnresolvedImports = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depscan_unresolved_imports",
		Help: "Imports dropped as external or unresolvable in the last analysis.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "depscan_analysis_seconds",
		Help:    "Time spent on each analysis phase.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depscan_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	WatcherRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depscan_watcher_runs_total",
		Help: "Total number of re-analyses triggered by the watcher.",
	})
)
