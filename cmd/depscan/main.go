package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"depscan/internal/analyzer"
	"depscan/internal/config"
	"depscan/internal/history"
	"depscan/internal/observability"
	"depscan/internal/output"
	"depscan/internal/report"
	"depscan/internal/watcher"
)

var (
	configPath  = flag.String("config", "./depscan.toml", "Path to config file")
	threshold   = flag.Float64("threshold", -1, "God-module threshold override (0..1)")
	watch       = flag.Bool("watch", false, "Stay resident and re-analyze on change")
	jsonPath    = flag.String("json", "", "Write raw analysis JSON to this path")
	dotPath     = flag.String("dot", "", "Write Graphviz DOT graph to this path")
	mermaidPath = flag.String("mermaid", "", "Write Mermaid flowchart to this path")
	reportPath  = flag.String("report", "", "Write Markdown report to this path")
	historyPath = flag.String("history", "", "SQLite snapshot database path")
	metricsAddr = flag.String("metrics-addr", "", "Serve Prometheus /metrics on this address while watching")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	version     = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

const (
	exitClean = 0
	exitFound = 1
	exitFatal = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if *version {
		fmt.Printf("depscan v%s\n", VERSION)
		return exitClean
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return exitFatal
	}
	applyFlagOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		return exitFatal
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := observability.InitTracing(ctx, cfg.Tracing.Endpoint)
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		return exitFatal
	}
	defer shutdown(context.Background())

	var store *history.Store
	if cfg.History.Path != "" {
		store, err = history.Open(cfg.History.Path, cfg.History.Keep)
		if err != nil {
			slog.Error("failed to open history store", "error", err)
			return exitFatal
		}
		defer store.Close()
	}

	a := analyzer.New(cfg)

	result, err := runOnce(ctx, a, cfg, store)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		return exitFatal
	}

	if !*watch {
		if len(result.Cycles) > 0 {
			return exitFound
		}
		return exitClean
	}

	if cfg.Watch.MetricsAddr != "" {
		go serveMetrics(cfg.Watch.MetricsAddr)
	}

	w, err := watcher.New(cfg.ProjectRoot, cfg.Watch.Debounce, cfg.Watch.MaxPerMin, cfg.Exclude.Dirs,
		func(ctx context.Context) {
			if _, err := runOnce(ctx, a, cfg, store); err != nil {
				slog.Error("re-analysis failed", "error", err)
			}
		})
	if err != nil {
		slog.Error("failed to start watcher", "error", err)
		return exitFatal
	}

	slog.Info("watching for changes", "root", cfg.ProjectRoot)
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("watcher stopped", "error", err)
		return exitFatal
	}
	return exitClean
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err == nil {
		return cfg, nil
	}
	// A missing config at the default location is not an error.
	if os.IsNotExist(err) && *configPath == "./depscan.toml" {
		return config.Default(), nil
	}
	return nil, err
}

func applyFlagOverrides(cfg *config.Config) {
	if flag.NArg() > 0 {
		cfg.ProjectRoot = flag.Arg(0)
	}
	if *threshold >= 0 {
		cfg.Analysis.GodModuleThreshold = *threshold
	}
	if *jsonPath != "" {
		cfg.Output.JSON = *jsonPath
	}
	if *dotPath != "" {
		cfg.Output.DOT = *dotPath
	}
	if *mermaidPath != "" {
		cfg.Output.Mermaid = *mermaidPath
	}
	if *reportPath != "" {
		cfg.Output.Report = *reportPath
	}
	if *historyPath != "" {
		cfg.History.Path = *historyPath
	}
	if *metricsAddr != "" {
		cfg.Watch.MetricsAddr = *metricsAddr
	}
}

func runOnce(ctx context.Context, a *analyzer.Analyzer, cfg *config.Config, store *history.Store) (*analyzer.Result, error) {
	result, err := a.Run(ctx)
	if err != nil {
		return nil, err
	}

	if err := writeArtifacts(result, cfg); err != nil {
		slog.Error("failed to write outputs", "error", err)
	}

	if store != nil {
		if err := store.Record(result); err != nil {
			slog.Error("failed to record history snapshot", "error", err)
		}
	}

	printSummary(result)
	return result, nil
}

func writeArtifacts(result *analyzer.Result, cfg *config.Config) error {
	if cfg.Output.DOT != "" {
		dot, err := output.NewDOTGenerator(result).Generate()
		if err != nil {
			return fmt.Errorf("generate dot: %w", err)
		}
		if err := os.WriteFile(cfg.Output.DOT, []byte(dot), 0o644); err != nil {
			return fmt.Errorf("write dot: %w", err)
		}
	}

	if cfg.Output.Mermaid != "" {
		mmd, err := output.NewMermaidGenerator(result).Generate()
		if err != nil {
			return fmt.Errorf("generate mermaid: %w", err)
		}
		if err := os.WriteFile(cfg.Output.Mermaid, []byte(mmd), 0o644); err != nil {
			return fmt.Errorf("write mermaid: %w", err)
		}
	}

	if cfg.Output.JSON != "" {
		data, err := output.GenerateJSON(result)
		if err != nil {
			return fmt.Errorf("generate json: %w", err)
		}
		if err := os.WriteFile(cfg.Output.JSON, data, 0o644); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	}

	if cfg.Output.Report != "" {
		md := report.Generate(result)
		if err := os.WriteFile(cfg.Output.Report, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	slog.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("metrics server stopped", "error", err)
	}
}
