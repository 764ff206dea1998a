package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ProjectRoot string   `toml:"project_root"`
	Languages   []string `toml:"languages"`

	Exclude  Exclude  `toml:"exclude"`
	Analysis Analysis `toml:"analysis"`
	Layers   Layers   `toml:"layers"`
	Watch    Watch    `toml:"watch"`
	Output   Output   `toml:"output"`
	History  History  `toml:"history"`
	Tracing  Tracing  `toml:"tracing"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Analysis struct {
	GodModuleThreshold  float64 `toml:"god_module_threshold"`
	ComplexityThreshold int     `toml:"complexity_threshold"`
}

type Layers struct {
	Enabled bool        `toml:"enabled"`
	Layers  []Layer     `toml:"layer"`
	Rules   []LayerRule `toml:"rule"`
}

type Layer struct {
	Name     string   `toml:"name"`
	Patterns []string `toml:"patterns"`
}

type LayerRule struct {
	Name  string   `toml:"name"`
	From  string   `toml:"from"`
	Allow []string `toml:"allow"`
}

type Watch struct {
	Debounce    time.Duration `toml:"debounce"`
	MaxPerMin   int           `toml:"max_runs_per_minute"`
	MetricsAddr string        `toml:"metrics_addr"`
}

type Output struct {
	DOT     string `toml:"dot"`
	Mermaid string `toml:"mermaid"`
	JSON    string `toml:"json"`
	Report  string `toml:"report"`
}

type History struct {
	Path string `toml:"path"`
	Keep int    `toml:"keep"`
}

type Tracing struct {
	Endpoint string `toml:"endpoint"`
}

// Default returns the configuration used when no depscan.toml exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a TOML config file and applies defaults for anything unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ProjectRoot == "" {
		c.ProjectRoot = "."
	}
	if len(c.Languages) == 0 {
		c.Languages = []string{"python", "go", "javascript"}
	}
	if len(c.Exclude.Dirs) == 0 {
		c.Exclude.Dirs = []string{
			".git", "node_modules", "vendor", "venv", ".venv",
			"__pycache__", "dist", "build", ".tox",
		}
	}
	if c.Analysis.GodModuleThreshold == 0 {
		c.Analysis.GodModuleThreshold = 0.30
	}
	if c.Analysis.ComplexityThreshold == 0 {
		c.Analysis.ComplexityThreshold = 10
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = 500 * time.Millisecond
	}
	if c.Watch.MaxPerMin == 0 {
		c.Watch.MaxPerMin = 30
	}
	if c.History.Keep == 0 {
		c.History.Keep = 500
	}
}

// Validate rejects settings the analysis cannot run with. Called once before
// any work starts; a failure here is fatal.
func (c *Config) Validate() error {
	t := c.Analysis.GodModuleThreshold
	if t < 0 || t > 1 {
		return fmt.Errorf("god_module_threshold must be within [0, 1], got %v", t)
	}
	if c.Analysis.ComplexityThreshold < 1 {
		return fmt.Errorf("complexity_threshold must be at least 1, got %d", c.Analysis.ComplexityThreshold)
	}

	known := map[string]bool{"python": true, "go": true, "javascript": true}
	for _, lang := range c.Languages {
		if !known[lang] {
			return fmt.Errorf("unsupported language %q", lang)
		}
	}

	layerNames := make(map[string]bool, len(c.Layers.Layers))
	for _, l := range c.Layers.Layers {
		if l.Name == "" {
			return fmt.Errorf("layer with empty name")
		}
		if layerNames[l.Name] {
			return fmt.Errorf("duplicate layer %q", l.Name)
		}
		layerNames[l.Name] = true
	}
	for _, r := range c.Layers.Rules {
		if !layerNames[r.From] {
			return fmt.Errorf("layer rule %q references unknown layer %q", r.Name, r.From)
		}
		for _, target := range r.Allow {
			if !layerNames[target] {
				return fmt.Errorf("layer rule %q allows unknown layer %q", r.Name, target)
			}
		}
	}

	return nil
}
