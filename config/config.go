// Package config loads simulation settings from embedded defaults and an
// optional YAML override file.
package config

import (
	_ "embed"
	"os"
	"runtime"

	"github.com/plus3/weaver/optimizer"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var ErrInvalid = eris.New("invalid config")

type Config struct {
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Graph     GraphConfig     `yaml:"graph"`
	Logging   LoggingConfig   `yaml:"logging"`
	Stress    StressConfig    `yaml:"stress"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

type SchedulerConfig struct {
	Parallelism int `yaml:"parallelism"` // 0 = GOMAXPROCS
}

// GraphConfig controls how small connected components are batched.
type GraphConfig struct {
	MinNodesPerGraph     int `yaml:"min_nodes_per_graph"`
	MaxCombinedGraphSize int `yaml:"max_combined_graph_size"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// StressConfig sizes the synthetic cluster of the stress command.
type StressConfig struct {
	Planets        int    `yaml:"planets"`
	Ticks          int    `yaml:"ticks"`
	Seed           int64  `yaml:"seed"`
	LinesPerPlanet int    `yaml:"lines_per_planet"` // production lines generated per planet
	CSV            string `yaml:"csv"`              // per-tick stage timings, empty disables
}

type DerivedConfig struct {
	Workers int
}

// Load reads the embedded defaults, then overlays path if it is not empty.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, eris.Wrap(err, "parsing embedded defaults")
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrap(err, "reading config file")
		}
		// Only fields present in the file are overwritten.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, eris.Wrap(err, "parsing config file")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Graph.MinNodesPerGraph <= 0:
		return eris.Wrapf(ErrInvalid, "graph.min_nodes_per_graph must be positive, got %d", c.Graph.MinNodesPerGraph)
	case c.Graph.MaxCombinedGraphSize <= 0:
		return eris.Wrapf(ErrInvalid, "graph.max_combined_graph_size must be positive, got %d", c.Graph.MaxCombinedGraphSize)
	case c.Graph.MaxCombinedGraphSize < c.Graph.MinNodesPerGraph:
		return eris.Wrapf(ErrInvalid, "graph.max_combined_graph_size %d is below graph.min_nodes_per_graph %d",
			c.Graph.MaxCombinedGraphSize, c.Graph.MinNodesPerGraph)
	case c.Scheduler.Parallelism < 0:
		return eris.Wrapf(ErrInvalid, "scheduler.parallelism must not be negative, got %d", c.Scheduler.Parallelism)
	}
	return nil
}

func (c *Config) computeDerived() {
	c.Derived.Workers = c.Scheduler.Parallelism
	if c.Derived.Workers == 0 {
		c.Derived.Workers = runtime.GOMAXPROCS(0)
	}
}

// OptimizerOptions converts the graph and scheduler sections.
func (c *Config) OptimizerOptions() optimizer.Options {
	return optimizer.Options{
		MinNodesPerGraph:     c.Graph.MinNodesPerGraph,
		MaxCombinedGraphSize: c.Graph.MaxCombinedGraphSize,
		Workers:              c.Derived.Workers,
	}
}

// WriteYAML saves the configuration, handy for recording a stress run.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return eris.Wrap(err, "marshaling config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "writing config file")
	}
	return nil
}
