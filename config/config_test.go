package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/plus3/weaver/config"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Graph.MinNodesPerGraph)
	assert.Equal(t, 2000, cfg.Graph.MaxCombinedGraphSize)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 0, cfg.Scheduler.Parallelism)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Derived.Workers)
	assert.Empty(t, cfg.Stress.CSV)

	opts := cfg.OptimizerOptions()
	assert.Equal(t, 20, opts.MinNodesPerGraph)
	assert.Equal(t, cfg.Derived.Workers, opts.Workers)
}

func TestLoadOverride(t *testing.T) {
	path := writeFile(t, "scheduler:\n  parallelism: 3\ngraph:\n  min_nodes_per_graph: 5\n")
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Derived.Workers)
	assert.Equal(t, 5, cfg.Graph.MinNodesPerGraph)
	assert.Equal(t, 2000, cfg.Graph.MaxCombinedGraphSize, "untouched keys keep their default")
	assert.Equal(t, 4, cfg.Stress.Planets)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero min nodes", "graph:\n  min_nodes_per_graph: 0\n"},
		{"negative max size", "graph:\n  max_combined_graph_size: -1\n"},
		{"max below min", "graph:\n  min_nodes_per_graph: 50\n  max_combined_graph_size: 10\n"},
		{"negative parallelism", "scheduler:\n  parallelism: -2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, tt.content))
			require.Error(t, err)
			assert.True(t, eris.Is(err, config.ErrInvalid))
		})
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
	t.Run("malformed yaml", func(t *testing.T) {
		_, err := config.Load(writeFile(t, "graph: [1, 2"))
		assert.Error(t, err)
	})
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Stress.Ticks = 42

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, loaded.Stress.Ticks)
}
