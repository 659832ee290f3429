package optimizer

import (
	"context"

	"github.com/plus3/weaver/work"
	"github.com/plus3/weaver/world"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// Options control partitioning and parallelism.
type Options struct {
	MinNodesPerGraph     int
	MaxCombinedGraphSize int
	// Workers is the size of the worker pool; zero or less uses GOMAXPROCS.
	Workers int
}

func DefaultOptions() Options {
	return Options{MinNodesPerGraph: 20, MaxCombinedGraphSize: 2000}
}

// Cluster drives the optimized simulation of a star cluster.
type Cluster struct {
	cluster  *world.StarCluster
	opts     Options
	hooks    [work.WorkTypeCount]StageHook
	planets  []*OptimizedPlanet
	manager  *work.StarClusterWorkManager
	executor *work.Executor
}

func NewCluster(cluster *world.StarCluster, opts Options) *Cluster {
	return &Cluster{
		cluster:  cluster,
		opts:     opts,
		executor: work.NewExecutor(opts.Workers),
	}
}

// SetStageHook registers the host callback for a stage. Hooks must be set
// before Optimize.
func (c *Cluster) SetStageHook(t work.WorkType, hook StageHook) {
	c.hooks[t] = hook
}

// Optimize partitions every planet and builds its executors. Calling it again
// re-reads the pools, so Save first if the cluster has been ticking.
func (c *Cluster) Optimize() error {
	planets := make([]*OptimizedPlanet, 0, len(c.cluster.Planets))
	sources := make([]work.Planet, 0, len(c.cluster.Planets))
	for _, p := range c.cluster.Planets {
		op, err := optimizePlanet(p, c.opts, &c.hooks)
		if err != nil {
			return err
		}
		planets = append(planets, op)
		sources = append(sources, op)
	}
	c.planets = planets
	c.manager = work.NewStarClusterWorkManager(sources...)
	logrus.WithFields(logrus.Fields{
		"planets": len(planets),
		"workers": c.executor.Workers(),
	}).Debug("cluster optimized")
	return nil
}

// GameTick simulates one tick of every planet.
func (c *Cluster) GameTick(ctx context.Context, tick int64) error {
	if c.manager == nil {
		return eris.New("cluster is not optimized")
	}
	for _, p := range c.planets {
		p.tick = tick
	}
	c.manager.Reset()
	if err := c.executor.Run(ctx, c.manager); err != nil {
		return eris.Wrapf(err, "tick %d", tick)
	}
	for _, p := range c.planets {
		p.rollUp()
	}
	return nil
}

// Save writes every executor's state back into the planets' pools.
func (c *Cluster) Save() {
	for _, p := range c.planets {
		p.save()
	}
}

func (c *Cluster) Planets() []*OptimizedPlanet {
	return c.planets
}

// Stats returns stage timings summed over every tick since the last
// ResetStats.
func (c *Cluster) Stats() *work.Stats {
	return c.executor.Stats()
}

func (c *Cluster) ResetStats() {
	c.executor.ResetStats()
}
