package work

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Executor runs a tick's work on a fixed pool of workers.
type Executor struct {
	workers int
	// unsafe serializes stages that are not thread safe across all planets.
	unsafe sync.Mutex
	stats  statsCollector
}

// NewExecutor creates an executor with the given number of workers; zero or
// less uses GOMAXPROCS.
func NewExecutor(workers int) *Executor {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Executor{workers: workers}
}

func (e *Executor) Workers() int {
	return e.workers
}

// Run executes every stage of every planet once. The manager must have been
// reset for this tick. The first failing unit stops all workers and its error
// is returned.
func (e *Executor) Run(ctx context.Context, manager *StarClusterWorkManager) error {
	if manager.PlanetCount() == 0 {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	for worker := range e.workers {
		g.Go(func() error {
			return e.work(ctx, manager, worker)
		})
	}
	return g.Wait()
}

func (e *Executor) work(ctx context.Context, manager *StarClusterWorkManager, worker int) error {
	start := worker % manager.PlanetCount()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		unit, ok, err := manager.nextWork(ctx, start)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := e.execute(manager, unit, worker); err != nil {
			return err
		}
		start = unit.planet
	}
}

func (e *Executor) execute(manager *StarClusterWorkManager, unit Unit, worker int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("panic in %s unit %d on planet %d: %v", unit.Type, unit.Index, unit.Planet.ID(), r)
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"planet":    unit.Planet.ID(),
				"work_type": unit.Type.String(),
				"unit":      unit.Index,
				"worker":    worker,
			}).Error(eris.ToString(err, true))
		}
	}()

	if !unit.Type.ThreadSafe() {
		e.unsafe.Lock()
		defer e.unsafe.Unlock()
	}

	begin := time.Now()
	if err := unit.Planet.ExecuteWork(unit.Type, unit.Index); err != nil {
		return eris.Wrapf(err, "%s unit %d on planet %d", unit.Type, unit.Index, unit.Planet.ID())
	}
	e.stats.record(unit.Type, time.Since(begin))
	return manager.complete(unit)
}

// Stats returns statistics about all work executed since the last reset.
func (e *Executor) Stats() *Stats {
	return e.stats.snapshot()
}

func (e *Executor) ResetStats() {
	e.stats.reset()
}
