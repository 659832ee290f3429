package work_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/plus3/weaver/work"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlanet struct {
	id     int32
	counts [work.WorkTypeCount]int32
	exec   func(t work.WorkType, unit int32) error

	mu     sync.Mutex
	stages []work.WorkType
	units  map[work.WorkType][]int32
}

func newFakePlanet(id int32, units int32) *fakePlanet {
	p := &fakePlanet{id: id, units: make(map[work.WorkType][]int32)}
	for t := range work.WorkTypeCount {
		p.counts[t] = units
	}
	return p
}

func (p *fakePlanet) ID() int32 { return p.id }

func (p *fakePlanet) WorkCount(t work.WorkType) int32 { return p.counts[t] }

func (p *fakePlanet) ExecuteWork(t work.WorkType, unit int32) error {
	p.mu.Lock()
	p.stages = append(p.stages, t)
	p.units[t] = append(p.units[t], unit)
	p.mu.Unlock()
	if p.exec != nil {
		return p.exec(t, unit)
	}
	return nil
}

func run(t *testing.T, workers int, planets ...*fakePlanet) (*work.Executor, error) {
	t.Helper()
	sources := make([]work.Planet, len(planets))
	for i, p := range planets {
		sources[i] = p
	}
	manager := work.NewStarClusterWorkManager(sources...)
	manager.Reset()
	executor := work.NewExecutor(workers)
	return executor, executor.Run(context.Background(), manager)
}

func TestExecutorRunsStagesInOrder(t *testing.T) {
	small := newFakePlanet(1, 2)
	large := newFakePlanet(2, 50)
	large.counts[work.Construction] = 0

	executor, err := run(t, 8, small, large)
	require.NoError(t, err)

	for _, p := range []*fakePlanet{small, large} {
		for i := 1; i < len(p.stages); i++ {
			require.LessOrEqual(t, p.stages[i-1], p.stages[i], "planet %d", p.id)
		}
		for wt := range work.WorkTypeCount {
			assert.ElementsMatch(t, sequence(p.counts[wt]), p.units[wt], "planet %d %s", p.id, wt)
		}
	}

	stats := executor.Stats()
	assert.Equal(t, int64(2*20+50*19), stats.TotalExecutions)
	assert.Equal(t, int64(52), stats.Stages[work.Assembler].ExecutionCount)
	assert.Equal(t, "Assembler", stats.Stages[work.Assembler].Name)
}

func sequence(n int32) []int32 {
	out := make([]int32, 0, n)
	for i := range n {
		out = append(out, i)
	}
	return out
}

func TestExecutorSerializesUnsafeStages(t *testing.T) {
	var running, peak atomic.Int32
	exec := func(t work.WorkType, unit int32) error {
		if t != work.LabResearchMode {
			return nil
		}
		n := running.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		running.Add(-1)
		return nil
	}
	planets := make([]*fakePlanet, 4)
	for i := range planets {
		planets[i] = newFakePlanet(int32(i+1), 20)
		planets[i].exec = exec
	}

	_, err := run(t, 8, planets...)
	require.NoError(t, err)
	assert.Equal(t, int32(1), peak.Load())
}

func TestExecutorPropagatesFailure(t *testing.T) {
	cause := eris.New("boom")

	t.Run("error", func(t *testing.T) {
		p := newFakePlanet(1, 10)
		p.exec = func(t work.WorkType, unit int32) error {
			if t == work.InserterData && unit == 3 {
				return cause
			}
			return nil
		}
		_, err := run(t, 4, p, newFakePlanet(2, 10))
		require.Error(t, err)
		assert.True(t, eris.Is(err, cause))

		for _, stage := range p.stages {
			assert.LessOrEqual(t, stage, work.InserterData)
		}
	})

	t.Run("panic", func(t *testing.T) {
		p := newFakePlanet(1, 10)
		p.exec = func(t work.WorkType, unit int32) error {
			if t == work.Splitter {
				panic("splitter exploded")
			}
			return nil
		}
		_, err := run(t, 4, p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "splitter exploded")
	})
}

// TestExecutorWakesOnAnyPlanet blocks planet 1 until planet 2 has run a stage
// whose two units must execute at the same time. A worker idling on planet 1
// has to notice that planet 2 moved on.
func TestExecutorWakesOnAnyPlanet(t *testing.T) {
	released := make(chan struct{})
	var release sync.Once

	blocked := newFakePlanet(1, 0)
	blocked.counts[work.BeforePower] = 1
	blocked.exec = func(work.WorkType, int32) error {
		select {
		case <-released:
			return nil
		case <-time.After(5 * time.Second):
			return eris.New("planet 2 never finished its paired stage")
		}
	}

	var arrived atomic.Int32
	paired := newFakePlanet(2, 0)
	paired.counts[work.BeforePower] = 1
	paired.counts[work.Power] = 2
	paired.exec = func(t work.WorkType, unit int32) error {
		if t != work.Power {
			return nil
		}
		arrived.Add(1)
		deadline := time.After(5 * time.Second)
		for arrived.Load() < 2 {
			select {
			case <-deadline:
				return eris.New("second power unit never started")
			case <-time.After(time.Millisecond):
			}
		}
		release.Do(func() { close(released) })
		return nil
	}

	_, err := run(t, 3, blocked, paired)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int32{0, 1}, paired.units[work.Power])
}

func TestExecutorCancelled(t *testing.T) {
	p := newFakePlanet(1, 10)
	manager := work.NewStarClusterWorkManager(p)
	manager.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := work.NewExecutor(2).Run(ctx, manager)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, p.stages)
}

func TestPlanetWorkManagerReset(t *testing.T) {
	p := newFakePlanet(1, 3)
	manager := work.NewStarClusterWorkManager(p)
	for range 3 {
		manager.Reset()
		require.NoError(t, work.NewExecutor(2).Run(context.Background(), manager))
		assert.Equal(t, work.WorkTypeCount, manager.Planet(0).Current())
	}
	assert.Len(t, p.stages, 3*3*int(work.WorkTypeCount))
}
