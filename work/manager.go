package work

import (
	"context"
	"sync"
	"sync/atomic"
)

// Planet is the work source of one planet.
type Planet interface {
	ID() int32
	// WorkCount is the number of units a stage has this tick.
	WorkCount(t WorkType) int32
	ExecuteWork(t WorkType, unit int32) error
}

// Unit is one claimed piece of work.
type Unit struct {
	Planet  Planet
	Type    WorkType
	Index   int32
	tracker *WorkTracker
	planet  int
}

// PlanetWorkManager walks one planet through its stages. Units of a stage
// are only handed out once every earlier stage has completed.
type PlanetWorkManager struct {
	planet   Planet
	trackers [WorkTypeCount]*WorkTracker
	current  atomic.Int32
}

func NewPlanetWorkManager(p Planet) *PlanetWorkManager {
	m := &PlanetWorkManager{planet: p}
	for t := range WorkTypeCount {
		m.trackers[t] = NewWorkTracker(t, 0)
	}
	return m
}

// Reset reads the planet's unit counts for a new tick.
func (m *PlanetWorkManager) Reset() {
	for t := range WorkTypeCount {
		m.trackers[t].Reset(m.planet.WorkCount(t))
	}
	m.current.Store(0)
}

func (m *PlanetWorkManager) Tracker(t WorkType) *WorkTracker {
	return m.trackers[t]
}

// Current returns the stage the planet is in, or WorkTypeCount when done.
func (m *PlanetWorkManager) Current() WorkType {
	return WorkType(m.current.Load())
}

// tryClaim claims a unit of the current stage. Without a unit it returns the
// tracker still running, or nil once the planet finished its tick.
func (m *PlanetWorkManager) tryClaim() (Unit, *WorkTracker, bool) {
	for {
		idx := m.current.Load()
		if idx >= int32(WorkTypeCount) {
			return Unit{}, nil, false
		}
		tracker := m.trackers[idx]
		if !tracker.IsComplete() {
			if unit, ok := tracker.TryClaim(); ok {
				return Unit{Planet: m.planet, Type: WorkType(idx), Index: unit, tracker: tracker}, nil, true
			}
			return Unit{}, tracker, false
		}
		m.current.CompareAndSwap(idx, idx+1)
	}
}

// StarClusterWorkManager lets workers steal work from any planet.
type StarClusterWorkManager struct {
	planets []*PlanetWorkManager

	// changed is closed and replaced whenever a stage of any planet completes.
	mu      sync.Mutex
	changed chan struct{}
}

func NewStarClusterWorkManager(planets ...Planet) *StarClusterWorkManager {
	m := &StarClusterWorkManager{
		planets: make([]*PlanetWorkManager, len(planets)),
		changed: make(chan struct{}),
	}
	for i, p := range planets {
		m.planets[i] = NewPlanetWorkManager(p)
	}
	return m
}

func (m *StarClusterWorkManager) Reset() {
	for _, p := range m.planets {
		p.Reset()
	}
}

func (m *StarClusterWorkManager) Planet(i int) *PlanetWorkManager {
	return m.planets[i]
}

func (m *StarClusterWorkManager) PlanetCount() int {
	return len(m.planets)
}

// complete marks a unit done and wakes waiting workers when it finished its
// stage.
func (m *StarClusterWorkManager) complete(unit Unit) error {
	if err := unit.tracker.Complete(); err != nil {
		return err
	}
	if unit.tracker.IsComplete() {
		m.mu.Lock()
		close(m.changed)
		m.changed = make(chan struct{})
		m.mu.Unlock()
	}
	return nil
}

func (m *StarClusterWorkManager) stageChanged() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.changed
}

// nextWork claims a unit, trying planets round-robin from start. When every
// planet is blocked on a running stage it waits until any stage of any
// planet completes. It reports false once all planets are done.
func (m *StarClusterWorkManager) nextWork(ctx context.Context, start int) (Unit, bool, error) {
	n := len(m.planets)
	for {
		// Taken before scanning so a completion during the scan is not missed.
		changed := m.stageChanged()
		running := false
		for k := range n {
			i := (start + k) % n
			unit, tracker, ok := m.planets[i].tryClaim()
			if ok {
				unit.planet = i
				return unit, true, nil
			}
			running = running || tracker != nil
		}
		if !running {
			return Unit{}, false, nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return Unit{}, false, ctx.Err()
		}
	}
}
