package work

import (
	"sync/atomic"

	"github.com/rotisserie/eris"
)

var ErrWorkOverCompleted = eris.New("work completed more often than scheduled")

// WorkTracker hands out the units of one stage. Claims and completions are
// lock free; the completion that reaches MaxWorkCount closes Done.
type WorkTracker struct {
	WorkType     WorkType
	MaxWorkCount int32

	scheduled atomic.Int32
	completed atomic.Int32
	done      chan struct{}
}

func NewWorkTracker(t WorkType, maxWorkCount int32) *WorkTracker {
	w := &WorkTracker{WorkType: t}
	w.Reset(maxWorkCount)
	return w
}

// Reset prepares the tracker for another tick. It must not race with claims.
func (w *WorkTracker) Reset(maxWorkCount int32) {
	w.MaxWorkCount = max(maxWorkCount, 0)
	w.scheduled.Store(0)
	w.completed.Store(0)
	w.done = make(chan struct{})
	if w.MaxWorkCount == 0 {
		close(w.done)
	}
}

// TryClaim returns the next unclaimed unit index.
func (w *WorkTracker) TryClaim() (int32, bool) {
	if w.scheduled.Load() >= w.MaxWorkCount {
		return 0, false
	}
	unit := w.scheduled.Add(1) - 1
	if unit >= w.MaxWorkCount {
		return 0, false
	}
	return unit, true
}

// Complete marks one claimed unit as done.
func (w *WorkTracker) Complete() error {
	n := w.completed.Add(1)
	switch {
	case n == w.MaxWorkCount:
		close(w.done)
	case n > w.MaxWorkCount:
		return eris.Wrapf(ErrWorkOverCompleted, "%s completed %d of %d", w.WorkType, n, w.MaxWorkCount)
	}
	return nil
}

// Done is closed once every unit has completed.
func (w *WorkTracker) Done() <-chan struct{} {
	return w.done
}

func (w *WorkTracker) IsComplete() bool {
	return w.completed.Load() >= w.MaxWorkCount
}

func (w *WorkTracker) ScheduledCount() int32 {
	return min(w.scheduled.Load(), w.MaxWorkCount)
}

func (w *WorkTracker) CompletedCount() int32 {
	return w.completed.Load()
}
