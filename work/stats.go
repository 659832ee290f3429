package work

import (
	"sync"
	"time"
)

// Stats provides statistics about executed work.
type Stats struct {
	TotalExecutions int64
	Stages          []StageStats
}

// StageStats provides execution statistics for one WorkType, summed over all
// planets and units.
type StageStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type stageStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

type statsCollector struct {
	mu     sync.Mutex
	stages [WorkTypeCount]stageStatsInternal
}

func (c *statsCollector) record(t WorkType, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &c.stages[t]
	if s.executionCount == 0 || d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
}

func (c *statsCollector) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stages = [WorkTypeCount]stageStatsInternal{}
}

func (c *statsCollector) snapshot() *Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := &Stats{Stages: make([]StageStats, WorkTypeCount)}
	for t, internal := range c.stages {
		avg := time.Duration(0)
		if internal.executionCount > 0 {
			avg = internal.totalDuration / time.Duration(internal.executionCount)
		}
		stats.Stages[t] = StageStats{
			Name:           WorkType(t).String(),
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avg,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		stats.TotalExecutions += internal.executionCount
	}
	return stats
}
