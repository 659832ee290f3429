package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/weaver/work"
	"github.com/plus3/weaver/world"
	"gonum.org/v1/gonum/stat"
)

type Report struct {
	// Configuration
	Planets int
	Lines   int
	Ticks   int
	Workers int
	Seed    int64

	// Optimization
	OptimizeTime time.Duration
	SubFactories int
	Unoptimized  int

	// Results
	TotalTime      time.Duration
	TickTime       Stats
	Stages         []work.StageStats
	Gears          int64
	Cubes          int64
	Deuterium      int64
	Rockets        int64
	Sails          int64
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Mean    time.Duration
	StdDev  time.Duration
	P50     time.Duration
	P95     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	xs := make([]float64, len(s.Samples))
	for i, sample := range s.Samples {
		xs[i] = float64(sample)
	}
	slices.Sort(xs)

	mean, std := stat.MeanStdDev(xs, nil)
	s.Min = time.Duration(xs[0])
	s.Max = time.Duration(xs[len(xs)-1])
	s.Mean = time.Duration(mean)
	s.StdDev = time.Duration(std)
	s.P50 = time.Duration(stat.Quantile(0.50, stat.Empirical, xs, nil))
	s.P95 = time.Duration(stat.Quantile(0.95, stat.Empirical, xs, nil))
	s.P99 = time.Duration(stat.Quantile(0.99, stat.Empirical, xs, nil))
}

// addStages accumulates one tick's stage statistics.
func (r *Report) addStages(stats *work.Stats) {
	if r.Stages == nil {
		r.Stages = make([]work.StageStats, len(stats.Stages))
	}
	for i, s := range stats.Stages {
		acc := &r.Stages[i]
		acc.Name = s.Name
		if s.ExecutionCount == 0 {
			continue
		}
		if acc.ExecutionCount == 0 || s.MinDuration < acc.MinDuration {
			acc.MinDuration = s.MinDuration
		}
		acc.MaxDuration = max(acc.MaxDuration, s.MaxDuration)
		acc.ExecutionCount += s.ExecutionCount
		acc.TotalDuration += s.TotalDuration
		acc.LastDuration = s.LastDuration
		acc.AvgDuration = acc.TotalDuration / time.Duration(acc.ExecutionCount)
	}
}

func (r *Report) collectProduction(cluster *world.StarCluster) {
	for _, p := range cluster.Planets {
		r.Gears += p.Stats.ProductRegister[itemGear]
		r.Cubes += p.Stats.ProductRegister[itemBlueCube]
		r.Deuterium += p.Stats.ProductRegister[itemDeuterium]
	}
	seen := map[*world.DysonSphere]bool{}
	for _, p := range cluster.Planets {
		if p.Dyson == nil || seen[p.Dyson] {
			continue
		}
		seen[p.Dyson] = true
		r.Rockets += p.Dyson.Rockets()
		r.Sails += p.Dyson.Sails()
	}
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Factory Stress Test Report

## Test Configuration
- **Planets:** {{.Planets}}
- **Lines per Planet:** {{.Lines}}
- **Ticks:** {{.Ticks}}
- **Workers:** {{.Workers}}
- **Seed:** {{.Seed}}

## Optimization
- **Optimize Time:** {{.OptimizeTime}}
- **Sub-factories:** {{.SubFactories}}
- **Unoptimized Entities:** {{.Unoptimized}}

## Performance Results
- **Total Test Time:** {{.TotalTime}}
- **Tick Time:**
  - **Mean:** {{.TickTime.Mean}} (stddev {{.TickTime.StdDev}})
  - **Min:** {{.TickTime.Min}}
  - **P50:** {{.TickTime.P50}}
  - **P95:** {{.TickTime.P95}}
  - **P99:** {{.TickTime.P99}}
  - **Max:** {{.TickTime.Max}}

## Stages
{{range .Stages}}{{if .ExecutionCount}}- {{printf "%-22s" .Name}} runs: {{.ExecutionCount}}  avg: {{.AvgDuration}}  max: {{.MaxDuration}}  total: {{.TotalDuration}}
{{end}}{{end}}
## Production
- Gears: {{.Gears}}
- Blue matrices: {{.Cubes}}
- Deuterium: {{.Deuterium}}
- Rockets launched: {{.Rockets}}
- Sails ejected: {{.Sails}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
