package main

import (
	"os"

	"github.com/gocarina/gocsv"
	"github.com/plus3/weaver/work"
	"github.com/rotisserie/eris"
)

// StageRecord is one stage of one tick in the timings CSV.
type StageRecord struct {
	Tick       int64  `csv:"tick"`
	Stage      string `csv:"stage"`
	Executions int64  `csv:"executions"`
	TotalNs    int64  `csv:"total_ns"`
	MaxNs      int64  `csv:"max_ns"`
}

// telemetry writes stage timings; a nil telemetry discards them.
type telemetry struct {
	file          *os.File
	headerWritten bool
}

func newTelemetry(path string) (*telemetry, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "creating %s", path)
	}
	return &telemetry{file: f}, nil
}

func (t *telemetry) Write(tick int64, stats *work.Stats) error {
	if t == nil {
		return nil
	}

	records := make([]StageRecord, 0, len(stats.Stages))
	for _, s := range stats.Stages {
		if s.ExecutionCount == 0 {
			continue
		}
		records = append(records, StageRecord{
			Tick:       tick,
			Stage:      s.Name,
			Executions: s.ExecutionCount,
			TotalNs:    s.TotalDuration.Nanoseconds(),
			MaxNs:      s.MaxDuration.Nanoseconds(),
		})
	}
	if len(records) == 0 {
		return nil
	}

	if !t.headerWritten {
		if err := gocsv.Marshal(records, t.file); err != nil {
			return eris.Wrap(err, "writing telemetry")
		}
		t.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, t.file); err != nil {
		return eris.Wrap(err, "writing telemetry")
	}
	return nil
}

func (t *telemetry) Close() error {
	if t == nil {
		return nil
	}
	return t.file.Close()
}
