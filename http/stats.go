package http

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	statsMinMicros = 1
	statsMaxMicros = int64(10 * time.Minute / time.Microsecond)
	statsSigFigs   = 3
)

// Stats records exchange latencies in an HDR histogram. Latencies of
// successful exchanges feed the histogram; failures are counted per kind.
// Stats is safe for concurrent use.
type Stats struct {
	mu       sync.Mutex
	hist     *hdrhistogram.Histogram
	requests int64
	failures map[string]int64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Requests  int64
	Successes int64
	Failures  map[string]int64
	Min       time.Duration
	Mean      time.Duration
	P50       time.Duration
	P90       time.Duration
	P99       time.Duration
	Max       time.Duration
}

// NewStats creates an empty recorder.
func NewStats() *Stats {
	return &Stats{
		hist:     hdrhistogram.New(statsMinMicros, statsMaxMicros, statsSigFigs),
		failures: make(map[string]int64),
	}
}

// Record adds one exchange. kind is nil for a success or one of the Err*
// sentinels.
func (s *Stats) Record(d time.Duration, kind error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests++
	if kind != nil {
		s.failures[kind.Error()]++
		return
	}

	us := d.Microseconds()
	if us < statsMinMicros {
		us = statsMinMicros
	}
	if us > statsMaxMicros {
		us = statsMaxMicros
	}
	_ = s.hist.RecordValue(us)
}

// Snapshot returns the current counters and latency percentiles.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	failures := make(map[string]int64, len(s.failures))
	for k, v := range s.failures {
		failures[k] = v
	}

	snap := StatsSnapshot{
		Requests:  s.requests,
		Successes: s.hist.TotalCount(),
		Failures:  failures,
	}
	if snap.Successes == 0 {
		return snap
	}

	snap.Min = micros(s.hist.Min())
	snap.Mean = time.Duration(s.hist.Mean() * float64(time.Microsecond))
	snap.P50 = micros(s.hist.ValueAtQuantile(50))
	snap.P90 = micros(s.hist.ValueAtQuantile(90))
	snap.P99 = micros(s.hist.ValueAtQuantile(99))
	snap.Max = micros(s.hist.Max())
	return snap
}

// Reset clears all recorded values.
func (s *Stats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hist.Reset()
	s.requests = 0
	s.failures = make(map[string]int64)
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
