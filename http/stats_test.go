package http

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStats_Record(t *testing.T) {
	stats := NewStats()

	for i := 1; i <= 100; i++ {
		stats.Record(time.Duration(i)*time.Millisecond, nil)
	}
	stats.Record(time.Second, ErrTimeout)
	stats.Record(time.Second, ErrConnection)
	stats.Record(time.Second, ErrTimeout)

	snap := stats.Snapshot()
	assert.Equal(t, int64(103), snap.Requests)
	assert.Equal(t, int64(100), snap.Successes)
	assert.Equal(t, map[string]int64{"timeout": 2, "connection error": 1}, snap.Failures)

	assert.InDelta(t, float64(time.Millisecond), float64(snap.Min), float64(time.Millisecond)/100)
	assert.InDelta(t, float64(50*time.Millisecond), float64(snap.P50), float64(time.Millisecond))
	assert.InDelta(t, float64(90*time.Millisecond), float64(snap.P90), float64(time.Millisecond))
	assert.InDelta(t, float64(100*time.Millisecond), float64(snap.Max), float64(time.Millisecond))
	assert.InDelta(t, float64(50500*time.Microsecond), float64(snap.Mean), float64(time.Millisecond))
}

func TestStats_Empty(t *testing.T) {
	snap := NewStats().Snapshot()

	assert.Zero(t, snap.Requests)
	assert.Zero(t, snap.P99)
	assert.Empty(t, snap.Failures)
}

func TestStats_ClampsAndResets(t *testing.T) {
	stats := NewStats()
	stats.Record(0, nil)
	stats.Record(time.Hour, nil)

	snap := stats.Snapshot()
	assert.Equal(t, int64(2), snap.Successes)
	assert.Equal(t, time.Microsecond, snap.Min)

	stats.Reset()
	snap = stats.Snapshot()
	assert.Zero(t, snap.Requests)
	assert.Zero(t, snap.Successes)
}

func TestStats_Concurrent(t *testing.T) {
	stats := NewStats()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				stats.Record(time.Millisecond, nil)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1000), stats.Snapshot().Successes)
}
