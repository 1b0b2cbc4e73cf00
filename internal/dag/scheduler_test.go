package dag

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func countingDAG(id, schedule string, counter *atomic.Int32) *DAG {
	return &DAG{
		ID:       id,
		Schedule: schedule,
		Tasks: []Task{{ID: "count", Run: func(ctx context.Context) error {
			counter.Add(1)
			return nil
		}}},
	}
}

func TestSchedulerRunsAndStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	var runs atomic.Int32
	s := NewScheduler(nil)
	require.NoError(t, s.Register(countingDAG("tick", "@every 1s", &runs)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 20*time.Millisecond)
	next, ok := s.Next("tick")
	require.True(t, ok)
	assert.False(t, next.IsZero())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestSchedulerRejectsDuplicatesAndInvalid(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(nil)
	require.NoError(t, s.Register(countingDAG("d", "@daily", &runs)))
	assert.Error(t, s.Register(countingDAG("d", "@daily", &runs)))
	assert.Error(t, s.Register(countingDAG("bad", "not a schedule", &runs)))

	_, ok := s.Next("missing")
	assert.False(t, ok)
}

func TestSchedulerSkipsTicksBeforeStartDate(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(nil)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	d := countingDAG("future", "@daily", &runs)
	d.StartDate = now.Add(24 * time.Hour)

	s.runScheduled(d)
	assert.Zero(t, runs.Load())

	now = d.StartDate
	s.runScheduled(d)
	assert.EqualValues(t, 1, runs.Load())
}
