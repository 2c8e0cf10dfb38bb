package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerOrdering(t *testing.T) {
	s := NewScheduler()
	var order []string
	record := func(name string) func() {
		return func() { order = append(order, name) }
	}

	s.After(200*time.Millisecond, "late", record("late"))
	s.After(100*time.Millisecond, "first", record("first"))
	s.After(100*time.Millisecond, "second", record("second"))

	ran := s.Advance(150 * time.Millisecond)
	assert.Equal(t, 2, ran)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, 150*time.Millisecond, s.Now())

	s.Advance(50 * time.Millisecond)
	assert.Equal(t, []string{"first", "second", "late"}, order)
	assert.Zero(t, s.Pending())
}

func TestSchedulerZeroDelayRunsOnNextAdvance(t *testing.T) {
	s := NewScheduler()
	ran := false
	s.After(0, "now", func() { ran = true })

	assert.False(t, ran)
	s.Advance(0)
	assert.True(t, ran)
}

func TestSchedulerEvery(t *testing.T) {
	s := NewScheduler()
	count := 0
	id := s.Every(time.Second, "tick", func() { count++ })

	s.Advance(3500 * time.Millisecond)
	assert.Equal(t, 3, count)
	assert.True(t, s.Scheduled(id))

	require.True(t, s.Cancel(id))
	s.Advance(5 * time.Second)
	assert.Equal(t, 3, count)
	assert.False(t, s.Cancel(id))
}

func TestSchedulerTaskCancelsItself(t *testing.T) {
	s := NewScheduler()
	count := 0
	var id TaskID
	id = s.Every(time.Second, "once", func() {
		count++
		s.Cancel(id)
	})

	s.Advance(5 * time.Second)
	assert.Equal(t, 1, count)
}

func TestSchedulerChainedTasksInsideWindow(t *testing.T) {
	s := NewScheduler()
	var at []time.Duration
	s.After(100*time.Millisecond, "outer", func() {
		at = append(at, s.Now())
		s.After(100*time.Millisecond, "inner", func() {
			at = append(at, s.Now())
		})
	})

	s.Advance(time.Second)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, at)
}

func TestSchedulerCancelAll(t *testing.T) {
	s := NewScheduler()
	ran := 0
	s.After(time.Millisecond, "a", func() { ran++ })
	s.Every(time.Millisecond, "b", func() { ran++ })

	s.CancelAll()
	s.Advance(time.Second)
	assert.Zero(t, ran)
	assert.Zero(t, s.Pending())

	assert.Panics(t, func() { s.Every(0, "bad", func() {}) })
}
