package poll

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunner_RunsImmediatelyAndOnTicks(t *testing.T) {
	var runs atomic.Int64

	r := NewRunner()
	r.Add("counter", 20*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	r.Start()

	assert.Eventually(t, func() bool {
		return runs.Load() >= 3
	}, time.Second, 10*time.Millisecond)

	r.Stop()
}

func TestRunner_SkipsOverlappingRuns(t *testing.T) {
	var started atomic.Int64
	release := make(chan struct{})

	r := NewRunner()
	r.Add("slow", 10*time.Millisecond, func(ctx context.Context) error {
		started.Add(1)
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	})
	r.Start()

	// Give several ticks a chance to fire while the first run blocks
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(1), started.Load())

	close(release)
	r.Stop()
}

func TestRunner_StopCancelsContext(t *testing.T) {
	canceled := make(chan struct{})

	r := NewRunner()
	r.Add("waiter", time.Hour, func(ctx context.Context) error {
		<-ctx.Done()
		close(canceled)
		return ctx.Err()
	})
	r.Start()

	time.Sleep(20 * time.Millisecond)
	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}

	select {
	case <-canceled:
	default:
		t.Fatal("task context was not canceled")
	}
}

func TestRunner_TaskErrorDoesNotStopTicker(t *testing.T) {
	var runs atomic.Int64

	r := NewRunner()
	r.Add("flaky", 20*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return assert.AnError
	})
	r.Start()

	assert.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, time.Second, 10*time.Millisecond)

	r.Stop()
}
