package cron

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunOnce(t *testing.T) {
	scheduler := NewScheduler()

	var ran int32
	scheduler.AddJob("counter", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})
	scheduler.AddJob("failing", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&ran, 1)
		return errors.New("boom")
	})

	scheduler.RunOnce(context.Background())
	assert.Equal(t, int32(2), atomic.LoadInt32(&ran))
}

func TestScheduler_StartAndStop(t *testing.T) {
	scheduler := NewScheduler()

	var runs int32
	scheduler.AddJob("ticker", 20*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	scheduler.Start()
	time.Sleep(70 * time.Millisecond)
	scheduler.Stop()

	// Runs once on start, then on every tick
	got := atomic.LoadInt32(&runs)
	assert.GreaterOrEqual(t, got, int32(2))

	// No further runs after Stop
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, got, atomic.LoadInt32(&runs))
}

func TestScheduler_SkipsOverlappingRuns(t *testing.T) {
	scheduler := NewScheduler()

	var runs int32
	block := make(chan struct{})

	scheduler.AddJob("slow", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		<-block
		return nil
	})

	job := scheduler.jobs[0]

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scheduler.executeJob(job)
		}()
	}

	// Give the goroutines time to contend, then release the one holding
	// the lock. The others must have skipped instead of queueing.
	time.Sleep(50 * time.Millisecond)
	close(block)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}
