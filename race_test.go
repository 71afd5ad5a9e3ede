package ringlog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitWithTimeout(t *testing.T, wg *sync.WaitGroup, timeout time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("goroutines did not finish before timeout")
	}
}

// TestRaceConcurrentProducers exercises many goroutines, each with its own
// Logger/Producer, committing concurrently while the single worker drains.
// Run with -race.
func TestRaceConcurrentProducers(t *testing.T) {
	w := &memWriter{}
	rt := newTestRuntime(t, w)

	const producers = 16
	const perProducer = 200

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger := NewLogger(rt)
			for j := 0; j < perProducer; j++ {
				logger.Infof("producer %d message %d", id, j)
			}
		}(i)
	}

	waitWithTimeout(t, &wg, 10*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, rt.Shutdown(ctx))
}

// TestRaceMetricsUnderLoad checks the Prometheus collectors tolerate
// concurrent Inc/Add from the single worker goroutine alongside concurrent
// producer commits — the collectors themselves are safe for concurrent
// use, but this guards against any accidental shared mutable state added
// around them later.
func TestRaceMetricsUnderLoad(t *testing.T) {
	w := &memWriter{}
	rt := newTestRuntime(t, w, WithMetricsRegisterer(nil))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger := NewLogger(rt)
			for j := 0; j < 50; j++ {
				logger.Debug("load", id, j)
			}
		}(i)
	}
	waitWithTimeout(t, &wg, 10*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, rt.Shutdown(ctx))
}
