package serial

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoMutualExclusion(t *testing.T) {
	g := New()
	ctx := context.Background()

	const goroutines = 50
	const increments = 100

	counter := 0
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				err := g.Do(ctx, func() {
					counter++
				})
				assert.NoError(t, err)
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, goroutines*increments, counter)
}

func TestAcquireFIFOOrder(t *testing.T) {
	g := New()
	ctx := context.Background()

	// Hold the gate so every subsequent Acquire queues behind it.
	require.NoError(t, g.Acquire(ctx))

	const waiters = 10
	var mu sync.Mutex
	var admitted []int

	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, g.Acquire(ctx))
			mu.Lock()
			admitted = append(admitted, i)
			mu.Unlock()
			g.Release()
		}()
		// Give the goroutine time to enqueue before launching the next one.
		time.Sleep(20 * time.Millisecond)
	}

	g.Release()
	wg.Wait()

	require.Len(t, admitted, waiters)
	for i := 0; i < waiters; i++ {
		assert.Equal(t, i, admitted[i], "waiter %d admitted out of order", i)
	}
}

func TestDoReleasesOnPanic(t *testing.T) {
	g := New()
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = g.Do(ctx, func() {
			panic("boom")
		})
	})

	// The gate must be free again after the panic.
	done := make(chan struct{})
	go func() {
		_ = g.Do(ctx, func() {})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("gate was not released after panic")
	}
}

func TestAcquireCancelledWhileQueued(t *testing.T) {
	g := New()
	ctx := context.Background()

	require.NoError(t, g.Acquire(ctx))

	cancelCtx, cancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() {
		errCh <- g.Acquire(cancelCtx)
	}()

	// Let the goroutine enqueue, then cancel its wait.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled Acquire did not return")
	}

	// The abandoned slot must not wedge the gate for later acquirers.
	g.Release()
	require.NoError(t, g.Acquire(ctx))
	g.Release()
}

func TestDoCancelledBeforeAcquire(t *testing.T) {
	g := New()
	require.NoError(t, g.Acquire(context.Background()))

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := g.Do(cancelCtx, func() { ran = true })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran, "fn must not run when acquisition fails")

	g.Release()
}
