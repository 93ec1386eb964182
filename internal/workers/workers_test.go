// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingWorker records how many times Run was entered and returned.
type countingWorker struct {
	started  atomic.Int32
	finished atomic.Int32
}

func (c *countingWorker) Run(ctx context.Context) {
	c.started.Add(1)
	<-ctx.Done()
	c.finished.Add(1)
}

func TestWorkers_StartRunsEveryWorker(t *testing.T) {
	w1, w2, w3 := &countingWorker{}, &countingWorker{}, &countingWorker{}
	ws := NewWorkers(w1, w2, w3)

	ws.Start(context.Background())
	require.Eventually(t, func() bool {
		return w1.started.Load() == 1 && w2.started.Load() == 1 && w3.started.Load() == 1
	}, time.Second, 5*time.Millisecond)

	ws.Stop()
	for i, w := range []*countingWorker{w1, w2, w3} {
		assert.Equal(t, int32(1), w.finished.Load(), "worker[%d]", i)
	}
}

func TestWorkers_StartTwiceIsNoop(t *testing.T) {
	w := &countingWorker{}
	ws := NewWorkers(w)

	ws.Start(context.Background())
	ws.Start(context.Background())
	ws.Stop()

	assert.Equal(t, int32(1), w.started.Load())
}

func TestWorkers_StopIsIdempotent(t *testing.T) {
	ws := NewWorkers(&countingWorker{})
	ws.Start(context.Background())

	ws.Stop()
	ws.Stop()
}

func TestWorkers_StopWithoutStart(t *testing.T) {
	ws := &Workers{}

	// Should not block when nothing was started
	ws.Stop()
}

func TestWorkers_ParentContextEndsWorkers(t *testing.T) {
	w := &countingWorker{}
	ws := NewWorkers(w)
	ctx, cancel := context.WithCancel(context.Background())

	ws.Start(ctx)
	cancel()

	require.Eventually(t, func() bool { return w.finished.Load() == 1 }, time.Second, 5*time.Millisecond)
	ws.Stop()
}

func TestWorkers_RestartAfterStop(t *testing.T) {
	w := &countingWorker{}
	ws := NewWorkers(w)

	ws.Start(context.Background())
	ws.Stop()
	ws.Start(context.Background())
	ws.Stop()

	assert.Equal(t, int32(2), w.started.Load())
	assert.Equal(t, int32(2), w.finished.Load())
}

func TestWorkerFunc_Add(t *testing.T) {
	var ran atomic.Bool
	ws := NewWorkers()
	ws.Add(WorkerFunc(func(ctx context.Context) {
		ran.Store(true)
		<-ctx.Done()
	}))

	ws.Start(context.Background())
	require.Eventually(t, ran.Load, time.Second, 5*time.Millisecond)
	ws.Stop()
}
