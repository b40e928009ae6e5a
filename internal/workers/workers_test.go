// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// countingWorker counts Run calls and blocks until ctx is done.
type countingWorker struct {
	runCount atomic.Int32
}

func (m *countingWorker) Run(ctx context.Context) error {
	m.runCount.Add(1)
	<-ctx.Done()
	return nil
}

// failingWorker fails immediately.
type failingWorker struct {
	err error
}

func (f *failingWorker) Run(context.Context) error {
	return f.err
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1, w2, w3 := &countingWorker{}, &countingWorker{}, &countingWorker{}
	ws := New(w1, w2, w3)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := ws.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, w := range []*countingWorker{w1, w2, w3} {
		if got := w.runCount.Load(); got != 1 {
			t.Errorf("worker[%d]: expected runCount=1, got %d", i, got)
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := New()

	// Should return at once on an empty aggregate
	if err := ws.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWorkers_Run_NilSkipped(t *testing.T) {
	w := &countingWorker{}
	ws := New(nil, w)
	ws.Add(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := ws.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ws.workers) != 1 {
		t.Errorf("expected 1 worker, got %d", len(ws.workers))
	}
}

func TestWorkers_Run_FailureStopsOthers(t *testing.T) {
	boom := errors.New("listen failed")
	blocked := &countingWorker{}
	ws := New(blocked)
	ws.Add(&failingWorker{err: boom})

	done := make(chan error, 1)
	go func() { done <- ws.Run(context.Background()) }()

	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Fatalf("expected %v, got %v", boom, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("failure did not stop the other workers")
	}
}
