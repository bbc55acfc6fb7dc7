package rowan

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRuntimeSpawnAndShutdown(t *testing.T) {
	rt := NewRuntime(nil)

	var ran atomic.Bool
	rt.Spawn(func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	if err := rt.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if !ran.Load() {
		t.Error("spawned task did not run")
	}
}

func TestRuntimeShutdownCancelsTasks(t *testing.T) {
	rt := NewRuntime(nil)

	started := make(chan struct{})
	rt.Spawn(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return nil
	})
	<-started

	done := make(chan error, 1)
	go func() { done <- rt.Shutdown() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Shutdown: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown did not unblock the task")
	}
}

func TestRuntimeErrorPropagates(t *testing.T) {
	rt := NewRuntime(nil)
	boom := errors.New("boom")

	rt.Spawn(func(ctx context.Context) error { return boom })
	rt.Spawn(func(ctx context.Context) error {
		// The sibling failure cancels this task's context.
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(5 * time.Second):
			return errors.New("context was not canceled by sibling error")
		}
	})

	if err := rt.Shutdown(); !errors.Is(err, boom) {
		t.Errorf("Shutdown = %v, want the first task error", err)
	}
}

func TestRuntimeParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	rt := NewRuntime(parent)

	cancel()
	select {
	case <-rt.Context().Done():
	case <-time.After(5 * time.Second):
		t.Fatal("runtime context should follow its parent")
	}
	rt.Shutdown()
}
