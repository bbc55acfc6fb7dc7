package rowan

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Runtime is the explicitly constructed task pool components use for
// asynchronous work. It is passed through SceneContext rather than living
// in a package global, so init and teardown are always visible at the call
// site. Spawned tasks share one context and are collected by Shutdown.
type Runtime struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
}

// NewRuntime creates a task runtime rooted at parent. Passing nil uses
// context.Background.
func NewRuntime(parent context.Context) *Runtime {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	group, gctx := errgroup.WithContext(ctx)
	return &Runtime{ctx: gctx, cancel: cancel, group: group}
}

// Context returns the runtime's context. It is canceled by Shutdown or by
// the first task error.
func (r *Runtime) Context() context.Context {
	return r.ctx
}

// Spawn starts fn on its own goroutine. The function should return promptly
// once its context is canceled; a non-nil error cancels the whole runtime
// and is reported by Shutdown.
func (r *Runtime) Spawn(fn func(ctx context.Context) error) {
	r.group.Go(func() error {
		return fn(r.ctx)
	})
}

// Shutdown cancels all tasks and blocks until they return, reporting the
// first task error if any.
func (r *Runtime) Shutdown() error {
	r.cancel()
	return r.group.Wait()
}
