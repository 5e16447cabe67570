package scheduler

import "context"

type workerKey struct{}

// workerContext marks the context handed to a work item while it executes.
// Derived contexts keep the mark through Value.
type workerContext struct {
	context.Context

	owner *Scheduler
	item  *workItem
}

func (c *workerContext) Value(key any) any {
	if _, ok := key.(workerKey); ok {
		return c
	}
	return c.Context.Value(key)
}

// OnWorker reports whether ctx belongs to the work item s is executing right now.
// A context kept after its item finished no longer counts.
func (s *Scheduler) OnWorker(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	wctx, ok := ctx.Value(workerKey{}).(*workerContext)
	if !ok || wctx.owner != s {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current != nil && s.current == wctx.item
}
