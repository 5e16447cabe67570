package scheduler

import (
	"context"

	"github.com/google/uuid"
)

// Handle tracks a submitted work item until it finishes, fails or is discarded.
type Handle struct {
	id   uuid.UUID
	done chan struct{}
	err  error
}

func newHandle() *Handle {
	return &Handle{
		id:   uuid.Must(uuid.NewV7()),
		done: make(chan struct{}),
	}
}

func (h *Handle) ID() uuid.UUID {
	return h.id
}

// Done is closed once the work item reached a final state.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the outcome of the work item. Only valid after Done is closed.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Wait suspends the caller until the work item completed or ctx ends.
// Abandoning the wait does not cancel the work item.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Handle) resolve(err error) {
	h.err = err
	close(h.done)
}
