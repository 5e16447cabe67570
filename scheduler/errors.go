package scheduler

import "errors"

var (
	ErrAlreadyStarted = errors.New("scheduler: worker already started")
	ErrDiscarded      = errors.New("scheduler: work item discarded after cancellation")
	ErrCompleted      = errors.New("scheduler: no further submissions accepted")
	ErrWorkItemPanic  = errors.New("scheduler: work item panicked")
	ErrInvalidQueue   = errors.New("scheduler: queue size must be positive")
)
