package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/mwantia/backup-explorer/log"
	"github.com/mwantia/backup-explorer/metrics"
)

type State int

const (
	StateCreated State = iota
	StateRunning
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

type workItem struct {
	ctx    context.Context
	fn     func(context.Context) error
	handle *Handle
}

// Scheduler serializes work items onto a single worker goroutine.
//
// Items execute in the order they reach the queue. A work item that submits
// another item with the context it was handed runs that item inline, since
// queuing it behind itself would never complete.
type Scheduler struct {
	mu  sync.Mutex
	log *log.Logger
	ctx context.Context

	// send is held shared by blocked senders and exclusively while the
	// queue is closed or drained, so nothing is sent on a closed queue.
	send sync.RWMutex

	queue     chan *workItem
	closing   chan struct{}
	current   *workItem
	state     State
	started   bool
	completed bool
	done      chan struct{}
}

func New(opts ...Option) (*Scheduler, error) {
	options := newDefaultOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	return &Scheduler{
		log:   options.Logger,
		ctx:   options.Context,
		queue:   make(chan *workItem, options.QueueSize),
		closing: make(chan struct{}),
		state:   StateCreated,
		done:    make(chan struct{}),
	}, nil
}

// Start launches the worker. Only the first call has an effect.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}

	s.started = true
	s.advance(StateRunning)

	go s.run()
	return nil
}

// Complete stops accepting submissions. The worker drains the backlog and stops.
// Safe to call from a work item.
func (s *Scheduler) Complete() {
	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		return
	}
	s.completed = true
	close(s.closing)
	s.advance(StateDraining)
	s.mu.Unlock()

	// Blocked senders leave through closing before the queue is closed.
	s.send.Lock()
	close(s.queue)
	s.send.Unlock()
}

// Done is closed when the worker has stopped.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Submit queues fn for execution on the worker and never blocks past
// cancellation. Items submitted after cancellation resolve with ErrDiscarded.
func (s *Scheduler) Submit(ctx context.Context, fn func(context.Context) error) *Handle {
	handle := newHandle()
	metrics.WorkItemSubmitted()

	if s.OnWorker(ctx) {
		metrics.WorkItemInline()
		s.log.Debug("Work item %s executes inline", handle.id)

		handle.resolve(s.execute(ctx, fn))
		return handle
	}

	s.send.RLock()
	defer s.send.RUnlock()

	s.mu.Lock()
	stopped, completed := s.state == StateStopped, s.completed
	s.mu.Unlock()

	if stopped || s.ctx.Err() != nil {
		s.discard(handle)
		return handle
	}

	if completed {
		handle.resolve(ErrCompleted)
		return handle
	}

	item := &workItem{ctx: ctx, fn: fn, handle: handle}
	select {
	case s.queue <- item:
		metrics.QueueDepthInc()
		s.log.Debug("Work item %s queued", handle.id)
	case <-s.closing:
		handle.resolve(ErrCompleted)
	case <-s.ctx.Done():
		s.discard(handle)
	case <-ctx.Done():
		handle.resolve(ctx.Err())
	}

	return handle
}

// Do submits fn and waits for it to finish.
func (s *Scheduler) Do(ctx context.Context, fn func(context.Context) error) error {
	return s.Submit(ctx, fn).Wait(ctx)
}

// Run submits a work item producing a value and waits for its result.
func Run[T any](ctx context.Context, s *Scheduler, fn func(context.Context) (T, error)) (T, error) {
	var result T
	handle := s.Submit(ctx, func(ctx context.Context) error {
		value, err := fn(ctx)
		if err != nil {
			return err
		}
		result = value
		return nil
	})

	if err := handle.Wait(ctx); err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}

func (s *Scheduler) run() {
	defer s.stop()

	s.log.Debug("Worker started")
	for {
		select {
		case <-s.ctx.Done():
			s.log.Debug("Worker observed cancellation")
			return
		case item, ok := <-s.queue:
			if !ok {
				s.log.Debug("Worker drained queue")
				return
			}
			metrics.QueueDepthDec()

			if s.ctx.Err() != nil {
				s.discard(item.handle)
				return
			}

			s.dispatch(item)
		}
	}
}

func (s *Scheduler) dispatch(item *workItem) {
	if err := item.ctx.Err(); err != nil {
		item.handle.resolve(err)
		return
	}

	s.mu.Lock()
	s.current = item
	s.mu.Unlock()

	wctx := &workerContext{Context: item.ctx, owner: s, item: item}
	err := s.execute(wctx, item.fn)

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err != nil {
		s.log.Debug("Work item %s failed: %v", item.handle.id, err)
	}

	item.handle.resolve(err)
}

func (s *Scheduler) execute(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrWorkItemPanic, r)
		}
		metrics.WorkItemExecuted(err)
	}()

	return fn(ctx)
}

// stop discards whatever is still queued and marks the worker stopped.
// Holding send keeps new items out until the state reads stopped.
func (s *Scheduler) stop() {
	s.send.Lock()
	defer s.send.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		select {
		case item, ok := <-s.queue:
			if !ok {
				s.finish()
				return
			}
			metrics.QueueDepthDec()
			s.discard(item.handle)
		default:
			s.finish()
			return
		}
	}
}

func (s *Scheduler) finish() {
	s.advance(StateStopped)
	close(s.done)
	s.log.Debug("Worker stopped")
}

func (s *Scheduler) discard(handle *Handle) {
	metrics.WorkItemDiscarded()
	handle.resolve(ErrDiscarded)
}

// advance moves the state forward only.
// MUST be called while holding s.mu.
func (s *Scheduler) advance(state State) {
	if state > s.state {
		s.state = state
	}
}
