package scheduler

import (
	"context"

	"github.com/mwantia/backup-explorer/log"
)

type Options struct {
	Context   context.Context
	QueueSize int
	Logger    *log.Logger
}

type Option func(*Options) error

func newDefaultOptions() *Options {
	return &Options{
		Context:   context.Background(),
		QueueSize: 64,
		Logger:    log.NewDiscard(),
	}
}

// WithContext sets the cancellation signal observed by the worker.
func WithContext(ctx context.Context) Option {
	return func(opts *Options) error {
		opts.Context = ctx
		return nil
	}
}

// WithQueueSize bounds the number of queued but unstarted work items.
func WithQueueSize(size int) Option {
	return func(opts *Options) error {
		if size <= 0 {
			return ErrInvalidQueue
		}
		opts.QueueSize = size
		return nil
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(opts *Options) error {
		opts.Logger = logger
		return nil
	}
}
