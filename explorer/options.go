package explorer

import (
	"errors"
	"time"

	"github.com/mwantia/backup-explorer/log"
)

var (
	ErrInvalidMaxLoaded    = errors.New("explorer: max loaded filesets must be at least 1")
	ErrInvalidPollInterval = errors.New("explorer: poll interval must be positive")
	ErrNotInCatalog        = errors.New("explorer: backup is not part of the loaded catalog")
)

type Options struct {
	MaxLoaded    int
	PollInterval time.Duration
	Logger       *log.Logger
}

type Option func(*Options) error

func newDefaultOptions() *Options {
	return &Options{
		MaxLoaded:    5,
		PollInterval: 100 * time.Millisecond,
		Logger:       log.NewDiscard(),
	}
}

// WithMaxLoaded bounds the number of filesets holding a materialized tree.
func WithMaxLoaded(max int) Option {
	return func(opts *Options) error {
		if max < 1 {
			return ErrInvalidMaxLoaded
		}
		opts.MaxLoaded = max
		return nil
	}
}

// WithPollInterval sets the delay between two lazy loader checks.
func WithPollInterval(interval time.Duration) Option {
	return func(opts *Options) error {
		if interval <= 0 {
			return ErrInvalidPollInterval
		}
		opts.PollInterval = interval
		return nil
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(opts *Options) error {
		opts.Logger = logger
		return nil
	}
}
