// Package explorer keeps the catalog of an opened backup database and
// decides which filesets are materialized as trees.
//
// Every access to the database runs on the scheduler. At most MaxLoaded
// backups hold a tree at rest; materializing another one evicts the least
// recently materialized. Selecting an unmaterialized backup hands it to the
// lazy loader, which publishes the tree only while the selection still names
// that backup.
package explorer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mwantia/backup-explorer/data"
	"github.com/mwantia/backup-explorer/log"
	"github.com/mwantia/backup-explorer/metrics"
	"github.com/mwantia/backup-explorer/scheduler"
	"github.com/mwantia/backup-explorer/store"
)

// ServerDatabaseName is the file name of the Duplicati server database,
// which holds job settings instead of a backup.
const ServerDatabaseName = "Duplicati-server.sqlite"

const loadingTreeName = "Loading..."

type Explorer struct {
	mu    sync.Mutex
	db    store.Database
	sched *scheduler.Scheduler
	sink  Sink
	log   *log.Logger

	ledger       *Ledger
	progress     *progress
	pollInterval time.Duration
	maxLoaded    int

	path     string
	backups  []*data.Backup
	size     int64
	wasted   int64
	selected *data.Backup
	pending  *data.Backup
	members  map[*data.Backup]struct{}
}

func New(db store.Database, sched *scheduler.Scheduler, sink Sink, opts ...Option) (*Explorer, error) {
	options := newDefaultOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	if sink == nil {
		sink = NopSink{}
	}

	ledger, err := NewLedger(options.MaxLoaded, options.Logger)
	if err != nil {
		return nil, err
	}

	return &Explorer{
		db:           db,
		sched:        sched,
		sink:         sink,
		log:          options.Logger,
		ledger:       ledger,
		progress:     newProgress(sink),
		pollInterval: options.PollInterval,
		maxLoaded:    options.MaxLoaded,
	}, nil
}

type catalog struct {
	backups []*data.Backup
	size    int64
	wasted  int64
}

// LoadAll opens the database at path and replaces the catalog.
// On failure or cancellation the catalog is left empty with zero totals.
func (e *Explorer) LoadAll(ctx context.Context, path string) error {
	if strings.HasSuffix(path, ServerDatabaseName) {
		e.fail(path, data.ErrServerDatabase)
		return data.ErrServerDatabase
	}

	session := uuid.New()
	start := time.Now()
	defer metrics.ObserveLoad(start)

	e.log.Info("Loading database '%s' (session %s)", path, session)
	e.clear()

	e.progress.show(true)
	defer e.progress.show(false)

	loaded, err := scheduler.Run(ctx, e.sched, func(ctx context.Context) (*catalog, error) {
		return e.loadBackups(ctx, path)
	})
	if err != nil {
		e.reset(ctx)
		if cancelled(err) {
			e.log.Info("Loading database '%s' cancelled (session %s)", path, session)
			return err
		}

		e.log.Error("Unable to load database '%s' (session %s): %v", path, session, err)
		e.fail(path, err)
		return err
	}

	e.mu.Lock()
	e.path = path
	e.backups = loaded.backups
	e.size = loaded.size
	e.wasted = loaded.wasted
	e.mu.Unlock()

	e.sink.SetTotals(loaded.size, loaded.wasted)
	e.log.Info("Loaded %d backups from '%s' in %s (session %s)", len(loaded.backups), path, time.Since(start), session)
	return nil
}

// Close releases the database on the worker. When the scheduler was
// cancelled, the database is closed once the worker has stopped.
func (e *Explorer) Close(ctx context.Context) error {
	err := e.sched.Do(ctx, func(context.Context) error {
		return e.db.Close()
	})
	if !errors.Is(err, scheduler.ErrDiscarded) {
		return err
	}

	select {
	case <-e.sched.Done():
		return e.db.Close()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EnsureMaterialized loads the tree of backup unless it already has one.
func (e *Explorer) EnsureMaterialized(ctx context.Context, backup *data.Backup) error {
	_, err := e.FileTree(ctx, backup)
	return err
}

// FileTree returns the tree of backup, materializing it if needed.
func (e *Explorer) FileTree(ctx context.Context, backup *data.Backup) (*data.FileTree, error) {
	return scheduler.Run(ctx, e.sched, func(ctx context.Context) (*data.FileTree, error) {
		if err := e.loadFileset(ctx, backup, 100); err != nil {
			return nil, err
		}
		return backup.FileTree(), nil
	})
}

// Backups returns the catalog, newest first.
func (e *Explorer) Backups() []*data.Backup {
	e.mu.Lock()
	defer e.mu.Unlock()

	return slices.Clone(e.backups)
}

// Backup returns the catalog entry of a fileset.
func (e *Explorer) Backup(id int64) (*data.Backup, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, backup := range e.backups {
		if backup.Fileset.ID == id {
			return backup, true
		}
	}
	return nil, false
}

// Totals returns the size of all stored blocks and of the unreferenced ones.
func (e *Explorer) Totals() (size, wasted int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.size, e.wasted
}

func (e *Explorer) Path() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.path
}

// Loaded returns the ids of materialized filesets, most recently used first.
func (e *Explorer) Loaded() []int64 {
	return e.ledger.Loaded()
}

// MaxLoaded returns the ledger bound.
func (e *Explorer) MaxLoaded() int {
	return e.maxLoaded
}

// reset empties the ledger behind any running work item, then the catalog.
func (e *Explorer) reset(ctx context.Context) {
	err := e.sched.Do(context.WithoutCancel(ctx), func(context.Context) error {
		e.ledger.Reset()
		return nil
	})
	if err != nil {
		e.ledger.Reset()
	}

	e.clear()
}

func (e *Explorer) clear() {
	e.mu.Lock()
	e.path = ""
	e.backups = nil
	e.size = 0
	e.wasted = 0
	e.selected = nil
	e.pending = nil
	e.members = nil
	e.mu.Unlock()

	e.sink.SetTotals(0, 0)
}

func (e *Explorer) fail(path string, err error) {
	e.sink.ShowError("Error opening Database",
		fmt.Sprintf("An error occurred when trying to load the database file '%s': %v", path, err))
}

func cancelled(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, scheduler.ErrDiscarded)
}
