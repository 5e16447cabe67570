package explorer

import (
	"context"
	"errors"
	"time"

	"github.com/mwantia/backup-explorer/data"
	"github.com/mwantia/backup-explorer/metrics"
)

// Select points the selection at backup. A materialized tree is published
// immediately; otherwise a placeholder is shown and the lazy loader picks
// the backup up on its next poll.
func (e *Explorer) Select(backup *data.Backup) {
	tree := backup.FileTree()

	e.mu.Lock()
	e.selected = backup
	if tree == nil {
		e.pending = backup
	} else {
		e.pending = nil
	}
	e.mu.Unlock()

	if tree == nil {
		e.log.Debug("Fileset %d selected, waiting for lazy load", backup.Fileset.ID)
		tree = data.NewFileTree(loadingTreeName)
	}

	e.sink.ShowFileTree(tree)
}

// Selected returns the backup the selection currently names.
func (e *Explorer) Selected() *data.Backup {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.selected
}

// Pending returns the selected backup waiting for its tree, if any.
func (e *Explorer) Pending() *data.Backup {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.pending
}

// RunLazyLoader polls for a pending selection until ctx is cancelled.
// A load whose backup is no longer selected when it finishes is not published.
func (e *Explorer) RunLazyLoader(ctx context.Context) error {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	e.log.Debug("Lazy loader started with interval %s", e.pollInterval)
	for {
		if err := e.lazyLoad(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.log.Error("Lazy load failed: %v", err)
		}

		select {
		case <-ctx.Done():
			e.log.Debug("Lazy loader stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (e *Explorer) lazyLoad(ctx context.Context) error {
	backup := e.Pending()
	if backup == nil {
		return nil
	}

	e.progress.show(true)
	tree, err := e.FileTree(ctx, backup)
	e.progress.show(false)

	e.mu.Lock()
	publish := err == nil && e.selected == backup
	if e.pending == backup {
		e.pending = nil
	}
	e.mu.Unlock()

	if errors.Is(err, ErrNotInCatalog) {
		metrics.LazyLoad("superseded")
		e.log.Debug("Fileset %d dropped, the catalog was replaced", backup.Fileset.ID)
		return nil
	}
	if err != nil {
		if !cancelled(err) {
			e.sink.ShowError("Error loading Backup", err.Error())
		}
		return err
	}

	if !publish {
		metrics.LazyLoad("superseded")
		e.log.Debug("Fileset %d loaded after its selection changed", backup.Fileset.ID)
		return nil
	}

	metrics.LazyLoad("published")
	e.sink.ShowFileTree(tree)
	return nil
}
