package explorer

import (
	"context"
	"fmt"

	"github.com/mwantia/backup-explorer/data"
	"github.com/mwantia/backup-explorer/metrics"
)

// loadBackups reads the catalog. MUST run on the worker.
func (e *Explorer) loadBackups(ctx context.Context, path string) (*catalog, error) {
	e.ledger.Reset()

	e.mu.Lock()
	e.members = make(map[*data.Backup]struct{})
	e.mu.Unlock()
	e.progress.set(3, "Opening database... (%.0f %%)")

	if err := e.db.Close(); err != nil {
		e.log.Warn("Unable to close previous database: %v", err)
	}
	if err := e.db.Open(ctx, path); err != nil {
		return nil, err
	}

	version, err := e.db.GetVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}
	if err := e.db.CheckCompatibility(version); err != nil {
		return nil, err
	}

	e.progress.set(10, "")

	filesets, err := e.db.GetFilesets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list filesets: %w", err)
	}

	size, err := e.db.GetTotalSize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read total size: %w", err)
	}

	var step float64
	if len(filesets) > 0 {
		step = (100 - e.progress.current()) / float64(len(filesets))
	}

	backups := make([]*data.Backup, 0, len(filesets))
	for i, fileset := range filesets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		backup := data.NewBackup(fileset)
		e.mu.Lock()
		e.members[backup] = struct{}{}
		e.mu.Unlock()

		if i < e.maxLoaded {
			err = e.loadFileset(ctx, backup, 0)
		} else {
			err = e.loadStats(ctx, backup)
		}
		if err != nil {
			return nil, err
		}

		e.progress.add(step)
		backups = append(backups, backup)
	}

	wasted, err := e.db.WastedSpaceSum(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read wasted space: %w", err)
	}

	return &catalog{
		backups: backups,
		size:    size,
		wasted:  wasted,
	}, nil
}

// loadFileset materializes backup and records it in the ledger.
// detailed is the progress share spread over the files. MUST run on the worker.
func (e *Explorer) loadFileset(ctx context.Context, backup *data.Backup, detailed float64) error {
	if backup.Materialized() {
		return nil
	}
	if !e.catalogued(backup) {
		return fmt.Errorf("%w: fileset %d", ErrNotInCatalog, backup.Fileset.ID)
	}

	tree, err := e.readFileTree(ctx, backup, detailed)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !e.catalogued(backup) {
		return fmt.Errorf("%w: fileset %d", ErrNotInCatalog, backup.Fileset.ID)
	}

	backup.SetFileTree(tree)
	e.ledger.Touch(backup)
	metrics.FilesetMaterialized()

	e.log.Debug("Materialized fileset %d with %d files", backup.Fileset.ID, tree.FileCount())
	return nil
}

// catalogued reports whether backup belongs to the catalog being loaded or
// published. Backups of a replaced catalog never enter the ledger again.
func (e *Explorer) catalogued(backup *data.Backup) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.members[backup]
	return ok
}

// readFileTree builds the tree of backup without attaching it.
func (e *Explorer) readFileTree(ctx context.Context, backup *data.Backup, detailed float64) (*data.FileTree, error) {
	e.progress.label(fmt.Sprintf("Loading fileset %s (%%.0f %%%%)", backup))

	entries, err := e.db.GetFilesInFileset(ctx, backup.Fileset.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files of fileset %d: %w", backup.Fileset.ID, err)
	}

	var step float64
	if len(entries) > 0 {
		step = detailed / float64(len(entries))
	}

	tree := data.NewBackupTree(backup)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		size, err := e.entrySize(ctx, entry)
		if err != nil {
			return nil, err
		}

		if _, err := tree.AddPath(entry.FullPath(), entry.ContentID, size); err != nil {
			e.log.Warn("Skipping entry '%s' of fileset %d: %v", entry.FullPath(), backup.Fileset.ID, err)
		}

		if step > 0 {
			e.progress.add(step)
		}
	}

	return tree, nil
}

func (e *Explorer) entrySize(ctx context.Context, entry data.FileEntry) (int64, error) {
	if entry.Size != nil {
		return *entry.Size, nil
	}
	if entry.ContentID < 0 {
		return 0, nil
	}

	blocks, err := e.db.GetBlocksByBlocksetID(ctx, entry.ContentID)
	if err != nil {
		return 0, fmt.Errorf("failed to read blocks of blockset %d: %w", entry.ContentID, err)
	}

	var size int64
	for _, block := range blocks {
		size += block
	}
	return size, nil
}

// loadStats reads only the size of backup. MUST run on the worker.
func (e *Explorer) loadStats(ctx context.Context, backup *data.Backup) error {
	e.progress.label(fmt.Sprintf("Loading fileset stats %s (%%.0f %%%%)", backup))
	if backup.Materialized() {
		return nil
	}

	size, err := e.db.GetFilesetSize(ctx, backup.Fileset.ID)
	if err != nil {
		return fmt.Errorf("failed to read size of fileset %d: %w", backup.Fileset.ID, err)
	}

	backup.SetSize(size)
	return nil
}
