package explorer

import (
	"context"
	"fmt"

	"github.com/mwantia/backup-explorer/compare"
	"github.com/mwantia/backup-explorer/data"
	"github.com/mwantia/backup-explorer/scheduler"
)

// Compare classifies the files of left against right and refreshes the
// directory aggregates of left. It runs on the calling goroutine.
func (e *Explorer) Compare(ctx context.Context, left, right *data.FileTree) error {
	e.log.Info("Comparing '%s' with '%s'", left.Name, right.Name)

	return e.runComparison(left, func(progress compare.ProgressFunc) error {
		return compare.CompareOne(ctx, left, right, progress)
	})
}

// CompareToAll classifies the files of left against the content of every
// backup in the catalog except the one left was read from. Backups without
// a tree are read for the duration of the comparison only and do not enter
// the ledger.
func (e *Explorer) CompareToAll(ctx context.Context, left *data.FileTree) error {
	e.log.Info("Comparing '%s' with all backups", left.Name)

	backups := e.Backups()
	trees := make([]*data.FileTree, 0, len(backups))
	for _, backup := range backups {
		if backup == left.Owner() {
			continue
		}

		tree := backup.FileTree()
		if tree == nil {
			var err error
			tree, err = scheduler.Run(ctx, e.sched, func(ctx context.Context) (*data.FileTree, error) {
				return e.readFileTree(ctx, backup, 0)
			})
			if err != nil {
				return fmt.Errorf("failed to read fileset %d: %w", backup.Fileset.ID, err)
			}
		}
		trees = append(trees, tree)
	}

	return e.runComparison(left, func(progress compare.ProgressFunc) error {
		return compare.CompareMany(ctx, left, trees, progress)
	})
}

func (e *Explorer) runComparison(left *data.FileTree, fn func(compare.ProgressFunc) error) error {
	e.progress.show(true)
	defer e.progress.show(false)

	var step float64
	if count := left.FileCount(); count > 0 {
		step = 100 / float64(count)
	}

	e.progress.set(5, fmt.Sprintf("Comparing %s (%%.0f %%%%)", left.Name))
	if err := fn(func(*data.FileNode) { e.progress.add(step) }); err != nil {
		return err
	}

	compare.UpdateDirectoryAggregates(left)
	return nil
}
