package cmd

import (
	"context"
	"io"

	"github.com/mwantia/backup-explorer/data"
)

// API is the part of the explorer that commands operate on.
type API interface {
	// LoadAll opens the database at path and replaces the catalog.
	LoadAll(ctx context.Context, path string) error

	// Path returns the currently loaded database path.
	Path() string

	// Backups returns the catalog, newest first.
	Backups() []*data.Backup

	// Backup returns the catalog entry of a fileset.
	Backup(id int64) (*data.Backup, bool)

	// Select points the selection at backup, loading its tree in the background.
	Select(backup *data.Backup)

	// Selected returns the backup the selection currently names.
	Selected() *data.Backup

	// FileTree returns the tree of backup, materializing it if needed.
	FileTree(ctx context.Context, backup *data.Backup) (*data.FileTree, error)

	// Compare classifies the files of left against right.
	Compare(ctx context.Context, left, right *data.FileTree) error

	// CompareToAll classifies the files of left against every backup.
	CompareToAll(ctx context.Context, left *data.FileTree) error

	// Totals returns the size of all stored blocks and of the unreferenced ones.
	Totals() (size, wasted int64)

	// Loaded returns the ids of materialized filesets, most recently used first.
	Loaded() []int64
}

// Command represents an executable explorer command.
type Command interface {
	// Name returns the command identifier
	Name() string

	// Description returns human-readable help text
	Description() string

	// Usage returns a usage string for help (e.g. "tree [--depth n] [id]")
	Usage() string

	// Execute runs the command with parsed arguments
	// The writer parameter is where command output should be written
	// Returns exit code (0 = success) and error message
	Execute(ctx context.Context, api API, args *CommandArgs, writer io.Writer) (int, error)

	// GetFlags returns the flag set for this command (this is optional)
	GetFlags() *CommandFlagSet
}
