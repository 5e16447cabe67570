// Package store defines the read-only facade over a backup database.
package store

import (
	"context"

	"github.com/mwantia/backup-explorer/data"
)

// Supported database schema versions.
const (
	MinSupportedVersion int64 = 12
	MaxSupportedVersion int64 = 16
)

// Database is the read-only view of a backup database used by the explorer.
// Implementations are not safe for concurrent use; callers serialize access.
type Database interface {
	// Open connects to the database at path. It fails with a
	// data.ConnectionError when the file is unreadable or its schema is invalid.
	Open(ctx context.Context, path string) error
	// Close releases the connection. Closing an unopened database is a no-op.
	Close() error

	// GetVersion returns the schema version recorded in the database.
	GetVersion(ctx context.Context) (int64, error)
	// CheckCompatibility fails with a data.UnsupportedVersionError outside the supported range.
	CheckCompatibility(version int64) error

	// GetFilesets returns all snapshots, newest first.
	GetFilesets(ctx context.Context) ([]data.Fileset, error)
	// GetFilesInFileset lists the entries of one snapshot.
	GetFilesInFileset(ctx context.Context, filesetID int64) ([]data.FileEntry, error)
	// GetBlocksByBlocksetID returns the block sizes of a blockset in order.
	GetBlocksByBlocksetID(ctx context.Context, blocksetID int64) ([]int64, error)
	// GetFilesetSize returns the summed file sizes of one snapshot.
	GetFilesetSize(ctx context.Context, filesetID int64) (int64, error)
	// GetTotalSize returns the size of all stored blocks.
	GetTotalSize(ctx context.Context) (int64, error)
	// WastedSpaceSum returns the size of blocks no longer referenced by any snapshot.
	WastedSpaceSum(ctx context.Context) (int64, error)
}

// CheckCompatibility validates version against the supported range.
func CheckCompatibility(version int64) error {
	if version < MinSupportedVersion || version > MaxSupportedVersion {
		return &data.UnsupportedVersionError{
			Version: version,
			Min:     MinSupportedVersion,
			Max:     MaxSupportedVersion,
		}
	}
	return nil
}
