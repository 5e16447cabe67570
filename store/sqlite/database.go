// Package sqlite reads Duplicati local databases through the pure Go SQLite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/mwantia/backup-explorer/data"
	"github.com/mwantia/backup-explorer/log"
	"github.com/mwantia/backup-explorer/store"
	"github.com/tidwall/btree"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var errNotOpen = errors.New("sqlite: database not open")

// SQLiteDatabase is a read-only store.Database over a Duplicati job database.
//
// Path prefixes are loaded once on Open into an in-memory B-tree, so listing
// a fileset only touches FileLookup, FilesetEntry and Blockset.
type SQLiteDatabase struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
	log  *log.Logger

	prefixes *btree.Map[int64, string]
}

var _ store.Database = (*SQLiteDatabase)(nil)

func NewSQLiteDatabase(logger *log.Logger) *SQLiteDatabase {
	if logger == nil {
		logger = log.NewDiscard()
	}

	return &SQLiteDatabase{
		log:      logger,
		prefixes: btree.NewMap[int64, string](0),
	}
}

// Open connects read-only to path and validates the schema.
// An already open database is closed first.
func (sd *SQLiteDatabase) Open(ctx context.Context, path string) error {
	sd.mu.Lock()
	defer sd.mu.Unlock()

	sd.closeUnsafe()

	info, err := os.Stat(path)
	if err != nil {
		return data.NewConnectionError(path, err)
	}
	if info.IsDir() {
		return data.NewConnectionError(path, errors.New("is a directory"))
	}

	// Analyzed backups must never be written to
	dsn := (&url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro&_pragma=query_only(1)"}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return data.NewConnectionError(path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return data.NewConnectionError(path, err)
	}

	if err := validateSchema(ctx, db); err != nil {
		db.Close()
		return data.NewConnectionError(path, err)
	}

	prefixes, err := loadPrefixes(ctx, db)
	if err != nil {
		db.Close()
		return data.NewConnectionError(path, err)
	}

	sd.db = db
	sd.path = path
	sd.prefixes = prefixes

	sd.log.Debug("Opened '%s' with %d path prefixes", path, prefixes.Len())
	return nil
}

func (sd *SQLiteDatabase) Close() error {
	sd.mu.Lock()
	defer sd.mu.Unlock()

	return sd.closeUnsafe()
}

// closeUnsafe MUST be called while holding the write lock.
func (sd *SQLiteDatabase) closeUnsafe() error {
	if sd.db == nil {
		return nil
	}

	err := sd.db.Close()
	sd.db = nil
	sd.path = ""
	sd.prefixes.Clear()
	return err
}

func (sd *SQLiteDatabase) GetVersion(ctx context.Context) (int64, error) {
	db, err := sd.conn()
	if err != nil {
		return 0, err
	}

	var version int64
	if err := db.QueryRowContext(ctx, queryVersion).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read database version: %w", err)
	}
	return version, nil
}

func (sd *SQLiteDatabase) CheckCompatibility(version int64) error {
	return store.CheckCompatibility(version)
}

func (sd *SQLiteDatabase) GetFilesets(ctx context.Context) ([]data.Fileset, error) {
	db, err := sd.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, queryFilesets)
	if err != nil {
		return nil, fmt.Errorf("failed to list filesets: %w", err)
	}
	defer rows.Close()

	var filesets []data.Fileset
	for rows.Next() {
		var fs data.Fileset
		var timestamp int64
		var volumeID sql.NullInt64

		if err := rows.Scan(&fs.ID, &timestamp, &volumeID); err != nil {
			return nil, err
		}

		fs.Timestamp = time.Unix(timestamp, 0).UTC()
		if volumeID.Valid {
			fs.VolumeID = volumeID.Int64
		}
		filesets = append(filesets, fs)
	}

	return filesets, rows.Err()
}

func (sd *SQLiteDatabase) GetFilesInFileset(ctx context.Context, filesetID int64) ([]data.FileEntry, error) {
	db, err := sd.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, queryFilesInFileset, filesetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files of fileset %d: %w", filesetID, err)
	}
	defer rows.Close()

	sd.mu.RLock()
	defer sd.mu.RUnlock()

	var entries []data.FileEntry
	for rows.Next() {
		var prefixID, blocksetID int64
		var path string
		var length sql.NullInt64

		if err := rows.Scan(&prefixID, &path, &blocksetID, &length); err != nil {
			return nil, err
		}

		entry := data.FileEntry{
			Path:      path,
			ContentID: blocksetID,
		}
		if prefix, exists := sd.prefixes.Get(prefixID); exists {
			entry.Prefix = prefix
		}
		if length.Valid && blocksetID >= 0 {
			size := length.Int64
			entry.Size = &size
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (sd *SQLiteDatabase) GetBlocksByBlocksetID(ctx context.Context, blocksetID int64) ([]int64, error) {
	db, err := sd.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, queryBlocksByBlockset, blocksetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks of blockset %d: %w", blocksetID, err)
	}
	defer rows.Close()

	var sizes []int64
	for rows.Next() {
		var size int64
		if err := rows.Scan(&size); err != nil {
			return nil, err
		}
		sizes = append(sizes, size)
	}

	return sizes, rows.Err()
}

func (sd *SQLiteDatabase) GetFilesetSize(ctx context.Context, filesetID int64) (int64, error) {
	return sd.scalar(ctx, queryFilesetSize, filesetID)
}

func (sd *SQLiteDatabase) GetTotalSize(ctx context.Context) (int64, error) {
	return sd.scalar(ctx, queryTotalSize)
}

func (sd *SQLiteDatabase) WastedSpaceSum(ctx context.Context) (int64, error) {
	return sd.scalar(ctx, queryWastedSpace)
}

func (sd *SQLiteDatabase) scalar(ctx context.Context, query string, args ...any) (int64, error) {
	db, err := sd.conn()
	if err != nil {
		return 0, err
	}

	var value int64
	if err := db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}

func (sd *SQLiteDatabase) conn() (*sql.DB, error) {
	sd.mu.RLock()
	defer sd.mu.RUnlock()

	if sd.db == nil {
		return nil, errNotOpen
	}
	return sd.db, nil
}

func validateSchema(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, queryTables)
	if err != nil {
		return err
	}
	defer rows.Close()

	tables := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		tables[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, table := range requiredTables {
		if !tables[table] {
			return fmt.Errorf("missing table '%s'", table)
		}
	}
	return nil
}

func loadPrefixes(ctx context.Context, db *sql.DB) (*btree.Map[int64, string], error) {
	rows, err := db.QueryContext(ctx, queryPrefixes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prefixes := btree.NewMap[int64, string](0)
	for rows.Next() {
		var id int64
		var prefix string
		if err := rows.Scan(&id, &prefix); err != nil {
			return nil, err
		}
		prefixes.Set(id, prefix)
	}

	return prefixes, rows.Err()
}
