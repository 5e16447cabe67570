// Package memory provides an in-memory backup database for tests and demos.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/mwantia/backup-explorer/data"
	"github.com/mwantia/backup-explorer/store"
)

var errNotOpen = errors.New("memory: database not open")

// Hook is invoked before every facade operation with its name.
// A non-nil error aborts the operation.
type Hook func(ctx context.Context, op string) error

type MemoryDatabase struct {
	mu       sync.RWMutex
	catalogs map[string]*Catalog
	current  *Catalog
	hook     Hook
}

var _ store.Database = (*MemoryDatabase)(nil)

func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{
		catalogs: make(map[string]*Catalog),
	}
}

// Register makes catalog available under path for Open.
func (m *MemoryDatabase) Register(path string, catalog *Catalog) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.catalogs[path] = catalog
}

func (m *MemoryDatabase) SetHook(hook Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hook = hook
}

func (m *MemoryDatabase) Open(ctx context.Context, path string) error {
	if err := m.call(ctx, "open"); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	catalog, exists := m.catalogs[path]
	if !exists {
		return data.NewConnectionError(path, errors.New("no such database"))
	}

	m.current = catalog
	return nil
}

func (m *MemoryDatabase) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	return nil
}

func (m *MemoryDatabase) GetVersion(ctx context.Context) (int64, error) {
	catalog, err := m.open(ctx, "version")
	if err != nil {
		return 0, err
	}
	return catalog.Version, nil
}

func (m *MemoryDatabase) CheckCompatibility(version int64) error {
	return store.CheckCompatibility(version)
}

func (m *MemoryDatabase) GetFilesets(ctx context.Context) ([]data.Fileset, error) {
	catalog, err := m.open(ctx, "filesets")
	if err != nil {
		return nil, err
	}
	return append([]data.Fileset(nil), catalog.Filesets...), nil
}

func (m *MemoryDatabase) GetFilesInFileset(ctx context.Context, filesetID int64) ([]data.FileEntry, error) {
	catalog, err := m.open(ctx, "files")
	if err != nil {
		return nil, err
	}
	return append([]data.FileEntry(nil), catalog.files[filesetID]...), nil
}

func (m *MemoryDatabase) GetBlocksByBlocksetID(ctx context.Context, blocksetID int64) ([]int64, error) {
	catalog, err := m.open(ctx, "blocks")
	if err != nil {
		return nil, err
	}
	return append([]int64(nil), catalog.blocks[blocksetID]...), nil
}

func (m *MemoryDatabase) GetFilesetSize(ctx context.Context, filesetID int64) (int64, error) {
	catalog, err := m.open(ctx, "fileset-size")
	if err != nil {
		return 0, err
	}

	var total int64
	for _, e := range catalog.files[filesetID] {
		total += catalog.entrySize(e)
	}
	return total, nil
}

func (m *MemoryDatabase) GetTotalSize(ctx context.Context) (int64, error) {
	catalog, err := m.open(ctx, "total-size")
	if err != nil {
		return 0, err
	}

	var total int64
	for _, sizes := range catalog.blocks {
		for _, size := range sizes {
			total += size
		}
	}
	return total, nil
}

func (m *MemoryDatabase) WastedSpaceSum(ctx context.Context) (int64, error) {
	catalog, err := m.open(ctx, "wasted")
	if err != nil {
		return 0, err
	}
	return catalog.wasted, nil
}

func (m *MemoryDatabase) call(ctx context.Context, op string) error {
	m.mu.RLock()
	hook := m.hook
	m.mu.RUnlock()

	if hook != nil {
		return hook(ctx, op)
	}
	return nil
}

func (m *MemoryDatabase) open(ctx context.Context, op string) (*Catalog, error) {
	if err := m.call(ctx, op); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil, errNotOpen
	}
	return m.current, nil
}
