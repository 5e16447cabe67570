package explorer

import (
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/mwantia/backup-explorer/data"
	"github.com/mwantia/backup-explorer/log"
	"github.com/mwantia/backup-explorer/metrics"
)

// Ledger records which backups hold a materialized tree, ordered by their
// last materialization. Exceeding the bound evicts the least recently
// touched backup, which keeps only its size afterwards.
type Ledger struct {
	mu  sync.Mutex
	lru *simplelru.LRU
	log *log.Logger
}

func NewLedger(max int, logger *log.Logger) (*Ledger, error) {
	if max < 1 {
		return nil, ErrInvalidMaxLoaded
	}

	l := &Ledger{log: logger}
	lru, err := simplelru.NewLRU(max, l.evicted)
	if err != nil {
		return nil, err
	}

	l.lru = lru
	return l, nil
}

// Touch moves backup to the most recently used position, inserting it when
// absent, then trims the ledger to its bound. The touched backup itself is
// never evicted.
func (l *Ledger) Touch(backup *data.Backup) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lru.Add(backup, backup)
	metrics.SetFilesetsLoaded(l.lru.Len())
}

// Loaded returns the fileset ids most recently used first.
func (l *Ledger) Loaded() []int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	keys := l.lru.Keys()
	ids := make([]int64, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		ids = append(ids, keys[i].(*data.Backup).Fileset.ID)
	}
	return ids
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.lru.Len()
}

// Reset evicts every entry.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lru.Purge()
	metrics.SetFilesetsLoaded(0)
}

func (l *Ledger) evicted(_, value any) {
	backup := value.(*data.Backup)
	if backup.Evict() {
		metrics.FilesetEvicted()
		l.log.Debug("Evicted fileset %d from the ledger", backup.Fileset.ID)
	}
}
