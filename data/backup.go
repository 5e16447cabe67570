package data

import "sync"

// Backup pairs a fileset with an optional materialized FileTree.
type Backup struct {
	Fileset Fileset

	mu   sync.RWMutex
	tree *FileTree
	size int64
}

func NewBackup(fileset Fileset) *Backup {
	return &Backup{
		Fileset: fileset,
		size:    -1,
	}
}

func (b *Backup) FileTree() *FileTree {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.tree
}

func (b *Backup) Materialized() bool {
	return b.FileTree() != nil
}

// SetFileTree attaches a tree and drops any scalar size so that Size is
// derived from the tree root.
func (b *Backup) SetFileTree(tree *FileTree) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tree = tree
	b.size = -1
}

// SetSize stores a stats-only size. It is ignored while a tree is attached.
func (b *Backup) SetSize(size int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.tree == nil {
		b.size = size
	}
}

// Size returns the scalar size or the cumulative size of the tree root.
func (b *Backup) Size() (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size >= 0 {
		return b.size, nil
	}
	if b.tree == nil {
		return 0, ErrSizeUnknown
	}

	b.size = b.tree.Size()
	return b.size, nil
}

// Evict drops the tree and keeps only its size.
// It returns false when nothing was materialized.
func (b *Backup) Evict() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.tree == nil {
		return false
	}

	b.size = b.tree.Size()
	b.tree = nil
	return true
}

func (b *Backup) String() string {
	return b.Fileset.String()
}
