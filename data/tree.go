package data

import (
	"fmt"
	"sync"

	"github.com/tidwall/btree"
)

// FileTree is the materialized hierarchy of a fileset.
// The root is a synthetic directory without a name; top level path
// segments (drive letters, "/" children) are its children.
type FileTree struct {
	Name string

	mu    sync.RWMutex
	root  *FileNode
	index *btree.Map[string, *FileNode]
	files int
	owner *Backup
}

func NewFileTree(name string) *FileTree {
	return &FileTree{
		Name:  name,
		root:  newDirectory("", "", nil),
		index: btree.NewMap[string, *FileNode](0),
	}
}

// NewBackupTree returns an empty tree that records backup as its owner.
func NewBackupTree(backup *Backup) *FileTree {
	tree := NewFileTree(fmt.Sprintf("Backup %s", backup))
	tree.owner = backup
	return tree
}

// Owner returns the backup the tree was read from. Sub trees have none.
func (t *FileTree) Owner() *Backup {
	return t.owner
}

func (t *FileTree) Root() *FileNode {
	return t.root
}

// AddPath inserts a file, or a directory when path ends with a separator,
// creating intermediate directories. Sizes of files with unknown length are 0.
func (t *FileTree) AddPath(path string, contentID int64, size int64) (*FileNode, error) {
	segments, dir := splitPath(path)
	if len(segments) == 0 {
		return nil, ErrInvalidPath
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	current := t.root
	for i, seg := range segments {
		last := i == len(segments)-1
		file := last && !dir

		node, pos, exists := current.child(seg.name)
		if !exists {
			if file {
				node = &FileNode{
					Name:      seg.name,
					FullPath:  path,
					ContentID: contentID,
					IsFile:    true,
					parent:    current,
					size:      size,
				}
				t.files++
			} else {
				node = newDirectory(seg.name, path[:seg.end], current)
			}

			current.insert(pos, node)
			t.index.Set(node.FullPath, node)
		} else if file && node.IsFile {
			node.ContentID = contentID
			node.size = size
		}

		current = node
	}

	return current, nil
}

// Find returns the node stored under the given full path.
func (t *FileTree) Find(path string) (*FileNode, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.index.Get(path)
}

// Size returns the cumulative size of the root, read once and cached.
func (t *FileTree) Size() int64 {
	return t.root.NodeSize()
}

// FileCount returns the number of file nodes in the tree.
func (t *FileTree) FileCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.files
}

// Files returns all file nodes in traversal order.
func (t *FileTree) Files() []*FileNode {
	return t.root.Files()
}

// Paths returns every indexed path in lexical order.
func (t *FileTree) Paths() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.index.Keys()
}

// SubTree builds a new tree from the files below node, keeping full paths.
func (t *FileTree) SubTree(node *FileNode, name string) *FileTree {
	sub := NewFileTree(name)
	for _, f := range node.Files() {
		sub.AddPath(f.FullPath, f.ContentID, f.NodeSize())
	}
	return sub
}

func (t *FileTree) String() string {
	return t.Name
}
