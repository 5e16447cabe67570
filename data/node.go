package data

import (
	"slices"
	"strings"
	"sync"
)

// NoContent is the content identifier of directories and of files whose
// content is not known. Any negative identifier counts as absent.
const NoContent int64 = -1

// FileNode is a file or directory inside a FileTree.
type FileNode struct {
	Name      string
	FullPath  string
	ContentID int64
	IsFile    bool

	// Result and Aggregate are written by comparison runs and replaced on each run.
	Result    CompareResult
	Aggregate Aggregate

	parent   *FileNode
	children []*FileNode

	size     int64
	sizeOnce sync.Once
}

func newDirectory(name, fullPath string, parent *FileNode) *FileNode {
	return &FileNode{
		Name:      name,
		FullPath:  fullPath,
		ContentID: NoContent,
		parent:    parent,
	}
}

// HasContent reports whether the node carries a usable content identifier.
func (n *FileNode) HasContent() bool {
	return n.IsFile && n.ContentID >= 0
}

func (n *FileNode) Parent() *FileNode {
	return n.parent
}

// Children returns the direct children ordered by name.
func (n *FileNode) Children() []*FileNode {
	return n.children
}

// NodeSize returns the own size of a file or the recursive size of a directory.
// The directory sum is computed on first call and never recomputed.
func (n *FileNode) NodeSize() int64 {
	if n.IsFile {
		return n.size
	}

	n.sizeOnce.Do(func() {
		var total int64
		for _, child := range n.children {
			total += child.NodeSize()
		}
		n.size = total
	})

	return n.size
}

// Walk visits the node and its descendants depth-first, children by name.
// Returning false from fn skips the descendants of that node.
func (n *FileNode) Walk(fn func(*FileNode) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.children {
		child.Walk(fn)
	}
}

// Files returns every file below (or equal to) the node in traversal order.
func (n *FileNode) Files() []*FileNode {
	var files []*FileNode
	n.Walk(func(node *FileNode) bool {
		if node.IsFile {
			files = append(files, node)
		}
		return true
	})
	return files
}

func (n *FileNode) String() string {
	return n.Name
}

func (n *FileNode) child(name string) (*FileNode, int, bool) {
	i, found := slices.BinarySearchFunc(n.children, name, func(c *FileNode, name string) int {
		return strings.Compare(c.Name, name)
	})
	if found {
		return n.children[i], i, true
	}
	return nil, i, false
}

func (n *FileNode) insert(i int, child *FileNode) {
	n.children = slices.Insert(n.children, i, child)
}
