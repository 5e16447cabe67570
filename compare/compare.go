// Package compare classifies the files of a tree against other trees by
// content identifier and aggregates the results per directory.
//
// Content identity is decided by the identifier alone. Absent (negative)
// identifiers never match anything, not even another absent identifier.
// Directories carry no identity: their Result stays data.ResultNone and they
// only receive aggregates.
package compare

import (
	"context"
	"time"

	"github.com/mwantia/backup-explorer/data"
	"github.com/mwantia/backup-explorer/metrics"
	"github.com/tidwall/btree"
)

// ProgressFunc is called exactly once per classified file, in traversal order.
type ProgressFunc func(file *data.FileNode)

// SameContent reports whether two nodes hold identical known content.
func SameContent(a, b *data.FileNode) bool {
	return a.HasContent() && b.HasContent() && a.ContentID == b.ContentID
}

// CompareOne classifies every file of left against the file stored under the
// same path in right.
func CompareOne(ctx context.Context, left, right *data.FileTree, progress ProgressFunc) error {
	defer metrics.ObserveCompare("one", time.Now())

	reset(left)
	for _, file := range left.Files() {
		if err := ctx.Err(); err != nil {
			return err
		}

		other, found := right.Find(file.FullPath)
		switch {
		case !found || !other.IsFile:
			file.Result = data.ResultUnique
		case SameContent(file, other):
			file.Result = data.ResultShared
		default:
			file.Result = data.ResultChanged
		}

		notify(file, progress)
	}

	return nil
}

// CompareMany marks a file of left as shared when its content appears
// anywhere in candidates. left is skipped if it is part of candidates.
func CompareMany(ctx context.Context, left *data.FileTree, candidates []*data.FileTree, progress ProgressFunc) error {
	defer metrics.ObserveCompare("many", time.Now())

	var contents btree.Set[int64]
	for _, candidate := range candidates {
		if candidate == nil || candidate == left {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		for _, file := range candidate.Files() {
			if file.HasContent() {
				contents.Insert(file.ContentID)
			}
		}
	}

	reset(left)
	for _, file := range left.Files() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if file.HasContent() && contents.Contains(file.ContentID) {
			file.Result = data.ResultShared
		} else {
			file.Result = data.ResultUnique
		}

		notify(file, progress)
	}

	return nil
}

// UpdateDirectoryAggregates recomputes every directory aggregate from its
// file descendants only, replacing previous values.
func UpdateDirectoryAggregates(tree *data.FileTree) {
	tree.Root().Walk(func(node *data.FileNode) bool {
		if !node.IsFile {
			node.Aggregate = data.Aggregate{}
		}
		return true
	})

	for _, file := range tree.Files() {
		size := file.NodeSize()
		for dir := file.Parent(); dir != nil; dir = dir.Parent() {
			dir.Aggregate.Add(file.Result, size)
		}
	}
}

func reset(tree *data.FileTree) {
	tree.Root().Walk(func(node *data.FileNode) bool {
		node.Result = data.ResultNone
		return true
	})
}

func notify(file *data.FileNode, progress ProgressFunc) {
	metrics.FileCompared()
	if progress != nil {
		progress(file)
	}
}
