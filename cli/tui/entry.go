package tui

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/mwantia/backup-explorer/data"
)

// Entry represents a backup or a tree node listed in the TUI
type Entry struct {
	Name   string
	Path   string
	Size   int64
	IsDir  bool
	Loaded bool

	Node   *data.FileNode
	Backup *data.Backup
}

func backupEntry(backup *data.Backup) *Entry {
	size, err := backup.Size()
	if err != nil {
		size = -1
	}

	return &Entry{
		Name:   backup.String(),
		Size:   size,
		Loaded: backup.Materialized(),
		Backup: backup,
	}
}

func nodeEntry(node *data.FileNode) *Entry {
	return &Entry{
		Name:  node.Name,
		Path:  node.FullPath,
		Size:  node.NodeSize(),
		IsDir: !node.IsFile,
		Node:  node,
	}
}

// DisplayName returns the name with appropriate indicator
func (e *Entry) DisplayName() string {
	if e.IsDir {
		return e.Name + "/"
	}
	return e.Name
}

// DisplaySize returns human-readable size
func (e *Entry) DisplaySize() string {
	if e.Size < 0 {
		return "?"
	}
	return humanize.Bytes(uint64(e.Size))
}

// Icon returns a marker for the entry kind and comparison outcome
func (e *Entry) Icon() string {
	switch {
	case e.Backup != nil && e.Loaded:
		return "●"
	case e.Backup != nil:
		return "○"
	case e.IsDir:
		return "▸"
	}

	switch e.Node.Result {
	case data.ResultShared:
		return "="
	case data.ResultChanged:
		return "~"
	case data.ResultUnique:
		return "+"
	default:
		return " "
	}
}

// Details describes the entry for the details pane
func (e *Entry) Details() string {
	if e.Backup != nil {
		state := "summary only"
		if e.Loaded {
			state = "materialized"
		}
		return fmt.Sprintf("Backup: %s\n\nFileset: %d\nVolume: %d\nSize: %s\nState: %s\n",
			e.Name, e.Backup.Fileset.ID, e.Backup.Fileset.VolumeID, e.DisplaySize(), state)
	}

	if !e.IsDir {
		content := "unknown"
		if e.Node.HasContent() {
			content = fmt.Sprintf("%d", e.Node.ContentID)
		}
		return fmt.Sprintf("File: %s\n\nPath: %s\nSize: %s\nBlockset: %s\nResult: %s\n",
			e.Name, e.Path, e.DisplaySize(), content, e.Node.Result)
	}

	agg := e.Node.Aggregate
	info := fmt.Sprintf("Directory: %s\n\nPath: %s\nSize: %s\n", e.Name, e.Path, e.DisplaySize())
	if agg.Files > 0 {
		info += fmt.Sprintf("\nCompared files: %d\nShared: %d (%s)\nChanged: %d (%s)\nUnique: %d (%s)\n",
			agg.Files,
			agg.SharedFiles, humanize.Bytes(uint64(max(agg.SharedSize, 0))),
			agg.ChangedFiles, humanize.Bytes(uint64(max(agg.ChangedSize, 0))),
			agg.UniqueFiles, humanize.Bytes(uint64(max(agg.UniqueSize, 0))))
	}
	return info
}
