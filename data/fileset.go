package data

import (
	"fmt"
	"time"
)

// Fileset identifies one backup snapshot.
type Fileset struct {
	ID        int64
	Timestamp time.Time
	VolumeID  int64
}

func (f Fileset) String() string {
	return fmt.Sprintf("%d: %s", f.ID, f.Timestamp.Local().Format("2006-01-02 15:04:05"))
}

// FileEntry is a single row of a fileset listing as returned by the store.
// Size is nil when the store has no length recorded for the blockset.
type FileEntry struct {
	Prefix    string
	Path      string
	ContentID int64
	Size      *int64
}

func (e FileEntry) FullPath() string {
	return JoinPath(e.Prefix, e.Path)
}
