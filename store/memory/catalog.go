package memory

import (
	"time"

	"github.com/mwantia/backup-explorer/data"
	"github.com/mwantia/backup-explorer/store"
)

// Catalog is the content of one in-memory backup database.
type Catalog struct {
	Version  int64
	Filesets []data.Fileset

	files  map[int64][]data.FileEntry
	blocks map[int64][]int64
	wasted int64
}

func NewCatalog() *Catalog {
	return &Catalog{
		Version: store.MaxSupportedVersion,
		files:   make(map[int64][]data.FileEntry),
		blocks:  make(map[int64][]int64),
	}
}

// AddFileset registers a snapshot. Filesets are reported in insertion order,
// so callers add the newest first.
func (c *Catalog) AddFileset(id int64, timestamp time.Time) *Catalog {
	c.Filesets = append(c.Filesets, data.Fileset{ID: id, Timestamp: timestamp, VolumeID: id})
	return c
}

// AddFile adds an entry whose size is only known through its blocks.
// A negative blocksetID marks a file without content.
func (c *Catalog) AddFile(filesetID int64, path string, blocksetID int64, blockSizes ...int64) *Catalog {
	if blocksetID >= 0 && len(blockSizes) > 0 {
		c.blocks[blocksetID] = blockSizes
	}
	c.files[filesetID] = append(c.files[filesetID], data.FileEntry{
		Path:      path,
		ContentID: blocksetID,
	})
	return c
}

// AddSizedFile adds an entry with a recorded length.
func (c *Catalog) AddSizedFile(filesetID int64, prefix, path string, blocksetID int64, size int64) *Catalog {
	c.files[filesetID] = append(c.files[filesetID], data.FileEntry{
		Prefix:    prefix,
		Path:      path,
		ContentID: blocksetID,
		Size:      &size,
	})
	return c
}

// AddWasted accounts blocks that are no longer referenced.
func (c *Catalog) AddWasted(size int64) *Catalog {
	c.wasted += size
	return c
}

func (c *Catalog) entrySize(e data.FileEntry) int64 {
	if e.Size != nil {
		return *e.Size
	}

	var total int64
	for _, size := range c.blocks[e.ContentID] {
		total += size
	}
	return total
}
