// Package report renders and exports the outcome of a comparison.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mwantia/backup-explorer/data"
)

// Entry is one file or directory of a compared tree.
type Entry struct {
	Path      string          `json:"path"`
	Directory bool            `json:"directory,omitempty"`
	Result    string          `json:"result,omitempty"`
	ContentID int64           `json:"content_id,omitempty"`
	Size      int64           `json:"size"`
	Aggregate *data.Aggregate `json:"aggregate,omitempty"`
}

type Report struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Against     string         `json:"against"`
	GeneratedAt time.Time      `json:"generated_at"`
	Summary     data.Aggregate `json:"summary"`
	Entries     []Entry        `json:"entries"`
}

// New captures the classification of a compared tree. Directory aggregates
// must have been updated before.
func New(tree *data.FileTree, against string) *Report {
	r := &Report{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        tree.Name,
		Against:     against,
		GeneratedAt: time.Now().UTC(),
		Summary:     tree.Root().Aggregate,
	}

	tree.Root().Walk(func(node *data.FileNode) bool {
		if node == tree.Root() {
			return true
		}

		entry := Entry{
			Path:      node.FullPath,
			Directory: !node.IsFile,
			Size:      node.NodeSize(),
		}
		if node.IsFile {
			entry.Result = node.Result.String()
			entry.ContentID = node.ContentID
		} else {
			agg := node.Aggregate
			entry.Aggregate = &agg
		}

		r.Entries = append(r.Entries, entry)
		return true
	})

	return r
}

// Key identifies the report in export targets.
func (r *Report) Key() string {
	return r.ID.String()
}

func (r *Report) Title() string {
	return fmt.Sprintf("Comparison Result - %s <-> %s", r.Name, r.Against)
}

func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// WriteText renders the summary followed by the entries up to depth levels
// below the root. A depth of 0 renders every level.
func (r *Report) WriteText(w io.Writer, depth int) error {
	var b strings.Builder

	s := r.Summary
	fmt.Fprintln(&b, r.Title())
	fmt.Fprintf(&b, "Files: %d  Size: %s  Shared: %s\n", s.Files, humanize.Bytes(uint64(max(s.Size, 0))), SharedSize(s.SharedSize, s.Size))
	fmt.Fprintf(&b, "  %-8s %6d files  %s\n", data.ResultShared, s.SharedFiles, humanize.Bytes(uint64(max(s.SharedSize, 0))))
	fmt.Fprintf(&b, "  %-8s %6d files  %s\n", data.ResultChanged, s.ChangedFiles, humanize.Bytes(uint64(max(s.ChangedSize, 0))))
	fmt.Fprintf(&b, "  %-8s %6d files  %s\n", data.ResultUnique, s.UniqueFiles, humanize.Bytes(uint64(max(s.UniqueSize, 0))))

	if len(r.Entries) > 0 {
		b.WriteString("\n")
	}
	for _, entry := range r.Entries {
		level := entryDepth(entry)
		if depth > 0 && level > depth {
			continue
		}

		indent := strings.Repeat("  ", level-1)
		if entry.Directory {
			fmt.Fprintf(&b, "%s%s  %s  %s\n", indent, entry.Path,
				humanize.Bytes(uint64(max(entry.Size, 0))),
				SharedSize(entry.Aggregate.SharedSize, entry.Aggregate.Size))
		} else {
			fmt.Fprintf(&b, "%s%s  %s  %s\n", indent, entry.Path,
				humanize.Bytes(uint64(max(entry.Size, 0))), entry.Result)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func entryDepth(entry Entry) int {
	path := strings.TrimRight(entry.Path, `/\`)
	level := strings.Count(path, "/") + strings.Count(path, `\`)
	if !strings.HasPrefix(path, "/") {
		level++
	}
	return max(level, 1)
}

// SharedSize formats shared and total in the unit of total, as in
// "1.5/3 MB".
func SharedSize(shared, total int64) string {
	value, prefix := humanize.ComputeSI(float64(total))

	scale := 1.0
	if value != 0 {
		scale = float64(total) / value
	}

	return fmt.Sprintf("%s/%s %sB",
		humanize.FtoaWithDigits(float64(shared)/scale, 2),
		humanize.FtoaWithDigits(value, 2),
		prefix)
}
