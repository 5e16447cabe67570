package data

// CompareResult classifies a file against the other side of a comparison.
type CompareResult int

const (
	// ResultNone marks nodes that were never classified (all directories).
	ResultNone CompareResult = iota
	// ResultShared means identical content exists on the other side.
	ResultShared
	// ResultChanged means the path exists on the other side with different or unknown content.
	ResultChanged
	// ResultUnique means nothing on the other side matches.
	ResultUnique
)

func (r CompareResult) String() string {
	switch r {
	case ResultShared:
		return "shared"
	case ResultChanged:
		return "changed"
	case ResultUnique:
		return "unique"
	default:
		return "none"
	}
}

// Aggregate holds per-directory counts and sizes of classified file descendants.
type Aggregate struct {
	Files int   `json:"files"`
	Size  int64 `json:"size"`

	SharedFiles  int   `json:"shared_files"`
	SharedSize   int64 `json:"shared_size"`
	ChangedFiles int   `json:"changed_files"`
	ChangedSize  int64 `json:"changed_size"`
	UniqueFiles  int   `json:"unique_files"`
	UniqueSize   int64 `json:"unique_size"`
}

// Add accounts a single file of the given size.
func (a *Aggregate) Add(result CompareResult, size int64) {
	a.Files++
	a.Size += size

	switch result {
	case ResultShared:
		a.SharedFiles++
		a.SharedSize += size
	case ResultChanged:
		a.ChangedFiles++
		a.ChangedSize += size
	case ResultUnique:
		a.UniqueFiles++
		a.UniqueSize += size
	}
}
