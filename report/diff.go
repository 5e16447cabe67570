package report

import (
	"github.com/mwantia/backup-explorer/data"
	difflib "github.com/pmezard/go-difflib/difflib"
)

// ListingDiff returns a unified diff of the paths stored in two trees.
// Content changes under an unchanged path are not part of the listing.
func ListingDiff(left, right *data.FileTree, context int) (string, error) {
	u := difflib.UnifiedDiff{
		A:        lines(left.Paths()),
		B:        lines(right.Paths()),
		FromFile: left.Name,
		ToFile:   right.Name,
		Context:  context,
	}
	return difflib.GetUnifiedDiffString(u)
}

func lines(paths []string) []string {
	out := make([]string, len(paths))
	for i, path := range paths {
		out[i] = path + "\n"
	}
	return out
}
