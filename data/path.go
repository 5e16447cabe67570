package data

import "strings"

type segment struct {
	name string
	// end is the offset in the original path right after the separator that
	// terminates the segment, or len(path) for the last one.
	end int
}

func isSeparator(r byte) bool {
	return r == '/' || r == '\\'
}

// splitPath splits a slash or backslash separated path into its segments.
// dir reports whether the path ends with a separator.
func splitPath(path string) (segments []segment, dir bool) {
	start := 0
	for i := 0; i < len(path); i++ {
		if !isSeparator(path[i]) {
			continue
		}
		if i > start {
			segments = append(segments, segment{name: path[start:i], end: i + 1})
		}
		start = i + 1
	}

	if start < len(path) {
		segments = append(segments, segment{name: path[start:], end: len(path)})
		return segments, false
	}

	return segments, len(path) > 0
}

// JoinPath concatenates a Duplicati path prefix and a relative path.
// A separator is inserted only when the prefix does not already end with one.
func JoinPath(prefix, path string) string {
	if prefix == "" {
		return path
	}
	if path == "" {
		return prefix
	}
	if isSeparator(prefix[len(prefix)-1]) {
		return prefix + strings.TrimLeft(path, "/\\")
	}

	sep := "/"
	if strings.Contains(prefix, "\\") && !strings.Contains(prefix, "/") {
		sep = "\\"
	}
	return prefix + sep + strings.TrimLeft(path, "/\\")
}
