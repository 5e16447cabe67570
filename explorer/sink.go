package explorer

import "github.com/mwantia/backup-explorer/data"

// Sink receives everything the explorer publishes for display.
// Implementations must be safe for use from multiple goroutines.
type Sink interface {
	// SetProgress reports a value between 0 and 100. format is a printf
	// format with a single float verb for the value.
	SetProgress(value float64, format string)
	ShowProgress(visible bool)
	ShowFileTree(tree *data.FileTree)
	SetTotals(size, wasted int64)
	ShowError(title, message string)
}

// NopSink discards everything.
type NopSink struct{}

var _ Sink = NopSink{}

func (NopSink) SetProgress(float64, string) {}
func (NopSink) ShowProgress(bool)           {}
func (NopSink) ShowFileTree(*data.FileTree) {}
func (NopSink) SetTotals(int64, int64)      {}
func (NopSink) ShowError(string, string)    {}
