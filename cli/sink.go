package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/mwantia/backup-explorer/data"
	"github.com/mwantia/backup-explorer/explorer"
)

// textSink renders explorer progress on a single terminal line.
type textSink struct {
	mu      sync.Mutex
	w       io.Writer
	visible bool
}

var _ explorer.Sink = (*textSink)(nil)

func newTextSink(w io.Writer) *textSink {
	return &textSink{w: w}
}

func (s *textSink) SetProgress(value float64, format string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.visible {
		fmt.Fprintf(s.w, "\r\033[K"+format, value)
	}
}

func (s *textSink) ShowProgress(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.visible && !visible {
		fmt.Fprint(s.w, "\r\033[K")
	}
	s.visible = visible
}

func (s *textSink) ShowFileTree(*data.FileTree) {}

func (s *textSink) SetTotals(int64, int64) {}

func (s *textSink) ShowError(title, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(s.w, "\r\033[K%s: %s\n", title, message)
}
