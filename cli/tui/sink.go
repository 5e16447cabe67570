package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwantia/backup-explorer/data"
	"github.com/mwantia/backup-explorer/explorer"
)

// Messages published by the explorer
type (
	progressMsg struct {
		value  float64
		format string
	}
	progressVisibleMsg bool
	fileTreeMsg        struct{ tree *data.FileTree }
	totalsMsg          struct{ size, wasted int64 }
	explorerErrorMsg   struct{ title, message string }
)

// Sink forwards everything the explorer publishes to a running program.
// Messages published before Attach are dropped.
type Sink struct {
	mu      sync.RWMutex
	program *tea.Program
}

var _ explorer.Sink = (*Sink)(nil)

func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) Attach(program *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.program = program
}

func (s *Sink) send(msg tea.Msg) {
	s.mu.RLock()
	program := s.program
	s.mu.RUnlock()

	if program != nil {
		program.Send(msg)
	}
}

func (s *Sink) SetProgress(value float64, format string) {
	s.send(progressMsg{value: value, format: format})
}

func (s *Sink) ShowProgress(visible bool) {
	s.send(progressVisibleMsg(visible))
}

func (s *Sink) ShowFileTree(tree *data.FileTree) {
	s.send(fileTreeMsg{tree: tree})
}

func (s *Sink) SetTotals(size, wasted int64) {
	s.send(totalsMsg{size: size, wasted: wasted})
}

func (s *Sink) ShowError(title, message string) {
	s.send(explorerErrorMsg{title: title, message: message})
}
