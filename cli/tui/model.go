package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwantia/backup-explorer/cmd"
	"github.com/mwantia/backup-explorer/data"
	"github.com/mwantia/backup-explorer/explorer"
	"github.com/mwantia/backup-explorer/log"
)

// Mode represents the current interaction mode
type Mode int

const (
	ModeBackups Mode = iota
	ModeTree
	ModeCommand
	ModeHelp
)

// Model represents the state of the TUI application
type Model struct {
	ctx      context.Context
	explorer *explorer.Explorer
	cmd      *cmd.Manager
	log      *log.Logger
	theme    *Theme
	keys     KeyMap
	help     help.Model

	// Navigation state
	tree        *data.FileTree
	node        *data.FileNode
	previousDir string
	entries     []*Entry
	cursor      int
	offset      int

	width  int
	height int

	mode      Mode
	returnTo  Mode
	textInput textinput.Model

	// Published by the explorer
	progressVisible bool
	progressValue   float64
	progressFormat  string
	totalSize       int64
	wastedSize      int64

	statusMsg  string
	errorMsg   string
	commandOut string

	showFullHelp bool
}

// NewModel creates a new TUI model
func NewModel(ctx context.Context, e *explorer.Explorer, manager *cmd.Manager, logger *log.Logger) *Model {
	ti := textinput.New()
	ti.Placeholder = "Enter command..."
	ti.CharLimit = 256

	return &Model{
		ctx:            ctx,
		explorer:       e,
		cmd:            manager,
		log:            logger.Named("tui"),
		theme:          DefaultTheme(),
		keys:           DefaultKeyMap(),
		help:           help.New(),
		mode:           ModeBackups,
		textInput:      ti,
		progressFormat: explorer.DefaultProgressFormat,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.listBackups(),
		textinput.Blink,
	)
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case backupsListedMsg:
		if m.browsing() == ModeBackups {
			m.setEntries(msg.entries)
		}
		return m, nil

	case progressMsg:
		m.progressValue = msg.value
		m.progressFormat = msg.format
		return m, nil

	case progressVisibleMsg:
		m.progressVisible = bool(msg)
		if !m.progressVisible {
			return m, m.listBackups()
		}
		return m, nil

	case fileTreeMsg:
		m.showTree(msg.tree)
		return m, nil

	case totalsMsg:
		m.totalSize = msg.size
		m.wastedSize = msg.wasted
		return m, nil

	case explorerErrorMsg:
		m.errorMsg = fmt.Sprintf("%s: %s", msg.title, msg.message)
		return m, nil

	case commandExecutedMsg:
		m.commandOut = msg.output
		m.errorMsg = msg.error
		m.statusMsg = "Command executed"
		m.refreshEntries()
		return m, m.listBackups()

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	if m.mode == ModeCommand {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKeyPress processes keyboard input based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeCommand:
		return m.handleInputMode(msg)
	case ModeHelp:
		return m.handleHelpMode(msg)
	}
	return m.handleNormalMode(msg)
}

// handleNormalMode processes keys while browsing backups or a tree
func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.returnTo = m.mode
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-10)

	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(10)

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.offset = 0

	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.entries))

	case key.Matches(msg, m.keys.Enter):
		return m, m.enter()

	case key.Matches(msg, m.keys.Back):
		return m, m.goBack()

	case key.Matches(msg, m.keys.Backups):
		m.mode = ModeBackups
		return m, m.listBackups()

	case key.Matches(msg, m.keys.Compare):
		return m, m.compareToAll()

	case key.Matches(msg, m.keys.Command):
		m.startCommand()
	}

	return m, nil
}

// handleInputMode processes keys when collecting a command line
func (m *Model) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.cancelInput()
		return m, nil

	case tea.KeyEnter:
		return m, m.submitInput()
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// handleHelpMode processes keys in help mode
func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.mode = m.returnTo
		return m, nil
	}
	return m, nil
}

func (m *Model) startCommand() {
	m.returnTo = m.mode
	m.mode = ModeCommand
	m.textInput.SetValue("")
	m.textInput.Focus()
	m.errorMsg = ""
	m.statusMsg = ""
}

func (m *Model) cancelInput() {
	m.mode = m.returnTo
	m.textInput.Blur()
	m.textInput.SetValue("")
}

func (m *Model) submitInput() tea.Cmd {
	value := strings.TrimSpace(m.textInput.Value())
	m.cancelInput()

	if value == "" {
		return nil
	}
	return m.executeCommand(parseCommandLine(value)...)
}

// moveCursor moves the cursor by delta, handling bounds and scrolling
func (m *Model) moveCursor(delta int) {
	if len(m.entries) == 0 {
		return
	}

	m.cursor = min(max(m.cursor+delta, 0), len(m.entries)-1)

	visibleLines := m.getVisibleLines()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visibleLines {
		m.offset = m.cursor - visibleLines + 1
	}
}

// getVisibleLines returns how many entries can be displayed
func (m *Model) getVisibleLines() int {
	reserved := 9
	available := m.height - reserved
	if available < 5 {
		return 5
	}
	return available
}

// browsing returns the list mode shown below any command line or help screen
func (m *Model) browsing() Mode {
	if m.mode == ModeCommand || m.mode == ModeHelp {
		return m.returnTo
	}
	return m.mode
}

func (m *Model) currentEntry() *Entry {
	if m.cursor >= 0 && m.cursor < len(m.entries) {
		return m.entries[m.cursor]
	}
	return nil
}

// setEntries replaces the listing, keeping the cursor on previousDir if present
func (m *Model) setEntries(entries []*Entry) {
	m.entries = entries
	m.cursor = min(m.cursor, max(len(entries)-1, 0))

	if m.previousDir != "" {
		for i, entry := range entries {
			if entry.Name == m.previousDir {
				m.cursor = i
				break
			}
		}
		m.previousDir = ""
	}

	m.offset = min(m.offset, m.cursor)
	if visible := m.getVisibleLines(); m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

// showTree switches the browser to a published tree
func (m *Model) showTree(tree *data.FileTree) {
	m.tree = tree
	m.node = tree.Root()
	if m.mode == ModeCommand || m.mode == ModeHelp {
		m.returnTo = ModeTree
	} else {
		m.mode = ModeTree
	}
	m.cursor = 0
	m.offset = 0
	m.log.Debug("Showing tree '%s' with %d files", tree.Name, tree.FileCount())

	m.refreshEntries()
}

func (m *Model) refreshEntries() {
	if m.node == nil || m.browsing() != ModeTree {
		return
	}

	children := m.node.Children()
	entries := make([]*Entry, 0, len(children))
	for _, child := range children {
		entries = append(entries, nodeEntry(child))
	}
	m.setEntries(entries)
}

func (m *Model) enter() tea.Cmd {
	entry := m.currentEntry()
	if entry == nil {
		return nil
	}

	if entry.Backup != nil {
		m.log.Debug("Selecting backup '%s'", entry.Backup)
		m.explorer.Select(entry.Backup)
		m.statusMsg = fmt.Sprintf("Selected %s", entry.Backup)
		return nil
	}

	if !entry.IsDir {
		m.statusMsg = fmt.Sprintf("Cannot open file: %s", entry.Name)
		return nil
	}

	m.node = entry.Node
	m.cursor = 0
	m.offset = 0
	m.refreshEntries()
	return nil
}

func (m *Model) goBack() tea.Cmd {
	if m.mode != ModeTree {
		return nil
	}

	parent := m.node.Parent()
	if parent == nil {
		m.mode = ModeBackups
		return m.listBackups()
	}

	m.previousDir = m.node.Name
	m.node = parent
	m.cursor = 0
	m.offset = 0
	m.refreshEntries()
	return nil
}

// compareToAll runs compare-all for the selected backup, restricted to the current directory
func (m *Model) compareToAll() tea.Cmd {
	if m.mode != ModeTree || m.tree == nil {
		m.statusMsg = "Select a backup first"
		return nil
	}

	args := []string{"compare-all", "-d", "1"}
	if m.node != nil && m.node.Parent() != nil {
		args = append(args, "-p", m.node.FullPath)
	}
	return m.executeCommand(args...)
}

// Messages for async operations
type backupsListedMsg struct {
	entries []*Entry
}

type commandExecutedMsg struct {
	output string
	error  string
}

func (m *Model) listBackups() tea.Cmd {
	return func() tea.Msg {
		backups := m.explorer.Backups()
		entries := make([]*Entry, 0, len(backups))
		for _, backup := range backups {
			entries = append(entries, backupEntry(backup))
		}
		return backupsListedMsg{entries: entries}
	}
}

func (m *Model) executeCommand(args ...string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return commandExecutedMsg{}
		}

		var out bytes.Buffer
		exitCode, err := m.cmd.Execute(m.ctx, &out, args...)

		errStr := ""
		if err != nil {
			errStr = err.Error()
			m.log.Debug("Command '%s' failed: %v", args[0], err)
		} else if exitCode != 0 {
			errStr = fmt.Sprintf("Command exited with code %d", exitCode)
		}

		return commandExecutedMsg{output: out.String(), error: errStr}
	}
}

// parseCommandLine splits a command line into tokens
func parseCommandLine(line string) []string {
	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := rune(0)

	for _, ch := range line {
		switch {
		case ch == '"' || ch == '\'':
			if inQuote {
				if ch == quoteChar {
					inQuote = false
					quoteChar = 0
				} else {
					current.WriteRune(ch)
				}
			} else {
				inQuote = true
				quoteChar = ch
			}

		case ch == ' ' && !inQuote:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}

		default:
			current.WriteRune(ch)
		}
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args
}
