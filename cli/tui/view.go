package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mwantia/backup-explorer/data"
)

const progressWidth = 30

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.mode == ModeHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m *Model) renderMain() string {
	sections := []string{
		m.renderTitle(),
		m.renderContent(),
	}

	if m.progressVisible {
		sections = append(sections, m.renderProgress())
	}

	sections = append(sections, m.renderStatus())

	if m.mode == ModeCommand {
		sections = append(sections, m.renderInput())
	}
	if m.commandOut != "" {
		sections = append(sections, m.renderCommandOutput())
	}

	sections = append(sections, m.renderHelpBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderTitle() string {
	path := m.explorer.Path()
	if path == "" {
		path = "no database"
	}

	title := fmt.Sprintf("Backup Explorer - %s", path)
	if m.browsing() == ModeTree && m.tree != nil {
		dir := m.node.FullPath
		if dir == "" {
			dir = "/"
		}
		title = fmt.Sprintf("%s - %s:%s", title, m.tree.Name, dir)
	}
	return m.theme.TitleStyle.Render(title)
}

// renderContent renders the listing and the details pane
func (m *Model) renderContent() string {
	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 4

	list := m.theme.BorderStyle.
		Width(leftWidth).
		Height(m.getVisibleLines() + 2).
		Render(m.renderList())

	details := m.theme.DetailsBorderStyle.
		Width(rightWidth).
		Height(m.getVisibleLines() + 2).
		Render(m.renderDetails())

	return lipgloss.JoinHorizontal(lipgloss.Top, list, details)
}

func (m *Model) renderList() string {
	if len(m.entries) == 0 {
		if m.browsing() == ModeBackups {
			return m.theme.NormalItemStyle.Render("(no backups, use :open <path>)")
		}
		return m.theme.NormalItemStyle.Render("(empty directory)")
	}

	end := min(m.offset+m.getVisibleLines(), len(m.entries))
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderEntry(m.entries[i], i == m.cursor))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderEntry(entry *Entry, selected bool) string {
	var style lipgloss.Style
	switch {
	case selected:
		style = m.theme.SelectedItemStyle
	case entry.IsDir:
		style = m.theme.DirectoryStyle
	case entry.Node != nil && entry.Node.Result == data.ResultUnique:
		style = m.theme.UniqueStyle
	case entry.Node != nil && entry.Node.Result == data.ResultShared:
		style = m.theme.SharedStyle
	default:
		style = m.theme.FileStyle
	}

	nameWidth := max(m.width/2-16, 10)
	name := entry.DisplayName()
	if len(name) > nameWidth {
		name = name[:nameWidth-3] + "..."
	} else {
		name += strings.Repeat(" ", nameWidth-len(name))
	}

	return style.Render(fmt.Sprintf("%s %s %10s", entry.Icon(), name, entry.DisplaySize()))
}

func (m *Model) renderDetails() string {
	entry := m.currentEntry()
	if entry == nil {
		return m.theme.DetailsStyle.Render("Nothing selected")
	}
	return m.theme.DetailsStyle.Render(entry.Details())
}

// renderProgress draws the explorer progress as a bar followed by its label
func (m *Model) renderProgress() string {
	filled := int(m.progressValue / 100 * progressWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled)
	label := fmt.Sprintf(m.progressFormat, m.progressValue)
	return m.theme.ProgressStyle.Render(bar + " " + label)
}

func (m *Model) renderStatus() string {
	left := "0 items"
	if len(m.entries) > 0 {
		left = fmt.Sprintf("%d/%d items", m.cursor+1, len(m.entries))
	}
	if m.totalSize > 0 {
		left += fmt.Sprintf(" | stored %s, wasted %s",
			humanize.Bytes(uint64(m.totalSize)), humanize.Bytes(uint64(max(m.wastedSize, 0))))
	}

	right := m.statusMsg
	if m.errorMsg != "" {
		right = m.theme.ErrorStyle.Render(m.errorMsg)
	}

	spacing := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-4, 0)
	return m.theme.StatusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", spacing) + right)
}

func (m *Model) renderInput() string {
	return m.theme.CommandStyle.Render(": " + m.textInput.View())
}

func (m *Model) renderCommandOutput() string {
	maxLines := 8
	lines := strings.Split(strings.TrimRight(m.commandOut, "\n"), "\n")
	if len(lines) > maxLines {
		lines = append(lines[:maxLines], "...")
	}

	return m.theme.DetailsBorderStyle.
		Width(m.width - 4).
		Render(strings.Join(lines, "\n"))
}

func (m *Model) renderHelpBar() string {
	if m.showFullHelp {
		return m.help.View(m.keys)
	}
	return m.theme.HelpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

// renderHelp renders the full help screen
func (m *Model) renderHelp() string {
	sections := []string{
		m.theme.TitleStyle.Render("Backup Explorer - Help"),
		"",
		m.help.FullHelpView(m.keys.FullHelp()),
		"",
		m.theme.TitleStyle.Render("Markers:"),
		"  ●  backup with a materialized file tree",
		"  ○  backup with size only",
		"  +  unique, the content is stored by no other backup",
		"  =  shared, the content is stored by another backup",
		"  ~  changed, the path exists elsewhere with other content",
		"",
		m.theme.TitleStyle.Render("Command Mode:"),
		"  :          Enter command mode, :help lists the commands",
		"",
		m.theme.HelpStyle.Render("Press ? or q to return"),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
