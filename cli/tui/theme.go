package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles used by the views
type Theme struct {
	TitleStyle         lipgloss.Style
	BorderStyle        lipgloss.Style
	DetailsBorderStyle lipgloss.Style
	DetailsStyle       lipgloss.Style
	NormalItemStyle    lipgloss.Style
	SelectedItemStyle  lipgloss.Style
	DirectoryStyle     lipgloss.Style
	FileStyle          lipgloss.Style
	SharedStyle        lipgloss.Style
	UniqueStyle        lipgloss.Style
	ProgressStyle      lipgloss.Style
	StatusBarStyle     lipgloss.Style
	ErrorStyle         lipgloss.Style
	CommandStyle       lipgloss.Style
	HelpStyle          lipgloss.Style
}

func DefaultTheme() *Theme {
	accent := lipgloss.Color("63")
	muted := lipgloss.Color("241")

	return &Theme{
		TitleStyle:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(accent).Padding(0, 1),
		BorderStyle:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent),
		DetailsBorderStyle: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted),
		DetailsStyle:       lipgloss.NewStyle().Padding(0, 1),
		NormalItemStyle:    lipgloss.NewStyle().Foreground(muted),
		SelectedItemStyle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")),
		DirectoryStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		FileStyle:          lipgloss.NewStyle(),
		SharedStyle:        lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		UniqueStyle:        lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		ProgressStyle:      lipgloss.NewStyle().Foreground(accent),
		StatusBarStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
		ErrorStyle:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		CommandStyle:       lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
		HelpStyle:          lipgloss.NewStyle().Foreground(muted),
	}
}
