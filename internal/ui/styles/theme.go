package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme colors
var (
	Primary = lipgloss.Color("#7C3AED")
	Success = lipgloss.Color("#10B981")
	Warning = lipgloss.Color("#F59E0B")
	Danger  = lipgloss.Color("#EF4444")
	Info    = lipgloss.Color("#3B82F6")
	Muted   = lipgloss.Color("#6B7280")
	TextDim = lipgloss.Color("#9CA3AF")
	Border  = lipgloss.Color("#4B5563")
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			MarginBottom(1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(1, 2)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	DirNameStyle = lipgloss.NewStyle().
			Foreground(Info)

	SizeStyle = lipgloss.NewStyle().
			Foreground(Warning)

	AgeStyle = lipgloss.NewStyle().
			Foreground(Success)

	ChartStyle = lipgloss.NewStyle().
			Foreground(Muted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(TextDim)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)
)
