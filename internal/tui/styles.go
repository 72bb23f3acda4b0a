package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	// Status colors
	ActiveColor    = lipgloss.Color("#16A34A") // Green
	CompletedColor = lipgloss.Color("#9333EA") // Purple
	PendingColor   = lipgloss.Color("#D97706") // Amber

	// UI colors
	Primary    = lipgloss.Color("#4F46E5") // Indigo
	Secondary  = lipgloss.Color("#6C757D")
	Danger     = lipgloss.Color("#DC2626")
	Success    = lipgloss.Color("#16A34A")
	Text       = lipgloss.Color("#FFFFFF")
	TextMuted  = lipgloss.Color("#888888")
	BorderCol  = lipgloss.Color("#333333")
	Highlight  = lipgloss.Color("#4F46E5")
	CardBorder = lipgloss.Color("#444444")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Danger)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Text).
			Background(Highlight)

	ItemStyle = lipgloss.NewStyle().
			Foreground(Text)

	DoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true)

	StatCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(CardBorder).
			Padding(0, 2).
			Margin(0, 1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderCol).
			Padding(1, 2)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Primary).
			Padding(1, 3)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// StatusStyle returns the text style for a project status badge
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "active":
		return lipgloss.NewStyle().Foreground(ActiveColor)
	case "completed":
		return lipgloss.NewStyle().Foreground(CompletedColor)
	case "pending":
		return lipgloss.NewStyle().Foreground(PendingColor)
	}
	return lipgloss.NewStyle().Foreground(TextMuted)
}
