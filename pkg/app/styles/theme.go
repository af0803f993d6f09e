package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	Primary   = lipgloss.Color("#FF6B9D")
	Secondary = lipgloss.Color("#C792EA")
	Success   = lipgloss.Color("#C3E88D")
	Warning   = lipgloss.Color("#FFCB6B")
	Error     = lipgloss.Color("#F07178")
	Info      = lipgloss.Color("#82AAFF")
	Muted     = lipgloss.Color("#546E7A")
	Paper     = lipgloss.Color("#EEFFFF")

	RoundedBorder = lipgloss.RoundedBorder()
	ThickBorder   = lipgloss.ThickBorder()
)

// Screen chrome
var (
	TitleStyle = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(Secondary).
		Italic(true)

	MutedStyle = lipgloss.NewStyle().
		Foreground(Muted)

	HelpStyle = lipgloss.NewStyle().
		Foreground(Muted).
		Italic(true).
		MarginTop(1)

	InputStyle = lipgloss.NewStyle().
		Border(RoundedBorder).
		BorderForeground(Secondary).
		Padding(0, 1)

	FocusedInputStyle = InputStyle.
		BorderForeground(Primary)
)

// Library and chapter lists
var (
	SelectedStyle = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		BorderStyle(RoundedBorder).
		BorderForeground(Primary).
		Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
		Border(RoundedBorder).
		BorderForeground(Secondary).
		Padding(1, 2).
		MarginBottom(1)

	ActiveCardStyle = CardStyle.
		Border(ThickBorder).
		BorderForeground(Primary)
)

// Status lines
var (
	StatusLoading = lipgloss.NewStyle().
		Foreground(Info).
		Bold(true)

	StatusCompleted = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	StatusError = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	StatusWarning = lipgloss.NewStyle().
		Foreground(Warning)

	ProgressBarStyle = lipgloss.NewStyle().
		Foreground(Primary)
)

// Reader page blocks. Pages with a known size are framed in the accent
// color; pages still waiting for their probe are drawn muted.
var (
	PageStyle = lipgloss.NewStyle().
		Border(RoundedBorder).
		BorderForeground(Secondary).
		Foreground(Paper)

	CurrentPageStyle = PageStyle.
		Border(ThickBorder).
		BorderForeground(Primary)

	PlaceholderPageStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(Muted).
		Foreground(Muted)
)

// StatusStyle maps a load state to its color.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "loading", "probing":
		return StatusLoading
	case "completed", "complete", "finished":
		return StatusCompleted
	case "error", "failed":
		return StatusError
	case "partial", "reading":
		return StatusWarning
	default:
		return MutedStyle
	}
}
