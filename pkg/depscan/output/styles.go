package output

import "github.com/charmbracelet/lipgloss"

// Color constants using the ANSI 256-color palette, shared across
// formatters for a consistent scheme.
const (
	// ColorPrimary is used for headers and section titles (bright blue).
	ColorPrimary = lipgloss.Color("39")

	// ColorSuccess is used for the all-clear message (green).
	ColorSuccess = lipgloss.Color("42")

	// ColorWarning is used for unused dependencies (orange/yellow).
	ColorWarning = lipgloss.Color("214")

	// ColorDanger is used for missing dependencies (red).
	ColorDanger = lipgloss.Color("196")

	// ColorMuted is used for secondary text like file lists (gray).
	ColorMuted = lipgloss.Color("245")
)

var (
	// HeaderBox frames the report header with directory and scan stats.
	HeaderBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1).
			MarginBottom(1)

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// LabelStyle is used for field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is used for the all-clear message.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	// WarningStyle is used for unused dependency names.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// DangerStyle is used for missing dependency names.
	DangerStyle = lipgloss.NewStyle().
			Foreground(ColorDanger)

	// MutedStyle is used for referencing-file lists and error details.
	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)
