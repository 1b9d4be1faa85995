package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorMuted   = lipgloss.Color("#6B7280")
	colorBorder  = lipgloss.Color("#374151")
	colorCursor  = lipgloss.Color("#1F2937")
	colorText    = lipgloss.Color("#F9FAFB")

	stylePane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	stylePaneFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary)

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	styleCursor   = lipgloss.NewStyle().Background(colorCursor).Bold(true)
	styleSelected = lipgloss.NewStyle().Foreground(colorPrimary)
	styleMuted    = lipgloss.NewStyle().Foreground(colorMuted)
	styleError    = lipgloss.NewStyle().Foreground(colorError)
	styleSentinel = lipgloss.NewStyle().Foreground(colorWarning).Italic(true)

	styleDialog = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)

	styleStatusBar = lipgloss.NewStyle().Background(lipgloss.Color("#111827"))
)

func frameStyle(focused bool) lipgloss.Style {
	if focused {
		return stylePaneFocused
	}
	return stylePane
}
