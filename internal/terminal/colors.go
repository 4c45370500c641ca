package terminal

import "github.com/charmbracelet/lipgloss"

var (
	dimStyle    = lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#6c7086"))
	brightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cdd6f4"))
	cyanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#89dceb"))
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	statusStyle = lipgloss.NewStyle().Background(lipgloss.Color("#313244")).Foreground(lipgloss.Color("#89dceb"))
)

// Dim returns text in dim gray color
func Dim(text string) string {
	return dimStyle.Render(text)
}

// Bright returns text in bright white color
func Bright(text string) string {
	return brightStyle.Render(text)
}

// Cyan returns text in cyan color
func Cyan(text string) string {
	return cyanStyle.Render(text)
}

// Green returns text in green color
func Green(text string) string {
	return greenStyle.Render(text)
}

// Yellow returns text in yellow color
func Yellow(text string) string {
	return yellowStyle.Render(text)
}

// Red returns text in red color
func Red(text string) string {
	return redStyle.Render(text)
}
