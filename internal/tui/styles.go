package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	sectionStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	focusedLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	keyStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	glyphStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)

	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	statusErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// swatch renders a block of the given color.
func swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ")
}
