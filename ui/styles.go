package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named colour palette. Switching themes rebuilds the package styles.
type Theme struct {
	Name      string
	Dim       lipgloss.Color
	Accent    lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Danger    lipgloss.Color
	Highlight lipgloss.Color
	Text      lipgloss.Color
}

var (
	DarkTheme = Theme{
		Name:      "dark",
		Dim:       lipgloss.Color("7"),
		Accent:    lipgloss.Color("12"),
		Success:   lipgloss.Color("10"),
		Warning:   lipgloss.Color("11"),
		Danger:    lipgloss.Color("9"),
		Highlight: lipgloss.Color("13"),
		Text:      lipgloss.Color("15"),
	}

	LightTheme = Theme{
		Name:      "light",
		Dim:       lipgloss.Color("8"),
		Accent:    lipgloss.Color("4"),
		Success:   lipgloss.Color("2"),
		Warning:   lipgloss.Color("3"),
		Danger:    lipgloss.Color("1"),
		Highlight: lipgloss.Color("5"),
		Text:      lipgloss.Color("0"),
	}
)

var (
	currentTheme = DarkTheme

	dimColor       lipgloss.Color
	accentColor    lipgloss.Color
	successColor   lipgloss.Color
	warningColor   lipgloss.Color
	dangerColor    lipgloss.Color
	highlightColor lipgloss.Color
	textColor      lipgloss.Color

	UserStyle      lipgloss.Style
	AssistantStyle lipgloss.Style
	DimStyle       lipgloss.Style
	TitleStyle     lipgloss.Style
	StatusStyle    lipgloss.Style
	SelectedStyle  lipgloss.Style
	ErrorStyle     lipgloss.Style
	HighlightStyle lipgloss.Style
	TabStyle       lipgloss.Style
	ActiveTabStyle lipgloss.Style
)

func init() {
	ApplyTheme(DarkTheme)
}

// ApplyTheme switches every package style to t. Nothing is persisted.
func ApplyTheme(t Theme) {
	currentTheme = t

	dimColor = t.Dim
	accentColor = t.Accent
	successColor = t.Success
	warningColor = t.Warning
	dangerColor = t.Danger
	highlightColor = t.Highlight
	textColor = t.Text

	// No .Background() anywhere, the terminal's own stays visible
	UserStyle = lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true)

	AssistantStyle = lipgloss.NewStyle().
		Foreground(accentColor)

	DimStyle = lipgloss.NewStyle().
		Foreground(dimColor)

	TitleStyle = lipgloss.NewStyle().
		Bold(true)

	StatusStyle = lipgloss.NewStyle().
		Foreground(dimColor)

	SelectedStyle = lipgloss.NewStyle().
		Foreground(warningColor).
		Bold(true)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(dangerColor).
		Bold(true)

	HighlightStyle = lipgloss.NewStyle().
		Foreground(highlightColor).
		Bold(true)

	TabStyle = lipgloss.NewStyle().
		Foreground(dimColor).
		Padding(0, 2)

	ActiveTabStyle = lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true).
		Underline(true).
		Padding(0, 2)
}

// ToggleTheme flips between dark and light and returns the new theme
func ToggleTheme() Theme {
	if currentTheme.Name == DarkTheme.Name {
		ApplyTheme(LightTheme)
	} else {
		ApplyTheme(DarkTheme)
	}
	return currentTheme
}

func CurrentTheme() Theme {
	return currentTheme
}

// FormatFooter formats a footer string with alternating keys and descriptions.
// Usage: FormatFooter("j/k", "Navigate", "Enter", "Select", "Esc", "Close")
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
		}
	}
	return strings.Join(result, "  ")
}
