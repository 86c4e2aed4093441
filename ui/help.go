package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"chatdesk/config"
)

func renderHelpModal(kb *config.KeyBindingsConfig, width, height int) string {
	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("chatdesk - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	line := func(action, desc string) string {
		return fmt.Sprintf("• %-13s %s", kb.DisplayActionKey(action), desc)
	}

	globalActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Global"),
		line("next_tab", "Next tab"),
		line("prev_tab", "Previous tab"),
		line("toggle_theme", "Dark / light theme"),
		line("logout", "Log out"),
		line("help", "Toggle this help"),
		line("about", "Session info"),
		line("quit", "Quit"),
	)

	conversation := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Conversation"),
		"• Enter         Send",
		"• Alt+Enter     New line",
		line("clear_input", "Clear input"),
		line("clear_conversation", "Clear conversation"),
		line("yank_last_response", "Copy last answer"),
		line("yank_conversation", "Copy conversation"),
	)

	chatOnly := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat tab"),
		line("model_selector", "Choose model"),
		line("system_prompt", "Edit system prompt"),
	)

	documents := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Documents tab"),
		line("upload_document", "Upload a PDF"),
	)

	navigation := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Scrolling"),
		line("scroll_down", "Half page down"),
		line("scroll_up", "Half page up"),
		line("page_down", "Page down"),
		line("page_up", "Page up"),
		line("scroll_to_top", "Top"),
		line("scroll_to_bottom", "Bottom"),
	)

	column1 := lipgloss.JoinVertical(lipgloss.Left, globalActions, "", chatOnly, "", documents)
	column2 := lipgloss.JoinVertical(lipgloss.Left, conversation, "", navigation)

	columnStyle := lipgloss.NewStyle().Width(42).PaddingLeft(4)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(column1),
		"  ",
		columnStyle.Render(column2),
	)

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render(fmt.Sprintf("Press %s or Esc to close this help", kb.DisplayActionKey("help")))

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2).
		Width(96)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}
