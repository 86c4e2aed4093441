package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// aboutInfo is what the About modal shows about the running session
type aboutInfo struct {
	Version   string
	Server    string
	User      string
	DataDir   string
	Security  string
	Model     string
	Models    int
	Documents []string
}

func (a AppView) aboutInfo() aboutInfo {
	info := aboutInfo{
		Version:   a.dataModel.Version,
		Server:    a.apiURL(),
		Model:     a.dataModel.Chat.Config().Model,
		Models:    len(a.dataModel.Chat.Models()),
		Documents: a.dataModel.Documents.Documents(),
	}
	if u := a.dataModel.User; u != nil {
		info.User = u.Email
	}
	if cfg := a.dataModel.Config; cfg != nil {
		info.DataDir = cfg.DataDir()
		info.Security = string(cfg.Security.Method)
	}
	return info
}

func renderAboutModal(info aboutInfo, closeKey string, width, height int) string {
	var sb strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true)

	labelStyle := lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true).
		Width(12)

	valueStyle := lipgloss.NewStyle().
		Foreground(dimColor)

	sb.WriteString(titleStyle.Render("chatdesk " + info.Version))
	sb.WriteString("\n\n")

	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		sb.WriteString(labelStyle.Render(label))
		sb.WriteString(valueStyle.Render(truncateToWidth(value, 50)))
		sb.WriteString("\n")
	}

	model := info.Model
	if model == "" {
		model = "server default"
	}

	row("Server", info.Server)
	row("Account", info.User)
	row("Data dir", info.DataDir)
	row("Token", info.Security)
	row("Model", model)
	row("Available", fmt.Sprintf("%d models", info.Models))

	sb.WriteString("\n")
	if len(info.Documents) == 0 {
		sb.WriteString(valueStyle.Render("No documents uploaded this session"))
	} else {
		sb.WriteString(labelStyle.Render("Documents"))
		sb.WriteString("\n")
		for _, doc := range info.Documents {
			sb.WriteString(valueStyle.Render("  • " + truncateToWidth(doc, 56)))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n\n")
	sb.WriteString(valueStyle.Render(fmt.Sprintf("Press Esc or %s to close", closeKey)))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, boxStyle.Render(sb.String()))
}
