package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"chatdesk/api"
)

// modelSelector is the Alt+M modal. An empty choice means the server default.
type modelSelector struct {
	visible     bool
	selected    int
	filterInput textinput.Model
	filtered    []api.ModelInfo
}

func newModelSelector() modelSelector {
	in := textinput.New()
	in.Prompt = "Filter: "
	in.CharLimit = 64
	return modelSelector{filterInput: in}
}

// filterModels keeps models whose name fuzzy-matches query, best match first
func filterModels(models []api.ModelInfo, query string) []api.ModelInfo {
	if query == "" {
		return models
	}

	targets := make([]string, len(models))
	for i, m := range models {
		targets[i] = m.Name
	}

	matches := fuzzy.Find(query, targets)
	out := make([]api.ModelInfo, len(matches))
	for i, match := range matches {
		out[i] = models[match.Index]
	}
	return out
}

func (s *modelSelector) open(models []api.ModelInfo, current string) {
	s.visible = true
	s.filterInput.SetValue("")
	s.filterInput.Focus()
	s.filtered = models
	s.selected = 0
	for i, m := range models {
		if m.Name == current {
			s.selected = i
			break
		}
	}
}

func (s *modelSelector) close() {
	s.visible = false
	s.filterInput.Blur()
}

func (s *modelSelector) refilter(models []api.ModelInfo) {
	s.filtered = filterModels(models, s.filterInput.Value())
	if s.selected >= len(s.filtered) {
		s.selected = len(s.filtered) - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

func (s *modelSelector) move(delta int) {
	s.selected += delta
	if s.selected < 0 {
		s.selected = 0
	}
	if s.selected >= len(s.filtered) {
		s.selected = len(s.filtered) - 1
	}
}

// choice returns the highlighted model name, ok false when the list is empty
func (s modelSelector) choice() (string, bool) {
	if s.selected < 0 || s.selected >= len(s.filtered) {
		return "", false
	}
	return s.filtered[s.selected].Name, true
}

func (s modelSelector) View(models []api.ModelInfo, current string, loading bool, spinnerView string, width, height int) string {
	modalWidth := width - 10
	if modalWidth > 80 {
		modalWidth = 80
	}
	if modalWidth < 20 {
		modalWidth = 20
	}
	maxLines := height - 14
	if maxLines < 3 {
		maxLines = 3
	}

	var lines []string
	lines = append(lines, s.filterInput.View())

	header := fmt.Sprintf("%d models", len(models))
	if len(s.filtered) != len(models) {
		header = fmt.Sprintf("%d of %d models", len(s.filtered), len(models))
	}
	if current == "" {
		header += " · using server default"
	}
	lines = append(lines, DimStyle.Render(header), "")

	switch {
	case loading:
		lines = append(lines, centerTextLine(spinnerView+" Loading models...", modalWidth))
	case len(s.filtered) == 0:
		empty := "No models available"
		if s.filterInput.Value() != "" {
			empty = "No matches found"
		}
		lines = append(lines, centerTextLine(DimStyle.Italic(true).Render(empty), modalWidth))
	default:
		start, end := visibleWindow(len(s.filtered), s.selected, maxLines)
		for i := start; i < end; i++ {
			lines = append(lines, formatModelLine(s.filtered[i], i == s.selected, s.filtered[i].Name == current, modalWidth))
		}
	}

	footer := FormatFooter("Type", "Filter", "↑/↓", "Navigate", "Enter", "Select", "Alt+R", "Refresh", "Esc", "Cancel")

	return RenderThreeSectionModal("Select Model", lines, footer, ModalTypeInfo, modalWidth, width, height)
}

// visibleWindow keeps selected roughly centred in a list of n rows
func visibleWindow(n, selected, rows int) (int, int) {
	if n <= rows {
		return 0, n
	}
	start := selected - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > n {
		start = n - rows
	}
	return start, start + rows
}

func formatModelLine(m api.ModelInfo, selected, current bool, width int) string {
	indicator := "  "
	if selected {
		indicator = "▶ "
	}

	marker := ""
	if current {
		marker = " (current)"
	}

	details := formatSize(m.Size)
	if m.ParameterSize != "" {
		details = strings.TrimSpace(m.ParameterSize + "  " + details)
	}

	nameWidth := width - runewidth.StringWidth(indicator) - runewidth.StringWidth(marker) - runewidth.StringWidth(details) - 4
	name := truncateToWidth(m.Name, nameWidth)

	spacing := width - runewidth.StringWidth(indicator+name+marker+details) - 2
	if spacing < 1 {
		spacing = 1
	}

	line := indicator + name + marker + strings.Repeat(" ", spacing) + details

	style := lipgloss.NewStyle()
	if selected {
		style = style.Foreground(successColor).Bold(true)
	} else if current {
		style = style.Foreground(accentColor).Bold(true)
	}
	return style.Render(line)
}

// formatSize converts bytes to human-readable format
func formatSize(bytes int64) string {
	if bytes == 0 {
		return ""
	}

	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
