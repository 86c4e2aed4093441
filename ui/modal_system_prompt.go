package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// systemPromptEditor edits the chat system prompt. It applies to the next
// request; messages already sent are unaffected.
type systemPromptEditor struct {
	visible bool
	input   textarea.Model
}

func newSystemPromptEditor() systemPromptEditor {
	ta := textarea.New()
	ta.Placeholder = "Enter system prompt (optional)"
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(8)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))
	return systemPromptEditor{input: ta}
}

func (e *systemPromptEditor) open(current string) tea.Cmd {
	e.visible = true
	e.input.SetValue(current)
	return e.input.Focus()
}

func (e *systemPromptEditor) close() {
	e.visible = false
	e.input.Blur()
}

// Update returns saved=true with the new prompt when the user presses Enter
func (e *systemPromptEditor) Update(msg tea.Msg) (prompt string, saved bool, cmd tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			e.close()
			return "", false, nil
		case "enter":
			value := e.input.Value()
			e.close()
			return value, true, nil
		}
	}

	e.input, cmd = e.input.Update(msg)
	return "", false, cmd
}

func (e systemPromptEditor) View(width, height int) string {
	modalWidth := 70
	if width < modalWidth+10 {
		modalWidth = width - 10
	}
	e.input.SetWidth(modalWidth - 4)

	lines := []string{
		DimStyle.Render("Sent as the first message of every chat request."),
		"",
		e.input.View(),
	}

	footer := FormatFooter("Enter", "Save", "Alt+Enter", "New line", "Esc", "Cancel")
	return RenderThreeSectionModal("System Prompt", lines, footer, ModalTypeInfo, modalWidth, width, height)
}
