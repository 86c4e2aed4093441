package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PassphraseModal asks for the SSH key passphrase before the main UI starts.
// main re-runs it until the key unlocks or the user cancels.
type PassphraseModal struct {
	keyPath   string
	input     textinput.Model
	err       string
	width     int
	height    int
	cancelled bool
}

func NewPassphraseModal(keyPath, errMsg string) PassphraseModal {
	input := NewPassphraseInput("Enter passphrase")
	input.Focus()

	return PassphraseModal{
		keyPath: keyPath,
		input:   input,
		err:     errMsg,
	}
}

// NewPassphraseInput creates a masked textinput for passphrase entry
func NewPassphraseInput(placeholder string) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Width = 50
	input.CharLimit = 200
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	return input
}

func (m PassphraseModal) Init() tea.Cmd {
	return textinput.Blink
}

func (m PassphraseModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if err := ValidatePassphraseNotEmpty(m.input.Value()); err != nil {
				m.err = EmptyPassphraseError
				return m, nil
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PassphraseModal) View() string {
	if m.width < 20 || m.height < 10 {
		return "Terminal too small"
	}

	modalWidth := 70
	if m.width < modalWidth+10 {
		modalWidth = m.width - 10
	}

	lines := []string{
		centerTextLine("The SSH key protecting your sign-in is encrypted.", modalWidth),
		centerTextLine(fmt.Sprintf("Key: %s", m.keyPath), modalWidth),
		strings.Repeat(" ", modalWidth),
		centerTextLine(m.input.View(), modalWidth),
	}

	if m.err != "" {
		styledErr := lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true).
			Render("⚠ " + m.err)
		lines = append(lines, strings.Repeat(" ", modalWidth), centerTextLine(styledErr, modalWidth))
	}

	return RenderThreeSectionModal(
		"SSH Key Passphrase Required",
		lines,
		FormatFooter("Enter", "Continue", "Esc", "Cancel"),
		ModalTypeInfo,
		modalWidth,
		m.width,
		m.height,
	)
}

// Passphrase returns the entered passphrase (empty if cancelled)
func (m PassphraseModal) Passphrase() string {
	if m.cancelled {
		return ""
	}
	return m.input.Value()
}

func (m PassphraseModal) IsCancelled() bool {
	return m.cancelled
}

const (
	EmptyPassphraseError     = "Passphrase cannot be empty"
	IncorrectPassphraseError = "Incorrect passphrase. Please try again."
)

func ValidatePassphraseNotEmpty(passphrase string) error {
	if passphrase == "" {
		return errors.New("passphrase cannot be empty")
	}
	return nil
}
