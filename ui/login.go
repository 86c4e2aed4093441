package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appmodel "chatdesk/model"
)

const (
	fieldEmail = iota
	fieldFirstName
	fieldLastName
	fieldPassword
	fieldConfirmPassword
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldEmail:           "Email",
	fieldFirstName:       "First name",
	fieldLastName:        "Last name",
	fieldPassword:        "Password",
	fieldConfirmPassword: "Confirm password",
}

// LoginForm is the sign-in / sign-up screen shown until a token is accepted
type LoginForm struct {
	mode       appmodel.AuthMode
	inputs     [fieldCount]textinput.Model
	focus      int
	err        string
	submitting bool
}

func NewLoginForm() LoginForm {
	var f LoginForm
	for i := range f.inputs {
		in := textinput.New()
		in.Width = 40
		in.CharLimit = 254
		in.Prompt = ""
		if i == fieldPassword || i == fieldConfirmPassword {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.inputs[i] = in
	}
	f.inputs[fieldEmail].Placeholder = "you@example.com"
	f.inputs[fieldEmail].Focus()
	return f
}

// fields lists the inputs shown for the current mode, in tab order
func (f LoginForm) fields() []int {
	if f.mode == appmodel.AuthRegister {
		return []int{fieldEmail, fieldFirstName, fieldLastName, fieldPassword, fieldConfirmPassword}
	}
	return []int{fieldEmail, fieldPassword}
}

func (f LoginForm) Mode() appmodel.AuthMode {
	return f.mode
}

func (f *LoginForm) ToggleMode() {
	if f.mode == appmodel.AuthLogin {
		f.mode = appmodel.AuthRegister
	} else {
		f.mode = appmodel.AuthLogin
	}
	f.err = ""
	f.setFocus(0)
}

func (f *LoginForm) setFocus(pos int) {
	fields := f.fields()
	if pos < 0 {
		pos = len(fields) - 1
	}
	if pos >= len(fields) {
		pos = 0
	}
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.focus = pos
	f.inputs[fields[pos]].Focus()
}

func (f LoginForm) onLastField() bool {
	return f.focus == len(f.fields())-1
}

// AuthForm snapshots the inputs for validation and sending
func (f LoginForm) AuthForm() appmodel.AuthForm {
	return appmodel.AuthForm{
		Mode:            f.mode,
		Email:           f.inputs[fieldEmail].Value(),
		FirstName:       f.inputs[fieldFirstName].Value(),
		LastName:        f.inputs[fieldLastName].Value(),
		Password:        f.inputs[fieldPassword].Value(),
		ConfirmPassword: f.inputs[fieldConfirmPassword].Value(),
	}
}

// Reset clears passwords and state, keeping the email for the next attempt
func (f *LoginForm) Reset() {
	f.inputs[fieldPassword].SetValue("")
	f.inputs[fieldConfirmPassword].SetValue("")
	f.err = ""
	f.submitting = false
	f.setFocus(0)
}

func (f *LoginForm) SetError(msg string) {
	f.err = msg
	f.submitting = false
}

// Update handles one key. submit is true when the user asked to send the form.
func (f LoginForm) Update(msg tea.KeyMsg) (LoginForm, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return f, textinput.Blink, false

	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return f, textinput.Blink, false

	case "enter":
		if !f.onLastField() {
			f.setFocus(f.focus + 1)
			return f, textinput.Blink, false
		}
		return f, nil, true
	}

	var cmd tea.Cmd
	idx := f.fields()[f.focus]
	f.inputs[idx], cmd = f.inputs[idx].Update(msg)
	return f, cmd, false
}

func (f LoginForm) View(spinnerView, toggleKey, baseURL string, width, height int) string {
	formWidth := 56
	if width < formWidth+10 {
		formWidth = width - 10
	}

	labelStyle := lipgloss.NewStyle().Width(18).Foreground(dimColor)
	focusedLabel := lipgloss.NewStyle().Width(18).Foreground(successColor).Bold(true)

	var lines []string
	for pos, idx := range f.fields() {
		label := labelStyle.Render(fieldLabels[idx])
		if pos == f.focus {
			label = focusedLabel.Render(fieldLabels[idx])
		}
		lines = append(lines, label+f.inputs[idx].View())
	}

	lines = append(lines, "")
	switch {
	case f.submitting:
		lines = append(lines, fmt.Sprintf("%s %s...", spinnerView, signingVerb(f.mode)))
	case f.err != "":
		lines = append(lines, ErrorStyle.Render(wordWrap("⚠ "+f.err, formWidth)))
	default:
		lines = append(lines, DimStyle.Render(truncateToWidth("Server: "+baseURL, formWidth)))
	}

	other := "Register"
	if f.mode == appmodel.AuthRegister {
		other = "Login"
	}

	return RenderThreeSectionModal(
		"chatdesk - "+f.mode.String(),
		lines,
		FormatFooter("Tab", "Next field", "Enter", "Submit", toggleKey, other, "Alt+Q", "Quit"),
		ModalTypeInfo,
		formWidth,
		width,
		height,
	)
}

func signingVerb(mode appmodel.AuthMode) string {
	if mode == appmodel.AuthRegister {
		return "Creating account"
	}
	return "Signing in"
}
