package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chatdesk/config"
)

// FilePickerState is the document upload modal. The picker only lists .pdf
// files; a path typed by hand goes through the same upload check.
type FilePickerState struct {
	Active    bool
	Picker    filepicker.Model
	PathInput textinput.Model
	typing    bool
}

func NewFilePickerState(startDir string) FilePickerState {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf", ".PDF"}
	fp.Height = 10
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.ShowHidden = false

	if startDir == "" {
		startDir = config.GetHomeDir()
	}
	fp.CurrentDirectory = startDir

	applyPickerStyles(&fp)

	in := textinput.New()
	in.Prompt = "Path: "
	in.Placeholder = "/path/to/document.pdf"
	in.CharLimit = 1024
	in.Width = 60

	return FilePickerState{
		Picker:    fp,
		PathInput: in,
	}
}

func applyPickerStyles(fp *filepicker.Model) {
	fp.Styles.Directory = lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true)
	fp.Styles.File = lipgloss.NewStyle().
		Foreground(textColor)
	fp.Styles.Selected = lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true)
	fp.Styles.Cursor = lipgloss.NewStyle().
		Foreground(successColor)
}

func (fps *FilePickerState) Activate() tea.Cmd {
	fps.Active = true
	fps.typing = false
	fps.PathInput.SetValue("")
	fps.PathInput.Blur()
	fps.Picker.Path = ""
	applyPickerStyles(&fps.Picker)
	return fps.Picker.Init()
}

func (fps *FilePickerState) Reset() {
	fps.Active = false
	fps.typing = false
	fps.PathInput.Blur()
}

// Update handles one message. It returns the chosen path once the user picks
// a file or submits a typed path.
func (fps *FilePickerState) Update(msg tea.Msg) (string, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)

	if isKey && key.String() == "esc" {
		if fps.typing {
			fps.typing = false
			fps.PathInput.Blur()
			return "", nil
		}
		fps.Reset()
		return "", nil
	}

	if fps.typing {
		if isKey && key.String() == "enter" {
			path := config.ExpandPath(strings.TrimSpace(fps.PathInput.Value()))
			if path == "" {
				return "", nil
			}
			fps.Reset()
			return path, nil
		}
		var cmd tea.Cmd
		fps.PathInput, cmd = fps.PathInput.Update(msg)
		return "", cmd
	}

	if isKey && key.String() == "/" {
		fps.typing = true
		fps.PathInput.Focus()
		return "", textinput.Blink
	}

	var cmd tea.Cmd
	fps.Picker, cmd = fps.Picker.Update(msg)

	if isKey {
		if ok, path := fps.Picker.DidSelectFile(msg); ok {
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				config.Log.Debug().Str("component", "ui").Str("path", path).Msg("file selected")
				fps.Reset()
				return path, nil
			}
		}
	}

	return "", cmd
}

func (fps FilePickerState) View(width, height int) string {
	if width < 20 || height < 10 {
		return "Terminal too small"
	}

	modalWidth := width - 10
	if modalWidth > 80 {
		modalWidth = 80
	}

	contentStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Left)

	var lines []string
	lines = append(lines, DimStyle.Render(truncateToWidth(fps.Picker.CurrentDirectory, modalWidth)))
	for _, line := range strings.Split(fps.Picker.View(), "\n") {
		lines = append(lines, contentStyle.Render("  "+strings.TrimRight(line, " ")))
	}
	lines = append(lines, "")
	if fps.typing {
		lines = append(lines, fps.PathInput.View())
	} else {
		lines = append(lines, DimStyle.Render("Press / to type a path"))
	}

	var footer string
	if fps.typing {
		footer = FormatFooter("Enter", "Upload", "Esc", "Back")
	} else {
		footer = FormatFooter("j/k", "Navigate", "h/l", "Back/Forward", "Enter", "Upload", "Esc", "Cancel")
	}

	return RenderThreeSectionModal("Upload PDF", lines, footer, ModalTypeInfo, modalWidth, width, height)
}
