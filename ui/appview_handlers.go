package ui

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"chatdesk/config"
	appmodel "chatdesk/model"
)

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kb := a.keys
	k := msg.String()

	// PRIORITY 0: always-global shortcuts
	if k == "ctrl+c" || kb.Matches(k, "quit") {
		config.Log.Debug().Str("component", "ui").Msg("quit requested")
		a.dataModel.Quitting = true
		return a, tea.Quit
	}

	if kb.Matches(k, "help") {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		if k == "esc" {
			a.showHelp = false
		}
		return a, nil
	}

	if kb.Matches(k, "about") && a.screen == screenDashboard {
		a.showAbout = !a.showAbout
		return a, nil
	}
	if a.showAbout {
		if k == "esc" {
			a.showAbout = false
		}
		return a, nil
	}

	if kb.Matches(k, "toggle_theme") {
		theme := ToggleTheme()
		applyPickerStyles(&a.filePicker.Picker)
		a.refreshAll()
		return a, a.setFlash("Theme: " + theme.Name)
	}

	switch a.screen {
	case screenRestoring:
		return a, nil
	case screenLogin:
		return a.handleLoginKey(msg)
	}

	// PRIORITY 1: open modals
	if a.selector.visible {
		return a.handleModelSelectorKey(msg)
	}
	if a.promptEditor.visible {
		prompt, saved, cmd := a.promptEditor.Update(msg)
		if saved {
			a.dataModel.Chat.SetSystemPrompt(prompt)
			return a, tea.Batch(cmd, a.setFlash("System prompt updated"))
		}
		return a, cmd
	}
	if a.filePicker.Active {
		path, cmd := a.filePicker.Update(msg)
		if path != "" {
			return a.startUpload(path)
		}
		return a, cmd
	}

	// PRIORITY 2: dashboard actions
	pane := a.activePane()

	switch {
	case kb.Matches(k, "logout"):
		if err := a.dataModel.SignOut(); err != nil {
			config.Log.Debug().Str("component", "ui").Err(err).Msg("failed to clear stored session")
		}
		for i := range a.panes {
			a.panes[i].textarea.Reset()
		}
		a.refreshAll()
		a.screen = screenLogin
		a.login.Reset()
		return a, nil

	case kb.Matches(k, "next_tab"), kb.Matches(k, "prev_tab"):
		// Two tabs, so both directions land on the other one
		if a.activeTab == TabChat {
			a.activeTab = TabDocuments
		} else {
			a.activeTab = TabChat
		}
		a.refreshPane(a.activeTab, false)
		return a, a.focusInput()

	case kb.Matches(k, "model_selector") && a.activeTab == TabChat:
		a.selector.open(a.dataModel.Chat.Models(), a.dataModel.Chat.Config().Model)
		if a.dataModel.Chat.Models() == nil {
			return a, a.dataModel.Chat.RefreshModels()
		}
		return a, nil

	case kb.Matches(k, "system_prompt") && a.activeTab == TabChat:
		return a, a.promptEditor.open(a.dataModel.Chat.Config().SystemPrompt)

	case kb.Matches(k, "upload_document") && a.activeTab == TabDocuments:
		if a.dataModel.Documents.Uploading() {
			return a, a.setFlash("An upload is already in progress")
		}
		return a, a.filePicker.Activate()

	case kb.Matches(k, "clear_conversation"):
		if a.activeTab == TabChat {
			a.dataModel.Chat.Clear()
		} else {
			a.dataModel.Documents.Clear()
		}
		a.refreshPane(a.activeTab, true)
		return a, nil

	case kb.Matches(k, "yank_last_response"):
		last, ok := lastAssistant(a.activeMessages())
		if !ok {
			return a, nil
		}
		return a, copyToClipboard("last answer", last.Content)

	case kb.Matches(k, "yank_conversation"):
		messages := a.activeMessages()
		if len(messages) == 0 {
			return a, nil
		}
		return a, copyToClipboard("conversation", transcriptText(messages))

	case kb.Matches(k, "clear_input"):
		pane.textarea.Reset()
		return a, nil

	case kb.Matches(k, "scroll_down"):
		pane.viewport.HalfPageDown()
		return a, nil

	case kb.Matches(k, "scroll_up"):
		pane.viewport.HalfPageUp()
		return a, nil

	case kb.Matches(k, "page_down"), k == "pgdown":
		pane.viewport.PageDown()
		return a, nil

	case kb.Matches(k, "page_up"), k == "pgup":
		pane.viewport.PageUp()
		return a, nil

	case kb.Matches(k, "scroll_to_top"):
		pane.viewport.GotoTop()
		return a, nil

	case kb.Matches(k, "scroll_to_bottom"):
		pane.viewport.GotoBottom()
		return a, nil

	case k == "enter":
		return a.submitInput()
	}

	var cmd tea.Cmd
	pane.textarea, cmd = pane.textarea.Update(msg)
	return a, cmd
}

// submitInput hands the input to the active session. The input is cleared
// only when the session accepted it.
func (a AppView) submitInput() (tea.Model, tea.Cmd) {
	pane := a.activePane()
	text := pane.textarea.Value()

	var cmd tea.Cmd
	if a.activeTab == TabChat {
		cmd = a.dataModel.Chat.Submit(text)
	} else {
		cmd = a.dataModel.Documents.Submit(text)
	}
	if cmd == nil {
		return a, nil
	}

	pane.textarea.Reset()
	a.refreshPane(a.activeTab, true)
	return a, cmd
}

func (a AppView) startUpload(path string) (tea.Model, tea.Cmd) {
	cmd := a.dataModel.Documents.Upload(path)
	a.refreshPane(TabDocuments, false)
	return a, cmd
}

func (a AppView) activeMessages() []Message {
	if a.activeTab == TabChat {
		return a.dataModel.Chat.Messages()
	}
	return a.dataModel.Documents.Messages()
}

func (a AppView) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.login.submitting {
		return a, nil
	}

	if a.keys.Matches(msg.String(), "toggle_auth_mode") {
		a.login.ToggleMode()
		return a, nil
	}

	form, cmd, submit := a.login.Update(msg)
	a.login = form
	if !submit {
		return a, cmd
	}

	authCmd, err := appmodel.Authenticate(a.dataModel.Client, a.login.AuthForm())
	if err != nil {
		a.login.SetError(err.Error())
		return a, nil
	}
	a.login.submitting = true
	a.login.err = ""
	return a, authCmd
}

func (a AppView) handleModelSelectorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kb := a.keys
	k := msg.String()
	chat := a.dataModel.Chat

	switch {
	case k == "esc":
		a.selector.close()
		return a, nil

	case k == "enter":
		if name, ok := a.selector.choice(); ok {
			chat.SetModel(name)
			a.selector.close()
			return a, a.setFlash("Model: " + name)
		}
		return a, nil

	case kb.Matches(k, "model_selector_down"), k == "alt+j":
		a.selector.move(1)
		return a, nil

	case kb.Matches(k, "model_selector_up"), k == "alt+k":
		a.selector.move(-1)
		return a, nil

	case kb.Matches(k, "model_selector_refresh"):
		return a, chat.RefreshModels()
	}

	var cmd tea.Cmd
	a.selector.filterInput, cmd = a.selector.filterInput.Update(msg)
	a.selector.refilter(chat.Models())
	return a, cmd
}

func copyToClipboard(what, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{what: what, err: clipboard.WriteAll(text)}
	}
}
