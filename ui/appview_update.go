package ui

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"chatdesk/api"
	"chatdesk/config"
	appmodel "chatdesk/model"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		widthChanged := msg.Width != a.width
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		a.ready = true
		a.refreshAll()

		if widthChanged {
			return a, a.rerenderMarkdown()
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		if !a.busy() {
			return a, cmd
		}
		if a.dataModel.Chat.Pending() {
			a.refreshPane(TabChat, false)
		}
		if a.dataModel.Documents.Pending() {
			a.refreshPane(TabDocuments, false)
		}
		return a, cmd

	case sessionRestoredMsg:
		return a.handleSessionRestored(msg)

	case authResultMsg:
		return a.handleAuthResult(msg)

	case chatResponseMsg, chatErrorMsg, modelsListMsg:
		reply, _ := a.dataModel.Chat.Apply(msg)
		if _, ok := msg.(modelsListMsg); ok && a.selector.visible {
			a.selector.refilter(a.dataModel.Chat.Models())
		}
		a.refreshPane(TabChat, reply != nil)
		if reply != nil {
			return a, renderMarkdownAsync(TabChat, reply.ID, reply.Content, a.width)
		}
		return a, nil

	case queryResponseMsg, queryErrorMsg, uploadDoneMsg, uploadErrorMsg:
		reply, _ := a.dataModel.Documents.Apply(msg)
		a.refreshPane(TabDocuments, reply != nil)
		if done, ok := msg.(uploadDoneMsg); ok {
			cmds = append(cmds, a.setFlash("Processed "+done.Filename))
		}
		if reply != nil {
			cmds = append(cmds, renderMarkdownAsync(TabDocuments, reply.ID, reply.Content, a.width))
		}
		return a, tea.Batch(cmds...)

	case markdownRenderedMsg:
		tab := TabChat
		transcript := a.dataModel.Chat.Transcript()
		if msg.View == TabDocuments.viewKey() {
			tab = TabDocuments
			transcript = a.dataModel.Documents.Transcript()
		}
		// The message may be gone after a clear; nothing to do then
		if transcript.SetRendered(msg.MessageID, msg.Rendered) {
			a.refreshPane(tab, false)
		}
		return a, nil

	case clipboardMsg:
		if msg.err != nil {
			config.Log.Debug().Str("component", "ui").Err(msg.err).Msg("clipboard write failed")
			return a, a.setFlash("Copy failed: " + msg.err.Error())
		}
		return a, a.setFlash("Copied " + msg.what)

	case flashTickMsg:
		if time.Since(a.flashAt) >= flashDuration {
			a.flash = ""
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// Everything else (blink, directory reads) goes to whatever has focus
	var cmd tea.Cmd
	switch {
	case a.filePicker.Active:
		var path string
		path, cmd = a.filePicker.Update(msg)
		if path != "" {
			return a.startUpload(path)
		}
	case a.promptEditor.visible:
		_, _, cmd = a.promptEditor.Update(msg)
	case a.screen == screenDashboard:
		pane := a.activePane()
		pane.textarea, cmd = pane.textarea.Update(msg)
	}

	return a, cmd
}

func (a AppView) handleSessionRestored(msg sessionRestoredMsg) (tea.Model, tea.Cmd) {
	a.storedToken = ""

	if msg.Err != nil || msg.User == nil {
		a.dataModel.Client.SetToken("")
		a.screen = screenLogin

		var reqErr *api.RequestError
		if errors.As(msg.Err, &reqErr) && (reqErr.Status == http.StatusUnauthorized || reqErr.Status == http.StatusForbidden) {
			if err := a.dataModel.SignOut(); err != nil {
				config.Log.Debug().Str("component", "ui").Err(err).Msg("failed to clear stale session")
			}
			a.login.SetError("Your session has expired. Please sign in again.")
		} else if msg.Err != nil {
			a.login.SetError(appmodel.ErrorText(msg.Err))
		}
		return a, nil
	}

	return a.enterDashboard(msg.Token, *msg.User)
}

func (a AppView) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.login.SetError(appmodel.ErrorText(msg.Err))
		return a, nil
	}

	a.login.Reset()
	return a.enterDashboard(msg.Response.AccessToken, msg.Response.User)
}

func (a AppView) enterDashboard(token string, user api.User) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if err := a.dataModel.SignIn(token, user); err != nil {
		config.Log.Debug().Str("component", "ui").Err(err).Msg("could not persist session")
		cmds = append(cmds, a.setFlash("Signed in, but the session could not be saved"))
	}

	a.screen = screenDashboard
	a.activeTab = TabChat
	a.refreshAll()

	cmds = append(cmds, a.focusInput(), a.dataModel.Chat.Init())
	return a, tea.Batch(cmds...)
}

// rerenderMarkdown re-renders every assistant message at the current width
func (a AppView) rerenderMarkdown() tea.Cmd {
	var cmds []tea.Cmd
	for _, msg := range a.dataModel.Chat.Messages() {
		if msg.Role == appmodel.RoleAssistant {
			cmds = append(cmds, renderMarkdownAsync(TabChat, msg.ID, msg.Content, a.width))
		}
	}
	for _, msg := range a.dataModel.Documents.Messages() {
		if msg.Role == appmodel.RoleAssistant {
			cmds = append(cmds, renderMarkdownAsync(TabDocuments, msg.ID, msg.Content, a.width))
		}
	}
	return tea.Batch(cmds...)
}
