package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chatdesk/config"
	appmodel "chatdesk/model"
)

type screen int

const (
	screenRestoring screen = iota
	screenLogin
	screenDashboard
)

const flashDuration = 2 * time.Second

// conversationPane is the viewport + input pair behind one tab
type conversationPane struct {
	viewport viewport.Model
	textarea textarea.Model
}

func newConversationPane(placeholder string) conversationPane {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Enter sends, Alt+Enter breaks the line
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	return conversationPane{
		viewport: viewport.New(0, 0),
		textarea: ta,
	}
}

type AppView struct {
	dataModel *appmodel.Model
	keys      *config.KeyBindingsConfig

	screen    screen
	login     LoginForm
	activeTab Tab
	panes     [2]conversationPane

	width  int
	height int
	ready  bool

	spinner spinner.Model

	showHelp     bool
	showAbout    bool
	selector     modelSelector
	promptEditor systemPromptEditor
	filePicker   FilePickerState

	flash   string
	flashAt time.Time

	storedToken string
}

func NewAppView(dataModel *appmodel.Model, keys *config.KeyBindingsConfig) AppView {
	if keys == nil {
		keys = config.DefaultKeybindings()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a := AppView{
		dataModel: dataModel,
		keys:      keys,
		screen:    screenLogin,
		login:     NewLoginForm(),
		activeTab: TabChat,
		panes: [2]conversationPane{
			TabChat:      newConversationPane("Ask anything... (Enter to send, Alt+Enter for a new line)"),
			TabDocuments: newConversationPane("Ask about your uploaded documents..."),
		},
		spinner:      sp,
		selector:     newModelSelector(),
		promptEditor: newSystemPromptEditor(),
		filePicker:   NewFilePickerState(""),
	}

	a.storedToken = dataModel.StoredToken()
	if a.storedToken != "" {
		a.screen = screenRestoring
	}

	return a
}

func (a AppView) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		a.spinner.Tick,
	}

	if a.storedToken != "" {
		cmds = append(cmds, appmodel.RestoreSession(a.dataModel.Client, a.storedToken))
	}

	return tea.Batch(cmds...)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading chatdesk..."
	}

	// Help sits above everything so it can be peeked from any screen
	if a.showHelp {
		return renderHelpModal(a.keys, a.width, a.height)
	}
	if a.showAbout {
		return renderAboutModal(a.aboutInfo(), a.keys.DisplayActionKey("about"), a.width, a.height)
	}

	switch a.screen {
	case screenRestoring:
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
			fmt.Sprintf("%s Restoring session...", a.spinner.View()))

	case screenLogin:
		return a.login.View(a.spinner.View(), a.keys.DisplayActionKey("toggle_auth_mode"), a.apiURL(), a.width, a.height)
	}

	if a.selector.visible {
		return a.selector.View(a.dataModel.Chat.Models(), a.dataModel.Chat.Config().Model,
			a.dataModel.Chat.ModelsLoading(), a.spinner.View(), a.width, a.height)
	}

	if a.promptEditor.visible {
		return a.promptEditor.View(a.width, a.height)
	}

	if a.filePicker.Active {
		return a.filePicker.View(a.width, a.height)
	}

	pane := a.panes[a.activeTab]

	return lipgloss.JoinVertical(
		lipgloss.Left,
		a.renderTitle(),
		a.renderTabs(),
		pane.viewport.View(),
		a.renderStatus(),
		pane.textarea.View(),
		a.renderFooter(),
	)
}

func (a AppView) apiURL() string {
	if a.dataModel.Config == nil {
		return ""
	}
	return a.dataModel.Config.APIURL()
}

func (a AppView) renderTitle() string {
	title := AssistantStyle.Bold(true).Render("chatdesk")

	if u := a.dataModel.User; u != nil {
		title += UserStyle.Render(" - " + u.DisplayName())
	}

	if a.activeTab == TabChat {
		model := a.dataModel.Chat.Config().Model
		if model == "" {
			model = "server default"
		}
		title += TitleStyle.Render(" - " + model)
	}

	return clampWidth(title, a.width)
}

func (a AppView) renderTabs() string {
	var tabs []string
	for _, t := range []Tab{TabChat, TabDocuments} {
		label := t.String()
		if t == TabDocuments {
			if n := len(a.dataModel.Documents.Documents()); n > 0 {
				label = fmt.Sprintf("%s (%d)", label, n)
			}
		}
		if t == a.activeTab {
			tabs = append(tabs, ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderStatus shows progress and the current error for the active tab
func (a AppView) renderStatus() string {
	var parts []string

	switch a.activeTab {
	case TabChat:
		chat := a.dataModel.Chat
		switch {
		case chat.Pending():
			parts = append(parts, a.spinner.View()+" Waiting for response...")
		case chat.Error() != "":
			parts = append(parts, ErrorStyle.Render("⚠ "+chat.Error()))
		case chat.LastStats() != nil:
			parts = append(parts, DimStyle.Render(formatStats(*chat.LastStats())))
		}

	case TabDocuments:
		docs := a.dataModel.Documents
		if docs.Uploading() {
			parts = append(parts, a.spinner.View()+" Uploading "+docs.UploadingName()+"...")
		} else if docs.UploadError() != "" {
			parts = append(parts, ErrorStyle.Render("⚠ "+docs.UploadError()))
		} else if last := docs.LastUpload(); last != "" {
			parts = append(parts, DimStyle.Render("Last upload: "+last))
		}

		if docs.Pending() {
			parts = append(parts, a.spinner.View()+" Searching documents...")
		} else if docs.Error() != "" {
			parts = append(parts, ErrorStyle.Render("⚠ "+docs.Error()))
		}
	}

	if a.flash != "" {
		parts = append(parts, SelectedStyle.Render(a.flash))
	}

	return clampWidth(strings.Join(parts, DimStyle.Render("  ·  ")), a.width)
}

func formatStats(s appmodel.ResponseStats) string {
	var parts []string
	if s.Model != "" {
		parts = append(parts, s.Model)
	}
	if s.EvalCount > 0 {
		parts = append(parts, fmt.Sprintf("%d tokens", s.EvalCount))
	}
	if tps := s.TokensPerSecond(); tps > 0 {
		parts = append(parts, fmt.Sprintf("%.1f tok/s", tps))
	}
	if s.TotalDuration > 0 {
		parts = append(parts, formatDuration(s.TotalDuration))
	}
	return strings.Join(parts, " · ")
}

func (a AppView) renderFooter() string {
	kb := a.keys
	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)

	items := []string{
		kb.DisplayActionKey("quit") + " " + descStyle.Render("Quit"),
		kb.DisplayActionKey("help") + " " + descStyle.Render("Help"),
		"Tab " + descStyle.Render("Switch"),
	}
	if a.activeTab == TabChat {
		items = append(items,
			kb.DisplayActionKey("model_selector")+" "+descStyle.Render("Models"),
			kb.DisplayActionKey("system_prompt")+" "+descStyle.Render("Prompt"),
		)
	} else {
		items = append(items, kb.DisplayActionKey("upload_document")+" "+descStyle.Render("Upload"))
	}
	items = append(items,
		kb.DisplayActionKey("clear_conversation")+" "+descStyle.Render("Clear"),
		"Enter "+descStyle.Render("Send"),
	)

	return clampWidth(StatusStyle.Render(strings.Join(items, "  ")), a.width)
}

// layout sizes both panes from the window size
func (a *AppView) layout() {
	// title, tabs, status, textarea (3), footer
	viewportHeight := a.height - 7
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	for i := range a.panes {
		a.panes[i].viewport.Width = a.width
		a.panes[i].viewport.Height = viewportHeight
		a.panes[i].textarea.SetWidth(a.width)
	}
}

// refreshPane re-renders a tab's transcript into its viewport
func (a *AppView) refreshPane(t Tab, gotoBottom bool) {
	var (
		messages []Message
		pending  string
		empty    string
	)

	switch t {
	case TabChat:
		messages = a.dataModel.Chat.Messages()
		if a.dataModel.Chat.Pending() {
			pending = a.spinner.View()
		}
		empty = "No messages yet. Start chatting!"
	case TabDocuments:
		messages = a.dataModel.Documents.Messages()
		if a.dataModel.Documents.Pending() {
			pending = a.spinner.View()
		}
		empty = fmt.Sprintf("Upload a PDF with %s, then ask questions about it.", a.keys.DisplayActionKey("upload_document"))
	}

	vp := &a.panes[t].viewport
	atBottom := vp.AtBottom()
	vp.SetContent(renderTranscript(messages, empty, pending, a.width))
	if gotoBottom || atBottom {
		vp.GotoBottom()
	}
}

func (a *AppView) refreshAll() {
	a.refreshPane(TabChat, true)
	a.refreshPane(TabDocuments, true)
}

func (a *AppView) activePane() *conversationPane {
	return &a.panes[a.activeTab]
}

func (a *AppView) focusInput() tea.Cmd {
	for i := range a.panes {
		a.panes[i].textarea.Blur()
	}
	return a.activePane().textarea.Focus()
}

func (a *AppView) setFlash(text string) tea.Cmd {
	a.flash = text
	a.flashAt = time.Now()
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashTickMsg{}
	})
}

// busy reports whether anything shows a spinner right now
func (a AppView) busy() bool {
	return a.screen == screenRestoring ||
		a.login.submitting ||
		a.dataModel.Chat.Pending() ||
		a.dataModel.Chat.ModelsLoading() ||
		a.dataModel.Documents.Pending() ||
		a.dataModel.Documents.Uploading()
}
