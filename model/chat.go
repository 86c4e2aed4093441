package model

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	ollamaapi "github.com/ollama/ollama/api"

	"chatdesk/api"
	"chatdesk/config"
)

const modelsTimeout = 10 * time.Second

// SessionConfig is read, never written, when a request is built
type SessionConfig struct {
	Model        string // empty means the server default
	SystemPrompt string
}

// ResponseStats comes from the upstream metrics echoed with a chat answer
type ResponseStats struct {
	Model         string
	EvalCount     int
	EvalDuration  time.Duration
	TotalDuration time.Duration
}

func (s ResponseStats) TokensPerSecond() float64 {
	if s.EvalCount == 0 || s.EvalDuration <= 0 {
		return 0
	}
	return float64(s.EvalCount) / s.EvalDuration.Seconds()
}

// ChatSession is the chat conversation loop. All methods run on the Bubble Tea
// event loop; network work happens in the returned commands and comes back as
// ChatResponseMsg / ChatErrorMsg / ModelsListMsg through Apply.
type ChatSession struct {
	backend    Backend
	config     SessionConfig
	options    map[string]any
	transcript Transcript

	pending bool
	err     string

	models        []api.ModelInfo
	modelsLoading bool
	lastStats     *ResponseStats
}

func NewChatSession(backend Backend, cfg SessionConfig, options map[string]any) *ChatSession {
	return &ChatSession{
		backend: backend,
		config:  cfg,
		options: options,
	}
}

// Init runs model discovery. A failure only means an empty list.
func (s *ChatSession) Init() tea.Cmd {
	return s.RefreshModels()
}

func (s *ChatSession) RefreshModels() tea.Cmd {
	if s.modelsLoading {
		return nil
	}
	s.modelsLoading = true
	backend := s.backend

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), modelsTimeout)
		defer cancel()

		models, err := backend.ListModels(ctx)
		return ModelsListMsg{Models: models, Err: err}
	}
}

// Submit appends text as a user message and returns the command that sends
// the conversation. It returns nil, changing nothing, when text is blank or a
// request is already pending; callers clear their input only on a non-nil result.
func (s *ChatSession) Submit(text string) tea.Cmd {
	if strings.TrimSpace(text) == "" || s.pending {
		return nil
	}

	s.transcript.Append(newMessage(RoleUser, text, nil))
	s.pending = true
	s.err = ""

	req := s.buildRequest()
	backend := s.backend

	config.Log.Debug().
		Str("component", "chat").
		Str("model", req.Model).
		Int("messages", len(req.Messages)).
		Msg("sending chat request")

	return func() tea.Msg {
		resp, err := backend.Chat(context.Background(), req)
		if err != nil {
			return ChatErrorMsg{Err: err}
		}
		return ChatResponseMsg{Response: resp}
	}
}

// buildRequest snapshots system prompt + full transcript, newest last
func (s *ChatSession) buildRequest() api.ChatRequest {
	messages := make([]ollamaapi.Message, 0, s.transcript.Len()+1)
	if s.config.SystemPrompt != "" {
		messages = append(messages, ollamaapi.Message{Role: RoleSystem, Content: s.config.SystemPrompt})
	}
	for _, msg := range s.transcript.Messages() {
		messages = append(messages, ollamaapi.Message{Role: msg.Role, Content: msg.Content})
	}

	options := make(map[string]any, len(s.options))
	for k, v := range s.options {
		options[k] = v
	}

	return api.ChatRequest{
		Model:    s.config.Model,
		Messages: messages,
		Options:  options,
	}
}

// Apply folds a command result back into the session. It reports whether
// msg belonged to this session and the message appended, if any.
func (s *ChatSession) Apply(msg tea.Msg) (*Message, bool) {
	switch msg := msg.(type) {
	case ChatResponseMsg:
		s.pending = false
		s.err = ""

		content := ""
		var auxCtx *AuxContext
		if msg.Response != nil {
			content = msg.Response.Content
			auxCtx = auxContextFrom(msg.Response.Context)
			s.recordStats(msg.Response)
		}
		if strings.TrimSpace(content) == "" {
			content = NoResponsePlaceholder
		}

		reply := newMessage(RoleAssistant, content, auxCtx)
		s.transcript.Append(reply)
		return &reply, true

	case ChatErrorMsg:
		s.pending = false
		s.err = ErrorText(msg.Err)
		config.Log.Debug().Str("component", "chat").Err(msg.Err).Msg("chat request failed")
		return nil, true

	case ModelsListMsg:
		s.modelsLoading = false
		if msg.Err != nil {
			config.Log.Debug().Str("component", "chat").Err(msg.Err).Msg("model discovery failed, using server default")
			s.models = []api.ModelInfo{}
			return nil, true
		}
		s.models = msg.Models
		if s.models == nil {
			s.models = []api.ModelInfo{}
		}
		return nil, true
	}

	return nil, false
}

func (s *ChatSession) recordStats(resp *api.ChatResponse) {
	upstream, err := resp.Upstream()
	if err != nil || upstream == nil {
		s.lastStats = nil
		return
	}
	model := upstream.Model
	if model == "" {
		model = resp.Model
	}
	s.lastStats = &ResponseStats{
		Model:         model,
		EvalCount:     upstream.EvalCount,
		EvalDuration:  upstream.EvalDuration,
		TotalDuration: upstream.TotalDuration,
	}
}

// Clear empties the transcript and error. An in-flight request is not
// cancelled; its answer lands in the emptied transcript.
func (s *ChatSession) Clear() {
	s.transcript.Clear()
	s.err = ""
}

func (s *ChatSession) SetModel(model string) {
	s.config.Model = model
}

func (s *ChatSession) SetSystemPrompt(prompt string) {
	s.config.SystemPrompt = prompt
}

func (s *ChatSession) Config() SessionConfig {
	return s.config
}

func (s *ChatSession) Pending() bool {
	return s.pending
}

func (s *ChatSession) Error() string {
	return s.err
}

func (s *ChatSession) Messages() []Message {
	return s.transcript.Messages()
}

func (s *ChatSession) Transcript() *Transcript {
	return &s.transcript
}

// Models is nil until discovery finishes
func (s *ChatSession) Models() []api.ModelInfo {
	return s.models
}

func (s *ChatSession) ModelsLoading() bool {
	return s.modelsLoading
}

func (s *ChatSession) LastStats() *ResponseStats {
	return s.lastStats
}
