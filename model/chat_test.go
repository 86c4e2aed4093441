package model

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chatdesk/api"
	"chatdesk/model/testutil"
)

func newTestChat(backend *testutil.MockBackend, cfg SessionConfig) *ChatSession {
	return NewChatSession(backend, cfg, nil)
}

func TestChatSubmitIgnoresBlankInput(t *testing.T) {
	backend := testutil.NewMockBackend()
	chat := newTestChat(backend, SessionConfig{})

	for _, text := range []string{"", "   ", "\n\t"} {
		require.Nil(t, chat.Submit(text), "blank input %q should be ignored", text)
	}
	require.Empty(t, chat.Messages())
	require.False(t, chat.Pending())
	require.Zero(t, backend.Calls())
}

func TestChatSubmitWhilePending(t *testing.T) {
	backend := testutil.NewMockBackend()
	chat := newTestChat(backend, SessionConfig{})

	first := chat.Submit("hello")
	require.NotNil(t, first)
	require.True(t, chat.Pending())

	require.Nil(t, chat.Submit("second"), "submit while pending must be refused")
	require.Len(t, chat.Messages(), 1)
}

func TestChatRequestSnapshot(t *testing.T) {
	backend := testutil.NewMockBackend()
	chat := NewChatSession(backend, SessionConfig{Model: "llama3", SystemPrompt: "Be brief."},
		map[string]any{"temperature": 0.2})

	cmd := chat.Submit("first question")
	msg := cmd()
	reply, ok := chat.Apply(msg)
	require.True(t, ok)
	require.NotNil(t, reply)
	require.Equal(t, "Mock response", reply.Content)

	cmd = chat.Submit("second question")
	cmd()

	requests := backend.ChatRequests()
	require.Len(t, requests, 2)

	second := requests[1]
	require.Equal(t, "llama3", second.Model)
	require.Equal(t, 0.2, second.Options["temperature"])
	require.Len(t, second.Messages, 4)
	require.Equal(t, RoleSystem, second.Messages[0].Role)
	require.Equal(t, "Be brief.", second.Messages[0].Content)
	require.Equal(t, "first question", second.Messages[1].Content)
	require.Equal(t, RoleAssistant, second.Messages[2].Role)
	require.Equal(t, "second question", second.Messages[3].Content)
}

func TestChatRequestWithoutSystemPromptOrModel(t *testing.T) {
	backend := testutil.NewMockBackend()
	chat := newTestChat(backend, SessionConfig{})

	chat.Submit("hi")()

	req := backend.ChatRequests()[0]
	require.Empty(t, req.Model)
	require.Len(t, req.Messages, 1)
	require.Equal(t, RoleUser, req.Messages[0].Role)
	require.NotNil(t, req.Options, "options are sent as {} when unset")

	body, err := json.Marshal(req)
	require.NoError(t, err)
	require.Contains(t, string(body), `"options":{}`)
	require.NotContains(t, string(body), `"model"`)
}

func TestChatEmptyAnswerUsesPlaceholder(t *testing.T) {
	backend := testutil.NewMockBackend()
	backend.ChatFunc = func(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
		return &api.ChatResponse{Content: "  "}, nil
	}
	chat := newTestChat(backend, SessionConfig{})

	reply, _ := chat.Apply(chat.Submit("hello")())
	require.Equal(t, NoResponsePlaceholder, reply.Content)
	require.False(t, chat.Pending())
}

func TestChatErrorKeepsUserMessage(t *testing.T) {
	backend := testutil.NewMockBackend()
	backend.ChatFunc = func(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
		return nil, &api.RequestError{Status: 502, Payload: map[string]any{"error": "Ollama is unreachable"}}
	}
	chat := newTestChat(backend, SessionConfig{})

	reply, ok := chat.Apply(chat.Submit("hello")())
	require.True(t, ok)
	require.Nil(t, reply)
	require.False(t, chat.Pending())
	require.Equal(t, "Ollama is unreachable", chat.Error())

	messages := chat.Messages()
	require.Len(t, messages, 1)
	require.Equal(t, RoleUser, messages[0].Role)

	// next accepted submit clears the error
	backend.ChatFunc = func(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
		return &api.ChatResponse{Content: "ok"}, nil
	}
	require.NotNil(t, chat.Submit("again"))
	require.Empty(t, chat.Error())
}

func TestChatClear(t *testing.T) {
	backend := testutil.NewMockBackend()
	chat := newTestChat(backend, SessionConfig{})

	chat.Apply(chat.Submit("one")())
	chat.Apply(ChatErrorMsg{Err: errors.New("boom")})
	require.NotEmpty(t, chat.Messages())

	chat.Clear()
	require.Empty(t, chat.Messages())
	require.Empty(t, chat.Error())
}

func TestChatLateReplyAfterClear(t *testing.T) {
	backend := testutil.NewMockBackend()
	chat := newTestChat(backend, SessionConfig{})

	cmd := chat.Submit("question")
	chat.Clear()
	require.True(t, chat.Pending(), "clear does not cancel the in-flight request")

	chat.Apply(cmd())
	messages := chat.Messages()
	require.Len(t, messages, 1)
	require.Equal(t, RoleAssistant, messages[0].Role)
}

func TestChatModelDiscovery(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		backend := testutil.NewMockBackend()
		chat := newTestChat(backend, SessionConfig{})
		require.Nil(t, chat.Models())

		cmd := chat.Init()
		require.True(t, chat.ModelsLoading())
		require.Nil(t, chat.RefreshModels(), "one discovery at a time")

		chat.Apply(cmd())
		require.False(t, chat.ModelsLoading())
		require.Len(t, chat.Models(), 2)
	})

	t.Run("failure means empty list", func(t *testing.T) {
		backend := testutil.NewMockBackend()
		backend.ListModelsFunc = func(ctx context.Context) ([]api.ModelInfo, error) {
			return nil, errors.New("unreachable")
		}
		chat := newTestChat(backend, SessionConfig{})

		chat.Apply(chat.Init()())
		require.NotNil(t, chat.Models())
		require.Empty(t, chat.Models())
		require.Empty(t, chat.Error(), "discovery failures are not shown as chat errors")
	})
}

func TestChatSetModelAndPrompt(t *testing.T) {
	backend := testutil.NewMockBackend()
	chat := newTestChat(backend, SessionConfig{Model: "a"})

	chat.SetModel("b")
	chat.SetSystemPrompt("You are terse.")
	chat.Submit("hi")()

	req := backend.ChatRequests()[0]
	require.Equal(t, "b", req.Model)
	require.Equal(t, "You are terse.", req.Messages[0].Content)
}

func TestChatStats(t *testing.T) {
	backend := testutil.NewMockBackend()
	backend.ChatFunc = func(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
		raw := `{"model":"llama3:8b","eval_count":50,"eval_duration":2000000000,"total_duration":3000000000}`
		return &api.ChatResponse{Content: "answer", Raw: json.RawMessage(raw)}, nil
	}
	chat := newTestChat(backend, SessionConfig{})

	chat.Apply(chat.Submit("hi")())

	stats := chat.LastStats()
	require.NotNil(t, stats)
	require.Equal(t, "llama3:8b", stats.Model)
	require.Equal(t, 50, stats.EvalCount)
	require.Equal(t, 3*time.Second, stats.TotalDuration)
	require.InDelta(t, 25.0, stats.TokensPerSecond(), 0.001)
}

func TestChatIgnoresForeignMessages(t *testing.T) {
	chat := newTestChat(testutil.NewMockBackend(), SessionConfig{})
	_, ok := chat.Apply(QueryErrorMsg{Err: errors.New("x")})
	require.False(t, ok)
}
