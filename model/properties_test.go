package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"chatdesk/api"
	"chatdesk/model/testutil"
)

func TestTranscriptGrowth(t *testing.T) {
	tests := []struct {
		name    string
		fail    bool
		wantLen int
	}{
		{"success adds reply", false, 2},
		{"failure adds nothing", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := testutil.NewMockBackend()
			if tt.fail {
				backend.ChatFunc = func(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
					return nil, &api.RequestError{Status: 500}
				}
			}
			chat := NewChatSession(backend, SessionConfig{}, nil)

			cmd := chat.Submit("  question  ")
			require.Len(t, chat.Messages(), 1, "user message is appended immediately")

			chat.Apply(cmd())
			require.Len(t, chat.Messages(), tt.wantLen)
		})
	}
}

func TestFailurePayloads(t *testing.T) {
	tests := []struct {
		payload any
		want    string
	}{
		{"bad request", "bad request"},
		{map[string]any{"error": "quota exceeded"}, "quota exceeded"},
	}

	for _, tt := range tests {
		backend := testutil.NewMockBackend()
		backend.ChatFunc = func(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
			return nil, &api.RequestError{Status: 400, Payload: tt.payload}
		}
		chat := NewChatSession(backend, SessionConfig{}, nil)
		chat.Apply(chat.Submit("x")())
		require.Equal(t, tt.want, chat.Error())
	}
}

func TestRapidSubmissionsSendOnce(t *testing.T) {
	backend := testutil.NewMockBackend()
	chat := NewChatSession(backend, SessionConfig{}, nil)

	first := chat.Submit("hello")
	second := chat.Submit("world")
	require.Nil(t, second)

	chat.Apply(first())

	requests := backend.ChatRequests()
	require.Len(t, requests, 1)
	last := requests[0].Messages[len(requests[0].Messages)-1]
	require.Equal(t, "hello", last.Content)
}

func TestUploadNetworkCalls(t *testing.T) {
	tests := []struct {
		file      string
		wantCalls int
	}{
		{"report.txt", 0},
		{"Report.PDF", 1},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			backend := testutil.NewMockBackend()
			docs := NewDocumentSession(backend)
			docs.SetFileOpener(fakeOpener("%PDF"))

			if cmd := docs.Upload(tt.file); cmd != nil {
				docs.Apply(cmd())
			}
			require.Equal(t, tt.wantCalls, backend.Calls())
			if tt.wantCalls == 0 {
				require.Equal(t, NotPDFText, docs.UploadError())
			}
		})
	}
}
