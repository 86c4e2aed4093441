package model

import (
	"chatdesk/api"
)

type ModelsListMsg struct {
	Models []api.ModelInfo
	Err    error
}

type ChatResponseMsg struct {
	Response *api.ChatResponse
}

type ChatErrorMsg struct {
	Err error
}

type QueryResponseMsg struct {
	Response *api.QueryResponse
}

type QueryErrorMsg struct {
	Err error
}

type UploadDoneMsg struct {
	Filename string
}

type UploadErrorMsg struct {
	Err error
}

type AuthResultMsg struct {
	Response *api.AuthResponse
	Err      error
}

type SessionRestoredMsg struct {
	User  *api.User
	Token string
	Err   error
}

type MarkdownRenderedMsg struct {
	View      string // "chat" or "documents"
	MessageID string
	Rendered  string
}

type FlashTickMsg struct{}
