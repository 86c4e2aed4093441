package model

import (
	"context"
	"io"

	"chatdesk/api"
)

// Backend is the HTTP collaborator behind the conversation views.
// *api.Client implements it; tests use testutil.MockBackend.
type Backend interface {
	ListModels(ctx context.Context) ([]api.ModelInfo, error)
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
	ProcessDocument(ctx context.Context, filename string, content io.Reader) (*api.ProcessResponse, error)
	Query(ctx context.Context, question string) (*api.QueryResponse, error)
}

// AuthBackend covers the login / register / current-user endpoints
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	CurrentUser(ctx context.Context) (*api.User, error)
	SetToken(token string)
}
