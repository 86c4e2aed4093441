package model

import (
	"errors"

	"chatdesk/api"
	"chatdesk/config"
	"chatdesk/storage"
)

// Client is everything the app needs from the backend
type Client interface {
	Backend
	AuthBackend
}

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config    *config.Config
	Client    Client
	AuthStore *storage.AuthStore

	// Signed-in user, nil on the login screen
	User *api.User

	Chat      *ChatSession
	Documents *DocumentSession

	Quitting bool

	Version string
}

// NewModel creates a new Model with the given configuration. authStore may
// be nil, in which case sign-in lasts for this run only.
func NewModel(cfg *config.Config, client Client, authStore *storage.AuthStore, version string) *Model {
	sessionCfg := SessionConfig{
		Model:        cfg.Model(),
		SystemPrompt: cfg.DefaultSystemPrompt,
	}

	return &Model{
		Config:    cfg,
		Client:    client,
		AuthStore: authStore,
		Chat:      NewChatSession(client, sessionCfg, cfg.ChatOptions),
		Documents: NewDocumentSession(client),
		Version:   version,
	}
}

// StoredToken returns the token saved by an earlier run, if any
func (m *Model) StoredToken() string {
	if m.AuthStore == nil {
		return ""
	}
	session, err := m.AuthStore.Load()
	if err != nil {
		if !errors.Is(err, storage.ErrNoSession) {
			config.Log.Debug().Str("component", "model").Err(err).Msg("could not read stored session")
		}
		return ""
	}
	return session.Token
}

// SignIn records a successful login or register
func (m *Model) SignIn(token string, user api.User) error {
	m.Client.SetToken(token)
	m.User = &user

	if m.AuthStore == nil {
		return nil
	}
	return m.AuthStore.Save(storage.StoredSession{
		Token:     token,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

// SignOut forgets the token and both transcripts
func (m *Model) SignOut() error {
	m.Client.SetToken("")
	m.User = nil
	m.Chat.Clear()
	m.Documents.Clear()

	if m.AuthStore == nil {
		return nil
	}
	return m.AuthStore.Clear()
}

func (m *Model) SignedIn() bool {
	return m.User != nil
}
