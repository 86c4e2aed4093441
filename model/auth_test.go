package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"chatdesk/api"
	"chatdesk/config"
	"chatdesk/model/testutil"
	"chatdesk/storage"
)

func TestAuthFormValidate(t *testing.T) {
	register := AuthForm{
		Mode:            AuthRegister,
		Email:           "ada@example.com",
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Password:        "secret",
		ConfirmPassword: "secret",
	}

	tests := []struct {
		name string
		form AuthForm
		want error
	}{
		{"login ok", AuthForm{Email: "ada@example.com", Password: "secret"}, nil},
		{"login missing password", AuthForm{Email: "ada@example.com"}, ErrMissingFields},
		{"login missing email", AuthForm{Password: "secret"}, ErrMissingFields},
		{"login bad email", AuthForm{Email: "not-an-email", Password: "secret"}, ErrInvalidEmail},
		{"login ignores register fields", AuthForm{Email: "ada@example.com", Password: "a", ConfirmPassword: "b"}, nil},
		{"register ok", register, nil},
		{"register missing first name", func() AuthForm { f := register; f.FirstName = " "; return f }(), ErrMissingFields},
		{"register missing confirm", func() AuthForm { f := register; f.ConfirmPassword = ""; return f }(), ErrMissingFields},
		{"register mismatch", func() AuthForm { f := register; f.ConfirmPassword = "other"; return f }(), ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthenticateLogin(t *testing.T) {
	backend := testutil.NewMockBackend()

	cmd, err := Authenticate(backend, AuthForm{Email: " ada@example.com ", Password: "secret"})
	require.NoError(t, err)

	msg, ok := cmd().(AuthResultMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	require.Equal(t, "mock-token", msg.Response.AccessToken)
	require.Equal(t, "ada@example.com", msg.Response.User.Email)
	require.Equal(t, 1, backend.Logins())
	require.Zero(t, backend.Registrations())
}

func TestAuthenticateRegister(t *testing.T) {
	backend := testutil.NewMockBackend()
	form := AuthForm{
		Mode:            AuthRegister,
		Email:           "ada@example.com",
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Password:        "secret",
		ConfirmPassword: "secret",
	}

	cmd, err := Authenticate(backend, form)
	require.NoError(t, err)

	msg := cmd().(AuthResultMsg)
	require.NoError(t, msg.Err)
	require.Equal(t, "Ada Lovelace", msg.Response.User.DisplayName())
	require.Equal(t, 1, backend.Registrations())
}

func TestAuthenticateInvalidFormSendsNothing(t *testing.T) {
	backend := testutil.NewMockBackend()

	cmd, err := Authenticate(backend, AuthForm{Email: "ada@example.com"})
	require.Error(t, err)
	require.Nil(t, cmd)
	require.Zero(t, backend.Calls())
}

func TestAuthenticateMissingToken(t *testing.T) {
	backend := testutil.NewMockBackend()
	backend.LoginFunc = func(ctx context.Context, email, password string) (*api.AuthResponse, error) {
		return &api.AuthResponse{User: api.User{Email: email}}, nil
	}

	cmd, err := Authenticate(backend, AuthForm{Email: "ada@example.com", Password: "x"})
	require.NoError(t, err)

	msg := cmd().(AuthResultMsg)
	require.Error(t, msg.Err)
	require.Nil(t, msg.Response)
}

func TestAuthenticateServerError(t *testing.T) {
	backend := testutil.NewMockBackend()
	backend.LoginFunc = func(ctx context.Context, email, password string) (*api.AuthResponse, error) {
		return nil, &api.RequestError{Status: 401, Payload: map[string]any{"error": "Invalid credentials"}}
	}

	cmd, _ := Authenticate(backend, AuthForm{Email: "ada@example.com", Password: "wrong"})
	msg := cmd().(AuthResultMsg)
	require.Equal(t, "Invalid credentials", ErrorText(msg.Err))
}

func TestRestoreSession(t *testing.T) {
	backend := testutil.NewMockBackend()
	require.Nil(t, RestoreSession(backend, ""))

	cmd := RestoreSession(backend, "stored-token")
	require.Equal(t, "stored-token", backend.Token())

	msg := cmd().(SessionRestoredMsg)
	require.NoError(t, msg.Err)
	require.Equal(t, "mock@example.com", msg.User.Email)
	require.Equal(t, "stored-token", msg.Token)

	backend.CurrentUserFunc = func(ctx context.Context) (*api.User, error) {
		return nil, errors.New("expired")
	}
	msg = RestoreSession(backend, "stale")().(SessionRestoredMsg)
	require.Error(t, msg.Err)
	require.Nil(t, msg.User)
}

func TestModelSignInAndOut(t *testing.T) {
	store, err := storage.NewAuthStore(t.TempDir(), nil)
	require.NoError(t, err)
	defer store.Close()

	backend := testutil.NewMockBackend()
	cfg := &config.Config{DefaultModel: "llama3", DefaultSystemPrompt: "Be brief."}
	m := NewModel(cfg, backend, store, "test")

	require.Empty(t, m.StoredToken())
	require.Equal(t, "llama3", m.Chat.Config().Model)
	require.Equal(t, "Be brief.", m.Chat.Config().SystemPrompt)

	require.NoError(t, m.SignIn("tok-1", api.User{Email: "ada@example.com"}))
	require.True(t, m.SignedIn())
	require.Equal(t, "tok-1", backend.Token())
	require.Equal(t, "tok-1", m.StoredToken())

	m.Chat.Submit("hello")
	require.NoError(t, m.SignOut())
	require.False(t, m.SignedIn())
	require.Empty(t, backend.Token())
	require.Empty(t, m.StoredToken())
	require.Empty(t, m.Chat.Messages())
}

func TestModelWithoutStore(t *testing.T) {
	backend := testutil.NewMockBackend()
	m := NewModel(&config.Config{}, backend, nil, "test")

	require.NoError(t, m.SignIn("tok", api.User{Email: "a@b.c"}))
	require.Empty(t, m.StoredToken())
	require.NoError(t, m.SignOut())
}
