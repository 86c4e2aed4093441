package model

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"chatdesk/api"
	"chatdesk/config"
)

const authTimeout = 30 * time.Second

type AuthMode int

const (
	AuthLogin AuthMode = iota
	AuthRegister
)

func (m AuthMode) String() string {
	if m == AuthRegister {
		return "Register"
	}
	return "Login"
}

var (
	ErrMissingFields    = errors.New("all fields are required")
	ErrInvalidEmail     = errors.New("enter a valid email address")
	ErrPasswordMismatch = errors.New("Password did not match.")
)

// AuthForm is what the login / register screen collects
type AuthForm struct {
	Mode            AuthMode
	Email           string
	FirstName       string
	LastName        string
	Password        string
	ConfirmPassword string
}

// Validate checks the form locally before anything is sent
func (f AuthForm) Validate() error {
	email := strings.TrimSpace(f.Email)
	if email == "" || f.Password == "" {
		return ErrMissingFields
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}

	if f.Mode != AuthRegister {
		return nil
	}

	if strings.TrimSpace(f.FirstName) == "" || strings.TrimSpace(f.LastName) == "" || f.ConfirmPassword == "" {
		return ErrMissingFields
	}
	if f.Password != f.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

func (f AuthForm) registerRequest() api.RegisterRequest {
	return api.RegisterRequest{
		Email:           strings.TrimSpace(f.Email),
		FirstName:       strings.TrimSpace(f.FirstName),
		LastName:        strings.TrimSpace(f.LastName),
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
	}
}

// Authenticate validates the form and returns the command that logs in or
// registers. The error is non-nil, and the command nil, when validation fails.
func Authenticate(backend AuthBackend, form AuthForm) (tea.Cmd, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	config.Log.Debug().Str("component", "auth").Str("mode", form.Mode.String()).Msg("authenticating")

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		var (
			resp *api.AuthResponse
			err  error
		)
		if form.Mode == AuthRegister {
			resp, err = backend.Register(ctx, form.registerRequest())
		} else {
			resp, err = backend.Login(ctx, strings.TrimSpace(form.Email), form.Password)
		}
		if err == nil && (resp == nil || resp.AccessToken == "") {
			err = errors.New("server did not return an access token")
		}
		if err != nil {
			return AuthResultMsg{Err: err}
		}
		return AuthResultMsg{Response: resp}
	}, nil
}

// RestoreSession checks a stored token against the backend. The token is
// set on the backend first so the request carries it.
func RestoreSession(backend AuthBackend, token string) tea.Cmd {
	if token == "" {
		return nil
	}
	backend.SetToken(token)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		user, err := backend.CurrentUser(ctx)
		if err != nil {
			return SessionRestoredMsg{Token: token, Err: err}
		}
		return SessionRestoredMsg{User: user, Token: token}
	}
}
