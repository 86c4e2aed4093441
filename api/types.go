package api

import (
	"encoding/json"
	"fmt"

	ollamaapi "github.com/ollama/ollama/api"
)

type User struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// DisplayName prefers the full name and falls back to the email
func (u User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// AuthResponse is returned by both login and register
type AuthResponse struct {
	Success     string `json:"success,omitempty"`
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

type currentUserResponse struct {
	User User `json:"user"`
}

type ModelInfo struct {
	Name          string
	Size          int64
	Family        string
	ParameterSize string
}

// ChatRequest mirrors the backend's Ollama-compatible chat body.
// Options is always sent, as {} when empty.
type ChatRequest struct {
	Model    string              `json:"model,omitempty"`
	Messages []ollamaapi.Message `json:"messages"`
	Options  map[string]any      `json:"options"`
}

type ChatResponse struct {
	Model   string          `json:"model"`
	Content string          `json:"content"`
	Context *QueryContext   `json:"context,omitempty"`
	Raw     json.RawMessage `json:"raw,omitempty"`
}

// Upstream decodes the raw Ollama response the backend echoes back
func (r *ChatResponse) Upstream() (*ollamaapi.ChatResponse, error) {
	if len(r.Raw) == 0 || string(r.Raw) == "null" {
		return nil, nil
	}
	var upstream ollamaapi.ChatResponse
	if err := json.Unmarshal(r.Raw, &upstream); err != nil {
		return nil, fmt.Errorf("failed to decode upstream response: %w", err)
	}
	return &upstream, nil
}

type ProcessResponse struct {
	Filename string `json:"filename"`
}

type QueryRequest struct {
	Question string `json:"question"`
}

type QueryContext struct {
	Texts  []string `json:"texts"`
	Images []string `json:"images"`
}

type QueryResponse struct {
	Answer  string        `json:"answer"`
	Context *QueryContext `json:"context,omitempty"`
}
