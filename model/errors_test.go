package model

import (
	"errors"
	"fmt"
	"testing"

	"chatdesk/api"
)

func TestExtractErrorText(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		message string
		want    string
	}{
		{"string payload", "Bad things", "ignored", "Bad things"},
		{"error field", map[string]any{"error": "Invalid credentials"}, "", "Invalid credentials"},
		{"error wins over detail", map[string]any{"error": "first", "detail": "second"}, "", "first"},
		{"detail string", map[string]any{"detail": "Not found."}, "", "Not found."},
		{"detail list", map[string]any{"detail": []any{"", "Token expired"}}, "", "Token expired"},
		{"nested detail object", map[string]any{"details": map[string]any{"message": "nested"}}, "", "nested"},
		{"non field errors", map[string]any{"non_field_errors": []any{"Password did not match."}}, "", "Password did not match."},
		{"message field", map[string]any{"message": "from message"}, "", "from message"},
		{"blank fields fall to message", map[string]any{"error": "  ", "message": ""}, "request failed", "request failed"},
		{"non-string error field", map[string]any{"error": 42}, "status 500", "status 500"},
		{"nothing usable", nil, "", FallbackErrorText},
		{"whitespace only", "   ", "  ", FallbackErrorText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractErrorText(tt.payload, tt.message)
			if got != tt.want {
				t.Errorf("ExtractErrorText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorText(t *testing.T) {
	if got := ErrorText(nil); got != "" {
		t.Errorf("ErrorText(nil) = %q, want empty", got)
	}

	reqErr := &api.RequestError{Status: 400, Payload: map[string]any{"error": "Email already registered"}}
	wrapped := fmt.Errorf("register: %w", reqErr)
	if got := ErrorText(wrapped); got != "Email already registered" {
		t.Errorf("ErrorText(wrapped RequestError) = %q", got)
	}

	if got := ErrorText(errors.New("connection refused")); got != "connection refused" {
		t.Errorf("ErrorText(plain) = %q", got)
	}
}
