package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RequestError is a failed backend call. Payload holds whatever the server sent
// back: a decoded JSON value (string, map, slice) or the raw body text.
type RequestError struct {
	Status  int
	Payload any
	Err     error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("request failed with status code %d", e.Status)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// decodePayload never fails: bodies that are not JSON come back as text
func decodePayload(body []byte) any {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil
	}

	var payload any
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return trimmed
	}
	return payload
}
