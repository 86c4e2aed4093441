package model

import (
	"errors"
	"strings"

	"chatdesk/api"
)

const (
	// FallbackErrorText is shown when a failure carries nothing readable
	FallbackErrorText = "Something went wrong. Please try again."

	// NoResponsePlaceholder replaces an empty answer
	NoResponsePlaceholder = "No response received."

	NotPDFText = "Only PDF files are supported."
)

var ErrNotPDF = errors.New("only PDF files are supported")

// ErrorText turns a failed request into the single string shown to the user.
// It never returns an empty string.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}

	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		return ExtractErrorText(reqErr.Payload, reqErr.Error())
	}
	return ExtractErrorText(nil, err.Error())
}

// ExtractErrorText picks the first readable field of a loosely-typed error
// payload: the payload itself when it is a string, then "error", then the
// nested detail fields, then "message", then message, then FallbackErrorText.
func ExtractErrorText(payload any, message string) string {
	if s, ok := nonEmptyString(payload); ok {
		return s
	}

	if obj, ok := payload.(map[string]any); ok {
		if s, ok := nonEmptyString(obj["error"]); ok {
			return s
		}
		for _, key := range []string{"detail", "details", "non_field_errors"} {
			if s, ok := detailText(obj[key]); ok {
				return s
			}
		}
		if s, ok := nonEmptyString(obj["message"]); ok {
			return s
		}
	}

	if s, ok := nonEmptyString(message); ok {
		return s
	}
	return FallbackErrorText
}

func detailText(v any) (string, bool) {
	switch d := v.(type) {
	case string:
		return nonEmptyString(d)
	case []any:
		for _, item := range d {
			if s, ok := detailText(item); ok {
				return s, true
			}
		}
	case map[string]any:
		for _, key := range []string{"error", "detail", "message"} {
			if s, ok := detailText(d[key]); ok {
				return s, true
			}
		}
	}
	return "", false
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
