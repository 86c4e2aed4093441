package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// AuxContext is the reference material a document answer was built from
type AuxContext struct {
	Texts  []string
	Images []string // locations, http(s) URLs only
}

func (c *AuxContext) Empty() bool {
	return c == nil || (len(c.Texts) == 0 && len(c.Images) == 0)
}

// Message represents a chat message in the conversation
type Message struct {
	ID        string
	Role      string
	Content   string
	Context   *AuxContext
	Rendered  string // Cached rendered markdown, UI only
	Timestamp time.Time
}

func newMessage(role, content string, ctx *AuxContext) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Context:   ctx,
		Rendered:  content,
		Timestamp: time.Now(),
	}
}
