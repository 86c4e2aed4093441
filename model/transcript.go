package model

// Transcript is the ordered message history of one conversation.
// Messages are only ever appended; Clear is the one way to remove them.
type Transcript struct {
	messages []Message
}

func (t *Transcript) Append(msg Message) {
	t.messages = append(t.messages, msg)
}

func (t *Transcript) Len() int {
	return len(t.messages)
}

// Messages returns a copy, callers may not reorder the transcript
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// SetRendered stores the rendered form of a message; content stays untouched
func (t *Transcript) SetRendered(id, rendered string) bool {
	for i := range t.messages {
		if t.messages[i].ID == id {
			t.messages[i].Rendered = rendered
			return true
		}
	}
	return false
}

func (t *Transcript) Clear() {
	t.messages = nil
}
