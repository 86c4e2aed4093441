package ui

import (
	"chatdesk/model"
)

type Message = model.Message

type modelsListMsg = model.ModelsListMsg
type chatResponseMsg = model.ChatResponseMsg
type chatErrorMsg = model.ChatErrorMsg
type queryResponseMsg = model.QueryResponseMsg
type queryErrorMsg = model.QueryErrorMsg
type uploadDoneMsg = model.UploadDoneMsg
type uploadErrorMsg = model.UploadErrorMsg
type authResultMsg = model.AuthResultMsg
type sessionRestoredMsg = model.SessionRestoredMsg
type markdownRenderedMsg = model.MarkdownRenderedMsg
type flashTickMsg = model.FlashTickMsg

// Tab identifies one of the dashboard views
type Tab int

const (
	TabChat Tab = iota
	TabDocuments
)

var tabNames = []string{"Chat", "Documents"}

func (t Tab) String() string {
	if int(t) < len(tabNames) {
		return tabNames[t]
	}
	return "?"
}

// viewKey is the MarkdownRenderedMsg.View value for t
func (t Tab) viewKey() string {
	if t == TabDocuments {
		return "documents"
	}
	return "chat"
}

// clipboardMsg reports the outcome of a copy so the status line can show it
type clipboardMsg struct {
	what string
	err  error
}
