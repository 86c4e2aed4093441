package model

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"chatdesk/api"
	"chatdesk/config"
)

// FileOpener opens the document picked for upload
type FileOpener func(path string) (io.ReadCloser, error)

func openFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// IsPDF reports whether name ends in ".pdf", ignoring case
func IsPDF(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// ValidateUpload returns ErrNotPDF for anything the backend would not process
func ValidateUpload(path string) error {
	if !IsPDF(filepath.Base(path)) {
		return ErrNotPDF
	}
	return nil
}

// DocumentSession is the document question-answering loop. Uploads and
// questions have separate pending flags so either can run while the other waits.
type DocumentSession struct {
	backend    Backend
	open       FileOpener
	transcript Transcript

	pending   bool
	uploading bool
	err       string
	uploadErr string

	uploadingName string
	documents     []string
}

func NewDocumentSession(backend Backend) *DocumentSession {
	return &DocumentSession{
		backend: backend,
		open:    openFile,
	}
}

// SetFileOpener replaces os.Open for uploads
func (s *DocumentSession) SetFileOpener(open FileOpener) {
	if open == nil {
		open = openFile
	}
	s.open = open
}

// Upload sends one file for processing. Names without a .pdf suffix are
// rejected locally with NotPDFText and never reach the network.
func (s *DocumentSession) Upload(path string) tea.Cmd {
	path = strings.TrimSpace(path)
	if path == "" || s.uploading {
		return nil
	}

	name := filepath.Base(path)
	if err := ValidateUpload(name); err != nil {
		s.uploadErr = NotPDFText
		return nil
	}

	s.uploading = true
	s.uploadingName = name
	s.uploadErr = ""

	backend := s.backend
	open := s.open

	config.Log.Debug().Str("component", "documents").Str("file", name).Msg("uploading document")

	return func() tea.Msg {
		f, err := open(path)
		if err != nil {
			return UploadErrorMsg{Err: err}
		}
		defer f.Close()

		resp, err := backend.ProcessDocument(context.Background(), name, f)
		if err != nil {
			return UploadErrorMsg{Err: err}
		}

		filename := name
		if resp != nil && resp.Filename != "" {
			filename = resp.Filename
		}
		return UploadDoneMsg{Filename: filename}
	}
}

// Submit asks question against the processed documents. Same guards as
// ChatSession.Submit; only the question itself is sent.
func (s *DocumentSession) Submit(question string) tea.Cmd {
	if strings.TrimSpace(question) == "" || s.pending {
		return nil
	}

	s.transcript.Append(newMessage(RoleUser, question, nil))
	s.pending = true
	s.err = ""

	backend := s.backend

	return func() tea.Msg {
		resp, err := backend.Query(context.Background(), question)
		if err != nil {
			return QueryErrorMsg{Err: err}
		}
		return QueryResponseMsg{Response: resp}
	}
}

// Apply folds a command result back into the session. It reports whether
// msg belonged to this session and the message appended, if any.
func (s *DocumentSession) Apply(msg tea.Msg) (*Message, bool) {
	switch msg := msg.(type) {
	case QueryResponseMsg:
		s.pending = false
		s.err = ""

		answer := ""
		var auxCtx *AuxContext
		if msg.Response != nil {
			answer = msg.Response.Answer
			auxCtx = auxContextFrom(msg.Response.Context)
		}
		if strings.TrimSpace(answer) == "" {
			answer = NoResponsePlaceholder
		}

		reply := newMessage(RoleAssistant, answer, auxCtx)
		s.transcript.Append(reply)
		return &reply, true

	case QueryErrorMsg:
		s.pending = false
		s.err = ErrorText(msg.Err)
		return nil, true

	case UploadDoneMsg:
		s.uploading = false
		s.uploadingName = ""
		s.uploadErr = ""
		s.documents = append(s.documents, msg.Filename)
		return nil, true

	case UploadErrorMsg:
		s.uploading = false
		s.uploadingName = ""
		s.uploadErr = ErrorText(msg.Err)
		config.Log.Debug().Str("component", "documents").Err(msg.Err).Msg("upload failed")
		return nil, true
	}

	return nil, false
}

// Clear empties the transcript and both error fields. Pending work is left alone.
func (s *DocumentSession) Clear() {
	s.transcript.Clear()
	s.err = ""
	s.uploadErr = ""
}

func (s *DocumentSession) Pending() bool {
	return s.pending
}

func (s *DocumentSession) Uploading() bool {
	return s.uploading
}

func (s *DocumentSession) UploadingName() string {
	return s.uploadingName
}

func (s *DocumentSession) Error() string {
	return s.err
}

func (s *DocumentSession) UploadError() string {
	return s.uploadErr
}

// Documents lists processed filenames, oldest first
func (s *DocumentSession) Documents() []string {
	out := make([]string, len(s.documents))
	copy(out, s.documents)
	return out
}

func (s *DocumentSession) LastUpload() string {
	if len(s.documents) == 0 {
		return ""
	}
	return s.documents[len(s.documents)-1]
}

func (s *DocumentSession) Messages() []Message {
	return s.transcript.Messages()
}

func (s *DocumentSession) Transcript() *Transcript {
	return &s.transcript
}

func auxContextFrom(ctx *api.QueryContext) *AuxContext {
	if ctx == nil {
		return nil
	}

	aux := &AuxContext{}
	for _, text := range ctx.Texts {
		if strings.TrimSpace(text) != "" {
			aux.Texts = append(aux.Texts, text)
		}
	}
	for _, loc := range ctx.Images {
		if ResolvableImage(loc) {
			aux.Images = append(aux.Images, loc)
		}
	}

	if aux.Empty() {
		return nil
	}
	return aux
}

// ResolvableImage reports whether an image location can be shown as a link.
// Anything else is hidden, not treated as an error.
func ResolvableImage(loc string) bool {
	u, err := url.Parse(strings.TrimSpace(loc))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
