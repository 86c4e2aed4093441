package model

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"chatdesk/api"
	"chatdesk/model/testutil"
)

func fakeOpener(content string) FileOpener {
	return func(path string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}
}

func TestIsPDF(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"report.pdf", true},
		{"REPORT.PDF", true},
		{"mixed.Pdf", true},
		{"notes.txt", false},
		{"pdf", false},
		{"archive.pdf.zip", false},
	}
	for _, tt := range tests {
		if got := IsPDF(tt.name); got != tt.want {
			t.Errorf("IsPDF(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestUploadRejectsNonPDF(t *testing.T) {
	backend := testutil.NewMockBackend()
	docs := NewDocumentSession(backend)

	require.Nil(t, docs.Upload("/tmp/notes.txt"))
	require.Equal(t, NotPDFText, docs.UploadError())
	require.False(t, docs.Uploading())
	require.Zero(t, backend.Calls(), "non-PDF must never reach the network")
	require.ErrorIs(t, ValidateUpload("/tmp/notes.txt"), ErrNotPDF)
}

func TestUploadSuccess(t *testing.T) {
	backend := testutil.NewMockBackend()
	var got []byte
	backend.ProcessDocumentFunc = func(ctx context.Context, filename string, content []byte) (*api.ProcessResponse, error) {
		got = content
		return &api.ProcessResponse{Filename: "stored-" + filename}, nil
	}
	docs := NewDocumentSession(backend)
	docs.SetFileOpener(fakeOpener("%PDF-1.4"))

	cmd := docs.Upload("/home/me/Paper.PDF")
	require.NotNil(t, cmd)
	require.True(t, docs.Uploading())
	require.Equal(t, "Paper.PDF", docs.UploadingName())
	require.Nil(t, docs.Upload("/home/me/other.pdf"), "one upload at a time")

	_, ok := docs.Apply(cmd())
	require.True(t, ok)
	require.False(t, docs.Uploading())
	require.Equal(t, []string{"Paper.PDF"}, backend.Uploads())
	require.Equal(t, "%PDF-1.4", string(got))
	require.Equal(t, []string{"stored-Paper.PDF"}, docs.Documents())
	require.Equal(t, "stored-Paper.PDF", docs.LastUpload())
}

func TestUploadFailure(t *testing.T) {
	backend := testutil.NewMockBackend()
	backend.ProcessDocumentFunc = func(ctx context.Context, filename string, content []byte) (*api.ProcessResponse, error) {
		return nil, &api.RequestError{Status: 500, Payload: map[string]any{"error": "Failed to process document"}}
	}
	docs := NewDocumentSession(backend)
	docs.SetFileOpener(fakeOpener("x"))

	docs.Apply(docs.Upload("a.pdf")())
	require.False(t, docs.Uploading())
	require.Equal(t, "Failed to process document", docs.UploadError())
	require.Empty(t, docs.Error(), "upload failures do not touch the question error")
	require.Empty(t, docs.Documents())
}

func TestUploadOpenFailure(t *testing.T) {
	backend := testutil.NewMockBackend()
	docs := NewDocumentSession(backend)
	docs.SetFileOpener(func(path string) (io.ReadCloser, error) {
		return nil, errors.New("permission denied")
	})

	docs.Apply(docs.Upload("locked.pdf")())
	require.Equal(t, "permission denied", docs.UploadError())
	require.Zero(t, backend.Calls())
}

func TestUploadAndQueryAreIndependent(t *testing.T) {
	backend := testutil.NewMockBackend()
	docs := NewDocumentSession(backend)
	docs.SetFileOpener(fakeOpener("x"))

	upload := docs.Upload("a.pdf")
	query := docs.Submit("what is in it?")
	require.NotNil(t, upload)
	require.NotNil(t, query, "a question may be asked while an upload runs")
	require.True(t, docs.Uploading())
	require.True(t, docs.Pending())

	docs.Apply(query())
	require.False(t, docs.Pending())
	require.True(t, docs.Uploading())

	docs.Apply(upload())
	require.False(t, docs.Uploading())
}

func TestQuerySubmitGuards(t *testing.T) {
	backend := testutil.NewMockBackend()
	docs := NewDocumentSession(backend)

	require.Nil(t, docs.Submit("  "))
	require.NotNil(t, docs.Submit("first"))
	require.Nil(t, docs.Submit("second"))
	require.Len(t, docs.Messages(), 1)
}

func TestQueryAnswer(t *testing.T) {
	backend := testutil.NewMockBackend()
	backend.QueryFunc = func(ctx context.Context, question string) (*api.QueryResponse, error) {
		return &api.QueryResponse{
			Answer: "It covers revenue.",
			Context: &api.QueryContext{
				Texts:  []string{"Revenue grew 10%.", "  "},
				Images: []string{"https://cdn.example.com/fig1.png", "/local/fig2.png", "ftp://x/y.png", "http:///nohost.png"},
			},
		}, nil
	}
	docs := NewDocumentSession(backend)

	reply, ok := docs.Apply(docs.Submit("What does it cover?")())
	require.True(t, ok)
	require.Equal(t, "It covers revenue.", reply.Content)
	require.Equal(t, []string{"What does it cover?"}, backend.Questions())

	require.NotNil(t, reply.Context)
	require.Equal(t, []string{"Revenue grew 10%."}, reply.Context.Texts)
	require.Equal(t, []string{"https://cdn.example.com/fig1.png"}, reply.Context.Images)
}

func TestQueryEmptyAnswerAndContext(t *testing.T) {
	backend := testutil.NewMockBackend()
	backend.QueryFunc = func(ctx context.Context, question string) (*api.QueryResponse, error) {
		return &api.QueryResponse{Answer: "", Context: &api.QueryContext{Images: []string{"relative.png"}}}, nil
	}
	docs := NewDocumentSession(backend)

	reply, _ := docs.Apply(docs.Submit("?")())
	require.Equal(t, NoResponsePlaceholder, reply.Content)
	require.Nil(t, reply.Context, "context with nothing displayable is dropped")
}

func TestQueryErrorAndClear(t *testing.T) {
	backend := testutil.NewMockBackend()
	backend.QueryFunc = func(ctx context.Context, question string) (*api.QueryResponse, error) {
		return nil, &api.RequestError{Status: 404, Payload: map[string]any{"detail": "No documents processed"}}
	}
	docs := NewDocumentSession(backend)
	docs.Upload("notes.md")

	docs.Apply(docs.Submit("anything?")())
	require.Equal(t, "No documents processed", docs.Error())
	require.Equal(t, NotPDFText, docs.UploadError())
	require.Len(t, docs.Messages(), 1)

	docs.Clear()
	require.Empty(t, docs.Messages())
	require.Empty(t, docs.Error())
	require.Empty(t, docs.UploadError())
}

func TestResolvableImage(t *testing.T) {
	tests := []struct {
		loc  string
		want bool
	}{
		{"https://example.com/a.png", true},
		{"http://localhost:8000/media/a.png", true},
		{" https://example.com/b.png ", true},
		{"/media/a.png", false},
		{"a.png", false},
		{"data:image/png;base64,AAAA", false},
		{"https://", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ResolvableImage(tt.loc); got != tt.want {
			t.Errorf("ResolvableImage(%q) = %v, want %v", tt.loc, got, tt.want)
		}
	}
}
