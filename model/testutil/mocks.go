package testutil

import (
	"context"
	"io"
	"sync"

	"chatdesk/api"
)

// MockBackend implements model.Client for testing. Every call is recorded;
// the Func fields decide what comes back.
type MockBackend struct {
	ListModelsFunc      func(ctx context.Context) ([]api.ModelInfo, error)
	ChatFunc            func(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
	ProcessDocumentFunc func(ctx context.Context, filename string, content []byte) (*api.ProcessResponse, error)
	QueryFunc           func(ctx context.Context, question string) (*api.QueryResponse, error)
	LoginFunc           func(ctx context.Context, email, password string) (*api.AuthResponse, error)
	RegisterFunc        func(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	CurrentUserFunc     func(ctx context.Context) (*api.User, error)

	mu            sync.Mutex
	token         string
	chatRequests  []api.ChatRequest
	uploads       []string
	questions     []string
	logins        int
	registrations int
}

// NewMockBackend creates a mock backend with default implementations
func NewMockBackend() *MockBackend {
	m := &MockBackend{}
	m.ListModelsFunc = func(ctx context.Context) ([]api.ModelInfo, error) {
		return []api.ModelInfo{
			{Name: "mock-model-1", Size: 1000},
			{Name: "mock-model-2", Size: 2000},
		}, nil
	}
	m.ChatFunc = func(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
		return &api.ChatResponse{Model: req.Model, Content: "Mock response"}, nil
	}
	m.ProcessDocumentFunc = func(ctx context.Context, filename string, content []byte) (*api.ProcessResponse, error) {
		return &api.ProcessResponse{Filename: filename}, nil
	}
	m.QueryFunc = func(ctx context.Context, question string) (*api.QueryResponse, error) {
		return &api.QueryResponse{Answer: "Mock answer"}, nil
	}
	m.LoginFunc = func(ctx context.Context, email, password string) (*api.AuthResponse, error) {
		return &api.AuthResponse{AccessToken: "mock-token", User: api.User{Email: email}}, nil
	}
	m.RegisterFunc = func(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
		return &api.AuthResponse{
			AccessToken: "mock-token",
			User:        api.User{Email: req.Email, FirstName: req.FirstName, LastName: req.LastName},
		}, nil
	}
	m.CurrentUserFunc = func(ctx context.Context) (*api.User, error) {
		return &api.User{Email: "mock@example.com"}, nil
	}
	return m
}

func (m *MockBackend) ListModels(ctx context.Context) ([]api.ModelInfo, error) {
	return m.ListModelsFunc(ctx)
}

func (m *MockBackend) Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
	m.mu.Lock()
	m.chatRequests = append(m.chatRequests, req)
	m.mu.Unlock()
	return m.ChatFunc(ctx, req)
}

func (m *MockBackend) ProcessDocument(ctx context.Context, filename string, content io.Reader) (*api.ProcessResponse, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.uploads = append(m.uploads, filename)
	m.mu.Unlock()
	return m.ProcessDocumentFunc(ctx, filename, data)
}

func (m *MockBackend) Query(ctx context.Context, question string) (*api.QueryResponse, error) {
	m.mu.Lock()
	m.questions = append(m.questions, question)
	m.mu.Unlock()
	return m.QueryFunc(ctx, question)
}

func (m *MockBackend) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	m.mu.Lock()
	m.logins++
	m.mu.Unlock()
	return m.LoginFunc(ctx, email, password)
}

func (m *MockBackend) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	m.mu.Lock()
	m.registrations++
	m.mu.Unlock()
	return m.RegisterFunc(ctx, req)
}

func (m *MockBackend) CurrentUser(ctx context.Context) (*api.User, error) {
	return m.CurrentUserFunc(ctx)
}

func (m *MockBackend) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

func (m *MockBackend) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// ChatRequests returns every chat request seen, oldest first
func (m *MockBackend) ChatRequests() []api.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]api.ChatRequest, len(m.chatRequests))
	copy(out, m.chatRequests)
	return out
}

func (m *MockBackend) Uploads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.uploads...)
}

func (m *MockBackend) Questions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.questions...)
}

func (m *MockBackend) Logins() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logins
}

func (m *MockBackend) Registrations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registrations
}

// Calls is the total number of network-bound calls, model listing excluded
func (m *MockBackend) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chatRequests) + len(m.uploads) + len(m.questions) + m.logins + m.registrations
}
