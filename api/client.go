package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ollamaapi "github.com/ollama/ollama/api"

	"chatdesk/config"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 120 * time.Second
)

// Client talks to the chat / document backend. Requests are never retried;
// the only deadline is the transport timeout.
type Client struct {
	httpClient *http.Client
	baseURL    string
	endpoints  config.EndpointsConfig

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string, timeout time.Duration, endpoints config.EndpointsConfig) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid API URL %q: scheme must be http or https", baseURL)
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		endpoints:  endpoints.WithDefaults(config.DefaultUserConfig().API.Endpoints),
	}, nil
}

// NewClientFromConfig builds a client from the loaded configuration
func NewClientFromConfig(cfg *config.Config) (*Client, error) {
	return NewClient(cfg.APIURL(), cfg.Timeout, cfg.Endpoints)
}

// SetToken sets the bearer token attached to every request; empty clears it
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.postJSON(ctx, c.endpoints.Login, LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.postJSON(ctx, c.endpoints.Register, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var resp currentUserResponse
	if err := c.do(ctx, http.MethodGet, c.endpoints.Me, nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// ListModels returns the backend's model list. A body that does not decode
// as a model list yields an empty slice rather than an error.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	raw, err := c.send(ctx, http.MethodGet, c.endpoints.Models, nil, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var resp ollamaapi.ListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		config.Log.Debug().Str("component", "api").Err(err).Msg("malformed model list, treating as empty")
		return []ModelInfo{}, nil
	}

	models := make([]ModelInfo, 0, len(resp.Models))
	for _, m := range resp.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		if name == "" {
			continue
		}
		models = append(models, ModelInfo{
			Name:          name,
			Size:          m.Size,
			Family:        m.Details.Family,
			ParameterSize: m.Details.ParameterSize,
		})
	}

	return models, nil
}

func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.Options == nil {
		req.Options = map[string]any{}
	}
	if req.Messages == nil {
		req.Messages = []ollamaapi.Message{}
	}

	var resp ChatResponse
	if err := c.postJSON(ctx, c.endpoints.Chat, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProcessDocument uploads a single file as the multipart field "file"
func (c *Client) ProcessDocument(ctx context.Context, filename string, content io.Reader) (*ProcessResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	var resp ProcessResponse
	if err := c.do(ctx, http.MethodPost, c.endpoints.RAGProcess, &body, writer.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Query(ctx context.Context, question string) (*QueryResponse, error) {
	var resp QueryResponse
	if err := c.postJSON(ctx, c.endpoints.RAGQuery, QueryRequest{Question: question}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	data, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RequestError{Status: http.StatusOK, Err: fmt.Errorf("invalid response from server: %w", err)}
	}
	return nil
}

// send performs one request and returns the 2xx body
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, &RequestError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		config.Log.Debug().Str("component", "api").Str("method", method).Str("path", path).Err(err).Msg("transport error")
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Status: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	config.Log.Debug().
		Str("component", "api").
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{Status: resp.StatusCode, Payload: decodePayload(data)}
	}

	return data, nil
}
