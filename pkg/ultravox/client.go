package ultravox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseSizeBytes = 1 << 20

type Config struct {
	APIKey  string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.ultravox.ai/api"`
	Voice   string        `split_words:"true" default:"Mark"`
	Model   string        `split_words:"true"`
	Timeout time.Duration `split_words:"true" default:"15s"`
}

// APIError is a non-2xx answer from the calls endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ultravox http status=%d body=%s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL    string
	apiKey     string
	voice      string
	model      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("ultravox base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid ultravox base url: %w", err)
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("ultravox api key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		voice:      strings.TrimSpace(cfg.Voice),
		model:      strings.TrimSpace(cfg.Model),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

func MustNew(cfg Config, opts ...Option) *Client {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// CreateCall opens a call and returns its id and join URL. Voice and model
// default to the client configuration when the request leaves them empty.
func (c *Client) CreateCall(ctx context.Context, req CreateCallRequest) (*Call, error) {
	if strings.TrimSpace(req.SystemPrompt) == "" {
		return nil, errors.New("system prompt is required")
	}
	if req.Voice == "" {
		req.Voice = c.voice
	}
	if req.Model == "" {
		req.Model = c.model
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal create call request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/calls", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build create call request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute create call request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read create call response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var call Call
	if err := json.Unmarshal(raw, &call); err != nil {
		return nil, fmt.Errorf("decode create call response: %w", err)
	}
	if call.CallID == "" || call.JoinURL == "" {
		return nil, errors.New("create call response missing callId or joinUrl")
	}
	return &call, nil
}
