package state

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

const (
	defaultArchiveKeyPrefix = "callagent:outcome:"
	defaultArchiveTTL       = 30 * 24 * time.Hour
	maxArchiveResponseBytes = 64 << 10
)

// Archive receives the final state of an ended call. Nothing reads it back.
type Archive interface {
	Save(ctx context.Context, st *CallState) error
}

type ArchiveOption func(*UpstashArchive)

func WithKeyPrefix(prefix string) ArchiveOption {
	return func(a *UpstashArchive) {
		if p := strings.TrimSpace(prefix); p != "" {
			a.keyPrefix = p
		}
	}
}

func WithTTL(ttl time.Duration) ArchiveOption {
	return func(a *UpstashArchive) { a.ttl = ttl }
}

func WithHTTPClient(client *http.Client) ArchiveOption {
	return func(a *UpstashArchive) {
		if client != nil {
			a.httpClient = client
		}
	}
}

type UpstashArchiveConfig struct {
	URL     string        `envconfig:"URL" split_words:"true" required:"true"`
	Token   string        `envconfig:"TOKEN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
	TTL     time.Duration `envconfig:"TTL" split_words:"true" default:"720h"`
}

// UpstashArchive writes call outcomes to Upstash Redis over its REST API,
// one expiring key per call.
type UpstashArchive struct {
	baseURL    string
	token      string
	httpClient *http.Client
	keyPrefix  string
	ttl        time.Duration
}

// Outcome is the archived summary of one call.
type Outcome struct {
	CallID          string       `json:"call_id"`
	Details         FixedDetails `json:"details"`
	Objectives      Snapshot     `json:"objectives"`
	Stage           string       `json:"stage,omitempty"`
	LastInstruction string       `json:"last_instruction,omitempty"`
	StartedAt       time.Time    `json:"started_at"`
	EndedAt         time.Time    `json:"ended_at"`
	DurationSeconds int64        `json:"duration_seconds"`
}

func OutcomeOf(st *CallState) Outcome {
	ended := st.EndedAt
	if ended.IsZero() {
		ended = st.UpdatedAt
	}
	var dur int64
	if !st.StartedAt.IsZero() && ended.After(st.StartedAt) {
		dur = int64(ended.Sub(st.StartedAt) / time.Second)
	}
	return Outcome{
		CallID:          st.CallID,
		Details:         st.Details,
		Objectives:      st.Objectives.Clone(),
		Stage:           st.Stage,
		LastInstruction: st.LastInstruction,
		StartedAt:       st.StartedAt,
		EndedAt:         ended,
		DurationSeconds: dur,
	}
}

func NewUpstashArchive(cfg UpstashArchiveConfig, opts ...ArchiveOption) (*UpstashArchive, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("archive url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid archive url: %w", err)
	}
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("archive token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultArchiveTTL
	}

	a := &UpstashArchive{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		keyPrefix:  defaultArchiveKeyPrefix,
		ttl:        ttl,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if a.ttl < 0 {
		return nil, errors.New("archive ttl must be >= 0")
	}
	return a, nil
}

func (a *UpstashArchive) Save(ctx context.Context, st *CallState) error {
	if err := st.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(OutcomeOf(st))
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}

	cmd := []any{"SET", a.keyPrefix + strings.TrimSpace(st.CallID), string(payload)}
	if a.ttl > 0 {
		cmd = append(cmd, "EX", ttlSeconds(a.ttl))
	}
	return a.do(ctx, cmd)
}

// do posts one command to the REST endpoint. Upstash reports command errors
// in the body with a 2xx or 4xx status.
func (a *UpstashArchive) do(ctx context.Context, command []any) error {
	body, err := json.Marshal(command)
	if err != nil {
		return fmt.Errorf("marshal redis command: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxArchiveResponseBytes))
	if err != nil {
		return fmt.Errorf("read redis response: %w", err)
	}

	var parsed struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(raw, &parsed)
	if parsed.Error != "" {
		return fmt.Errorf("redis: %s", parsed.Error)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}
	return nil
}

func ttlSeconds(ttl time.Duration) int64 {
	seconds := ttl / time.Second
	if ttl%time.Second != 0 {
		seconds++
	}
	if seconds <= 0 {
		return 1
	}
	return int64(seconds)
}
