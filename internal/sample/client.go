package sample

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/scorecard/internal/domain/model"
	"github.com/okian/scorecard/internal/domain/types"
	"github.com/okian/scorecard/pkg/logger"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultPollInterval = 200 * time.Millisecond
)

// Client talks to a scorecard server.
type Client struct {
	baseURL string
	http    *http.Client
	poll    time.Duration
	logger  logger.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithPollInterval sets how often Wait checks a pending report.
func WithPollInterval(d time.Duration) ClientOption {
	return func(cl *Client) {
		if d > 0 {
			cl.poll = d
		}
	}
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		poll:    defaultPollInterval,
		logger:  logger.Get().Named("sample-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type reportRequest struct {
	Rows  []model.RawRecord `json:"rows"`
	Query model.Query       `json:"query"`
}

type accepted struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Submit posts rows for asynchronous generation and returns the report id.
func (c *Client) Submit(ctx context.Context, rows []model.RawRecord, q model.Query) (string, error) {
	body, err := json.Marshal(reportRequest{Rows: rows, Query: q})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reports?async=true", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("post report: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusAccepted {
		return "", unexpected(resp)
	}
	var a accepted
	if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	c.logger.Debug(ctx, "report submitted", logger.String("id", a.ID), logger.Int("rows", len(rows)))
	return a.ID, nil
}

// Wait polls until the report is ready, failed, or ctx ends.
func (c *Client) Wait(ctx context.Context, id string) (types.ReportEnvelope, error) {
	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()
	for {
		env, done, err := c.fetch(ctx, id)
		if err != nil || done {
			return env, err
		}
		select {
		case <-ctx.Done():
			return types.ReportEnvelope{}, fmt.Errorf("wait for %s: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) fetch(ctx context.Context, id string) (types.ReportEnvelope, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reports/"+id, http.NoBody)
	if err != nil {
		return types.ReportEnvelope{}, false, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return types.ReportEnvelope{}, false, fmt.Errorf("get report: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusAccepted:
		return types.ReportEnvelope{}, false, nil
	case http.StatusOK:
		var env types.ReportEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return types.ReportEnvelope{}, false, fmt.Errorf("decode report: %w", err)
		}
		return env, true, nil
	default:
		return types.ReportEnvelope{}, false, unexpected(resp)
	}
}

func unexpected(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
	return fmt.Errorf("%w: %s: %s", ErrUnexpected, resp.Status, strings.TrimSpace(string(b)))
}
