package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client talks to the downtime assistant service. One Client is safe for
// use across conversations; per-turn state lives in the transcript.
type Client struct {
	target  string
	modelID string
	httpc   *http.Client
	log     *slog.Logger
}

// Option configures a Client created with NewClient.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client. Used by tests and by
// callers that need custom transport settings.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// WithLogger sets the structured logger. Defaults to slog's discard-level
// default logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithModel requests a specific model from the service. Empty means the
// server picks.
func WithModel(modelID string) Option {
	return func(c *Client) {
		c.modelID = modelID
	}
}

// NewClient returns a Client for the service at target (scheme + host +
// port, no trailing slash).
func NewClient(target string, opts ...Option) *Client {
	c := &Client{
		target: target,
		httpc: &http.Client{
			// Agent responses can be slow; the stream itself has no
			// deadline beyond the request context.
			Timeout: 5 * time.Minute,
		},
		log: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// queryRequest is the wire format for one turn's query.
type queryRequest struct {
	Query          string `json:"query"`
	ConversationID string `json:"conversation_id,omitempty"`
	SessionID      string `json:"session_id,omitempty"`
	ModelID        string `json:"model_id,omitempty"`
}

// openStream POSTs the query and hands back the streaming response body.
// The caller owns the body and must close it on every exit path.
func (c *Client) openStream(ctx context.Context, q queryRequest) (io.ReadCloser, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("marshaling query: %w", err)
	}

	c.log.Debug("sending agent query",
		"target", c.target,
		"conversation_id", q.ConversationID,
		"session_id", q.SessionID,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.target+"/agent/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, fmt.Errorf("agent returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return resp.Body, nil
}

// doJSON issues a request with no body and decodes a JSON response into out.
// out may be nil when the response body is irrelevant.
func (c *Client) doJSON(ctx context.Context, method, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("agent returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
