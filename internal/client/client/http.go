package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/blogdesk/internal/common"
	"github.com/dmitrijs2005/blogdesk/internal/logging"
)

// TokenSource yields the bearer token for authenticated calls. An empty
// token with a nil error means no session.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// Client performs JSON requests against one base URL. It reads the token
// through its TokenSource and never writes session state.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  logging.Logger
}

// New builds a Client. A nil httpClient uses http.DefaultClient; a nil
// tokens source makes every authenticated call fail as unauthenticated.
func New(baseURL string, httpClient *http.Client, tokens TokenSource, logger logging.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		logger:  logger,
	}
}

// Do sends an authenticated request and decodes the JSON response into out.
// An empty or 204 response leaves out untouched.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.do(ctx, method, path, body, true)
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

// DoAnonymous is Do without the Authorization header.
func (c *Client) DoAnonymous(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.do(ctx, method, path, body, false)
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

func decodeInto(raw json.RawMessage, out any) error {
	if raw == nil || out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return transportError(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// envelope is the part of every response body the client inspects.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, authed bool) (json.RawMessage, error) {
	var token string
	if authed {
		if c.tokens == nil {
			return nil, notAuthenticated(nil)
		}
		t, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, notAuthenticated(err)
		}
		if t == "" {
			return nil, notAuthenticated(nil)
		}
		token = t
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	log := c.logger.With("request_id", requestID, "method", method, "path", path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "err", err)
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn(ctx, "read response failed", "err", err, "status", resp.StatusCode)
		return nil, transportError(fmt.Errorf("read response: %w", err))
	}

	log.Debug(ctx, "request done", "status", resp.StatusCode, "elapsed", time.Since(start))

	empty := resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		if !empty {
			_ = json.Unmarshal(data, &env)
		}
		return nil, serverError(resp.StatusCode, env.Message)
	}

	if empty {
		return nil, nil
	}

	if !json.Valid(data) {
		return nil, transportError(fmt.Errorf("invalid JSON in %d response", resp.StatusCode))
	}

	// {"success": false} in a 2xx body is still a failure
	if bytes.TrimSpace(data)[0] == '{' {
		var env envelope
		if err := json.Unmarshal(data, &env); err == nil && env.Success != nil && !*env.Success {
			return nil, serverError(resp.StatusCode, env.Message)
		}
	}

	return json.RawMessage(data), nil
}
