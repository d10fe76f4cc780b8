// ABOUTME: Shared HTTP plumbing for calls to the users and channels services
// ABOUTME: Encodes JSON bodies, applies per-call timeouts, and captures responses

package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// maxBodySize bounds how much of an upstream response is read.
const maxBodySize = 4 << 20

// Response is a captured upstream answer.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the status is below 400.
func (r *Response) OK() bool {
	return r.Status < http.StatusBadRequest
}

// ValidJSON reports whether the body parses as JSON.
func (r *Response) ValidJSON() bool {
	return json.Valid(r.Body)
}

// StatusError is returned by the list helpers when the upstream answers
// anything other than 200.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.Body)
}

// base holds what both service clients share.
type base struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

func newBase(baseURL string, httpClient *http.Client, timeout time.Duration, logger *slog.Logger) base {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return base{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		timeout: timeout,
		logger:  logger,
	}
}

// do sends one request. body, when non-nil, is sent as JSON.
func (b base) do(ctx context.Context, method, path string, body any, timeout time.Duration) (*Response, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := b.http.Do(req)
	if err != nil {
		b.logger.Warn("upstream request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	b.logger.Debug("upstream request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	return &Response{Status: resp.StatusCode, Body: data}, nil
}

// list fetches a JSON array, failing on anything else.
func (b base) list(ctx context.Context, path string, timeout time.Duration) (json.RawMessage, error) {
	resp, err := b.do(ctx, http.MethodGet, path, nil, timeout)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, &StatusError{Status: resp.Status, Body: string(resp.Body)}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(resp.Body, &items); err != nil {
		return nil, fmt.Errorf("decoding list from %s: %w", path, err)
	}
	if items == nil {
		return json.RawMessage("[]"), nil
	}
	return json.RawMessage(resp.Body), nil
}
