// ABOUTME: HTTP client for campus-gateway covering auth, channels and chat
// ABOUTME: Maps non-2xx responses to *APIError using the gateway's detail text

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client talks to one gateway.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Token, when set, is sent as a Bearer token. Only the knowledge-base
	// admin routes require it.
	Token string
}

// New creates a Client. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: httpClient,
	}
}

// do sends a request and returns the body of a 2xx answer.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Detail: detailFrom(data)}
	}
	return data, nil
}

// detailFrom extracts the "detail" text of an error body, falling back to
// the raw body.
func detailFrom(body []byte) string {
	var errResp struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		switch d := errResp.Detail.(type) {
		case string:
			return d
		case nil:
		default:
			if encoded, err := json.Marshal(d); err == nil {
				return string(encoded)
			}
		}
	}
	return strings.TrimSpace(string(body))
}

func channelPath(id string) string {
	return "/proxy/channels/" + url.PathEscape(id)
}

// Login authenticates against POST /proxy/auth/login.
func (c *Client) Login(ctx context.Context, req AuthRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/proxy/auth/login", req)
	return err
}

// Register creates an account with POST /proxy/auth/register.
func (c *Client) Register(ctx context.Context, req AuthRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/proxy/auth/register", req)
	return err
}

// ListChannels returns the public channels.
func (c *Client) ListChannels(ctx context.Context) ([]Channel, error) {
	data, err := c.do(ctx, http.MethodGet, "/proxy/channels", nil)
	if err != nil {
		return []Channel{}, err
	}
	return decodeChannels(data), nil
}

// ListOwnedChannels returns the channels owned by owner.
func (c *Client) ListOwnedChannels(ctx context.Context, owner string) ([]Channel, error) {
	data, err := c.do(ctx, http.MethodGet, "/proxy/channels/owner/"+url.PathEscape(owner), nil)
	if err != nil {
		return []Channel{}, err
	}
	return decodeChannels(data), nil
}

// decodeChannels decodes a channel array, tolerating anything else.
func decodeChannels(data []byte) []Channel {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return []Channel{}
	}

	channels := make([]Channel, 0, len(items))
	for _, item := range items {
		var ch Channel
		if err := json.Unmarshal(item, &ch); err != nil {
			continue
		}
		channels = append(channels, ch)
	}
	return channels
}

// CreateChannel creates a channel owned by ownerID.
func (c *Client) CreateChannel(ctx context.Context, name, ownerID string) error {
	_, err := c.do(ctx, http.MethodPost, "/proxy/channels", map[string]string{
		"name":     name,
		"owner_id": ownerID,
	})
	return err
}

// GetChannel fetches one channel. It returns (nil, nil) when the gateway
// answers with an empty body or {}.
func (c *Client) GetChannel(ctx context.Context, id string) (*Channel, error) {
	data, err := c.do(ctx, http.MethodGet, channelPath(id), nil)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var ch Channel
	if err := json.Unmarshal(data, &ch); err != nil {
		return nil, fmt.Errorf("parsing channel: %w", err)
	}
	if ch.IsZero() {
		return nil, nil
	}
	return &ch, nil
}

// UpdateChannel renames a channel and sets its status.
func (c *Client) UpdateChannel(ctx context.Context, id, name, status string) error {
	_, err := c.do(ctx, http.MethodPut, channelPath(id), map[string]string{
		"name":   name,
		"status": status,
	})
	return err
}

// DeleteChannel deletes a channel.
func (c *Client) DeleteChannel(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, channelPath(id), nil)
	return err
}

// ReactivateChannel reactivates a deleted channel.
func (c *Client) ReactivateChannel(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPost, channelPath(id)+"/reactivate", nil)
	return err
}

// Chat sends text to the chatbot.
func (c *Client) Chat(ctx context.Context, text string) (*ChatReply, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/chat", map[string]string{"text": text})
	if err != nil {
		return nil, err
	}

	var reply ChatReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, fmt.Errorf("parsing chat reply: %w", err)
	}
	return &reply, nil
}

// Health checks GET /health.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", nil)
	return err
}
