// ABOUTME: Client for the external channels service
// ABOUTME: Covers listing, CRUD and reactivation of channels

package upstream

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultChannelType is sent when a create request names no type.
const DefaultChannelType = "public"

// CreateChannelRequest is the channels service's create body.
type CreateChannelRequest struct {
	Name        string `json:"name"`
	OwnerID     string `json:"owner_id"`
	ChannelType string `json:"channel_type"`
}

// UpdateChannelRequest is the channels service's update body. A nil Status
// is sent as JSON null.
type UpdateChannelRequest struct {
	Name   string  `json:"name"`
	Status *string `json:"status"`
}

// Channels talks to the channels service.
type Channels struct {
	base
	listTimeout time.Duration
}

// NewChannels creates a channels client. listTimeout applies to the two
// list calls, timeout to everything else.
func NewChannels(baseURL string, httpClient *http.Client, timeout, listTimeout time.Duration, logger *slog.Logger) *Channels {
	return &Channels{
		base:        newBase(baseURL, httpClient, timeout, logger),
		listTimeout: listTimeout,
	}
}

func channelPath(id string) string {
	return "/v1/channels/" + url.PathEscape(id)
}

// List returns the public channel list as a raw JSON array.
func (c *Channels) List(ctx context.Context) (json.RawMessage, error) {
	return c.list(ctx, "/v1/channels/", c.listTimeout)
}

// ListByOwner returns the channels owned by ownerID as a raw JSON array.
func (c *Channels) ListByOwner(ctx context.Context, ownerID string) (json.RawMessage, error) {
	return c.list(ctx, "/v1/members/owner/"+url.PathEscape(ownerID), c.listTimeout)
}

// Create creates a channel. An empty ChannelType becomes DefaultChannelType.
func (c *Channels) Create(ctx context.Context, req CreateChannelRequest) (*Response, error) {
	if req.ChannelType == "" {
		req.ChannelType = DefaultChannelType
	}
	return c.do(ctx, http.MethodPost, "/v1/channels/", req, c.timeout)
}

// Get fetches one channel.
func (c *Channels) Get(ctx context.Context, id string) (*Response, error) {
	return c.do(ctx, http.MethodGet, channelPath(id), nil, c.timeout)
}

// Update renames a channel and optionally sets its status.
func (c *Channels) Update(ctx context.Context, id string, req UpdateChannelRequest) (*Response, error) {
	return c.do(ctx, http.MethodPut, channelPath(id), req, c.timeout)
}

// Delete deletes (deactivates) a channel.
func (c *Channels) Delete(ctx context.Context, id string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, channelPath(id), nil, c.timeout)
}

// Reactivate reactivates a deleted channel.
func (c *Channels) Reactivate(ctx context.Context, id string) (*Response, error) {
	return c.do(ctx, http.MethodPost, channelPath(id)+"/reactivate", nil, c.timeout)
}
