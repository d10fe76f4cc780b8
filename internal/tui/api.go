// ABOUTME: Gateway operations the client needs, satisfied by *client.Client
// ABOUTME: Tests substitute a recording fake

package tui

import (
	"context"

	"github.com/grupo9/campus-g9/internal/client"
)

// API is the part of the gateway the client talks to.
type API interface {
	Login(ctx context.Context, req client.AuthRequest) error
	Register(ctx context.Context, req client.AuthRequest) error
	ListChannels(ctx context.Context) ([]client.Channel, error)
	ListOwnedChannels(ctx context.Context, owner string) ([]client.Channel, error)
	CreateChannel(ctx context.Context, name, ownerID string) error
	GetChannel(ctx context.Context, id string) (*client.Channel, error)
	UpdateChannel(ctx context.Context, id, name, status string) error
	DeleteChannel(ctx context.Context, id string) error
	ReactivateChannel(ctx context.Context, id string) error
	Chat(ctx context.Context, text string) (*client.ChatReply, error)
}

var _ API = (*client.Client)(nil)
