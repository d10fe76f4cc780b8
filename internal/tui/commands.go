// ABOUTME: Commands that call the gateway and the messages they produce
// ABOUTME: Each user action maps to at most one request

package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grupo9/campus-g9/internal/client"
)

type authDoneMsg struct {
	register bool
	username string
	err      error
}

type channelScope string

const (
	scopePublic channelScope = "public"
	scopeOwned  channelScope = "owned"
)

type channelsLoadedMsg struct {
	scope    channelScope
	owner    string // user the owned list was fetched for
	channels []client.Channel
	err      error
}

type channelCreatedMsg struct{ err error }

type channelDetailMsg struct {
	id      string
	channel *client.Channel
	err     error
}

type channelUpdatedMsg struct{ err error }

type channelDeletedMsg struct{ err error }

type channelReactivatedMsg struct{ err error }

type chatReplyMsg struct {
	reply *client.ChatReply
	err   error
}

// refreshMsg fires when a delayed refresh is due.
type refreshMsg struct{}

func authCmd(api API, req client.AuthRequest, register bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if register {
			err = api.Register(ctx, req)
		} else {
			err = api.Login(ctx, req)
		}
		return authDoneMsg{register: register, username: req.UsernameOrEmail, err: err}
	}
}

func loadPublicCmd(api API) tea.Cmd {
	return func() tea.Msg {
		channels, err := api.ListChannels(context.Background())
		return channelsLoadedMsg{scope: scopePublic, channels: channels, err: err}
	}
}

// loadOwnedCmd is nil when there is no owner to ask for.
func loadOwnedCmd(api API, owner string) tea.Cmd {
	if owner == "" {
		return nil
	}
	return func() tea.Msg {
		channels, err := api.ListOwnedChannels(context.Background(), owner)
		return channelsLoadedMsg{scope: scopeOwned, owner: owner, channels: channels, err: err}
	}
}

func createChannelCmd(api API, name, owner string) tea.Cmd {
	return func() tea.Msg {
		return channelCreatedMsg{err: api.CreateChannel(context.Background(), name, owner)}
	}
}

func channelDetailCmd(api API, id string) tea.Cmd {
	return func() tea.Msg {
		ch, err := api.GetChannel(context.Background(), id)
		return channelDetailMsg{id: id, channel: ch, err: err}
	}
}

func updateChannelCmd(api API, id, name string) tea.Cmd {
	return func() tea.Msg {
		return channelUpdatedMsg{err: api.UpdateChannel(context.Background(), id, name, activeStatus)}
	}
}

func deleteChannelCmd(api API, id string) tea.Cmd {
	return func() tea.Msg {
		return channelDeletedMsg{err: api.DeleteChannel(context.Background(), id)}
	}
}

func reactivateChannelCmd(api API, id string) tea.Cmd {
	return func() tea.Msg {
		return channelReactivatedMsg{err: api.ReactivateChannel(context.Background(), id)}
	}
}

func chatCmd(api API, text string) tea.Cmd {
	return func() tea.Msg {
		reply, err := api.Chat(context.Background(), text)
		return chatReplyMsg{reply: reply, err: err}
	}
}

// refreshCmd fetches both channel lists.
func (m Model) refreshCmd() tea.Cmd {
	return tea.Batch(loadPublicCmd(m.api), loadOwnedCmd(m.api, m.currentUsername()))
}

// delayedRefreshCmd fetches both lists once the refresh delay has passed.
func (m Model) delayedRefreshCmd() tea.Cmd {
	if m.refreshDelay <= 0 {
		return m.refreshCmd()
	}
	return tea.Tick(m.refreshDelay, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}
