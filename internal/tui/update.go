// ABOUTME: State transitions for the campus client
// ABOUTME: Auth form, dashboard navigation, channel operations and chat

package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/grupo9/campus-g9/internal/client"
)

const missingFieldsText = "fill in every field"

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := inputWidth(m.mainWidth() - 2)
		m.input.Width = w
		m.editChannel.Width = w
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case authDoneMsg:
		return m.handleAuthDone(msg)
	case channelsLoadedMsg:
		return m.handleChannelsLoaded(msg)
	case channelCreatedMsg:
		return m.handleChannelCreated(msg)
	case channelDetailMsg:
		return m.handleChannelDetail(msg)
	case channelUpdatedMsg:
		return m.handleChannelUpdated(msg)
	case channelDeletedMsg:
		if msg.err != nil {
			m.logger.Error("deleting channel", "error", msg.err)
		}
		return m, m.delayedRefreshCmd()
	case channelReactivatedMsg:
		return m.handleChannelReactivated(msg)
	case chatReplyMsg:
		return m.handleChatReply(msg)
	case refreshMsg:
		if m.user == nil {
			return m, nil
		}
		return m, m.refreshCmd()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}
	// An alert stays up until the next key press.
	m.alert = ""

	if m.showingAuth() {
		return m.handleAuthKey(msg)
	}
	return m.handleDashboardKey(msg)
}

// ---------------------------------------------------------------------------
// Login / register
// ---------------------------------------------------------------------------

func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.ToggleForm):
		m.toggleForm()
	case key.Matches(msg, keys.NextField):
		m.moveFocus(1)
	case key.Matches(msg, keys.PrevField):
		m.moveFocus(-1)
	case key.Matches(msg, keys.Submit):
		return m.submitAuth()
	default:
		cmd := m.editFocused(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) toggleForm() {
	if m.view == viewRegister {
		m.view = viewLogin
	} else {
		m.view = viewRegister
	}
	m.err = ""
	m.ensureFocus(focusUsername)
}

func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	register := m.view == viewRegister
	username := m.username.Value()
	password := m.password.Value()
	email := ""
	if register {
		email = m.email.Value()
	}
	if username == "" || password == "" || (register && email == "") {
		m.err = missingFieldsText
		return m, nil
	}

	req := client.AuthRequest{
		UsernameOrEmail: username,
		Email:           email,
		Username:        username,
		Password:        password,
	}

	m.loading = true
	m.err = ""
	return m, authCmd(m.api, req, register)
}

func (m Model) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.logger.Warn("authentication failed", "register", msg.register, "error", msg.err)
		m.err = authErrorText(msg.err)
		return m, nil
	}

	m.password.Reset()
	if msg.register {
		m.alert = alertRegistered
		m.view = viewLogin
		m.ensureFocus(focusUsername)
		return m, nil
	}

	username := msg.username
	if username == "" {
		username = defaultUsername
	}
	m.user = &User{Username: username}
	m.view = viewDashboard
	m.activeTab = tabChatbot
	m.focus = focusChatInput
	m.logger.Info("logged in", "username", username)
	return m, m.refreshCmd()
}

// authErrorText is the gateway's detail text when there is one.
func authErrorText(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return authFailedText
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Refresh):
		return m, m.refreshCmd()
	case key.Matches(msg, keys.GoToChat), key.Matches(msg, keys.Close):
		m.closeDetails()
	case key.Matches(msg, keys.NewChannel):
		m.focus = focusNewChannel
	case key.Matches(msg, keys.Logout):
		m.logout()
	case key.Matches(msg, keys.NextField):
		m.moveFocus(1)
	case key.Matches(msg, keys.PrevField):
		m.moveFocus(-1)
	case key.Matches(msg, keys.Submit):
		return m.activate()
	case m.focus == focusChannels && key.Matches(msg, keys.Up):
		m.cursor--
		m.clampCursor()
	case m.focus == focusChannels && key.Matches(msg, keys.Down):
		m.cursor++
		m.clampCursor()
	default:
		cmd := m.editFocused(msg)
		return m, cmd
	}
	return m, nil
}

// activate runs the action behind the focused element.
func (m Model) activate() (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusChannels:
		return m.selectChannel()
	case focusNewChannel:
		return m.createChannel()
	case focusChatInput:
		return m.sendMessage()
	case focusEditName:
		return m.updateChannel()
	case focusReactivate:
		return m.reactivateChannel()
	case focusDelete:
		return m.deleteChannel()
	}
	return m, nil
}

func (m *Model) closeDetails() {
	m.activeTab = tabChatbot
	m.ensureFocus(focusChatInput)
}

func (m *Model) logout() {
	m.logger.Info("logged out", "username", m.currentUsername())
	m.user = nil
	m.view = viewLogin
	m.activeTab = tabChatbot
	m.selected = nil
	m.publicChannels = []client.Channel{}
	m.myChannels = []client.Channel{}
	m.cursor = 0
	m.password.Reset()
	m.err = ""
	m.focus = focusUsername
}

func (m Model) handleChannelsLoaded(msg channelsLoadedMsg) (tea.Model, tea.Cmd) {
	// Lists that arrive after logout, or that were fetched for another
	// user, are stale.
	if m.user == nil {
		return m, nil
	}
	if msg.scope == scopeOwned && msg.owner != m.currentUsername() {
		return m, nil
	}

	channels := msg.channels
	if msg.err != nil {
		m.logger.Error("loading channels", "scope", msg.scope, "error", msg.err)
		channels = nil
	}
	if channels == nil {
		channels = []client.Channel{}
	}

	switch msg.scope {
	case scopePublic:
		m.publicChannels = channels
	case scopeOwned:
		m.myChannels = channels
	}
	m.clampCursor()
	return m, nil
}

func (m Model) createChannel() (tea.Model, tea.Cmd) {
	name := m.newChannel.Value()
	if strings.TrimSpace(name) == "" {
		return m, nil
	}
	return m, createChannelCmd(m.api, name, m.currentUsername())
}

func (m Model) handleChannelCreated(msg channelCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Error("creating channel", "error", msg.err)
		if isTransportError(msg.err) {
			m.alert = alertConnection
		} else {
			m.alert = alertCreateError
		}
		return m, nil
	}
	m.newChannel.Reset()
	return m, m.delayedRefreshCmd()
}

func (m Model) selectChannel() (tea.Model, tea.Cmd) {
	entries := m.channelEntries()
	if len(entries) == 0 {
		return m, nil
	}
	m.clampCursor()

	ch := entries[m.cursor]
	m.selected = &ch
	m.editChannel.SetValue(ch.Name)
	m.activeTab = tabChannelDetails
	if ch.ID == "" {
		return m, nil
	}
	return m, channelDetailCmd(m.api, ch.ID)
}

func (m Model) handleChannelDetail(msg channelDetailMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Debug("loading channel detail", "id", msg.id, "error", msg.err)
		return m, nil
	}
	// The selection may have moved on or been cleared while the request ran.
	if msg.channel == nil || m.selected == nil || m.selected.ID != msg.id {
		return m, nil
	}

	ch := *msg.channel
	if ch.ID == "" {
		ch.ID = msg.id
	}
	m.selected = &ch
	return m, nil
}

func (m Model) updateChannel() (tea.Model, tea.Cmd) {
	if m.selected == nil {
		return m, nil
	}
	return m, updateChannelCmd(m.api, m.selected.ID, m.editChannel.Value())
}

func (m Model) handleChannelUpdated(msg channelUpdatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Error("updating channel", "error", msg.err)
		if isTransportError(msg.err) {
			m.alert = alertUpdateError
			return m, nil
		}
	}
	m.alert = alertUpdated
	return m, m.refreshCmd()
}

func (m Model) deleteChannel() (tea.Model, tea.Cmd) {
	if m.selected == nil {
		return m, nil
	}
	id := m.selected.ID
	m.activeTab = tabChatbot
	m.selected = nil
	m.ensureFocus(focusChatInput)
	return m, deleteChannelCmd(m.api, id)
}

func (m Model) reactivateChannel() (tea.Model, tea.Cmd) {
	if m.selected == nil {
		return m, nil
	}
	return m, reactivateChannelCmd(m.api, m.selected.ID)
}

func (m Model) handleChannelReactivated(msg channelReactivatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Error("reactivating channel", "error", msg.err)
		if isTransportError(msg.err) {
			m.alert = alertConnection
			return m, nil
		}
	}
	m.alert = alertReactivated
	return m, nil
}

func (m Model) sendMessage() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if text == "" {
		return m, nil
	}
	m.input.Reset()
	m.messages = append(m.messages, Message{Author: myAuthor, Content: text, IsMe: true})
	return m, chatCmd(m.api, text)
}

func (m Model) handleChatReply(msg chatReplyMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil || msg.reply == nil {
		m.logger.Error("chat request failed", "error", msg.err)
		m.messages = append(m.messages, Message{Author: systemAuthor, Content: botErrorText})
		return m, nil
	}
	m.messages = append(m.messages, Message{Author: msg.reply.Author, Content: msg.reply.Content})
	return m, nil
}

// isTransportError reports whether err happened before the gateway
// answered.
func isTransportError(err error) bool {
	var apiErr *client.APIError
	return !errors.As(err, &apiErr)
}
