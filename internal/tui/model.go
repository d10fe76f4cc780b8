// ABOUTME: Client state for the Campus G9 terminal UI
// ABOUTME: Views, tabs, focus ring, channel lists and the chat transcript

package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/grupo9/campus-g9/internal/client"
)

type viewState int

const (
	viewLogin viewState = iota
	viewRegister
	viewDashboard
)

func (v viewState) String() string {
	switch v {
	case viewLogin:
		return "LOGIN"
	case viewRegister:
		return "REGISTER"
	case viewDashboard:
		return "DASHBOARD"
	default:
		return "UNKNOWN"
	}
}

type tab int

const (
	tabChatbot tab = iota
	tabChannelDetails
)

func (t tab) String() string {
	if t == tabChannelDetails {
		return "CHANNEL_DETAILS"
	}
	return "CHATBOT"
}

type focusArea int

const (
	focusUsername focusArea = iota
	focusEmail
	focusPassword
	focusChannels
	focusNewChannel
	focusChatInput
	focusEditName
	focusReactivate
	focusDelete
)

// Alert texts shown in the status line.
const (
	alertRegistered  = "registration successful, please log in"
	alertCreateError = "error creating channel"
	alertConnection  = "connection error"
	alertUpdated     = "updated"
	alertUpdateError = "update error"
	alertReactivated = "reactivated"
)

const (
	authFailedText  = "authentication error / service unavailable"
	defaultUsername = "Usuario"
	welcomeAuthor   = "Bot"
	welcomeText     = "Bienvenido al Sistema."
	myAuthor        = "Me"
	systemAuthor    = "Sys"
	botErrorText    = "bot error"
	activeStatus    = "active"
)

// User is the session user. It lives only as long as the process.
type User struct {
	Username string
}

// Message is one transcript line.
type Message struct {
	Author  string
	Content string
	IsMe    bool
}

// Options configures New.
type Options struct {
	Logger *slog.Logger
	// RefreshDelay is how long to wait after a create or delete before both
	// channel lists are fetched again. Zero fetches immediately.
	RefreshDelay time.Duration
}

// Model is the bubbletea model of the client.
type Model struct {
	api          API
	logger       *slog.Logger
	refreshDelay time.Duration

	view      viewState
	user      *User
	activeTab tab
	loading   bool
	err       string
	alert     string

	publicChannels []client.Channel
	myChannels     []client.Channel
	selected       *client.Channel
	cursor         int

	username    textinput.Model
	email       textinput.Model
	password    textinput.Model
	newChannel  textinput.Model
	editChannel textinput.Model
	input       textinput.Model

	messages []Message
	focus    focusArea

	width  int
	height int
}

// New returns the client in the LOGIN view.
func New(api API, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return Model{
		api:            api,
		logger:         logger.With("component", "tui"),
		refreshDelay:   opts.RefreshDelay,
		view:           viewLogin,
		activeTab:      tabChatbot,
		publicChannels: []client.Channel{},
		myChannels:     []client.Channel{},
		username:       newInput("Username", authFieldWidth),
		email:          newInput("Email", authFieldWidth),
		password:       newPasswordInput("Password", authFieldWidth),
		newChannel:     newInput("+ New", sidebarWidth-2),
		editChannel:    newInput("Channel name", minMainWidth-2),
		input:          newInput("Type...", minMainWidth-2),
		messages:       []Message{{Author: welcomeAuthor, Content: welcomeText}},
		focus:          focusUsername,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// showingAuth reports whether the login/register box is on screen.
func (m Model) showingAuth() bool {
	return m.view != viewDashboard || m.user == nil
}

// channelEntries is the sidebar list: owned channels first, then public.
func (m Model) channelEntries() []client.Channel {
	entries := make([]client.Channel, 0, len(m.myChannels)+len(m.publicChannels))
	entries = append(entries, m.myChannels...)
	return append(entries, m.publicChannels...)
}

func (m Model) focusRing() []focusArea {
	switch {
	case m.showingAuth() && m.view == viewRegister:
		return []focusArea{focusUsername, focusEmail, focusPassword}
	case m.showingAuth():
		return []focusArea{focusUsername, focusPassword}
	case m.activeTab == tabChannelDetails:
		return []focusArea{focusChannels, focusNewChannel, focusEditName, focusReactivate, focusDelete}
	default:
		return []focusArea{focusChannels, focusNewChannel, focusChatInput}
	}
}

// moveFocus steps through the focus ring, wrapping at both ends.
func (m *Model) moveFocus(step int) {
	ring := m.focusRing()
	idx := 0
	for i, f := range ring {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + step + len(ring)) % len(ring)
	m.focus = ring[idx]
}

// ensureFocus puts focus back on the ring after a view or tab change.
func (m *Model) ensureFocus(fallback focusArea) {
	for _, f := range m.focusRing() {
		if f == m.focus {
			return
		}
	}
	m.focus = fallback
}

// focusedField returns the text field under focus, if any.
func (m *Model) focusedField() *textinput.Model {
	switch m.focus {
	case focusUsername:
		return &m.username
	case focusEmail:
		return &m.email
	case focusPassword:
		return &m.password
	case focusNewChannel:
		return &m.newChannel
	case focusChatInput:
		return &m.input
	case focusEditName:
		return &m.editChannel
	}
	return nil
}

func (m *Model) clampCursor() {
	n := len(m.myChannels) + len(m.publicChannels)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) currentUsername() string {
	if m.user == nil {
		return ""
	}
	return m.user.Username
}
