// ABOUTME: Test helpers: a recording fake API and key/command drivers
// ABOUTME: Commands are run synchronously, batches expanded recursively

package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grupo9/campus-g9/internal/client"
)

// fakeAPI records every call and answers from its fields.
type fakeAPI struct {
	calls []string

	loginErr    error
	registerErr error
	lastAuth    client.AuthRequest

	public    []client.Channel
	owned     []client.Channel
	listErr   error
	lastOwner string

	createErr  error
	lastCreate [2]string

	detail    *client.Channel
	detailErr error

	updateErr  error
	lastUpdate [3]string

	deleteErr  error
	lastDelete string

	reactivateErr error

	reply    *client.ChatReply
	chatErr  error
	lastChat string
}

func (f *fakeAPI) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeAPI) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) Login(_ context.Context, req client.AuthRequest) error {
	f.record("login")
	f.lastAuth = req
	return f.loginErr
}

func (f *fakeAPI) Register(_ context.Context, req client.AuthRequest) error {
	f.record("register")
	f.lastAuth = req
	return f.registerErr
}

func (f *fakeAPI) ListChannels(context.Context) ([]client.Channel, error) {
	f.record("list")
	if f.listErr != nil {
		return []client.Channel{}, f.listErr
	}
	return f.public, nil
}

func (f *fakeAPI) ListOwnedChannels(_ context.Context, owner string) ([]client.Channel, error) {
	f.record("list_owned")
	f.lastOwner = owner
	if f.listErr != nil {
		return []client.Channel{}, f.listErr
	}
	return f.owned, nil
}

func (f *fakeAPI) CreateChannel(_ context.Context, name, owner string) error {
	f.record("create")
	f.lastCreate = [2]string{name, owner}
	return f.createErr
}

func (f *fakeAPI) GetChannel(context.Context, string) (*client.Channel, error) {
	f.record("get")
	return f.detail, f.detailErr
}

func (f *fakeAPI) UpdateChannel(_ context.Context, id, name, status string) error {
	f.record("update")
	f.lastUpdate = [3]string{id, name, status}
	return f.updateErr
}

func (f *fakeAPI) DeleteChannel(_ context.Context, id string) error {
	f.record("delete")
	f.lastDelete = id
	return f.deleteErr
}

func (f *fakeAPI) ReactivateChannel(context.Context, string) error {
	f.record("reactivate")
	return f.reactivateErr
}

func (f *fakeAPI) Chat(_ context.Context, text string) (*client.ChatReply, error) {
	f.record("chat")
	f.lastChat = text
	return f.reply, f.chatErr
}

var errTransport = errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")

func newTestModel(api API) Model {
	return New(api, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

func flowKey(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func flowSpecial(t tea.KeyType) tea.KeyMsg {
	if t == tea.KeySpace {
		return tea.KeyMsg{Type: t, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: t}
}

// flowUpdate applies one message without running the resulting command.
func flowUpdate(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return got, cmd
}

func flowApplyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	m, cmd := flowUpdate(t, m, msg)
	return flowDrainCmd(t, m, cmd, 0)
}

func flowPress(t *testing.T, m Model, k tea.KeyType) Model {
	t.Helper()
	return flowApplyMsg(t, m, flowSpecial(k))
}

func flowType(t *testing.T, m Model, input string) Model {
	t.Helper()
	for _, r := range input {
		m = flowApplyMsg(t, m, flowKey(string(r)))
	}
	return m
}

// flowDrainCmd runs cmd and feeds its messages back into the model,
// expanding batches.
func flowDrainCmd(t *testing.T, m Model, cmd tea.Cmd, depth int) Model {
	t.Helper()
	if depth > 32 {
		t.Fatal("command chain exceeded max depth")
	}
	if cmd == nil {
		return m
	}

	msg := cmd()
	if msg == nil {
		return m
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = flowDrainCmd(t, m, c, depth+1)
		}
		return m
	}
	if _, ok := msg.(tea.QuitMsg); ok {
		return m
	}

	m, next := flowUpdate(t, m, msg)
	return flowDrainCmd(t, m, next, depth+1)
}

// loggedIn returns a model on the dashboard for user "ana".
func loggedIn(t *testing.T, api *fakeAPI) Model {
	t.Helper()
	m := newTestModel(api)
	m = flowType(t, m, "ana")
	m = flowPress(t, m, tea.KeyTab)
	m = flowType(t, m, "secret")
	m = flowPress(t, m, tea.KeyEnter)
	if m.view != viewDashboard {
		t.Fatalf("view = %s, want DASHBOARD", m.view)
	}
	api.calls = nil
	return m
}
