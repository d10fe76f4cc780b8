// ABOUTME: Key bindings for the campus client
// ABOUTME: Grouped for the auth and dashboard help footers

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Submit     key.Binding
	Up         key.Binding
	Down       key.Binding
	Refresh    key.Binding
	GoToChat   key.Binding
	NewChannel key.Binding
	Logout     key.Binding
	ToggleForm key.Binding
	Close      key.Binding
}

var keys = keyMap{
	Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	NextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
	PrevField:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
	Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ok")),
	Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
	Down:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
	Refresh:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
	GoToChat:   key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "chat")),
	NewChannel: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new channel")),
	Logout:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
	ToggleForm: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "login/register")),
	Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
}

// authHelp and dashboardHelp are the footer lines for each screen.
func authHelp() []key.Binding {
	return []key.Binding{keys.NextField, keys.Submit, keys.ToggleForm, keys.Quit}
}

func dashboardHelp() []key.Binding {
	return []key.Binding{
		keys.NextField, keys.Submit, keys.Refresh, keys.GoToChat,
		keys.NewChannel, keys.Close, keys.Logout, keys.Quit,
	}
}
