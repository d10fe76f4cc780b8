// ABOUTME: Rendering for the auth box and the dashboard
// ABOUTME: Sidebar with channel lists, chat and channel-details panes, status line

package tui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/grupo9/campus-g9/internal/client"
)

const (
	authFieldWidth = 32
	sidebarWidth   = 30
	minMainWidth   = 40
)

func (m Model) View() string {
	if m.showingAuth() {
		return m.place(m.renderAuth())
	}
	return m.renderDashboard()
}

// place centres content when the terminal size is known.
func (m Model) place(content string) string {
	if m.width <= 0 || m.height <= 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderAuth() string {
	register := m.view == viewRegister

	lines := []string{titleStyle.Render("🏛  Campus G9"), ""}
	if register {
		lines = append(lines, renderInput(m.email, m.focus == focusEmail, authFieldWidth))
	}
	lines = append(lines,
		renderInput(m.username, m.focus == focusUsername, authFieldWidth),
		renderInput(m.password, m.focus == focusPassword, authFieldWidth),
		"",
	)

	label := "Sign in"
	if register {
		label = "Register"
	}
	if m.loading {
		label = "..."
	}
	lines = append(lines, focusedButtonStyle.Render(label))

	toggle := "ctrl+t  create an account?"
	if register {
		toggle = "ctrl+t  sign in?"
	}
	lines = append(lines, footerStyle.Render(toggle))

	if m.err != "" {
		lines = append(lines, "", errorStyle.Render(m.err))
	}
	if m.alert != "" {
		lines = append(lines, "", alertStyle.Render(m.alert))
	}

	box := authBoxStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Center, box, renderHelp(authHelp()))
}

func (m Model) renderDashboard() string {
	sidebar := m.renderSidebar()

	mainWidth := m.mainWidth()

	var main string
	if m.activeTab == tabChannelDetails {
		main = m.renderDetails(mainWidth)
	} else {
		main = m.renderChat(mainWidth)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Width(sidebarWidth).Render(sidebar),
		mainPaneStyle.Width(mainWidth).Render(main),
	)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatus(), renderHelp(dashboardHelp()))
}

func (m Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Panel G9"))
	b.WriteString("\n\n")

	idx := 0
	b.WriteString(sectionStyle.Render("MY CHANNELS"))
	b.WriteString("\n")
	for _, ch := range m.myChannels {
		b.WriteString(m.renderChannelEntry(idx, "📢 ", ch))
		idx++
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("PUBLIC"))
	b.WriteString("\n")
	for _, ch := range m.publicChannels {
		b.WriteString(m.renderChannelEntry(idx, "# ", ch))
		idx++
	}

	b.WriteString("\n")
	b.WriteString(renderInput(m.newChannel, m.focus == focusNewChannel, sidebarWidth-2))
	b.WriteString("\n\n")

	username := m.currentUsername()
	b.WriteString(avatarStyle.Render(avatarInitial(username)))
	b.WriteString(" ")
	b.WriteString(username)
	return b.String()
}

func (m Model) renderChannelEntry(idx int, prefix string, ch client.Channel) string {
	marker := "  "
	if m.focus == focusChannels && idx == m.cursor {
		marker = cursorStyle.Render("› ")
	}

	style := channelStyle
	if m.selected != nil && ch.ID != "" && m.selected.ID == ch.ID {
		style = selectedChannelStyle
	}
	return marker + style.Render(prefix+ch.Name) + "\n"
}

func avatarInitial(username string) string {
	for _, r := range username {
		return string(unicode.ToUpper(r))
	}
	return "U"
}

// mainWidth is the width of the pane right of the sidebar.
func (m Model) mainWidth() int {
	if m.width > sidebarWidth+minMainWidth+4 {
		return m.width - sidebarWidth - 4
	}
	return minMainWidth
}

func (m Model) renderChat(width int) string {
	header := titleStyle.Render("🤖 Virtual assistant")

	lines := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		if msg.IsMe {
			lines = append(lines, lipgloss.PlaceHorizontal(width-2, lipgloss.Right, myMessageStyle.Render(msg.Content)))
			continue
		}
		lines = append(lines, botAuthorStyle.Render(msg.Author)+"  "+msg.Content)
	}

	// Keep the newest messages in view.
	if limit := m.height - 10; limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}

	input := renderInput(m.input, m.focus == focusChatInput, width-2)
	return strings.Join([]string{header, "", strings.Join(lines, "\n"), "", input}, "\n")
}

func (m Model) renderDetails(width int) string {
	header := titleStyle.Render("Settings") + footerStyle.Render("   esc to close")
	if m.selected == nil {
		return header + "\n\n" + footerStyle.Render("no channel selected")
	}

	ch := m.selected
	info := []string{
		sectionStyle.Render("Details"),
		fmt.Sprintf("ID:     %s", ch.ID),
		fmt.Sprintf("Owner:  %s", ch.OwnerID),
	}
	if ch.Status != "" {
		info = append(info, fmt.Sprintf("Status: %s", statusText(ch.Status)))
	}

	edit := []string{
		sectionStyle.Render("Edit"),
		renderInput(m.editChannel, m.focus == focusEditName, width-2),
		footerStyle.Render("enter to save"),
	}

	reactivate := buttonStyle.Render("Reactivate")
	if m.focus == focusReactivate {
		reactivate = focusedButtonStyle.Render("Reactivate")
	}
	del := buttonStyle.Render("Delete")
	if m.focus == focusDelete {
		del = dangerButtonStyle.Render("Delete")
	}
	actions := []string{
		sectionStyle.Render("Actions"),
		reactivate + "  " + del,
	}

	return strings.Join([]string{
		header, "",
		strings.Join(info, "\n"), "",
		strings.Join(edit, "\n"), "",
		strings.Join(actions, "\n"),
	}, "\n")
}

func statusText(status string) string {
	if status == activeStatus {
		return successStyle.Render(status)
	}
	return alertStyle.Render(status)
}

func (m Model) renderStatus() string {
	switch {
	case m.alert != "":
		return alertStyle.Render(m.alert)
	case m.err != "":
		return errorStyle.Render(m.err)
	}
	return ""
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return footerStyle.Render(strings.Join(parts, "  ·  "))
}
