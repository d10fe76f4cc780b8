// ABOUTME: Catppuccin Mocha palette and lipgloss styles for the client
// ABOUTME: Semantic colour aliases keep views independent of the palette

package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the client draws with.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSubtext0)

	authBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(1, 3)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	mainPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	fieldStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorSurface0)

	focusedFieldStyle = lipgloss.NewStyle().
				Foreground(colorText).
				Background(colorSurface1)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(colorOverlay1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorFocus).
			Bold(true)

	channelStyle = lipgloss.NewStyle().
			Foreground(colorText)

	selectedChannelStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorSurface0).
			Padding(0, 1)

	focusedButtonStyle = lipgloss.NewStyle().
				Foreground(colorMantle).
				Background(colorFocus).
				Padding(0, 1)

	dangerButtonStyle = lipgloss.NewStyle().
				Foreground(colorMantle).
				Background(colorError).
				Padding(0, 1)

	avatarStyle = lipgloss.NewStyle().
			Foreground(colorMantle).
			Background(colorAccent).
			Bold(true).
			Padding(0, 1)

	myMessageStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	botAuthorStyle = lipgloss.NewStyle().
			Foreground(colorInfo).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	alertStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorOverlay1)
)
