// ABOUTME: Text inputs built on bubbles/textinput
// ABOUTME: Static cursor, password echo and focus-aware editing and rendering

package tui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// newInput returns a single-line input styled for the theme that fits a field
// box boxWidth cells wide. The cursor does not blink, so editing never
// schedules commands.
func newInput(placeholder string, boxWidth int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Width = inputWidth(boxWidth)
	in.Placeholder = placeholder
	in.PlaceholderStyle = placeholderStyle
	in.Cursor.Style = cursorStyle
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}

func newPasswordInput(placeholder string, boxWidth int) textinput.Model {
	in := newInput(placeholder, boxWidth)
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '•'
	return in
}

// editFocused forwards an editing key to the input under focus. Inputs only
// accept keys while focused, so focus is taken right before the update.
func (m *Model) editFocused(msg tea.KeyMsg) tea.Cmd {
	in := m.focusedField()
	if in == nil {
		return nil
	}
	focusCmd := in.Focus()
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return tea.Batch(focusCmd, cmd)
}

// inputWidth is the text width for a field box. The input draws one cell
// past its width and the cursor takes another.
func inputWidth(boxWidth int) int {
	return max(boxWidth-2, 1)
}

// renderInput draws in inside a field box of the given width.
func renderInput(in textinput.Model, focused bool, width int) string {
	in.Width = inputWidth(width)
	style := fieldStyle
	if focused {
		style = focusedFieldStyle
		in.Focus()
	} else {
		in.Blur()
	}
	return style.Width(width).Render(in.View())
}
