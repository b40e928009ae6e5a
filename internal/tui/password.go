package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-pong-guard/internal/session"
)

// passwordModel is a single masked input. The password is only read back
// by the caller after the program quits.
type passwordModel struct {
	req      session.PromptRequest
	input    textinput.Model
	canceled bool
}

func newPasswordModel(req session.PromptRequest) passwordModel {
	input := textinput.New()
	input.Placeholder = "password"
	input.CharLimit = 256
	input.Width = 40
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '*'
	input.Focus()

	return passwordModel{req: req, input: input}
}

func (m passwordModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m passwordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.enter):
			return m, tea.Quit
		case key.Matches(keyMsg, keys.cancel), key.Matches(keyMsg, keys.quit):
			m.canceled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m passwordModel) View() string {
	var b strings.Builder
	b.WriteString("Password │ [")
	b.WriteString(m.input.View())
	b.WriteString("]")

	if m.req.Error != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.req.Error))
	}

	return renderPage(m.req.Purpose.Title(), b.String(), "enter: confirm │ esc: cancel")
}

func (m passwordModel) value() string {
	return m.input.Value()
}
