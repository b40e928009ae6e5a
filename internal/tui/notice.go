package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// noticeModel shows one message until it is dismissed.
type noticeModel struct {
	text string
}

func (m noticeModel) Init() tea.Cmd {
	return nil
}

func (m noticeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, keys.enter) || key.Matches(keyMsg, keys.cancel) || key.Matches(keyMsg, keys.quit) {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m noticeModel) View() string {
	return renderPage("PONG", noticeStyle.Render(m.text), "enter: OK")
}
