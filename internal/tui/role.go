package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-pong-guard/internal/session"
)

var roleItems = []struct {
	label string
	role  session.Role
}{
	{label: "Host a game", role: session.RoleHost},
	{label: "Join as peer", role: session.RolePeer},
}

// roleModel asks whether this process hosts or joins.
type roleModel struct {
	idx      int
	chosen   bool
	canceled bool
}

func (m roleModel) Init() tea.Cmd {
	return nil
}

func (m roleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.idx < len(roleItems)-1 {
			m.idx++
		}
	case key.Matches(keyMsg, keys.enter):
		m.chosen = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.cancel), key.Matches(keyMsg, keys.quit):
		m.canceled = true
		return m, tea.Quit
	}
	return m, nil
}

func (m roleModel) View() string {
	var b strings.Builder
	for i, item := range roleItems {
		cursor := " "
		if i == m.idx {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %d │ %s\n", cursor, i+1, item.label))
	}
	return renderPage("PONG", strings.TrimRight(b.String(), "\n"), "enter: choose │ ↑/↓: move")
}

func (m roleModel) role() session.Role {
	return roleItems[m.idx].role
}
