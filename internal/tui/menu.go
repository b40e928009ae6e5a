package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-pong-guard/internal/session"
	"github.com/MKhiriev/go-pong-guard/models"
)

type menuAction int

const (
	actionNone menuAction = iota
	actionPoint1
	actionPoint2
	actionSave
	actionLoad
	actionExit
)

var menuItems = []struct {
	label  string
	action menuAction
}{
	{label: "Point for " + models.Player1, action: actionPoint1},
	{label: "Point for " + models.Player2, action: actionPoint2},
	{label: "Save game and exit", action: actionSave},
	{label: "Load saved game", action: actionLoad},
	{label: "Exit", action: actionExit},
}

// MenuModel is the host's in-game menu. Points are applied to the
// scoreboard directly; every other choice ends the program and is turned
// into a session event by [MenuModel.Event].
type MenuModel struct {
	board        *session.Scoreboard
	winningScore int
	buildInfo    models.AppBuildInfo

	idx           int
	status        string
	showBuildInfo bool

	event  session.Event
	picked bool
}

// NewMenuModel returns a menu over board. A match ends when a player
// reaches winningScore.
func NewMenuModel(board *session.Scoreboard, winningScore int, buildInfo models.AppBuildInfo, status string) *MenuModel {
	return &MenuModel{
		board:        board,
		winningScore: winningScore,
		buildInfo:    buildInfo,
		status:       status,
	}
}

func (m *MenuModel) Init() tea.Cmd {
	return nil
}

func (m *MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.showBuildInfo {
		if key.Matches(keyMsg, keys.cancel) || key.Matches(keyMsg, keys.version) {
			m.showBuildInfo = false
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.quit):
		return m.pick(session.Event{Kind: session.EventWindowClose})
	case key.Matches(keyMsg, keys.version):
		m.showBuildInfo = true
	case key.Matches(keyMsg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.idx < len(menuItems)-1 {
			m.idx++
		}
	case key.Matches(keyMsg, keys.enter):
		return m.apply(menuItems[m.idx].action)
	case key.Matches(keyMsg, keys.point1):
		return m.apply(actionPoint1)
	case key.Matches(keyMsg, keys.point2):
		return m.apply(actionPoint2)
	case key.Matches(keyMsg, keys.save):
		return m.apply(actionSave)
	case key.Matches(keyMsg, keys.load):
		return m.apply(actionLoad)
	case key.Matches(keyMsg, keys.exit):
		return m.apply(actionExit)
	}

	return m, nil
}

func (m *MenuModel) apply(action menuAction) (tea.Model, tea.Cmd) {
	switch action {
	case actionPoint1, actionPoint2:
		player := 1
		if action == actionPoint2 {
			player = 2
		}
		state, err := m.board.Point(player)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = ""
		if winner := m.winner(state); winner != "" {
			return m.pick(session.Event{Kind: session.EventGameOver, Winner: winner})
		}
		return m, nil
	case actionSave:
		return m.pick(session.Event{Kind: session.EventSave})
	case actionLoad:
		return m.pick(session.Event{Kind: session.EventLoad})
	case actionExit:
		return m.pick(session.Event{Kind: session.EventExit})
	default:
		return m, nil
	}
}

func (m *MenuModel) winner(state models.GameState) string {
	if m.winningScore <= 0 {
		return ""
	}
	if state.Player1Score >= m.winningScore || state.Player2Score >= m.winningScore {
		return state.Leader()
	}
	return ""
}

func (m *MenuModel) pick(ev session.Event) (tea.Model, tea.Cmd) {
	m.event = ev
	m.picked = true
	return m, tea.Quit
}

// Event returns the session event chosen by the player and whether one was
// chosen at all.
func (m *MenuModel) Event() (session.Event, bool) {
	return m.event, m.picked
}

func (m *MenuModel) View() string {
	if m.showBuildInfo {
		return renderBuildInfoWindow(m.buildInfo)
	}

	var b strings.Builder
	state := m.board.State()
	b.WriteString(fmt.Sprintf("Score  %s  %s  %s\n\n", models.Player1, state, models.Player2))

	actionColWidth := 0
	for _, item := range menuItems {
		if w := lipgloss.Width(item.label); w > actionColWidth {
			actionColWidth = w
		}
	}

	for i, item := range menuItems {
		cursor := " "
		if i == m.idx {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %d │ %-*s\n", cursor, i+1, actionColWidth, item.label))
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}

	return renderPage("PONG", strings.TrimRight(b.String(), "\n"), "enter: choose │ ↑/↓: move │ 1/2: point │ s: save │ l: load │ x: exit │ v: version")
}
