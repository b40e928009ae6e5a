package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pong-guard/internal/session"
	"github.com/MKhiriev/go-pong-guard/models"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(t *testing.T, cmd tea.Cmd) bool {
	t.Helper()
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

// ── password ─────────────────────────────────────────────────────────────────

func TestPasswordModel_TypeAndConfirm(t *testing.T) {
	var model tea.Model = newPasswordModel(session.PromptRequest{Purpose: session.PurposeSaveGame})

	for _, r := range "abcdef1" {
		model, _ = model.Update(runes(string(r)))
	}
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, isQuit(t, cmd))
	m := model.(passwordModel)
	assert.False(t, m.canceled)
	assert.Equal(t, "abcdef1", m.value())
	assert.NotContains(t, m.View(), "abcdef1")
}

func TestPasswordModel_Cancel(t *testing.T) {
	var model tea.Model = newPasswordModel(session.PromptRequest{Purpose: session.PurposeLoadGame})

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.True(t, isQuit(t, cmd))
	assert.True(t, model.(passwordModel).canceled)
}

func TestPasswordModel_ViewShowsPurposeAndError(t *testing.T) {
	m := newPasswordModel(session.PromptRequest{
		Purpose: session.PurposeCreateVault,
		Error:   session.MsgPasswordTooShort,
	})

	view := m.View()
	assert.Contains(t, view, session.PurposeCreateVault.Title())
	assert.Contains(t, view, session.MsgPasswordTooShort)
}

// ── role ─────────────────────────────────────────────────────────────────────

func TestRoleModel(t *testing.T) {
	var model tea.Model = roleModel{}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, isQuit(t, cmd))
	m := model.(roleModel)
	assert.True(t, m.chosen)
	assert.Equal(t, session.RolePeer, m.role())

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, session.RoleHost, model.(roleModel).role())
}

// ── menu ─────────────────────────────────────────────────────────────────────

func TestMenuModel_PointsUntilGameOver(t *testing.T) {
	board := session.NewScoreboard(models.GameState{})
	m := NewMenuModel(board, 3, models.AppBuildInfo{}, "")

	for i := 0; i < 2; i++ {
		_, cmd := m.Update(runes("2"))
		assert.Nil(t, cmd)
	}
	_, cmd := m.Update(runes("1"))
	assert.Nil(t, cmd)
	_, picked := m.Event()
	require.False(t, picked)

	_, cmd = m.Update(runes("2"))
	assert.True(t, isQuit(t, cmd))

	ev, picked := m.Event()
	require.True(t, picked)
	assert.Equal(t, session.Event{Kind: session.EventGameOver, Winner: models.Player2}, ev)
	assert.Equal(t, models.GameState{Player1Score: 1, Player2Score: 3}, board.State())
}

func TestMenuModel_Shortcuts(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want session.EventKind
	}{
		{name: "save", msg: runes("s"), want: session.EventSave},
		{name: "load", msg: runes("l"), want: session.EventLoad},
		{name: "exit", msg: runes("x"), want: session.EventExit},
		{name: "window close", msg: tea.KeyMsg{Type: tea.KeyCtrlC}, want: session.EventWindowClose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMenuModel(session.NewScoreboard(models.GameState{}), 11, models.AppBuildInfo{}, "")
			_, cmd := m.Update(tt.msg)
			assert.True(t, isQuit(t, cmd))

			ev, picked := m.Event()
			require.True(t, picked)
			assert.Equal(t, tt.want, ev.Kind)
		})
	}
}

func TestMenuModel_EnterOnSelectedItem(t *testing.T) {
	m := NewMenuModel(session.NewScoreboard(models.GameState{}), 11, models.AppBuildInfo{}, "")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, isQuit(t, cmd))
	ev, _ := m.Event()
	assert.Equal(t, session.EventSave, ev.Kind)
}

func TestMenuModel_BuildInfo(t *testing.T) {
	info := models.NewAppBuildInfo("v1.2.3", "2026-10-19", "abc123")
	m := NewMenuModel(session.NewScoreboard(models.GameState{}), 11, info, "Cancelled.")

	assert.Contains(t, m.View(), "Cancelled.")
	assert.Contains(t, m.View(), "0:0")

	m.Update(runes("v"))
	view := m.View()
	assert.Contains(t, view, "v1.2.3")
	assert.Contains(t, view, "abc123")

	_, cmd := m.Update(runes("s"))
	assert.Nil(t, cmd, "keys are ignored while the build info is open")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotContains(t, m.View(), "v1.2.3")
}

// ── programs ─────────────────────────────────────────────────────────────────

func TestTUI_PromptPasswordProgram(t *testing.T) {
	ui := New(Options{
		Input:  strings.NewReader("abcdef1\r"),
		Output: &bytes.Buffer{},
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := ui.PromptPassword(ctx, session.PromptRequest{Purpose: session.PurposeVerifySignature})
	require.NoError(t, err)
	assert.Equal(t, "abcdef1", got)
}

// ── line prompter ────────────────────────────────────────────────────────────

func TestLinePrompter(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("abc\nabcdef1\r\n"), &out)
	ctx := context.Background()

	got, err := p.PromptPassword(ctx, session.PromptRequest{Purpose: session.PurposeCreateVault})
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	got, err = p.PromptPassword(ctx, session.PromptRequest{Purpose: session.PurposeCreateVault, Error: session.MsgPasswordTooShort})
	require.NoError(t, err)
	assert.Equal(t, "abcdef1", got)

	require.NoError(t, p.DisplayMessage(ctx, session.MsgVaultCreated))

	text := out.String()
	assert.Contains(t, text, session.PurposeCreateVault.Title())
	assert.Contains(t, text, session.MsgPasswordTooShort)
	assert.Contains(t, text, session.MsgVaultCreated)

	_, err = p.PromptPassword(ctx, session.PromptRequest{})
	assert.ErrorIs(t, err, ErrUserQuit)
}

func TestLinePrompter_LastLineWithoutNewline(t *testing.T) {
	p := NewLinePrompter(strings.NewReader("abcdef1"), &bytes.Buffer{})

	got, err := p.PromptPassword(context.Background(), session.PromptRequest{})
	require.NoError(t, err)
	assert.Equal(t, "abcdef1", got)
}

func TestLinePrompter_CanceledContext(t *testing.T) {
	p := NewLinePrompter(strings.NewReader("abcdef1\n"), &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.PromptPassword(ctx, session.PromptRequest{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, p.DisplayMessage(ctx, "x"), context.Canceled)
}

func TestHumanizeError(t *testing.T) {
	assert.Equal(t, "", humanizeError(nil))
	assert.Equal(t, "Cancelled.", humanizeError(ErrUserQuit))
	assert.Equal(t, "The host is not reachable", humanizeError(errors.New("dial tcp 127.0.0.1:55555: connect: connection refused")))
	assert.Equal(t, "boom", humanizeError(errors.New("boom")))
}
