// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui is the terminal front end of Pong. [TUI] runs one Bubble Tea
// program per screen: the role choice, each password prompt, each notice
// and the host menu. [LinePrompter] is the plain line-based fallback for
// terminals that cannot run a full-screen program.
package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-pong-guard/internal/logger"
	"github.com/MKhiriev/go-pong-guard/internal/session"
	"github.com/MKhiriev/go-pong-guard/models"
)

// Options configure [TUI]. Nil Input and Output select the terminal.
type Options struct {
	Input        io.Reader
	Output       io.Writer
	AltScreen    bool
	WinningScore int
	BuildInfo    models.AppBuildInfo
}

// TUI implements [session.Prompter] with Bubble Tea screens.
type TUI struct {
	opts Options
	log  *logger.Logger
}

// New returns a TUI.
func New(opts Options, log *logger.Logger) *TUI {
	if log == nil {
		log = logger.Nop()
	}
	return &TUI{opts: opts, log: log}
}

func (t *TUI) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if t.opts.Input != nil {
		opts = append(opts, tea.WithInput(t.opts.Input))
	}
	if t.opts.Output != nil {
		opts = append(opts, tea.WithOutput(t.opts.Output))
	}
	if t.opts.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return final, nil
}

// ChooseRole asks whether to host or join.
func (t *TUI) ChooseRole(ctx context.Context) (session.Role, error) {
	final, err := t.run(ctx, roleModel{})
	if err != nil {
		return 0, err
	}
	m, ok := final.(roleModel)
	if !ok {
		return 0, tea.ErrProgramKilled
	}
	if m.canceled || !m.chosen {
		return 0, ErrUserQuit
	}
	return m.role(), nil
}

// PromptPassword implements [session.Prompter].
func (t *TUI) PromptPassword(ctx context.Context, req session.PromptRequest) (string, error) {
	final, err := t.run(ctx, newPasswordModel(req))
	if err != nil {
		return "", err
	}
	m, ok := final.(passwordModel)
	if !ok {
		return "", tea.ErrProgramKilled
	}
	if m.canceled {
		return "", ErrUserQuit
	}
	return m.value(), nil
}

// DisplayMessage implements [session.Prompter].
func (t *TUI) DisplayMessage(ctx context.Context, text string) error {
	t.log.Debug().Str("text", text).Msg("showing notice")
	_, err := t.run(ctx, noticeModel{text: text})
	return err
}

// EventHandler is the part of the session the host menu drives.
type EventHandler interface {
	Handle(ctx context.Context, ev session.Event) error
	State() session.State
}

// RunHost shows the host menu until the session terminates. An event the
// session could not complete, such as a cancelled password prompt, returns
// to the menu with a status line.
func (t *TUI) RunHost(ctx context.Context, h EventHandler, board *session.Scoreboard) error {
	status := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		final, err := t.run(ctx, NewMenuModel(board, t.opts.WinningScore, t.opts.BuildInfo, status))
		if err != nil {
			return err
		}
		menu, ok := final.(*MenuModel)
		if !ok {
			return tea.ErrProgramKilled
		}
		ev, picked := menu.Event()
		if !picked {
			continue
		}

		err = h.Handle(ctx, ev)
		if h.State() == session.Terminated {
			return nil
		}

		status = ""
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if !errors.Is(err, ErrUserQuit) {
				t.log.Warn().Err(err).Stringer("event", ev.Kind).Msg("event not completed")
			}
			status = humanizeError(err)
		}
	}
}
