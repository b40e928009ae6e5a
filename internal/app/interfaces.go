package app

import (
	"context"

	"github.com/MKhiriev/go-pong-guard/internal/session"
	"github.com/MKhiriev/go-pong-guard/internal/tui"
)

// App is a runnable session.
type App interface {
	// Run blocks until the session ends or ctx is done.
	Run(ctx context.Context) error
}

// HostUI is what the host session needs from the terminal.
type HostUI interface {
	session.Prompter
	RunHost(ctx context.Context, h tui.EventHandler, board *session.Scoreboard) error
}

// UI is the full terminal front end, including the role screen.
type UI interface {
	HostUI
	ChooseRole(ctx context.Context) (session.Role, error)
}
