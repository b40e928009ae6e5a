package app

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-pong-guard/internal/config"
	"github.com/MKhiriev/go-pong-guard/internal/logger"
	"github.com/MKhiriev/go-pong-guard/internal/session"
)

// Launcher shows the role screen and runs the chosen side.
type Launcher struct {
	cfg *config.StructuredConfig
	ui  UI
	log *logger.Logger
}

// NewLauncher returns a Launcher for cfg.
func NewLauncher(cfg *config.StructuredConfig, ui UI, log *logger.Logger) (*Launcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidOptions)
	}
	if ui == nil {
		return nil, fmt.Errorf("%w: nil ui", session.ErrMissingDependency)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Launcher{cfg: cfg, ui: ui, log: log}, nil
}

// Run implements [App].
func (l *Launcher) Run(ctx context.Context) error {
	role, err := l.ui.ChooseRole(ctx)
	if err != nil {
		return err
	}
	l.log.Info().Stringer("role", role).Msg("role chosen")

	var next App
	switch role {
	case session.RoleHost:
		next, err = NewHost(l.cfg, l.ui, l.log)
	case session.RolePeer:
		next, err = NewPeer(&config.PeerConfig{Transport: l.cfg.Transport, Log: l.cfg.Log}, l.ui, l.log)
	default:
		return fmt.Errorf("%w: %s", session.ErrUnknownRole, role)
	}
	if err != nil {
		return err
	}
	return next.Run(ctx)
}
