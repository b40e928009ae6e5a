package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-pong-guard/internal/config"
	"github.com/MKhiriev/go-pong-guard/internal/logger"
	"github.com/MKhiriev/go-pong-guard/internal/session"
	"github.com/MKhiriev/go-pong-guard/internal/signer"
	"github.com/MKhiriev/go-pong-guard/internal/transport"
	"github.com/MKhiriev/go-pong-guard/internal/tui"
	"github.com/MKhiriev/go-pong-guard/internal/utils"
	"github.com/MKhiriev/go-pong-guard/internal/workers"
	"github.com/MKhiriev/go-pong-guard/models"
)

// lingerPolls is how many peer poll intervals the outcome server keeps
// running after the host session ends.
const lingerPolls = 3

// Host runs the host side of one session: the startup check, the menu and
// the outcome server the peer polls.
type Host struct {
	cfg *config.StructuredConfig
	ui  HostUI
	log *logger.Logger
}

// NewHost returns a Host for cfg.
func NewHost(cfg *config.StructuredConfig, ui HostUI, log *logger.Logger) (*Host, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidOptions)
	}
	if ui == nil {
		return nil, fmt.Errorf("%w: nil ui", session.ErrMissingDependency)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Host{cfg: cfg, ui: ui, log: log}, nil
}

// Run implements [App].
func (h *Host) Run(ctx context.Context) error {
	v, err := newVault(h.cfg, h.log)
	if err != nil {
		return err
	}

	sessionID := utils.NewSessionID()
	board := session.NewScoreboard(models.GameState{})

	server := transport.NewServer(transport.ServerConfig{
		Address: h.cfg.Transport.Address,
		HashKey: h.cfg.Transport.HashKey,
	}, sessionID, h.log)

	deps := session.Deps{
		Prompter:  h.ui,
		Deriver:   newDeriver(h.cfg),
		Vault:     session.FromVault(v),
		Signer:    signer.New(h.log),
		Cipher:    newCipher(h.cfg, h.log),
		Game:      board,
		Announcer: server,
	}
	if j := openJournal(ctx, h.cfg, h.log); j != nil {
		defer func() {
			if err := j.Close(); err != nil {
				h.log.Warn().Err(err).Msg("journal close")
			}
		}()
		deps.Journal = j
	}

	orchestrator, err := session.New(session.Config{
		SignatureAlgorithm: h.cfg.Crypto.SignatureAlgorithm,
		Files:              sessionFiles(h.cfg),
		SessionID:          sessionID,
	}, deps, h.log)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	bgCtx, stop := context.WithCancel(context.Background())
	defer stop()
	bgDone := make(chan error, 1)
	go func() {
		bgDone <- workers.New(server).Run(bgCtx)
	}()

	err = h.run(ctx, orchestrator, board)

	if err == nil {
		h.linger(ctx, bgDone)
	}
	stop()
	if bgErr := <-bgDone; bgErr != nil {
		h.log.Warn().Err(bgErr).Msg("outcome server stopped with error")
	}
	return err
}

func (h *Host) run(ctx context.Context, o *session.Orchestrator, board *session.Scoreboard) error {
	if err := o.ChooseRole(ctx, session.RoleHost); err != nil {
		return fmt.Errorf("host startup: %w", err)
	}
	if err := h.ui.RunHost(ctx, o, board); err != nil {
		return fmt.Errorf("host session: %w", err)
	}
	h.log.Info().Str("session_id", o.SessionID()).Msg("host session finished")
	return nil
}

// linger keeps the outcome server up long enough for a polling peer to
// see the final outcome.
func (h *Host) linger(ctx context.Context, bgDone chan error) {
	wait := lingerPolls * h.cfg.Transport.PollInterval
	if wait <= 0 {
		return
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	case err := <-bgDone:
		// the server is gone already; hand the result back to Run
		bgDone <- err
	}
}

// IsUserQuit reports whether err means the player left the session.
func IsUserQuit(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, tui.ErrUserQuit)
}
