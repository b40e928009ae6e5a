package app

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-pong-guard/internal/config"
	"github.com/MKhiriev/go-pong-guard/internal/logger"
	"github.com/MKhiriev/go-pong-guard/internal/session"
	"github.com/MKhiriev/go-pong-guard/internal/transport"
)

// Peer runs the joining side of a session. It never touches key material:
// it waits for the host's outcome and shows it.
type Peer struct {
	cfg *config.PeerConfig
	ui  session.Prompter
	log *logger.Logger
}

// NewPeer returns a Peer for cfg.
func NewPeer(cfg *config.PeerConfig, ui session.Prompter, log *logger.Logger) (*Peer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidOptions)
	}
	if ui == nil {
		return nil, fmt.Errorf("%w: nil ui", session.ErrMissingDependency)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Peer{cfg: cfg, ui: ui, log: log}, nil
}

// Run implements [App].
func (p *Peer) Run(ctx context.Context) error {
	client := transport.NewClient(transport.ClientConfig{
		BaseURL:      p.cfg.Transport.Address,
		HashKey:      p.cfg.Transport.HashKey,
		PollInterval: p.cfg.Transport.PollInterval,
		Timeout:      p.cfg.Transport.RequestTimeout,
	}, p.log)

	if err := client.Ping(ctx); err != nil {
		p.log.Info().Err(err).Str("address", p.cfg.Transport.Address).Msg("host not up yet, waiting")
	}

	o, err := session.New(session.Config{}, session.Deps{
		Prompter: p.ui,
		Watcher:  client,
	}, p.log)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	if err = o.ChooseRole(ctx, session.RolePeer); err != nil {
		return err
	}
	if err = o.RunPeer(ctx); err != nil {
		return fmt.Errorf("peer session: %w", err)
	}
	return nil
}
