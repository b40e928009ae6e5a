// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package transport carries the end-of-session outcome from the host to the
// peer. The host serves it over HTTP; the peer polls until the host reports
// that the session has finished.
//
// Responses on the outcome route carry a HashSHA256 header holding the
// hex HMAC-SHA256 of the body under a shared key, so a peer can reject an
// outcome it did not get from its host.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-pong-guard/internal/logger"
	"github.com/MKhiriev/go-pong-guard/internal/utils"
	"github.com/MKhiriev/go-pong-guard/models"
)

const (
	// HashHeader names the response header holding the body HMAC.
	HashHeader = "HashSHA256"

	pingRoute    = "/api/ping"
	outcomeRoute = "/api/session/outcome"

	shutdownTimeout = 5 * time.Second
)

// ServerConfig configures [Server].
type ServerConfig struct {
	Address string
	HashKey string
}

// Server publishes the outcome of the current host session.
type Server struct {
	addr   string
	hasher *utils.Hasher
	logger *logger.Logger

	mu      sync.RWMutex
	outcome models.Outcome

	httpServer *http.Server
}

// NewServer returns a Server for sessionID that reports an unfinished
// session until [Server.Announce] is called.
func NewServer(cfg ServerConfig, sessionID string, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		addr:    cfg.Address,
		hasher:  utils.NewHasher(cfg.HashKey),
		logger:  log,
		outcome: models.Outcome{SessionID: sessionID},
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.Init(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Init builds the router.
func (s *Server) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.withTraceID, s.withLogging)

	router.Get(pingRoute, s.ping)
	router.Get(outcomeRoute, s.getOutcome)

	return router
}

// Announce records the final outcome. It implements the session's
// announcer role.
func (s *Server) Announce(ctx context.Context, outcome models.Outcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if outcome.SessionID == "" {
		outcome.SessionID = s.outcome.SessionID
	}
	s.outcome = outcome

	s.logger.Info().
		Bool("finished", outcome.Finished).
		Str("winner", outcome.Winner).
		Str("session_id", outcome.SessionID).
		Msg("outcome announced")
	return nil
}

// Outcome returns the currently published outcome.
func (s *Server) Outcome() models.Outcome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.outcome
}

// Run serves until ctx is done, then shuts down gracefully. It implements
// workers.Worker.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("%w: listen on %s: %w", ErrUnavailable, s.addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", listener.Addr().String()).Msg("launching outcome server")
		errCh <- s.httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Err(err).Msg("outcome server shutdown")
		return err
	}
	s.logger.Info().Msg("outcome server shut down gracefully")
	return nil
}

func (s *Server) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) getOutcome(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	body, err := json.Marshal(s.Outcome())
	if err != nil {
		log.Err(err).Str("func", "*Server.getOutcome").Msg("failed to marshal outcome")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(HashHeader, s.hasher.HexSum(body))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
