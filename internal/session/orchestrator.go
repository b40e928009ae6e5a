// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session drives a Pong session from role selection to exit.
//
// The host side asks for the password whenever key material is needed:
// to create the vault on first run, to check the artifact signature on
// later runs, and to save, load or sign the game. Every failed attempt
// re-prompts with an error line; there is no attempt limit. The peer side
// never touches key material and only waits for the host's outcome.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-pong-guard/internal/aead"
	"github.com/MKhiriev/go-pong-guard/internal/credential"
	"github.com/MKhiriev/go-pong-guard/internal/journal"
	"github.com/MKhiriev/go-pong-guard/internal/logger"
	"github.com/MKhiriev/go-pong-guard/internal/signer"
	"github.com/MKhiriev/go-pong-guard/internal/utils"
	"github.com/MKhiriev/go-pong-guard/models"
)

// Files are the paths the host session reads and writes.
type Files struct {
	Artifact           string
	Signature          string
	SaveState          string
	EncryptedSaveState string
}

// Config configures an [Orchestrator].
type Config struct {
	SignatureAlgorithm string
	Files              Files

	// SessionID is generated when empty.
	SessionID string
}

// Deps are the collaborators of an [Orchestrator]. Journal, Announcer and
// Watcher are optional; the host-side crypto collaborators are only
// required for the host role.
type Deps struct {
	Prompter  Prompter
	Deriver   credential.Deriver
	Vault     Vault
	Signer    signer.Service
	Cipher    aead.Service
	Game      Game
	Journal   journal.Journal
	Announcer Announcer
	Watcher   OutcomeWatcher
}

// Orchestrator is the session state machine. Its methods serialize on one
// mutex, so at most one password prompt is outstanding.
type Orchestrator struct {
	mu sync.Mutex

	cfg       Config
	deps      Deps
	sessionID string
	log       *logger.Logger

	state atomic.Int32
}

// New returns an Orchestrator in [ChoosingRole].
func New(cfg Config, deps Deps, log *logger.Logger) (*Orchestrator, error) {
	if deps.Prompter == nil {
		return nil, fmt.Errorf("%w: prompter", ErrMissingDependency)
	}
	if deps.Deriver == nil {
		deps.Deriver = credential.NewDeriver("")
	}
	if cfg.SignatureAlgorithm == "" {
		cfg.SignatureAlgorithm = signer.DefaultAlgorithm
	}
	if log == nil {
		log = logger.Nop()
	}

	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = utils.NewSessionID()
	}
	child := log.GetChildLogger()
	child.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("session_id", sessionID)
	})

	o := &Orchestrator{
		cfg:       cfg,
		deps:      deps,
		sessionID: sessionID,
		log:       child,
	}
	o.state.Store(int32(ChoosingRole))
	return o, nil
}

// State returns the current state. It does not wait for a running
// operation.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// SessionID returns the identifier used in logs, the journal and the
// announced outcome.
func (o *Orchestrator) SessionID() string {
	return o.sessionID
}

func (o *Orchestrator) setState(s State) {
	prev := State(o.state.Swap(int32(s)))
	if prev != s {
		o.log.Debug().Stringer("from", prev).Stringer("to", s).Msg("state changed")
	}
}

// ChooseRole leaves [ChoosingRole]. For the host it runs the startup flow:
// vault creation when the vault file is absent, signature verification
// when it is present. Both end in [SessionActive]. For the peer it moves to
// [Peer]; call [Orchestrator.RunPeer] next.
func (o *Orchestrator) ChooseRole(ctx context.Context, role Role) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.State() != ChoosingRole {
		return fmt.Errorf("%w: choose role in %s", ErrInvalidState, o.State())
	}
	ctx = o.log.WithContext(ctx)

	switch role {
	case RolePeer:
		o.setState(Peer)
		return nil
	case RoleHost:
		if err := o.requireHost(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownRole, int(role))
	}

	exists, err := o.deps.Vault.Exists()
	if err != nil {
		return err
	}
	if !exists {
		o.setState(HostFirstRun)
		return o.firstRun(ctx)
	}
	o.setState(HostReturning)
	return o.returning(ctx)
}

// Handle processes a host event in [SessionActive].
func (o *Orchestrator) Handle(ctx context.Context, ev Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.State() != SessionActive {
		return fmt.Errorf("%w: %s in %s", ErrInvalidState, ev.Kind, o.State())
	}
	ctx = o.log.WithContext(ctx)
	o.log.Info().Stringer("event", ev.Kind).Msg("handling event")

	switch ev.Kind {
	case EventSave:
		return o.save(ctx)
	case EventExit, EventWindowClose:
		return o.signAndExit(ctx, "", nil)
	case EventGameOver:
		return o.signAndExit(ctx, ev.Winner, nil)
	case EventLoad:
		return o.load(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEvent, ev.Kind)
	}
}

// RunPeer waits in [Peer] until the host announces the end of its
// session, shows the result and terminates.
func (o *Orchestrator) RunPeer(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.State() != Peer {
		return fmt.Errorf("%w: run peer in %s", ErrInvalidState, o.State())
	}
	if o.deps.Watcher == nil {
		return fmt.Errorf("%w: outcome watcher", ErrMissingDependency)
	}
	ctx = o.log.WithContext(ctx)

	outcome, err := o.deps.Watcher.WaitOutcome(ctx)
	if err != nil {
		return err
	}
	o.log.Info().Str("host_session_id", outcome.SessionID).Str("winner", outcome.Winner).Msg("host session finished")

	text := MsgThanksForPlaying
	if outcome.Winner != "" {
		text = outcome.Winner + MsgGameOverSuffix + "\n" + MsgThanksForPlaying
	}
	if err = o.deps.Prompter.DisplayMessage(ctx, text); err != nil {
		return err
	}

	o.setState(Terminated)
	return nil
}

func (o *Orchestrator) requireHost() error {
	missing := func(name string) error { return fmt.Errorf("%w: %s", ErrMissingDependency, name) }
	switch {
	case o.deps.Vault == nil:
		return missing("vault")
	case o.deps.Signer == nil:
		return missing("signer")
	case o.deps.Cipher == nil:
		return missing("cipher")
	case o.deps.Game == nil:
		return missing("game")
	}
	return nil
}

// abortError stops a retry loop without re-prompting.
type abortError struct {
	err error
}

func (a *abortError) Error() string { return a.err.Error() }
func (a *abortError) Unwrap() error { return a.err }

func abort(err error) error { return &abortError{err: err} }

// withCredential prompts until fn succeeds with a derived credential. An
// invalid password re-prompts with [MsgPasswordTooShort]; any other error
// from fn re-prompts with its user message. Only a prompter error, a done
// ctx or an abort from fn leave the loop. firstError, when set, is shown
// on the first prompt.
func (o *Orchestrator) withCredential(ctx context.Context, purpose Purpose, firstError string, fn func(credential.Credential) error) error {
	req := PromptRequest{Purpose: purpose, Error: firstError}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := o.deps.Prompter.PromptPassword(ctx, req)
		if err != nil {
			o.log.Info().Err(err).Int("purpose", int(purpose)).Msg("password prompt closed")
			return err
		}

		cred, err := o.deps.Deriver.Derive(raw)
		if err != nil {
			o.log.Debug().Int("attempt", attempt).Msg("password rejected")
			req.Error = MsgPasswordTooShort
			continue
		}

		err = fn(cred)
		cred.Wipe()
		if err == nil {
			return nil
		}

		var ab *abortError
		if errors.As(err, &ab) {
			return ab.err
		}

		o.log.Warn().Err(err).Int("attempt", attempt).Int("purpose", int(purpose)).Msg("attempt failed")
		req.Error = userMessage(err)
	}
}

// record appends a journal event. Journal failures never reach the player.
func (o *Orchestrator) record(ctx context.Context, kind models.EventKind, ok bool, detail string) {
	if o.deps.Journal == nil {
		return
	}
	event := models.SessionEvent{
		SessionID: o.sessionID,
		Kind:      kind,
		OK:        ok,
		Detail:    detail,
	}
	if err := o.deps.Journal.Record(ctx, event); err != nil {
		o.log.Warn().Err(err).Str("kind", string(kind)).Msg("journal record failed")
	}
}

func (o *Orchestrator) display(ctx context.Context, text string) error {
	return o.deps.Prompter.DisplayMessage(ctx, text)
}
