// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package journal keeps an append-only sqlite log of host session events.
// It is diagnostic only: the session never waits on it to decide anything.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-pong-guard/internal/logger"
	"github.com/MKhiriev/go-pong-guard/migrations"
	"github.com/MKhiriev/go-pong-guard/models"
)

const eventsTable = "session_events"

var eventColumns = []string{"id", "session_id", "kind", "detail", "ok", "created_at"}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// SQLiteJournal is the [Journal] backed by a sqlite database.
type SQLiteJournal struct {
	db     *sql.DB
	logger *logger.Logger
}

// Open connects to the sqlite file at dsn, creating it and its directory
// when needed, and applies the schema migrations.
func Open(ctx context.Context, dsn string, log *logger.Logger) (*SQLiteJournal, error) {
	if log == nil {
		log = logger.Nop()
	}
	if dsn == "" {
		return nil, fmt.Errorf("%w: empty dsn", ErrDatabase)
	}
	if dir := filepath.Dir(dsn); dir != "." && dsn != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create journal dir: %w", ErrDatabase, err)
		}
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Err(err).Str("func", "journal.Open").Msg("error opening journal database")
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	// sqlite serializes writers; one connection avoids SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	if err = conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		log.Err(err).Str("func", "journal.Open").Msg("error connecting journal database (ping)")
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	if err = migrations.Migrate(conn); err != nil {
		_ = conn.Close()
		log.Err(err).Str("func", "journal.Open").Msg("error migrating journal database")
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	log.Debug().Str("func", "journal.Open").Str("dsn", dsn).Msg("journal ready")
	return New(conn, log), nil
}

// New wraps an already migrated database.
func New(db *sql.DB, log *logger.Logger) *SQLiteJournal {
	if log == nil {
		log = logger.Nop()
	}
	return &SQLiteJournal{db: db, logger: log}
}

// Close closes the database.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// Record implements [Journal].
func (j *SQLiteJournal) Record(ctx context.Context, event models.SessionEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query, args, err := builder.Insert(eventsTable).
		Columns("session_id", "kind", "detail", "ok", "created_at").
		Values(event.SessionID, string(event.Kind), event.Detail, event.OK, event.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: build insert: %w", ErrDatabase, err)
	}

	if _, err = j.db.ExecContext(ctx, query, args...); err != nil {
		j.logger.Err(err).
			Str("func", "SQLiteJournal.Record").
			Str("session_id", event.SessionID).
			Str("kind", string(event.Kind)).
			Msg("failed to insert session event")
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return nil
}

// List implements [Journal].
func (j *SQLiteJournal) List(ctx context.Context, sessionID string) ([]models.SessionEvent, error) {
	query, args, err := builder.Select(eventColumns...).
		From(eventsTable).
		Where(sq.Eq{"session_id": sessionID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build select: %w", ErrDatabase, err)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		j.logger.Err(err).Str("func", "SQLiteJournal.List").Str("session_id", sessionID).Msg("failed to query session events")
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	defer rows.Close()

	var events []models.SessionEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return events, nil
}

// LastVerification implements [Journal].
func (j *SQLiteJournal) LastVerification(ctx context.Context) (models.SessionEvent, error) {
	query, args, err := builder.Select(eventColumns...).
		From(eventsTable).
		Where(sq.Eq{"kind": string(models.EventVerification)}).
		OrderBy("id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return models.SessionEvent{}, fmt.Errorf("%w: build select: %w", ErrDatabase, err)
	}

	event, err := scanEvent(j.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.SessionEvent{}, ErrNoEvents
	}
	return event, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (models.SessionEvent, error) {
	var (
		event models.SessionEvent
		kind  string
	)
	err := row.Scan(&event.ID, &event.SessionID, &kind, &event.Detail, &event.OK, &event.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SessionEvent{}, err
	}
	if err != nil {
		return models.SessionEvent{}, fmt.Errorf("%w: scan event: %w", ErrDatabase, err)
	}
	event.Kind = models.EventKind(kind)
	return event, nil
}
