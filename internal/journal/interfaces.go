package journal

//go:generate mockgen -source=interfaces.go -destination=../mock/journal_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-pong-guard/models"
)

// Journal records the security-relevant steps of host sessions: vault
// creation, attestation checks, saves, loads and signatures.
type Journal interface {
	// Record appends event. A zero CreatedAt is set to the current time.
	Record(ctx context.Context, event models.SessionEvent) error

	// List returns the events of one session in the order they were
	// recorded.
	List(ctx context.Context, sessionID string) ([]models.SessionEvent, error)

	// LastVerification returns the most recent attestation check of any
	// session, or ErrNoEvents.
	LastVerification(ctx context.Context) (models.SessionEvent, error)
}
