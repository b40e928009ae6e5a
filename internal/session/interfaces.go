package session

//go:generate mockgen -source=interfaces.go -destination=../mock/session_mock.go -package=mock

import (
	"context"
	"crypto"

	"github.com/MKhiriev/go-pong-guard/internal/credential"
	"github.com/MKhiriev/go-pong-guard/models"
)

// Prompter is the player-facing side of the session. Exactly one prompt is
// outstanding at a time.
type Prompter interface {
	// PromptPassword asks for a password. An error (for example a closed
	// terminal) ends the retry loop that asked.
	PromptPassword(ctx context.Context, req PromptRequest) (string, error)

	// DisplayMessage shows a one-line notice.
	DisplayMessage(ctx context.Context, text string) error
}

// Vault is the key vault as seen by the session.
type Vault interface {
	Exists() (bool, error)
	CreateAndStore(ctx context.Context, cred credential.Credential) error
	Open(ctx context.Context, cred credential.Credential) (Keys, error)
}

// Keys is an unlocked vault.
type Keys interface {
	PrivateKey(ctx context.Context) (crypto.Signer, error)
	PublicKey(ctx context.Context) (crypto.PublicKey, error)
	SecretKey(ctx context.Context) ([]byte, error)
	Close()
}

// Game gives the session access to the save-state blob.
type Game interface {
	// WriteState writes the current save-state blob to path.
	WriteState(ctx context.Context, path string) error

	// RestoreState replaces the game state with the blob at path.
	RestoreState(ctx context.Context, path string) error
}

// Announcer publishes the outcome of a finished host session to the peer.
type Announcer interface {
	Announce(ctx context.Context, outcome models.Outcome) error
}

// OutcomeWatcher blocks until the host announces the end of its session.
type OutcomeWatcher interface {
	WaitOutcome(ctx context.Context) (models.Outcome, error)
}
