package models

import "time"

// EventKind names a security-relevant step of a host session.
type EventKind string

const (
	EventVaultCreated EventKind = "vault_created"
	EventVerification EventKind = "verification"
	EventSaved        EventKind = "saved"
	EventLoaded       EventKind = "loaded"
	EventSigned       EventKind = "signed"
)

// SessionEvent is one row of the attestation journal.
type SessionEvent struct {
	// ID is assigned by the database.
	ID int64 `json:"id"`

	// SessionID is the UUID of the host session that recorded the event.
	SessionID string `json:"session_id"`

	Kind EventKind `json:"kind"`

	// Detail is a short human-readable note, never secret material.
	Detail string `json:"detail,omitempty"`

	// OK is the result of the step; for verifications it is whether the
	// signature was valid.
	OK bool `json:"ok"`

	CreatedAt time.Time `json:"created_at"`
}
