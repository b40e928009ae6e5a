// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Player display names used in game-over announcements.
const (
	Player1 = "Player 1"
	Player2 = "Player 2"
)

// Outcome is what the host publishes to the peer when a session ends.
type Outcome struct {
	// Finished is false until the host has terminated the session.
	Finished bool `json:"finished"`

	// Winner is the display name of the winning player. Empty when the
	// session ended without a winner (exit or window close).
	Winner string `json:"winner,omitempty"`

	// SessionID identifies the host session that produced the outcome.
	SessionID string `json:"session_id"`
}
