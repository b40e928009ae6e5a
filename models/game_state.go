package models

import (
	"encoding/json"
	"fmt"
)

// GameState is the save-state blob of a Pong match. It is what the host
// writes to disk and encrypts when a player saves the game.
type GameState struct {
	// Player1Score is the score of the left paddle.
	Player1Score int `json:"player1_score"`

	// Player2Score is the score of the right paddle.
	Player2Score int `json:"player2_score"`
}

// Leader returns the display name of the player who is ahead, or an empty
// string on a tie.
func (g GameState) Leader() string {
	switch {
	case g.Player1Score > g.Player2Score:
		return Player1
	case g.Player2Score > g.Player1Score:
		return Player2
	default:
		return ""
	}
}

// String renders the score the way the game shows it.
func (g GameState) String() string {
	return fmt.Sprintf("%d:%d", g.Player1Score, g.Player2Score)
}

// MarshalGameState encodes g as the save-state blob.
func MarshalGameState(g GameState) ([]byte, error) {
	return json.Marshal(g)
}

// UnmarshalGameState decodes a save-state blob.
func UnmarshalGameState(data []byte) (GameState, error) {
	var g GameState
	if err := json.Unmarshal(data, &g); err != nil {
		return GameState{}, fmt.Errorf("decode game state: %w", err)
	}
	if g.Player1Score < 0 || g.Player2Score < 0 {
		return GameState{}, fmt.Errorf("decode game state: negative score %s", g)
	}
	return g, nil
}
