package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/MKhiriev/go-pong-guard/models"
)

// Scoreboard is the [Game] the host binary uses: it keeps the two scores
// and writes them as a JSON save-state blob.
type Scoreboard struct {
	mu    sync.Mutex
	state models.GameState
}

// NewScoreboard returns a Scoreboard starting at state.
func NewScoreboard(state models.GameState) *Scoreboard {
	return &Scoreboard{state: state}
}

// Point adds one point to player 1 or 2 and returns the new state.
func (s *Scoreboard) Point(player int) (models.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch player {
	case 1:
		s.state.Player1Score++
	case 2:
		s.state.Player2Score++
	default:
		return s.state, fmt.Errorf("no player %d", player)
	}
	return s.state, nil
}

// State returns the current scores.
func (s *Scoreboard) State() models.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// WriteState implements [Game].
func (s *Scoreboard) WriteState(_ context.Context, path string) error {
	data, err := models.MarshalGameState(s.State())
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o600)
}

// RestoreState implements [Game].
func (s *Scoreboard) RestoreState(_ context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	state, err := models.UnmarshalGameState(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return nil
}
