package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pong-guard/models"
)

func TestScoreboard_Point(t *testing.T) {
	board := NewScoreboard(models.GameState{})

	state, err := board.Point(1)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Player1Score)

	state, err = board.Point(2)
	require.NoError(t, err)
	state, err = board.Point(2)
	require.NoError(t, err)
	assert.Equal(t, models.GameState{Player1Score: 1, Player2Score: 2}, state)

	_, err = board.Point(3)
	assert.Error(t, err)
	assert.Equal(t, state, board.State())
}

func TestScoreboard_WriteAndRestore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "saves", "savegame")

	board := NewScoreboard(models.GameState{Player1Score: 7, Player2Score: 4})
	require.NoError(t, board.WriteState(ctx, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	other := NewScoreboard(models.GameState{})
	require.NoError(t, other.RestoreState(ctx, path))
	assert.Equal(t, board.State(), other.State())
}

func TestScoreboard_RestoreErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	board := NewScoreboard(models.GameState{Player1Score: 1})

	assert.Error(t, board.RestoreState(ctx, filepath.Join(dir, "missing")))

	bad := filepath.Join(dir, "bad")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0o600))
	assert.Error(t, board.RestoreState(ctx, bad))

	assert.Equal(t, models.GameState{Player1Score: 1}, board.State())
}
