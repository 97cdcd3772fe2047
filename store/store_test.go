package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starweb/starweb/game"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return s
}

func sampleSnapshot(turn int) *game.Snapshot {
	return &game.Snapshot{
		Turn:        turn,
		TargetScore: 8000,
		Seed:        42,
		Worlds: []*game.World{
			{ID: 1, Population: 5, Limit: 20, Connections: []int{2}},
			{ID: 2, Limit: 20, Connections: []int{1}},
		},
		Fleets: []*game.Fleet{{ID: 1, World: 1}},
	}
}

func TestSaveAndLoadState(t *testing.T) {
	s := newTestStore(t)

	snap, err := s.LoadState()
	require.NoError(t, err)
	assert.Nil(t, snap, "a missing snapshot means a fresh game")

	require.NoError(t, s.SaveState(sampleSnapshot(3)))
	snap, err = s.LoadState()
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 3, snap.Turn)
	assert.Len(t, snap.Worlds, 2)
}

func TestSaveStateRotatesBackup(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveState(sampleSnapshot(1)))
	require.NoError(t, s.SaveState(sampleSnapshot(2)))

	current, err := s.LoadState()
	require.NoError(t, err)
	assert.Equal(t, 2, current.Turn)

	data, err := os.ReadFile(filepath.Join(s.Dir(), backupFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"turn": 1`, "the previous snapshot survives as .bak")

	_, err = os.Stat(s.StatePath() + ".tmp")
	assert.True(t, errors.Is(err, os.ErrNotExist), "no tmp file is left behind")
}

func TestBackupAndRestore(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveState(sampleSnapshot(5)))

	path, err := s.Backup(time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, path, "gamestate.json.backup.20260824_120000")

	require.NoError(t, s.SaveState(sampleSnapshot(9)))
	require.NoError(t, s.RestoreFrom(path, nil))

	snap, err := s.LoadState()
	require.NoError(t, err)
	assert.Equal(t, 5, snap.Turn)
}

type rejectingVerifier struct{}

func (rejectingVerifier) VerifySnapshot(*game.Snapshot) error {
	return errors.New("snapshot failed verification")
}

func TestRestoreRunsVerifier(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveState(sampleSnapshot(5)))
	path, err := s.Backup(time.Now())
	require.NoError(t, err)

	require.NoError(t, s.SaveState(sampleSnapshot(9)))
	require.Error(t, s.RestoreFrom(path, rejectingVerifier{}))

	snap, err := s.LoadState()
	require.NoError(t, err)
	assert.Equal(t, 9, snap.Turn, "a rejected restore leaves the state alone")
}

func TestBugReportLog(t *testing.T) {
	s := newTestStore(t)

	reports, err := s.ListBugReports()
	require.NoError(t, err)
	assert.Empty(t, reports)

	first := BugReport{Description: "fleet vanished", GameTurn: 4, PlayerName: "alice",
		Timestamp: time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)}
	second := BugReport{Description: "score looks off", GameTurn: 5, PlayerName: "bob",
		Timestamp: time.Date(2026, 8, 24, 11, 0, 0, 0, time.UTC)}
	require.NoError(t, s.AppendBugReport(first))
	require.NoError(t, s.AppendBugReport(second))

	reports, err = s.ListBugReports()
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "fleet vanished", reports[0].Description)
	assert.Equal(t, "bob", reports[1].PlayerName)
}

func TestLoadAccountsAndSessions(t *testing.T) {
	s := newTestStore(t)

	accounts, err := s.LoadAccounts()
	require.NoError(t, err)
	assert.Empty(t, accounts, "no accounts file means open play")

	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "accounts.json"),
		[]byte(`[{"name":"Alice","email":"alice@example.com"}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "sessions.json"),
		[]byte(`[{"token":"tok-1","player":"Alice"}]`), 0o644))

	accounts, err = s.LoadAccounts()
	require.NoError(t, err)
	require.Contains(t, accounts, "Alice")
	assert.Equal(t, "alice@example.com", accounts["Alice"].Email)

	sessions, err := s.LoadSessions()
	require.NoError(t, err)
	require.Contains(t, sessions, "tok-1")
	assert.Equal(t, "Alice", sessions["tok-1"].Player)
}

func TestSaverFlushesOnClose(t *testing.T) {
	s := newTestStore(t)
	saver := NewSaver(s, zerolog.Nop())

	saver.Enqueue(sampleSnapshot(1))
	saver.Enqueue(sampleSnapshot(2))
	saver.Enqueue(sampleSnapshot(3))
	saver.Close()

	snap, err := s.LoadState()
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 3, snap.Turn, "the newest snapshot wins")
}
