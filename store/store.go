package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/starweb/starweb/game"
)

const (
	stateFile  = "gamestate.json"
	backupFile = "gamestate.json.bak"
	bugsFile   = "bug_reports.jsonl"
)

// Store owns the data directory. All snapshot writes go through the rotate
// protocol: tmp, fsync, current becomes .bak, tmp becomes current, so a
// crash at any point leaves a loadable file behind.
type Store struct {
	dir string
	log zerolog.Logger
}

// NewStore makes sure the data directory exists.
func NewStore(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir, log: log}, nil
}

// Dir returns the data directory path.
func (s *Store) Dir() string { return s.dir }

// StatePath returns the canonical snapshot path.
func (s *Store) StatePath() string { return filepath.Join(s.dir, stateFile) }

// SaveState persists a snapshot atomically.
func (s *Store) SaveState(snap *game.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	data = append(data, '\n')

	tmp := s.StatePath() + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}

	if _, err := os.Stat(s.StatePath()); err == nil {
		if err := os.Rename(s.StatePath(), filepath.Join(s.dir, backupFile)); err != nil {
			return fmt.Errorf("rotate backup: %w", err)
		}
	}
	if err := os.Rename(tmp, s.StatePath()); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	s.log.Debug().Int("turn", snap.Turn).Int("bytes", len(data)).Msg("snapshot saved")
	return nil
}

// LoadState reads the current snapshot. A missing file is not an error; it
// means a fresh game.
func (s *Store) LoadState() (*game.Snapshot, error) {
	data, err := os.ReadFile(s.StatePath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Backup copies the current snapshot to a timestamped file and returns its
// path.
func (s *Store) Backup(now time.Time) (string, error) {
	dst := s.StatePath() + ".backup." + now.Format("20060102_150405")
	if err := copyFile(s.StatePath(), dst); err != nil {
		return "", fmt.Errorf("backup snapshot: %w", err)
	}
	s.log.Info().Str("path", dst).Msg("snapshot backed up")
	return dst, nil
}

// RestoreFrom replaces the current snapshot with the named backup after
// checking that it decodes and re-validates.
func (s *Store) RestoreFrom(path string, cfg SnapshotVerifier) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode backup: %w", err)
	}
	if cfg != nil {
		if err := cfg.VerifySnapshot(&snap); err != nil {
			return err
		}
	}
	return s.SaveState(&snap)
}

// SnapshotVerifier re-checks a snapshot before it replaces the live state.
type SnapshotVerifier interface {
	VerifySnapshot(*game.Snapshot) error
}

// BugReport is one line in the append-only report log.
type BugReport struct {
	Description string    `json:"description"`
	GameTurn    int       `json:"game_turn"`
	PlayerName  string    `json:"player_name"`
	Timestamp   time.Time `json:"timestamp"`
}

// AppendBugReport adds a report to the jsonl log.
func (s *Store) AppendBugReport(r BugReport) error {
	f, err := os.OpenFile(filepath.Join(s.dir, bugsFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open bug log: %w", err)
	}
	defer f.Close()
	line, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode bug report: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append bug report: %w", err)
	}
	return nil
}

// ListBugReports reads the whole report log. Malformed lines are skipped
// with a warning so one bad append cannot hide the rest.
func (s *Store) ListBugReports() ([]BugReport, error) {
	f, err := os.Open(filepath.Join(s.dir, bugsFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open bug log: %w", err)
	}
	defer f.Close()

	var out []BugReport
	dec := json.NewDecoder(f)
	for {
		var r BugReport
		if err := dec.Decode(&r); err == io.EOF {
			break
		} else if err != nil {
			s.log.Warn().Err(err).Msg("skipping malformed bug report line")
			break
		}
		out = append(out, r)
	}
	return out, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
