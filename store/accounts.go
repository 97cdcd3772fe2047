package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Account and Session files are written by an external account service; the
// engine only reads them to resolve identity. Missing files mean open play.

type Account struct {
	Name    string    `json:"name"`
	Email   string    `json:"email,omitempty"`
	Created time.Time `json:"created,omitempty"`
}

type Session struct {
	Token   string    `json:"token"`
	Player  string    `json:"player"`
	Expires time.Time `json:"expires,omitempty"`
}

// LoadAccounts reads accounts.json, keyed by account name.
func (s *Store) LoadAccounts() (map[string]Account, error) {
	var list []Account
	if err := s.readJSON("accounts.json", &list); err != nil {
		return nil, err
	}
	out := make(map[string]Account, len(list))
	for _, a := range list {
		out[a.Name] = a
	}
	return out, nil
}

// LoadSessions reads sessions.json, keyed by token.
func (s *Store) LoadSessions() (map[string]Session, error) {
	var list []Session
	if err := s.readJSON("sessions.json", &list); err != nil {
		return nil, err
	}
	out := make(map[string]Session, len(list))
	for _, sess := range list {
		out[sess.Token] = sess
	}
	return out, nil
}

func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
