package server

import (
	"time"

	"github.com/starweb/starweb/config"
	"github.com/starweb/starweb/game"
)

// Scheduler decides when the next turn fires: at the deadline, or as soon
// as every connected player has said TURN. The deadline is the mean of the
// joined players' preferences, clamped to the configured bounds.
type Scheduler struct {
	cfg      config.GameConfig
	deadline time.Time
	duration time.Duration
}

func NewScheduler(cfg config.GameConfig) *Scheduler {
	s := &Scheduler{cfg: cfg}
	s.duration = time.Duration(cfg.DefaultTurnDuration) * time.Second
	return s
}

// Reset recomputes the turn duration from player preferences and restarts
// the clock. Called after each turn and whenever the roster changes.
func (s *Scheduler) Reset(now time.Time, gs *game.GameState) {
	total, n := 0, 0
	for _, key := range gs.PlayerKeys() {
		p := gs.Players[key]
		if p.TurnPreferenceMinutes <= 0 {
			continue
		}
		total += p.TurnPreferenceMinutes * 60
		n++
	}

	seconds := s.cfg.DefaultTurnDuration
	if n > 0 {
		seconds = total / n
	}
	if seconds < s.cfg.MinTurnDuration {
		seconds = s.cfg.MinTurnDuration
	}
	if seconds > s.cfg.MaxTurnDuration {
		seconds = s.cfg.MaxTurnDuration
	}

	s.duration = time.Duration(seconds) * time.Second
	s.deadline = now.Add(s.duration)
}

// Remaining is the whole seconds left on the clock, never negative.
func (s *Scheduler) Remaining(now time.Time) int {
	if s.deadline.IsZero() {
		return int(s.duration / time.Second)
	}
	left := int(s.deadline.Sub(now) / time.Second)
	if left < 0 {
		return 0
	}
	return left
}

// Due reports whether the deadline has passed. A game with no players never
// fires.
func (s *Scheduler) Due(now time.Time, gs *game.GameState) bool {
	if len(gs.Players) == 0 || s.deadline.IsZero() {
		return false
	}
	return !now.Before(s.deadline)
}

// AllReady reports whether every connected player has marked ready. A
// disconnected player does not hold the turn hostage; a game with nobody
// connected is never ready.
func AllReady(gs *game.GameState) bool {
	connected := 0
	for _, key := range gs.PlayerKeys() {
		p := gs.Players[key]
		if !p.Connected {
			continue
		}
		connected++
		if !p.Ready {
			return false
		}
	}
	return connected > 0
}

// ReadyCount counts connected players who have marked ready.
func ReadyCount(gs *game.GameState) int {
	n := 0
	for _, key := range gs.PlayerKeys() {
		if p := gs.Players[key]; p.Connected && p.Ready {
			n++
		}
	}
	return n
}
