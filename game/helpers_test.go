package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starweb/starweb/config"
)

// testConfig returns the default tuning shrunk to a size handcrafted test
// states can satisfy.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Game.NumFleets = 6
	return cfg
}

// newTestState builds a bare state with the given number of worlds and the
// configured number of fleet keys, all parked at world 1.
func newTestState(t *testing.T, cfg *config.Config, worlds int) *GameState {
	t.Helper()
	gs := NewGameState(cfg, 1)
	for id := 1; id <= worlds; id++ {
		gs.Worlds[id] = &World{ID: id, Limit: 100}
	}
	for id := 1; id <= cfg.Game.NumFleets; id++ {
		gs.Fleets[id] = &Fleet{ID: id, World: 1}
	}
	return gs
}

func link(gs *GameState, a, b int) {
	gs.Worlds[a].Connections = append(gs.Worlds[a].Connections, b)
	gs.Worlds[b].Connections = append(gs.Worlds[b].Connections, a)
}

// addTestPlayer registers a player without the homeworld allocation AddPlayer
// performs, so tests control the board exactly.
func addTestPlayer(gs *GameState, name string, char CharacterType) *Player {
	p := &Player{
		Name:                  name,
		Character:             char,
		Connected:             true,
		TurnPreferenceMinutes: 60,
		KnownWorlds:           make(map[int]WorldMemory),
		Relations:             make(map[string]Relation),
		PlunderCounts:         make(map[int]int),
		ConsumerDeliveries:    make(map[int]int),
	}
	gs.Players[strings.ToLower(name)] = p
	return p
}

// queue parses, validates and queues a command for the player, failing the
// test on any rejection.
func queue(t *testing.T, gs *GameState, p *Player, text string) {
	t.Helper()
	o, err := Parse(text)
	require.NoError(t, err, "parse %q", text)
	require.NoError(t, gs.Validate(p, o), "validate %q", text)
	require.NoError(t, p.QueueOrder(o), "queue %q", text)
}

// runTurn processes one turn and fails the test if it rolled back.
func runTurn(t *testing.T, gs *GameState) *TurnResult {
	t.Helper()
	result := gs.ProcessTurn()
	require.NoError(t, result.Err, "turn %d rolled back", result.Turn)
	return result
}
