package game

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starweb/starweb/config"
)

func TestGenerateMapShape(t *testing.T) {
	gs, cfg := generatedState(t)

	assert.Len(t, gs.Worlds, cfg.Game.MapSize)
	assert.Len(t, gs.Fleets, cfg.Game.NumFleets)
	require.NoError(t, gs.CheckInvariants())

	for _, id := range gs.WorldIDs() {
		w := gs.Worlds[id]
		assert.NotEmpty(t, w.Connections, "world %d is isolated", id)
		assert.LessOrEqual(t, w.Population, w.Limit, "world %d", id)
		for _, n := range w.Connections {
			assert.True(t, gs.Worlds[n].ConnectedTo(id), "edge %d-%d is one-way", id, n)
		}
	}
}

func TestGenerateMapIsConnected(t *testing.T) {
	gs, cfg := generatedState(t)

	start := gs.WorldIDs()[0]
	seen := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, n := range gs.Worlds[id].Connections {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	assert.Len(t, seen, cfg.Game.MapSize, "every world is reachable")
}

func TestGenerateMapPlacesArtifacts(t *testing.T) {
	gs, cfg := generatedState(t)

	want := len(cfg.Artifacts.Types)*len(cfg.Artifacts.Items) + len(cfg.Artifacts.SpecialArtifacts)
	assert.Len(t, gs.Artifacts, want)
	assert.Equal(t, want, gs.TotalArtifactCount(), "every artifact sits somewhere")

	for _, w := range gs.Worlds {
		if len(w.Artifacts) > 0 {
			assert.False(t, w.IsBlackHole, "artifacts do not sit in black holes")
		}
	}
}

func TestGenerateMapIsDeterministic(t *testing.T) {
	cfg := config.Default()
	cfg.Game.MapSize = 32
	cfg.Game.NumFleets = 20

	a := NewGameState(cfg, 99)
	a.GenerateMap(zerolog.Nop())
	b := NewGameState(cfg, 99)
	b.GenerateMap(zerolog.Nop())

	aj, err := json.Marshal(a.Snapshot())
	require.NoError(t, err)
	bj, err := json.Marshal(b.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, string(aj), string(bj), "same seed, same map")
}
