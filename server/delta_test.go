package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starweb/starweb/game"
)

func sampleProjection() *game.Projection {
	return &game.Projection{
		PlayerName: "Alice",
		Character:  "EmpireBuilder",
		Score:      10,
		GameTurn:   3,
		Worlds: map[int]game.WorldView{
			1: {ID: 1, Population: 5, Owner: "alice", PopType: "human"},
			2: {ID: 2, Industry: 4, PopType: "human"},
		},
		Fleets: []game.FleetView{
			{ID: 1, Owner: "alice", World: 1, Ships: 10, Own: true},
		},
		Orders:  []string{"F1W2"},
		Players: []game.RosterEntry{{Name: "Alice", Character: "EmpireBuilder", Score: 10}},
	}
}

func TestDeltaNoBaselineReturnsNil(t *testing.T) {
	d := NewDeltaEngine()
	assert.Nil(t, d.Compute("alice", sampleProjection()),
		"without a baseline the caller must send a full update")
}

func TestDeltaUnchangedReturnsNil(t *testing.T) {
	d := NewDeltaEngine()
	d.Reset("alice", sampleProjection())
	assert.Nil(t, d.Compute("alice", sampleProjection()))
}

func TestDeltaDetectsChanges(t *testing.T) {
	d := NewDeltaEngine()
	d.Reset("alice", sampleProjection())

	next := sampleProjection()
	w := next.Worlds[1]
	w.Population = 6
	next.Worlds[1] = w
	next.Score = 12
	next.GameTurn = 4

	changes := d.Compute("alice", next)
	require.NotNil(t, changes)
	assert.Contains(t, changes.Worlds, 1)
	assert.NotContains(t, changes.Worlds, 2, "unchanged world is not resent")
	assert.Empty(t, changes.Fleets)
	require.NotNil(t, changes.Score)
	assert.Equal(t, 12, *changes.Score)
	require.NotNil(t, changes.GameTurn)
	assert.Equal(t, 4, *changes.GameTurn)

	assert.Nil(t, d.Compute("alice", next), "the baseline advances with each delta")
}

func TestDeltaReportsRemovals(t *testing.T) {
	d := NewDeltaEngine()
	d.Reset("alice", sampleProjection())

	next := sampleProjection()
	delete(next.Worlds, 2)
	next.Fleets = nil

	changes := d.Compute("alice", next)
	require.NotNil(t, changes)
	assert.Equal(t, []int{2}, changes.RemovedWorlds)
	assert.Equal(t, []int{1}, changes.RemovedFleets)
}

func TestDeltaOrdersClearedIsExplicit(t *testing.T) {
	d := NewDeltaEngine()
	d.Reset("alice", sampleProjection())

	next := sampleProjection()
	next.Orders = nil

	changes := d.Compute("alice", next)
	require.NotNil(t, changes)
	assert.True(t, changes.OrdersCleared)
	assert.Empty(t, changes.Orders)

	again := sampleProjection()
	again.Orders = nil
	assert.Nil(t, d.Compute("alice", again), "an already-empty queue is not re-reported")
}

func TestDeltaForgetForcesFullUpdate(t *testing.T) {
	d := NewDeltaEngine()
	d.Reset("alice", sampleProjection())
	d.Forget("alice")
	assert.Nil(t, d.Compute("alice", sampleProjection()))
}

func TestDeltaPlayersAreIndependent(t *testing.T) {
	d := NewDeltaEngine()
	d.Reset("alice", sampleProjection())

	bob := sampleProjection()
	bob.PlayerName = "Bob"
	assert.Nil(t, d.Compute("bob", bob), "bob has no baseline of his own")
}
