package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransferShipsCarriesProportionalCargo(t *testing.T) {
	gs := newTestState(t, testConfig(), 1)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	f1 := gs.Fleets[1]
	f1.Owner = "alice"
	f1.Ships = 10
	f1.Cargo = 8
	f2 := gs.Fleets[2]
	f2.Owner = "alice"
	f2.Ships = 2

	queue(t, gs, alice, "F1T5F2")
	runTurn(t, gs)

	assert.Equal(t, 5, f1.Ships)
	assert.Equal(t, 4, f1.Cargo, "half the ships take half the cargo")
	assert.Equal(t, 7, f2.Ships)
	assert.Equal(t, 4, f2.Cargo)
}

func TestTransferShipsToGarrisonDropsCargo(t *testing.T) {
	gs := newTestState(t, testConfig(), 1)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	w := gs.Worlds[1]
	w.Owner = "alice"
	w.Population = 5
	f1 := gs.Fleets[1]
	f1.Owner = "alice"
	f1.Ships = 4
	f1.Cargo = 4

	queue(t, gs, alice, "F1T2P")
	runTurn(t, gs)

	assert.Equal(t, 2, f1.Ships)
	assert.Equal(t, 2, w.PShips)
	assert.Equal(t, 2, f1.Cargo, "the riding cargo goes overboard, not into the garrison")
}

func TestTransferArtifactBetweenFleets(t *testing.T) {
	gs := newTestState(t, testConfig(), 1)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	addTestPlayer(gs, "Bob", Merchant)
	gs.Artifacts[3] = &Artifact{ID: 3, Name: "Crystal Tablet", Points: 10}
	f1 := gs.Fleets[1]
	f1.Owner = "alice"
	f1.Ships = 2
	f1.Artifacts = []int{3}
	f2 := gs.Fleets[2]
	f2.Owner = "bob"
	f2.Ships = 1

	queue(t, gs, alice, "F1TA3F2")
	runTurn(t, gs)

	assert.Empty(t, f1.Artifacts)
	assert.Equal(t, []int{3}, f2.Artifacts, "artifacts may be handed to another player's fleet")
}

func TestTransferArtifactToWorld(t *testing.T) {
	gs := newTestState(t, testConfig(), 1)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	gs.Artifacts[3] = &Artifact{ID: 3, Name: "Crystal Tablet", Points: 10}
	f1 := gs.Fleets[1]
	f1.Owner = "alice"
	f1.Ships = 2
	f1.Artifacts = []int{3}

	queue(t, gs, alice, "F1TA3W")
	runTurn(t, gs)

	assert.Empty(t, f1.Artifacts)
	assert.Equal(t, []int{3}, gs.Worlds[1].Artifacts)
}
