package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleWorlds(t *testing.T) {
	gs := newTestState(t, testConfig(), 4)
	link(gs, 1, 2)
	link(gs, 2, 3)
	link(gs, 3, 4)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	gs.Worlds[1].Owner = "alice"
	gs.Worlds[1].Population = 5
	gs.Fleets[1].Owner = "alice"
	gs.Fleets[1].Ships = 3
	gs.Fleets[1].World = 2

	visible := gs.VisibleWorlds(alice)
	assert.True(t, visible[1], "owned world")
	assert.True(t, visible[2], "world under an own fleet")
	assert.False(t, visible[3])
	assert.False(t, visible[4])

	alice.TempVisible = map[int]bool{4: true}
	visible = gs.VisibleWorlds(alice)
	assert.True(t, visible[4], "probe grant")
}

func TestProjectionHidesForeignDetail(t *testing.T) {
	gs := newTestState(t, testConfig(), 3)
	link(gs, 1, 2)
	link(gs, 2, 3)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	addTestPlayer(gs, "Bob", Merchant)
	gs.Worlds[1].Owner = "alice"
	gs.Worlds[1].Population = 5
	f1 := gs.Fleets[1]
	f1.Owner = "alice"
	f1.Ships = 3
	f1.Cargo = 2
	f2 := gs.Fleets[2]
	f2.Owner = "bob"
	f2.Ships = 7
	f2.Cargo = 4
	f2.World = 1
	f3 := gs.Fleets[3]
	f3.Owner = "bob"
	f3.Ships = 5
	f3.World = 3

	proj := gs.Project(alice)

	assert.Contains(t, proj.Worlds, 1)
	assert.NotContains(t, proj.Worlds, 3, "unseen world is absent")

	views := make(map[int]FleetView)
	for _, fv := range proj.Fleets {
		views[fv.ID] = fv
	}
	require.Contains(t, views, 1)
	assert.True(t, views[1].Own)
	assert.Equal(t, 2, views[1].Cargo)

	require.Contains(t, views, 2, "foreign fleet at a visible world shows")
	assert.False(t, views[2].Own)
	assert.Equal(t, 7, views[2].Ships)
	assert.Zero(t, views[2].Cargo, "foreign cargo is hidden")

	assert.NotContains(t, views, 3, "fleet at an unseen world is absent")

	assert.Len(t, proj.Players, 2, "the roster lists everyone")
}

func TestRememberedWorldsCarryTheirAge(t *testing.T) {
	gs := newTestState(t, testConfig(), 3)
	link(gs, 1, 2)
	link(gs, 2, 3)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	gs.Worlds[1].Owner = "alice"
	gs.Worlds[1].Population = 5
	gs.Worlds[2].Industry = 7
	f1 := gs.Fleets[1]
	f1.Owner = "alice"
	f1.Ships = 3
	f1.World = 2

	gs.Turn = 4
	gs.RememberVisible(alice)

	// The fleet leaves; world 2 survives only as memory.
	f1.World = 1
	gs.Worlds[2].Industry = 0

	proj := gs.Project(alice)
	require.Contains(t, proj.Worlds, 2)
	assert.Equal(t, 4, proj.Worlds[2].TurnLastSeen)
	assert.Equal(t, 7, proj.Worlds[2].Industry, "memory shows the last-seen numbers")

	require.Contains(t, proj.Worlds, 1)
	assert.Zero(t, proj.Worlds[1].TurnLastSeen, "currently visible worlds carry no age")
}
