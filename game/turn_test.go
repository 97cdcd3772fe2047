package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starweb/starweb/events"
)

func TestTurnMoveAndCapture(t *testing.T) {
	gs := newTestState(t, testConfig(), 3)
	link(gs, 1, 2)
	link(gs, 2, 3)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	gs.Worlds[1].Owner = "alice"
	gs.Worlds[1].Population = 10
	gs.Worlds[2].Population = 5
	f1 := gs.Fleets[1]
	f1.Owner = "alice"
	f1.Ships = 10

	queue(t, gs, alice, "F1W2")
	result := runTurn(t, gs)

	assert.Equal(t, 1, result.Turn)
	assert.Equal(t, 2, f1.World)
	assert.True(t, f1.Moved)
	assert.Equal(t, "alice", gs.Worlds[2].Owner, "undefended populated world falls to the occupying fleet")
	assert.Empty(t, alice.Orders)
	assert.False(t, alice.Ready)

	var moved bool
	for _, e := range result.Events {
		if m, ok := e.(events.FleetMoved); ok {
			moved = true
			assert.Equal(t, 1, m.From)
			assert.Equal(t, 2, m.To)
			assert.Equal(t, []int{2}, m.Path)
		}
	}
	assert.True(t, moved, "expected a FleetMoved event")
}

func TestTurnAmbushStopsAndDestroys(t *testing.T) {
	gs := newTestState(t, testConfig(), 3)
	link(gs, 1, 2)
	link(gs, 2, 3)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	bob := addTestPlayer(gs, "Bob", EmpireBuilder)
	f1 := gs.Fleets[1]
	f1.Owner = "alice"
	f1.Ships = 10
	f2 := gs.Fleets[2]
	f2.Owner = "bob"
	f2.World = 2
	f2.Ships = 8

	queue(t, gs, alice, "F1W2W3")
	queue(t, gs, bob, "F2A")
	runTurn(t, gs)

	assert.Equal(t, 2, f1.World, "the ambush ends the trip short of world 3")
	assert.Equal(t, 0, f1.Ships, "eight ambushers at double strength erase ten ships")
	assert.Equal(t, 8, f2.Ships, "ambushers take no return fire")
	assert.Equal(t, "bob", f1.Owner, "the emptied key falls to the fleet holding the field")
}

func TestTurnPeaceFleetPassesAmbushUnharmed(t *testing.T) {
	gs := newTestState(t, testConfig(), 2)
	link(gs, 1, 2)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	bob := addTestPlayer(gs, "Bob", EmpireBuilder)
	f1 := gs.Fleets[1]
	f1.Owner = "alice"
	f1.Ships = 4
	f2 := gs.Fleets[2]
	f2.Owner = "bob"
	f2.World = 2
	f2.Ships = 8

	queue(t, gs, alice, "F1Q")
	queue(t, gs, alice, "F1W2")
	queue(t, gs, bob, "F2A")
	runTurn(t, gs)

	assert.Equal(t, 2, f1.World, "a fleet at peace still stops at the ambush")
	assert.Equal(t, 4, f1.Ships, "a fleet at peace is not fired on")
}

func TestTurnFleetExchangeIsSimultaneous(t *testing.T) {
	gs := newTestState(t, testConfig(), 1)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	addTestPlayer(gs, "Bob", EmpireBuilder)
	f1 := gs.Fleets[1]
	f1.Owner = "alice"
	f1.Ships = 10
	f2 := gs.Fleets[2]
	f2.Owner = "bob"
	f2.Ships = 6

	queue(t, gs, alice, "F1AF2")
	runTurn(t, gs)

	assert.Equal(t, 7, f1.Ships, "six defenders land three hits")
	assert.Equal(t, 1, f2.Ships, "ten attackers land five hits")
}

func TestTurnMutualFireResolvesOnce(t *testing.T) {
	gs := newTestState(t, testConfig(), 1)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	bob := addTestPlayer(gs, "Bob", EmpireBuilder)
	f1 := gs.Fleets[1]
	f1.Owner = "alice"
	f1.Ships = 10
	f2 := gs.Fleets[2]
	f2.Owner = "bob"
	f2.Ships = 6

	queue(t, gs, alice, "F1AF2")
	queue(t, gs, bob, "F2AF1")
	runTurn(t, gs)

	assert.Equal(t, 7, f1.Ships, "both orders name the same volley")
	assert.Equal(t, 1, f2.Ships)
}

func TestTurnBuildShipsConsumesResources(t *testing.T) {
	gs := newTestState(t, testConfig(), 1)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	w := gs.Worlds[1]
	w.Owner = "alice"
	w.Industry = 5
	w.Metal = 3
	w.Population = 4

	queue(t, gs, alice, "W1B10I")
	runTurn(t, gs)

	assert.Equal(t, 3, w.IShips, "metal is the binding resource")
	assert.Equal(t, 2, w.Industry)
	assert.Equal(t, 0, w.Metal)
	assert.Equal(t, 1, w.Population)
}

func TestTurnFailedBuildDoesNotClaimNeutralWorld(t *testing.T) {
	gs := newTestState(t, testConfig(), 1)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	f1 := gs.Fleets[1]
	f1.Owner = "alice"
	f1.Ships = 3
	w := gs.Worlds[1]
	w.Industry = 5
	w.Metal = 0
	w.Population = 10

	queue(t, gs, alice, "W1B2I")
	runTurn(t, gs)

	assert.Equal(t, 0, w.IShips, "no metal, no build")
	assert.Equal(t, "", w.Owner, "a build that does nothing claims nothing")

	w.Metal = 3
	queue(t, gs, alice, "W1B2I")
	runTurn(t, gs)

	assert.Equal(t, 2, w.IShips)
	assert.Equal(t, "alice", w.Owner, "a garrison actually built claims the world")
}

func TestTurnBuildIndustryIsCapacityGated(t *testing.T) {
	gs := newTestState(t, testConfig(), 1)
	// EmpireBuilder industry bonus 1 brings the unit cost to 4.
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	w := gs.Worlds[1]
	w.Owner = "alice"
	w.Industry = 8
	w.Metal = 9
	w.Population = 20
	w.Mines = 0

	queue(t, gs, alice, "W1B5IND")
	runTurn(t, gs)

	// min(5, 8/4, 9/4, 20/4) = 2 units at 4 metal and 4 workers each.
	assert.Equal(t, 10, w.Industry)
	assert.Equal(t, 1, w.Metal)
	assert.Equal(t, 13, w.Population, "twelve spent, one regrown")
}

func TestTurnBlackHoleDestroysFleet(t *testing.T) {
	gs := newTestState(t, testConfig(), 3)
	link(gs, 1, 2)
	link(gs, 2, 3)
	gs.Worlds[2].IsBlackHole = true
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	gs.Artifacts[1] = &Artifact{ID: 1, Name: "Ancient Orb", Points: 10}
	f1 := gs.Fleets[1]
	f1.Owner = "alice"
	f1.Ships = 5
	f1.Cargo = 3
	f1.Artifacts = []int{1}

	queue(t, gs, alice, "F1W2")
	result := runTurn(t, gs)

	assert.Equal(t, "", f1.Owner)
	assert.Equal(t, 0, f1.Ships)
	assert.Equal(t, 0, f1.Cargo)
	assert.Equal(t, []int{1}, f1.Artifacts, "artifacts survive aboard the drifting key")
	assert.NotEqual(t, 2, f1.World, "the key respawns away from the black hole")

	var destroyed bool
	for _, e := range result.Events {
		if d, ok := e.(events.BlackHoleDestruction); ok {
			destroyed = true
			assert.Equal(t, 1, d.Fleet)
			assert.Equal(t, "alice", d.Owner)
			assert.Equal(t, f1.World, d.RespawnAt)
		}
	}
	assert.True(t, destroyed, "expected a BlackHoleDestruction event")
}

func TestTurnFireAtWorldGarrison(t *testing.T) {
	gs := newTestState(t, testConfig(), 2)
	link(gs, 1, 2)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	addTestPlayer(gs, "Bob", EmpireBuilder)
	w := gs.Worlds[2]
	w.Owner = "bob"
	w.Population = 5
	w.IShips = 4
	w.PShips = 2
	w.Industry = 3
	f1 := gs.Fleets[1]
	f1.Owner = "alice"
	f1.World = 2
	f1.Ships = 10

	queue(t, gs, alice, "F1AI")
	runTurn(t, gs)

	// Five shots: four sink the iship screen, the overflow wrecks industry.
	assert.Equal(t, 0, w.IShips)
	assert.Equal(t, 2, w.Industry)
	assert.Equal(t, 2, w.PShips, "pships are untouched by an I volley")
	// Six garrison ships return three shots.
	assert.Equal(t, 7, f1.Ships)
}

func TestTurnMigrationCostsAndReveals(t *testing.T) {
	gs := newTestState(t, testConfig(), 2)
	link(gs, 1, 2)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	src := gs.Worlds[1]
	src.Owner = "alice"
	src.Population = 10
	src.Industry = 5
	src.Metal = 4
	dst := gs.Worlds[2]
	dst.Limit = 10

	queue(t, gs, alice, "W1M3W2")
	runTurn(t, gs)

	assert.Equal(t, 7, src.Population)
	assert.Equal(t, 2, src.Industry, "one industry slot per migrant")
	assert.Equal(t, 1, src.Metal, "one metal per migrant")
	assert.Equal(t, 3, dst.Population)
	assert.Contains(t, alice.KnownWorlds, 2, "migration grants a look at the destination")
}

func TestTurnLoadAndUnloadCargo(t *testing.T) {
	gs := newTestState(t, testConfig(), 1)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	w := gs.Worlds[1]
	w.Owner = "alice"
	w.Population = 10
	f1 := gs.Fleets[1]
	f1.Owner = "alice"
	f1.Ships = 5

	queue(t, gs, alice, "F1L")
	runTurn(t, gs)

	assert.Equal(t, 5, f1.Cargo, "load fills to cargo capacity")
	assert.Equal(t, 5, w.Population)

	queue(t, gs, alice, "F1U2")
	runTurn(t, gs)

	assert.Equal(t, 3, f1.Cargo)
	assert.Equal(t, 7, w.Population)
}

func TestTurnProbeRevealsNeighbors(t *testing.T) {
	gs := newTestState(t, testConfig(), 3)
	link(gs, 1, 2)
	link(gs, 1, 3)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	w := gs.Worlds[1]
	w.Owner = "alice"
	w.Population = 5
	w.Metal = 5

	queue(t, gs, alice, "W1X")
	runTurn(t, gs)

	assert.Equal(t, 3, w.Metal, "one metal per neighbor")
	assert.Contains(t, alice.KnownWorlds, 2)
	assert.Contains(t, alice.KnownWorlds, 3)
}

func TestTurnDiplomacyLoaderPermission(t *testing.T) {
	gs := newTestState(t, testConfig(), 1)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	bob := addTestPlayer(gs, "Bob", EmpireBuilder)
	w := gs.Worlds[1]
	w.Owner = "alice"
	w.Population = 10
	f2 := gs.Fleets[2]
	f2.Owner = "bob"
	f2.Ships = 4

	// Without permission the load is rejected at validation time.
	o, err := Parse("F2L")
	require.NoError(t, err)
	require.Error(t, gs.Validate(bob, o))

	queue(t, gs, alice, "L=Bob")
	runTurn(t, gs)
	require.True(t, alice.RelationWith("bob").Loader)

	queue(t, gs, bob, "F2L")
	runTurn(t, gs)
	assert.Equal(t, 4, f2.Cargo)
}

func TestTurnWinnerDeclaredAtTarget(t *testing.T) {
	gs := newTestState(t, testConfig(), 1)
	gs.TargetScore = 5
	addTestPlayer(gs, "Alice", EmpireBuilder)
	w := gs.Worlds[1]
	w.Owner = "alice"
	w.Population = 10
	w.Industry = 5

	result := runTurn(t, gs)

	assert.Equal(t, "alice", result.Winner)
	assert.Equal(t, "alice", gs.Winner)
	assert.Equal(t, 1, gs.WonTurn)
}

func TestTurnConsumerGoodsLadder(t *testing.T) {
	gs := newTestState(t, testConfig(), 1)
	addTestPlayer(gs, "Alice", EmpireBuilder)
	bob := addTestPlayer(gs, "Bob", Merchant)
	w := gs.Worlds[1]
	w.Owner = "alice"
	w.Population = 5
	w.Industry = 5
	f2 := gs.Fleets[2]
	f2.Owner = "bob"
	f2.Ships = 2
	f2.Cargo = 4

	queue(t, gs, bob, "F2UC")
	runTurn(t, gs)

	assert.Equal(t, 0, f2.Cargo)
	assert.Equal(t, 10, bob.Score(), "first delivery to a world pays the top of the ladder")
	assert.Equal(t, 1, bob.ConsumerDeliveries[1])
}

func TestTurnPirateplunderLadder(t *testing.T) {
	gs := newTestState(t, testConfig(), 1)
	addTestPlayer(gs, "Alice", EmpireBuilder)
	carol := addTestPlayer(gs, "Carol", Pirate)
	w := gs.Worlds[1]
	w.Owner = "alice"
	w.Population = 5
	w.Metal = 8
	f3 := gs.Fleets[3]
	f3.Owner = "carol"
	f3.Ships = 5

	queue(t, gs, carol, "F3P6")
	runTurn(t, gs)

	assert.Equal(t, 5, f3.Cargo, "plunder is capped by hold space")
	assert.Equal(t, 3, w.Metal)
	// First plunder of the world pays 50, plus 3 for the fleet in service.
	assert.Equal(t, 53, carol.Score())
}

func TestTurnRobotMigrationOverrunsHumans(t *testing.T) {
	gs := newTestState(t, testConfig(), 2)
	link(gs, 1, 2)
	bork := addTestPlayer(gs, "Bork", Berserker)
	src := gs.Worlds[1]
	src.Owner = "bork"
	src.PopType = PopRobot
	src.Population = 20
	src.Industry = 10
	src.Metal = 10
	dst := gs.Worlds[2]
	dst.Population = 4
	dst.Limit = 30

	queue(t, gs, bork, "W1M6W2")
	runTurn(t, gs)

	assert.Equal(t, PopRobot, dst.PopType, "an emptied world is resettled by the robots")
	assert.Equal(t, 6, dst.Population)
	assert.Equal(t, 15, src.Population, "fourteen left after the march, one grown back")
}

func TestTurnPBBDropLevelsWorld(t *testing.T) {
	gs := newTestState(t, testConfig(), 1)
	addTestPlayer(gs, "Alice", EmpireBuilder)
	bork := addTestPlayer(gs, "Bork", Berserker)
	w := gs.Worlds[1]
	w.Owner = "alice"
	w.Population = 30
	w.Industry = 8
	w.Mines = 4
	f2 := gs.Fleets[2]
	f2.Owner = "bork"
	f2.Ships = 30
	f2.HasPBB = true

	queue(t, gs, bork, "F2D")
	result := runTurn(t, gs)

	assert.Equal(t, 0, w.Population)
	assert.Equal(t, 0, w.Industry)
	assert.Equal(t, 0, w.Mines)
	assert.False(t, f2.HasPBB)
	assert.Equal(t, "", w.Owner, "a depopulated world goes neutral")
	// 30 killed at 2 each plus 200 for the bomb.
	assert.Equal(t, 260, bork.Score())

	var dropped bool
	for _, e := range result.Events {
		if _, ok := e.(events.PBBDropped); ok {
			dropped = true
		}
	}
	assert.True(t, dropped, "expected a PBBDropped event")
}

func TestTurnApostleTitheAndMartyrs(t *testing.T) {
	gs := newTestState(t, testConfig(), 1)
	paul := addTestPlayer(gs, "Paul", Apostle)
	w := gs.Worlds[1]
	w.Owner = "paul"
	w.Population = 20
	w.Limit = 20

	runTurn(t, gs)

	assert.Equal(t, 2, w.Converts, "a tenth of the flock converts each turn")
	// 5 for the owned world, 0 from converts/10.
	assert.Equal(t, 5, paul.Score())
}
