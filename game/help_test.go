package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelpText(t *testing.T) {
	assert.Contains(t, HelpText("move"), "black hole", "topics are case-insensitive")
	assert.Contains(t, HelpText("CARGO"), "Merchant")
	assert.Contains(t, HelpText(""), "Help topics:")
	assert.Contains(t, HelpText("nonsense"), "Help topics:", "unknown topics fall back to the index")
}

func TestContextHelp(t *testing.T) {
	gs := newTestState(t, testConfig(), 2)
	link(gs, 1, 2)
	alice := addTestPlayer(gs, "Alice", EmpireBuilder)
	gs.Worlds[1].Owner = "alice"
	gs.Worlds[1].Population = 5
	gs.Fleets[1].Owner = "alice"
	gs.Fleets[1].Ships = 3

	queue(t, gs, alice, "F1W2")
	text := gs.ContextHelp(alice)

	assert.Contains(t, text, "W1")
	assert.Contains(t, text, "F1")
	assert.Contains(t, text, "F1W2", "queued orders are listed")
}
