package server

import (
	"encoding/json"
	"hash/fnv"

	"github.com/starweb/starweb/game"
)

// DeltaChanges is the wire shape of a delta frame. Empty slices and nil
// pointers are omitted so an idle field costs nothing.
type DeltaChanges struct {
	Worlds        map[int]game.WorldView `json:"worlds,omitempty"`
	RemovedWorlds []int                  `json:"removed_worlds,omitempty"`
	Fleets        []game.FleetView       `json:"fleets,omitempty"`
	RemovedFleets []int                  `json:"removed_fleets,omitempty"`

	Score    *int               `json:"score,omitempty"`
	GameTurn *int               `json:"game_turn,omitempty"`
	Orders   []string           `json:"orders,omitempty"`
	Players  []game.RosterEntry `json:"players,omitempty"`

	// OrdersCleared distinguishes "orders unchanged" from "orders now
	// empty", which an omitted empty slice cannot.
	OrdersCleared bool `json:"orders_cleared,omitempty"`
}

func (d *DeltaChanges) empty() bool {
	return len(d.Worlds) == 0 && len(d.RemovedWorlds) == 0 &&
		len(d.Fleets) == 0 && len(d.RemovedFleets) == 0 &&
		d.Score == nil && d.GameTurn == nil &&
		d.Orders == nil && !d.OrdersCleared && d.Players == nil
}

// playerDigest remembers what was last sent to one player, as FNV-1a hashes
// of the encoded views.
type playerDigest struct {
	worlds  map[int]uint64
	fleets  map[int]uint64
	score   int
	turn    int
	orders  uint64
	hasOrd  bool
	players uint64
}

func hashView(v any) uint64 {
	data, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}

// DeltaEngine tracks per-player digests and turns full projections into
// minimal change sets.
type DeltaEngine struct {
	players map[string]*playerDigest // keyed by lower-cased player name
}

func NewDeltaEngine() *DeltaEngine {
	return &DeltaEngine{players: make(map[string]*playerDigest)}
}

// Reset records a full projection as the new baseline, after an update
// frame has been sent.
func (d *DeltaEngine) Reset(player string, proj *game.Projection) {
	pd := &playerDigest{
		worlds: make(map[int]uint64, len(proj.Worlds)),
		fleets: make(map[int]uint64, len(proj.Fleets)),
	}
	for id, w := range proj.Worlds {
		pd.worlds[id] = hashView(w)
	}
	for _, f := range proj.Fleets {
		pd.fleets[f.ID] = hashView(f)
	}
	pd.score = proj.Score
	pd.turn = proj.GameTurn
	pd.orders = hashView(proj.Orders)
	pd.hasOrd = true
	pd.players = hashView(proj.Players)
	d.players[player] = pd
}

// Forget drops a player's baseline, forcing the next frame to be a full
// update.
func (d *DeltaEngine) Forget(player string) {
	delete(d.players, player)
}

// Compute diffs a projection against the stored baseline and advances the
// baseline. It returns nil when nothing changed, or when there is no
// baseline yet (the caller should send a full update instead).
func (d *DeltaEngine) Compute(player string, proj *game.Projection) *DeltaChanges {
	pd, ok := d.players[player]
	if !ok {
		return nil
	}

	changes := &DeltaChanges{}

	seenWorlds := make(map[int]bool, len(proj.Worlds))
	for id, w := range proj.Worlds {
		seenWorlds[id] = true
		h := hashView(w)
		if pd.worlds[id] != h {
			if changes.Worlds == nil {
				changes.Worlds = make(map[int]game.WorldView)
			}
			changes.Worlds[id] = w
			pd.worlds[id] = h
		}
	}
	for id := range pd.worlds {
		if !seenWorlds[id] {
			changes.RemovedWorlds = append(changes.RemovedWorlds, id)
			delete(pd.worlds, id)
		}
	}

	seenFleets := make(map[int]bool, len(proj.Fleets))
	for _, f := range proj.Fleets {
		seenFleets[f.ID] = true
		h := hashView(f)
		if pd.fleets[f.ID] != h {
			changes.Fleets = append(changes.Fleets, f)
			pd.fleets[f.ID] = h
		}
	}
	for id := range pd.fleets {
		if !seenFleets[id] {
			changes.RemovedFleets = append(changes.RemovedFleets, id)
			delete(pd.fleets, id)
		}
	}

	if proj.Score != pd.score {
		score := proj.Score
		changes.Score = &score
		pd.score = score
	}
	if proj.GameTurn != pd.turn {
		turn := proj.GameTurn
		changes.GameTurn = &turn
		pd.turn = turn
	}
	if h := hashView(proj.Orders); !pd.hasOrd || h != pd.orders {
		if len(proj.Orders) == 0 {
			changes.OrdersCleared = true
		} else {
			changes.Orders = proj.Orders
		}
		pd.orders = h
		pd.hasOrd = true
	}
	if h := hashView(proj.Players); h != pd.players {
		changes.Players = proj.Players
		pd.players = h
	}

	if changes.empty() {
		return nil
	}
	return changes
}
