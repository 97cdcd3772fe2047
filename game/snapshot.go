package game

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/starweb/starweb/config"
)

// Snapshot is the canonical serializable form of the game state. Slices are
// sorted by ID (players by lower-cased name) so two snapshots of the same
// state are byte-identical after JSON encoding.
type Snapshot struct {
	Turn        int         `json:"turn"`
	TargetScore int         `json:"target_score"`
	Seed        int64       `json:"seed"`
	Winner      string      `json:"winner,omitempty"`
	WonTurn     int         `json:"won_turn,omitempty"`
	Worlds      []*World    `json:"worlds"`
	Fleets      []*Fleet    `json:"fleets"`
	Artifacts   []*Artifact `json:"artifacts"`
	Players     []*Player   `json:"players"`
}

func cloneInts(in []int) []int {
	if in == nil {
		return nil
	}
	out := make([]int, len(in))
	copy(out, in)
	return out
}

func (w *World) clone() *World {
	c := *w
	c.Connections = cloneInts(w.Connections)
	c.Artifacts = cloneInts(w.Artifacts)
	return &c
}

func (f *Fleet) clone() *Fleet {
	c := *f
	c.Artifacts = cloneInts(f.Artifacts)
	c.NoAmbushWorlds = cloneInts(f.NoAmbushWorlds)
	if f.Conditional != nil {
		cond := *f.Conditional
		c.Conditional = &cond
	}
	return &c
}

func (o *Order) clone() *Order {
	c := *o
	c.Path = cloneInts(o.Path)
	return &c
}

func (p *Player) clone() *Player {
	c := *p
	c.Orders = make([]*Order, len(p.Orders))
	for i, o := range p.Orders {
		c.Orders[i] = o.clone()
	}
	c.KnownWorlds = make(map[int]WorldMemory, len(p.KnownWorlds))
	for k, v := range p.KnownWorlds {
		c.KnownWorlds[k] = v
	}
	c.Relations = make(map[string]Relation, len(p.Relations))
	for k, v := range p.Relations {
		c.Relations[k] = v
	}
	if p.TempVisible != nil {
		c.TempVisible = make(map[int]bool, len(p.TempVisible))
		for k, v := range p.TempVisible {
			c.TempVisible[k] = v
		}
	}
	c.Ledger = make([]ScoreEntry, len(p.Ledger))
	copy(c.Ledger, p.Ledger)
	c.PlunderCounts = make(map[int]int, len(p.PlunderCounts))
	for k, v := range p.PlunderCounts {
		c.PlunderCounts[k] = v
	}
	c.ConsumerDeliveries = make(map[int]int, len(p.ConsumerDeliveries))
	for k, v := range p.ConsumerDeliveries {
		c.ConsumerDeliveries[k] = v
	}
	return &c
}

// Snapshot exports a deep copy of the state in canonical order.
func (gs *GameState) Snapshot() *Snapshot {
	snap := &Snapshot{
		Turn:        gs.Turn,
		TargetScore: gs.TargetScore,
		Seed:        gs.Seed,
		Winner:      gs.Winner,
		WonTurn:     gs.WonTurn,
	}
	for _, id := range gs.WorldIDs() {
		snap.Worlds = append(snap.Worlds, gs.Worlds[id].clone())
	}
	for _, id := range gs.FleetIDs() {
		snap.Fleets = append(snap.Fleets, gs.Fleets[id].clone())
	}
	artifactIDs := make([]int, 0, len(gs.Artifacts))
	for id := range gs.Artifacts {
		artifactIDs = append(artifactIDs, id)
	}
	sort.Ints(artifactIDs)
	for _, id := range artifactIDs {
		a := *gs.Artifacts[id]
		snap.Artifacts = append(snap.Artifacts, &a)
	}
	for _, key := range gs.PlayerKeys() {
		snap.Players = append(snap.Players, gs.Players[key].clone())
	}
	return snap
}

// Restore replaces the state's contents with a snapshot. Used for the
// pre-turn rollback; the snapshot is not reused afterwards.
func (gs *GameState) Restore(snap *Snapshot) {
	gs.Turn = snap.Turn
	gs.TargetScore = snap.TargetScore
	gs.Winner = snap.Winner
	gs.WonTurn = snap.WonTurn
	gs.Worlds = make(map[int]*World, len(snap.Worlds))
	for _, w := range snap.Worlds {
		gs.Worlds[w.ID] = w
	}
	gs.Fleets = make(map[int]*Fleet, len(snap.Fleets))
	for _, f := range snap.Fleets {
		gs.Fleets[f.ID] = f
	}
	gs.Artifacts = make(map[int]*Artifact, len(snap.Artifacts))
	for _, a := range snap.Artifacts {
		gs.Artifacts[a.ID] = a
	}
	gs.Players = make(map[string]*Player, len(snap.Players))
	for _, p := range snap.Players {
		gs.Players[strings.ToLower(p.Name)] = p
	}
}

// LoadSnapshot rebuilds a state from persisted data and re-verifies the
// invariants; a violation yields CorruptStateError.
func LoadSnapshot(cfg *config.Config, snap *Snapshot) (*GameState, error) {
	gs := NewGameState(cfg, snap.Seed)
	gs.Restore(snap)
	gs.rng = rand.New(rand.NewSource(snap.Seed + int64(snap.Turn)))
	if err := gs.CheckInvariants(); err != nil {
		return nil, &CorruptStateError{Cause: err}
	}
	return gs, nil
}
