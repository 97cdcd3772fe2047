package game

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/starweb/starweb/config"
)

// InvariantError reports an internal inconsistency found while mutating the
// state. The turn processor reacts by rolling back to the pre-turn snapshot.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return "state invariant violated: " + e.Detail
}

// CorruptStateError is returned when a loaded snapshot fails invariant
// re-verification. The server refuses to start on it.
type CorruptStateError struct {
	Cause error
}

func (e *CorruptStateError) Error() string {
	return "corrupt game state: " + e.Cause.Error()
}

func (e *CorruptStateError) Unwrap() error { return e.Cause }

// GameState is the single authoritative world. It is owned by the engine
// goroutine; nothing else mutates it.
type GameState struct {
	Turn        int
	TargetScore int
	Worlds      map[int]*World
	Fleets      map[int]*Fleet
	Players     map[string]*Player // keyed by lower-cased name
	Artifacts   map[int]*Artifact
	Winner      string
	WonTurn     int
	Seed        int64

	rng *rand.Rand
	cfg *config.Config
}

// NewGameState builds an empty state around a configuration and RNG seed.
// Call GenerateMap to populate it.
func NewGameState(cfg *config.Config, seed int64) *GameState {
	return &GameState{
		TargetScore: cfg.Game.DefaultTargetScore,
		Worlds:      make(map[int]*World),
		Fleets:      make(map[int]*Fleet),
		Players:     make(map[string]*Player),
		Artifacts:   make(map[int]*Artifact),
		Seed:        seed,
		rng:         rand.New(rand.NewSource(seed)),
		cfg:         cfg,
	}
}

// Config exposes the tuning the mechanics run under.
func (gs *GameState) Config() *config.Config { return gs.cfg }

// Rand is the state-owned RNG; all random mechanics draw from it so replays
// from the same seed are deterministic.
func (gs *GameState) Rand() *rand.Rand { return gs.rng }

// PlayerByName resolves a player case-insensitively.
func (gs *GameState) PlayerByName(name string) (*Player, bool) {
	p, ok := gs.Players[strings.ToLower(name)]
	return p, ok
}

// WorldIDs returns every world ID in ascending order.
func (gs *GameState) WorldIDs() []int {
	ids := make([]int, 0, len(gs.Worlds))
	for id := range gs.Worlds {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// FleetIDs returns every fleet key in ascending order.
func (gs *GameState) FleetIDs() []int {
	ids := make([]int, 0, len(gs.Fleets))
	for id := range gs.Fleets {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// PlayerKeys returns the lower-cased player names in ascending order; the
// turn processor traverses players in this order.
func (gs *GameState) PlayerKeys() []string {
	keys := make([]string, 0, len(gs.Players))
	for k := range gs.Players {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FleetsAt returns the fleets located at a world, ordered by key.
func (gs *GameState) FleetsAt(world int) []*Fleet {
	var out []*Fleet
	for _, id := range gs.FleetIDs() {
		if f := gs.Fleets[id]; f.World == world {
			out = append(out, f)
		}
	}
	return out
}

// CargoCapacity is ships times the owner's per-ship cargo space.
func (gs *GameState) CargoCapacity(f *Fleet) int {
	mult := 1.0
	if p, ok := gs.Players[f.Owner]; ok {
		mult = gs.cfg.Character(p.Character.String()).CargoCapacityMultiplier
	}
	return int(float64(f.Ships) * mult)
}

// Hostile reports whether a considers b an enemy: not itself and not a
// declared ally.
func (gs *GameState) Hostile(a, b string) bool {
	if a == b || a == "" || b == "" {
		return false
	}
	pa, ok := gs.Players[a]
	if !ok {
		return true
	}
	return !pa.RelationWith(b).Ally
}

// AddPlayer creates a player on first JOIN: allocates a homeworld away from
// black holes and other homeworlds and outfits the starting fleets. The
// error is user-facing.
func (gs *GameState) AddPlayer(name string, character CharacterType, minutes int) (*Player, error) {
	if n := len([]rune(name)); n < 3 || n > 20 {
		return nil, fmt.Errorf("player name must be 3-20 characters")
	}
	key := strings.ToLower(name)
	if _, exists := gs.Players[key]; exists {
		return nil, fmt.Errorf("player name %q is already taken", name)
	}

	home := gs.pickHomeworld()
	if home == nil {
		return nil, fmt.Errorf("no suitable homeworld available")
	}

	hw := gs.cfg.Game.Homeworld
	home.Owner = key
	home.Key = strings.ToUpper(name)
	home.Population = hw.Population
	home.Industry = hw.Industry
	home.Mines = hw.Mines
	home.Metal = hw.Metal
	home.Limit = hw.Limit
	home.PopType = PopHuman
	if character == Berserker {
		home.PopType = PopRobot
	}
	home.Converts = 0

	granted := 0
	for _, id := range gs.FleetIDs() {
		if granted == hw.NumFleets {
			break
		}
		f := gs.Fleets[id]
		if f.Owner != "" || f.Ships > 0 {
			continue
		}
		f.Owner = key
		f.World = home.ID
		f.Ships = hw.ShipsPerFleet
		f.Cargo = 0
		granted++
	}

	p := &Player{
		Name:                  name,
		Character:             character,
		TurnPreferenceMinutes: minutes,
		Connected:             true,
		Homeworld:             home.ID,
		KnownWorlds:           make(map[int]WorldMemory),
		Relations:             make(map[string]Relation),
		PlunderCounts:         make(map[int]int),
		ConsumerDeliveries:    make(map[int]int),
	}
	gs.Players[key] = p
	return p, nil
}

// pickHomeworld finds a neutral world that is not a black hole, touches no
// black hole, and sits at least two hops from every existing homeworld.
func (gs *GameState) pickHomeworld() *World {
	var candidates []int
	for _, id := range gs.WorldIDs() {
		w := gs.Worlds[id]
		if w.Owner != "" || w.IsBlackHole || w.Key != "" || len(w.Artifacts) > 0 {
			continue
		}
		if gs.touchesBlackHole(w) {
			continue
		}
		if gs.nearHomeworld(w, 2) {
			continue
		}
		candidates = append(candidates, id)
	}
	if len(candidates) == 0 {
		return nil
	}
	return gs.Worlds[candidates[gs.rng.Intn(len(candidates))]]
}

func (gs *GameState) touchesBlackHole(w *World) bool {
	for _, n := range w.Connections {
		if gs.Worlds[n].IsBlackHole {
			return true
		}
	}
	return false
}

// nearHomeworld reports whether any existing homeworld is within the given
// hop count of w.
func (gs *GameState) nearHomeworld(w *World, hops int) bool {
	dist := map[int]int{w.ID: 0}
	queue := []int{w.ID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if gs.Worlds[id].Key != "" && id != w.ID {
			return true
		}
		if dist[id] == hops {
			continue
		}
		for _, n := range gs.Worlds[id].Connections {
			if _, seen := dist[n]; !seen {
				dist[n] = dist[id] + 1
				queue = append(queue, n)
			}
		}
	}
	return false
}

// CheckInvariants verifies every structural rule the data model promises.
// It is called after each turn resolution and when loading a snapshot.
func (gs *GameState) CheckInvariants() error {
	popByOwner := map[string]int{}
	limitByOwner := map[string]int{}

	for _, id := range gs.WorldIDs() {
		w := gs.Worlds[id]
		if w.Population < 0 || w.Industry < 0 || w.Mines < 0 || w.Metal < 0 ||
			w.IShips < 0 || w.PShips < 0 || w.Limit < 0 || w.Converts < 0 {
			return &InvariantError{Detail: fmt.Sprintf("world %d has a negative resource", id)}
		}
		if w.Population > w.Limit {
			return &InvariantError{Detail: fmt.Sprintf("world %d population %d exceeds limit %d", id, w.Population, w.Limit)}
		}
		if w.Converts > w.Population {
			return &InvariantError{Detail: fmt.Sprintf("world %d has more converts than population", id)}
		}
		if w.Owner != "" {
			if _, ok := gs.Players[w.Owner]; !ok {
				return &InvariantError{Detail: fmt.Sprintf("world %d owned by unknown player %q", id, w.Owner)}
			}
			popByOwner[w.Owner] += w.Population
			limitByOwner[w.Owner] += w.Limit
		}
		for _, n := range w.Connections {
			if _, ok := gs.Worlds[n]; !ok {
				return &InvariantError{Detail: fmt.Sprintf("world %d connects to missing world %d", id, n)}
			}
		}
	}

	for owner, pop := range popByOwner {
		if pop > limitByOwner[owner] {
			return &InvariantError{Detail: fmt.Sprintf("player %q population %d exceeds total limit %d", owner, pop, limitByOwner[owner])}
		}
	}

	if len(gs.Fleets) != gs.cfg.Game.NumFleets {
		return &InvariantError{Detail: fmt.Sprintf("fleet key count %d, want %d", len(gs.Fleets), gs.cfg.Game.NumFleets)}
	}
	for _, id := range gs.FleetIDs() {
		f := gs.Fleets[id]
		if f.Ships < 0 || f.Cargo < 0 {
			return &InvariantError{Detail: fmt.Sprintf("fleet %d has negative ships or cargo", id)}
		}
		if _, ok := gs.Worlds[f.World]; !ok {
			return &InvariantError{Detail: fmt.Sprintf("fleet %d is at missing world %d", id, f.World)}
		}
		if f.Owner != "" {
			if _, ok := gs.Players[f.Owner]; !ok {
				return &InvariantError{Detail: fmt.Sprintf("fleet %d owned by unknown player %q", id, f.Owner)}
			}
		}
	}

	seen := map[int]string{}
	for _, id := range gs.WorldIDs() {
		for _, a := range gs.Worlds[id].Artifacts {
			if where, dup := seen[a]; dup {
				return &InvariantError{Detail: fmt.Sprintf("artifact %d appears at world %d and %s", a, id, where)}
			}
			seen[a] = fmt.Sprintf("world %d", id)
		}
	}
	for _, id := range gs.FleetIDs() {
		for _, a := range gs.Fleets[id].Artifacts {
			if where, dup := seen[a]; dup {
				return &InvariantError{Detail: fmt.Sprintf("artifact %d appears on fleet %d and %s", a, id, where)}
			}
			seen[a] = fmt.Sprintf("fleet %d", id)
		}
	}
	for id := range gs.Artifacts {
		if _, ok := seen[id]; !ok {
			return &InvariantError{Detail: fmt.Sprintf("artifact %d is not placed anywhere", id)}
		}
	}
	if len(seen) != len(gs.Artifacts) {
		return &InvariantError{Detail: "placed artifact not present in artifact table"}
	}

	for _, key := range gs.PlayerKeys() {
		p := gs.Players[key]
		perFleet := map[int]int{}
		for _, o := range p.Orders {
			if o.Exclusive() {
				perFleet[o.Fleet]++
			}
		}
		for fleet, n := range perFleet {
			if n > 1 {
				return &InvariantError{Detail: fmt.Sprintf("fleet %d holds %d exclusive orders", fleet, n)}
			}
		}
	}
	return nil
}

// TotalArtifactCount counts artifacts across worlds and fleets; constant
// across turns.
func (gs *GameState) TotalArtifactCount() int {
	n := 0
	for _, w := range gs.Worlds {
		n += len(w.Artifacts)
	}
	for _, f := range gs.Fleets {
		n += len(f.Artifacts)
	}
	return n
}

// ceilDiv is ceil(a/b) for positive b.
func ceilDiv(a, b int) int {
	return int(math.Ceil(float64(a) / float64(b)))
}
