package game

import (
	"sort"
	"strings"
)

// WorldView is what one player sees of a world. TurnLastSeen is zero for a
// currently visible world and carries the age of the memory otherwise.
type WorldView struct {
	ID           int    `json:"id"`
	Key          string `json:"key,omitempty"`
	Population   int    `json:"population"`
	Converts     int    `json:"converts,omitempty"`
	Industry     int    `json:"industry"`
	Mines        int    `json:"mines"`
	Metal        int    `json:"metal"`
	Limit        int    `json:"limit"`
	IShips       int    `json:"iships"`
	PShips       int    `json:"pships"`
	Owner        string `json:"owner,omitempty"`
	Connections  []int  `json:"connections"`
	IsBlackHole  bool   `json:"is_black_hole,omitempty"`
	Artifacts    []int  `json:"artifacts,omitempty"`
	PopType      string `json:"population_type"`
	TurnLastSeen int    `json:"turn_last_seen,omitempty"`
}

// FleetView is what one player sees of a fleet. Cargo, artifacts and the
// PBB flag are disclosed only for the player's own fleets.
type FleetView struct {
	ID        int    `json:"id"`
	Owner     string `json:"owner,omitempty"`
	World     int    `json:"world"`
	Ships     int    `json:"ships"`
	Cargo     int    `json:"cargo,omitempty"`
	Artifacts []int  `json:"artifacts,omitempty"`
	HasPBB    bool   `json:"has_pbb,omitempty"`
	Moved     bool   `json:"moved,omitempty"`
	AtPeace   bool   `json:"at_peace,omitempty"`
	Ambushing bool   `json:"is_ambushing,omitempty"`
	Own       bool   `json:"own,omitempty"`
}

// RosterEntry is the public slice of another player shown in every
// projection.
type RosterEntry struct {
	Name      string `json:"name"`
	Character string `json:"character_type"`
	Score     int    `json:"score"`
	Ready     bool   `json:"ready"`
}

// Projection is the per-player view of the game streamed to clients and
// diffed by the delta engine.
type Projection struct {
	PlayerName string            `json:"player_name"`
	Character  string            `json:"character_type"`
	Score      int               `json:"score"`
	GameTurn   int               `json:"game_turn"`
	Worlds     map[int]WorldView `json:"worlds"`
	Fleets     []FleetView       `json:"fleets"`
	Orders     []string          `json:"orders"`
	Players    []RosterEntry     `json:"players"`
}

func worldView(w *World) WorldView {
	return WorldView{
		ID:          w.ID,
		Key:         w.Key,
		Population:  w.Population,
		Converts:    w.Converts,
		Industry:    w.Industry,
		Mines:       w.Mines,
		Metal:       w.Metal,
		Limit:       w.Limit,
		IShips:      w.IShips,
		PShips:      w.PShips,
		Owner:       w.Owner,
		Connections: cloneInts(w.Connections),
		IsBlackHole: w.IsBlackHole,
		Artifacts:   cloneInts(w.Artifacts),
		PopType:     w.PopType.String(),
	}
}

// VisibleWorlds returns the set of world IDs the player can currently see:
// owned worlds, worlds with an own fleet present, and worlds touched by a
// migration or probe this turn.
func (gs *GameState) VisibleWorlds(p *Player) map[int]bool {
	key := strings.ToLower(p.Name)
	visible := make(map[int]bool)
	for id, w := range gs.Worlds {
		if w.Owner == key {
			visible[id] = true
		}
	}
	for _, f := range gs.Fleets {
		if f.Owner == key {
			visible[f.World] = true
		}
	}
	for id := range p.TempVisible {
		if _, ok := gs.Worlds[id]; ok {
			visible[id] = true
		}
	}
	return visible
}

// Project computes the player's full view of the game.
func (gs *GameState) Project(p *Player) *Projection {
	key := strings.ToLower(p.Name)
	visible := gs.VisibleWorlds(p)

	proj := &Projection{
		PlayerName: p.Name,
		Character:  p.Character.String(),
		Score:      p.Score(),
		GameTurn:   gs.Turn,
		Worlds:     make(map[int]WorldView),
	}

	for _, id := range gs.WorldIDs() {
		if visible[id] {
			proj.Worlds[id] = worldView(gs.Worlds[id])
			continue
		}
		if mem, ok := p.KnownWorlds[id]; ok {
			view := mem.Snapshot
			view.TurnLastSeen = mem.TurnLastSeen
			proj.Worlds[id] = view
		}
	}

	for _, id := range gs.FleetIDs() {
		f := gs.Fleets[id]
		own := f.Owner == key
		if !own && !visible[f.World] {
			continue
		}
		if !own && f.Ships == 0 && f.Owner == "" {
			// Idle unowned keys are not worth showing.
			continue
		}
		view := FleetView{
			ID:    f.ID,
			Owner: f.Owner,
			World: f.World,
			Ships: f.Ships,
			Moved: f.Moved,
			Own:   own,
		}
		if own {
			view.Cargo = f.Cargo
			view.Artifacts = cloneInts(f.Artifacts)
			view.HasPBB = f.HasPBB
			view.AtPeace = f.AtPeace
			view.Ambushing = f.Ambushing
		}
		proj.Fleets = append(proj.Fleets, view)
	}

	for _, o := range p.Orders {
		proj.Orders = append(proj.Orders, o.Normalized())
	}

	for _, k := range gs.PlayerKeys() {
		other := gs.Players[k]
		proj.Players = append(proj.Players, RosterEntry{
			Name:      other.Name,
			Character: other.Character.String(),
			Score:     other.Score(),
			Ready:     other.Ready,
		})
	}
	sort.Slice(proj.Players, func(i, j int) bool { return proj.Players[i].Name < proj.Players[j].Name })

	return proj
}

// RememberVisible refreshes the player's world memories for everything
// currently visible. Called at the end of each turn resolution.
func (gs *GameState) RememberVisible(p *Player) {
	for id := range gs.VisibleWorlds(p) {
		p.KnownWorlds[id] = WorldMemory{
			Snapshot:     worldView(gs.Worlds[id]),
			TurnLastSeen: gs.Turn,
		}
	}
}
