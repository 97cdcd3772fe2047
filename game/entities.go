package game

import "strings"

// CharacterType selects a player's scoring rules and special abilities.
type CharacterType int

const (
	EmpireBuilder CharacterType = iota
	Merchant
	Pirate
	ArtifactCollector
	Berserker
	Apostle
)

var characterNames = [...]string{
	"EmpireBuilder",
	"Merchant",
	"Pirate",
	"ArtifactCollector",
	"Berserker",
	"Apostle",
}

func (c CharacterType) String() string {
	if c < 0 || int(c) >= len(characterNames) {
		return "Unknown"
	}
	return characterNames[c]
}

// ParseCharacter resolves a character name case-insensitively.
func ParseCharacter(s string) (CharacterType, bool) {
	for i, name := range characterNames {
		if strings.EqualFold(s, name) {
			return CharacterType(i), true
		}
	}
	return 0, false
}

// PopulationType describes the base population stock of a world.
type PopulationType int

const (
	PopHuman PopulationType = iota
	PopRobot
)

func (p PopulationType) String() string {
	if p == PopRobot {
		return "robot"
	}
	return "human"
}

// Relation is one player's declared stance toward another. Ally shares
// nothing mechanical beyond peace at ambushes, Loader permits cargo loading
// at the declarer's worlds, Jihad marks a holy war target.
type Relation struct {
	Ally   bool `json:"ally"`
	Loader bool `json:"loader"`
	Jihad  bool `json:"jihad"`
}

// ScoreEntry is one ledger line. A player's score is always the sum of its
// ledger; nothing writes Score directly.
type ScoreEntry struct {
	Turn   int    `json:"turn"`
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

// WorldMemory is the last projection of a world a player saw, kept so
// remembered worlds can be shown with their age.
type WorldMemory struct {
	Snapshot     WorldView `json:"snapshot"`
	TurnLastSeen int       `json:"turn_last_seen"`
}

// Player is a joined participant. The map key in GameState.Players is the
// lower-cased name; Name preserves the case used at JOIN.
type Player struct {
	Name                  string              `json:"name"`
	Character             CharacterType       `json:"character"`
	Ready                 bool                `json:"ready"`
	TurnPreferenceMinutes int                 `json:"turn_preference_minutes"`
	Connected             bool                `json:"connected"`
	Homeworld             int                 `json:"homeworld"`
	Orders                []*Order            `json:"orders"`
	KnownWorlds           map[int]WorldMemory `json:"known_worlds"`
	Relations             map[string]Relation `json:"relations"`

	// Ledger and the lifetime counters scoring needs.
	// Worlds granted one-turn visibility by migration or probes.
	TempVisible map[int]bool `json:"temp_visible,omitempty"`

	Ledger             []ScoreEntry `json:"ledger"`
	PlunderCounts      map[int]int  `json:"plunder_counts"`       // world -> times plundered, game history
	ConsumerDeliveries map[int]int  `json:"consumer_deliveries"`  // world -> deliveries, game history

	// Per-turn scoring counters, reset when a turn completes.
	PopulationKilled int `json:"-"`
	ShipsDestroyed   int `json:"-"`
	PBBsDropped      int `json:"-"`
	MartyrsLost      int `json:"-"`
}

// Score is the replayed ledger total.
func (p *Player) Score() int {
	total := 0
	for _, e := range p.Ledger {
		total += e.Points
	}
	return total
}

// AddScore appends a ledger entry. Zero-point entries are dropped so the
// ledger stays readable.
func (p *Player) AddScore(turn, points int, reason string) {
	if points == 0 {
		return
	}
	p.Ledger = append(p.Ledger, ScoreEntry{Turn: turn, Points: points, Reason: reason})
}

// RelationWith returns this player's declared stance toward the named player.
func (p *Player) RelationWith(name string) Relation {
	return p.Relations[strings.ToLower(name)]
}

// World is one node of the map. Owner is the lower-cased name of the owning
// player, or empty for neutral worlds.
type World struct {
	ID          int            `json:"id"`
	Key         string         `json:"key,omitempty"`
	Population  int            `json:"population"`
	Converts    int            `json:"converts"`
	Industry    int            `json:"industry"`
	Mines       int            `json:"mines"`
	Metal       int            `json:"metal"`
	Limit       int            `json:"limit"`
	IShips      int            `json:"iships"`
	PShips      int            `json:"pships"`
	Owner       string         `json:"owner,omitempty"`
	Connections []int          `json:"connections"`
	IsBlackHole bool           `json:"is_black_hole,omitempty"`
	Artifacts   []int          `json:"artifacts,omitempty"`
	PopType     PopulationType `json:"population_type"`
}

// ConnectedTo reports whether the two worlds share an edge.
func (w *World) ConnectedTo(id int) bool {
	for _, c := range w.Connections {
		if c == id {
			return true
		}
	}
	return false
}

// FullyConvert reports whether every inhabitant has been converted.
func (w *World) FullyConvert() bool {
	return w.Population > 0 && w.Converts >= w.Population
}

// ConditionalTarget is the armed target of a conditional-fire order.
type ConditionalTarget struct {
	Kind  TargetKind `json:"kind"`
	Fleet int        `json:"fleet,omitempty"`
}

// Fleet is one of the fixed set of fleet keys. A key always exists; a
// "destroyed" fleet has zero ships and may be re-homed.
type Fleet struct {
	ID        int    `json:"id"`
	Owner     string `json:"owner,omitempty"`
	World     int    `json:"world"`
	Ships     int    `json:"ships"`
	Cargo     int    `json:"cargo"`
	Artifacts []int  `json:"artifacts,omitempty"`
	HasPBB    bool   `json:"has_pbb,omitempty"`

	// Per-turn state, cleared after each turn resolution.
	Moved          bool               `json:"moved,omitempty"`
	Ambushing      bool               `json:"is_ambushing,omitempty"`
	AtPeace        bool               `json:"at_peace,omitempty"`
	Conditional    *ConditionalTarget `json:"conditional_fire,omitempty"`
	NoAmbushGlobal bool               `json:"no_ambush,omitempty"`
	NoAmbushWorlds []int              `json:"no_ambush_worlds,omitempty"`
	TookFire       bool               `json:"-"`
}

// NoAmbushAt reports whether this fleet's ambush is suppressed at a world.
func (f *Fleet) NoAmbushAt(world int) bool {
	if f.NoAmbushGlobal {
		return true
	}
	for _, w := range f.NoAmbushWorlds {
		if w == world {
			return true
		}
	}
	return false
}

// Artifact is a scoring token. Effect is reserved metadata: serialized,
// never consulted by mechanics.
type Artifact struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
	Effect string `json:"effect,omitempty"`
}
