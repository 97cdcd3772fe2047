package events

// Kind identifies an event type on the bus and in client frames.
type Kind string

const (
	KindFleetMoved           Kind = "fleet_moved"
	KindCombat               Kind = "combat"
	KindWorldCaptured        Kind = "world_captured"
	KindProduction           Kind = "production"
	KindBuild                Kind = "build"
	KindPlayerJoined         Kind = "player_joined"
	KindTurnProcessed        Kind = "turn_processed"
	KindCargoJettisoned      Kind = "cargo_jettisoned"
	KindArtifactTransferred  Kind = "artifact_transferred"
	KindPBBDropped           Kind = "pbb_dropped"
	KindBlackHoleDestruction Kind = "black_hole_destruction"
	KindConversionOccurred   Kind = "conversion_occurred"
	KindPlunderOccurred      Kind = "plunder_occurred"
)

// Event is anything that can be published on the bus. World is the location
// the event is visible at (0 when the event is global); Observers may name
// players who must be told regardless of visibility.
type Event interface {
	Kind() Kind
	Location() int
}

// Base carries the fields shared by every event.
type Base struct {
	World int `json:"world,omitempty"`
	Turn  int `json:"turn"`
}

func (b Base) Location() int { return b.World }

// Combatant is one side's fleet or garrison in a combat report.
type Combatant struct {
	Owner       string `json:"owner"`
	Fleet       int    `json:"fleet,omitempty"` // 0 for world garrisons
	ShipsBefore int    `json:"ships_before"`
	ShipsAfter  int    `json:"ships_after"`
}

// FleetMoved is emitted for each completed fleet relocation.
type FleetMoved struct {
	Base
	Fleet int    `json:"fleet"`
	Owner string `json:"owner"`
	From  int    `json:"from"`
	To    int    `json:"to"`
	Path  []int  `json:"path"`
}

func (FleetMoved) Kind() Kind { return KindFleetMoved }

// Combat reports one fire-phase exchange with the full roster.
type Combat struct {
	Base
	Attackers []Combatant `json:"attackers"`
	Defenders []Combatant `json:"defenders"`
	Target    string      `json:"target,omitempty"` // I, P, H, C or fleet
	Ambush    bool        `json:"ambush,omitempty"`
	Text      string      `json:"text"`
}

func (Combat) Kind() Kind { return KindCombat }

// WorldCaptured is emitted when ownership of a world changes hands.
type WorldCaptured struct {
	Base
	NewOwner string `json:"new_owner,omitempty"`
	OldOwner string `json:"old_owner,omitempty"`
}

func (WorldCaptured) Kind() Kind { return KindWorldCaptured }

// Production summarizes one world's production phase.
type Production struct {
	Base
	Owner      string `json:"owner"`
	Metal      int    `json:"metal"`
	PopGrowth  int    `json:"pop_growth"`
}

func (Production) Kind() Kind { return KindProduction }

// Build reports a completed build order.
type Build struct {
	Base
	Owner string `json:"owner"`
	What  string `json:"what"`
	Count int    `json:"count"`
}

func (Build) Kind() Kind { return KindBuild }

// PlayerJoined announces a new player.
type PlayerJoined struct {
	Base
	Name      string `json:"name"`
	Character string `json:"character"`
}

func (PlayerJoined) Kind() Kind { return KindPlayerJoined }

// TurnProcessed marks the end of a turn resolution.
type TurnProcessed struct {
	Base
	Winner string `json:"winner,omitempty"`
}

func (TurnProcessed) Kind() Kind { return KindTurnProcessed }

// CargoJettisoned reports cargo lost overboard, including capacity overflow
// during ship transfers.
type CargoJettisoned struct {
	Base
	Fleet  int    `json:"fleet"`
	Owner  string `json:"owner"`
	Amount int    `json:"amount"`
}

func (CargoJettisoned) Kind() Kind { return KindCargoJettisoned }

// ArtifactTransferred reports an artifact changing carrier.
type ArtifactTransferred struct {
	Base
	Artifact int    `json:"artifact"`
	Name     string `json:"name"`
	From     string `json:"from"`
	To       string `json:"to"`
}

func (ArtifactTransferred) Kind() Kind { return KindArtifactTransferred }

// PBBDropped reports a planet buster detonation.
type PBBDropped struct {
	Base
	By string `json:"by"`
}

func (PBBDropped) Kind() Kind { return KindPBBDropped }

// BlackHoleDestruction reports a fleet lost to a black hole and where its
// key respawned.
type BlackHoleDestruction struct {
	Base
	Fleet     int    `json:"fleet"`
	Owner     string `json:"owner"`
	RespawnAt int    `json:"respawn_at"`
}

func (BlackHoleDestruction) Kind() Kind { return KindBlackHoleDestruction }

// ConversionOccurred reports population converted on an Apostle world.
type ConversionOccurred struct {
	Base
	Owner string `json:"owner"`
	Count int    `json:"count"`
}

func (ConversionOccurred) Kind() Kind { return KindConversionOccurred }

// PlunderOccurred reports a pirate raid.
type PlunderOccurred struct {
	Base
	By     string `json:"by"`
	Amount int    `json:"amount"`
}

func (PlunderOccurred) Kind() Kind { return KindPlunderOccurred }
