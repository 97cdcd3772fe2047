package game

import (
	"fmt"
	"strings"

	"github.com/starweb/starweb/events"
)

// TurnResult is what the engine gets back from a turn resolution. Events
// are buffered during the phases and handed over only once the world has
// stopped changing, so observers see a stable state.
type TurnResult struct {
	Turn       int
	Events     []events.Event
	Winner     string
	RolledBack bool
	Err        error
}

// turnContext carries the per-turn scratch data the phases share.
type turnContext struct {
	gs     *GameState
	events []events.Event

	// Scoring trackers consumed by the scoring phase.
	merchantMetal map[string]map[int]int // player -> world -> credited units
	consumer      []consumerDelivery     // consumer-goods ladder hits this turn
	plunders      []plunderRecord        // plunder ladder hits this turn
}

type consumerDelivery struct {
	player string
	world  int
	nth    int // 1-based delivery count on that world over game history
}

type plunderRecord struct {
	player string
	world  int
	nth    int
}

func (t *turnContext) emit(e events.Event) {
	t.events = append(t.events, e)
}

func (t *turnContext) base(world int) events.Base {
	return events.Base{World: world, Turn: t.gs.Turn}
}

// forEachOrder traverses queued orders of the given kinds in deterministic
// order: player name ascending, then queue position.
func (t *turnContext) forEachOrder(kinds []OrderKind, fn func(p *Player, o *Order)) {
	for _, key := range t.gs.PlayerKeys() {
		p := t.gs.Players[key]
		for _, o := range p.OrdersOfKind(kinds...) {
			fn(p, o)
		}
	}
}

// ProcessTurn runs the ordered phase pipeline over every queued order.
// A failed invariant check aborts the turn: the state rolls back to the
// pre-turn snapshot and the result reports the error.
func (gs *GameState) ProcessTurn() *TurnResult {
	pre := gs.Snapshot()
	gs.Turn++

	// Last turn's one-shot state expires now that new orders resolve.
	for _, key := range gs.PlayerKeys() {
		gs.Players[key].TempVisible = nil
	}
	for _, id := range gs.FleetIDs() {
		f := gs.Fleets[id]
		f.Moved = false
		f.Ambushing = false
		f.AtPeace = false
		f.Conditional = nil
		f.NoAmbushGlobal = false
		f.NoAmbushWorlds = nil
		f.TookFire = false
	}

	t := &turnContext{gs: gs, merchantMetal: make(map[string]map[int]int)}

	phases := []struct {
		name string
		run  func(*turnContext)
	}{
		{"diplomacy", (*turnContext).runDiplomacy},
		{"gifts", (*turnContext).runGifts},
		{"transfers", (*turnContext).runTransfers},
		{"builds", (*turnContext).runBuilds},
		{"cargo", (*turnContext).runCargo},
		{"migration", (*turnContext).runMigration},
		{"fire", (*turnContext).runFire},
		{"movement", (*turnContext).runMovement},
		{"pbb", (*turnContext).runPBBDrops},
		{"production", (*turnContext).runProduction},
		{"ownership", (*turnContext).runOwnership},
		{"scoring", (*turnContext).runScoring},
	}

	for _, phase := range phases {
		phase.run(t)
		if err := gs.CheckInvariants(); err != nil {
			gs.Restore(pre)
			return &TurnResult{
				Turn:       gs.Turn,
				RolledBack: true,
				Err:        fmt.Errorf("phase %s: %w", phase.name, err),
			}
		}
	}

	for _, key := range gs.PlayerKeys() {
		p := gs.Players[key]
		p.ClearOrders()
		p.Ready = false
		gs.RememberVisible(p)
	}

	t.emit(events.TurnProcessed{Base: t.base(0), Winner: gs.Winner})

	return &TurnResult{Turn: gs.Turn, Events: t.events, Winner: gs.Winner}
}

// Phase 1: diplomacy. Relations take effect before anything fires this
// turn.
func (t *turnContext) runDiplomacy() {
	t.forEachOrder([]OrderKind{OrderDeclareRelation}, func(p *Player, o *Order) {
		target, ok := t.gs.PlayerByName(o.Name)
		if !ok {
			return
		}
		key := strings.ToLower(target.Name)
		rel := p.Relations[key]
		switch o.Relation {
		case RelAlly:
			rel.Ally = true
		case RelLoader:
			rel.Loader = true
		case RelUnloader:
			rel.Loader = false
		case RelJihad:
			rel.Jihad = true
		case RelUnally:
			rel.Ally = false
			rel.Jihad = false
		}
		p.Relations[key] = rel
	})
}

// Phase 2: gifts. Ownership moves before transfers and builds so the new
// owner's turn orders cannot exploit the old owner's assets.
func (t *turnContext) runGifts() {
	t.forEachOrder([]OrderKind{OrderGiftFleet, OrderGiftWorld}, func(p *Player, o *Order) {
		key := strings.ToLower(p.Name)
		target, ok := t.gs.PlayerByName(o.Name)
		if !ok {
			return
		}
		targetKey := strings.ToLower(target.Name)
		if targetKey == key {
			return
		}
		switch o.Kind {
		case OrderGiftFleet:
			f := t.gs.Fleets[o.Fleet]
			if f == nil || f.Owner != key {
				return
			}
			f.Owner = targetKey
			t.clampFleetCargo(f)
		case OrderGiftWorld:
			w := t.gs.Worlds[o.World]
			if w == nil || w.Owner != key || w.Key != "" {
				return
			}
			w.Owner = targetKey
			t.emit(events.WorldCaptured{Base: t.base(w.ID), NewOwner: targetKey, OldOwner: key})
		}
	})
}

// clampFleetCargo enforces the new owner's cargo capacity, jettisoning the
// excess with an event.
func (t *turnContext) clampFleetCargo(f *Fleet) {
	capacity := t.gs.CargoCapacity(f)
	if f.Cargo > capacity {
		excess := f.Cargo - capacity
		f.Cargo = capacity
		t.emit(events.CargoJettisoned{Base: t.base(f.World), Fleet: f.ID, Owner: f.Owner, Amount: excess})
	}
}
