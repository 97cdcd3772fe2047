package game

import (
	"fmt"
	"strings"

	"github.com/starweb/starweb/events"
)

// Phase 8: movement. Paths execute hop by hop; a black hole ends the fleet,
// a triggered ambush ends the trip. Fleets emptied earlier in the turn stay
// where they are.
func (t *turnContext) runMovement() {
	t.forEachOrder([]OrderKind{OrderMove}, func(p *Player, o *Order) {
		key := strings.ToLower(p.Name)
		f := t.gs.Fleets[o.Fleet]
		if f == nil || f.Owner != key || f.Ships == 0 {
			return
		}
		t.moveFleet(f, o.Path)
	})
}

func (t *turnContext) moveFleet(f *Fleet, path []int) {
	origin := f.World
	var walked []int

	for _, next := range path {
		w := t.gs.Worlds[next]
		if w == nil || !t.gs.Worlds[f.World].ConnectedTo(next) {
			break
		}

		if w.IsBlackHole {
			t.destroyInBlackHole(f, next)
			return
		}

		f.World = next
		f.Moved = true
		walked = append(walked, next)

		if t.arrivalAmbushed(f) {
			break
		}
	}

	if len(walked) > 0 {
		t.emit(events.FleetMoved{
			Base:  t.base(f.World),
			Fleet: f.ID,
			Owner: f.Owner,
			From:  origin,
			To:    f.World,
			Path:  walked,
		})
	}
}

// arrivalAmbushed resolves waiting ambushers at the fleet's new world and
// reports whether the trip ends here. Ambushers hit at double strength and
// take no return fire; a fleet at peace is neither shot at nor allowed to
// slip past a waiting ambush.
func (t *turnContext) arrivalAmbushed(f *Fleet) bool {
	stopped := false
	for _, amb := range t.gs.FleetsAt(f.World) {
		if amb.ID == f.ID || amb.Ships == 0 || !amb.Ambushing || amb.AtPeace {
			continue
		}
		if amb.NoAmbushAt(f.World) {
			continue
		}
		if !t.gs.Hostile(amb.Owner, f.Owner) {
			continue
		}
		stopped = true
		if f.AtPeace {
			continue
		}

		aBefore, fBefore := amb.Ships, f.Ships
		loss := min(2*amb.Ships, f.Ships)
		f.Ships -= loss
		f.TookFire = true
		t.creditShipKills(amb.Owner, loss)
		t.clampFleetCargo(f)

		t.emit(events.Combat{
			Base:      t.base(f.World),
			Attackers: []events.Combatant{{Owner: amb.Owner, Fleet: amb.ID, ShipsBefore: aBefore, ShipsAfter: amb.Ships}},
			Defenders: []events.Combatant{{Owner: f.Owner, Fleet: f.ID, ShipsBefore: fBefore, ShipsAfter: f.Ships}},
			Ambush:    true,
			Text: fmt.Sprintf("fleet %d (%s) ambushed arriving fleet %d (%s)",
				amb.ID, amb.Owner, f.ID, f.Owner),
		})

		if f.Ships == 0 {
			break
		}
	}
	return stopped
}

// destroyInBlackHole consumes the fleet and respawns its key, artifacts
// intact, at a random safe world.
func (t *turnContext) destroyInBlackHole(f *Fleet, hole int) {
	owner := f.Owner
	respawn := t.pickRespawnWorld()

	f.Owner = ""
	f.Ships = 0
	f.Cargo = 0
	f.HasPBB = false
	f.Moved = false
	f.Ambushing = false
	f.AtPeace = false
	f.Conditional = nil
	f.World = respawn

	t.emit(events.BlackHoleDestruction{
		Base:      t.base(hole),
		Fleet:     f.ID,
		Owner:     owner,
		RespawnAt: respawn,
	})
}

func (t *turnContext) pickRespawnWorld() int {
	ids := t.gs.WorldIDs()
	var safe []int
	for _, id := range ids {
		if !t.gs.Worlds[id].IsBlackHole {
			safe = append(safe, id)
		}
	}
	return safe[t.gs.Rand().Intn(len(safe))]
}

// Phase 9: planet busters. A drop levels the world's population, industry
// and mines; homeworlds are immune and keep their bomb pristine in the
// fleet's hold.
func (t *turnContext) runPBBDrops() {
	t.forEachOrder([]OrderKind{OrderDropPBB}, func(p *Player, o *Order) {
		key := strings.ToLower(p.Name)
		f := t.gs.Fleets[o.Fleet]
		if f == nil || f.Owner != key || !f.HasPBB {
			return
		}
		w := t.gs.Worlds[f.World]
		if w.Key != "" {
			return
		}

		f.HasPBB = false
		killed := w.Population
		t.creditMartyrs(w, w.Converts)
		w.Population = 0
		w.Converts = 0
		w.Industry = 0
		w.Mines = 0
		p.PopulationKilled += killed
		p.PBBsDropped++

		t.emit(events.PBBDropped{Base: t.base(w.ID), By: key})
	})
}
