package game

import "github.com/starweb/starweb/events"

// Phase 11: ownership. Depopulated worlds go neutral, occupying fleets take
// undefended populated worlds, stranded empty fleets change hands, and
// pirates press outnumbered crews into service.
func (t *turnContext) runOwnership() {
	for _, id := range t.gs.WorldIDs() {
		w := t.gs.Worlds[id]
		if w.IsBlackHole {
			continue
		}

		if w.Owner != "" && w.Population == 0 {
			old := w.Owner
			w.Owner = ""
			t.emit(events.WorldCaptured{Base: t.base(w.ID), OldOwner: old})
		}

		t.resolveCapture(w)
	}

	t.captureEmptyFleets()
	t.pirateCaptures()
}

// resolveCapture hands the world to the first player holding it unopposed:
// armed fleets present and not at peace, no hostile garrison, no hostile
// armed fleet alongside, and people to govern. A standing owner keeps the
// world while any of its fleets remain in orbit.
func (t *turnContext) resolveCapture(w *World) {
	if w.Population == 0 {
		return
	}
	fleets := t.gs.FleetsAt(w.ID)

	for _, key := range t.gs.PlayerKeys() {
		if key == w.Owner {
			continue
		}

		present := false
		contested := false
		for _, f := range fleets {
			if f.Ships == 0 {
				continue
			}
			if f.Owner == key {
				if !f.AtPeace {
					present = true
				}
				continue
			}
			if t.gs.Hostile(key, f.Owner) && !f.AtPeace {
				contested = true
			}
		}
		if !present || contested {
			continue
		}
		if t.gs.Hostile(key, w.Owner) && w.IShips+w.PShips > 0 {
			continue
		}

		old := w.Owner
		w.Owner = key
		t.emit(events.WorldCaptured{Base: t.base(w.ID), NewOwner: key, OldOwner: old})
		return
	}
}

// captureEmptyFleets hands dead keys to whoever holds the field over them.
func (t *turnContext) captureEmptyFleets() {
	for _, id := range t.gs.FleetIDs() {
		f := t.gs.Fleets[id]
		if f.Owner == "" || f.Ships > 0 {
			continue
		}
		for _, other := range t.gs.FleetsAt(f.World) {
			if other.Ships > 0 && t.gs.Hostile(other.Owner, f.Owner) {
				f.Owner = other.Owner
				f.Cargo = 0
				f.HasPBB = false
				break
			}
		}
	}
}

// pirateCaptures flips enemy fleets wherever a pirate outguns an owner by
// the configured ratio.
func (t *turnContext) pirateCaptures() {
	for _, key := range t.gs.PlayerKeys() {
		p := t.gs.Players[key]
		if p.Character != Pirate {
			continue
		}
		ratio := t.gs.Config().Character(p.Character.String()).CaptureRatio
		if ratio <= 0 {
			continue
		}

		// Pirate strength and enemy strength per world.
		own := make(map[int]int)
		enemy := make(map[int]map[string]int)
		for _, id := range t.gs.FleetIDs() {
			f := t.gs.Fleets[id]
			if f.Ships == 0 {
				continue
			}
			if f.Owner == key {
				own[f.World] += f.Ships
			} else if t.gs.Hostile(key, f.Owner) {
				if enemy[f.World] == nil {
					enemy[f.World] = make(map[string]int)
				}
				enemy[f.World][f.Owner] += f.Ships
			}
		}

		for _, id := range t.gs.FleetIDs() {
			f := t.gs.Fleets[id]
			if f.Ships == 0 || f.Owner == key || !t.gs.Hostile(key, f.Owner) {
				continue
			}
			strength := own[f.World]
			victim := enemy[f.World][f.Owner]
			if strength == 0 || victim == 0 || float64(strength) < ratio*float64(victim) {
				continue
			}
			f.Owner = key
			t.clampFleetCargo(f)
		}
	}
}
