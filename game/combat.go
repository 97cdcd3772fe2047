package game

import (
	"fmt"
	"strings"

	"github.com/starweb/starweb/events"
)

// Phase 7: fire. Stance orders (ambush, peace, conditional arming) are
// applied first so they are in force for this turn's exchanges, then direct
// fire resolves, then armed conditional fleets that took fire shoot back in
// one pass.
func (t *turnContext) runFire() {
	t.applyStances()

	// A volley between two fleets resolves once per turn no matter how many
	// reciprocal orders name the pair; both sides already shoot in it.
	exchanged := make(map[[2]int]bool)

	t.forEachOrder([]OrderKind{OrderFireAtFleet, OrderFireAtTarget, OrderRobotAttack}, func(p *Player, o *Order) {
		key := strings.ToLower(p.Name)
		f := t.gs.Fleets[o.Fleet]
		if f == nil || f.Owner != key || f.Ships == 0 {
			return
		}
		switch o.Kind {
		case OrderFireAtFleet:
			tgt := t.gs.Fleets[o.Target]
			if tgt == nil || tgt.Owner == key || tgt.Ships == 0 || tgt.World != f.World {
				return
			}
			pair := [2]int{min(f.ID, tgt.ID), max(f.ID, tgt.ID)}
			if exchanged[pair] {
				return
			}
			exchanged[pair] = true
			t.fleetExchange(f, tgt)
		case OrderFireAtTarget:
			t.fireAtWorld(p, f, o.TKind)
		case OrderRobotAttack:
			t.robotAttack(p, f, o.Amount)
		}
	})

	t.runConditionalFire()
}

func (t *turnContext) applyStances() {
	t.forEachOrder([]OrderKind{
		OrderAmbush, OrderNoAmbush, OrderPeace, OrderNotPeace, OrderConditionalFire,
	}, func(p *Player, o *Order) {
		key := strings.ToLower(p.Name)

		if o.Kind == OrderNoAmbush {
			// Player-wide scope: every fleet the player owns stands down,
			// globally or at the one named world.
			for _, id := range t.gs.FleetIDs() {
				f := t.gs.Fleets[id]
				if f.Owner != key {
					continue
				}
				if o.World > 0 {
					f.NoAmbushWorlds = append(f.NoAmbushWorlds, o.World)
				} else {
					f.NoAmbushGlobal = true
				}
			}
			return
		}

		f := t.gs.Fleets[o.Fleet]
		if f == nil || f.Owner != key {
			return
		}
		switch o.Kind {
		case OrderAmbush:
			if f.Ships > 0 {
				f.Ambushing = true
			}
		case OrderPeace:
			f.AtPeace = true
		case OrderNotPeace:
			f.AtPeace = false
		case OrderConditionalFire:
			if f.Ships > 0 {
				f.Conditional = &ConditionalTarget{Kind: o.TKind, Fleet: o.Target}
			}
		}
	})
}

// fleetExchange resolves one fleet-vs-fleet volley: both sides shoot with
// their pre-volley strength, casualties land simultaneously.
func (t *turnContext) fleetExchange(a, d *Fleet) {
	aBefore, dBefore := a.Ships, d.Ships
	dLoss := min(ceilDiv(aBefore, 2), dBefore)
	aLoss := min(ceilDiv(dBefore, 2), aBefore)
	a.Ships -= aLoss
	d.Ships -= dLoss
	a.TookFire = true
	d.TookFire = true
	t.creditShipKills(a.Owner, dLoss)
	t.creditShipKills(d.Owner, aLoss)
	t.clampFleetCargo(a)
	t.clampFleetCargo(d)

	t.emit(events.Combat{
		Base:      t.base(a.World),
		Attackers: []events.Combatant{{Owner: a.Owner, Fleet: a.ID, ShipsBefore: aBefore, ShipsAfter: a.Ships}},
		Defenders: []events.Combatant{{Owner: d.Owner, Fleet: d.ID, ShipsBefore: dBefore, ShipsAfter: d.Ships}},
		Text: fmt.Sprintf("fleet %d (%s) and fleet %d (%s) exchanged fire",
			a.ID, a.Owner, d.ID, d.Owner),
	})
}

// fireAtWorld sends a fleet's volley against the world beneath it. The
// defensive screen soaks shots first, the remainder lands on the named
// target; the whole garrison returns fire once.
func (t *turnContext) fireAtWorld(p *Player, f *Fleet, target TargetKind) {
	key := strings.ToLower(p.Name)
	w := t.gs.Worlds[f.World]
	if w.Owner == key {
		return
	}
	if target == TargetHome && w.Key == "" {
		return
	}

	shots := ceilDiv(f.Ships, 2)
	garrison := w.IShips + w.PShips
	fBefore := f.Ships
	iBefore, pBefore := w.IShips, w.PShips

	switch target {
	case TargetIShips:
		hit := min(shots, w.IShips)
		w.IShips -= hit
		shots -= hit
		t.creditShipKills(key, hit)
		if shots > 0 {
			w.Industry -= min(shots, w.Industry)
		}
	case TargetPShips:
		hit := min(shots, w.PShips)
		w.PShips -= hit
		shots -= hit
		t.creditShipKills(key, hit)
		if shots > 0 {
			t.killPopulation(p, w, shots)
		}
	case TargetHome:
		hit := min(shots, w.PShips)
		w.PShips -= hit
		shots -= hit
		t.creditShipKills(key, hit)
		hit = min(shots, w.IShips)
		w.IShips -= hit
		shots -= hit
		t.creditShipKills(key, hit)
		// Overflow rakes the owner's fleets in dock, then the population.
		for _, df := range t.gs.FleetsAt(w.ID) {
			if shots == 0 {
				break
			}
			if df.Owner != w.Owner || df.Ships == 0 {
				continue
			}
			hit = min(shots, df.Ships)
			df.Ships -= hit
			df.TookFire = true
			shots -= hit
			t.creditShipKills(key, hit)
			t.clampFleetCargo(df)
		}
		if shots > 0 {
			t.killPopulation(p, w, shots)
		}
	case TargetConverts:
		lost := min(shots, w.Converts)
		w.Converts -= lost
		t.creditMartyrs(w, lost)
		t.killRawPopulation(p, w, lost)
	}

	// Return fire from whatever garrison the world fielded this volley.
	ret := min(ceilDiv(garrison, 2), f.Ships)
	f.Ships -= ret
	f.TookFire = true
	if w.Owner != "" {
		t.creditShipKills(w.Owner, ret)
	}
	t.clampFleetCargo(f)

	t.emit(events.Combat{
		Base:      t.base(w.ID),
		Attackers: []events.Combatant{{Owner: key, Fleet: f.ID, ShipsBefore: fBefore, ShipsAfter: f.Ships}},
		Defenders: []events.Combatant{
			{Owner: w.Owner, ShipsBefore: iBefore + pBefore, ShipsAfter: w.IShips + w.PShips},
		},
		Target: string(target),
		Text:   fmt.Sprintf("fleet %d (%s) bombarded world %d", f.ID, key, w.ID),
	})
}

// robotAttack spends fleet ships as assault robots that kill population one
// for one. The world does not return fire; the robots are expended.
func (t *turnContext) robotAttack(p *Player, f *Fleet, amount int) {
	key := strings.ToLower(p.Name)
	if p.Character != Berserker {
		return
	}
	w := t.gs.Worlds[f.World]
	if w.Owner == key {
		return
	}
	n := min(amount, f.Ships)
	if n < 1 {
		return
	}
	fBefore := f.Ships
	f.Ships -= n
	t.clampFleetCargo(f)
	killed := min(n, w.Population)
	t.killPopulation(p, w, killed)

	t.emit(events.Combat{
		Base:      t.base(w.ID),
		Attackers: []events.Combatant{{Owner: key, Fleet: f.ID, ShipsBefore: fBefore, ShipsAfter: f.Ships}},
		Defenders: []events.Combatant{{Owner: w.Owner}},
		Text:      fmt.Sprintf("fleet %d (%s) landed %d robots on world %d", f.ID, key, n, w.ID),
	})
}

// runConditionalFire triggers armed fleets that took incoming fire. The
// trigger set is fixed before anything shoots so this pass cannot cascade.
func (t *turnContext) runConditionalFire() {
	var triggered []int
	for _, id := range t.gs.FleetIDs() {
		f := t.gs.Fleets[id]
		if f.Conditional != nil && f.TookFire && f.Ships > 0 && f.Owner != "" {
			triggered = append(triggered, id)
		}
	}
	for _, id := range triggered {
		f := t.gs.Fleets[id]
		if f.Ships == 0 {
			continue
		}
		p := t.gs.Players[f.Owner]
		cond := f.Conditional
		if cond.Kind == TargetFleet {
			tgt := t.gs.Fleets[cond.Fleet]
			if tgt == nil || tgt.Owner == f.Owner || tgt.Ships == 0 || tgt.World != f.World {
				continue
			}
			t.fleetExchange(f, tgt)
			continue
		}
		t.fireAtWorld(p, f, cond.Kind)
	}
}

// killPopulation removes population (converts included, pro-rata from the
// top) and books the kills to the attacker.
func (t *turnContext) killPopulation(p *Player, w *World, n int) {
	killed := min(n, w.Population)
	if killed < 1 {
		return
	}
	w.Population -= killed
	if w.Converts > w.Population {
		t.creditMartyrs(w, w.Converts-w.Population)
		w.Converts = w.Population
	}
	p.PopulationKilled += killed
}

// killRawPopulation removes already-counted convert deaths from the base
// population without re-clamping converts.
func (t *turnContext) killRawPopulation(p *Player, w *World, n int) {
	killed := min(n, w.Population)
	if killed < 1 {
		return
	}
	w.Population -= killed
	p.PopulationKilled += killed
}

func (t *turnContext) creditShipKills(owner string, n int) {
	if n < 1 {
		return
	}
	if p, ok := t.gs.Players[owner]; ok {
		p.ShipsDestroyed += n
	}
}
