package game

import (
	"strings"

	"github.com/starweb/starweb/events"
)

// Phase 3: ship and artifact transfers. Ship transfers carry cargo
// proportionally; whatever the receiver cannot hold goes overboard with a
// jettison event for both owners to see.
func (t *turnContext) runTransfers() {
	t.forEachOrder([]OrderKind{OrderTransferShips}, func(p *Player, o *Order) {
		t.transferShips(p, o)
	})
	t.forEachOrder([]OrderKind{OrderTransferArtifact}, func(p *Player, o *Order) {
		t.transferArtifact(p, o)
	})
}

func (t *turnContext) transferShips(p *Player, o *Order) {
	key := strings.ToLower(p.Name)
	f := t.gs.Fleets[o.Fleet]
	if f == nil || f.Owner != key || f.Ships == 0 {
		return
	}
	n := o.Amount
	if n > f.Ships {
		n = f.Ships
	}
	if n < 1 {
		return
	}

	switch o.TKind {
	case TargetFleet:
		dst := t.gs.Fleets[o.Target]
		if dst == nil || dst.Owner != key || dst.World != f.World || dst.ID == f.ID {
			return
		}
		moved := f.Cargo * n / f.Ships
		f.Ships -= n
		f.Cargo -= moved
		dst.Ships += n
		dst.Cargo += moved
		t.clampFleetCargo(dst)
		t.clampFleetCargo(f)

	case TargetIShips, TargetPShips:
		w := t.gs.Worlds[f.World]
		if w.Owner != key {
			return
		}
		moved := f.Cargo * n / f.Ships
		f.Ships -= n
		f.Cargo -= moved
		if o.TKind == TargetIShips {
			w.IShips += n
		} else {
			w.PShips += n
		}
		// Garrisons have no holds; the cargo riding along is lost.
		if moved > 0 {
			t.emit(events.CargoJettisoned{Base: t.base(w.ID), Fleet: f.ID, Owner: key, Amount: moved})
		}
		t.clampFleetCargo(f)
	}
}

func (t *turnContext) transferArtifact(p *Player, o *Order) {
	key := strings.ToLower(p.Name)
	a := t.gs.Artifacts[o.Artifact]
	if a == nil {
		return
	}

	var location int
	var detach func() bool
	if o.FromWorld {
		w := t.gs.Worlds[o.World]
		if w == nil || w.Owner != key || !containsInt(w.Artifacts, a.ID) {
			return
		}
		location = w.ID
		detach = func() bool {
			w.Artifacts = removeInt(w.Artifacts, a.ID)
			return true
		}
	} else {
		f := t.gs.Fleets[o.Fleet]
		if f == nil || f.Owner != key || !containsInt(f.Artifacts, a.ID) {
			return
		}
		location = f.World
		detach = func() bool {
			f.Artifacts = removeInt(f.Artifacts, a.ID)
			return true
		}
	}

	var from, to string
	switch o.TKind {
	case TargetFleet:
		dst := t.gs.Fleets[o.Target]
		if dst == nil || dst.Ships == 0 || dst.World != location {
			return
		}
		detach()
		dst.Artifacts = append(dst.Artifacts, a.ID)
		from, to = key, dst.Owner
	default:
		// Drop onto the world at the current location.
		w := t.gs.Worlds[location]
		if o.FromWorld {
			return
		}
		detach()
		w.Artifacts = append(w.Artifacts, a.ID)
		from, to = key, w.Owner
	}

	t.emit(events.ArtifactTransferred{
		Base:     t.base(location),
		Artifact: a.ID,
		Name:     a.Name,
		From:     from,
		To:       to,
	})
}

func removeInt(s []int, v int) []int {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
