package game

import (
	"strings"

	"github.com/starweb/starweb/events"
)

// Phase 5: cargo movement. Loading draws population off the world beneath
// the fleet, unloading settles it back down; consumer goods and plunder are
// consumed on the spot and feed the scoring trackers.
func (t *turnContext) runCargo() {
	t.forEachOrder([]OrderKind{
		OrderLoadCargo, OrderUnloadCargo, OrderJettisonCargo,
		OrderUnloadConsumerGoods, OrderPlunder,
	}, func(p *Player, o *Order) {
		key := strings.ToLower(p.Name)
		f := t.gs.Fleets[o.Fleet]
		if f == nil || f.Owner != key {
			return
		}
		w := t.gs.Worlds[f.World]

		switch o.Kind {
		case OrderLoadCargo:
			if f.Ships == 0 {
				return
			}
			if w.Owner != key {
				owner, ok := t.gs.Players[w.Owner]
				if !ok || !owner.RelationWith(p.Name).Loader {
					return
				}
			}
			free := t.gs.CargoCapacity(f) - f.Cargo
			n := min(free, w.Population)
			if o.AmountGiven {
				n = min(n, o.Amount)
			}
			if n < 1 {
				return
			}
			w.Population -= n
			if w.Converts > w.Population {
				w.Converts = w.Population
			}
			f.Cargo += n

		case OrderUnloadCargo:
			n := min(f.Cargo, w.Limit-w.Population)
			if o.AmountGiven {
				n = min(n, o.Amount)
			}
			if n < 1 {
				return
			}
			f.Cargo -= n
			w.Population += n
			// A merchant settling cargo on a foreign world earns trade
			// credit, capped per world per turn by the buyer's industry.
			if p.Character == Merchant && w.Owner != "" && w.Owner != key {
				t.creditMerchant(key, w, n)
			}

		case OrderJettisonCargo:
			n := f.Cargo
			if o.AmountGiven {
				n = min(n, o.Amount)
			}
			if n < 1 {
				return
			}
			f.Cargo -= n
			t.emit(events.CargoJettisoned{Base: t.base(w.ID), Fleet: f.ID, Owner: key, Amount: n})

		case OrderUnloadConsumerGoods:
			if p.Character != Merchant || w.Owner == "" || w.Owner == key {
				return
			}
			n := min(f.Cargo, w.Industry*2)
			if o.AmountGiven {
				n = min(n, o.Amount)
			}
			if n < 1 {
				return
			}
			f.Cargo -= n
			p.ConsumerDeliveries[w.ID]++
			t.consumer = append(t.consumer, consumerDelivery{
				player: key,
				world:  w.ID,
				nth:    p.ConsumerDeliveries[w.ID],
			})

		case OrderPlunder:
			if p.Character != Pirate || f.Ships == 0 || w.Owner == "" || w.Owner == key {
				return
			}
			free := t.gs.CargoCapacity(f) - f.Cargo
			n := min(o.Amount, w.Metal, free)
			if n < 1 {
				return
			}
			w.Metal -= n
			f.Cargo += n
			p.PlunderCounts[w.ID]++
			t.plunders = append(t.plunders, plunderRecord{
				player: key,
				world:  w.ID,
				nth:    p.PlunderCounts[w.ID],
			})
			t.emit(events.PlunderOccurred{Base: t.base(w.ID), By: key, Amount: n})
		}
	})
}

// creditMerchant records trade units for the scoring phase, enforcing the
// per-world cap of twice the buyer's industry.
func (t *turnContext) creditMerchant(player string, w *World, units int) {
	byWorld := t.merchantMetal[player]
	if byWorld == nil {
		byWorld = make(map[int]int)
		t.merchantMetal[player] = byWorld
	}
	room := w.Industry*2 - byWorld[w.ID]
	if room <= 0 {
		return
	}
	byWorld[w.ID] += min(units, room)
}
