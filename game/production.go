package game

import "github.com/starweb/starweb/events"

// Phase 10: production. Industry only works as far as it is manned, mines
// only as far as industry refines their ore. Population grows toward the
// limit; apostle worlds also convert a tithe of their people.
func (t *turnContext) runProduction() {
	cfg := t.gs.Config().Game

	for _, id := range t.gs.WorldIDs() {
		w := t.gs.Worlds[id]
		if w.Owner == "" || w.IsBlackHole {
			continue
		}

		effIndustry := min(w.Industry, w.Population)
		effMines := min(w.Mines, effIndustry)
		metal := effMines * cfg.MetalPerMine
		w.Metal += metal

		growth := int(float64(w.Population) * cfg.GrowthRate)
		if w.Population+growth > w.Limit {
			growth = w.Limit - w.Population
		}
		w.Population += growth

		if metal > 0 || growth > 0 {
			t.emit(events.Production{
				Base:      t.base(w.ID),
				Owner:     w.Owner,
				Metal:     metal,
				PopGrowth: growth,
			})
		}

		t.convertTithe(w)
	}
}

// convertTithe grows the convert pool on apostle-owned human worlds by a
// tenth of the population per turn.
func (t *turnContext) convertTithe(w *World) {
	if w.PopType != PopHuman || w.Converts >= w.Population {
		return
	}
	owner, ok := t.gs.Players[w.Owner]
	if !ok || owner.Character != Apostle {
		return
	}
	n := min(ceilDiv(w.Population, 10), w.Population-w.Converts)
	if n < 1 {
		return
	}
	w.Converts += n
	t.emit(events.ConversionOccurred{Base: t.base(w.ID), Owner: w.Owner, Count: n})
}
