package game

import (
	"strings"

	"github.com/starweb/starweb/events"
)

// pbbMetalCost is the metal drawn from the assembling world for one planet
// buster.
const pbbMetalCost = 25

// Phase 4: builds. Ship-class builds consume one industry, one metal and
// one worker per unit; industry and limit expansion keep the industry base
// intact but need enough of it standing to do the work. Every build is
// capped by whichever required resource runs out first.
func (t *turnContext) runBuilds() {
	t.forEachOrder([]OrderKind{
		OrderBuildIShips, OrderBuildPShips, OrderBuildToFleet,
		OrderBuildIndustry, OrderBuildLimit, OrderBuildRobots,
		OrderScrapShips, OrderBuildPBB,
	}, func(p *Player, o *Order) {
		key := strings.ToLower(p.Name)

		if o.Kind == OrderBuildPBB {
			t.buildPBB(p, o)
			return
		}

		w := t.gs.Worlds[o.World]
		if w == nil {
			return
		}

		if o.Kind == OrderScrapShips {
			if w.Owner != key {
				return
			}
			n := min(o.Amount, w.IShips)
			if n < 1 {
				return
			}
			w.IShips -= n
			w.Metal += n
			t.emit(events.Build{Base: t.base(w.ID), Owner: key, What: "scrap", Count: n})
			return
		}

		// A garrison build on a neutral world claims it, provided the
		// builder still has a working fleet on site and the build itself
		// goes through.
		claiming := false
		if w.Owner == "" && (o.Kind == OrderBuildIShips || o.Kind == OrderBuildPShips) {
			if !t.hasWorkingFleet(key, w.ID) {
				return
			}
			claiming = true
		} else if w.Owner != key {
			return
		}

		cc := t.gs.Config().Character(p.Character.String())

		switch o.Kind {
		case OrderBuildIShips, OrderBuildPShips, OrderBuildToFleet:
			n := min(o.Amount, w.Industry, w.Metal, w.Population)
			if n < 1 {
				return
			}
			if claiming {
				w.Owner = key
				t.emit(events.WorldCaptured{Base: t.base(w.ID), NewOwner: key})
			}
			var what string
			switch o.Kind {
			case OrderBuildIShips:
				w.IShips += n
				what = "iships"
			case OrderBuildPShips:
				w.PShips += n
				what = "pships"
			case OrderBuildToFleet:
				f := t.gs.Fleets[o.Fleet]
				if f == nil || f.Owner != key || f.World != w.ID {
					return
				}
				f.Ships += n
				what = "fleet ships"
			}
			t.spend(w, n, n, n)
			t.emit(events.Build{Base: t.base(w.ID), Owner: key, What: what, Count: n})

		case OrderBuildIndustry:
			unit := 5 - cc.IndustryBonus
			n := min(o.Amount, w.Industry/unit, w.Metal/unit, w.Population/unit)
			if n < 1 {
				return
			}
			t.spend(w, 0, n*unit, n*unit)
			w.Industry += n
			t.emit(events.Build{Base: t.base(w.ID), Owner: key, What: "industry", Count: n})

		case OrderBuildLimit:
			unit := 5 - cc.IndustryBonus
			n := min(o.Amount, w.Industry/unit, w.Metal/unit)
			if n < 1 {
				return
			}
			t.spend(w, 0, n*unit, 0)
			w.Limit += n
			t.emit(events.Build{Base: t.base(w.ID), Owner: key, What: "limit", Count: n})

		case OrderBuildRobots:
			if p.Character != Berserker || w.PopType != PopRobot {
				return
			}
			// One industry and one metal stamp out a pair of robots, within
			// the population limit.
			n := min(o.Amount, w.Industry, w.Metal, (w.Limit-w.Population)/2)
			if n < 1 {
				return
			}
			t.spend(w, n, n, 0)
			w.Population += n * 2
			t.emit(events.Build{Base: t.base(w.ID), Owner: key, What: "robots", Count: n * 2})
		}
	})
}

// spend deducts a build's bill from the world.
func (t *turnContext) spend(w *World, industry, metal, population int) {
	w.Industry -= industry
	w.Metal -= metal
	w.Population -= population
	if w.Converts > w.Population {
		w.Converts = w.Population
	}
}

func (t *turnContext) buildPBB(p *Player, o *Order) {
	key := strings.ToLower(p.Name)
	f := t.gs.Fleets[o.Fleet]
	if f == nil || f.Owner != key || f.Ships < pbbMetalCost || f.HasPBB {
		return
	}
	w := t.gs.Worlds[f.World]
	if w.Owner != key || w.Metal < pbbMetalCost {
		return
	}
	w.Metal -= pbbMetalCost
	f.HasPBB = true
	t.emit(events.Build{Base: t.base(w.ID), Owner: key, What: "pbb", Count: 1})
}

func (t *turnContext) hasWorkingFleet(owner string, world int) bool {
	for _, f := range t.gs.FleetsAt(world) {
		if f.Owner == owner && f.Ships > 0 {
			return true
		}
	}
	return false
}
