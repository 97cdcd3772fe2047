package game

import "strings"

// Phase 6: migration and probes. Moving people costs the source world one
// industry slot and one metal per migrant, and always grants the mover a
// look at the destination this turn.
func (t *turnContext) runMigration() {
	t.forEachOrder([]OrderKind{OrderMigrate, OrderMigrateConverts}, func(p *Player, o *Order) {
		t.migrate(p, o)
	})
	t.forEachOrder([]OrderKind{OrderProbe}, func(p *Player, o *Order) {
		t.probe(p, o)
	})
}

func (t *turnContext) migrate(p *Player, o *Order) {
	key := strings.ToLower(p.Name)
	src := t.gs.Worlds[o.World]
	dst := t.gs.Worlds[o.Target]
	if src == nil || dst == nil || src.Owner != key || !src.ConnectedTo(dst.ID) {
		return
	}

	pool := src.Population
	if o.Kind == OrderMigrateConverts {
		if p.Character != Apostle {
			return
		}
		pool = src.Converts
	}

	n := min(o.Amount, pool, src.Industry, src.Metal, dst.Limit-dst.Population)
	if n < 1 {
		return
	}

	src.Industry -= n
	src.Metal -= n
	src.Population -= n
	if o.Kind == OrderMigrateConverts {
		src.Converts -= n
	} else if src.Converts > src.Population {
		src.Converts = src.Population
	}

	if src.PopType == PopRobot && p.Character == Berserker {
		t.robotArrival(p, dst, n)
	} else {
		dst.Population += n
		if o.Kind == OrderMigrateConverts {
			dst.Converts += n
		}
	}

	if p.TempVisible == nil {
		p.TempVisible = make(map[int]bool)
	}
	p.TempVisible[dst.ID] = true
}

// robotArrival is the berserker landing: robots cut down the organic
// population one for one, and settle only a world they have emptied.
func (t *turnContext) robotArrival(p *Player, dst *World, robots int) {
	if dst.PopType == PopRobot {
		dst.Population += robots
		if dst.Population > dst.Limit {
			dst.Population = dst.Limit
		}
		return
	}

	killed := min(robots, dst.Population)
	dst.Population -= killed
	p.PopulationKilled += killed
	if dst.Converts > 0 {
		lost := dst.Converts - min(dst.Converts, dst.Population)
		dst.Converts -= lost
		t.creditMartyrs(dst, lost)
	}
	if dst.Population == 0 {
		dst.PopType = PopRobot
		dst.Population = min(robots, dst.Limit)
	}
}

// creditMartyrs books converts killed by outsiders to the apostle who owns
// the world.
func (t *turnContext) creditMartyrs(w *World, lost int) {
	if lost <= 0 || w.Owner == "" {
		return
	}
	if owner, ok := t.gs.Players[w.Owner]; ok && owner.Character == Apostle {
		owner.MartyrsLost += lost
	}
}

// probe spends one metal per neighbor for a one-turn look at each of them.
func (t *turnContext) probe(p *Player, o *Order) {
	key := strings.ToLower(p.Name)
	w := t.gs.Worlds[o.World]
	if w == nil || w.Owner != key || w.Metal < len(w.Connections) {
		return
	}
	w.Metal -= len(w.Connections)
	if p.TempVisible == nil {
		p.TempVisible = make(map[int]bool)
	}
	for _, n := range w.Connections {
		p.TempVisible[n] = true
	}
}
