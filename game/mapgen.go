package game

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/starweb/starweb/config"
)

// GenerateMap populates an empty state with the world web, the fixed pool
// of fleet keys and the artifact set. The topology is random but always
// connected and symmetric, with every world holding between
// min_connections and max_connections neighbors where the tree allows it.
func (gs *GameState) GenerateMap(log zerolog.Logger) {
	cfg := gs.cfg
	n := cfg.Game.MapSize

	for id := 1; id <= n; id++ {
		gs.Worlds[id] = &World{
			ID:         id,
			Population: gs.rollRange(cfg.Worlds.PopulationRange),
			Industry:   gs.rollRange(cfg.Worlds.IndustryRange),
			Mines:      gs.rollRange(cfg.Worlds.MinesRange),
			Limit:      gs.rollRange(cfg.Worlds.LimitRange),
			PopType:    PopHuman,
		}
		// Population must respect the rolled limit from the start.
		if w := gs.Worlds[id]; w.Population > w.Limit {
			w.Population = w.Limit
		}
	}

	gs.connectWorlds()
	gs.placeBlackHoles(log)
	gs.createFleetKeys()
	gs.placeArtifacts(log)

	log.Info().
		Int("worlds", len(gs.Worlds)).
		Int("fleet_keys", len(gs.Fleets)).
		Int("artifacts", len(gs.Artifacts)).
		Msg("map generated")
}

func (gs *GameState) rollRange(r config.Range) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + gs.rng.Intn(r.Max-r.Min+1)
}

func (gs *GameState) addEdge(a, b int) {
	wa, wb := gs.Worlds[a], gs.Worlds[b]
	if a == b || wa.ConnectedTo(b) {
		return
	}
	wa.Connections = append(wa.Connections, b)
	wb.Connections = append(wb.Connections, a)
}

// connectWorlds builds a random spanning tree, then adds extra edges until
// every world reaches min_connections or no candidate pair remains under
// max_connections.
func (gs *GameState) connectWorlds() {
	cfg := gs.cfg.Worlds
	ids := gs.WorldIDs()
	order := make([]int, len(ids))
	copy(order, ids)
	gs.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	for i := 1; i < len(order); i++ {
		// Attach to a random earlier world that still has room; fall back
		// to any earlier world so the map stays connected.
		pick := order[gs.rng.Intn(i)]
		for tries := 0; tries < 8; tries++ {
			candidate := order[gs.rng.Intn(i)]
			if len(gs.Worlds[candidate].Connections) < cfg.MaxConnections {
				pick = candidate
				break
			}
		}
		gs.addEdge(order[i], pick)
	}

	for _, id := range ids {
		w := gs.Worlds[id]
		attempts := 0
		for len(w.Connections) < cfg.MinConnections && attempts < 64 {
			attempts++
			other := ids[gs.rng.Intn(len(ids))]
			if other == id || w.ConnectedTo(other) {
				continue
			}
			if len(gs.Worlds[other].Connections) >= cfg.MaxConnections {
				continue
			}
			gs.addEdge(id, other)
		}
	}

	for _, id := range ids {
		sort.Ints(gs.Worlds[id].Connections)
	}
}

// placeBlackHoles flags a configured fraction of worlds. A black hole has
// no population or economy of its own.
func (gs *GameState) placeBlackHoles(log zerolog.Logger) {
	count := int(float64(len(gs.Worlds)) * gs.cfg.Game.BlackHoleFraction)
	ids := gs.WorldIDs()
	gs.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	placed := 0
	for _, id := range ids {
		if placed == count {
			break
		}
		w := gs.Worlds[id]
		w.IsBlackHole = true
		w.Population = 0
		w.Converts = 0
		w.Industry = 0
		w.Mines = 0
		w.Metal = 0
		w.IShips = 0
		w.PShips = 0
		placed++
	}
	if placed > 0 {
		log.Debug().Int("count", placed).Msg("black holes placed")
	}
}

func (gs *GameState) createFleetKeys() {
	ids := gs.WorldIDs()
	var open []int
	for _, id := range ids {
		if !gs.Worlds[id].IsBlackHole {
			open = append(open, id)
		}
	}
	for key := 1; key <= gs.cfg.Game.NumFleets; key++ {
		gs.Fleets[key] = &Fleet{
			ID:    key,
			World: open[gs.rng.Intn(len(open))],
		}
	}
}

// placeArtifacts creates the artifact set from the configured type/item
// cross product plus the special list, one artifact per world. If the
// configuration asks for more artifacts than there are worlds to hold
// them, the excess is skipped with a warning.
func (gs *GameState) placeArtifacts(log zerolog.Logger) {
	cfg := gs.cfg.Artifacts

	type proto struct {
		name   string
		points int
		effect string
	}
	var protos []proto
	for _, t := range cfg.Types {
		for _, item := range cfg.Items {
			protos = append(protos, proto{name: fmt.Sprintf("%s %s", t, item), points: cfg.BasePoints})
		}
	}
	for _, sp := range cfg.SpecialArtifacts {
		protos = append(protos, proto{name: sp.Name, points: sp.Points, effect: sp.Effect})
	}

	// Black holes cannot host artifacts; nothing could ever retrieve them.
	var hosts []int
	for _, id := range gs.WorldIDs() {
		if !gs.Worlds[id].IsBlackHole {
			hosts = append(hosts, id)
		}
	}
	gs.rng.Shuffle(len(hosts), func(i, j int) { hosts[i], hosts[j] = hosts[j], hosts[i] })

	if len(protos) > len(hosts) {
		log.Warn().
			Int("artifacts", len(protos)).
			Int("worlds", len(hosts)).
			Msg("artifact list exceeds available worlds; skipping the excess")
		protos = protos[:len(hosts)]
	}

	for i, pr := range protos {
		id := i + 1
		gs.Artifacts[id] = &Artifact{ID: id, Name: pr.name, Points: pr.points, Effect: pr.effect}
		host := gs.Worlds[hosts[i]]
		host.Artifacts = append(host.Artifacts, id)
	}
	for _, id := range gs.WorldIDs() {
		sort.Ints(gs.Worlds[id].Artifacts)
	}
}

