package game

import "strings"

var (
	consumerLadder = [...]int{10, 8, 5, 3, 1}
	plunderLadder  = [...]int{50, 40, 30, 20, 10}
)

func ladderPoints(ladder []int, nth int) int {
	if nth < 1 || nth > len(ladder) {
		return 0
	}
	return ladder[nth-1]
}

// Phase 12: scoring. Every point lands as a ledger entry; a player's score
// is only ever the replayed ledger sum. The first player over the target
// wins, ties going to the alphabetically earlier name.
func (t *turnContext) runScoring() {
	turn := t.gs.Turn

	for _, key := range t.gs.PlayerKeys() {
		p := t.gs.Players[key]

		switch p.Character {
		case EmpireBuilder:
			pop, industry, mines := 0, 0, 0
			for _, w := range t.gs.Worlds {
				if w.Owner == key {
					pop += w.Population
					industry += w.Industry
					mines += w.Mines
				}
			}
			p.AddScore(turn, pop/10+industry+mines, "empire holdings")

		case Merchant:
			units := 0
			for _, n := range t.merchantMetal[key] {
				units += n
			}
			p.AddScore(turn, units*8, "trade deliveries")
			for _, d := range t.consumer {
				if d.player == key {
					p.AddScore(turn, ladderPoints(consumerLadder[:], d.nth), "consumer goods")
				}
			}

		case Pirate:
			for _, r := range t.plunders {
				if r.player == key {
					p.AddScore(turn, ladderPoints(plunderLadder[:], r.nth), "plunder")
				}
			}
			fleets := 0
			for _, f := range t.gs.Fleets {
				if f.Owner == key && f.Ships > 0 {
					fleets++
				}
			}
			p.AddScore(turn, fleets*3, "fleets in service")

		case ArtifactCollector:
			points := 0
			museums := 0
			for _, w := range t.gs.Worlds {
				if w.Owner != key {
					continue
				}
				for _, id := range w.Artifacts {
					points += t.gs.Artifacts[id].Points
				}
				if len(w.Artifacts) >= 10 {
					museums++
				}
			}
			for _, f := range t.gs.Fleets {
				if f.Owner != key {
					continue
				}
				for _, id := range f.Artifacts {
					points += t.gs.Artifacts[id].Points
				}
			}
			p.AddScore(turn, points, "collection")
			p.AddScore(turn, museums*500, "museum worlds")

		case Berserker:
			robotWorlds := 0
			for _, w := range t.gs.Worlds {
				if w.Owner == key && w.PopType == PopRobot {
					robotWorlds++
				}
			}
			p.AddScore(turn, p.PopulationKilled*2, "population killed")
			p.AddScore(turn, robotWorlds*5, "robot worlds")
			p.AddScore(turn, p.ShipsDestroyed*2, "ships destroyed")
			p.AddScore(turn, p.PBBsDropped*200, "planet busters")

		case Apostle:
			owned, full := 0, 0
			converts := 0
			for _, w := range t.gs.Worlds {
				converts += w.Converts
				if w.Owner != key {
					continue
				}
				owned++
				if w.FullyConvert() {
					full++
				}
			}
			p.AddScore(turn, owned*5, "flock worlds")
			p.AddScore(turn, converts/10, "converts")
			p.AddScore(turn, full*5, "faithful worlds")
			p.AddScore(turn, p.MartyrsLost, "martyrs")
		}

		p.PopulationKilled = 0
		p.ShipsDestroyed = 0
		p.PBBsDropped = 0
		p.MartyrsLost = 0
	}

	if t.gs.Winner != "" {
		return
	}
	for _, key := range t.gs.PlayerKeys() {
		p := t.gs.Players[key]
		if p.Score() >= t.gs.TargetScore {
			t.gs.Winner = strings.ToLower(p.Name)
			t.gs.WonTurn = turn
			return
		}
	}
}
