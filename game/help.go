package game

import (
	"fmt"
	"sort"
	"strings"
)

var helpTopics = map[string]string{
	"MOVE": "F#W#[W#...] moves a fleet along connected worlds, one hop per " +
		"world listed. Movement resolves after combat; a triggered ambush " +
		"ends the trip early. Entering a black hole destroys the fleet.",
	"BUILD": "W#B#I builds iships, W#B#P pships, W#B#F# ships straight into " +
		"a fleet (1 industry, 1 metal, 1 population each). W#B#IND expands " +
		"industry, W#B#LIMIT raises the population limit (5 each, 4 for an " +
		"EmpireBuilder). W#S# scraps iships back into metal. F#B assembles " +
		"a planet buster on a fleet of 25+ ships.",
	"FIRE": "F#AF# fires at a fleet; both sides lose half the other's " +
		"strength. F#AI, F#AP, F#AH, F#AC bombard the world's iships, " +
		"pships, homeworld or converts. F#A lies in ambush, Z or Z# calls " +
		"ambushes off. F#CF#, F#CI etc. arm conditional fire that only " +
		"triggers if the fleet is shot at. F#Q holds a fleet at peace, F#X " +
		"revokes it.",
	"CARGO": "F#L loads population as cargo (F#L# for a count), F#U unloads, " +
		"F#J jettisons. Capacity is one unit per ship, double for a " +
		"Merchant. F#UC delivers consumer goods to a foreign world " +
		"(Merchant only). F#P# plunders metal from a foreign world " +
		"(Pirate only).",
	"MIGRATE": "W#M#W# moves population to a connected world for 1 industry " +
		"and 1 metal per migrant, and shows you the destination. C#M#W# " +
		"moves converts (Apostle only). W#X probes every neighboring world " +
		"for 1 metal each.",
	"DIPLOMACY": "A=name declares an ally, N=name revokes it. L=name lets " +
		"that player load cargo at your worlds, X=name revokes it. J=name " +
		"declares jihad (Apostle only). F#G=name gifts a fleet, W#G=name a " +
		"world.",
	"ARTIFACTS": "F#TA#F# passes an artifact between co-located fleets, " +
		"F#TA#W drops it on the world below, W#TA#F# lifts it off a world " +
		"you own. V# shows an artifact's worth.",
	"CHARACTERS": "EmpireBuilder: cheap industry, scores on holdings. " +
		"Merchant: double cargo holds, scores on trade and consumer goods. " +
		"Pirate: plunder and 3:1 fleet capture. ArtifactCollector: scores " +
		"on artifacts held and museum worlds. Berserker: robot worlds, " +
		"robot attacks and planet busters. Apostle: converts, convert " +
		"migration and jihad.",
	"TURN": "TURN marks you ready; the turn fires when everyone is ready or " +
		"the clock runs out. CANCEL # removes a queued order by its list " +
		"position.",
}

// HelpText returns the text for one topic, or the topic index when the
// topic is empty or unknown.
func HelpText(topic string) string {
	if topic != "" {
		if text, ok := helpTopics[strings.ToUpper(topic)]; ok {
			return text
		}
	}
	names := make([]string, 0, len(helpTopics))
	for name := range helpTopics {
		names = append(names, name)
	}
	sort.Strings(names)
	return "Help topics: " + strings.Join(names, ", ") + ". Use HELP <topic>."
}

// ContextHelp summarizes the player's current position: fleets, worlds and
// anything actionable about them. Sent alongside topic help so a player can
// orient without the map.
func (gs *GameState) ContextHelp(p *Player) string {
	key := strings.ToLower(p.Name)
	var b strings.Builder

	fmt.Fprintf(&b, "Turn %d. You are %s (%s), score %d.\n",
		gs.Turn, p.Name, p.Character, p.Score())

	var worlds []string
	for _, id := range gs.WorldIDs() {
		w := gs.Worlds[id]
		if w.Owner != key {
			continue
		}
		worlds = append(worlds, fmt.Sprintf(
			"W%d: pop %d/%d, ind %d, mines %d, metal %d, garrison %dI/%dP",
			w.ID, w.Population, w.Limit, w.Industry, w.Mines, w.Metal, w.IShips, w.PShips))
	}
	if len(worlds) > 0 {
		fmt.Fprintf(&b, "Worlds:\n  %s\n", strings.Join(worlds, "\n  "))
	}

	var fleets []string
	for _, id := range gs.FleetIDs() {
		f := gs.Fleets[id]
		if f.Owner != key {
			continue
		}
		line := fmt.Sprintf("F%d at W%d: %d ships, %d cargo", f.ID, f.World, f.Ships, f.Cargo)
		if f.HasPBB {
			line += ", PBB aboard"
		}
		if len(f.Artifacts) > 0 {
			line += fmt.Sprintf(", %d artifacts", len(f.Artifacts))
		}
		fleets = append(fleets, line)
	}
	if len(fleets) > 0 {
		fmt.Fprintf(&b, "Fleets:\n  %s\n", strings.Join(fleets, "\n  "))
	}

	if len(p.Orders) > 0 {
		var orders []string
		for i, o := range p.Orders {
			orders = append(orders, fmt.Sprintf("%d: %s", i+1, o.Normalized()))
		}
		fmt.Fprintf(&b, "Queued orders:\n  %s\n", strings.Join(orders, "\n  "))
	}

	return strings.TrimRight(b.String(), "\n")
}
