package game

import (
	"fmt"
	"strings"
)

// ValidationError is a semantic rejection: the command parsed but cannot be
// queued against the current state. The text is stable and user-facing.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Shared predicates. Every order check goes through these so rejection text
// stays uniform.

func (gs *GameState) fleetExists(id int) (*Fleet, error) {
	f, ok := gs.Fleets[id]
	if !ok {
		return nil, invalid("Fleet %d does not exist", id)
	}
	return f, nil
}

func (gs *GameState) fleetOwned(id int, p *Player) (*Fleet, error) {
	f, err := gs.fleetExists(id)
	if err != nil {
		return nil, err
	}
	if f.Owner != strings.ToLower(p.Name) {
		return nil, invalid("You do not own fleet %d", id)
	}
	return f, nil
}

func (gs *GameState) fleetNonempty(id int, p *Player) (*Fleet, error) {
	f, err := gs.fleetOwned(id, p)
	if err != nil {
		return nil, err
	}
	if f.Ships == 0 {
		return nil, invalid("Fleet %d has no ships", id)
	}
	return f, nil
}

func (gs *GameState) worldExists(id int) (*World, error) {
	w, ok := gs.Worlds[id]
	if !ok {
		return nil, invalid("World %d does not exist", id)
	}
	return w, nil
}

func (gs *GameState) worldOwned(id int, p *Player) (*World, error) {
	w, err := gs.worldExists(id)
	if err != nil {
		return nil, err
	}
	if w.Owner != strings.ToLower(p.Name) {
		return nil, invalid("You do not own world %d", id)
	}
	return w, nil
}

func (gs *GameState) worldsConnected(a, b int) error {
	wa, err := gs.worldExists(a)
	if err != nil {
		return err
	}
	if _, err := gs.worldExists(b); err != nil {
		return err
	}
	if !wa.ConnectedTo(b) {
		return invalid("World %d is not connected to %d", a, b)
	}
	return nil
}

func (gs *GameState) sameLocation(f *Fleet, world int) error {
	if f.World != world {
		return invalid("Fleet %d is not at world %d", f.ID, world)
	}
	return nil
}

func (gs *GameState) playerExists(name string) (*Player, error) {
	p, ok := gs.PlayerByName(name)
	if !ok {
		return nil, invalid("No such player %q", name)
	}
	return p, nil
}

func requireCharacter(p *Player, c CharacterType, what string) error {
	if p.Character != c {
		return invalid("Only a %s may %s", c, what)
	}
	return nil
}

// Validate checks an order against the current state for the issuing
// player. On success the order may be queued; its Normalized form is the
// stable text shown in the order list.
func (gs *GameState) Validate(p *Player, o *Order) error {
	key := strings.ToLower(p.Name)

	switch o.Kind {
	case OrderMove:
		f, err := gs.fleetNonempty(o.Fleet, p)
		if err != nil {
			return err
		}
		if len(o.Path) == 0 {
			return invalid("Move order for fleet %d has no destination", o.Fleet)
		}
		from := f.World
		for _, next := range o.Path {
			if err := gs.worldsConnected(from, next); err != nil {
				return err
			}
			from = next
		}
		return nil

	case OrderBuildIShips, OrderBuildPShips:
		w, err := gs.worldExists(o.World)
		if err != nil {
			return err
		}
		if o.Amount < 1 {
			return invalid("Build count must be at least 1")
		}
		if w.Owner == key {
			return nil
		}
		// Building a garrison on a neutral world claims it, but only with a
		// fleet on site to do the building.
		if w.Owner == "" {
			for _, f := range gs.FleetsAt(o.World) {
				if f.Owner == key && f.Ships > 0 {
					return nil
				}
			}
			return invalid("You need a fleet at world %d to build there", o.World)
		}
		return invalid("You do not own world %d", o.World)

	case OrderBuildToFleet:
		if _, err := gs.worldOwned(o.World, p); err != nil {
			return err
		}
		f, err := gs.fleetOwned(o.Fleet, p)
		if err != nil {
			return err
		}
		if err := gs.sameLocation(f, o.World); err != nil {
			return err
		}
		if o.Amount < 1 {
			return invalid("Build count must be at least 1")
		}
		return nil

	case OrderBuildIndustry, OrderBuildLimit:
		if _, err := gs.worldOwned(o.World, p); err != nil {
			return err
		}
		if o.Amount < 1 {
			return invalid("Build count must be at least 1")
		}
		return nil

	case OrderBuildRobots:
		if err := requireCharacter(p, Berserker, "build robots"); err != nil {
			return err
		}
		w, err := gs.worldOwned(o.World, p)
		if err != nil {
			return err
		}
		if w.PopType != PopRobot {
			return invalid("World %d does not host a robot population", o.World)
		}
		if o.Amount < 1 {
			return invalid("Build count must be at least 1")
		}
		return nil

	case OrderTransferShips:
		f, err := gs.fleetNonempty(o.Fleet, p)
		if err != nil {
			return err
		}
		if o.Amount < 1 {
			return invalid("Transfer count must be at least 1")
		}
		if o.Amount > f.Ships {
			return invalid("Fleet %d only has %d ships", f.ID, f.Ships)
		}
		if o.TKind == TargetFleet {
			t, err := gs.fleetOwned(o.Target, p)
			if err != nil {
				return err
			}
			if t.ID == f.ID {
				return invalid("Fleet %d cannot transfer to itself", f.ID)
			}
			return gs.sameLocation(t, f.World)
		}
		// Garrison transfers require owning the world the fleet sits at.
		if _, err := gs.worldOwned(f.World, p); err != nil {
			return err
		}
		return nil

	case OrderLoadCargo:
		f, err := gs.fleetNonempty(o.Fleet, p)
		if err != nil {
			return err
		}
		w := gs.Worlds[f.World]
		if w.Owner != key {
			owner, ok := gs.Players[w.Owner]
			if !ok || !owner.RelationWith(p.Name).Loader {
				return invalid("The owner of world %d has not declared you a loader", w.ID)
			}
		}
		return nil

	case OrderUnloadCargo, OrderJettisonCargo:
		f, err := gs.fleetOwned(o.Fleet, p)
		if err != nil {
			return err
		}
		if f.Cargo == 0 {
			return invalid("Fleet %d carries no cargo", f.ID)
		}
		return nil

	case OrderUnloadConsumerGoods:
		if err := requireCharacter(p, Merchant, "deliver consumer goods"); err != nil {
			return err
		}
		f, err := gs.fleetOwned(o.Fleet, p)
		if err != nil {
			return err
		}
		if f.Cargo == 0 {
			return invalid("Fleet %d carries no cargo", f.ID)
		}
		w := gs.Worlds[f.World]
		if w.Owner == "" || w.Owner == key {
			return invalid("Consumer goods must be delivered to another player's world")
		}
		return nil

	case OrderMigrate:
		w, err := gs.worldOwned(o.World, p)
		if err != nil {
			return err
		}
		if err := gs.worldsConnected(o.World, o.Target); err != nil {
			return err
		}
		if o.Amount < 1 {
			return invalid("Migration count must be at least 1")
		}
		if o.Amount > w.Population {
			return invalid("World %d only has %d population", w.ID, w.Population)
		}
		for _, q := range p.Orders {
			if (q.Kind == OrderMigrate || q.Kind == OrderMigrateConverts) && q.World == o.World {
				return invalid("World %d already has a migration queued this turn", o.World)
			}
		}
		return nil

	case OrderMigrateConverts:
		if err := requireCharacter(p, Apostle, "migrate converts"); err != nil {
			return err
		}
		w, err := gs.worldOwned(o.World, p)
		if err != nil {
			return err
		}
		if err := gs.worldsConnected(o.World, o.Target); err != nil {
			return err
		}
		if o.Amount < 1 {
			return invalid("Migration count must be at least 1")
		}
		if o.Amount > w.Converts {
			return invalid("World %d only has %d converts", w.ID, w.Converts)
		}
		for _, q := range p.Orders {
			if (q.Kind == OrderMigrate || q.Kind == OrderMigrateConverts) && q.World == o.World {
				return invalid("World %d already has a migration queued this turn", o.World)
			}
		}
		return nil

	case OrderFireAtFleet:
		f, err := gs.fleetNonempty(o.Fleet, p)
		if err != nil {
			return err
		}
		t, err := gs.fleetExists(o.Target)
		if err != nil {
			return err
		}
		if t.Owner == key {
			return invalid("Fleet %d is your own", t.ID)
		}
		if t.Ships == 0 {
			return invalid("Fleet %d has no ships", t.ID)
		}
		return gs.sameLocation(t, f.World)

	case OrderFireAtTarget:
		f, err := gs.fleetNonempty(o.Fleet, p)
		if err != nil {
			return err
		}
		w := gs.Worlds[f.World]
		if w.Owner == key {
			return invalid("World %d is your own", w.ID)
		}
		if o.TKind == TargetHome && w.Key == "" {
			return invalid("World %d is not a homeworld", w.ID)
		}
		if o.TKind == TargetConverts && w.Converts == 0 {
			return invalid("World %d has no converts", w.ID)
		}
		return nil

	case OrderAmbush:
		_, err := gs.fleetNonempty(o.Fleet, p)
		return err

	case OrderNoAmbush:
		if o.World > 0 {
			_, err := gs.worldExists(o.World)
			return err
		}
		return nil

	case OrderConditionalFire:
		f, err := gs.fleetNonempty(o.Fleet, p)
		if err != nil {
			return err
		}
		if o.TKind == TargetFleet {
			t, err := gs.fleetExists(o.Target)
			if err != nil {
				return err
			}
			if t.Owner == key {
				return invalid("Fleet %d is your own", t.ID)
			}
			return gs.sameLocation(t, f.World)
		}
		return nil

	case OrderPeace, OrderNotPeace:
		_, err := gs.fleetOwned(o.Fleet, p)
		return err

	case OrderGiftFleet:
		if _, err := gs.fleetOwned(o.Fleet, p); err != nil {
			return err
		}
		t, err := gs.playerExists(o.Name)
		if err != nil {
			return err
		}
		if strings.EqualFold(t.Name, p.Name) {
			return invalid("You cannot gift to yourself")
		}
		return nil

	case OrderGiftWorld:
		w, err := gs.worldOwned(o.World, p)
		if err != nil {
			return err
		}
		if w.Key != "" {
			return invalid("A homeworld cannot be gifted")
		}
		t, err := gs.playerExists(o.Name)
		if err != nil {
			return err
		}
		if strings.EqualFold(t.Name, p.Name) {
			return invalid("You cannot gift to yourself")
		}
		return nil

	case OrderBuildPBB:
		f, err := gs.fleetOwned(o.Fleet, p)
		if err != nil {
			return err
		}
		if f.Ships < 25 {
			return invalid("Fleet %d needs at least 25 ships to assemble a PBB", f.ID)
		}
		if f.HasPBB {
			return invalid("Fleet %d already carries a PBB", f.ID)
		}
		return nil

	case OrderDropPBB:
		f, err := gs.fleetOwned(o.Fleet, p)
		if err != nil {
			return err
		}
		if !f.HasPBB {
			return invalid("Fleet %d carries no PBB", f.ID)
		}
		if gs.Worlds[f.World].Key != "" {
			return invalid("A PBB cannot be dropped on a homeworld")
		}
		return nil

	case OrderRobotAttack:
		if err := requireCharacter(p, Berserker, "launch a robot attack"); err != nil {
			return err
		}
		f, err := gs.fleetNonempty(o.Fleet, p)
		if err != nil {
			return err
		}
		if o.Amount < 1 {
			return invalid("Robot attack strength must be at least 1")
		}
		w := gs.Worlds[f.World]
		if w.Owner == key {
			return invalid("World %d is your own", w.ID)
		}
		return nil

	case OrderTransferArtifact:
		if _, ok := gs.Artifacts[o.Artifact]; !ok {
			return invalid("Artifact %d does not exist", o.Artifact)
		}
		var location int
		if o.FromWorld {
			w, err := gs.worldOwned(o.World, p)
			if err != nil {
				return err
			}
			if !containsInt(w.Artifacts, o.Artifact) {
				return invalid("Artifact %d is not at world %d", o.Artifact, w.ID)
			}
			location = w.ID
		} else {
			f, err := gs.fleetOwned(o.Fleet, p)
			if err != nil {
				return err
			}
			if !containsInt(f.Artifacts, o.Artifact) {
				return invalid("Artifact %d is not aboard fleet %d", o.Artifact, f.ID)
			}
			location = f.World
		}
		if o.TKind == TargetFleet {
			t, err := gs.fleetExists(o.Target)
			if err != nil {
				return err
			}
			if t.Ships == 0 {
				return invalid("Fleet %d has no ships", t.ID)
			}
			return gs.sameLocation(t, location)
		}
		return nil

	case OrderViewArtifact:
		if _, ok := gs.Artifacts[o.Artifact]; !ok {
			return invalid("Artifact %d does not exist", o.Artifact)
		}
		return nil

	case OrderDeclareRelation:
		if o.Relation == RelJihad {
			if err := requireCharacter(p, Apostle, "declare jihad"); err != nil {
				return err
			}
		}
		t, err := gs.playerExists(o.Name)
		if err != nil {
			return err
		}
		if strings.EqualFold(t.Name, p.Name) {
			return invalid("You cannot declare a relation with yourself")
		}
		return nil

	case OrderPlunder:
		if err := requireCharacter(p, Pirate, "plunder"); err != nil {
			return err
		}
		f, err := gs.fleetNonempty(o.Fleet, p)
		if err != nil {
			return err
		}
		if o.Amount < 1 {
			return invalid("Plunder amount must be at least 1")
		}
		w := gs.Worlds[f.World]
		if w.Owner == "" || w.Owner == key {
			return invalid("World %d belongs to no one worth plundering", w.ID)
		}
		return nil

	case OrderScrapShips:
		w, err := gs.worldOwned(o.World, p)
		if err != nil {
			return err
		}
		if o.Amount < 1 {
			return invalid("Scrap count must be at least 1")
		}
		if o.Amount > w.IShips {
			return invalid("World %d only has %d iships", w.ID, w.IShips)
		}
		return nil

	case OrderProbe:
		w, err := gs.worldOwned(o.World, p)
		if err != nil {
			return err
		}
		if w.Metal < len(w.Connections) {
			return invalid("World %d needs %d metal to probe its neighbors", w.ID, len(w.Connections))
		}
		return nil
	}

	return invalid("Order cannot be queued")
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
