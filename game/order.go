package game

import (
	"fmt"
	"strings"
)

// OrderKind tags the variant of an Order.
type OrderKind int

const (
	OrderMove OrderKind = iota
	OrderBuildIShips
	OrderBuildPShips
	OrderBuildToFleet
	OrderBuildIndustry
	OrderBuildLimit
	OrderBuildRobots
	OrderTransferShips
	OrderLoadCargo
	OrderUnloadCargo
	OrderJettisonCargo
	OrderUnloadConsumerGoods
	OrderMigrate
	OrderMigrateConverts
	OrderFireAtFleet
	OrderFireAtTarget
	OrderAmbush
	OrderNoAmbush
	OrderConditionalFire
	OrderPeace
	OrderNotPeace
	OrderGiftFleet
	OrderGiftWorld
	OrderBuildPBB
	OrderDropPBB
	OrderRobotAttack
	OrderTransferArtifact
	OrderViewArtifact
	OrderDeclareRelation
	OrderPlunder
	OrderScrapShips
	OrderProbe

	// Immediate commands, executed on receipt instead of being queued.
	OrderCancel
	OrderReady
	OrderJoin
	OrderHelp
)

// TargetKind selects what a fire, transfer or artifact order points at.
type TargetKind byte

const (
	TargetNone     TargetKind = 0
	TargetFleet    TargetKind = 'F'
	TargetIShips   TargetKind = 'I'
	TargetPShips   TargetKind = 'P'
	TargetHome     TargetKind = 'H'
	TargetConverts TargetKind = 'C'
	TargetWorld    TargetKind = 'W'
)

// RelationKind is the diplomacy declaration carried by a relation order.
type RelationKind int

const (
	RelAlly RelationKind = iota
	RelLoader
	RelUnloader
	RelJihad
	RelUnally
)

func (r RelationKind) String() string {
	switch r {
	case RelAlly:
		return "ally"
	case RelLoader:
		return "loader"
	case RelUnloader:
		return "unloader"
	case RelJihad:
		return "jihad"
	default:
		return "unally"
	}
}

// Order is the tagged variant produced by the parser. Only the fields the
// Kind uses are meaningful; everything else is zero.
type Order struct {
	Kind OrderKind `json:"kind"`

	Fleet    int        `json:"fleet,omitempty"`
	World    int        `json:"world,omitempty"`
	Amount   int        `json:"amount,omitempty"`
	Target   int        `json:"target,omitempty"`
	TKind    TargetKind `json:"target_kind,omitempty"`
	Path     []int      `json:"path,omitempty"`
	Artifact int        `json:"artifact,omitempty"`

	// Source selector for artifact transfers: true when the artifact moves
	// off a world rather than a fleet.
	FromWorld bool `json:"from_world,omitempty"`

	Name     string        `json:"name,omitempty"`
	Relation RelationKind  `json:"relation,omitempty"`
	Minutes  int           `json:"minutes,omitempty"`
	Char     CharacterType `json:"char,omitempty"`
	Topic    string        `json:"topic,omitempty"`
	Index    int           `json:"index,omitempty"`

	// AmountGiven distinguishes "F5L" (load everything) from "F5L0".
	AmountGiven bool `json:"amount_given,omitempty"`
}

// Exclusive reports whether this order belongs to the per-fleet exclusivity
// group: at most one of move, fire, ambush and conditional fire per fleet
// per turn.
func (o *Order) Exclusive() bool {
	switch o.Kind {
	case OrderMove, OrderFireAtFleet, OrderFireAtTarget, OrderAmbush, OrderConditionalFire:
		return true
	}
	return false
}

// Queued reports whether the order goes onto the player's order list, as
// opposed to being executed immediately on receipt.
func (o *Order) Queued() bool {
	switch o.Kind {
	case OrderCancel, OrderReady, OrderJoin, OrderHelp:
		return false
	}
	return true
}

// Normalized renders the canonical compact text for the order. This is the
// stable form echoed back in the queued-order list; re-parsing it yields the
// same order.
func (o *Order) Normalized() string {
	switch o.Kind {
	case OrderMove:
		var b strings.Builder
		fmt.Fprintf(&b, "F%d", o.Fleet)
		for _, w := range o.Path {
			fmt.Fprintf(&b, "W%d", w)
		}
		return b.String()
	case OrderBuildIShips:
		return fmt.Sprintf("W%dB%dI", o.World, o.Amount)
	case OrderBuildPShips:
		return fmt.Sprintf("W%dB%dP", o.World, o.Amount)
	case OrderBuildToFleet:
		return fmt.Sprintf("W%dB%dF%d", o.World, o.Amount, o.Fleet)
	case OrderBuildIndustry:
		return fmt.Sprintf("W%dB%dIND", o.World, o.Amount)
	case OrderBuildLimit:
		return fmt.Sprintf("W%dB%dLIMIT", o.World, o.Amount)
	case OrderBuildRobots:
		return fmt.Sprintf("W%dB%dROBOT", o.World, o.Amount)
	case OrderTransferShips:
		if o.TKind == TargetFleet {
			return fmt.Sprintf("F%dT%dF%d", o.Fleet, o.Amount, o.Target)
		}
		return fmt.Sprintf("F%dT%d%c", o.Fleet, o.Amount, o.TKind)
	case OrderLoadCargo:
		if o.AmountGiven {
			return fmt.Sprintf("F%dL%d", o.Fleet, o.Amount)
		}
		return fmt.Sprintf("F%dL", o.Fleet)
	case OrderUnloadCargo:
		if o.AmountGiven {
			return fmt.Sprintf("F%dU%d", o.Fleet, o.Amount)
		}
		return fmt.Sprintf("F%dU", o.Fleet)
	case OrderJettisonCargo:
		if o.AmountGiven {
			return fmt.Sprintf("F%dJ%d", o.Fleet, o.Amount)
		}
		return fmt.Sprintf("F%dJ", o.Fleet)
	case OrderUnloadConsumerGoods:
		if o.AmountGiven {
			return fmt.Sprintf("F%dUC%d", o.Fleet, o.Amount)
		}
		return fmt.Sprintf("F%dUC", o.Fleet)
	case OrderMigrate:
		return fmt.Sprintf("W%dM%dW%d", o.World, o.Amount, o.Target)
	case OrderMigrateConverts:
		return fmt.Sprintf("C%dM%dW%d", o.World, o.Amount, o.Target)
	case OrderFireAtFleet:
		return fmt.Sprintf("F%dAF%d", o.Fleet, o.Target)
	case OrderFireAtTarget:
		return fmt.Sprintf("F%dA%c", o.Fleet, o.TKind)
	case OrderAmbush:
		return fmt.Sprintf("F%dA", o.Fleet)
	case OrderNoAmbush:
		if o.World > 0 {
			return fmt.Sprintf("Z%d", o.World)
		}
		return "Z"
	case OrderConditionalFire:
		if o.TKind == TargetFleet {
			return fmt.Sprintf("F%dCF%d", o.Fleet, o.Target)
		}
		return fmt.Sprintf("F%dC%c", o.Fleet, o.TKind)
	case OrderPeace:
		return fmt.Sprintf("F%dQ", o.Fleet)
	case OrderNotPeace:
		return fmt.Sprintf("F%dX", o.Fleet)
	case OrderGiftFleet:
		return fmt.Sprintf("F%dG=%s", o.Fleet, o.Name)
	case OrderGiftWorld:
		return fmt.Sprintf("W%dG=%s", o.World, o.Name)
	case OrderBuildPBB:
		return fmt.Sprintf("F%dB", o.Fleet)
	case OrderDropPBB:
		return fmt.Sprintf("F%dD", o.Fleet)
	case OrderRobotAttack:
		return fmt.Sprintf("F%dR%d", o.Fleet, o.Amount)
	case OrderPlunder:
		return fmt.Sprintf("F%dP%d", o.Fleet, o.Amount)
	case OrderTransferArtifact:
		src := fmt.Sprintf("F%d", o.Fleet)
		if o.FromWorld {
			src = fmt.Sprintf("W%d", o.World)
		}
		if o.TKind == TargetFleet {
			return fmt.Sprintf("%sTA%dF%d", src, o.Artifact, o.Target)
		}
		return fmt.Sprintf("%sTA%dW", src, o.Artifact)
	case OrderViewArtifact:
		switch o.TKind {
		case TargetFleet:
			return fmt.Sprintf("V%dF%d", o.Artifact, o.Target)
		case TargetWorld:
			return fmt.Sprintf("V%dW", o.Artifact)
		}
		return fmt.Sprintf("V%d", o.Artifact)
	case OrderDeclareRelation:
		switch o.Relation {
		case RelAlly:
			return fmt.Sprintf("A=%s", o.Name)
		case RelLoader:
			return fmt.Sprintf("L=%s", o.Name)
		case RelUnloader:
			return fmt.Sprintf("X=%s", o.Name)
		case RelJihad:
			return fmt.Sprintf("J=%s", o.Name)
		default:
			return fmt.Sprintf("N=%s", o.Name)
		}
	case OrderScrapShips:
		return fmt.Sprintf("W%dS%d", o.World, o.Amount)
	case OrderProbe:
		return fmt.Sprintf("W%dX", o.World)
	case OrderCancel:
		return fmt.Sprintf("CANCEL %d", o.Index)
	case OrderReady:
		return "TURN"
	case OrderJoin:
		return fmt.Sprintf("JOIN %s %d %s", o.Name, o.Minutes, o.Char)
	case OrderHelp:
		if o.Topic != "" {
			return fmt.Sprintf("HELP %s", strings.ToUpper(o.Topic))
		}
		return "HELP"
	}
	return ""
}
