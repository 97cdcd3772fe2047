package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommands(t *testing.T) {
	tests := []struct {
		input string
		want  Order
		norm  string
	}{
		{"F1W2W3", Order{Kind: OrderMove, Fleet: 1, Path: []int{2, 3}}, "F1W2W3"},
		{"f1 w2 w3", Order{Kind: OrderMove, Fleet: 1, Path: []int{2, 3}}, "F1W2W3"},
		{"W4B10I", Order{Kind: OrderBuildIShips, World: 4, Amount: 10}, "W4B10I"},
		{"w4i10i", Order{Kind: OrderBuildIShips, World: 4, Amount: 10}, "W4B10I"},
		{"W4B3P", Order{Kind: OrderBuildPShips, World: 4, Amount: 3}, "W4B3P"},
		{"W4B5F2", Order{Kind: OrderBuildToFleet, World: 4, Amount: 5, Fleet: 2}, "W4B5F2"},
		{"W4B2IND", Order{Kind: OrderBuildIndustry, World: 4, Amount: 2}, "W4B2IND"},
		{"W4B1LIMIT", Order{Kind: OrderBuildLimit, World: 4, Amount: 1}, "W4B1LIMIT"},
		{"W4B3ROBOT", Order{Kind: OrderBuildRobots, World: 4, Amount: 3}, "W4B3ROBOT"},
		{"F5T3F6", Order{Kind: OrderTransferShips, Fleet: 5, Amount: 3, Target: 6, TKind: TargetFleet}, "F5T3F6"},
		{"F5T4I", Order{Kind: OrderTransferShips, Fleet: 5, Amount: 4, TKind: TargetIShips}, "F5T4I"},
		{"F5T2P", Order{Kind: OrderTransferShips, Fleet: 5, Amount: 2, TKind: TargetPShips}, "F5T2P"},
		{"F5L", Order{Kind: OrderLoadCargo, Fleet: 5}, "F5L"},
		{"F5L0", Order{Kind: OrderLoadCargo, Fleet: 5, AmountGiven: true}, "F5L0"},
		{"F5L8", Order{Kind: OrderLoadCargo, Fleet: 5, Amount: 8, AmountGiven: true}, "F5L8"},
		{"F5U", Order{Kind: OrderUnloadCargo, Fleet: 5}, "F5U"},
		{"F5U7", Order{Kind: OrderUnloadCargo, Fleet: 5, Amount: 7, AmountGiven: true}, "F5U7"},
		{"F5UC", Order{Kind: OrderUnloadConsumerGoods, Fleet: 5}, "F5UC"},
		{"F5UC3", Order{Kind: OrderUnloadConsumerGoods, Fleet: 5, Amount: 3, AmountGiven: true}, "F5UC3"},
		{"F5J2", Order{Kind: OrderJettisonCargo, Fleet: 5, Amount: 2, AmountGiven: true}, "F5J2"},
		{"W2M5W3", Order{Kind: OrderMigrate, World: 2, Amount: 5, Target: 3}, "W2M5W3"},
		{"C2M3W4", Order{Kind: OrderMigrateConverts, World: 2, Amount: 3, Target: 4}, "C2M3W4"},
		{"F1AF2", Order{Kind: OrderFireAtFleet, Fleet: 1, Target: 2}, "F1AF2"},
		{"F1AI", Order{Kind: OrderFireAtTarget, Fleet: 1, TKind: TargetIShips}, "F1AI"},
		{"F1AP", Order{Kind: OrderFireAtTarget, Fleet: 1, TKind: TargetPShips}, "F1AP"},
		{"F1AH", Order{Kind: OrderFireAtTarget, Fleet: 1, TKind: TargetHome}, "F1AH"},
		{"F1AC", Order{Kind: OrderFireAtTarget, Fleet: 1, TKind: TargetConverts}, "F1AC"},
		{"F1A", Order{Kind: OrderAmbush, Fleet: 1}, "F1A"},
		{"Z", Order{Kind: OrderNoAmbush}, "Z"},
		{"Z7", Order{Kind: OrderNoAmbush, World: 7}, "Z7"},
		{"F1CF2", Order{Kind: OrderConditionalFire, Fleet: 1, Target: 2, TKind: TargetFleet}, "F1CF2"},
		{"F1CH", Order{Kind: OrderConditionalFire, Fleet: 1, TKind: TargetHome}, "F1CH"},
		{"F1Q", Order{Kind: OrderPeace, Fleet: 1}, "F1Q"},
		{"F1X", Order{Kind: OrderNotPeace, Fleet: 1}, "F1X"},
		{"F2G=Alice", Order{Kind: OrderGiftFleet, Fleet: 2, Name: "Alice"}, "F2G=Alice"},
		{"W3G=Bob", Order{Kind: OrderGiftWorld, World: 3, Name: "Bob"}, "W3G=Bob"},
		{"F9B", Order{Kind: OrderBuildPBB, Fleet: 9}, "F9B"},
		{"F9D", Order{Kind: OrderDropPBB, Fleet: 9}, "F9D"},
		{"F3R15", Order{Kind: OrderRobotAttack, Fleet: 3, Amount: 15}, "F3R15"},
		{"F3P10", Order{Kind: OrderPlunder, Fleet: 3, Amount: 10}, "F3P10"},
		{"F2TA7F3", Order{Kind: OrderTransferArtifact, Fleet: 2, Artifact: 7, Target: 3, TKind: TargetFleet}, "F2TA7F3"},
		{"F2TA7W", Order{Kind: OrderTransferArtifact, Fleet: 2, Artifact: 7, TKind: TargetWorld}, "F2TA7W"},
		{"W5TA7F3", Order{Kind: OrderTransferArtifact, World: 5, FromWorld: true, Artifact: 7, Target: 3, TKind: TargetFleet}, "W5TA7F3"},
		{"V7", Order{Kind: OrderViewArtifact, Artifact: 7}, "V7"},
		{"V7F2", Order{Kind: OrderViewArtifact, Artifact: 7, Target: 2, TKind: TargetFleet}, "V7F2"},
		{"V7W", Order{Kind: OrderViewArtifact, Artifact: 7, TKind: TargetWorld}, "V7W"},
		{"W6S5", Order{Kind: OrderScrapShips, World: 6, Amount: 5}, "W6S5"},
		{"W6X", Order{Kind: OrderProbe, World: 6}, "W6X"},
		{"A=Bob", Order{Kind: OrderDeclareRelation, Relation: RelAlly, Name: "Bob"}, "A=Bob"},
		{"L=Bob", Order{Kind: OrderDeclareRelation, Relation: RelLoader, Name: "Bob"}, "L=Bob"},
		{"X=Bob", Order{Kind: OrderDeclareRelation, Relation: RelUnloader, Name: "Bob"}, "X=Bob"},
		{"J=Bob", Order{Kind: OrderDeclareRelation, Relation: RelJihad, Name: "Bob"}, "J=Bob"},
		{"N=Bob", Order{Kind: OrderDeclareRelation, Relation: RelUnally, Name: "Bob"}, "N=Bob"},
		{"TURN", Order{Kind: OrderReady}, "TURN"},
		{"turn", Order{Kind: OrderReady}, "TURN"},
		{"CANCEL 3", Order{Kind: OrderCancel, Index: 3}, "CANCEL 3"},
		{"HELP", Order{Kind: OrderHelp}, "HELP"},
		{"HELP move", Order{Kind: OrderHelp, Topic: "move"}, "HELP MOVE"},
		{"JOIN Alice", Order{Kind: OrderJoin, Name: "Alice", Minutes: 60}, "JOIN Alice 60 EmpireBuilder"},
		{"JOIN Alice 30 Merchant", Order{Kind: OrderJoin, Name: "Alice", Minutes: 30, Char: Merchant}, "JOIN Alice 30 Merchant"},
		{"JOIN Alice Pirate", Order{Kind: OrderJoin, Name: "Alice", Minutes: 60, Char: Pirate}, "JOIN Alice 60 Pirate"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Parse(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, *got)
			assert.Equal(t, tc.norm, got.Normalized())
		})
	}
}

// The normalized form is canonical: re-parsing it yields an order that
// normalizes to the same text.
func TestParseNormalizedIsStable(t *testing.T) {
	inputs := []string{
		"F1W2W3", "w4i10i", "W4B2IND", "W4B1LIMIT", "W4B3ROBOT",
		"F5T3F6", "F5T4I", "F5L", "F5L0", "F5U7", "F5UC", "F5J",
		"W2M5W3", "C2M3W4", "F1AF2", "F1AI", "F1A", "Z", "Z7",
		"F1CF2", "F1CC", "F1Q", "F1X", "F2G=Alice", "W3G=Bob",
		"F9B", "F9D", "F3R15", "F3P10", "F2TA7F3", "W5TA7W",
		"V7", "V7F2", "V7W", "W6S5", "W6X", "A=Bob", "N=Bob",
		"TURN", "CANCEL 2", "HELP BUILD", "JOIN Carol 45 Apostle",
	}
	for _, input := range inputs {
		first, err := Parse(input)
		require.NoError(t, err, "parse %q", input)
		norm := first.Normalized()
		second, err := Parse(norm)
		require.NoError(t, err, "re-parse %q", norm)
		assert.Equal(t, norm, second.Normalized(), "normalized form of %q drifted", input)
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"F",
		"F1",
		"F1W",
		"F1T5",
		"F1T3W",
		"F1C",
		"F1G",
		"W9",
		"W9B5X",
		"W9M3",
		"W9TA1",
		"C5M2",
		"A=",
		"Q99",
		"F1W2 extra",
		"TURN now",
		"CANCEL",
		"CANCEL zero",
		"CANCEL 0",
		"JOIN",
		"JOIN Bob 3",
		"JOIN Bob 30 Wizard",
		"HELP one two",
	}
	for _, input := range inputs {
		_, err := Parse(input)
		require.Error(t, err, "input %q", input)
		var pe *ParseError
		assert.ErrorAs(t, err, &pe, "input %q", input)
	}
}
