package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func edge(from, to string) Rule {
	return Rule{
		Name:             from + "->" + to,
		TriggerOptionKey: from,
		TriggerOperator:  OpEquals,
		TriggerValues:    []string{"x"},
		Actions: []Action{
			{Type: ActionFilterOptions, TargetOptionKey: to, AllowedValues: []string{"y"}},
		},
		Active: true,
	}
}

func TestWouldCreateCycleSelfLoop(t *testing.T) {
	assert.True(t, WouldCreateCycle(nil, edge("paper", "paper")))
}

func TestWouldCreateCycleDirect(t *testing.T) {
	existing := []Rule{edge("size", "paper")}
	assert.True(t, WouldCreateCycle(existing, edge("paper", "size")))
}

func TestWouldCreateCycleTransitive(t *testing.T) {
	existing := []Rule{edge("size", "paper"), edge("paper", "lamination")}
	assert.True(t, WouldCreateCycle(existing, edge("lamination", "size")))
	assert.False(t, WouldCreateCycle(existing, edge("lamination", "binding")))
}

func TestWouldCreateCycleCountsInactiveRules(t *testing.T) {
	dormant := edge("paper", "size")
	dormant.Active = false
	assert.True(t, WouldCreateCycle([]Rule{dormant}, edge("size", "paper")))
}

func TestWouldCreateCycleIgnoresAdvisoryActions(t *testing.T) {
	// messages and price-mode changes target no option and add no edge
	candidate := Rule{
		TriggerOptionKey: "size",
		TriggerOperator:  OpEquals,
		TriggerValues:    []string{"A4"},
		Actions: []Action{
			{Type: ActionShowMessage, Message: "note"},
			{Type: ActionChangePriceMode, PriceMode: "area"},
		},
		Active: true,
	}
	existing := []Rule{edge("paper", "size")}
	assert.False(t, WouldCreateCycle(existing, candidate))
	assert.Empty(t, candidate.TargetKeys())
}

func TestHasCycleDiamondIsAcyclic(t *testing.T) {
	g := BuildGraph([]Rule{
		edge("size", "paper"),
		edge("size", "lamination"),
		edge("paper", "finish"),
		edge("lamination", "finish"),
	})
	assert.False(t, g.HasCycle())
}
