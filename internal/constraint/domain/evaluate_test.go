package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rule(name, trigger string, op Operator, values []string, priority int, actions ...Action) Rule {
	return Rule{
		Name:             name,
		TriggerOptionKey: trigger,
		TriggerOperator:  op,
		TriggerValues:    values,
		Actions:          actions,
		Priority:         priority,
		Active:           true,
	}
}

func TestEvaluateOperators(t *testing.T) {
	cases := []struct {
		name     string
		op       Operator
		values   []string
		selected string
		fires    bool
	}{
		{"equals match", OpEquals, []string{"A4"}, "A4", true},
		{"equals mismatch", OpEquals, []string{"A4"}, "A5", false},
		{"equals is case sensitive", OpEquals, []string{"A4"}, "a4", false},
		{"in match", OpIn, []string{"A4", "A5"}, "A5", true},
		{"in mismatch", OpIn, []string{"A4", "A5"}, "B5", false},
		{"not_in match", OpNotIn, []string{"A4"}, "B5", true},
		{"not_in mismatch", OpNotIn, []string{"A4"}, "A4", false},
		{"contains match", OpContains, []string{"gloss"}, "gloss-coated", true},
		{"contains mismatch", OpContains, []string{"matte"}, "gloss-coated", false},
		{"beginsWith match", OpBeginsWith, []string{"hard"}, "hardcover", true},
		{"beginsWith mismatch", OpBeginsWith, []string{"soft"}, "hardcover", false},
		{"endsWith match", OpEndsWith, []string{"cover"}, "hardcover", true},
		{"endsWith mismatch", OpEndsWith, []string{"bound"}, "hardcover", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := rule("r", "size", tc.op, tc.values, 0,
				Action{Type: ActionShowMessage, Message: "fired"})
			res := Evaluate([]Rule{r}, Selection{"size": tc.selected})
			if tc.fires {
				assert.Equal(t, []string{"r"}, res.FiredRuleNames)
			} else {
				assert.Empty(t, res.FiredRuleNames)
			}
		})
	}
}

func TestEvaluateMissingSelectionNeverFires(t *testing.T) {
	// not_in would vacuously match an absent key; absent keys skip the rule
	// for every operator instead.
	r := rule("r", "size", OpNotIn, []string{"A4"}, 0,
		Action{Type: ActionShowMessage, Message: "fired"})
	res := Evaluate([]Rule{r}, Selection{"paper": "gloss"})
	assert.Empty(t, res.FiredRuleNames)
}

func TestEvaluateExtraConditionsAreConjunctive(t *testing.T) {
	r := rule("r", "size", OpEquals, []string{"A4"}, 0,
		Action{Type: ActionRequireOption, TargetOptionKey: "lamination"})
	r.Extra = []Condition{
		{OptionKey: "paper", Operator: OpIn, Values: []string{"gloss", "silk"}},
		{OptionKey: "color", Operator: OpEquals, Values: []string{"cmyk"}},
	}

	res := Evaluate([]Rule{r}, Selection{"size": "A4", "paper": "gloss", "color": "cmyk"})
	assert.True(t, res.Required["lamination"])

	res = Evaluate([]Rule{r}, Selection{"size": "A4", "paper": "gloss", "color": "mono"})
	assert.Empty(t, res.Required)
}

func TestEvaluatePriorityOrderAndStability(t *testing.T) {
	rules := []Rule{
		rule("second", "size", OpEquals, []string{"A4"}, 10,
			Action{Type: ActionShowMessage, Message: "b"}),
		rule("first", "size", OpEquals, []string{"A4"}, 1,
			Action{Type: ActionShowMessage, Message: "a"}),
		rule("third", "size", OpEquals, []string{"A4"}, 10,
			Action{Type: ActionShowMessage, Message: "c"}),
	}

	res := Evaluate(rules, Selection{"size": "A4"})
	assert.Equal(t, []string{"first", "second", "third"}, res.FiredRuleNames)

	// same input, same output
	again := Evaluate(rules, Selection{"size": "A4"})
	assert.Equal(t, res.FiredRuleNames, again.FiredRuleNames)
	assert.Equal(t, res.Violations, again.Violations)
}

func TestEvaluateRestrictionsOnlyNarrow(t *testing.T) {
	rules := []Rule{
		rule("broad", "size", OpEquals, []string{"A4"}, 1,
			Action{Type: ActionFilterOptions, TargetOptionKey: "paper", AllowedValues: []string{"gloss", "silk", "matte"}}),
		rule("narrow", "size", OpEquals, []string{"A4"}, 2,
			Action{Type: ActionFilterOptions, TargetOptionKey: "paper", AllowedValues: []string{"silk", "matte", "uncoated"}}),
		rule("cut", "size", OpEquals, []string{"A4"}, 3,
			Action{Type: ActionExcludeOptions, TargetOptionKey: "paper", ExcludedValues: []string{"matte"}}),
	}

	res := Evaluate(rules, Selection{"size": "A4"})
	assert.False(t, res.Eligible("paper", "gloss"), "dropped by second allow-list")
	assert.True(t, res.Eligible("paper", "silk"))
	assert.False(t, res.Eligible("paper", "matte"), "excluded after being allowed")
	assert.False(t, res.Eligible("paper", "uncoated"), "never in the first allow-list")

	// untouched options stay unrestricted
	assert.True(t, res.Eligible("binding", "saddle"))
}

func TestEvaluateExclusionSurvivesLaterAllow(t *testing.T) {
	rules := []Rule{
		rule("cut", "size", OpEquals, []string{"A4"}, 1,
			Action{Type: ActionExcludeOptions, TargetOptionKey: "paper", ExcludedValues: []string{"gloss"}}),
		rule("allow", "size", OpEquals, []string{"A4"}, 2,
			Action{Type: ActionFilterOptions, TargetOptionKey: "paper", AllowedValues: []string{"gloss", "silk"}}),
	}

	res := Evaluate(rules, Selection{"size": "A4"})
	assert.False(t, res.Eligible("paper", "gloss"), "a later allow-list must not re-admit an excluded value")
	assert.True(t, res.Eligible("paper", "silk"))
}

func TestEvaluateRequiredViolations(t *testing.T) {
	req := rule("require", "size", OpEquals, []string{"A4"}, 0,
		Action{Type: ActionRequireOption, TargetOptionKey: "lamination"})

	t.Run("missing value", func(t *testing.T) {
		res := Evaluate([]Rule{req}, Selection{"size": "A4"})
		require.Len(t, res.Violations, 1)
		assert.Equal(t, "lamination", res.Violations[0].OptionKey)
		assert.Equal(t, ViolationRequiredMissing, res.Violations[0].Reason)
		assert.False(t, res.Valid())
	})

	t.Run("selected value satisfies", func(t *testing.T) {
		res := Evaluate([]Rule{req}, Selection{"size": "A4", "lamination": "gloss"})
		assert.True(t, res.Valid())
	})

	t.Run("set_default satisfies", func(t *testing.T) {
		def := rule("default", "size", OpEquals, []string{"A4"}, 1,
			Action{Type: ActionSetDefault, TargetOptionKey: "lamination", DefaultValue: "matte"})
		res := Evaluate([]Rule{req, def}, Selection{"size": "A4"})
		assert.True(t, res.Valid())
	})

	t.Run("excluded default does not satisfy", func(t *testing.T) {
		def := rule("default", "size", OpEquals, []string{"A4"}, 1,
			Action{Type: ActionSetDefault, TargetOptionKey: "lamination", DefaultValue: "matte"})
		cut := rule("cut", "size", OpEquals, []string{"A4"}, 2,
			Action{Type: ActionExcludeOptions, TargetOptionKey: "lamination", ExcludedValues: []string{"matte"}})
		res := Evaluate([]Rule{req, def, cut}, Selection{"size": "A4"})
		require.Len(t, res.Violations, 1)
		assert.Equal(t, ViolationRequiredMissing, res.Violations[0].Reason)
	})
}

func TestEvaluateSelectedValueExcluded(t *testing.T) {
	cut := rule("cut", "size", OpEquals, []string{"A4"}, 0,
		Action{Type: ActionExcludeOptions, TargetOptionKey: "paper", ExcludedValues: []string{"gloss"}})

	res := Evaluate([]Rule{cut}, Selection{"size": "A4", "paper": "gloss"})
	require.Len(t, res.Violations, 1)
	assert.Equal(t, Violation{OptionKey: "paper", Code: "gloss", Reason: ViolationValueExcluded}, res.Violations[0])
}

func TestEvaluateAdvisoryActions(t *testing.T) {
	r := rule("r", "binding", OpEquals, []string{"hardcover"}, 0,
		Action{Type: ActionShowMessage, Message: "lead time doubles", Level: "warning"},
		Action{Type: ActionShowAddonList, AddonGroupID: 7},
		Action{Type: ActionAutoAdd, AddonItemID: 42},
		Action{Type: ActionChangePriceMode, PriceMode: "page"},
	)

	res := Evaluate([]Rule{r}, Selection{"binding": "hardcover"})
	assert.Equal(t, []Message{{Text: "lead time doubles", Level: "warning"}}, res.Messages)
	assert.Equal(t, []int64{7}, res.AddonGroups)
	assert.Equal(t, []AddonInjection{{ItemID: 42, Quantity: 1}}, res.AddonItems, "quantity defaults to 1")
	assert.Equal(t, "page", res.PriceMode)
	assert.True(t, res.Valid())
}

func TestEvaluateLastPriceModeWins(t *testing.T) {
	rules := []Rule{
		rule("a", "size", OpEquals, []string{"A4"}, 1,
			Action{Type: ActionChangePriceMode, PriceMode: "area"}),
		rule("b", "size", OpEquals, []string{"A4"}, 2,
			Action{Type: ActionChangePriceMode, PriceMode: "page"}),
	}
	res := Evaluate(rules, Selection{"size": "A4"})
	assert.Equal(t, "page", res.PriceMode)
}

func TestEvaluateSkipsInactiveAndUnknownActions(t *testing.T) {
	off := rule("off", "size", OpEquals, []string{"A4"}, 0,
		Action{Type: ActionRequireOption, TargetOptionKey: "lamination"})
	off.Active = false

	odd := rule("odd", "size", OpEquals, []string{"A4"}, 1,
		Action{Type: ActionType("hologram_overlay"), TargetOptionKey: "paper"},
		Action{Type: ActionShowMessage, Message: "still fires"})

	res := Evaluate([]Rule{off, odd}, Selection{"size": "A4"})
	assert.Empty(t, res.Required)
	assert.Equal(t, []string{"odd"}, res.FiredRuleNames)
	assert.Equal(t, "still fires", res.Messages[0].Text)
}

func TestActionJSONIgnoresUnknownFields(t *testing.T) {
	raw := []byte(`{"type":"filter_options","targetOptionKey":"paper","allowedValues":["gloss"],"uiHint":"chip","weight":3}`)
	var a Action
	require.NoError(t, json.Unmarshal(raw, &a))
	assert.Equal(t, ActionFilterOptions, a.Type)
	assert.Equal(t, []string{"gloss"}, a.AllowedValues)
}
