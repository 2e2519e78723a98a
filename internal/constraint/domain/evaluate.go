package domain

import (
	"slices"
	"sort"
	"strings"
)

// Restriction is the accumulated narrowing of one option's candidate choices.
// A nil Allowed list means no allow-list has fired for the option; Excluded
// codes are removed unconditionally. Restrictions only ever narrow, never
// widen, so the fired-rule order cannot re-admit an excluded choice.
type Restriction struct {
	Allowed  []string
	Excluded map[string]bool
}

// Eligible reports whether the choice code survives the restriction.
func (r Restriction) Eligible(code string) bool {
	if r.Excluded[code] {
		return false
	}
	if r.Allowed == nil {
		return true
	}
	return slices.Contains(r.Allowed, code)
}

// Violation reports a required option left without an eligible value, or a
// selected value that a fired rule has ruled out.
type Violation struct {
	OptionKey string `json:"option_key"`
	Code      string `json:"code"`
	Reason    string `json:"reason"`
}

const (
	ViolationRequiredMissing = "required_missing"
	ViolationValueExcluded   = "value_excluded"
)

// Message is a show_message action surfaced to the caller.
type Message struct {
	Text  string `json:"text"`
	Level string `json:"level,omitempty"`
}

// AddonInjection is an auto_add action's payload.
type AddonInjection struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// Result is everything the fired rules produced for one selection.
type Result struct {
	FiredRuleNames []string
	Restrictions   map[string]Restriction
	Required       map[string]bool
	Defaults       map[string]string
	Messages       []Message
	AddonGroups    []int64
	AddonItems     []AddonInjection
	PriceMode      string
	Violations     []Violation
}

// Valid reports whether the selection passed without violations.
func (r Result) Valid() bool { return len(r.Violations) == 0 }

// Eligible reports whether a choice code for the given option survives all
// fired restrictions. Options never targeted by a fired rule are unrestricted.
func (r Result) Eligible(key, code string) bool {
	res, ok := r.Restrictions[key]
	if !ok {
		return true
	}
	return res.Eligible(code)
}

// Evaluate applies the active rules to the selection. Rules run in ascending
// priority; equal priorities keep their input order, so evaluation is
// deterministic for a fixed rule set. Inactive rules and rules whose trigger
// or extra conditions do not match are skipped. Unrecognized action types are
// ignored so rule sets written by newer builds still evaluate.
func Evaluate(rules []Rule, sel Selection) Result {
	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	res := Result{
		Restrictions: make(map[string]Restriction),
		Required:     make(map[string]bool),
		Defaults:     make(map[string]string),
	}

	for _, rule := range ordered {
		if !rule.Active {
			continue
		}
		if !matches(sel, rule.TriggerOptionKey, rule.TriggerOperator, rule.TriggerValues) {
			continue
		}
		allExtra := true
		for _, cond := range rule.Extra {
			if !matches(sel, cond.OptionKey, cond.Operator, cond.Values) {
				allExtra = false
				break
			}
		}
		if !allExtra {
			continue
		}

		res.FiredRuleNames = append(res.FiredRuleNames, rule.Name)
		for _, a := range rule.Actions {
			applyAction(&res, a)
		}
	}

	collectViolations(&res, sel)
	return res
}

func applyAction(res *Result, a Action) {
	switch a.Type {
	case ActionFilterOptions:
		r := res.Restrictions[a.TargetOptionKey]
		if r.Allowed == nil {
			r.Allowed = slices.Clone(a.AllowedValues)
		} else {
			r.Allowed = intersect(r.Allowed, a.AllowedValues)
		}
		res.Restrictions[a.TargetOptionKey] = r
	case ActionExcludeOptions:
		r := res.Restrictions[a.TargetOptionKey]
		if r.Excluded == nil {
			r.Excluded = make(map[string]bool, len(a.ExcludedValues))
		}
		for _, v := range a.ExcludedValues {
			r.Excluded[v] = true
		}
		res.Restrictions[a.TargetOptionKey] = r
	case ActionRequireOption:
		res.Required[a.TargetOptionKey] = true
	case ActionSetDefault:
		res.Defaults[a.TargetOptionKey] = a.DefaultValue
	case ActionShowMessage:
		res.Messages = append(res.Messages, Message{Text: a.Message, Level: a.Level})
	case ActionShowAddonList:
		res.AddonGroups = append(res.AddonGroups, a.AddonGroupID)
	case ActionAutoAdd:
		qty := a.Quantity
		if qty <= 0 {
			qty = 1
		}
		res.AddonItems = append(res.AddonItems, AddonInjection{ItemID: a.AddonItemID, Quantity: qty})
	case ActionChangePriceMode:
		// last fired rule wins
		res.PriceMode = a.PriceMode
	}
}

func collectViolations(res *Result, sel Selection) {
	// A selected value knocked out by a fired restriction invalidates the
	// selection even when the option is not required.
	for key, code := range sel {
		if code == "" {
			continue
		}
		if !res.Eligible(key, code) {
			res.Violations = append(res.Violations, Violation{
				OptionKey: key,
				Code:      code,
				Reason:    ViolationValueExcluded,
			})
		}
	}

	required := make([]string, 0, len(res.Required))
	for key := range res.Required {
		required = append(required, key)
	}
	sort.Strings(required)
	for _, key := range required {
		code := sel[key]
		if code == "" {
			code = res.Defaults[key]
		}
		if code == "" || !res.Eligible(key, code) {
			res.Violations = append(res.Violations, Violation{
				OptionKey: key,
				Reason:    ViolationRequiredMissing,
			})
		}
	}
}

func matches(sel Selection, key string, op Operator, values []string) bool {
	selected, ok := sel[key]
	if !ok || selected == "" {
		return false
	}
	switch op {
	case OpEquals:
		return len(values) > 0 && selected == values[0]
	case OpIn:
		return slices.Contains(values, selected)
	case OpNotIn:
		return !slices.Contains(values, selected)
	case OpContains:
		for _, v := range values {
			if strings.Contains(selected, v) {
				return true
			}
		}
	case OpBeginsWith:
		for _, v := range values {
			if strings.HasPrefix(selected, v) {
				return true
			}
		}
	case OpEndsWith:
		for _, v := range values {
			if strings.HasSuffix(selected, v) {
				return true
			}
		}
	}
	return false
}

func intersect(a, b []string) []string {
	out := make([]string, 0, len(a))
	for _, v := range a {
		if slices.Contains(b, v) {
			out = append(out, v)
		}
	}
	return out
}
