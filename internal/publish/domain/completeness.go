// Package domain implements the publish readiness gate: a read-only
// aggregation of structural facts about a product answering whether it can
// go live.
package domain

import "fmt"

const minChoicesPerType = 2

// Facts are the raw inputs the gate evaluates, gathered by the service from
// the option, recipe, pricing and constraint stores.
type Facts struct {
	HasDefaultRecipe   bool  `json:"has_default_recipe"`
	OptionTypeCount    int   `json:"option_type_count"`
	MinChoicesPerType  int   `json:"min_choices_per_type"`
	HasRequiredOption  bool  `json:"has_required_option"`
	HasActivePricing   bool  `json:"has_active_pricing"`
	ConstraintCount    int64 `json:"constraint_count"`
	HasIntegrationCode bool  `json:"has_integration_code"`
}

// Item is one checklist entry.
type Item struct {
	Complete bool   `json:"complete"`
	Detail   string `json:"detail,omitempty"`
}

// Readiness is the evaluated checklist. Ready is the conjunction of every
// item's Complete flag; Notes carry non-blocking review hints.
type Readiness struct {
	Options     Item     `json:"options"`
	Pricing     Item     `json:"pricing"`
	Constraints Item     `json:"constraints"`
	Integration Item     `json:"integration"`
	Ready       bool     `json:"ready"`
	Notes       []string `json:"notes,omitempty"`
}

// MissingReasons lists the blocking items, for publish errors.
func (r Readiness) MissingReasons() []string {
	var reasons []string
	for _, entry := range []struct {
		name string
		item Item
	}{
		{"options", r.Options},
		{"pricing", r.Pricing},
		{"constraints", r.Constraints},
		{"integration", r.Integration},
	} {
		if !entry.item.Complete {
			reasons = append(reasons, fmt.Sprintf("%s: %s", entry.name, entry.item.Detail))
		}
	}
	return reasons
}

// Check evaluates the checklist. A product with zero constraints is still
// publishable; it only earns a review note, since some simple products
// genuinely have no rules.
func Check(f Facts) Readiness {
	var r Readiness

	switch {
	case !f.HasDefaultRecipe:
		r.Options.Detail = "no default recipe"
	case f.OptionTypeCount < 1:
		r.Options.Detail = "no option types bound"
	case f.MinChoicesPerType < minChoicesPerType:
		r.Options.Detail = fmt.Sprintf("every bound type needs at least %d choices", minChoicesPerType)
	case !f.HasRequiredOption:
		r.Options.Detail = "no required option"
	default:
		r.Options.Complete = true
	}

	if f.HasActivePricing {
		r.Pricing.Complete = true
	} else {
		r.Pricing.Detail = "no active price config"
	}

	r.Constraints.Complete = true
	if f.ConstraintCount == 0 {
		r.Constraints.Detail = "no constraints defined"
		r.Notes = append(r.Notes, "product has no constraints; review whether that is intended")
	}

	if f.HasIntegrationCode {
		r.Integration.Complete = true
	} else {
		r.Integration.Detail = "neither editor code nor MES item code set"
	}

	r.Ready = r.Options.Complete && r.Pricing.Complete && r.Constraints.Complete && r.Integration.Complete
	return r
}
