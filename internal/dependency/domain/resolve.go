package domain

import (
	"fmt"
	"slices"
	"sort"
)

// FilterFunc narrows a target's choice codes based on the source's selected
// value. Registered filters carry business shapes the rule rows cannot
// express, such as "only papers printable at this width".
type FilterFunc func(sourceValue string, choices []string) []string

// Resolver applies dependency links to a selection. The zero value works;
// filter rules naming an unregistered filter produce a warning and leave the
// target untouched.
type Resolver struct {
	filters map[string]FilterFunc
}

func NewResolver() *Resolver {
	return &Resolver{filters: make(map[string]FilterFunc)}
}

func (r *Resolver) RegisterFilter(name string, fn FilterFunc) {
	if r.filters == nil {
		r.filters = make(map[string]FilterFunc)
	}
	r.filters[name] = fn
}

// Outcome is what the links did to the widget state.
type Outcome struct {
	// Hidden lists target keys hidden by visibility rules. A key any rule
	// hides stays hidden; hiding wins over showing.
	Hidden map[string]bool `json:"hidden"`
	// Choices holds the post-filter choice codes per target; keys absent
	// here keep their full list.
	Choices map[string][]string `json:"choices,omitempty"`
	// Resets lists targets whose current selection must be cleared, either
	// by a reset rule or because filtering removed the selected value.
	Resets []string `json:"resets,omitempty"`
	// Warnings reports non-fatal oddities such as unknown filter names.
	Warnings []string `json:"warnings,omitempty"`
}

// Resolve applies the active links in ascending priority against the
// selection. choices maps each target key to its full candidate codes.
func (r *Resolver) Resolve(links []Link, sel map[string]string, choices map[string][]string) Outcome {
	ordered := make([]Link, len(links))
	copy(ordered, links)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	out := Outcome{Hidden: make(map[string]bool)}
	resets := make(map[string]bool)

	for _, l := range ordered {
		if !l.Active {
			continue
		}
		matched := l.matches(sel)
		switch l.Kind {
		case KindVisibility:
			// A show link gates the target on its source: until the source
			// matches, the target is hidden. A hide link is the inverse.
			// Hiding is sticky; no later link un-hides a target.
			if matched == (l.Effect == EffectHide) {
				out.Hidden[l.TargetKey] = true
			}
		case KindReset:
			if matched && sel[l.TargetKey] != "" {
				resets[l.TargetKey] = true
			}
		case KindFilter:
			if !matched {
				continue
			}
			fn, ok := r.filters[l.FilterName]
			if !ok {
				out.Warnings = append(out.Warnings,
					fmt.Sprintf("dependency %s names unknown filter %q", l.ID, l.FilterName))
				continue
			}
			base, ok := out.Choices[l.TargetKey]
			if !ok {
				base = choices[l.TargetKey]
			}
			filtered := fn(sel[l.SourceKey], base)
			if out.Choices == nil {
				out.Choices = make(map[string][]string)
			}
			out.Choices[l.TargetKey] = filtered
		}
	}

	// filtering out the selected value forces a reset
	for key, filtered := range out.Choices {
		if v := sel[key]; v != "" && !slices.Contains(filtered, v) {
			resets[key] = true
		}
	}
	// so does hiding an option that has a value
	for key := range out.Hidden {
		if sel[key] != "" {
			resets[key] = true
		}
	}

	out.Resets = make([]string, 0, len(resets))
	for key := range resets {
		out.Resets = append(out.Resets, key)
	}
	sort.Strings(out.Resets)
	return out
}

func (l Link) matches(sel map[string]string) bool {
	v, ok := sel[l.SourceKey]
	if !ok || v == "" {
		return false
	}
	if len(l.SourceValues) == 0 {
		return true
	}
	return slices.Contains(l.SourceValues, v)
}
