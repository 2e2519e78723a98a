// Package domain enumerates option combinations and runs them through a
// pluggable per-case evaluator, keeping running tallies for the batch
// persistence layer.
package domain

import (
	"fmt"
	"math/rand"
)

// Set is one option type's candidate choice codes, in display order.
type Set struct {
	Key     string
	Choices []string
}

// Combination assigns one choice code per option type key.
type Combination map[string]string

// TooLargeError reports a combination space over the ceiling. It is a
// precondition failure: the caller must explicitly sample or force, never
// get a silently truncated result.
type TooLargeError struct {
	Total   int
	Ceiling int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("combination space of %d exceeds ceiling %d; sample or force explicitly", e.Total, e.Ceiling)
}

// SpaceSize returns ∏ len(choices) over the sets. Empty input or any empty
// set yields zero.
func SpaceSize(sets []Set) int {
	if len(sets) == 0 {
		return 0
	}
	total := 1
	for _, s := range sets {
		total *= len(s.Choices)
	}
	return total
}

// Enumerate materializes the full Cartesian product in lexicographic order
// of the input sets.
func Enumerate(sets []Set) []Combination {
	total := SpaceSize(sets)
	if total == 0 {
		return nil
	}

	out := make([]Combination, 0, total)
	idx := make([]int, len(sets))
	for {
		combo := make(Combination, len(sets))
		for i, s := range sets {
			combo[s.Key] = s.Choices[idx[i]]
		}
		out = append(out, combo)

		pos := len(sets) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(sets[pos].Choices) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			return out
		}
	}
}

// PlanRequest states how the caller wants an oversized space handled.
type PlanRequest struct {
	Ceiling    int
	Sample     bool
	SampleSize int
	Force      bool
	// Seed drives sampling; zero means nondeterministic.
	Seed int64
}

// Plan sizes the space and materializes the combinations according to the
// request. Over-ceiling spaces without an explicit Sample or Force choice
// fail with *TooLargeError.
func Plan(sets []Set, req PlanRequest) ([]Combination, bool, error) {
	total := SpaceSize(sets)
	if total == 0 {
		return nil, false, nil
	}
	if total <= req.Ceiling || req.Force {
		return Enumerate(sets), false, nil
	}
	if !req.Sample {
		return nil, false, &TooLargeError{Total: total, Ceiling: req.Ceiling}
	}

	size := req.SampleSize
	if size <= 0 || size > req.Ceiling {
		size = req.Ceiling
	}
	all := Enumerate(sets)
	return sample(all, size, req.Seed), true, nil
}

func sample(all []Combination, n int, seed int64) []Combination {
	if n >= len(all) {
		return all
	}
	rng := rand.New(rand.NewSource(seed))
	if seed == 0 {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	// partial Fisher-Yates, first n positions
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(all)-i)
		all[i], all[j] = all[j], all[i]
	}
	return all[:n]
}
