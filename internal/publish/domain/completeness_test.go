package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyFacts() Facts {
	return Facts{
		HasDefaultRecipe:   true,
		OptionTypeCount:    3,
		MinChoicesPerType:  2,
		HasRequiredOption:  true,
		HasActivePricing:   true,
		ConstraintCount:    4,
		HasIntegrationCode: true,
	}
}

func TestCheckReady(t *testing.T) {
	r := Check(readyFacts())
	assert.True(t, r.Ready)
	assert.Empty(t, r.MissingReasons())
	assert.Empty(t, r.Notes)
}

func TestCheckOptionPrerequisites(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Facts)
		detail string
	}{
		{"missing default recipe", func(f *Facts) { f.HasDefaultRecipe = false }, "no default recipe"},
		{"no bound types", func(f *Facts) { f.OptionTypeCount = 0 }, "no option types bound"},
		{"single-choice type", func(f *Facts) { f.MinChoicesPerType = 1 }, "at least 2 choices"},
		{"no required option", func(f *Facts) { f.HasRequiredOption = false }, "no required option"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := readyFacts()
			tc.mutate(&f)
			r := Check(f)
			assert.False(t, r.Ready)
			assert.False(t, r.Options.Complete)
			assert.Contains(t, r.Options.Detail, tc.detail)
		})
	}
}

func TestCheckPricingAndIntegration(t *testing.T) {
	f := readyFacts()
	f.HasActivePricing = false
	f.HasIntegrationCode = false

	r := Check(f)
	assert.False(t, r.Ready)
	reasons := r.MissingReasons()
	require.Len(t, reasons, 2)
	assert.Contains(t, reasons[0], "pricing")
	assert.Contains(t, reasons[1], "integration")
}

func TestCheckZeroConstraintsCompleteWithNote(t *testing.T) {
	f := readyFacts()
	f.ConstraintCount = 0

	r := Check(f)
	assert.True(t, r.Ready, "constraint-free products are publishable")
	assert.True(t, r.Constraints.Complete)
	require.Len(t, r.Notes, 1)
	assert.Contains(t, r.Notes[0], "no constraints")
}
