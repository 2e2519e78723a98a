package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeSets() []Set {
	return []Set{
		{Key: "size", Choices: []string{"A4", "A5"}},
		{Key: "paper", Choices: []string{"gloss", "silk", "kraft"}},
		{Key: "color", Choices: []string{"cmyk", "mono"}},
	}
}

func TestSpaceSize(t *testing.T) {
	assert.Equal(t, 12, SpaceSize(threeSets()))
	assert.Zero(t, SpaceSize(nil))
	assert.Zero(t, SpaceSize([]Set{{Key: "size"}}))
}

func TestEnumerateProducesFullProduct(t *testing.T) {
	combos := Enumerate(threeSets())
	require.Len(t, combos, 12)

	seen := make(map[string]bool, len(combos))
	for _, c := range combos {
		require.Len(t, c, 3, "one choice per option type")
		key := fmt.Sprintf("%s|%s|%s", c["size"], c["paper"], c["color"])
		assert.False(t, seen[key], "duplicate combination %s", key)
		seen[key] = true
	}
}

func TestPlanUnderCeilingMaterializesAll(t *testing.T) {
	combos, sampled, err := Plan(threeSets(), PlanRequest{Ceiling: 100})
	require.NoError(t, err)
	assert.False(t, sampled)
	assert.Len(t, combos, 12)
}

func TestPlanOverCeilingIsPreconditionFailure(t *testing.T) {
	_, _, err := Plan(threeSets(), PlanRequest{Ceiling: 10})
	var tooLarge *TooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, 12, tooLarge.Total)
	assert.Equal(t, 10, tooLarge.Ceiling)
}

func TestPlanSampling(t *testing.T) {
	combos, sampled, err := Plan(threeSets(), PlanRequest{
		Ceiling: 10, Sample: true, SampleSize: 5, Seed: 1,
	})
	require.NoError(t, err)
	assert.True(t, sampled)
	require.Len(t, combos, 5)

	// every sampled combination belongs to the full product
	full := make(map[string]bool)
	for _, c := range Enumerate(threeSets()) {
		full[fmt.Sprintf("%s|%s|%s", c["size"], c["paper"], c["color"])] = true
	}
	for _, c := range combos {
		assert.True(t, full[fmt.Sprintf("%s|%s|%s", c["size"], c["paper"], c["color"])])
	}
}

func TestPlanSamplingIsSeedDeterministic(t *testing.T) {
	req := PlanRequest{Ceiling: 10, Sample: true, SampleSize: 5, Seed: 7}
	a, _, err := Plan(threeSets(), req)
	require.NoError(t, err)
	b, _, err := Plan(threeSets(), req)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPlanForceMaterializesOversized(t *testing.T) {
	combos, sampled, err := Plan(threeSets(), PlanRequest{Ceiling: 10, Force: true})
	require.NoError(t, err)
	assert.False(t, sampled)
	assert.Len(t, combos, 12)
}

func TestPlanEmptySpace(t *testing.T) {
	combos, sampled, err := Plan(nil, PlanRequest{Ceiling: 10})
	require.NoError(t, err)
	assert.False(t, sampled)
	assert.Empty(t, combos)
}
