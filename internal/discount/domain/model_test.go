package domain

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProductTierBeatsGlobal(t *testing.T) {
	productID := snowflake.ID(42)
	tiers := []QtyDiscountTier{
		{Label: "global", QtyMin: 0, QtyMax: 999, Rate: decimal.NewFromFloat(0.01), DisplayOrder: 10, Active: true},
		{ProductID: &productID, Label: "bulk", QtyMin: 100, QtyMax: 299, Rate: decimal.NewFromFloat(0.03), DisplayOrder: 1, Active: true},
	}

	applied, ok := Resolve(tiers, 150)
	require.True(t, ok)
	assert.Equal(t, "bulk", applied.Label)
	assert.True(t, applied.Rate.Equal(decimal.NewFromFloat(0.03)))
}

func TestResolveRangeBoundsInclusive(t *testing.T) {
	tiers := []QtyDiscountTier{
		{Label: "t", QtyMin: 100, QtyMax: 299, Rate: decimal.NewFromFloat(0.05), Active: true},
	}

	for _, qty := range []int{100, 299} {
		_, ok := Resolve(tiers, qty)
		assert.True(t, ok, "qty %d inside range", qty)
	}
	for _, qty := range []int{99, 300} {
		_, ok := Resolve(tiers, qty)
		assert.False(t, ok, "qty %d outside range", qty)
	}
}

func TestResolveNoMatchIsNotAnError(t *testing.T) {
	applied, ok := Resolve(nil, 50)
	assert.False(t, ok)
	assert.True(t, applied.Rate.IsZero())
}

func TestResolveSkipsInactive(t *testing.T) {
	tiers := []QtyDiscountTier{
		{Label: "off", QtyMin: 0, QtyMax: 999, Rate: decimal.NewFromFloat(0.10)},
		{Label: "on", QtyMin: 0, QtyMax: 999, Rate: decimal.NewFromFloat(0.02), DisplayOrder: 5, Active: true},
	}
	applied, ok := Resolve(tiers, 10)
	require.True(t, ok)
	assert.Equal(t, "on", applied.Label)
}

func TestResolveTiesKeepInputOrder(t *testing.T) {
	tiers := []QtyDiscountTier{
		{Label: "first", QtyMin: 0, QtyMax: 999, Rate: decimal.NewFromFloat(0.02), DisplayOrder: 3, Active: true},
		{Label: "second", QtyMin: 0, QtyMax: 999, Rate: decimal.NewFromFloat(0.04), DisplayOrder: 3, Active: true},
	}
	applied, ok := Resolve(tiers, 10)
	require.True(t, ok)
	assert.Equal(t, "first", applied.Label)
}
