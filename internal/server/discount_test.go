package server

import (
	"testing"

	discountdomain "github.com/printlabs/pressconfig/internal/discount/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDiscountTierSpecValidate(t *testing.T) {
	valid := discountTierSpec{Label: "bulk", QtyMin: 100, QtyMax: 499, Rate: decimal.RequireFromString("0.05")}
	assert.NoError(t, valid.validate())

	cases := map[string]discountTierSpec{
		"empty label":    {QtyMin: 100, QtyMax: 499, Rate: decimal.RequireFromString("0.05")},
		"zero qty min":   {Label: "bulk", QtyMin: 0, QtyMax: 499, Rate: decimal.RequireFromString("0.05")},
		"inverted range": {Label: "bulk", QtyMin: 500, QtyMax: 499, Rate: decimal.RequireFromString("0.05")},
		"zero rate":      {Label: "bulk", QtyMin: 100, QtyMax: 499},
		"rate of one":    {Label: "bulk", QtyMin: 100, QtyMax: 499, Rate: decimal.NewFromInt(1)},
	}
	for name, spec := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, spec.validate(), discountdomain.ErrInvalidTier)
		})
	}
}
