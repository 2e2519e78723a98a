package domain

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateComposite(t *testing.T) {
	q := Calculate(Input{
		Mode:     ModeComposite,
		Config:   PriceConfig{BaseCost: 1000},
		Quantity: 10,
	})
	assert.Equal(t, int64(10000), q.BaseCost)
	assert.Equal(t, int64(10000), q.Total)
	assert.Equal(t, int64(1000), q.PerUnit)
	assert.False(t, q.Incomplete)
}

func TestCalculateLookup(t *testing.T) {
	rows := []PrintCostRow{
		{PlateType: "A4", PrintMode: "cmyk", QtyMin: 1, QtyMax: 99, UnitPrice: 50, Active: true},
		{PlateType: "A4", PrintMode: "cmyk", QtyMin: 100, QtyMax: 499, UnitPrice: 40, Active: true},
		{PlateType: "A4", PrintMode: "mono", QtyMin: 1, QtyMax: 499, UnitPrice: 20, Active: true},
	}

	t.Run("tier match", func(t *testing.T) {
		q := Calculate(Input{
			Mode: ModeLookup, Quantity: 150,
			PlateType: "A4", PrintMode: "cmyk", PrintRows: rows,
		})
		assert.Equal(t, int64(6000), q.BaseCost)
		assert.False(t, q.Incomplete)
	})

	t.Run("no match is zero plus incomplete flag", func(t *testing.T) {
		q := Calculate(Input{
			Mode: ModeLookup, Quantity: 1000,
			PlateType: "A4", PrintMode: "cmyk", PrintRows: rows,
		})
		assert.Zero(t, q.BaseCost)
		assert.Zero(t, q.Total)
		assert.True(t, q.Incomplete)
	})

	t.Run("inactive rows are skipped", func(t *testing.T) {
		off := []PrintCostRow{
			{PlateType: "A4", PrintMode: "cmyk", QtyMin: 1, QtyMax: 99, UnitPrice: 50},
		}
		q := Calculate(Input{
			Mode: ModeLookup, Quantity: 10,
			PlateType: "A4", PrintMode: "cmyk", PrintRows: off,
		})
		assert.True(t, q.Incomplete)
	})
}

func TestCalculateArea(t *testing.T) {
	cfg := PriceConfig{
		UnitPriceSqm: decimal.NewFromInt(200),
		MinAreaSqm:   decimal.NewFromFloat(0.5),
	}

	t.Run("above floor", func(t *testing.T) {
		q := Calculate(Input{
			Mode: ModeArea, Config: cfg, Quantity: 10,
			AreaSqm: decimal.NewFromFloat(1.25),
		})
		assert.Equal(t, int64(2500), q.BaseCost)
	})

	t.Run("minimum area floor applies", func(t *testing.T) {
		q := Calculate(Input{
			Mode: ModeArea, Config: cfg, Quantity: 10,
			AreaSqm: decimal.NewFromFloat(0.06),
		})
		assert.Equal(t, int64(1000), q.BaseCost)
	})
}

func TestCalculatePage(t *testing.T) {
	cfg := PriceConfig{Imposition: 8, PageUnitPrice: 50, CoverPrice: 300, BindingCost: 120}

	t.Run("pages impose onto sheets", func(t *testing.T) {
		q := Calculate(Input{Mode: ModePage, Config: cfg, Quantity: 5, Pages: 32})
		// 32/8 = 4 sheets, (4×50 + 300 + 120) × 5
		assert.Equal(t, int64(3100), q.BaseCost)
	})

	t.Run("partial sheet rounds up", func(t *testing.T) {
		q := Calculate(Input{Mode: ModePage, Config: cfg, Quantity: 5, Pages: 33})
		// ceil(33/8) = 5 sheets
		assert.Equal(t, int64(3350), q.BaseCost)
	})

	t.Run("no pages prices cover and binding only", func(t *testing.T) {
		q := Calculate(Input{Mode: ModePage, Config: cfg, Quantity: 5})
		assert.Equal(t, int64(2100), q.BaseCost)
	})

	t.Run("zero imposition treated as one", func(t *testing.T) {
		q := Calculate(Input{
			Mode:     ModePage,
			Config:   PriceConfig{PageUnitPrice: 50, CoverPrice: 300, BindingCost: 120},
			Quantity: 1,
			Pages:    4,
		})
		assert.Equal(t, int64(620), q.BaseCost)
	})
}

func TestCalculatePostprocess(t *testing.T) {
	productID := snowflake.ID(7)
	rows := []PostprocessCostRow{
		{ProcessKey: "lamination", PriceType: PricePerUnit, UnitPrice: 3, QtyMin: 1, QtyMax: 9999, Active: true},
		{ProcessKey: "die_cut", PriceType: PriceFixed, UnitPrice: 500, QtyMin: 1, QtyMax: 9999, Active: true},
		{ProcessKey: "uv_coat", PriceType: PricePerSqm, UnitPrice: 250, QtyMin: 1, QtyMax: 9999, Active: true},
	}

	q := Calculate(Input{
		Mode: ModeComposite, Config: PriceConfig{BaseCost: 10}, Quantity: 100,
		AreaSqm:   decimal.NewFromFloat(1.5),
		Processes: []string{"lamination", "die_cut", "uv_coat", "unpriced"}, ProcessRows: rows,
	})
	// per_unit 3×100, fixed 500 once, per_sqm 250×1.5, unpriced skipped
	assert.Equal(t, int64(1175), q.PostprocessTotal)
	assert.Equal(t, int64(2175), q.Total)

	t.Run("per_sqm contributes nothing without an area", func(t *testing.T) {
		q := Calculate(Input{
			Mode: ModeComposite, Quantity: 100,
			Processes: []string{"uv_coat"}, ProcessRows: rows,
		})
		assert.Equal(t, int64(0), q.PostprocessTotal)
	})

	t.Run("product row shadows global", func(t *testing.T) {
		shadowed := append([]PostprocessCostRow{
			{ProductID: &productID, ProcessKey: "die_cut", PriceType: PriceFixed, UnitPrice: 400, QtyMin: 1, QtyMax: 9999, Active: true},
		}, rows...)
		q := Calculate(Input{
			Mode: ModeComposite, Quantity: 100,
			Processes: []string{"die_cut"}, ProcessRows: shadowed,
		})
		assert.Equal(t, int64(400), q.PostprocessTotal)
	})
}

func TestCalculateDiscountRounding(t *testing.T) {
	q := Calculate(Input{
		Mode:         ModeComposite,
		Config:       PriceConfig{BaseCost: 333},
		Quantity:     3,
		DiscountRate: decimal.NewFromFloat(0.015),
	})
	// subtotal 999, 999×0.015 = 14.985 rounds to 15
	assert.Equal(t, int64(15), q.DiscountAmount)
	assert.Equal(t, int64(984), q.Total)
	assert.Equal(t, int64(328), q.PerUnit)
}

func TestCalculateZeroQuantity(t *testing.T) {
	q := Calculate(Input{Mode: ModeComposite, Config: PriceConfig{BaseCost: 100}})
	assert.Zero(t, q.Total)
	assert.Zero(t, q.PerUnit)
}
