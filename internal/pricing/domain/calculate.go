package domain

import "github.com/shopspring/decimal"

// Input is everything one price computation needs. All fields are read-only
// within a call; the calculator keeps no state between calls.
type Input struct {
	Mode     Mode
	Config   PriceConfig
	Quantity int

	// AreaSqm is the caller-computed sheet area, read by AREA mode and by
	// per_sqm postprocess rows.
	AreaSqm decimal.Decimal

	// Pages is the inner page count for PAGE mode. Pages are imposed onto
	// sheets before pricing; zero pages prices covers and binding only.
	Pages int

	// PlateType and PrintMode key the LOOKUP row search.
	PlateType string
	PrintMode string
	PrintRows []PrintCostRow

	// Processes names the selected add-on processes; ProcessRows holds the
	// candidate cost rows, product-scoped and global mixed.
	Processes   []string
	ProcessRows []PostprocessCostRow

	// DiscountRate is the resolved quantity discount, zero for none.
	DiscountRate decimal.Decimal
}

// Quote is the priced breakdown. Incomplete flags a LOOKUP computation that
// found no matching cost row: the base cost is zero and the caller should
// surface a configuration warning rather than treat the price as real.
type Quote struct {
	BaseCost         int64 `json:"base_cost"`
	PostprocessTotal int64 `json:"postprocess_total"`
	DiscountAmount   int64 `json:"discount_amount"`
	Total            int64 `json:"total"`
	PerUnit          int64 `json:"per_unit"`
	Incomplete       bool  `json:"incomplete,omitempty"`
}

// Calculate prices one configuration. No-match conditions (missing lookup
// row, missing process row) price as zero instead of failing.
func Calculate(in Input) Quote {
	var q Quote
	q.BaseCost, q.Incomplete = baseCost(in)
	q.PostprocessTotal = postprocessTotal(in)

	subtotal := q.BaseCost + q.PostprocessTotal
	if in.DiscountRate.IsPositive() {
		q.DiscountAmount = roundAmount(decimal.NewFromInt(subtotal).Mul(in.DiscountRate))
	}
	q.Total = subtotal - q.DiscountAmount
	if in.Quantity > 0 {
		q.PerUnit = roundAmount(decimal.NewFromInt(q.Total).Div(decimal.NewFromInt(int64(in.Quantity))))
	}
	return q
}

func baseCost(in Input) (amount int64, incomplete bool) {
	qty := int64(in.Quantity)
	switch in.Mode {
	case ModeLookup:
		for _, row := range in.PrintRows {
			if row.Matches(in.PlateType, in.PrintMode, in.Quantity) {
				return row.UnitPrice * qty, false
			}
		}
		return 0, true
	case ModeArea:
		area := in.AreaSqm
		if area.LessThan(in.Config.MinAreaSqm) {
			area = in.Config.MinAreaSqm
		}
		return roundAmount(in.Config.UnitPriceSqm.Mul(area).Mul(decimal.NewFromInt(qty))), false
	case ModePage:
		imposition := int64(in.Config.Imposition)
		if imposition < 1 {
			imposition = 1
		}
		sheets := (int64(in.Pages) + imposition - 1) / imposition
		perCopy := sheets*in.Config.PageUnitPrice + in.Config.CoverPrice + in.Config.BindingCost
		return perCopy * qty, false
	case ModeComposite:
		return in.Config.BaseCost * qty, false
	}
	return 0, false
}

func postprocessTotal(in Input) int64 {
	var total int64
	for _, key := range in.Processes {
		row, ok := matchProcessRow(in.ProcessRows, key, in.Quantity)
		if !ok {
			continue
		}
		switch row.PriceType {
		case PricePerUnit:
			total += row.UnitPrice * int64(in.Quantity)
		case PricePerSqm:
			total += roundAmount(decimal.NewFromInt(row.UnitPrice).Mul(in.AreaSqm))
		default:
			total += row.UnitPrice
		}
	}
	return total
}

// matchProcessRow prefers a product-scoped row over a global one for the
// same process key.
func matchProcessRow(rows []PostprocessCostRow, key string, qty int) (PostprocessCostRow, bool) {
	var global PostprocessCostRow
	var hasGlobal bool
	for _, row := range rows {
		if !row.Active || row.ProcessKey != key || qty < row.QtyMin || qty > row.QtyMax {
			continue
		}
		if row.ProductID != nil {
			return row, true
		}
		if !hasGlobal {
			global, hasGlobal = row, true
		}
	}
	return global, hasGlobal
}

// roundAmount rounds to the nearest whole currency unit, halves up.
func roundAmount(d decimal.Decimal) int64 {
	return d.Add(decimal.NewFromFloat(0.5)).Floor().IntPart()
}
