package domain

import (
	discountdomain "github.com/printlabs/pressconfig/internal/discount/domain"
)

// Snapshot is a read-only capture of one product's pricing data. Quote calls
// against it touch no storage, so a simulation can price its whole case set
// from a single load.
type Snapshot struct {
	Config      PriceConfig
	PrintRows   []PrintCostRow
	ProcessRows []PostprocessCostRow
	Tiers       []discountdomain.QtyDiscountTier
}

func (s *Snapshot) Quote(req PriceRequest) Quote {
	mode := s.Config.Mode
	if req.ModeOverride != "" && req.ModeOverride.Valid() {
		mode = req.ModeOverride
	}

	in := Input{
		Mode:        mode,
		Config:      s.Config,
		Quantity:    req.Quantity,
		AreaSqm:     req.AreaSqm,
		Pages:       req.Pages,
		PlateType:   req.PlateType,
		PrintMode:   req.PrintMode,
		PrintRows:   s.PrintRows,
		Processes:   req.Processes,
		ProcessRows: s.ProcessRows,
	}
	if applied, ok := discountdomain.Resolve(s.Tiers, req.Quantity); ok {
		in.DiscountRate = applied.Rate
	}
	return Calculate(in)
}
