package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	discountdomain "github.com/printlabs/pressconfig/internal/discount/domain"
	"github.com/printlabs/pressconfig/internal/pricing/domain"
	"github.com/printlabs/pressconfig/internal/pricing/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	DiscountRepo discountdomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	discountRepo discountdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("pricing.service"),
		genID:        p.GenID,
		repo:         repository.Provide(),
		discountRepo: p.DiscountRepo,
	}
}

func (s *Service) SaveConfig(ctx context.Context, productID snowflake.ID, spec domain.ConfigSpec) (*domain.PriceConfig, error) {
	if !spec.Mode.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMode, spec.Mode)
	}

	now := time.Now().UTC()
	imposition := spec.Imposition
	if imposition <= 0 {
		imposition = 1
	}
	cfg := &domain.PriceConfig{
		ID:            s.genID.Generate(),
		ProductID:     productID,
		Mode:          spec.Mode,
		UnitPriceSqm:  spec.UnitPriceSqm,
		MinAreaSqm:    spec.MinAreaSqm,
		Imposition:    imposition,
		PageUnitPrice: spec.PageUnitPrice,
		CoverPrice:    spec.CoverPrice,
		BindingCost:   spec.BindingCost,
		BaseCost:      spec.BaseCost,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.UpsertConfig(ctx, s.db, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *Service) Config(ctx context.Context, productID snowflake.ID) (*domain.PriceConfig, error) {
	return s.repo.FindConfig(ctx, s.db, productID)
}

func (s *Service) AddPrintRow(ctx context.Context, productID snowflake.ID, row domain.PrintCostRow) (*domain.PrintCostRow, error) {
	if row.QtyMin < 0 || row.QtyMax < row.QtyMin {
		return nil, domain.ErrInvalidRange
	}
	row.ID = s.genID.Generate()
	row.ProductID = productID
	row.Active = true
	row.CreatedAt = time.Now().UTC()
	if err := s.repo.InsertPrintRow(ctx, s.db, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) AddProcessRow(ctx context.Context, productID *snowflake.ID, row domain.PostprocessCostRow) (*domain.PostprocessCostRow, error) {
	if row.QtyMin < 0 || row.QtyMax < row.QtyMin {
		return nil, domain.ErrInvalidRange
	}
	row.ID = s.genID.Generate()
	row.ProductID = productID
	row.Active = true
	row.CreatedAt = time.Now().UTC()
	if err := s.repo.InsertProcessRow(ctx, s.db, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// Price assembles the calculator's inputs from storage and runs it. A fired
// change_price_mode action arrives as req.ModeOverride and replaces the
// configured mode for this call only.
func (s *Service) Price(ctx context.Context, productID snowflake.ID, req domain.PriceRequest) (*domain.Quote, error) {
	cfg, err := s.repo.FindConfig(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if cfg == nil || !cfg.Active {
		return nil, domain.ErrNoPriceConfig
	}

	mode := cfg.Mode
	if req.ModeOverride != "" {
		if !req.ModeOverride.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMode, req.ModeOverride)
		}
		mode = req.ModeOverride
	}

	in := domain.Input{
		Mode:      mode,
		Config:    *cfg,
		Quantity:  req.Quantity,
		AreaSqm:   req.AreaSqm,
		Pages:     req.Pages,
		PlateType: req.PlateType,
		PrintMode: req.PrintMode,
		Processes: req.Processes,
	}

	if mode == domain.ModeLookup {
		in.PrintRows, err = s.repo.ListPrintRows(ctx, s.db, productID)
		if err != nil {
			return nil, err
		}
	}
	if len(req.Processes) > 0 {
		in.ProcessRows, err = s.repo.ListProcessRows(ctx, s.db, productID)
		if err != nil {
			return nil, err
		}
	}

	tiers, err := s.discountRepo.ListForProduct(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if applied, ok := discountdomain.Resolve(tiers, req.Quantity); ok {
		in.DiscountRate = applied.Rate
	}

	q := domain.Calculate(in)
	if q.Incomplete {
		s.warnNoRow(productID, req)
	}
	return &q, nil
}

func (s *Service) Snapshot(ctx context.Context, productID snowflake.ID) (*domain.Snapshot, error) {
	cfg, err := s.repo.FindConfig(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if cfg == nil || !cfg.Active {
		return nil, domain.ErrNoPriceConfig
	}

	snap := &domain.Snapshot{Config: *cfg}
	if snap.PrintRows, err = s.repo.ListPrintRows(ctx, s.db, productID); err != nil {
		return nil, err
	}
	if snap.ProcessRows, err = s.repo.ListProcessRows(ctx, s.db, productID); err != nil {
		return nil, err
	}
	if snap.Tiers, err = s.discountRepo.ListForProduct(ctx, s.db, productID); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Service) warnNoRow(productID snowflake.ID, req domain.PriceRequest) {
	s.log.Warn("lookup price had no matching cost row",
		zap.String("product_id", productID.String()),
		zap.String("plate_type", req.PlateType),
		zap.String("print_mode", req.PrintMode),
		zap.Int("quantity", req.Quantity))
}
