package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	constraintdomain "github.com/printlabs/pressconfig/internal/constraint/domain"
	optiondomain "github.com/printlabs/pressconfig/internal/option/domain"
	pricingdomain "github.com/printlabs/pressconfig/internal/pricing/domain"
	productdomain "github.com/printlabs/pressconfig/internal/product/domain"
	"github.com/printlabs/pressconfig/internal/publish/domain"
	"github.com/printlabs/pressconfig/internal/publish/repository"
	recipedomain "github.com/printlabs/pressconfig/internal/recipe/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	ProductRepo productdomain.Repository
	OptionRepo  optiondomain.Repository
	Recipes     recipedomain.Service
	Pricing     pricingdomain.Service
	Constraints constraintdomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	productRepo productdomain.Repository
	optionRepo  optiondomain.Repository
	recipes     recipedomain.Service
	pricing     pricingdomain.Service
	constraints constraintdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("publish.service"),
		genID:       p.GenID,
		repo:        repository.Provide(),
		productRepo: p.ProductRepo,
		optionRepo:  p.OptionRepo,
		recipes:     p.Recipes,
		pricing:     p.Pricing,
		constraints: p.Constraints,
	}
}

func (s *Service) Readiness(ctx context.Context, productID snowflake.ID) (*domain.Readiness, error) {
	facts, err := s.gatherFacts(ctx, productID)
	if err != nil {
		return nil, err
	}
	r := domain.Check(*facts)
	return &r, nil
}

// Publish flips the product visible after the readiness gate passes, and
// records the transition. A blocked attempt changes nothing.
func (s *Service) Publish(ctx context.Context, productID snowflake.ID, actor string) error {
	readiness, err := s.Readiness(ctx, productID)
	if err != nil {
		return err
	}
	if !readiness.Ready {
		return &domain.PublishError{Reasons: readiness.MissingReasons()}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.SetVisibility(ctx, tx, productID, true); err != nil {
			return err
		}
		return s.repo.InsertEvent(ctx, tx, &domain.PublishEvent{
			ID:        s.genID.Generate(),
			ProductID: productID,
			Published: true,
			Actor:     actor,
			CreatedAt: time.Now().UTC(),
		})
	})
}

func (s *Service) Unpublish(ctx context.Context, productID snowflake.ID, actor string) error {
	p, err := s.productRepo.FindByID(ctx, s.db, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrProductNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.SetVisibility(ctx, tx, productID, false); err != nil {
			return err
		}
		return s.repo.InsertEvent(ctx, tx, &domain.PublishEvent{
			ID:        s.genID.Generate(),
			ProductID: productID,
			Published: false,
			Actor:     actor,
			CreatedAt: time.Now().UTC(),
		})
	})
}

func (s *Service) History(ctx context.Context, productID snowflake.ID) ([]domain.PublishEvent, error) {
	return s.repo.ListEvents(ctx, s.db, productID)
}

func (s *Service) gatherFacts(ctx context.Context, productID snowflake.ID) (*domain.Facts, error) {
	p, err := s.productRepo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}

	var facts domain.Facts
	facts.HasIntegrationCode = hasCode(p.EditorCode) || hasCode(p.MesItemCode)

	_, bindings, err := s.recipes.Default(ctx, productID)
	switch {
	case errors.Is(err, recipedomain.ErrNoDefaultRecipe):
		// readiness fact, not a failure
	case err != nil:
		return nil, err
	default:
		facts.HasDefaultRecipe = true
		facts.OptionTypeCount = len(bindings)
		for i, b := range bindings {
			if b.Required {
				facts.HasRequiredOption = true
			}
			n, err := s.optionRepo.CountChoices(ctx, s.db, b.TypeID, true)
			if err != nil {
				return nil, err
			}
			if i == 0 || int(n) < facts.MinChoicesPerType {
				facts.MinChoicesPerType = int(n)
			}
		}
	}

	cfg, err := s.pricing.Config(ctx, productID)
	if err != nil {
		return nil, err
	}
	facts.HasActivePricing = cfg != nil && cfg.Active

	rows, err := s.constraints.List(ctx, productID)
	if err != nil {
		return nil, err
	}
	for _, c := range rows {
		if c.Active {
			facts.ConstraintCount++
		}
	}

	return &facts, nil
}

func hasCode(code *string) bool {
	return code != nil && *code != ""
}
