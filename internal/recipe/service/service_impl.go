package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	optiondomain "github.com/printlabs/pressconfig/internal/option/domain"
	"github.com/printlabs/pressconfig/internal/recipe/domain"
	"github.com/printlabs/pressconfig/internal/recipe/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	OptionRepo optiondomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	optionRepo optiondomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("recipe.service"),
		genID:      p.GenID,
		repo:       repository.Provide(),
		optionRepo: p.OptionRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Recipe, error) {
	if req.ProductID == 0 {
		return nil, domain.ErrInvalidProduct
	}
	if len(req.Bindings) == 0 {
		return nil, domain.ErrEmptyBindingSet
	}
	if err := s.validateTypeKeys(ctx, req.Bindings); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := &domain.Recipe{
		ID:        s.genID.Generate(),
		ProductID: req.ProductID,
		Name:      strings.TrimSpace(req.Name),
		Version:   1,
		IsDefault: req.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := s.repo.ClearDefault(ctx, tx, req.ProductID); err != nil {
				return err
			}
		}
		if err := s.repo.Insert(ctx, tx, rec); err != nil {
			return err
		}
		return s.insertBindings(ctx, tx, rec.ID, req.Bindings, now)
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// ReplaceBindings never mutates a recipe in place: it archives the current
// version and inserts a new one with an incremented version number, carrying
// over the default flag.
func (s *Service) ReplaceBindings(ctx context.Context, req domain.ReplaceBindingsRequest) (*domain.Recipe, error) {
	if len(req.Bindings) == 0 {
		return nil, domain.ErrEmptyBindingSet
	}

	current, err := s.repo.FindByID(ctx, s.db, req.RecipeID)
	if err != nil {
		return nil, err
	}
	if current == nil || current.ProductID != req.ProductID {
		return nil, domain.ErrRecipeNotFound
	}
	if current.Archived {
		return nil, domain.ErrArchivedRecipe
	}
	if err := s.validateTypeKeys(ctx, req.Bindings); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	next := &domain.Recipe{
		ID:        s.genID.Generate(),
		ProductID: current.ProductID,
		Name:      current.Name,
		Version:   current.Version + 1,
		IsDefault: current.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Archive(ctx, tx, current.ID); err != nil {
			return err
		}
		if err := s.repo.Insert(ctx, tx, next); err != nil {
			return err
		}
		return s.insertBindings(ctx, tx, next.ID, req.Bindings, now)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("recipe version replaced",
		zap.String("product_id", current.ProductID.String()),
		zap.Int("old_version", current.Version),
		zap.Int("new_version", next.Version))

	return next, nil
}

func (s *Service) SetDefault(ctx context.Context, productID, recipeID snowflake.ID) error {
	rec, err := s.repo.FindByID(ctx, s.db, recipeID)
	if err != nil {
		return err
	}
	if rec == nil || rec.ProductID != productID {
		return domain.ErrRecipeNotFound
	}
	if rec.Archived {
		return domain.ErrArchivedRecipe
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.ClearDefault(ctx, tx, productID); err != nil {
			return err
		}
		return s.repo.SetDefault(ctx, tx, recipeID)
	})
}

func (s *Service) Default(ctx context.Context, productID snowflake.ID) (*domain.Recipe, []domain.Binding, error) {
	rec, err := s.repo.FindDefault(ctx, s.db, productID)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, domain.ErrNoDefaultRecipe
	}
	bindings, err := s.repo.ListBindings(ctx, s.db, rec.ID, true)
	if err != nil {
		return nil, nil, err
	}
	return rec, bindings, nil
}

// ChoiceSets assembles the usable choice codes per bound option type for the
// product's default recipe, in binding display order, with each binding's
// allow/deny restrictions applied.
func (s *Service) ChoiceSets(ctx context.Context, productID snowflake.ID) ([]domain.ChoiceSet, error) {
	_, bindings, err := s.Default(ctx, productID)
	if err != nil {
		return nil, err
	}

	sets := make([]domain.ChoiceSet, 0, len(bindings))
	for _, b := range bindings {
		choices, err := s.optionRepo.ListChoices(ctx, s.db, b.TypeID, true)
		if err != nil {
			return nil, err
		}

		codes := make([]string, 0, len(choices))
		for _, c := range choices {
			codes = append(codes, c.Code)
		}

		restrictions, err := s.repo.ListRestrictions(ctx, s.db, b.ID)
		if err != nil {
			return nil, err
		}
		for _, cr := range restrictions {
			codes, err = applyRestriction(codes, cr)
			if err != nil {
				return nil, err
			}
		}

		if len(codes) == 0 {
			continue
		}
		sets = append(sets, domain.ChoiceSet{TypeKey: b.TypeKey, Choices: codes})
	}

	return sets, nil
}

func applyRestriction(codes []string, cr domain.ChoiceRestriction) ([]string, error) {
	var values []string
	if err := json.Unmarshal(cr.Values, &values); err != nil {
		return nil, fmt.Errorf("decode restriction %s: %w", cr.ID, err)
	}

	member := make(map[string]bool, len(values))
	for _, v := range values {
		member[v] = true
	}

	out := codes[:0]
	for _, code := range codes {
		switch cr.Mode {
		case domain.RestrictAllow:
			if member[code] {
				out = append(out, code)
			}
		case domain.RestrictDeny:
			if !member[code] {
				out = append(out, code)
			}
		default:
			out = append(out, code)
		}
	}
	return out, nil
}

func (s *Service) validateTypeKeys(ctx context.Context, specs []domain.BindingSpec) error {
	for _, spec := range specs {
		t, err := s.optionRepo.FindTypeByKey(ctx, s.db, spec.TypeKey)
		if err != nil {
			return err
		}
		if t == nil || !t.Active {
			return fmt.Errorf("%w: %s", domain.ErrUnknownTypeKey, spec.TypeKey)
		}
	}
	return nil
}

func (s *Service) insertBindings(ctx context.Context, tx *gorm.DB, recipeID snowflake.ID, specs []domain.BindingSpec, now time.Time) error {
	for _, spec := range specs {
		t, err := s.optionRepo.FindTypeByKey(ctx, tx, spec.TypeKey)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("%w: %s", domain.ErrUnknownTypeKey, spec.TypeKey)
		}

		b := &domain.Binding{
			ID:            s.genID.Generate(),
			RecipeID:      recipeID,
			TypeID:        t.ID,
			TypeKey:       t.Key,
			DisplayOrder:  spec.DisplayOrder,
			ProcessOrder:  spec.ProcessOrder,
			Required:      spec.Required,
			DefaultChoice: spec.DefaultChoice,
			Active:        true,
			CreatedAt:     now,
		}
		if err := s.repo.InsertBinding(ctx, tx, b); err != nil {
			return err
		}

		if err := s.insertRestriction(ctx, tx, b.ID, domain.RestrictAllow, spec.AllowValues, now); err != nil {
			return err
		}
		if err := s.insertRestriction(ctx, tx, b.ID, domain.RestrictDeny, spec.DenyValues, now); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) insertRestriction(ctx context.Context, tx *gorm.DB, bindingID snowflake.ID, mode domain.RestrictionMode, values []string, now time.Time) error {
	if len(values) == 0 {
		return nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return s.repo.InsertRestriction(ctx, tx, &domain.ChoiceRestriction{
		ID:        s.genID.Generate(),
		BindingID: bindingID,
		Mode:      mode,
		Values:    datatypes.JSON(raw),
		CreatedAt: now,
	})
}
