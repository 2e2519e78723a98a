package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/printlabs/pressconfig/internal/dependency/domain"
	"github.com/printlabs/pressconfig/internal/dependency/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	resolver *domain.Resolver
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("dependency.service"),
		genID:    p.GenID,
		repo:     repository.Provide(),
		resolver: domain.NewResolver(),
	}
}

func (s *Service) Create(ctx context.Context, productID snowflake.ID, spec domain.LinkSpec) (*domain.DependencyRule, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	d := &domain.DependencyRule{
		ID:         s.genID.Generate(),
		ProductID:  productID,
		SourceKey:  spec.SourceKey,
		TargetKey:  spec.TargetKey,
		Kind:       spec.Kind,
		Effect:     spec.Effect,
		FilterName: spec.FilterName,
		Priority:   spec.Priority,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if len(spec.SourceValues) > 0 {
		raw, err := json.Marshal(spec.SourceValues)
		if err != nil {
			return nil, err
		}
		d.SourceValues = datatypes.JSON(raw)
	}

	if err := s.repo.Insert(ctx, s.db, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Delete(ctx context.Context, productID, id snowflake.ID) error {
	current, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if current == nil || current.ProductID != productID {
		return domain.ErrDependencyNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) List(ctx context.Context, productID snowflake.ID) ([]domain.DependencyRule, error) {
	return s.repo.ListByProduct(ctx, s.db, productID, false)
}

func (s *Service) SetActive(ctx context.Context, productID, id snowflake.ID, active bool) error {
	current, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if current == nil || current.ProductID != productID {
		return domain.ErrDependencyNotFound
	}
	return s.repo.SetActive(ctx, s.db, id, active)
}

func (s *Service) Resolve(ctx context.Context, productID snowflake.ID, sel map[string]string, choices map[string][]string) (*domain.Outcome, error) {
	rows, err := s.repo.ListByProduct(ctx, s.db, productID, true)
	if err != nil {
		return nil, err
	}
	links := make([]domain.Link, 0, len(rows))
	for i := range rows {
		l, err := rows[i].ToLink()
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}

	out := s.resolver.Resolve(links, sel, choices)
	for _, w := range out.Warnings {
		s.log.Warn("dependency resolution warning",
			zap.String("product_id", productID.String()),
			zap.String("warning", w))
	}
	return &out, nil
}

func validateSpec(spec domain.LinkSpec) error {
	if strings.TrimSpace(spec.SourceKey) == "" || strings.TrimSpace(spec.TargetKey) == "" {
		return fmt.Errorf("%w: source and target keys are required", domain.ErrInvalidDependency)
	}
	if spec.SourceKey == spec.TargetKey {
		return fmt.Errorf("%w: a rule cannot target its own source", domain.ErrInvalidDependency)
	}
	if !spec.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidDependency, spec.Kind)
	}
	switch spec.Kind {
	case domain.KindVisibility:
		if spec.Effect != domain.EffectShow && spec.Effect != domain.EffectHide {
			return fmt.Errorf("%w: visibility rules need a show or hide effect", domain.ErrInvalidDependency)
		}
	case domain.KindFilter:
		if spec.FilterName == "" {
			return fmt.Errorf("%w: filter rules need a filter name", domain.ErrInvalidDependency)
		}
	}
	return nil
}
