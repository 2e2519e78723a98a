package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/printlabs/pressconfig/internal/constraint/domain"
	"github.com/printlabs/pressconfig/internal/constraint/repository"
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
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("constraint.service"),
		genID: p.GenID,
		repo:  repository.Provide(),
	}
}

func (s *Service) Create(ctx context.Context, productID snowflake.ID, spec domain.RuleSpec) (*domain.Constraint, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}

	existing, err := s.Rules(ctx, productID)
	if err != nil {
		return nil, err
	}
	candidate := specToRule(0, spec)
	if domain.WouldCreateCycle(existing, candidate) {
		return nil, domain.ErrCycleDetected
	}

	now := time.Now().UTC()
	c, err := specToRow(s.genID.Generate(), productID, spec, now)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, s.db, c); err != nil {
		return nil, err
	}

	s.log.Info("constraint created",
		zap.String("product_id", productID.String()),
		zap.String("constraint_id", c.ID.String()),
		zap.String("trigger", c.TriggerOptionKey))

	return c, nil
}

func (s *Service) Update(ctx context.Context, productID, id snowflake.ID, spec domain.RuleSpec) (*domain.Constraint, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if current == nil || current.ProductID != productID {
		return nil, domain.ErrConstraintNotFound
	}

	others, err := s.rulesExcluding(ctx, productID, id)
	if err != nil {
		return nil, err
	}
	if domain.WouldCreateCycle(others, specToRule(id, spec)) {
		return nil, domain.ErrCycleDetected
	}

	next, err := specToRow(id, productID, spec, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	next.Active = current.Active
	next.CreatedAt = current.CreatedAt
	if err := s.repo.Update(ctx, s.db, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *Service) Delete(ctx context.Context, productID, id snowflake.ID) error {
	current, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if current == nil || current.ProductID != productID {
		return domain.ErrConstraintNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) SetActive(ctx context.Context, productID, id snowflake.ID, active bool) error {
	current, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if current == nil || current.ProductID != productID {
		return domain.ErrConstraintNotFound
	}
	return s.repo.SetActive(ctx, s.db, id, active)
}

func (s *Service) List(ctx context.Context, productID snowflake.ID) ([]domain.Constraint, error) {
	return s.repo.ListByProduct(ctx, s.db, productID, false)
}

// PreviewCycle answers the cycle question for an unsaved rule without
// persisting anything, so editors can warn before submit.
func (s *Service) PreviewCycle(ctx context.Context, productID snowflake.ID, spec domain.RuleSpec) (*domain.CyclePreview, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}
	existing, err := s.Rules(ctx, productID)
	if err != nil {
		return nil, err
	}
	candidate := specToRule(0, spec)
	return &domain.CyclePreview{
		WouldCreateCycle: domain.WouldCreateCycle(existing, candidate),
		TargetKeys:       candidate.TargetKeys(),
	}, nil
}

// Rules loads and decodes every rule of the product, inactive ones included.
// The cycle gate deliberately sees inactive rules so re-activation can never
// introduce a cycle; Evaluate skips them itself.
func (s *Service) Rules(ctx context.Context, productID snowflake.ID) ([]domain.Rule, error) {
	rows, err := s.repo.ListByProduct(ctx, s.db, productID, false)
	if err != nil {
		return nil, err
	}
	rules := make([]domain.Rule, 0, len(rows))
	for i := range rows {
		r, err := rows[i].ToRule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func (s *Service) Evaluate(ctx context.Context, productID snowflake.ID, sel domain.Selection) (*domain.Result, error) {
	rules, err := s.Rules(ctx, productID)
	if err != nil {
		return nil, err
	}
	res := domain.Evaluate(rules, sel)
	return &res, nil
}

func (s *Service) rulesExcluding(ctx context.Context, productID, exclude snowflake.ID) ([]domain.Rule, error) {
	rules, err := s.Rules(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := rules[:0]
	for _, r := range rules {
		if r.ID != exclude {
			out = append(out, r)
		}
	}
	return out, nil
}

func validateSpec(spec domain.RuleSpec) error {
	if strings.TrimSpace(spec.TriggerOptionKey) == "" {
		return fmt.Errorf("%w: missing trigger option key", domain.ErrInvalidTrigger)
	}
	if !spec.TriggerOperator.Valid() {
		return fmt.Errorf("%w: unknown operator %q", domain.ErrInvalidTrigger, spec.TriggerOperator)
	}
	if len(spec.TriggerValues) == 0 {
		return fmt.Errorf("%w: empty value list", domain.ErrInvalidTrigger)
	}
	for _, cond := range spec.Extra {
		if strings.TrimSpace(cond.OptionKey) == "" || !cond.Operator.Valid() || len(cond.Values) == 0 {
			return fmt.Errorf("%w: malformed extra condition on %q", domain.ErrInvalidTrigger, cond.OptionKey)
		}
	}
	if len(spec.Actions) == 0 {
		return domain.ErrEmptyActionSet
	}
	for _, a := range spec.Actions {
		if err := validateAction(a); err != nil {
			return err
		}
	}
	return nil
}

func validateAction(a domain.Action) error {
	if !a.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", domain.ErrInvalidAction, a.Type)
	}
	switch a.Type {
	case domain.ActionFilterOptions:
		if a.TargetOptionKey == "" || len(a.AllowedValues) == 0 {
			return fmt.Errorf("%w: filter_options needs a target and allowed values", domain.ErrInvalidAction)
		}
	case domain.ActionExcludeOptions:
		if a.TargetOptionKey == "" || len(a.ExcludedValues) == 0 {
			return fmt.Errorf("%w: exclude_options needs a target and excluded values", domain.ErrInvalidAction)
		}
	case domain.ActionRequireOption:
		if a.TargetOptionKey == "" {
			return fmt.Errorf("%w: require_option needs a target", domain.ErrInvalidAction)
		}
	case domain.ActionSetDefault:
		if a.TargetOptionKey == "" || a.DefaultValue == "" {
			return fmt.Errorf("%w: set_default needs a target and a value", domain.ErrInvalidAction)
		}
	case domain.ActionShowMessage:
		if a.Message == "" {
			return fmt.Errorf("%w: show_message needs a message", domain.ErrInvalidAction)
		}
	case domain.ActionAutoAdd:
		if a.AddonItemID == 0 {
			return fmt.Errorf("%w: auto_add needs an addon item", domain.ErrInvalidAction)
		}
	case domain.ActionShowAddonList:
		if a.AddonGroupID == 0 {
			return fmt.Errorf("%w: show_addon_list needs an addon group", domain.ErrInvalidAction)
		}
	case domain.ActionChangePriceMode:
		if a.PriceMode == "" {
			return fmt.Errorf("%w: change_price_mode needs a price mode", domain.ErrInvalidAction)
		}
	}
	return nil
}

func specToRule(id snowflake.ID, spec domain.RuleSpec) domain.Rule {
	return domain.Rule{
		ID:               id,
		Name:             spec.Name,
		TriggerOptionKey: spec.TriggerOptionKey,
		TriggerOperator:  spec.TriggerOperator,
		TriggerValues:    spec.TriggerValues,
		Extra:            spec.Extra,
		Actions:          spec.Actions,
		Priority:         spec.Priority,
		Active:           true,
	}
}

func specToRow(id, productID snowflake.ID, spec domain.RuleSpec, now time.Time) (*domain.Constraint, error) {
	values, err := json.Marshal(spec.TriggerValues)
	if err != nil {
		return nil, err
	}
	actions, err := json.Marshal(spec.Actions)
	if err != nil {
		return nil, err
	}
	c := &domain.Constraint{
		ID:               id,
		ProductID:        productID,
		Name:             strings.TrimSpace(spec.Name),
		TriggerOptionKey: spec.TriggerOptionKey,
		TriggerOperator:  spec.TriggerOperator,
		TriggerValues:    datatypes.JSON(values),
		Actions:          datatypes.JSON(actions),
		Priority:         spec.Priority,
		Active:           true,
		Comment:          spec.Comment,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if len(spec.Extra) > 0 {
		extra, err := json.Marshal(spec.Extra)
		if err != nil {
			return nil, err
		}
		c.ExtraConditions = datatypes.JSON(extra)
	}
	return c, nil
}
