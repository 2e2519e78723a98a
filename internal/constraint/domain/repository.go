package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrConstraintNotFound = errors.New("constraint not found")
	ErrInvalidTrigger     = errors.New("invalid trigger")
	ErrInvalidAction      = errors.New("invalid action")
	ErrEmptyActionSet     = errors.New("constraint needs at least one action")
	ErrCycleDetected      = errors.New("constraint would create a dependency cycle")
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, c *Constraint) error
	Update(ctx context.Context, db *gorm.DB, c *Constraint) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Constraint, error)
	ListByProduct(ctx context.Context, db *gorm.DB, productID snowflake.ID, activeOnly bool) ([]Constraint, error)
	SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) error
	CountByProduct(ctx context.Context, db *gorm.DB, productID snowflake.ID, activeOnly bool) (int64, error)
}

type RuleSpec struct {
	Name             string      `json:"name"`
	TriggerOptionKey string      `json:"trigger_option_key"`
	TriggerOperator  Operator    `json:"trigger_operator"`
	TriggerValues    []string    `json:"trigger_values"`
	Extra            []Condition `json:"extra_conditions,omitempty"`
	Actions          []Action    `json:"actions"`
	Priority         int         `json:"priority"`
	Comment          *string     `json:"comment,omitempty"`
}

// CyclePreview is the dry-run answer for a rule that has not been saved.
type CyclePreview struct {
	WouldCreateCycle bool     `json:"would_create_cycle"`
	TargetKeys       []string `json:"target_keys"`
}

type Service interface {
	Create(ctx context.Context, productID snowflake.ID, spec RuleSpec) (*Constraint, error)
	Update(ctx context.Context, productID, id snowflake.ID, spec RuleSpec) (*Constraint, error)
	Delete(ctx context.Context, productID, id snowflake.ID) error
	SetActive(ctx context.Context, productID, id snowflake.ID, active bool) error
	List(ctx context.Context, productID snowflake.ID) ([]Constraint, error)
	PreviewCycle(ctx context.Context, productID snowflake.ID, spec RuleSpec) (*CyclePreview, error)

	// Rules loads the decoded active rule set for evaluation.
	Rules(ctx context.Context, productID snowflake.ID) ([]Rule, error)
	Evaluate(ctx context.Context, productID snowflake.ID, sel Selection) (*Result, error)
}
