package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrDependencyNotFound = errors.New("dependency rule not found")
	ErrInvalidDependency  = errors.New("invalid dependency rule")
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, d *DependencyRule) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*DependencyRule, error)
	ListByProduct(ctx context.Context, db *gorm.DB, productID snowflake.ID, activeOnly bool) ([]DependencyRule, error)
	SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) error
}

type LinkSpec struct {
	SourceKey    string   `json:"source_key"`
	SourceValues []string `json:"source_values,omitempty"`
	TargetKey    string   `json:"target_key"`
	Kind         Kind     `json:"kind"`
	Effect       Effect   `json:"effect,omitempty"`
	FilterName   string   `json:"filter_name,omitempty"`
	Priority     int      `json:"priority"`
}

type Service interface {
	Create(ctx context.Context, productID snowflake.ID, spec LinkSpec) (*DependencyRule, error)
	Delete(ctx context.Context, productID, id snowflake.ID) error
	List(ctx context.Context, productID snowflake.ID) ([]DependencyRule, error)
	SetActive(ctx context.Context, productID, id snowflake.ID, active bool) error

	// Resolve applies the product's active links to the selection.
	Resolve(ctx context.Context, productID snowflake.ID, sel map[string]string, choices map[string][]string) (*Outcome, error)
}
