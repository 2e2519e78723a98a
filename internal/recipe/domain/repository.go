package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrInvalidProduct  = errors.New("invalid product")
	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrNoDefaultRecipe = errors.New("product has no default recipe")
	ErrEmptyBindingSet = errors.New("binding set must not be empty")
	ErrUnknownTypeKey  = errors.New("binding references unknown option type key")
	ErrArchivedRecipe  = errors.New("archived recipes cannot be modified")
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, r *Recipe) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Recipe, error)
	FindDefault(ctx context.Context, db *gorm.DB, productID snowflake.ID) (*Recipe, error)
	ListByProduct(ctx context.Context, db *gorm.DB, productID snowflake.ID, includeArchived bool) ([]Recipe, error)
	Archive(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	ClearDefault(ctx context.Context, db *gorm.DB, productID snowflake.ID) error
	SetDefault(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	InsertBinding(ctx context.Context, db *gorm.DB, b *Binding) error
	ListBindings(ctx context.Context, db *gorm.DB, recipeID snowflake.ID, activeOnly bool) ([]Binding, error)

	InsertRestriction(ctx context.Context, db *gorm.DB, cr *ChoiceRestriction) error
	ListRestrictions(ctx context.Context, db *gorm.DB, bindingID snowflake.ID) ([]ChoiceRestriction, error)
}

// Service manages versioned recipes and assembles the choice sets the
// enumerator and widget consume.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Recipe, error)
	ReplaceBindings(ctx context.Context, req ReplaceBindingsRequest) (*Recipe, error)
	SetDefault(ctx context.Context, productID, recipeID snowflake.ID) error
	Default(ctx context.Context, productID snowflake.ID) (*Recipe, []Binding, error)
	ChoiceSets(ctx context.Context, productID snowflake.ID) ([]ChoiceSet, error)
}

type CreateRequest struct {
	ProductID snowflake.ID  `json:"product_id"`
	Name      string        `json:"name"`
	IsDefault bool          `json:"is_default"`
	Bindings  []BindingSpec `json:"bindings"`
}

type ReplaceBindingsRequest struct {
	ProductID snowflake.ID  `json:"product_id"`
	RecipeID  snowflake.ID  `json:"recipe_id"`
	Bindings  []BindingSpec `json:"bindings"`
}
