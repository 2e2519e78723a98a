package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/printlabs/pressconfig/internal/recipe/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rec *domain.Recipe) error {
	return db.WithContext(ctx).Create(rec).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Recipe, error) {
	var rec domain.Recipe
	err := db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repo) FindDefault(ctx context.Context, db *gorm.DB, productID snowflake.ID) (*domain.Recipe, error) {
	var rec domain.Recipe
	err := db.WithContext(ctx).
		First(&rec, "product_id = ? AND is_default = ? AND archived = ?", productID, true, false).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repo) ListByProduct(ctx context.Context, db *gorm.DB, productID snowflake.ID, includeArchived bool) ([]domain.Recipe, error) {
	var items []domain.Recipe
	query := db.WithContext(ctx).Model(&domain.Recipe{}).Where("product_id = ?", productID)
	if !includeArchived {
		query = query.Where("archived = ?", false)
	}
	if err := query.Order("version desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Archive(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("id = ?", id).
		Updates(map[string]any{"archived": true, "is_default": false}).Error
}

func (r *repo) ClearDefault(ctx context.Context, db *gorm.DB, productID snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("product_id = ?", productID).
		Update("is_default", false).Error
}

func (r *repo) SetDefault(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("id = ?", id).
		Update("is_default", true).Error
}

func (r *repo) InsertBinding(ctx context.Context, db *gorm.DB, b *domain.Binding) error {
	return db.WithContext(ctx).Create(b).Error
}

func (r *repo) ListBindings(ctx context.Context, db *gorm.DB, recipeID snowflake.ID, activeOnly bool) ([]domain.Binding, error) {
	var items []domain.Binding
	query := db.WithContext(ctx).Model(&domain.Binding{}).Where("recipe_id = ?", recipeID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Order("display_order asc, id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) InsertRestriction(ctx context.Context, db *gorm.DB, cr *domain.ChoiceRestriction) error {
	return db.WithContext(ctx).Create(cr).Error
}

func (r *repo) ListRestrictions(ctx context.Context, db *gorm.DB, bindingID snowflake.ID) ([]domain.ChoiceRestriction, error) {
	var items []domain.ChoiceRestriction
	err := db.WithContext(ctx).
		Where("binding_id = ?", bindingID).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
