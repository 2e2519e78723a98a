package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/printlabs/pressconfig/internal/dependency/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, d *domain.DependencyRule) error {
	return db.WithContext(ctx).Create(d).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.DependencyRule{}, "id = ?", id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.DependencyRule, error) {
	var d domain.DependencyRule
	err := db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repo) ListByProduct(ctx context.Context, db *gorm.DB, productID snowflake.ID, activeOnly bool) ([]domain.DependencyRule, error) {
	var items []domain.DependencyRule
	query := db.WithContext(ctx).Model(&domain.DependencyRule{}).Where("product_id = ?", productID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Order("priority asc, id asc").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) error {
	return db.WithContext(ctx).
		Model(&domain.DependencyRule{}).
		Where("id = ?", id).
		Update("active", active).Error
}
