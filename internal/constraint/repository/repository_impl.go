package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/printlabs/pressconfig/internal/constraint/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, c *domain.Constraint) error {
	return db.WithContext(ctx).Create(c).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, c *domain.Constraint) error {
	return db.WithContext(ctx).Save(c).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Constraint{}, "id = ?", id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Constraint, error) {
	var c domain.Constraint
	err := db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) ListByProduct(ctx context.Context, db *gorm.DB, productID snowflake.ID, activeOnly bool) ([]domain.Constraint, error) {
	var items []domain.Constraint
	query := db.WithContext(ctx).Model(&domain.Constraint{}).Where("product_id = ?", productID)
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
		Model(&domain.Constraint{}).
		Where("id = ?", id).
		Update("active", active).Error
}

func (r *repo) CountByProduct(ctx context.Context, db *gorm.DB, productID snowflake.ID, activeOnly bool) (int64, error) {
	var n int64
	query := db.WithContext(ctx).Model(&domain.Constraint{}).Where("product_id = ?", productID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Count(&n).Error
	return n, err
}
