package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/printlabs/pressconfig/internal/product/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, p *domain.Product) error {
	return db.WithContext(ctx).Create(p).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) FindByKey(ctx context.Context, db *gorm.DB, key string) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).First(&p, "product_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]domain.Product, error) {
	var items []domain.Product
	query := db.WithContext(ctx).Model(&domain.Product{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Order("display_order asc, id asc").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) SetVisibility(ctx context.Context, db *gorm.DB, id snowflake.ID, visible bool) error {
	return db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", id).
		Update("visible", visible).Error
}
