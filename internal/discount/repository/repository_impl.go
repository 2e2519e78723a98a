package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/printlabs/pressconfig/internal/discount/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, t *domain.QtyDiscountTier) error {
	return db.WithContext(ctx).Create(t).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.QtyDiscountTier{}, "id = ?", id).Error
}

func (r *repo) ListForProduct(ctx context.Context, db *gorm.DB, productID snowflake.ID) ([]domain.QtyDiscountTier, error) {
	var items []domain.QtyDiscountTier
	err := db.WithContext(ctx).
		Model(&domain.QtyDiscountTier{}).
		Where("product_id = ? OR product_id IS NULL", productID).
		Order("display_order asc, id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
