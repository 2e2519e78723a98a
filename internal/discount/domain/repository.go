package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var ErrInvalidTier = errors.New("invalid discount tier")

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, t *QtyDiscountTier) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	// ListForProduct returns the product's tiers plus the global ones.
	ListForProduct(ctx context.Context, db *gorm.DB, productID snowflake.ID) ([]QtyDiscountTier, error)
}
