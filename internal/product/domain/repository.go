package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrInvalidProduct  = errors.New("invalid product")
	ErrProductNotFound = errors.New("product not found")
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, p *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
	FindByKey(ctx context.Context, db *gorm.DB, key string) (*Product, error)
	List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]Product, error)
	SetVisibility(ctx context.Context, db *gorm.DB, id snowflake.ID, visible bool) error
}
