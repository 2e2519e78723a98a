package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrInvalidKey          = errors.New("invalid option type key")
	ErrDuplicateKey        = errors.New("option type key already exists")
	ErrTypeNotFound        = errors.New("option type not found")
	ErrChoicesStillPresent = errors.New("option type still has choices")
)

type Repository interface {
	InsertType(ctx context.Context, db *gorm.DB, t *OptionType) error
	FindTypeByKey(ctx context.Context, db *gorm.DB, key string) (*OptionType, error)
	ListTypes(ctx context.Context, db *gorm.DB, activeOnly bool) ([]OptionType, error)
	DisableType(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	InsertChoice(ctx context.Context, db *gorm.DB, c *OptionChoice) error
	ListChoices(ctx context.Context, db *gorm.DB, typeID snowflake.ID, activeOnly bool) ([]OptionChoice, error)
	CountChoices(ctx context.Context, db *gorm.DB, typeID snowflake.ID, activeOnly bool) (int64, error)
}
