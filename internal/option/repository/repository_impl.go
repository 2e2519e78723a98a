package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/printlabs/pressconfig/internal/option/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertType(ctx context.Context, db *gorm.DB, t *domain.OptionType) error {
	err := db.WithContext(ctx).Create(t).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateKey
	}
	return err
}

func (r *repo) FindTypeByKey(ctx context.Context, db *gorm.DB, key string) (*domain.OptionType, error) {
	var t domain.OptionType
	err := db.WithContext(ctx).First(&t, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repo) ListTypes(ctx context.Context, db *gorm.DB, activeOnly bool) ([]domain.OptionType, error) {
	var items []domain.OptionType
	query := db.WithContext(ctx).Model(&domain.OptionType{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Order("display_order asc, id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) DisableType(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.OptionType{}).
		Where("id = ?", id).
		Update("active", false).Error
}

func (r *repo) InsertChoice(ctx context.Context, db *gorm.DB, c *domain.OptionChoice) error {
	return db.WithContext(ctx).Create(c).Error
}

func (r *repo) ListChoices(ctx context.Context, db *gorm.DB, typeID snowflake.ID, activeOnly bool) ([]domain.OptionChoice, error) {
	var items []domain.OptionChoice
	query := db.WithContext(ctx).Model(&domain.OptionChoice{}).Where("type_id = ?", typeID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Order("display_order asc, id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) CountChoices(ctx context.Context, db *gorm.DB, typeID snowflake.ID, activeOnly bool) (int64, error) {
	var n int64
	query := db.WithContext(ctx).Model(&domain.OptionChoice{}).Where("type_id = ?", typeID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
