package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/printlabs/pressconfig/internal/publish/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertEvent(ctx context.Context, db *gorm.DB, e *domain.PublishEvent) error {
	return db.WithContext(ctx).Create(e).Error
}

func (r *repo) ListEvents(ctx context.Context, db *gorm.DB, productID snowflake.ID) ([]domain.PublishEvent, error) {
	var items []domain.PublishEvent
	err := db.WithContext(ctx).
		Model(&domain.PublishEvent{}).
		Where("product_id = ?", productID).
		Order("created_at desc, id desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
