package repository

import (
	"context"
	"time"

	"github.com/printlabs/pressconfig/internal/quote/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, l *domain.QuoteLog) error {
	return db.WithContext(ctx).Create(l).Error
}

func (r *repo) DeleteBefore(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).Delete(&domain.QuoteLog{}, "created_at < ?", cutoff)
	return res.RowsAffected, res.Error
}
