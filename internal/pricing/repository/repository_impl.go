package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/printlabs/pressconfig/internal/pricing/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) UpsertConfig(ctx context.Context, db *gorm.DB, cfg *domain.PriceConfig) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"mode", "unit_price_sqm", "min_area_sqm", "imposition",
				"cover_price", "binding_cost", "base_cost", "active", "updated_at",
			}),
		}).
		Create(cfg).Error
}

func (r *repo) FindConfig(ctx context.Context, db *gorm.DB, productID snowflake.ID) (*domain.PriceConfig, error) {
	var cfg domain.PriceConfig
	err := db.WithContext(ctx).First(&cfg, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *repo) InsertPrintRow(ctx context.Context, db *gorm.DB, row *domain.PrintCostRow) error {
	return db.WithContext(ctx).Create(row).Error
}

func (r *repo) ListPrintRows(ctx context.Context, db *gorm.DB, productID snowflake.ID) ([]domain.PrintCostRow, error) {
	var items []domain.PrintCostRow
	err := db.WithContext(ctx).
		Model(&domain.PrintCostRow{}).
		Where("product_id = ?", productID).
		Order("qty_min asc, id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) InsertProcessRow(ctx context.Context, db *gorm.DB, row *domain.PostprocessCostRow) error {
	return db.WithContext(ctx).Create(row).Error
}

func (r *repo) ListProcessRows(ctx context.Context, db *gorm.DB, productID snowflake.ID) ([]domain.PostprocessCostRow, error) {
	var items []domain.PostprocessCostRow
	err := db.WithContext(ctx).
		Model(&domain.PostprocessCostRow{}).
		Where("product_id = ? OR product_id IS NULL", productID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
