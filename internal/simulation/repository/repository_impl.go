package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/printlabs/pressconfig/internal/simulation/domain"
	"github.com/printlabs/pressconfig/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertRun(ctx context.Context, db *gorm.DB, run *domain.SimulationRun) error {
	return db.WithContext(ctx).Create(run).Error
}

func (r *repo) UpdateRun(ctx context.Context, db *gorm.DB, run *domain.SimulationRun) error {
	return db.WithContext(ctx).Save(run).Error
}

func (r *repo) FindRun(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.SimulationRun, error) {
	var run domain.SimulationRun
	err := db.WithContext(ctx).First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repo) ListRuns(ctx context.Context, db *gorm.DB, productID snowflake.ID, page pagination.Pagination) ([]domain.SimulationRun, int64, error) {
	query := db.WithContext(ctx).
		Model(&domain.SimulationRun{}).
		Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.SimulationRun
	err := page.Apply(query.Order("started_at desc, id desc")).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) InsertCases(ctx context.Context, db *gorm.DB, cases []domain.SimulationCase) error {
	if len(cases) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&cases).Error
}

func (r *repo) ListCases(ctx context.Context, db *gorm.DB, runID snowflake.ID, status domain.CaseStatus, page pagination.Pagination) ([]domain.SimulationCase, int64, error) {
	query := db.WithContext(ctx).
		Model(&domain.SimulationCase{}).
		Where("run_id = ?", runID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.SimulationCase
	err := page.Apply(query.Order("id asc")).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// IterateCases streams a run's cases in insertion order without loading the
// whole result set, for exports.
func (r *repo) IterateCases(ctx context.Context, db *gorm.DB, runID snowflake.ID, fn func(domain.SimulationCase) error) error {
	rows, err := db.WithContext(ctx).
		Model(&domain.SimulationCase{}).
		Where("run_id = ?", runID).
		Order("id asc").
		Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.SimulationCase
		if err := db.ScanRows(rows, &c); err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *repo) DeleteRunsBefore(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).
		Model(&domain.SimulationRun{}).
		Where("started_at < ?", cutoff).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := db.WithContext(ctx).Delete(&domain.SimulationCase{}, "run_id IN ?", ids).Error; err != nil {
		return 0, err
	}
	res := db.WithContext(ctx).Delete(&domain.SimulationRun{}, "id IN ?", ids)
	return res.RowsAffected, res.Error
}
