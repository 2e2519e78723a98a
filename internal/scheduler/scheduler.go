// Package scheduler runs periodic housekeeping: purging expired quote logs
// and old simulation runs per the retention configuration.
package scheduler

import (
	"context"
	"time"

	"github.com/printlabs/pressconfig/internal/clock"
	"github.com/printlabs/pressconfig/internal/config"
	quotedomain "github.com/printlabs/pressconfig/internal/quote/domain"
	simulationdomain "github.com/printlabs/pressconfig/internal/simulation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sweepInterval = 6 * time.Hour

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Config    config.Config
	Clock     clock.Clock
	QuoteRepo quotedomain.Repository
	SimRepo   simulationdomain.Repository
}

type Scheduler struct {
	db        *gorm.DB
	log       *zap.Logger
	cfg       config.Config
	clock     clock.Clock
	quoteRepo quotedomain.Repository
	simRepo   simulationdomain.Repository
}

func New(p Params) *Scheduler {
	return &Scheduler{
		db:        p.DB,
		log:       p.Log.Named("scheduler"),
		cfg:       p.Config,
		clock:     p.Clock,
		quoteRepo: p.QuoteRepo,
		simRepo:   p.SimRepo,
	}
}

// RunForever sweeps on a fixed interval until the context is cancelled. Job
// errors are logged and the loop keeps going; a broken sweep must not stop
// future ones.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	if err := s.CleanupQuoteLogs(ctx); err != nil {
		s.log.Error("quote log cleanup failed", zap.Error(err))
	}
	if err := s.CleanupSimulationRuns(ctx); err != nil {
		s.log.Error("simulation run cleanup failed", zap.Error(err))
	}
}

func (s *Scheduler) CleanupQuoteLogs(ctx context.Context) error {
	days := s.cfg.Retention.QuoteLogDays
	if days <= 0 {
		s.log.Info("quote log retention disabled", zap.Int("days", days))
		return nil
	}

	cutoff := s.clock.Now(ctx).AddDate(0, 0, -days)
	deleted, err := s.quoteRepo.DeleteBefore(ctx, s.db, cutoff)
	if err != nil {
		return err
	}
	s.log.Info("quote log cleanup completed",
		zap.Time("cutoff", cutoff),
		zap.Int64("deleted", deleted))
	return nil
}

func (s *Scheduler) CleanupSimulationRuns(ctx context.Context) error {
	days := s.cfg.Retention.SimulationRunDays
	if days <= 0 {
		s.log.Info("simulation run retention disabled", zap.Int("days", days))
		return nil
	}

	cutoff := s.clock.Now(ctx).AddDate(0, 0, -days)
	deleted, err := s.simRepo.DeleteRunsBefore(ctx, s.db, cutoff)
	if err != nil {
		return err
	}
	s.log.Info("simulation run cleanup completed",
		zap.Time("cutoff", cutoff),
		zap.Int64("deleted", deleted))
	return nil
}
