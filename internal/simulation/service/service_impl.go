package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/printlabs/pressconfig/internal/config"
	constraintdomain "github.com/printlabs/pressconfig/internal/constraint/domain"
	pricingdomain "github.com/printlabs/pressconfig/internal/pricing/domain"
	recipedomain "github.com/printlabs/pressconfig/internal/recipe/domain"
	"github.com/printlabs/pressconfig/internal/simulation/domain"
	"github.com/printlabs/pressconfig/internal/simulation/repository"
	"github.com/printlabs/pressconfig/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultQuantity = 100

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Config      config.Config
	Recipes     recipedomain.Service
	Constraints constraintdomain.Service
	Pricing     pricingdomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	cfg         config.Config
	repo        domain.Repository
	recipes     recipedomain.Service
	constraints constraintdomain.Service
	pricing     pricingdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("simulation.service"),
		genID:       p.GenID,
		cfg:         p.Config,
		repo:        repository.Provide(),
		recipes:     p.Recipes,
		constraints: p.Constraints,
		pricing:     p.Pricing,
	}
}

// Start enumerates the product's combination space and runs every case
// through the constraint and pricing pipeline, persisting results in
// batches. The run record is written up front so a mid-run failure leaves a
// failed run with its partial batches intact rather than nothing.
func (s *Service) Start(ctx context.Context, productID snowflake.ID, req domain.StartRequest) (*domain.SimulationRun, error) {
	sets, err := s.choiceSets(ctx, productID)
	if err != nil {
		return nil, err
	}

	combos, sampled, err := domain.Plan(sets, domain.PlanRequest{
		Ceiling:    s.cfg.Engine.MaxCombinations,
		Sample:     req.Sample,
		SampleSize: s.sampleSize(req.SampleSize),
		Force:      req.Force,
		Seed:       req.Seed,
	})
	if err != nil {
		return nil, err
	}
	if len(combos) == 0 {
		return nil, domain.ErrNothingToRun
	}

	evaluate, err := s.buildEvaluator(ctx, productID, req)
	if err != nil {
		return nil, err
	}

	run := &domain.SimulationRun{
		ID:        s.genID.Generate(),
		ProductID: productID,
		Status:    domain.RunRunning,
		Sampled:   sampled,
		Quantity:  quantityOrDefault(req.Quantity),
		StartedAt: time.Now().UTC(),
	}
	if err := s.repo.InsertRun(ctx, s.db, run); err != nil {
		return nil, err
	}

	sink := func(ctx context.Context, batch []domain.CaseResult) error {
		rows := make([]domain.SimulationCase, 0, len(batch))
		for _, res := range batch {
			raw, err := json.Marshal(res.Selection)
			if err != nil {
				return err
			}
			rows = append(rows, domain.SimulationCase{
				ID:         s.genID.Generate(),
				RunID:      run.ID,
				Selections: datatypes.JSON(raw),
				Status:     res.Status,
				TotalPrice: res.TotalPrice,
				Message:    res.Message,
				CreatedAt:  time.Now().UTC(),
			})
		}
		return s.repo.InsertCases(ctx, s.db, rows)
	}

	summary, runErr := domain.Run(ctx, combos, evaluate, sink, s.cfg.Engine.CaseBatchSize)

	now := time.Now().UTC()
	run.Total = summary.Total
	run.Passed = summary.Passed
	run.Warned = summary.Warned
	run.Errored = summary.Errored
	run.FinishedAt = &now
	if runErr != nil {
		run.Status = domain.RunFailed
		msg := runErr.Error()
		run.Error = &msg
	} else {
		run.Status = domain.RunCompleted
	}
	if err := s.repo.UpdateRun(ctx, s.db, run); err != nil {
		return nil, err
	}

	s.log.Info("simulation run finished",
		zap.String("product_id", productID.String()),
		zap.String("run_id", run.ID.String()),
		zap.String("status", string(run.Status)),
		zap.Bool("sampled", run.Sampled),
		zap.Int("total", run.Total),
		zap.Int("passed", run.Passed),
		zap.Int("warned", run.Warned),
		zap.Int("errored", run.Errored))

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return run, runErr
	}
	return run, nil
}

func (s *Service) Run(ctx context.Context, id snowflake.ID) (*domain.SimulationRun, error) {
	run, err := s.repo.FindRun(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, domain.ErrRunNotFound
	}
	return run, nil
}

func (s *Service) ListRuns(ctx context.Context, productID snowflake.ID, page pagination.Pagination) ([]domain.SimulationRun, int64, error) {
	return s.repo.ListRuns(ctx, s.db, productID, page)
}

func (s *Service) Cases(ctx context.Context, runID snowflake.ID, status domain.CaseStatus, page pagination.Pagination) ([]domain.SimulationCase, int64, error) {
	run, err := s.repo.FindRun(ctx, s.db, runID)
	if err != nil {
		return nil, 0, err
	}
	if run == nil {
		return nil, 0, domain.ErrRunNotFound
	}
	return s.repo.ListCases(ctx, s.db, runID, status, page)
}

// ExportCSV streams one row per case: id, result status, total price,
// message, and the selection serialized as key=value pairs.
func (s *Service) ExportCSV(ctx context.Context, runID snowflake.ID, w io.Writer) error {
	run, err := s.repo.FindRun(ctx, s.db, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return domain.ErrRunNotFound
	}
	if run.Status == domain.RunRunning {
		return domain.ErrRunNotFinished
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "result_status", "total_price", "message", "selections"}); err != nil {
		return err
	}

	err = s.repo.IterateCases(ctx, s.db, runID, func(c domain.SimulationCase) error {
		return cw.Write([]string{
			c.ID.String(),
			string(c.Status),
			strconv.FormatInt(c.TotalPrice, 10),
			c.Message,
			flattenSelections(c.Selections),
		})
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func (s *Service) choiceSets(ctx context.Context, productID snowflake.ID) ([]domain.Set, error) {
	choiceSets, err := s.recipes.ChoiceSets(ctx, productID)
	if err != nil {
		return nil, err
	}
	sets := make([]domain.Set, 0, len(choiceSets))
	for _, cs := range choiceSets {
		sets = append(sets, domain.Set{Key: cs.TypeKey, Choices: cs.Choices})
	}
	return sets, nil
}

// buildEvaluator loads the rule set and a pricing snapshot once, then
// returns a closure that evaluates cases without touching storage.
func (s *Service) buildEvaluator(ctx context.Context, productID snowflake.ID, req domain.StartRequest) (domain.EvaluateFunc, error) {
	rules, err := s.constraints.Rules(ctx, productID)
	if err != nil {
		return nil, err
	}
	snap, err := s.pricing.Snapshot(ctx, productID)
	if err != nil {
		return nil, err
	}

	qty := quantityOrDefault(req.Quantity)
	plateKey := req.PlateTypeKey
	if plateKey == "" {
		plateKey = "size"
	}
	printKey := req.PrintModeKey
	if printKey == "" {
		printKey = "print_mode"
	}

	return func(ctx context.Context, combo domain.Combination) (domain.CaseResult, error) {
		eval := constraintdomain.Evaluate(rules, constraintdomain.Selection(combo))
		if !eval.Valid() {
			return domain.CaseResult{
				Selection: combo,
				Status:    domain.CaseError,
				Message:   describeViolations(eval.Violations),
			}, nil
		}

		quote := snap.Quote(pricingdomain.PriceRequest{
			Quantity:     qty,
			PlateType:    combo[plateKey],
			PrintMode:    combo[printKey],
			ModeOverride: pricingdomain.Mode(eval.PriceMode),
		})
		res := domain.CaseResult{
			Selection:  combo,
			Status:     domain.CasePass,
			TotalPrice: quote.Total,
		}
		if quote.Incomplete {
			res.Status = domain.CaseWarn
			res.Message = "no matching cost row"
		}
		return res, nil
	}, nil
}

func (s *Service) sampleSize(requested int) int {
	if requested > 0 {
		return requested
	}
	return s.cfg.Engine.SampleSize
}

func quantityOrDefault(qty int) int {
	if qty > 0 {
		return qty
	}
	return defaultQuantity
}

func describeViolations(violations []constraintdomain.Violation) string {
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.OptionKey, v.Reason))
	}
	return strings.Join(parts, "; ")
}

func flattenSelections(raw datatypes.JSON) string {
	var sel map[string]string
	if err := json.Unmarshal(raw, &sel); err != nil {
		return string(raw)
	}
	pairs := make([]string, 0, len(sel))
	for k, v := range sel {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}
