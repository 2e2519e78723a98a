package domain

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/printlabs/pressconfig/pkg/db/pagination"
	"gorm.io/gorm"
)

var (
	ErrRunNotFound    = errors.New("simulation run not found")
	ErrNothingToRun   = errors.New("no combinations to simulate")
	ErrRunNotFinished = errors.New("simulation run still running")
)

type Repository interface {
	InsertRun(ctx context.Context, db *gorm.DB, run *SimulationRun) error
	UpdateRun(ctx context.Context, db *gorm.DB, run *SimulationRun) error
	FindRun(ctx context.Context, db *gorm.DB, id snowflake.ID) (*SimulationRun, error)
	ListRuns(ctx context.Context, db *gorm.DB, productID snowflake.ID, page pagination.Pagination) ([]SimulationRun, int64, error)
	InsertCases(ctx context.Context, db *gorm.DB, cases []SimulationCase) error
	ListCases(ctx context.Context, db *gorm.DB, runID snowflake.ID, status CaseStatus, page pagination.Pagination) ([]SimulationCase, int64, error)
	IterateCases(ctx context.Context, db *gorm.DB, runID snowflake.ID, fn func(SimulationCase) error) error
	DeleteRunsBefore(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error)
}

// StartRequest configures one simulation run. Sample and Force resolve an
// over-ceiling combination space; leaving both unset makes oversized spaces
// fail as a precondition.
type StartRequest struct {
	Quantity   int   `json:"quantity"`
	Sample     bool  `json:"sample"`
	SampleSize int   `json:"sample_size"`
	Force      bool  `json:"force"`
	Seed       int64 `json:"seed"`

	// PlateTypeKey and PrintModeKey name the option types whose selected
	// values key the LOOKUP cost row search for each case.
	PlateTypeKey string `json:"plate_type_key"`
	PrintModeKey string `json:"print_mode_key"`
}

type Service interface {
	Start(ctx context.Context, productID snowflake.ID, req StartRequest) (*SimulationRun, error)
	Run(ctx context.Context, id snowflake.ID) (*SimulationRun, error)
	ListRuns(ctx context.Context, productID snowflake.ID, page pagination.Pagination) ([]SimulationRun, int64, error)
	Cases(ctx context.Context, runID snowflake.ID, status CaseStatus, page pagination.Pagination) ([]SimulationCase, int64, error)
	ExportCSV(ctx context.Context, runID snowflake.ID, w io.Writer) error
}
