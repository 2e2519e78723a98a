package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNoPriceConfig = errors.New("no active price config")
	ErrInvalidMode   = errors.New("invalid price mode")
	ErrInvalidRange  = errors.New("invalid quantity range")
)

type Repository interface {
	UpsertConfig(ctx context.Context, db *gorm.DB, cfg *PriceConfig) error
	FindConfig(ctx context.Context, db *gorm.DB, productID snowflake.ID) (*PriceConfig, error)

	InsertPrintRow(ctx context.Context, db *gorm.DB, row *PrintCostRow) error
	ListPrintRows(ctx context.Context, db *gorm.DB, productID snowflake.ID) ([]PrintCostRow, error)

	InsertProcessRow(ctx context.Context, db *gorm.DB, row *PostprocessCostRow) error
	// ListProcessRows returns the product's rows plus the global ones.
	ListProcessRows(ctx context.Context, db *gorm.DB, productID snowflake.ID) ([]PostprocessCostRow, error)
}

// PriceRequest carries one quote's inputs. ModeOverride, when set by a fired
// change_price_mode action, replaces the configured mode for this call only.
type PriceRequest struct {
	Quantity     int             `json:"quantity"`
	AreaSqm      decimal.Decimal `json:"area_sqm"`
	Pages        int             `json:"pages,omitempty"`
	PlateType    string          `json:"plate_type,omitempty"`
	PrintMode    string          `json:"print_mode,omitempty"`
	Processes    []string        `json:"processes,omitempty"`
	ModeOverride Mode            `json:"-"`
}

type ConfigSpec struct {
	Mode          Mode            `json:"mode"`
	UnitPriceSqm  decimal.Decimal `json:"unit_price_sqm"`
	MinAreaSqm    decimal.Decimal `json:"min_area_sqm"`
	Imposition    int             `json:"imposition"`
	PageUnitPrice int64           `json:"page_unit_price"`
	CoverPrice    int64           `json:"cover_price"`
	BindingCost   int64           `json:"binding_cost"`
	BaseCost      int64           `json:"base_cost"`
}

type Service interface {
	SaveConfig(ctx context.Context, productID snowflake.ID, spec ConfigSpec) (*PriceConfig, error)
	Config(ctx context.Context, productID snowflake.ID) (*PriceConfig, error)
	AddPrintRow(ctx context.Context, productID snowflake.ID, row PrintCostRow) (*PrintCostRow, error)
	AddProcessRow(ctx context.Context, productID *snowflake.ID, row PostprocessCostRow) (*PostprocessCostRow, error)

	// Price computes a quote for the product with the quantity discount
	// already resolved and applied.
	Price(ctx context.Context, productID snowflake.ID, req PriceRequest) (*Quote, error)

	// Snapshot preloads everything Price reads so bulk callers can quote
	// thousands of cases without per-case queries.
	Snapshot(ctx context.Context, productID snowflake.ID) (*Snapshot, error)
}
