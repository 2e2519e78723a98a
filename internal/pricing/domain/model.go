// Package domain holds the pricing configuration rows and the pure price
// calculator. Monetary amounts are integer currency units; only area math
// and discount rates use decimals.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Mode selects how a product's base cost is computed. Modes are mutually
// exclusive; the calculator reads only the config fields its mode needs.
type Mode string

const (
	ModeLookup    Mode = "LOOKUP"
	ModeArea      Mode = "AREA"
	ModePage      Mode = "PAGE"
	ModeComposite Mode = "COMPOSITE"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeLookup, ModeArea, ModePage, ModeComposite:
		return true
	}
	return false
}

// PriceConfig is the one-per-product pricing row.
type PriceConfig struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	ProductID     snowflake.ID    `gorm:"not null;uniqueIndex" json:"product_id"`
	Mode          Mode            `gorm:"type:text;not null" json:"mode"`
	UnitPriceSqm  decimal.Decimal `gorm:"type:numeric(12,4)" json:"unit_price_sqm"`
	MinAreaSqm    decimal.Decimal `gorm:"type:numeric(12,6)" json:"min_area_sqm"`
	Imposition    int             `gorm:"not null;default:1" json:"imposition"`
	PageUnitPrice int64           `gorm:"not null;default:0" json:"page_unit_price"`
	CoverPrice    int64           `gorm:"not null;default:0" json:"cover_price"`
	BindingCost   int64           `gorm:"not null;default:0" json:"binding_cost"`
	BaseCost      int64           `gorm:"not null;default:0" json:"base_cost"`
	Active        bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (PriceConfig) TableName() string { return "price_configs" }

// PrintCostRow is a lookup-mode tier keyed by plate type, print mode and
// quantity range.
type PrintCostRow struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ProductID snowflake.ID `gorm:"not null;index" json:"product_id"`
	PlateType string       `gorm:"type:text;not null" json:"plate_type"`
	PrintMode string       `gorm:"type:text;not null" json:"print_mode"`
	QtyMin    int          `gorm:"not null" json:"qty_min"`
	QtyMax    int          `gorm:"not null" json:"qty_max"`
	UnitPrice int64        `gorm:"not null" json:"unit_price"`
	Active    bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (PrintCostRow) TableName() string { return "print_cost_rows" }

// Matches reports whether the row covers the key and quantity.
func (r PrintCostRow) Matches(plateType, printMode string, qty int) bool {
	return r.Active &&
		r.PlateType == plateType &&
		r.PrintMode == printMode &&
		qty >= r.QtyMin && qty <= r.QtyMax
}

// PriceType selects how a postprocess row charges.
type PriceType string

const (
	PriceFixed   PriceType = "fixed"
	PricePerUnit PriceType = "per_unit"
	PricePerSqm  PriceType = "per_sqm"
)

// PostprocessCostRow prices an optional add-on process. A nil ProductID
// scopes the row globally; product rows shadow global ones for the same
// process key.
type PostprocessCostRow struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	ProductID  *snowflake.ID `gorm:"index" json:"product_id,omitempty"`
	ProcessKey string        `gorm:"type:text;not null" json:"process_key"`
	PriceType  PriceType     `gorm:"type:text;not null" json:"price_type"`
	UnitPrice  int64         `gorm:"not null" json:"unit_price"`
	QtyMin     int           `gorm:"not null" json:"qty_min"`
	QtyMax     int           `gorm:"not null" json:"qty_max"`
	Active     bool          `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (PostprocessCostRow) TableName() string { return "postprocess_cost_rows" }
