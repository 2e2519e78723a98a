// Package domain resolves quantity discount tiers. Tiers are scoped to a
// product or global; within the candidates covering a quantity, the lowest
// display order wins.
package domain

import (
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// QtyDiscountTier maps a quantity range to a discount rate. A nil ProductID
// scopes the tier globally.
type QtyDiscountTier struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	ProductID    *snowflake.ID   `gorm:"index" json:"product_id,omitempty"`
	Label        string          `gorm:"type:text;not null" json:"label"`
	QtyMin       int             `gorm:"not null" json:"qty_min"`
	QtyMax       int             `gorm:"not null" json:"qty_max"`
	Rate         decimal.Decimal `gorm:"type:numeric(6,4);not null" json:"rate"`
	DisplayOrder int             `gorm:"not null;default:0" json:"display_order"`
	Active       bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (QtyDiscountTier) TableName() string { return "qty_discount_tiers" }

// Applied names the tier that won resolution.
type Applied struct {
	Rate  decimal.Decimal `json:"rate"`
	Label string          `json:"label"`
}

// Resolve picks the winning tier for the quantity out of the given
// candidates. Ranges may overlap; the lowest display order wins, ties keep
// input order. No match means no discount, not an error.
func Resolve(tiers []QtyDiscountTier, qty int) (Applied, bool) {
	matching := make([]QtyDiscountTier, 0, len(tiers))
	for _, t := range tiers {
		if t.Active && qty >= t.QtyMin && qty <= t.QtyMax {
			matching = append(matching, t)
		}
	}
	if len(matching) == 0 {
		return Applied{}, false
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].DisplayOrder < matching[j].DisplayOrder
	})
	return Applied{Rate: matching[0].Rate, Label: matching[0].Label}, true
}
