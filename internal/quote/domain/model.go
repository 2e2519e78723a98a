// Package domain records served quotes for analytics and retention.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuoteLog is one served quote. Written fire-and-forget after the response;
// a lost log never fails a quote.
type QuoteLog struct {
	ID         snowflake.ID   `gorm:"primaryKey" json:"id"`
	ProductID  snowflake.ID   `gorm:"not null;index" json:"product_id"`
	Selections datatypes.JSON `gorm:"type:jsonb;not null" json:"selections"`
	Quantity   int            `gorm:"not null" json:"quantity"`
	TotalPrice int64          `gorm:"not null;default:0" json:"total_price"`
	Valid      bool           `gorm:"not null" json:"valid"`
	CreatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (QuoteLog) TableName() string { return "quote_logs" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, l *QuoteLog) error
	DeleteBefore(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error)
}
