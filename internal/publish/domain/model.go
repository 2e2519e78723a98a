package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

// PublishError blocks a publish attempt, carrying each missing prerequisite.
// Publishing is all-or-nothing; a blocked attempt changes no state.
type PublishError struct {
	Reasons []string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("product is not ready to publish: %s", strings.Join(e.Reasons, "; "))
}

// PublishEvent records one publish or unpublish transition.
type PublishEvent struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ProductID snowflake.ID `gorm:"not null;index" json:"product_id"`
	Published bool         `gorm:"not null" json:"published"`
	Actor     string       `gorm:"type:text" json:"actor,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (PublishEvent) TableName() string { return "publish_events" }

type Repository interface {
	InsertEvent(ctx context.Context, db *gorm.DB, e *PublishEvent) error
	ListEvents(ctx context.Context, db *gorm.DB, productID snowflake.ID) ([]PublishEvent, error)
}

type Service interface {
	// Readiness evaluates the checklist without changing anything.
	Readiness(ctx context.Context, productID snowflake.ID) (*Readiness, error)
	Publish(ctx context.Context, productID snowflake.ID, actor string) error
	Unpublish(ctx context.Context, productID snowflake.ID, actor string) error
	History(ctx context.Context, productID snowflake.ID) ([]PublishEvent, error)
}
