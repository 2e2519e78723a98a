// Package domain contains the print-product catalog entries that the
// configuration engine hangs off.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Product is one sellable print product (business card, sticker, booklet...).
type Product struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	ProductKey   string       `gorm:"type:text;not null;uniqueIndex" json:"product_key"`
	Name         string       `gorm:"type:text;not null" json:"name"`
	DisplayOrder int          `gorm:"not null;default:0" json:"display_order"`
	Active       bool         `gorm:"not null;default:true" json:"active"`
	Visible      bool         `gorm:"not null;default:false" json:"visible"`

	// External integration codes; either one satisfies the publish gate.
	EditorCode  *string `gorm:"type:text" json:"editor_code,omitempty"`
	MesItemCode *string `gorm:"type:text" json:"mes_item_code,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Product) TableName() string { return "products" }
