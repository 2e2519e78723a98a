// Package domain contains the option vocabulary: option types and the
// selectable choices under each type.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ControlHint tells the widget which UI control renders an option type.
type ControlHint string

const (
	ControlSelect   ControlHint = "select"
	ControlRadio    ControlHint = "radio"
	ControlCheckbox ControlHint = "checkbox"
	ControlNumber   ControlHint = "number"
)

// OptionType is a vocabulary entry such as "paper" or "size". The key is the
// immutable identity used by constraints and selections; types are soft
// disabled rather than deleted while choices still reference them.
type OptionType struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Key          string       `gorm:"type:text;not null;uniqueIndex" json:"key"`
	Name         string       `gorm:"type:text;not null" json:"name"`
	Category     string       `gorm:"type:text" json:"category"`
	ControlHint  ControlHint  `gorm:"type:text;not null;default:'select'" json:"control_hint"`
	DisplayOrder int          `gorm:"not null;default:0" json:"display_order"`
	Active       bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (OptionType) TableName() string { return "option_types" }

// OptionChoice is one selectable value under an OptionType. Type-specific
// attributes (dimensions, weight, finish) are nullable; PriceLinkKey ties the
// choice to cost rows where relevant.
type OptionChoice struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	TypeID         snowflake.ID `gorm:"not null;index" json:"type_id"`
	Code           string       `gorm:"type:text;not null" json:"code"`
	Name           string       `gorm:"type:text;not null" json:"name"`
	WidthMm        *float64     `json:"width_mm,omitempty"`
	HeightMm       *float64     `json:"height_mm,omitempty"`
	WeightGsm      *int         `json:"weight_gsm,omitempty"`
	FinishCategory *string      `gorm:"type:text" json:"finish_category,omitempty"`
	PriceLinkKey   *string      `gorm:"type:text" json:"price_link_key,omitempty"`
	DisplayOrder   int          `gorm:"not null;default:0" json:"display_order"`
	Active         bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (OptionChoice) TableName() string { return "option_choices" }
