// Package domain implements option dependency rules: declarative links
// between a controlling option and a dependent one that drive widget
// visibility, choice filtering and selection resets.
package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Kind selects what a dependency rule does to its target option.
type Kind string

const (
	// KindVisibility gates the target option on its source: with effect
	// show the target is hidden until the source matches, with effect hide
	// it is hidden while the source matches.
	KindVisibility Kind = "visibility"
	// KindFilter narrows the target's choice list through a named filter.
	KindFilter Kind = "filter"
	// KindReset clears the target's selection when the source matches.
	KindReset Kind = "reset"
)

func (k Kind) Valid() bool {
	return k == KindVisibility || k == KindFilter || k == KindReset
}

// Effect selects which way a visibility rule gates: show hides the target
// until the source matches, hide hides it while the source matches.
type Effect string

const (
	EffectShow Effect = "show"
	EffectHide Effect = "hide"
)

// DependencyRule is the persisted link row. SourceValues holds the JSON list
// of source choice codes the rule reacts to; an empty list means the rule
// matches any non-empty source value.
type DependencyRule struct {
	ID           snowflake.ID   `gorm:"primaryKey" json:"id"`
	ProductID    snowflake.ID   `gorm:"not null;index" json:"product_id"`
	SourceKey    string         `gorm:"type:text;not null" json:"source_key"`
	SourceValues datatypes.JSON `gorm:"type:jsonb" json:"source_values,omitempty"`
	TargetKey    string         `gorm:"type:text;not null" json:"target_key"`
	Kind         Kind           `gorm:"type:text;not null" json:"kind"`
	Effect       Effect         `gorm:"type:text" json:"effect,omitempty"`
	FilterName   string         `gorm:"type:text" json:"filter_name,omitempty"`
	Priority     int            `gorm:"not null;default:0" json:"priority"`
	Active       bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (DependencyRule) TableName() string { return "dependency_rules" }

// Link is the decoded evaluation shape of a DependencyRule.
type Link struct {
	ID           snowflake.ID
	SourceKey    string
	SourceValues []string
	TargetKey    string
	Kind         Kind
	Effect       Effect
	FilterName   string
	Priority     int
	Active       bool
}

func (d *DependencyRule) ToLink() (Link, error) {
	l := Link{
		ID:         d.ID,
		SourceKey:  d.SourceKey,
		TargetKey:  d.TargetKey,
		Kind:       d.Kind,
		Effect:     d.Effect,
		FilterName: d.FilterName,
		Priority:   d.Priority,
		Active:     d.Active,
	}
	if len(d.SourceValues) > 0 {
		if err := json.Unmarshal(d.SourceValues, &l.SourceValues); err != nil {
			return Link{}, fmt.Errorf("decode source values of dependency %s: %w", d.ID, err)
		}
	}
	return l, nil
}
