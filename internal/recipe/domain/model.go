// Package domain contains versioned recipes: the binding of a product to its
// option types, plus per-binding choice restrictions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Recipe is one version of a product's option binding set. Recipes are never
// mutated in place: replacing the binding set inserts a new version and
// archives the old one so historical orders keep a valid reference.
type Recipe struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ProductID snowflake.ID `gorm:"not null;index" json:"product_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Version   int          `gorm:"not null;default:1" json:"version"`
	IsDefault bool         `gorm:"not null;default:false" json:"is_default"`
	Archived  bool         `gorm:"not null;default:false" json:"archived"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Recipe) TableName() string { return "recipes" }

// Binding attaches an OptionType to a Recipe. DisplayOrder is what the end
// user sees; ProcessOrder is the sequence the evaluator applies constraints
// and pricing in, since later rules may depend on earlier-processed options.
type Binding struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	RecipeID      snowflake.ID  `gorm:"not null;index" json:"recipe_id"`
	TypeID        snowflake.ID  `gorm:"not null" json:"type_id"`
	TypeKey       string        `gorm:"type:text;not null" json:"type_key"`
	DisplayOrder  int           `gorm:"not null;default:0" json:"display_order"`
	ProcessOrder  int           `gorm:"not null;default:0" json:"process_order"`
	Required      bool          `gorm:"not null;default:false" json:"required"`
	DefaultChoice *string       `gorm:"type:text" json:"default_choice,omitempty"`
	Active        bool          `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Binding) TableName() string { return "recipe_bindings" }

// RestrictionMode narrows a binding's usable choices.
type RestrictionMode string

const (
	RestrictAllow RestrictionMode = "allow"
	RestrictDeny  RestrictionMode = "deny"
)

// ChoiceRestriction narrows the usable choices of one binding to an
// allow-list or a deny-list of choice codes.
type ChoiceRestriction struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	BindingID snowflake.ID    `gorm:"not null;index" json:"binding_id"`
	Mode      RestrictionMode `gorm:"type:text;not null" json:"mode"`
	Values    datatypes.JSON  `gorm:"type:jsonb;not null" json:"values"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (ChoiceRestriction) TableName() string { return "choice_restrictions" }

// BindingSpec is the caller-supplied shape for creating or replacing a
// recipe's binding set.
type BindingSpec struct {
	TypeKey       string   `json:"type_key" binding:"required"`
	DisplayOrder  int      `json:"display_order"`
	ProcessOrder  int      `json:"process_order"`
	Required      bool     `json:"required"`
	DefaultChoice *string  `json:"default_choice,omitempty"`
	AllowValues   []string `json:"allow_values,omitempty"`
	DenyValues    []string `json:"deny_values,omitempty"`
}

// ChoiceSet is one option type's usable choice codes, after restrictions,
// in display order. The slice order of a []ChoiceSet follows the recipe's
// binding display order.
type ChoiceSet struct {
	TypeKey string   `json:"type_key"`
	Choices []string `json:"choices"`
}
