// Package domain contains the event-condition-action constraint rules and the
// pure evaluation engine that applies them to a selection.
package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Operator matches a trigger against the current selection. All comparisons
// are case-sensitive string comparisons.
type Operator string

const (
	OpEquals     Operator = "equals"
	OpIn         Operator = "in"
	OpNotIn      Operator = "not_in"
	OpContains   Operator = "contains"
	OpBeginsWith Operator = "beginsWith"
	OpEndsWith   Operator = "endsWith"
)

func (o Operator) Valid() bool {
	switch o {
	case OpEquals, OpIn, OpNotIn, OpContains, OpBeginsWith, OpEndsWith:
		return true
	}
	return false
}

// ActionType tags one entry of a rule's action list.
type ActionType string

const (
	ActionShowAddonList   ActionType = "show_addon_list"
	ActionFilterOptions   ActionType = "filter_options"
	ActionExcludeOptions  ActionType = "exclude_options"
	ActionAutoAdd         ActionType = "auto_add"
	ActionRequireOption   ActionType = "require_option"
	ActionShowMessage     ActionType = "show_message"
	ActionChangePriceMode ActionType = "change_price_mode"
	ActionSetDefault      ActionType = "set_default"
)

func (t ActionType) Valid() bool {
	switch t {
	case ActionShowAddonList, ActionFilterOptions, ActionExcludeOptions,
		ActionAutoAdd, ActionRequireOption, ActionShowMessage,
		ActionChangePriceMode, ActionSetDefault:
		return true
	}
	return false
}

// Action is one tagged entry of a rule's action list. Only the fields
// relevant to the Type are read; unknown extra fields in stored JSON are
// ignored rather than rejected.
type Action struct {
	Type            ActionType `json:"type"`
	TargetOptionKey string     `json:"targetOptionKey,omitempty"`
	AllowedValues   []string   `json:"allowedValues,omitempty"`
	ExcludedValues  []string   `json:"excludedValues,omitempty"`
	Message         string     `json:"message,omitempty"`
	Level           string     `json:"level,omitempty"`
	AddonGroupID    int64      `json:"addonGroupId,omitempty"`
	AddonItemID     int64      `json:"addonItemId,omitempty"`
	Quantity        int        `json:"quantity,omitempty"`
	DefaultValue    string     `json:"defaultValue,omitempty"`
	PriceMode       string     `json:"priceMode,omitempty"`
}

// Condition is one extra trigger condition; all conditions on a rule must
// hold (logical AND) in addition to the trigger for the rule to fire.
type Condition struct {
	OptionKey string   `json:"optionKey"`
	Operator  Operator `json:"operator"`
	Values    []string `json:"values"`
}

// Selection maps option-type key to the chosen choice code.
type Selection map[string]string

// Constraint is the persisted rule row. Trigger values, extra conditions and
// actions are stored as JSON; ToRule decodes them into the evaluation shape.
type Constraint struct {
	ID               snowflake.ID   `gorm:"primaryKey" json:"id"`
	ProductID        snowflake.ID   `gorm:"not null;index" json:"product_id"`
	Name             string         `gorm:"type:text;not null" json:"name"`
	TriggerOptionKey string         `gorm:"type:text;not null" json:"trigger_option_key"`
	TriggerOperator  Operator       `gorm:"type:text;not null" json:"trigger_operator"`
	TriggerValues    datatypes.JSON `gorm:"type:jsonb;not null" json:"trigger_values"`
	ExtraConditions  datatypes.JSON `gorm:"type:jsonb" json:"extra_conditions,omitempty"`
	Actions          datatypes.JSON `gorm:"type:jsonb;not null" json:"actions"`
	Priority         int            `gorm:"not null;default:0" json:"priority"`
	Active           bool           `gorm:"not null;default:true" json:"active"`
	Comment          *string        `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Constraint) TableName() string { return "constraints" }

// Rule is the decoded evaluation shape of a Constraint.
type Rule struct {
	ID               snowflake.ID
	Name             string
	TriggerOptionKey string
	TriggerOperator  Operator
	TriggerValues    []string
	Extra            []Condition
	Actions          []Action
	Priority         int
	Active           bool
}

func (c *Constraint) ToRule() (Rule, error) {
	r := Rule{
		ID:               c.ID,
		Name:             c.Name,
		TriggerOptionKey: c.TriggerOptionKey,
		TriggerOperator:  c.TriggerOperator,
		Priority:         c.Priority,
		Active:           c.Active,
	}
	if err := json.Unmarshal(c.TriggerValues, &r.TriggerValues); err != nil {
		return Rule{}, fmt.Errorf("decode trigger values of constraint %s: %w", c.ID, err)
	}
	if len(c.ExtraConditions) > 0 {
		if err := json.Unmarshal(c.ExtraConditions, &r.Extra); err != nil {
			return Rule{}, fmt.Errorf("decode extra conditions of constraint %s: %w", c.ID, err)
		}
	}
	if err := json.Unmarshal(c.Actions, &r.Actions); err != nil {
		return Rule{}, fmt.Errorf("decode actions of constraint %s: %w", c.ID, err)
	}
	return r, nil
}

// TargetKeys returns the option keys this rule's actions affect. Advisory
// actions (messages, addon lists, price-mode changes) have no option target
// and contribute no dependency edge.
func (r Rule) TargetKeys() []string {
	keys := make([]string, 0, len(r.Actions))
	seen := make(map[string]bool, len(r.Actions))
	for _, a := range r.Actions {
		if a.TargetOptionKey == "" || seen[a.TargetOptionKey] {
			continue
		}
		switch a.Type {
		case ActionFilterOptions, ActionExcludeOptions, ActionRequireOption, ActionSetDefault:
			keys = append(keys, a.TargetOptionKey)
			seen[a.TargetOptionKey] = true
		}
	}
	return keys
}
