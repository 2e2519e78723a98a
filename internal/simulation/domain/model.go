package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// RunStatus is the lifecycle of a simulation run. A mid-batch failure marks
// the whole run failed; batches persisted before the failure are kept.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

type SimulationRun struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	ProductID  snowflake.ID `gorm:"not null;index" json:"product_id"`
	Status     RunStatus    `gorm:"type:text;not null" json:"status"`
	Sampled    bool         `gorm:"not null;default:false" json:"sampled"`
	Total      int          `gorm:"not null;default:0" json:"total"`
	Passed     int          `gorm:"not null;default:0" json:"passed"`
	Warned     int          `gorm:"not null;default:0" json:"warned"`
	Errored    int          `gorm:"not null;default:0" json:"errored"`
	Quantity   int          `gorm:"not null;default:0" json:"quantity"`
	Error      *string      `gorm:"type:text" json:"error,omitempty"`
	StartedAt  time.Time    `gorm:"not null" json:"started_at"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
}

func (SimulationRun) TableName() string { return "simulation_runs" }

type SimulationCase struct {
	ID         snowflake.ID   `gorm:"primaryKey" json:"id"`
	RunID      snowflake.ID   `gorm:"not null;index" json:"run_id"`
	Selections datatypes.JSON `gorm:"type:jsonb;not null" json:"selections"`
	Status     CaseStatus     `gorm:"type:text;not null;index" json:"status"`
	TotalPrice int64          `gorm:"not null;default:0" json:"total_price"`
	Message    string         `gorm:"type:text" json:"message,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (SimulationCase) TableName() string { return "simulation_cases" }
