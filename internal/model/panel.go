package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Panel statuses. Transitions only move forward.
const (
	PanelDraft     = "draft"
	PanelScheduled = "scheduled"
	PanelCompleted = "completed"
)

// PanelConstraints the generation parameters a panel was built with.
type PanelConstraints struct {
	ProjectsPerPanel   int    `json:"projects_per_panel"`
	EvaluatorsPerPanel int    `json:"evaluators_per_panel"`
	Strategy           string `json:"strategy"`
}

// Scan reads the JSONB column.
func (c *PanelConstraints) Scan(src interface{}) error {
	return scanJSON(src, c)
}

// Value writes the JSONB column.
func (c PanelConstraints) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	return string(b), err
}

// Panel evaluation panel (table panels)
type Panel struct {
	PanelID           string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"panel_id"`
	Name              string           `gorm:"type:varchar(100);not null"                     json:"name"`
	ProjectIDs        StringArray      `gorm:"type:text[];not null"                           json:"project_ids"`
	EvaluatorIDs      StringArray      `gorm:"type:text[];not null"                           json:"evaluator_ids"`
	Status            string           `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"`
	OptimizationScore int              `gorm:"not null;default:0"                             json:"optimization_score"`
	ScheduledDate     *time.Time       `json:"scheduled_date,omitempty"`
	Room              *string          `gorm:"type:varchar(100)"                              json:"room,omitempty"`
	Constraints       PanelConstraints `gorm:"type:jsonb"                                     json:"constraints"`
	GenerationID      string           `gorm:"type:uuid;not null;index"                       json:"generation_id"`
	VersionedModel
}

// TableName table name
func (Panel) TableName() string { return "panels" }
