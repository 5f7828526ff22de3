package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Project statuses
const (
	ProjectDraft      = "draft"
	ProjectPending    = "pending"
	ProjectApproved   = "approved"
	ProjectRejected   = "rejected"
	ProjectInProgress = "in-progress"
	ProjectCompleted  = "completed"
)

// ProjectStatuses lists every valid project status.
var ProjectStatuses = []string{
	ProjectDraft, ProjectPending, ProjectApproved,
	ProjectRejected, ProjectInProgress, ProjectCompleted,
}

// SimilarProject one hit of the duplicate check.
type SimilarProject struct {
	ProjectID  string  `json:"project_id"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
}

// DuplicateCheckResult stored as JSONB on the project row.
type DuplicateCheckResult struct {
	HasDuplicates   bool             `json:"has_duplicates"`
	SimilarProjects []SimilarProject `json:"similar_projects"`
}

// Scan reads the JSONB column.
func (d *DuplicateCheckResult) Scan(src interface{}) error {
	return scanJSON(src, d)
}

// Value writes the JSONB column.
func (d DuplicateCheckResult) Value() (driver.Value, error) {
	if d.SimilarProjects == nil {
		d.SimilarProjects = []SimilarProject{}
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("DuplicateCheckResult.Value: %w", err)
	}
	return string(b), nil
}

// Project proposal (table projects)
type Project struct {
	ProjectID          string                `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"project_id"`
	Title              string                `gorm:"type:varchar(255);not null"                     json:"title"`
	Description        string                `gorm:"type:text;not null"                             json:"description"`
	Domain             string                `gorm:"type:varchar(100)"                              json:"domain,omitempty"`
	Keywords           StringArray           `gorm:"type:text[];not null;default:'{}'"              json:"keywords"`
	Status             string                `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	StudentID          string                `gorm:"type:uuid;not null;index"                       json:"student_id"`
	SupervisorID       *string               `gorm:"type:uuid;index"                                json:"supervisor_id,omitempty"`
	AcceptabilityScore *int                  `gorm:"type:smallint"                                  json:"acceptability_score,omitempty"`
	DuplicateCheck     *DuplicateCheckResult `gorm:"type:jsonb"                                     json:"duplicate_check_result,omitempty"`
	SubmittedAt        time.Time             `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"submitted_at"`
	VersionedModel

	Student    *User `gorm:"foreignKey:StudentID;references:UserID"    json:"student,omitempty"`
	Supervisor *User `gorm:"foreignKey:SupervisorID;references:UserID" json:"supervisor,omitempty"`
}

// TableName table name
func (Project) TableName() string { return "projects" }
