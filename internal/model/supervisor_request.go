package model

import "time"

// Supervisor request statuses
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// SupervisorRequest student → faculty supervision request (table supervisor_requests)
type SupervisorRequest struct {
	RequestID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	StudentID   string     `gorm:"type:uuid;not null;index"                       json:"student_id"`
	FacultyID   string     `gorm:"type:uuid;not null;index"                       json:"faculty_id"`
	ProjectID   string     `gorm:"type:uuid;not null"                             json:"project_id"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	Message     string     `gorm:"type:text"                                      json:"message,omitempty"`
	MatchScore  int        `gorm:"not null;default:0"                             json:"match_score"` // snapshot at creation
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	VersionedModel

	Project *Project `gorm:"foreignKey:ProjectID;references:ProjectID" json:"project,omitempty"`
	Student *User    `gorm:"foreignKey:StudentID;references:UserID"    json:"student,omitempty"`
	Faculty *User    `gorm:"foreignKey:FacultyID;references:UserID"    json:"faculty,omitempty"`
}

// TableName table name
func (SupervisorRequest) TableName() string { return "supervisor_requests" }
