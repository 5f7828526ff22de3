package model

// Notification types
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
)

// Notification inbox message (table notifications)
type Notification struct {
	NotificationID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string  `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Type           string  `gorm:"type:varchar(20);not null;default:'info'"       json:"type"`
	Title          string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Message        string  `gorm:"type:text;not null"                             json:"message"`
	IsRead         bool    `gorm:"not null;default:false"                         json:"is_read"`
	ActionURL      *string `gorm:"type:varchar(255)"                              json:"action_url,omitempty"`
	SoftDeleteModel
}

// TableName table name
func (Notification) TableName() string { return "notifications" }
