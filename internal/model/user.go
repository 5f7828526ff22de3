package model

// Roles
const (
	RoleStudent   = "student"
	RoleFaculty   = "faculty"
	RoleCommittee = "committee"
)

// User directory entry (table users). Credentials live with the identity provider.
type User struct {
	UserID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username   string  `gorm:"type:varchar(64);not null;uniqueIndex"          json:"username"`
	FullName   string  `gorm:"type:varchar(100);not null"                     json:"full_name"`
	Email      string  `gorm:"type:varchar(255);not null"                     json:"email"`
	Role       string  `gorm:"type:varchar(20);not null;default:'student'"    json:"role"` // student | faculty | committee
	RollNumber *string `gorm:"type:varchar(32)"                               json:"roll_number,omitempty"`
	Department string  `gorm:"type:varchar(100)"                              json:"department,omitempty"`
	SoftDeleteModel
}

// TableName table name
func (User) TableName() string { return "users" }
