package model

// FacultyProfile supervision profile (table faculty_profiles, 1:1 with users)
type FacultyProfile struct {
	ProfileID         string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"profile_id"`
	UserID            string      `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	Expertise         StringArray `gorm:"type:text[];not null;default:'{}'"              json:"expertise"`
	ResearchInterests StringArray `gorm:"type:text[];not null;default:'{}'"              json:"research_interests"`
	MaxStudents       int         `gorm:"not null;default:5"                             json:"max_students"`
	CurrentStudents   int         `gorm:"not null;default:0"                             json:"current_students"`
	Available         bool        `gorm:"not null;default:true"                          json:"available"`
	Bio               string      `gorm:"type:text"                                      json:"bio,omitempty"`
	SuccessRate       int         `gorm:"not null;default:0"                             json:"success_rate"`
	VersionedModel

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName table name
func (FacultyProfile) TableName() string { return "faculty_profiles" }
