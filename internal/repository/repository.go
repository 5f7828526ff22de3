package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every repository.
type Repository struct {
	db *gorm.DB

	User         UserRepository
	Project      ProjectRepository
	Faculty      FacultyProfileRepository
	Request      SupervisorRequestRepository
	Panel        PanelRepository
	Notification NotificationRepository
}

// NewRepository builds the aggregate on top of db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		User:         NewUserRepo(db),
		Project:      NewProjectRepo(db),
		Faculty:      NewFacultyProfileRepo(db),
		Request:      NewSupervisorRequestRepo(db),
		Panel:        NewPanelRepo(db),
		Notification: NewNotificationRepo(db),
	}
}

// WithinTx runs fn with an aggregate bound to a single transaction.
// fn's error rolls the transaction back.
// An aggregate assembled without a database (tests) runs fn directly.
func (r *Repository) WithinTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
