package repository

import (
	"context"

	"gorm.io/gorm"

	"fyp-portal/internal/model"
	pkgerrors "fyp-portal/pkg/errors"
)

// SupervisorRequestRepository supervisor request data access
type SupervisorRequestRepository interface {
	Create(ctx context.Context, req *model.SupervisorRequest) error
	GetByID(ctx context.Context, id string) (*model.SupervisorRequest, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.SupervisorRequest, error)
	ListByFaculty(ctx context.Context, facultyID, status string) ([]model.SupervisorRequest, error)
	HasPending(ctx context.Context, projectID, facultyID string) (bool, error)
	Update(ctx context.Context, req *model.SupervisorRequest) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type supervisorRequestRepo struct {
	db *gorm.DB
}

// NewSupervisorRequestRepo creates a SupervisorRequestRepository.
func NewSupervisorRequestRepo(db *gorm.DB) SupervisorRequestRepository {
	return &supervisorRequestRepo{db: db}
}

func (r *supervisorRequestRepo) Create(ctx context.Context, req *model.SupervisorRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *supervisorRequestRepo) GetByID(ctx context.Context, id string) (*model.SupervisorRequest, error) {
	var req model.SupervisorRequest
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Student").
		Preload("Faculty").
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *supervisorRequestRepo) ListByStudent(ctx context.Context, studentID string) ([]model.SupervisorRequest, error) {
	var reqs []model.SupervisorRequest
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Faculty").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *supervisorRequestRepo) ListByFaculty(ctx context.Context, facultyID, status string) ([]model.SupervisorRequest, error) {
	var reqs []model.SupervisorRequest
	db := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Student").
		Where("faculty_id = ?", facultyID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *supervisorRequestRepo) HasPending(ctx context.Context, projectID, facultyID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.SupervisorRequest{}).
		Where("project_id = ? AND faculty_id = ? AND status = ?", projectID, facultyID, model.RequestPending).
		Count(&n).Error
	return n > 0, err
}

func (r *supervisorRequestRepo) Update(ctx context.Context, req *model.SupervisorRequest) error {
	oldVersion := req.Version
	result := r.db.WithContext(ctx).
		Model(req).
		Where("request_id = ? AND version = ?", req.RequestID, oldVersion).
		Updates(map[string]interface{}{
			"status":       req.Status,
			"responded_at": req.RespondedAt,
			"version":      oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	req.Version = oldVersion + 1
	return nil
}

func (r *supervisorRequestRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.SupervisorRequest{}).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}
