package repository

import (
	"context"

	"gorm.io/gorm"

	"fyp-portal/internal/model"
	pkgerrors "fyp-portal/pkg/errors"
)

// ProjectFilter list filters; empty fields are ignored.
type ProjectFilter struct {
	Status       string
	StudentID    string
	SupervisorID string
}

// ProjectRepository project data access
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Project, error)
	List(ctx context.Context, filter ProjectFilter, offset, limit int) ([]model.Project, int64, error)
	// ListByStatus returns projects in submission order.
	ListByStatus(ctx context.Context, status string) ([]model.Project, error)
	// ListTitles returns id, title and student id of every project.
	ListTitles(ctx context.Context) ([]model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	AssignSupervisor(ctx context.Context, projectID, supervisorID string) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	// AverageAcceptability averages the scored projects; scored is how many had a score.
	AverageAcceptability(ctx context.Context) (avg float64, scored int64, err error)
}

type projectRepo struct {
	db *gorm.DB
}

// NewProjectRepo creates a ProjectRepository.
func NewProjectRepo(db *gorm.DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Supervisor").
		Where("project_id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepo) GetByIDs(ctx context.Context, ids []string) ([]model.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Where("project_id IN ?", ids).
		Find(&projects).Error
	return projects, err
}

func (r *projectRepo) List(ctx context.Context, filter ProjectFilter, offset, limit int) ([]model.Project, int64, error) {
	var projects []model.Project
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Project{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.StudentID != "" {
		db = db.Where("student_id = ?", filter.StudentID)
	}
	if filter.SupervisorID != "" {
		db = db.Where("supervisor_id = ?", filter.SupervisorID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Student").
		Preload("Supervisor").
		Offset(offset).Limit(limit).
		Order("submitted_at DESC").
		Find(&projects).Error
	return projects, total, err
}

func (r *projectRepo) ListByStatus(ctx context.Context, status string) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("submitted_at ASC, project_id ASC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepo) ListTitles(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Select("project_id", "title", "student_id").
		Order("submitted_at ASC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepo) Update(ctx context.Context, project *model.Project) error {
	oldVersion := project.Version
	result := r.db.WithContext(ctx).
		Model(project).
		Where("project_id = ? AND version = ?", project.ProjectID, oldVersion).
		Updates(map[string]interface{}{
			"title":               project.Title,
			"description":         project.Description,
			"domain":              project.Domain,
			"keywords":            project.Keywords,
			"status":              project.Status,
			"supervisor_id":       project.SupervisorID,
			"acceptability_score": project.AcceptabilityScore,
			"duplicate_check":     project.DuplicateCheck,
			"submitted_at":        project.SubmittedAt,
			"version":             oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	project.Version = oldVersion + 1
	return nil
}

func (r *projectRepo) AssignSupervisor(ctx context.Context, projectID, supervisorID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("project_id = ?", projectID).
		Updates(map[string]interface{}{
			"supervisor_id": supervisorID,
			"status":        model.ProjectApproved,
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *projectRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("project_id = ?", id).
		Delete(&model.Project{}).Error
}

func (r *projectRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Project{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *projectRepo) AverageAcceptability(ctx context.Context) (float64, int64, error) {
	var row struct {
		Avg    *float64
		Scored int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Project{}).
		Select("AVG(acceptability_score) AS avg, COUNT(acceptability_score) AS scored").
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	if row.Avg == nil {
		return 0, row.Scored, nil
	}
	return *row.Avg, row.Scored, nil
}
