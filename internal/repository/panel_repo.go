package repository

import (
	"context"

	"gorm.io/gorm"

	"fyp-portal/internal/model"
	pkgerrors "fyp-portal/pkg/errors"
)

// PanelFilter list filters; empty fields are ignored.
type PanelFilter struct {
	Status       string
	GenerationID string
}

// PanelRepository panel data access
type PanelRepository interface {
	BatchCreate(ctx context.Context, panels []model.Panel) error
	GetByID(ctx context.Context, id string) (*model.Panel, error)
	List(ctx context.Context, filter PanelFilter) ([]model.Panel, error)
	Update(ctx context.Context, panel *model.Panel) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type panelRepo struct {
	db *gorm.DB
}

// NewPanelRepo creates a PanelRepository.
func NewPanelRepo(db *gorm.DB) PanelRepository {
	return &panelRepo{db: db}
}

func (r *panelRepo) BatchCreate(ctx context.Context, panels []model.Panel) error {
	if len(panels) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&panels).Error
}

func (r *panelRepo) GetByID(ctx context.Context, id string) (*model.Panel, error) {
	var panel model.Panel
	err := r.db.WithContext(ctx).
		Where("panel_id = ?", id).
		First(&panel).Error
	if err != nil {
		return nil, err
	}
	return &panel, nil
}

func (r *panelRepo) List(ctx context.Context, filter PanelFilter) ([]model.Panel, error) {
	var panels []model.Panel
	db := r.db.WithContext(ctx)
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.GenerationID != "" {
		db = db.Where("generation_id = ?", filter.GenerationID)
	}
	err := db.Order("created_at DESC, name ASC").Find(&panels).Error
	return panels, err
}

func (r *panelRepo) Update(ctx context.Context, panel *model.Panel) error {
	oldVersion := panel.Version
	result := r.db.WithContext(ctx).
		Model(panel).
		Where("panel_id = ? AND version = ?", panel.PanelID, oldVersion).
		Updates(map[string]interface{}{
			"name":               panel.Name,
			"project_ids":        panel.ProjectIDs,
			"evaluator_ids":      panel.EvaluatorIDs,
			"status":             panel.Status,
			"optimization_score": panel.OptimizationScore,
			"scheduled_date":     panel.ScheduledDate,
			"room":               panel.Room,
			"version":            oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	panel.Version = oldVersion + 1
	return nil
}

func (r *panelRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("panel_id = ?", id).
		Delete(&model.Panel{}).Error
}

func (r *panelRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Panel{}).Count(&n).Error
	return n, err
}
