package repository

import (
	"context"

	"gorm.io/gorm"

	"fyp-portal/internal/model"
	pkgerrors "fyp-portal/pkg/errors"
)

// FacultyProfileRepository faculty profile data access
type FacultyProfileRepository interface {
	Create(ctx context.Context, profile *model.FacultyProfile) error
	GetByUserID(ctx context.Context, userID string) (*model.FacultyProfile, error)
	GetByUserIDs(ctx context.Context, userIDs []string) ([]model.FacultyProfile, error)
	// List returns every profile, or only available ones when available is non-nil.
	List(ctx context.Context, available *bool) ([]model.FacultyProfile, error)
	ListAvailable(ctx context.Context) ([]model.FacultyProfile, error)
	Update(ctx context.Context, profile *model.FacultyProfile) error
	// TryIncrementStudents adds one supervised student unless the profile is full.
	// ok is false when current_students already reached max_students.
	TryIncrementStudents(ctx context.Context, userID string) (ok bool, err error)
	Count(ctx context.Context) (int64, error)
	CountAvailable(ctx context.Context) (int64, error)
}

type facultyProfileRepo struct {
	db *gorm.DB
}

// NewFacultyProfileRepo creates a FacultyProfileRepository.
func NewFacultyProfileRepo(db *gorm.DB) FacultyProfileRepository {
	return &facultyProfileRepo{db: db}
}

func (r *facultyProfileRepo) Create(ctx context.Context, profile *model.FacultyProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *facultyProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.FacultyProfile, error) {
	var profile model.FacultyProfile
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *facultyProfileRepo) GetByUserIDs(ctx context.Context, userIDs []string) ([]model.FacultyProfile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var profiles []model.FacultyProfile
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id IN ?", userIDs).
		Find(&profiles).Error
	return profiles, err
}

func (r *facultyProfileRepo) List(ctx context.Context, available *bool) ([]model.FacultyProfile, error) {
	var profiles []model.FacultyProfile
	db := r.db.WithContext(ctx).Preload("User")
	if available != nil {
		db = db.Where("available = ?", *available)
	}
	err := db.Order("user_id ASC").Find(&profiles).Error
	return profiles, err
}

func (r *facultyProfileRepo) ListAvailable(ctx context.Context) ([]model.FacultyProfile, error) {
	available := true
	return r.List(ctx, &available)
}

func (r *facultyProfileRepo) Update(ctx context.Context, profile *model.FacultyProfile) error {
	oldVersion := profile.Version
	result := r.db.WithContext(ctx).
		Model(profile).
		Where("profile_id = ? AND version = ?", profile.ProfileID, oldVersion).
		Updates(map[string]interface{}{
			"expertise":          profile.Expertise,
			"research_interests": profile.ResearchInterests,
			"max_students":       profile.MaxStudents,
			"available":          profile.Available,
			"bio":                profile.Bio,
			"success_rate":       profile.SuccessRate,
			"version":            oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	profile.Version = oldVersion + 1
	return nil
}

func (r *facultyProfileRepo) TryIncrementStudents(ctx context.Context, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.FacultyProfile{}).
		Where("user_id = ? AND current_students < max_students", userID).
		Updates(map[string]interface{}{
			"current_students": gorm.Expr("current_students + 1"),
			"version":          gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *facultyProfileRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.FacultyProfile{}).Count(&n).Error
	return n, err
}

func (r *facultyProfileRepo) CountAvailable(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.FacultyProfile{}).
		Where("available = ?", true).
		Count(&n).Error
	return n, err
}
