package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/model"
	"fyp-portal/internal/repository"
	"fyp-portal/internal/scoring"
	pkgerrors "fyp-portal/pkg/errors"
)

// ── faculty errors ──

var (
	ErrFacultyNotFound    = errors.New("faculty profile not found")
	ErrUserNotFaculty     = errors.New("user is not a faculty member")
	ErrFacultyForbidden   = errors.New("cannot edit another faculty member's profile")
	ErrMaxBelowCurrent    = errors.New("max students cannot be lower than current students")
	ErrFacultyUnavailable = errors.New("faculty member is not accepting students")
)

// FacultyService faculty supervision profiles
type FacultyService interface {
	List(ctx context.Context, req *dto.FacultyProfileListRequest) ([]dto.FacultyProfileResponse, error)
	Get(ctx context.Context, userID string) (*dto.FacultyProfileResponse, error)
	// Update edits a profile, creating it on first save for a faculty user.
	Update(ctx context.Context, userID string, req *dto.UpdateFacultyProfileRequest, caller Caller) (*dto.FacultyProfileResponse, error)
}

type facultyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewFacultyService creates a FacultyService.
func NewFacultyService(repo *repository.Repository, logger *zap.Logger) FacultyService {
	return &facultyService{repo: repo, logger: logger}
}

func (s *facultyService) List(ctx context.Context, req *dto.FacultyProfileListRequest) ([]dto.FacultyProfileResponse, error) {
	profiles, err := s.repo.Faculty.List(ctx, req.Available)
	if err != nil {
		s.logger.Error("list faculty profiles failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.FacultyProfileResponse, 0, len(profiles))
	for i := range profiles {
		result = append(result, *toFacultyProfileResponse(&profiles[i]))
	}
	return result, nil
}

func (s *facultyService) Get(ctx context.Context, userID string) (*dto.FacultyProfileResponse, error) {
	profile, err := s.repo.Faculty.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacultyNotFound
		}
		s.logger.Error("get faculty profile failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toFacultyProfileResponse(profile), nil
}

func (s *facultyService) Update(ctx context.Context, userID string, req *dto.UpdateFacultyProfileRequest, caller Caller) (*dto.FacultyProfileResponse, error) {
	if caller.Role != model.RoleCommittee && caller.UserID != userID {
		return nil, ErrFacultyForbidden
	}

	profile, err := s.repo.Faculty.GetByUserID(ctx, userID)
	creating := false
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("get faculty profile failed", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}
		user, err := s.repo.User.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrFacultyNotFound
			}
			return nil, err
		}
		if user.Role != model.RoleFaculty {
			return nil, ErrUserNotFaculty
		}
		profile = &model.FacultyProfile{
			UserID:      userID,
			MaxStudents: 5,
			Available:   true,
			User:        user,
		}
		creating = true
	}

	if req.Expertise != nil {
		profile.Expertise = model.StringArray(scoring.NormalizeKeywords(req.Expertise))
	}
	if req.ResearchInterests != nil {
		profile.ResearchInterests = model.StringArray(scoring.NormalizeKeywords(req.ResearchInterests))
	}
	if req.MaxStudents != nil {
		profile.MaxStudents = *req.MaxStudents
	}
	if req.Available != nil {
		profile.Available = *req.Available
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.SuccessRate != nil {
		profile.SuccessRate = *req.SuccessRate
	}
	if profile.MaxStudents < profile.CurrentStudents {
		return nil, ErrMaxBelowCurrent
	}

	if creating {
		err = s.repo.Faculty.Create(ctx, profile)
	} else {
		err = s.repo.Faculty.Update(ctx, profile)
	}
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("save faculty profile failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	return toFacultyProfileResponse(profile), nil
}

// ── helpers ──

func profileOf(p *model.FacultyProfile) scoring.Profile {
	return scoring.Profile{
		Expertise:         p.Expertise,
		ResearchInterests: p.ResearchInterests,
		MaxStudents:       p.MaxStudents,
		CurrentStudents:   p.CurrentStudents,
		Available:         p.Available,
	}
}

func toFacultyProfileResponse(p *model.FacultyProfile) *dto.FacultyProfileResponse {
	expertise, interests := []string(p.Expertise), []string(p.ResearchInterests)
	if expertise == nil {
		expertise = []string{}
	}
	if interests == nil {
		interests = []string{}
	}
	return &dto.FacultyProfileResponse{
		UserID:            p.UserID,
		User:              toUserBrief(p.User),
		Expertise:         expertise,
		ResearchInterests: interests,
		MaxStudents:       p.MaxStudents,
		CurrentStudents:   p.CurrentStudents,
		Available:         p.Available,
		Bio:               p.Bio,
		SuccessRate:       p.SuccessRate,
		Version:           p.Version,
	}
}
