package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/model"
	"fyp-portal/internal/repository"
	"fyp-portal/internal/scoring"
	pkgerrors "fyp-portal/pkg/errors"
)

// ── supervisor request errors ──

var (
	ErrRequestNotFound         = errors.New("supervisor request not found")
	ErrRequestForbidden        = errors.New("not allowed to access this supervisor request")
	ErrRequestAlreadyResponded = errors.New("supervisor request was already answered")
	ErrRequestDuplicate        = errors.New("a pending request to this faculty member already exists for the project")
	ErrRequestFilterRequired   = errors.New("student_id or faculty_id is required")
	ErrProjectHasSupervisor    = errors.New("project already has a supervisor")
	ErrFacultyAtCapacity       = errors.New("faculty member has no remaining supervision capacity")
)

// SupervisorRequestService student → faculty supervision requests
type SupervisorRequestService interface {
	Create(ctx context.Context, req *dto.CreateSupervisorRequest, caller Caller) (*dto.SupervisorRequestResponse, error)
	List(ctx context.Context, req *dto.SupervisorRequestListRequest, caller Caller) ([]dto.SupervisorRequestResponse, error)
	// Respond accepts or rejects a pending request. Acceptance assigns the
	// supervisor, approves the project and takes one unit of faculty capacity
	// in a single transaction.
	Respond(ctx context.Context, id string, req *dto.RespondSupervisorRequest, caller Caller) (*dto.SupervisorRequestResponse, error)
}

type supervisorRequestService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSupervisorRequestService creates a SupervisorRequestService.
func NewSupervisorRequestService(repo *repository.Repository, logger *zap.Logger) SupervisorRequestService {
	return &supervisorRequestService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *supervisorRequestService) Create(ctx context.Context, req *dto.CreateSupervisorRequest, caller Caller) (*dto.SupervisorRequestResponse, error) {
	project, err := s.repo.Project.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, translateProjectErr(err)
	}
	if project.StudentID != caller.UserID {
		return nil, ErrProjectForbidden
	}
	if project.SupervisorID != nil {
		return nil, ErrProjectHasSupervisor
	}

	profile, err := s.repo.Faculty.GetByUserID(ctx, req.FacultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacultyNotFound
		}
		s.logger.Error("get faculty profile failed", zap.String("user_id", req.FacultyID), zap.Error(err))
		return nil, err
	}
	if !profile.Available {
		return nil, ErrFacultyUnavailable
	}

	pending, err := s.repo.Request.HasPending(ctx, req.ProjectID, req.FacultyID)
	if err != nil {
		s.logger.Error("check pending request failed", zap.Error(err))
		return nil, err
	}
	if pending {
		return nil, ErrRequestDuplicate
	}

	request := &model.SupervisorRequest{
		StudentID:  caller.UserID,
		FacultyID:  req.FacultyID,
		ProjectID:  req.ProjectID,
		Status:     model.RequestPending,
		Message:    req.Message,
		MatchScore: scoring.MatchScore(profileOf(profile), project.Keywords),
	}

	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Request.Create(ctx, request); err != nil {
			return err
		}
		n := newNotification(req.FacultyID, model.NotificationInfo,
			"New supervision request",
			fmt.Sprintf("A student asked you to supervise \"%s\" (match score %d)", project.Title, request.MatchScore),
			requestURL(request.RequestID))
		return tx.Notification.Create(ctx, &n)
	})
	if err != nil {
		s.logger.Error("create supervisor request failed", zap.Error(err))
		return nil, err
	}

	request.Project = project
	request.Faculty = profile.User
	return toSupervisorRequestResponse(request), nil
}

// ────────────────────── List ──────────────────────

func (s *supervisorRequestService) List(ctx context.Context, req *dto.SupervisorRequestListRequest, caller Caller) ([]dto.SupervisorRequestResponse, error) {
	studentID, facultyID := req.StudentID, req.FacultyID
	if studentID == "" && facultyID == "" {
		switch caller.Role {
		case model.RoleStudent:
			studentID = caller.UserID
		case model.RoleFaculty:
			facultyID = caller.UserID
		default:
			return nil, ErrRequestFilterRequired
		}
	}

	if caller.Role != model.RoleCommittee {
		if (studentID != "" && studentID != caller.UserID) || (facultyID != "" && facultyID != caller.UserID) {
			return nil, ErrRequestForbidden
		}
	}

	var (
		reqs []model.SupervisorRequest
		err  error
	)
	if studentID != "" {
		reqs, err = s.repo.Request.ListByStudent(ctx, studentID)
	} else {
		reqs, err = s.repo.Request.ListByFaculty(ctx, facultyID, req.Status)
	}
	if err != nil {
		s.logger.Error("list supervisor requests failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SupervisorRequestResponse, 0, len(reqs))
	for i := range reqs {
		if req.Status != "" && reqs[i].Status != req.Status {
			continue
		}
		result = append(result, *toSupervisorRequestResponse(&reqs[i]))
	}
	return result, nil
}

// ────────────────────── Respond ──────────────────────

func (s *supervisorRequestService) Respond(ctx context.Context, id string, req *dto.RespondSupervisorRequest, caller Caller) (*dto.SupervisorRequestResponse, error) {
	request, err := s.repo.Request.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		s.logger.Error("get supervisor request failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if request.FacultyID != caller.UserID {
		return nil, ErrRequestForbidden
	}
	if request.Status != model.RequestPending {
		return nil, ErrRequestAlreadyResponded
	}
	if req.Version != 0 && req.Version != request.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	now := time.Now()
	request.Status = req.Status
	request.RespondedAt = &now

	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		title := request.ProjectID
		if request.Project != nil {
			title = request.Project.Title
		}

		if request.Status == model.RequestRejected {
			if err := tx.Request.Update(ctx, request); err != nil {
				return err
			}
			n := newNotification(request.StudentID, model.NotificationWarning,
				"Supervision request declined",
				fmt.Sprintf("Your request for \"%s\" was declined", title),
				requestURL(request.RequestID))
			return tx.Notification.Create(ctx, &n)
		}

		project, err := tx.Project.GetByID(ctx, request.ProjectID)
		if err != nil {
			return translateProjectErr(err)
		}
		if project.SupervisorID != nil {
			return ErrProjectHasSupervisor
		}

		ok, err := tx.Faculty.TryIncrementStudents(ctx, request.FacultyID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrFacultyAtCapacity
		}

		if err := tx.Project.AssignSupervisor(ctx, request.ProjectID, request.FacultyID); err != nil {
			return translateProjectErr(err)
		}
		if err := tx.Request.Update(ctx, request); err != nil {
			return err
		}

		n := newNotification(request.StudentID, model.NotificationSuccess,
			"Supervision request accepted",
			fmt.Sprintf("Your request for \"%s\" was accepted", title),
			projectURL(request.ProjectID))
		return tx.Notification.Create(ctx, &n)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrFacultyAtCapacity),
			errors.Is(err, ErrProjectHasSupervisor),
			errors.Is(err, ErrProjectNotFound),
			errors.Is(err, pkgerrors.ErrOptimisticLock):
		default:
			s.logger.Error("respond to supervisor request failed", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("supervisor request answered",
		zap.String("request_id", id),
		zap.String("status", request.Status),
	)
	return toSupervisorRequestResponse(request), nil
}

// ── helpers ──

func toSupervisorRequestResponse(r *model.SupervisorRequest) *dto.SupervisorRequestResponse {
	resp := &dto.SupervisorRequestResponse{
		ID:          r.RequestID,
		StudentID:   r.StudentID,
		Student:     toUserBrief(r.Student),
		FacultyID:   r.FacultyID,
		Faculty:     toUserBrief(r.Faculty),
		ProjectID:   r.ProjectID,
		Status:      r.Status,
		Message:     r.Message,
		MatchScore:  r.MatchScore,
		RespondedAt: formatTimePtr(r.RespondedAt),
		Version:     r.Version,
		CreatedAt:   formatTime(r.CreatedAt),
	}
	if r.Project != nil {
		resp.ProjectTitle = r.Project.Title
	}
	return resp
}
