package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/model"
	"fyp-portal/internal/repository"
	"fyp-portal/internal/scoring"
	pkgerrors "fyp-portal/pkg/errors"
)

// ── project errors ──

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectForbidden     = errors.New("project belongs to another student")
	ErrProjectNotEditable   = errors.New("project can no longer be edited")
	ErrProjectStatusInvalid = errors.New("invalid project status")
	ErrProjectStatusSame    = errors.New("project already has this status")
)

// editableProjectStatuses statuses in which the owner may still edit or withdraw.
var editableProjectStatuses = []string{model.ProjectDraft, model.ProjectPending, model.ProjectRejected}

// ProjectService project proposals
type ProjectService interface {
	// Create stores a proposal with its duplicate check and acceptability score.
	Create(ctx context.Context, req *dto.CreateProjectRequest, caller Caller) (*dto.ProjectResponse, error)
	// Check runs both scorers without storing anything.
	Check(ctx context.Context, req *dto.CheckProjectRequest, caller Caller) (*dto.CheckProjectResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ProjectResponse, error)
	List(ctx context.Context, req *dto.ProjectListRequest) ([]dto.ProjectResponse, int64, error)
	// Update is a resubmission; scores are recomputed when scored fields change.
	Update(ctx context.Context, id string, req *dto.UpdateProjectRequest, caller Caller) (*dto.ProjectResponse, error)
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateProjectStatusRequest, caller Caller) (*dto.ProjectResponse, error)
	Delete(ctx context.Context, id string, caller Caller) error
}

type projectService struct {
	repo      *repository.Repository
	threshold float64
	logger    *zap.Logger
}

// NewProjectService creates a ProjectService. threshold is the title
// similarity above which an existing project is reported as a duplicate.
func NewProjectService(repo *repository.Repository, threshold float64, logger *zap.Logger) ProjectService {
	return &projectService{repo: repo, threshold: threshold, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *projectService) Create(ctx context.Context, req *dto.CreateProjectRequest, caller Caller) (*dto.ProjectResponse, error) {
	keywords := scoring.NormalizeKeywords(req.Keywords)

	dup, err := s.duplicateCheck(ctx, req.Title, caller.UserID, "")
	if err != nil {
		return nil, err
	}
	report := scoring.Acceptability(scoring.Proposal{
		Title:       req.Title,
		Description: req.Description,
		Keywords:    keywords,
	})

	project := &model.Project{
		Title:              req.Title,
		Description:        req.Description,
		Domain:             req.Domain,
		Keywords:           model.StringArray(keywords),
		Status:             model.ProjectPending,
		StudentID:          caller.UserID,
		AcceptabilityScore: &report.Score,
		DuplicateCheck:     dup,
		SubmittedAt:        time.Now(),
	}

	if err := s.repo.Project.Create(ctx, project); err != nil {
		s.logger.Error("create project failed", zap.String("student_id", caller.UserID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("project submitted",
		zap.String("project_id", project.ProjectID),
		zap.Int("acceptability", report.Score),
		zap.Bool("has_duplicates", dup.HasDuplicates),
	)

	s.notify(ctx, newNotification(caller.UserID, model.NotificationSuccess,
		"Project Submitted",
		"Your project \""+project.Title+"\" has been submitted successfully.",
		projectURL(project.ProjectID)))

	resp := toProjectResponse(project)
	resp.Acceptability = &report
	return resp, nil
}

// ────────────────────── Check ──────────────────────

func (s *projectService) Check(ctx context.Context, req *dto.CheckProjectRequest, caller Caller) (*dto.CheckProjectResponse, error) {
	dup, err := s.duplicateCheck(ctx, req.Title, caller.UserID, req.ProjectID)
	if err != nil {
		return nil, err
	}
	report := scoring.Acceptability(scoring.Proposal{
		Title:       req.Title,
		Description: req.Description,
		Keywords:    scoring.NormalizeKeywords(req.Keywords),
	})

	return &dto.CheckProjectResponse{
		DuplicateCheckResult: *toDuplicateResponse(dup),
		Acceptability:        report,
	}, nil
}

// ────────────────────── Get / List ──────────────────────

func (s *projectService) GetByID(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	project, err := s.getProject(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	resp := toProjectResponse(project)
	report := scoring.Acceptability(proposalOf(project))
	resp.Acceptability = &report
	return resp, nil
}

func (s *projectService) List(ctx context.Context, req *dto.ProjectListRequest) ([]dto.ProjectResponse, int64, error) {
	projects, total, err := s.repo.Project.List(ctx, repository.ProjectFilter{
		Status:       req.Status,
		StudentID:    req.StudentID,
		SupervisorID: req.SupervisorID,
	}, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list projects failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		result = append(result, *toProjectResponse(&projects[i]))
	}
	return result, total, nil
}

// ────────────────────── Update (resubmission) ──────────────────────

func (s *projectService) Update(ctx context.Context, id string, req *dto.UpdateProjectRequest, caller Caller) (*dto.ProjectResponse, error) {
	project, err := s.getProject(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if project.StudentID != caller.UserID {
		return nil, ErrProjectForbidden
	}
	if !slices.Contains(editableProjectStatuses, project.Status) {
		return nil, ErrProjectNotEditable
	}

	titleChanged, scoredChanged := false, false
	if req.Title != nil && *req.Title != project.Title {
		project.Title = *req.Title
		titleChanged, scoredChanged = true, true
	}
	if req.Description != nil && *req.Description != project.Description {
		project.Description = *req.Description
		scoredChanged = true
	}
	if req.Domain != nil {
		project.Domain = *req.Domain
	}
	if req.Keywords != nil {
		keywords := scoring.NormalizeKeywords(req.Keywords)
		if !slices.Equal(keywords, []string(project.Keywords)) {
			project.Keywords = model.StringArray(keywords)
			scoredChanged = true
		}
	}

	if titleChanged || project.DuplicateCheck == nil {
		dup, err := s.duplicateCheck(ctx, project.Title, project.StudentID, project.ProjectID)
		if err != nil {
			return nil, err
		}
		project.DuplicateCheck = dup
	}

	report := scoring.Acceptability(proposalOf(project))
	if scoredChanged || project.AcceptabilityScore == nil {
		project.AcceptabilityScore = &report.Score
		project.SubmittedAt = time.Now()
		if project.Status == model.ProjectRejected || project.Status == model.ProjectDraft {
			project.Status = model.ProjectPending
		}
	}

	if err := s.repo.Project.Update(ctx, project); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("update project failed", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	resp := toProjectResponse(project)
	resp.Acceptability = &report
	return resp, nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *projectService) UpdateStatus(ctx context.Context, id string, req *dto.UpdateProjectStatusRequest, caller Caller) (*dto.ProjectResponse, error) {
	if !slices.Contains(model.ProjectStatuses, req.Status) {
		return nil, ErrProjectStatusInvalid
	}

	project, err := s.getProject(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if project.Status == req.Status {
		return nil, ErrProjectStatusSame
	}

	previous := project.Status
	project.Status = req.Status
	if err := s.repo.Project.Update(ctx, project); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("update project status failed", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("project status changed",
		zap.String("project_id", id),
		zap.String("from", previous),
		zap.String("to", req.Status),
		zap.String("by", caller.UserID),
	)

	notifyType := model.NotificationInfo
	switch req.Status {
	case model.ProjectApproved:
		notifyType = model.NotificationSuccess
	case model.ProjectRejected:
		notifyType = model.NotificationWarning
	}
	s.notify(ctx, newNotification(project.StudentID, notifyType,
		"Project status updated",
		"\""+project.Title+"\" is now "+req.Status,
		projectURL(project.ProjectID)))

	return toProjectResponse(project), nil
}

// ────────────────────── Delete ──────────────────────

func (s *projectService) Delete(ctx context.Context, id string, caller Caller) error {
	project, err := s.getProject(ctx, s.repo, id)
	if err != nil {
		return err
	}

	if caller.Role != model.RoleCommittee {
		if project.StudentID != caller.UserID {
			return ErrProjectForbidden
		}
		if !slices.Contains(editableProjectStatuses, project.Status) {
			return ErrProjectNotEditable
		}
	}

	if err := s.repo.Project.Delete(ctx, id); err != nil {
		s.logger.Error("delete project failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

func (s *projectService) getProject(ctx context.Context, repo *repository.Repository, id string) (*model.Project, error) {
	project, err := repo.Project.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("get project failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return project, nil
}

func translateProjectErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProjectNotFound
	}
	return err
}

// duplicateCheck compares title with every other student's project titles.
// self is excluded so a resubmission never matches itself.
func (s *projectService) duplicateCheck(ctx context.Context, title, studentID, self string) (*model.DuplicateCheckResult, error) {
	existing, err := s.repo.Project.ListTitles(ctx)
	if err != nil {
		s.logger.Error("list project titles failed", zap.Error(err))
		return nil, err
	}

	titled := make([]scoring.Titled, len(existing))
	for i, p := range existing {
		titled[i] = scoring.Titled{ID: p.ProjectID, Title: p.Title, Owner: p.StudentID}
	}

	hits := scoring.FindSimilarTitles(title, studentID, self, titled, s.threshold)
	result := &model.DuplicateCheckResult{
		HasDuplicates:   len(hits) > 0,
		SimilarProjects: make([]model.SimilarProject, 0, len(hits)),
	}
	for _, h := range hits {
		result.SimilarProjects = append(result.SimilarProjects, model.SimilarProject{
			ProjectID:  h.ID,
			Title:      h.Title,
			Similarity: h.Similarity,
		})
	}
	return result, nil
}

func (s *projectService) notify(ctx context.Context, n model.Notification) {
	if err := s.repo.Notification.Create(ctx, &n); err != nil {
		s.logger.Warn("create notification failed", zap.String("user_id", n.UserID), zap.Error(err))
	}
}

func proposalOf(p *model.Project) scoring.Proposal {
	return scoring.Proposal{Title: p.Title, Description: p.Description, Keywords: p.Keywords}
}

func toDuplicateResponse(d *model.DuplicateCheckResult) *dto.DuplicateCheckResponse {
	if d == nil {
		return nil
	}
	resp := &dto.DuplicateCheckResponse{
		HasDuplicates:   d.HasDuplicates,
		SimilarProjects: make([]dto.SimilarProjectResponse, 0, len(d.SimilarProjects)),
	}
	for _, sp := range d.SimilarProjects {
		resp.SimilarProjects = append(resp.SimilarProjects, dto.SimilarProjectResponse{
			ID:         sp.ProjectID,
			Title:      sp.Title,
			Similarity: sp.Similarity,
		})
	}
	return resp
}

func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	brief := &dto.UserBrief{
		ID:         u.UserID,
		FullName:   u.FullName,
		Email:      u.Email,
		Department: u.Department,
	}
	if u.RollNumber != nil {
		brief.RollNumber = *u.RollNumber
	}
	return brief
}

func toProjectResponse(p *model.Project) *dto.ProjectResponse {
	keywords := []string(p.Keywords)
	if keywords == nil {
		keywords = []string{}
	}
	return &dto.ProjectResponse{
		ID:                   p.ProjectID,
		Title:                p.Title,
		Description:          p.Description,
		Domain:               p.Domain,
		Keywords:             keywords,
		Status:               p.Status,
		StudentID:            p.StudentID,
		Student:              toUserBrief(p.Student),
		SupervisorID:         p.SupervisorID,
		Supervisor:           toUserBrief(p.Supervisor),
		AcceptabilityScore:   p.AcceptabilityScore,
		DuplicateCheckResult: toDuplicateResponse(p.DuplicateCheck),
		Version:              p.Version,
		SubmittedAt:          formatTime(p.SubmittedAt),
		UpdatedAt:            formatTime(p.UpdatedAt),
	}
}
