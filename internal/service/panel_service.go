package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fyp-portal/config"
	"fyp-portal/internal/dto"
	"fyp-portal/internal/model"
	"fyp-portal/internal/panelgen"
	"fyp-portal/internal/repository"
	pkgerrors "fyp-portal/pkg/errors"
)

// ── panel errors ──

var (
	ErrPanelNotFound           = errors.New("panel not found")
	ErrPanelInvalidTransition  = errors.New("invalid panel status transition")
	ErrPanelNotEditable        = errors.New("only draft panels can be edited")
	ErrPanelNotDeletable       = errors.New("completed panels cannot be deleted")
	ErrPanelGenerationBusy     = errors.New("panel generation is already running")
	ErrPanelInvalidSchedule    = errors.New("scheduled_date must be an RFC 3339 timestamp")
	ErrPanelUnknownProject     = errors.New("panel references an unknown project")
	ErrPanelUnknownEvaluator   = errors.New("panel references an unknown evaluator")
	ErrPanelInvalidConstraints = errors.New("invalid panel generation constraints")
)

const panelGenerateLock = "panels:generate"

// panelTransitions allowed forward moves.
var panelTransitions = map[string]string{
	model.PanelDraft:     model.PanelScheduled,
	model.PanelScheduled: model.PanelCompleted,
}

// Locker cross-process mutual exclusion, implemented by pkg/redis.Client.
type Locker interface {
	AcquireLock(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, error)
}

// PanelService evaluation panels
type PanelService interface {
	// Generate partitions approved projects into new draft panels.
	// Each call creates new panels; existing ones are left alone.
	Generate(ctx context.Context, req *dto.GeneratePanelsRequest, caller Caller) (*dto.GeneratePanelsResponse, error)
	List(ctx context.Context, req *dto.PanelListRequest) ([]dto.PanelResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PanelResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdatePanelRequest) (*dto.PanelResponse, error)
	Schedule(ctx context.Context, id string, req *dto.SchedulePanelRequest) (*dto.PanelResponse, error)
	Complete(ctx context.Context, id string) (*dto.PanelResponse, error)
	Delete(ctx context.Context, id string) error
}

type panelService struct {
	repo   *repository.Repository
	locker Locker
	cfg    config.PanelConfig
	logger *zap.Logger

	// local serializes generation within this process; it is the only guard
	// when no Locker is configured.
	local sync.Mutex
	rng   *rand.Rand
}

// NewPanelService creates a PanelService. locker may be nil.
func NewPanelService(repo *repository.Repository, locker Locker, cfg config.PanelConfig, logger *zap.Logger) PanelService {
	return &panelService{repo: repo, locker: locker, cfg: cfg, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Generate
// ════════════════════════════════════════════════════════════

func (s *panelService) Generate(ctx context.Context, req *dto.GeneratePanelsRequest, caller Caller) (*dto.GeneratePanelsResponse, error) {
	constraints := s.constraintsFor(req.Constraints)
	if err := constraints.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPanelInvalidConstraints, err)
	}

	if !s.local.TryLock() {
		return nil, ErrPanelGenerationBusy
	}
	defer s.local.Unlock()

	if s.locker != nil {
		release, err := s.locker.AcquireLock(ctx, panelGenerateLock, s.lockTTL())
		switch {
		case errors.Is(err, pkgerrors.ErrLockNotAcquired):
			return nil, ErrPanelGenerationBusy
		case err != nil:
			// Redis down: the process-local lock still holds.
			s.logger.Warn("distributed lock unavailable, continuing with local lock", zap.Error(err))
		default:
			defer func() {
				// release with a fresh context so a cancelled request still frees the lock
				if err := release(context.WithoutCancel(ctx)); err != nil {
					s.logger.Warn("release panel lock failed", zap.Error(err))
				}
			}()
		}
	}

	generationID := uuid.NewString()
	var (
		result   panelgen.Result
		created  []model.Panel
		eligible struct{ projects, faculty int }
	)

	err := s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		projects, err := tx.Project.ListByStatus(ctx, model.ProjectApproved)
		if err != nil {
			return fmt.Errorf("list approved projects: %w", err)
		}
		faculty, err := tx.Faculty.ListAvailable(ctx)
		if err != nil {
			return fmt.Errorf("list available faculty: %w", err)
		}
		eligible.projects, eligible.faculty = len(projects), len(faculty)

		result = panelgen.Generate(toGenProjects(projects), toGenEvaluators(faculty), constraints, s.rng)

		created = make([]model.Panel, 0, len(result.Panels))
		for _, d := range result.Panels {
			created = append(created, model.Panel{
				Name:              d.Name,
				ProjectIDs:        model.StringArray(d.ProjectIDs),
				EvaluatorIDs:      model.StringArray(d.EvaluatorIDs),
				Status:            model.PanelDraft,
				OptimizationScore: d.OptimizationScore,
				Constraints: model.PanelConstraints{
					ProjectsPerPanel:   result.Constraints.ProjectsPerPanel,
					EvaluatorsPerPanel: result.Constraints.EvaluatorsPerPanel,
					Strategy:           string(result.Constraints.Strategy),
				},
				GenerationID: generationID,
			})
		}
		return tx.Panel.BatchCreate(ctx, created)
	})
	if err != nil {
		s.logger.Error("generate panels failed", zap.Error(err))
		return nil, err
	}

	summary := dto.GeneratePanelsSummary{
		GenerationID:        generationID,
		PanelsCreated:       len(created),
		SupervisorConflicts: result.Conflicts,
		Constraints:         toConstraintsResponse(result.Constraints),
		EligibleProjects:    eligible.projects,
		EligibleFaculty:     eligible.faculty,
	}
	evaluators := map[string]struct{}{}
	scoreSum := 0
	panels := make([]dto.PanelResponse, 0, len(created))
	for i := range created {
		summary.ProjectsAssigned += len(created[i].ProjectIDs)
		for _, e := range created[i].EvaluatorIDs {
			evaluators[e] = struct{}{}
		}
		scoreSum += created[i].OptimizationScore
		panels = append(panels, *toPanelResponse(&created[i]))
	}
	summary.EvaluatorsUsed = len(evaluators)
	if len(created) > 0 {
		summary.AverageOptimization = (scoreSum + len(created)/2) / len(created)
	}

	s.logger.Info("panels generated",
		zap.String("generation_id", generationID),
		zap.String("by", caller.UserID),
		zap.Int("panels", summary.PanelsCreated),
		zap.Int("projects", summary.ProjectsAssigned),
		zap.Int("conflicts", summary.SupervisorConflicts),
		zap.String("strategy", string(result.Constraints.Strategy)),
	)

	return &dto.GeneratePanelsResponse{Panels: panels, Summary: summary}, nil
}

// constraintsFor fills omitted request values from configuration; panelgen
// fills anything still zero.
func (s *panelService) constraintsFor(req dto.PanelConstraintsRequest) panelgen.Constraints {
	c := panelgen.Constraints{
		ProjectsPerPanel:   req.ProjectsPerPanel,
		EvaluatorsPerPanel: req.EvaluatorsPerPanel,
		Strategy:           panelgen.Strategy(req.Strategy),
	}
	if c.ProjectsPerPanel == 0 {
		c.ProjectsPerPanel = s.cfg.ProjectsPerPanel
	}
	if c.EvaluatorsPerPanel == 0 {
		c.EvaluatorsPerPanel = s.cfg.EvaluatorsPerPanel
	}
	if c.Strategy == "" {
		c.Strategy = panelgen.Strategy(s.cfg.Strategy)
	}
	return c
}

func (s *panelService) lockTTL() time.Duration {
	if s.cfg.LockTTL > 0 {
		return s.cfg.LockTTL
	}
	return 30 * time.Second
}

// ════════════════════════════════════════════════════════════
// Read
// ════════════════════════════════════════════════════════════

func (s *panelService) List(ctx context.Context, req *dto.PanelListRequest) ([]dto.PanelResponse, error) {
	panels, err := s.repo.Panel.List(ctx, repository.PanelFilter{
		Status:       req.Status,
		GenerationID: req.GenerationID,
	})
	if err != nil {
		s.logger.Error("list panels failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PanelResponse, 0, len(panels))
	for i := range panels {
		result = append(result, *toPanelResponse(&panels[i]))
	}
	return result, nil
}

func (s *panelService) GetByID(ctx context.Context, id string) (*dto.PanelResponse, error) {
	panel, err := s.getPanel(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return toPanelResponse(panel), nil
}

// ════════════════════════════════════════════════════════════
// Edit (draft only)
// ════════════════════════════════════════════════════════════

func (s *panelService) Update(ctx context.Context, id string, req *dto.UpdatePanelRequest) (*dto.PanelResponse, error) {
	panel, err := s.getPanel(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if panel.Status != model.PanelDraft {
		return nil, ErrPanelNotEditable
	}
	if req.Version != 0 && req.Version != panel.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	if req.Name != nil {
		panel.Name = *req.Name
	}
	if req.ProjectIDs != nil {
		panel.ProjectIDs = model.StringArray(dedupe(req.ProjectIDs))
	}
	if req.EvaluatorIDs != nil {
		panel.EvaluatorIDs = model.StringArray(dedupe(req.EvaluatorIDs))
	}

	if req.ProjectIDs != nil || req.EvaluatorIDs != nil {
		projects, err := s.repo.Project.GetByIDs(ctx, panel.ProjectIDs)
		if err != nil {
			s.logger.Error("load panel projects failed", zap.Error(err))
			return nil, err
		}
		if len(projects) != len(panel.ProjectIDs) {
			return nil, ErrPanelUnknownProject
		}
		faculty, err := s.repo.Faculty.GetByUserIDs(ctx, panel.EvaluatorIDs)
		if err != nil {
			s.logger.Error("load panel evaluators failed", zap.Error(err))
			return nil, err
		}
		if len(faculty) != len(panel.EvaluatorIDs) {
			return nil, ErrPanelUnknownEvaluator
		}
		panel.OptimizationScore = panelgen.OptimizationScore(toGenProjects(projects), toGenEvaluators(faculty))
	}

	if err := s.repo.Panel.Update(ctx, panel); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("update panel failed", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	return toPanelResponse(panel), nil
}

// ════════════════════════════════════════════════════════════
// Lifecycle: draft → scheduled → completed
// ════════════════════════════════════════════════════════════

func (s *panelService) Schedule(ctx context.Context, id string, req *dto.SchedulePanelRequest) (*dto.PanelResponse, error) {
	date, err := time.Parse(time.RFC3339, req.ScheduledDate)
	if err != nil {
		return nil, ErrPanelInvalidSchedule
	}

	var panel *model.Panel
	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		var err error
		panel, err = s.getPanel(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := transition(panel, model.PanelScheduled); err != nil {
			return err
		}
		panel.ScheduledDate = &date
		panel.Room = req.Room
		if err := tx.Panel.Update(ctx, panel); err != nil {
			return err
		}

		where := ""
		if req.Room != nil && *req.Room != "" {
			where = " in " + *req.Room
		}
		notes := make([]model.Notification, 0, len(panel.EvaluatorIDs))
		for _, evaluator := range panel.EvaluatorIDs {
			notes = append(notes, newNotification(evaluator, model.NotificationInfo,
				"Evaluation panel scheduled",
				fmt.Sprintf("%s is scheduled for %s%s", panel.Name, date.Format("Mon 02 Jan 2006 15:04 MST"), where),
				panelURL(panel.PanelID)))
		}
		return tx.Notification.BatchCreate(ctx, notes)
	})
	if err != nil {
		s.logLifecycleErr("schedule", id, err)
		return nil, err
	}
	return toPanelResponse(panel), nil
}

func (s *panelService) Complete(ctx context.Context, id string) (*dto.PanelResponse, error) {
	panel, err := s.getPanel(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if err := transition(panel, model.PanelCompleted); err != nil {
		return nil, err
	}
	if err := s.repo.Panel.Update(ctx, panel); err != nil {
		s.logLifecycleErr("complete", id, err)
		return nil, err
	}
	return toPanelResponse(panel), nil
}

func (s *panelService) Delete(ctx context.Context, id string) error {
	panel, err := s.getPanel(ctx, s.repo, id)
	if err != nil {
		return err
	}
	if panel.Status == model.PanelCompleted {
		return ErrPanelNotDeletable
	}
	if err := s.repo.Panel.Delete(ctx, id); err != nil {
		s.logger.Error("delete panel failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

// transition moves panel to next if that is the single allowed forward step.
func transition(panel *model.Panel, next string) error {
	if panelTransitions[panel.Status] != next {
		return ErrPanelInvalidTransition
	}
	panel.Status = next
	return nil
}

func (s *panelService) getPanel(ctx context.Context, repo *repository.Repository, id string) (*model.Panel, error) {
	panel, err := repo.Panel.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPanelNotFound
		}
		s.logger.Error("get panel failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return panel, nil
}

func (s *panelService) logLifecycleErr(op, id string, err error) {
	if errors.Is(err, ErrPanelNotFound) || errors.Is(err, ErrPanelInvalidTransition) || errors.Is(err, pkgerrors.ErrOptimisticLock) {
		return
	}
	s.logger.Error("panel "+op+" failed", zap.String("id", id), zap.Error(err))
}

func toGenProjects(projects []model.Project) []panelgen.Project {
	out := make([]panelgen.Project, len(projects))
	for i, p := range projects {
		out[i] = panelgen.Project{ID: p.ProjectID, Keywords: p.Keywords}
		if p.SupervisorID != nil {
			out[i].SupervisorID = *p.SupervisorID
		}
	}
	return out
}

func toGenEvaluators(faculty []model.FacultyProfile) []panelgen.Evaluator {
	out := make([]panelgen.Evaluator, len(faculty))
	for i := range faculty {
		out[i] = panelgen.Evaluator{UserID: faculty[i].UserID, Profile: profileOf(&faculty[i])}
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func toConstraintsResponse(c panelgen.Constraints) dto.PanelConstraintsResponse {
	return dto.PanelConstraintsResponse{
		ProjectsPerPanel:   c.ProjectsPerPanel,
		EvaluatorsPerPanel: c.EvaluatorsPerPanel,
		Strategy:           string(c.Strategy),
	}
}

func toPanelResponse(p *model.Panel) *dto.PanelResponse {
	return &dto.PanelResponse{
		ID:                p.PanelID,
		Name:              p.Name,
		ProjectIDs:        append([]string{}, p.ProjectIDs...),
		EvaluatorIDs:      append([]string{}, p.EvaluatorIDs...),
		Status:            p.Status,
		OptimizationScore: p.OptimizationScore,
		ScheduledDate:     formatTimePtr(p.ScheduledDate),
		Room:              p.Room,
		Constraints: dto.PanelConstraintsResponse{
			ProjectsPerPanel:   p.Constraints.ProjectsPerPanel,
			EvaluatorsPerPanel: p.Constraints.EvaluatorsPerPanel,
			Strategy:           p.Constraints.Strategy,
		},
		GenerationID: p.GenerationID,
		Version:      p.Version,
		CreatedAt:    formatTime(p.CreatedAt),
	}
}
