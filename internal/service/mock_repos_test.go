package service

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"gorm.io/gorm"

	"fyp-portal/internal/model"
	"fyp-portal/internal/repository"
	pkgerrors "fyp-portal/pkg/errors"
)

// Every mock stores values and hands out copies, so a caller mutating a
// returned record does not change the store until it calls Update.

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	m.users[user.UserID] = *user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByIDs(_ context.Context, ids []string) ([]model.User, error) {
	var result []model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result = append(result, u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) List(_ context.Context, role string, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if role == "" || u.Role == role {
			all = append(all, u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// ── Mock ProjectRepository ──

type mockProjectRepo struct {
	projects map[string]model.Project
	order    []string
	users    *mockUserRepo
	seq      int
	// updateErr, when set, is returned by Update instead of saving.
	updateErr error
}

func newMockProjectRepo(users *mockUserRepo) *mockProjectRepo {
	return &mockProjectRepo{projects: make(map[string]model.Project), users: users}
}

func (m *mockProjectRepo) Create(_ context.Context, project *model.Project) error {
	if project.ProjectID == "" {
		m.seq++
		project.ProjectID = fmt.Sprintf("project-%d", m.seq)
	}
	if project.Version == 0 {
		project.Version = 1
	}
	m.projects[project.ProjectID] = *project
	m.order = append(m.order, project.ProjectID)
	return nil
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if m.users != nil {
		p.Student, _ = m.users.GetByID(ctx, p.StudentID)
		if p.SupervisorID != nil {
			p.Supervisor, _ = m.users.GetByID(ctx, *p.SupervisorID)
		}
	}
	return &p, nil
}

func (m *mockProjectRepo) GetByIDs(_ context.Context, ids []string) ([]model.Project, error) {
	var result []model.Project
	for _, id := range ids {
		if p, ok := m.projects[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockProjectRepo) all() []model.Project {
	result := make([]model.Project, 0, len(m.order))
	for _, id := range m.order {
		if p, ok := m.projects[id]; ok {
			result = append(result, p)
		}
	}
	return result
}

func (m *mockProjectRepo) List(_ context.Context, filter repository.ProjectFilter, offset, limit int) ([]model.Project, int64, error) {
	var result []model.Project
	for _, p := range m.all() {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.StudentID != "" && p.StudentID != filter.StudentID {
			continue
		}
		if filter.SupervisorID != "" && (p.SupervisorID == nil || *p.SupervisorID != filter.SupervisorID) {
			continue
		}
		result = append(result, p)
	}
	return page(result, offset, limit), int64(len(result)), nil
}

func (m *mockProjectRepo) ListByStatus(_ context.Context, status string) ([]model.Project, error) {
	var result []model.Project
	for _, p := range m.all() {
		if p.Status == status {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockProjectRepo) ListTitles(_ context.Context) ([]model.Project, error) {
	var result []model.Project
	for _, p := range m.all() {
		result = append(result, model.Project{ProjectID: p.ProjectID, Title: p.Title, StudentID: p.StudentID})
	}
	return result, nil
}

func (m *mockProjectRepo) Update(_ context.Context, project *model.Project) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.projects[project.ProjectID]
	if !ok || stored.Version != project.Version {
		return pkgerrors.ErrOptimisticLock
	}
	project.Version++
	saved := *project
	saved.Student, saved.Supervisor = nil, nil
	m.projects[project.ProjectID] = saved
	return nil
}

func (m *mockProjectRepo) AssignSupervisor(_ context.Context, projectID, supervisorID string) error {
	p, ok := m.projects[projectID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.SupervisorID = &supervisorID
	p.Status = model.ProjectApproved
	p.Version++
	m.projects[projectID] = p
	return nil
}

func (m *mockProjectRepo) Delete(_ context.Context, id string) error {
	delete(m.projects, id)
	return nil
}

func (m *mockProjectRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, p := range m.projects {
		counts[p.Status]++
	}
	return counts, nil
}

func (m *mockProjectRepo) AverageAcceptability(_ context.Context) (float64, int64, error) {
	var sum, n int64
	for _, p := range m.projects {
		if p.AcceptabilityScore != nil {
			sum += int64(*p.AcceptabilityScore)
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), n, nil
}

// ── Mock FacultyProfileRepository ──

type mockFacultyRepo struct {
	profiles map[string]model.FacultyProfile
	users    *mockUserRepo
}

func newMockFacultyRepo(users *mockUserRepo) *mockFacultyRepo {
	return &mockFacultyRepo{profiles: make(map[string]model.FacultyProfile), users: users}
}

func (m *mockFacultyRepo) withUser(p model.FacultyProfile) model.FacultyProfile {
	if m.users != nil {
		if u, ok := m.users.users[p.UserID]; ok {
			p.User = &u
		}
	}
	return p
}

func (m *mockFacultyRepo) sorted(keep func(model.FacultyProfile) bool) []model.FacultyProfile {
	var result []model.FacultyProfile
	for _, p := range m.profiles {
		if keep(p) {
			result = append(result, m.withUser(p))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result
}

func (m *mockFacultyRepo) Create(_ context.Context, profile *model.FacultyProfile) error {
	if profile.ProfileID == "" {
		profile.ProfileID = "profile-" + profile.UserID
	}
	if profile.Version == 0 {
		profile.Version = 1
	}
	m.profiles[profile.UserID] = *profile
	return nil
}

func (m *mockFacultyRepo) GetByUserID(_ context.Context, userID string) (*model.FacultyProfile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p = m.withUser(p)
	return &p, nil
}

func (m *mockFacultyRepo) GetByUserIDs(_ context.Context, userIDs []string) ([]model.FacultyProfile, error) {
	return m.sorted(func(p model.FacultyProfile) bool { return slices.Contains(userIDs, p.UserID) }), nil
}

func (m *mockFacultyRepo) List(_ context.Context, available *bool) ([]model.FacultyProfile, error) {
	return m.sorted(func(p model.FacultyProfile) bool { return available == nil || p.Available == *available }), nil
}

func (m *mockFacultyRepo) ListAvailable(_ context.Context) ([]model.FacultyProfile, error) {
	return m.sorted(func(p model.FacultyProfile) bool { return p.Available }), nil
}

func (m *mockFacultyRepo) Update(_ context.Context, profile *model.FacultyProfile) error {
	stored, ok := m.profiles[profile.UserID]
	if !ok || stored.Version != profile.Version {
		return pkgerrors.ErrOptimisticLock
	}
	profile.Version++
	saved := *profile
	saved.User = nil
	m.profiles[profile.UserID] = saved
	return nil
}

func (m *mockFacultyRepo) TryIncrementStudents(_ context.Context, userID string) (bool, error) {
	p, ok := m.profiles[userID]
	if !ok || p.CurrentStudents >= p.MaxStudents {
		return false, nil
	}
	p.CurrentStudents++
	p.Version++
	m.profiles[userID] = p
	return true, nil
}

func (m *mockFacultyRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.profiles)), nil
}

func (m *mockFacultyRepo) CountAvailable(_ context.Context) (int64, error) {
	var n int64
	for _, p := range m.profiles {
		if p.Available {
			n++
		}
	}
	return n, nil
}

// ── Mock SupervisorRequestRepository ──

type mockRequestRepo struct {
	requests map[string]model.SupervisorRequest
	projects *mockProjectRepo
	seq      int
}

func newMockRequestRepo(projects *mockProjectRepo) *mockRequestRepo {
	return &mockRequestRepo{requests: make(map[string]model.SupervisorRequest), projects: projects}
}

func (m *mockRequestRepo) Create(_ context.Context, req *model.SupervisorRequest) error {
	m.seq++
	if req.RequestID == "" {
		req.RequestID = fmt.Sprintf("request-%d", m.seq)
	}
	if req.Version == 0 {
		req.Version = 1
	}
	m.requests[req.RequestID] = *req
	return nil
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id string) (*model.SupervisorRequest, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if m.projects != nil {
		r.Project, _ = m.projects.GetByID(ctx, r.ProjectID)
	}
	return &r, nil
}

func (m *mockRequestRepo) list(keep func(model.SupervisorRequest) bool) []model.SupervisorRequest {
	var result []model.SupervisorRequest
	for _, r := range m.requests {
		if keep(r) {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RequestID < result[j].RequestID })
	return result
}

func (m *mockRequestRepo) ListByStudent(_ context.Context, studentID string) ([]model.SupervisorRequest, error) {
	return m.list(func(r model.SupervisorRequest) bool { return r.StudentID == studentID }), nil
}

func (m *mockRequestRepo) ListByFaculty(_ context.Context, facultyID, status string) ([]model.SupervisorRequest, error) {
	return m.list(func(r model.SupervisorRequest) bool {
		return r.FacultyID == facultyID && (status == "" || r.Status == status)
	}), nil
}

func (m *mockRequestRepo) HasPending(_ context.Context, projectID, facultyID string) (bool, error) {
	for _, r := range m.requests {
		if r.ProjectID == projectID && r.FacultyID == facultyID && r.Status == model.RequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRequestRepo) Update(_ context.Context, req *model.SupervisorRequest) error {
	stored, ok := m.requests[req.RequestID]
	if !ok || stored.Version != req.Version {
		return pkgerrors.ErrOptimisticLock
	}
	req.Version++
	saved := *req
	saved.Project, saved.Student, saved.Faculty = nil, nil, nil
	m.requests[req.RequestID] = saved
	return nil
}

func (m *mockRequestRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	return int64(len(m.list(func(r model.SupervisorRequest) bool { return r.Status == status }))), nil
}

// ── Mock PanelRepository ──

type mockPanelRepo struct {
	panels map[string]model.Panel
	order  []string
	seq    int
}

func newMockPanelRepo() *mockPanelRepo {
	return &mockPanelRepo{panels: make(map[string]model.Panel)}
}

func (m *mockPanelRepo) BatchCreate(_ context.Context, panels []model.Panel) error {
	for i := range panels {
		m.seq++
		if panels[i].PanelID == "" {
			panels[i].PanelID = fmt.Sprintf("panel-%d", m.seq)
		}
		if panels[i].Version == 0 {
			panels[i].Version = 1
		}
		m.panels[panels[i].PanelID] = panels[i]
		m.order = append(m.order, panels[i].PanelID)
	}
	return nil
}

func (m *mockPanelRepo) GetByID(_ context.Context, id string) (*model.Panel, error) {
	p, ok := m.panels[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (m *mockPanelRepo) List(_ context.Context, filter repository.PanelFilter) ([]model.Panel, error) {
	var result []model.Panel
	for _, id := range m.order {
		p, ok := m.panels[id]
		if !ok {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.GenerationID != "" && p.GenerationID != filter.GenerationID {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

func (m *mockPanelRepo) Update(_ context.Context, panel *model.Panel) error {
	stored, ok := m.panels[panel.PanelID]
	if !ok || stored.Version != panel.Version {
		return pkgerrors.ErrOptimisticLock
	}
	panel.Version++
	m.panels[panel.PanelID] = *panel
	return nil
}

func (m *mockPanelRepo) Delete(_ context.Context, id string) error {
	delete(m.panels, id)
	return nil
}

func (m *mockPanelRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.panels)), nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	items []model.Notification
	seq   int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	m.seq++
	if n.NotificationID == "" {
		n.NotificationID = fmt.Sprintf("notification-%d", m.seq)
	}
	m.items = append(m.items, *n)
	return nil
}

func (m *mockNotificationRepo) BatchCreate(ctx context.Context, ns []model.Notification) error {
	for i := range ns {
		if err := m.Create(ctx, &ns[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	var result []model.Notification
	for _, n := range m.items {
		if n.UserID != userID || (unreadOnly && n.IsRead) {
			continue
		}
		result = append(result, n)
	}
	return page(result, offset, limit), int64(len(result)), nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	for i := range m.items {
		if m.items[i].NotificationID == id && m.items[i].UserID == userID {
			m.items[i].IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	var n int64
	for i := range m.items {
		if m.items[i].UserID == userID && !m.items[i].IsRead {
			m.items[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, item := range m.items {
		if item.UserID == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

// forUser notifications addressed to userID.
func (m *mockNotificationRepo) forUser(userID string) []model.Notification {
	var result []model.Notification
	for _, n := range m.items {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result
}

// ── fixture ──

type mockRepos struct {
	users         *mockUserRepo
	projects      *mockProjectRepo
	faculty       *mockFacultyRepo
	requests      *mockRequestRepo
	panels        *mockPanelRepo
	notifications *mockNotificationRepo
}

// newMockRepository wires every mock into an aggregate without a database;
// WithinTx then runs its function directly.
func newMockRepository() (*repository.Repository, *mockRepos) {
	users := newMockUserRepo()
	projects := newMockProjectRepo(users)
	m := &mockRepos{
		users:         users,
		projects:      projects,
		faculty:       newMockFacultyRepo(users),
		requests:      newMockRequestRepo(projects),
		panels:        newMockPanelRepo(),
		notifications: newMockNotificationRepo(),
	}
	return &repository.Repository{
		User:         m.users,
		Project:      m.projects,
		Faculty:      m.faculty,
		Request:      m.requests,
		Panel:        m.panels,
		Notification: m.notifications,
	}, m
}

func (m *mockRepos) addUser(id, name, role string) {
	m.users.users[id] = model.User{
		UserID:   id,
		Username: id,
		FullName: name,
		Email:    id + "@uni.test",
		Role:     role,
	}
}

func (m *mockRepos) addFaculty(id, name string, expertise []string, maxStudents, current int, available bool) {
	m.addUser(id, name, model.RoleFaculty)
	m.faculty.profiles[id] = model.FacultyProfile{
		ProfileID:       "profile-" + id,
		UserID:          id,
		Expertise:       model.StringArray(expertise),
		MaxStudents:     maxStudents,
		CurrentStudents: current,
		Available:       available,
		VersionedModel:  model.VersionedModel{Version: 1},
	}
}

func (m *mockRepos) addProject(id, studentID, title, status string, keywords ...string) {
	score := 70
	_ = m.projects.Create(context.Background(), &model.Project{
		ProjectID:          id,
		Title:              title,
		Description:        "description of " + title,
		Keywords:           model.StringArray(keywords),
		Status:             status,
		StudentID:          studentID,
		AcceptabilityScore: &score,
	})
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
