package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/service"
)

// ── fakes ──

type fakePanels struct {
	service.PanelService
	gotGenerate *dto.GeneratePanelsRequest
	gotCaller   service.Caller
	gotList     *dto.PanelListRequest
	panels      []dto.PanelResponse
	err         error
}

func (f *fakePanels) Generate(_ context.Context, req *dto.GeneratePanelsRequest, caller service.Caller) (*dto.GeneratePanelsResponse, error) {
	f.gotGenerate, f.gotCaller = req, caller
	if f.err != nil {
		return nil, f.err
	}
	return &dto.GeneratePanelsResponse{
		Panels: f.panels,
		Summary: dto.GeneratePanelsSummary{
			GenerationID:     "gen-1",
			PanelsCreated:    len(f.panels),
			ProjectsAssigned: 7,
			EligibleProjects: 7,
			Constraints:      dto.PanelConstraintsResponse{Strategy: "expertise"},
		},
	}, nil
}

func (f *fakePanels) List(_ context.Context, req *dto.PanelListRequest) ([]dto.PanelResponse, error) {
	f.gotList = req
	return f.panels, f.err
}

type fakeExport struct{ service.ExportService }

func (fakeExport) ExportPanels(context.Context, *dto.PanelListRequest) (*bytes.Buffer, string, error) {
	return bytes.NewBufferString("PK-roster"), "panels_20260504.xlsx", nil
}

func (fakeExport) ExportCalendar(context.Context) (*bytes.Buffer, string, error) {
	return bytes.NewBufferString("BEGIN:VCALENDAR"), "panels.ics", nil
}

type fakeRecommend struct {
	service.RecommendationService
	gotKeywords []string
	gotLimit    int
}

func (f *fakeRecommend) RankForKeywords(_ context.Context, keywords []string, limit int) ([]dto.RecommendationResponse, error) {
	f.gotKeywords, f.gotLimit = keywords, limit
	return []dto.RecommendationResponse{{
		FacultyProfileResponse: dto.FacultyProfileResponse{
			UserID:          "f-1",
			User:            &dto.UserBrief{FullName: "Dr. Saima Noor"},
			MaxStudents:     5,
			CurrentStudents: 2,
		},
		MatchScore:      95,
		MatchedKeywords: []string{"ml"},
	}}, nil
}

type fakeAuth struct {
	service.AuthService
	gotUser string
	gotTTL  time.Duration
	gotJTI  string
	err     error
}

func (f *fakeAuth) IssueToken(_ context.Context, userID string, ttl time.Duration) (*dto.TokenResponse, error) {
	f.gotUser, f.gotTTL = userID, ttl
	if f.err != nil {
		return nil, f.err
	}
	return &dto.TokenResponse{
		AccessToken: "eyJ.test.token",
		TokenID:     "jti-1",
		ExpiresAt:   "2026-05-04T10:00:00Z",
		User:        dto.UserResponse{ID: userID, FullName: "Committee Chair", Role: "committee"},
	}, nil
}

func (f *fakeAuth) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	f.gotJTI, f.gotTTL = jti, ttl
	return f.err
}

// ── helpers ──

func newTestRoot(svc *service.Service) (*bytes.Buffer, func(args ...string) error) {
	out := &bytes.Buffer{}
	open := func(context.Context, string) (*env, error) {
		return &env{logger: zap.NewNop(), svc: svc, close: func() {}}, nil
	}
	return out, func(args ...string) error {
		root := newRootCommand(open)
		root.SetOut(out)
		root.SetErr(out)
		root.SetArgs(args)
		return root.Execute()
	}
}

// ── tests ──

func TestPanelsGenerate(t *testing.T) {
	panels := &fakePanels{panels: []dto.PanelResponse{
		{ID: "p-1", Name: "Panel 1", Status: "draft", ProjectIDs: []string{"a", "b"}, EvaluatorIDs: []string{"x"}, OptimizationScore: 80},
	}}
	out, run := newTestRoot(&service.Service{Panel: panels})

	err := run("panels", "generate", "--per-panel", "4", "--evaluators", "2", "--strategy", "expertise")
	require.NoError(t, err)

	c := panels.gotGenerate.Constraints
	assert.Equal(t, 4, c.ProjectsPerPanel)
	assert.Equal(t, 2, c.EvaluatorsPerPanel)
	assert.Equal(t, "expertise", c.Strategy)
	assert.Equal(t, operator, panels.gotCaller)

	assert.Contains(t, out.String(), "Panel 1")
	assert.Contains(t, out.String(), "gen-1")
}

func TestPanelsGenerate_DefaultsLeaveZeroes(t *testing.T) {
	panels := &fakePanels{}
	_, run := newTestRoot(&service.Service{Panel: panels})

	require.NoError(t, run("panels", "generate"))
	assert.Equal(t, dto.PanelConstraintsRequest{}, panels.gotGenerate.Constraints)
}

func TestPanelsGenerate_Error(t *testing.T) {
	_, run := newTestRoot(&service.Service{Panel: &fakePanels{err: service.ErrPanelGenerationBusy}})

	err := run("panels", "generate")
	assert.ErrorIs(t, err, service.ErrPanelGenerationBusy)
}

func TestPanelsList_JSON(t *testing.T) {
	panels := &fakePanels{panels: []dto.PanelResponse{{ID: "p-1", Name: "Panel 1", Status: "scheduled"}}}
	out, run := newTestRoot(&service.Service{Panel: panels})

	require.NoError(t, run("panels", "list", "--status", "scheduled", "-o", "json"))
	assert.Equal(t, "scheduled", panels.gotList.Status)

	var got []dto.PanelResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "p-1", got[0].ID)
}

func TestPanelsList_Empty(t *testing.T) {
	out, run := newTestRoot(&service.Service{Panel: &fakePanels{}})

	require.NoError(t, run("panels", "list"))
	assert.Contains(t, out.String(), "No panels found.")
}

func TestPanelsExport(t *testing.T) {
	dir := t.TempDir()
	_, run := newTestRoot(&service.Service{Export: fakeExport{}})

	xlsx := filepath.Join(dir, "roster.xlsx")
	require.NoError(t, run("panels", "export", "--out", xlsx))
	data, err := os.ReadFile(xlsx)
	require.NoError(t, err)
	assert.Equal(t, "PK-roster", string(data))

	ics := filepath.Join(dir, "panels.ics")
	require.NoError(t, run("panels", "export", "--out", ics))
	data, err = os.ReadFile(ics)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "BEGIN:VCALENDAR"))
}

func TestPanelsExport_RejectsUnknownExtension(t *testing.T) {
	_, run := newTestRoot(&service.Service{Export: fakeExport{}})

	err := run("panels", "export", "--out", filepath.Join(t.TempDir(), "roster.csv"))
	assert.Error(t, err)
}

func TestRecommend(t *testing.T) {
	rec := &fakeRecommend{}
	out, run := newTestRoot(&service.Service{Recommendation: rec})

	require.NoError(t, run("recommend", "--keywords", " ML, vision ,", "--limit", "3"))

	assert.Equal(t, []string{"ML", "vision"}, rec.gotKeywords)
	assert.Equal(t, 3, rec.gotLimit)
	assert.Contains(t, out.String(), "Dr. Saima Noor")
	assert.Contains(t, out.String(), "95")
}

func TestTokenIssue(t *testing.T) {
	auth := &fakeAuth{}
	out, run := newTestRoot(&service.Service{Auth: auth})

	require.NoError(t, run("token", "issue", "--user", "u-1", "--ttl", "12h"))

	assert.Equal(t, "u-1", auth.gotUser)
	assert.Equal(t, 12*time.Hour, auth.gotTTL)
	assert.Contains(t, out.String(), "eyJ.test.token")
	assert.Contains(t, out.String(), "jti-1")
}

func TestTokenIssue_RequiresUser(t *testing.T) {
	_, run := newTestRoot(&service.Service{Auth: &fakeAuth{}})

	assert.Error(t, run("token", "issue"))
}

func TestTokenRevoke(t *testing.T) {
	auth := &fakeAuth{}
	out, run := newTestRoot(&service.Service{Auth: auth})

	require.NoError(t, run("token", "revoke", "--jti", "jti-1", "--ttl", "15m"))
	assert.Equal(t, "jti-1", auth.gotJTI)
	assert.Equal(t, 15*time.Minute, auth.gotTTL)
	assert.Contains(t, out.String(), "revoked jti-1")
}

func TestTokenRevoke_WithoutRedis(t *testing.T) {
	_, run := newTestRoot(&service.Service{Auth: &fakeAuth{err: service.ErrRevocationDisabled}})

	err := run("token", "revoke", "--jti", "jti-1", "--ttl", "15m")
	assert.True(t, errors.Is(err, service.ErrRevocationDisabled))
}

func TestUnknownOutputFormat(t *testing.T) {
	_, run := newTestRoot(&service.Service{Panel: &fakePanels{}})

	assert.Error(t, run("panels", "list", "-o", "yaml"))
}
