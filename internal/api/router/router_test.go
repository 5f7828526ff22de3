package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fyp-portal/config"
	"fyp-portal/internal/api/handler"
	"fyp-portal/internal/service"
	"fyp-portal/pkg/jwt"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, MaxBodyBytes: 1 << 20},
		Auth:   config.AuthConfig{JWTSecret: "router-test-secret-0123456789", Issuer: "fyp-portal", AccessTokenTTL: time.Minute},
	}
}

func setup(t *testing.T) (*jwt.Manager, http.Handler) {
	t.Helper()
	cfg := testConfig()
	mgr := jwt.NewManager(&cfg.Auth)
	h := handler.NewHandler(&service.Service{}, nil)
	r, err := Setup(cfg, h, mgr, nil, zap.NewNop())
	require.NoError(t, err)
	return mgr, r
}

func TestSetup_Routes(t *testing.T) {
	cfg := testConfig()
	r, err := Setup(cfg, handler.NewHandler(&service.Service{}, nil), jwt.NewManager(&cfg.Auth), nil, zap.NewNop())
	require.NoError(t, err)

	registered := map[string]bool{}
	for _, ri := range r.Routes() {
		registered[ri.Method+" "+ri.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"POST /api/v1/projects",
		"GET /api/v1/recommendations",
		"POST /api/v1/panels/generate",
		"GET /api/v1/panels/export.xlsx",
		"GET /api/v1/panels/calendar.ics",
		"POST /api/v1/panels/:id/schedule",
		"GET /api/v1/analytics/overview",
		"PUT /api/v1/supervisor-requests/:id/respond",
		"PUT /api/v1/notifications/read-all",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestSetup_HealthIsPublic(t *testing.T) {
	_, r := setup(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestSetup_APIRequiresToken(t *testing.T) {
	_, r := setup(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSetup_RoleGates(t *testing.T) {
	mgr, r := setup(t)

	tests := []struct {
		name   string
		role   string
		method string
		path   string
	}{
		{"student cannot generate panels", "student", http.MethodPost, "/api/v1/panels/generate"},
		{"faculty cannot read analytics", "faculty", http.MethodGet, "/api/v1/analytics/overview"},
		{"committee cannot submit projects", "committee", http.MethodPost, "/api/v1/projects"},
		{"student cannot respond to requests", "student", http.MethodPut, "/api/v1/supervisor-requests/x/respond"},
		{"faculty cannot list users", "faculty", http.MethodGet, "/api/v1/users"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := mgr.GenerateAccessToken("u-1", tt.role, "", 0)
			require.NoError(t, err)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusForbidden, w.Code)
		})
	}
}
