package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-user-prefs/internal/logger"
	"github.com/MKhiriev/go-user-prefs/internal/service"
	"github.com/stretchr/testify/assert"
)

// ---- Helper ----

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	h := &Handler{
		logger: logger.Nop(),
		services: &service.Services{
			AuthService:        &mockAuthService{},
			AppInfoService:     &mockAppInfoService{version: "test-version"},
			PreferencesService: &mockPreferencesService{},
		},
	}
	return h.Init()
}

func validAuthHeader() string { return "Bearer stub-token" }

// ---- Public routes: reachable without auth ----

func TestInit_PublicRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/v1/register", `{"username":"a","email":"a@b.c","password":"p"}`},
		{http.MethodPost, "/api/v1/token", `{"username":"a","password":"p"}`},
		{http.MethodPost, "/api/v1/token/refresh", `{"refresh":"r"}`},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.NotEqual(t, http.StatusNotFound, rr.Code,
				"route should be registered: %s %s", tt.method, tt.path)
			assert.NotEqual(t, http.StatusUnauthorized, rr.Code,
				"public route must not require auth: %s %s", tt.method, tt.path)
		})
	}
}

// ---- Protected routes: 401 without token ----

func TestInit_ProtectedRoutes_RequireAuth(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/preferences/"},
		{http.MethodGet, "/api/v1/preferences/my_preferences"},
		{http.MethodPut, "/api/v1/preferences/my_preferences"},
		{http.MethodPatch, "/api/v1/preferences/my_preferences"},
		{http.MethodDelete, "/api/v1/preferences/my_preferences"},
		{http.MethodGet, "/api/v1/preferences/account"},
		{http.MethodPut, "/api/v1/account/password"},
		{http.MethodGet, "/api/v1/version"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code,
				"protected route must require auth: %s %s", tt.method, tt.path)
		})
	}
}

// ---- Protected routes: reachable with a valid token ----

func TestInit_ProtectedRoutes_PassWithToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/preferences/my_preferences", nil)
	req.Header.Set("Authorization", validAuthHeader())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

// ---- my_preferences wins over the {section} wildcard ----

func TestInit_MyPreferencesNotTreatedAsSection(t *testing.T) {
	sectionCalled := false
	h := &Handler{
		logger: logger.Nop(),
		services: &service.Services{
			AuthService: &mockAuthService{},
			PreferencesService: &mockPreferencesService{
				getSectionFn: func(_ context.Context, _ int64, _ string) (any, error) {
					sectionCalled = true
					return nil, nil
				},
			},
		},
	}
	router := h.Init()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/preferences/my_preferences", nil)
	req.Header.Set("Authorization", validAuthHeader())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, sectionCalled, "my_preferences must route to the document handler, not the section handler")
}

// ---- Wrong method on a known path → 404, not 405 ----

func TestInit_WrongMethodOnKnownPath(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/register", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// ---- Trace ID header is set on every response ----

func TestInit_TraceIDHeaderSet(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/token", strings.NewReader(`{"username":"a","password":"p"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.NotEmpty(t, rr.Header().Get(traceIDHeader))
}
