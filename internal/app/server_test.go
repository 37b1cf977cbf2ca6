package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fittrack_backend/internal/app"
	"fittrack_backend/internal/checkin"
	"fittrack_backend/internal/common"
	"fittrack_backend/internal/config"
	"fittrack_backend/internal/identity"
	"fittrack_backend/internal/profile"
	"fittrack_backend/internal/role"
	"fittrack_backend/internal/run"
	"fittrack_backend/internal/stats"
	"fittrack_backend/internal/testsupport"
	"fittrack_backend/internal/workout"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

type tokenVerifier struct{}

// Verify accepts "uid|email" tokens.
func (tokenVerifier) Verify(_ context.Context, token string) (*identity.Claims, error) {
	uid, email, ok := strings.Cut(token, "|")
	if !ok {
		return nil, common.ErrUnauthorized
	}
	return &identity.Claims{UID: uid, Email: email}, nil
}

const hookSecret = "hook-secret"

const (
	admin = "uid-root|" + testsupport.BootstrapAdmin
	ana   = "uid-ana|ana@example.com"
	ben   = "uid-ben|ben@example.com"
)

// ServerTestSuite drives the assembled router against a fresh database per test.
type ServerTestSuite struct {
	suite.Suite
	server *app.Server
}

func (s *ServerTestSuite) SetupTest() {
	env := testsupport.NewEnv(s.T())
	cfg := &config.Config{GinMode: gin.TestMode, ServerHost: "127.0.0.1", ServerPort: "0", CORSAllowedOrigins: []string{"*"}}
	db, engine, log := env.DB, env.Engine, env.Logger

	handlers := app.Handlers{
		Identity: identity.NewHandler(env.Identity, hookSecret, log),
		Profile:  profile.NewHandler(profile.NewService(db, engine, env.Checker, log), log),
		Role:     role.NewHandler(role.NewService(db, engine, env.Checker, log), log),
		Workout:  workout.NewHandler(workout.NewService(db, engine, log), log),
		Run:      run.NewHandler(run.NewService(db, engine, log), log),
		Checkin:  checkin.NewHandler(checkin.NewService(db, engine, log), log),
		Stats:    stats.NewHandler(stats.NewService(db, engine, log), stats.NewSnapshotter(db, 1, log, env.Metrics), log),
	}
	s.server = app.NewServer(cfg, log, db, env.Registry, tokenVerifier{}, env.Identity, env.Checker, handlers, nil)
}

func (s *ServerTestSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(w, req)
	return w
}

func (s *ServerTestSuite) decodeData(w *httptest.ResponseRecorder, dst interface{}) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	s.Require().NoError(json.Unmarshal(envelope.Data, dst))
}

func (s *ServerTestSuite) TestHealthAndMetrics() {
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/health", "", nil).Code)

	s.do(http.MethodGet, "/api/v1/profiles/me", ana, nil)
	w := s.do(http.MethodGet, "/metrics", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "fittrack_provisioning_accounts_total")
}

func (s *ServerTestSuite) TestWorkoutsAreScopedEndToEnd() {
	w := s.do(http.MethodPost, "/api/v1/workouts", ana, workout.CreateWorkoutRequest{Name: "Legs"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created workout.Workout
	s.decodeData(w, &created)
	s.Equal("uid-ana", created.UserID)

	path := "/api/v1/workouts/" + created.ID.String()
	s.Equal(http.StatusOK, s.do(http.MethodGet, path, ana, nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, path, ben, nil).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, path, admin, nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, path, ben, nil).Code)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, path, "", nil).Code)
}

func (s *ServerTestSuite) TestMeReportsAdminFlag() {
	var me profile.ProfileResponse
	s.decodeData(s.do(http.MethodGet, "/api/v1/profiles/me", admin, nil), &me)
	s.True(me.IsAdmin)

	s.decodeData(s.do(http.MethodGet, "/api/v1/profiles/me", ana, nil), &me)
	s.False(me.IsAdmin)
	s.Equal("ana", me.Name)
}

func (s *ServerTestSuite) TestOnlyAdminsGrantRoles() {
	s.do(http.MethodGet, "/api/v1/profiles/me", admin, nil)
	s.do(http.MethodGet, "/api/v1/profiles/me", ben, nil)

	req := role.GrantRequest{UserID: "uid-ana", Role: "admin"}
	s.Equal(http.StatusForbidden, s.do(http.MethodPost, "/api/v1/roles", ana, req).Code)

	req.UserID = "uid-ben"
	w := s.do(http.MethodPost, "/api/v1/roles", admin, req)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var me profile.ProfileResponse
	s.decodeData(s.do(http.MethodGet, "/api/v1/profiles/me", ben, nil), &me)
	s.True(me.IsAdmin)
	s.ElementsMatch([]common.Role{common.RoleAdmin, common.RoleUser}, me.Roles)
}

func (s *ServerTestSuite) TestSnapshotRunIsAdminOnly() {
	s.Equal(http.StatusForbidden, s.do(http.MethodPost, "/api/v1/stats/snapshots", ana, nil).Code)
	w := s.do(http.MethodPost, "/api/v1/stats/snapshots", admin, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var res stats.RunResult
	s.decodeData(w, &res)
	s.Equal(2, res.Profiles)
}

func (s *ServerTestSuite) TestIdentityHookMounted() {
	body, err := json.Marshal(identity.Event{ID: "uid-hook", Email: "hook@example.com"})
	s.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/hooks/identities", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(identity.HookSecretHeader, hookSecret)
	w := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(w, req)
	s.Equal(http.StatusCreated, w.Code)
}

// TestServerTestSuite is the entry point for running the suite.
func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
