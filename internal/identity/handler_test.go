package identity_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fittrack_backend/internal/common"
	"fittrack_backend/internal/identity"
	"fittrack_backend/internal/testsupport"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hookSecret = "s3cret"

func newRouter(t *testing.T, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := testsupport.NewEnv(t)
	r := gin.New()
	identity.NewHandler(env.Identity, secret, env.Logger).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postEvent(r http.Handler, secret string, body interface{}) *httptest.ResponseRecorder {
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/hooks/identities", bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(identity.HookSecretHeader, secret)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHookProvisionsIdentity(t *testing.T) {
	r := newRouter(t, hookSecret)

	w := postEvent(r, hookSecret, identity.Event{ID: "uid-1", Email: testsupport.BootstrapAdmin})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data identity.ProvisionedResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "uid-1", resp.Data.ID)
	assert.Equal(t, "master", resp.Data.Name)
	assert.Equal(t, []common.Role{common.RoleAdmin}, resp.Data.Roles)
}

func TestHookErrors(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		body   interface{}
		code   string
		status int
	}{
		{"missing secret", "", identity.Event{ID: "uid-1", Email: "ana@example.com"}, "UNAUTHORIZED", http.StatusUnauthorized},
		{"wrong secret", "guess", identity.Event{ID: "uid-1", Email: "ana@example.com"}, "UNAUTHORIZED", http.StatusUnauthorized},
		{"missing email", hookSecret, map[string]string{"id": "uid-1"}, "VALIDATION_ERROR", http.StatusUnprocessableEntity},
		{"rejected email", hookSecret, identity.Event{ID: "uid-1", Email: "not-an-email"}, "VALIDATION_ERROR", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(t, hookSecret)
			w := postEvent(r, tt.secret, tt.body)
			assert.Equal(t, tt.status, w.Code)

			var apiErr common.APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestHookDuplicateIsConflict(t *testing.T) {
	r := newRouter(t, hookSecret)

	require.Equal(t, http.StatusCreated, postEvent(r, hookSecret, identity.Event{ID: "uid-1", Email: "ana@example.com"}).Code)
	w := postEvent(r, hookSecret, identity.Event{ID: "uid-2", Email: "ana@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHookDisabledWithoutSecret(t *testing.T) {
	r := newRouter(t, "")

	w := postEvent(r, "", identity.Event{ID: "uid-1", Email: "ana@example.com"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
