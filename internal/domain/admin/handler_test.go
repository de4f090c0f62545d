package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcastcrm/internal/middleware"
	"podcastcrm/internal/pkg/jwt"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens := jwt.New("test-secret", time.Hour)
	h := NewHandler(newService(t, tokens))

	r := gin.New()
	v1 := r.Group("/api/v1")
	h.RegisterRoutes(v1)
	protected := v1.Group("/admin", middleware.JWTAuth(tokens), middleware.AdminOnly())
	h.RegisterProtectedRoutes(protected)
	return r
}

func post(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginThenMe(t *testing.T) {
	r := setupRouter(t)

	w := post(r, "/api/v1/admin/auth/login", gin.H{"email": "admin@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env struct {
		Data LoginResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotEmpty(t, env.Data.AccessToken)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+env.Data.AccessToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestLoginFailures(t *testing.T) {
	r := setupRouter(t)

	w := post(r, "/api/v1/admin/auth/login", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(r, "/api/v1/admin/auth/login", gin.H{"email": "admin@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_FAILED")
}
