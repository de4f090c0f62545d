package lead

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcastcrm/internal/pkg/i18n"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupRouter(t *testing.T) (*gin.Engine, *Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := newLocalOnlyStore(t)
	h := NewHandler(s, i18n.Czech)
	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterRoutes(api)
	h.RegisterAdminRoutes(api.Group("/admin"))
	return r, s
}

func doJSON(r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestContactFormCreatesWebInquiry(t *testing.T) {
	r, s := setupRouter(t)

	w, env := doJSON(r, http.MethodPost, "/api/v1/contact", gin.H{
		"name":    "Jana Nováková",
		"email":   "jana@example.com",
		"phone":   "",
		"message": "Chci spolupráci",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, env.Success)

	leads, err := s.List(t.Context())
	require.NoError(t, err)
	require.Len(t, leads, 1)
	l := leads[0]
	assert.Equal(t, "Jana Nováková", l.Name)
	assert.Equal(t, "jana@example.com", l.Email)
	assert.Equal(t, "Chci spolupráci", l.Interest)
	assert.Equal(t, SourceContactForm, l.Source)
	assert.Equal(t, []string{"Web Inquiry"}, l.Tags)
	assert.Equal(t, StatusNew, l.Status)
}

func TestContactFormValidation(t *testing.T) {
	r, _ := setupRouter(t)

	w, env := doJSON(r, http.MethodPost, "/api/v1/contact", gin.H{
		"name":  "Jana",
		"email": "not-an-email",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestSubmitLeadRejectsManualSource(t *testing.T) {
	r, _ := setupRouter(t)

	w, _ := doJSON(r, http.MethodPost, "/api/v1/leads", gin.H{
		"name":     "Jana",
		"email":    "jana@example.com",
		"interest": "ebook",
		"source":   "manual",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSubmitLeadUnknownSourceIsLocalized(t *testing.T) {
	r, _ := setupRouter(t)

	w, env := doJSON(r, http.MethodPost, "/api/v1/leads", gin.H{
		"name":     "Jana",
		"email":    "jana@example.com",
		"interest": "ebook",
		"source":   "tiktok",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "Některé zadané údaje nejsou platné.", env.Error.Message)
}

func TestAdminLeadLifecycle(t *testing.T) {
	r, _ := setupRouter(t)

	w, env := doJSON(r, http.MethodPost, "/api/v1/admin/leads", gin.H{
		"name":     "Petr",
		"email":    "petr@example.com",
		"interest": "Sponsorship",
		"tags":     []string{"Partner"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created Lead
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, SourceManual, created.Source)

	w, env = doJSON(r, http.MethodPatch, "/api/v1/admin/leads/"+created.ID, gin.H{"status": "contacted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var leads []Lead
	require.NoError(t, json.Unmarshal(env.Data, &leads))
	require.Len(t, leads, 1)
	assert.Equal(t, StatusContacted, leads[0].Status)

	w, _ = doJSON(r, http.MethodPatch, "/api/v1/admin/leads/"+created.ID, gin.H{"status": "lost"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, env = doJSON(r, http.MethodPatch, "/api/v1/admin/leads/"+created.ID, gin.H{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	w, env = doJSON(r, http.MethodGet, "/api/v1/admin/leads/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var st Stats
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.Equal(t, 1, st.Total)

	w, env = doJSON(r, http.MethodDelete, "/api/v1/admin/leads/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &leads))
	assert.Empty(t, leads)
}
