package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"podcastcrm/internal/database"
)

func openMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := database.OpenLocal(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestSeedEpisodesHaveSlugIDs(t *testing.T) {
	episodes, err := SeedEpisodes()
	require.NoError(t, err)
	require.NotEmpty(t, episodes)

	ids := map[string]bool{}
	for _, e := range episodes {
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, strings.ToLower(e.ID), e.ID)
		assert.NotContains(t, e.ID, " ")
		assert.False(t, ids[e.ID], "duplicate id %s", e.ID)
		ids[e.ID] = true
	}
	assert.True(t, ids["jak-zacit-s-mentoringem"])

	for i := 1; i < len(episodes); i++ {
		assert.False(t, episodes[i].PublishedAt.After(episodes[i-1].PublishedAt))
	}
}

func TestServiceWithoutRepositoryServesSeed(t *testing.T) {
	s, err := NewService(context.Background(), nil, nil)
	require.NoError(t, err)

	seed, _ := SeedEpisodes()
	assert.Equal(t, seed, s.Episodes())

	_, ok := s.Find("no-such-episode")
	assert.False(t, ok)
}

func TestServiceEmptyTableKeepsSeed(t *testing.T) {
	repo := NewRepository(openMemoryDB(t))
	require.NoError(t, repo.Migrate())

	s, err := NewService(context.Background(), repo, nil)
	require.NoError(t, err)

	seed, _ := SeedEpisodes()
	assert.Len(t, s.Episodes(), len(seed))
}

func TestServiceRefreshReadsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(openMemoryDB(t))
	require.NoError(t, repo.Migrate())

	s, err := NewService(ctx, repo, nil)
	require.NoError(t, err)

	require.NoError(t, repo.Upsert(ctx, []Episode{
		{Title: "Nová epizoda", Description: "Novinky", PublishedAt: time.Date(2025, 1, 6, 6, 0, 0, 0, time.UTC)},
		{ID: "custom-id", Title: "Starší", PublishedAt: time.Date(2024, 12, 1, 6, 0, 0, 0, time.UTC)},
	}))
	s.Refresh(ctx)

	episodes := s.Episodes()
	require.Len(t, episodes, 2)
	assert.Equal(t, "nova-epizoda", episodes[0].ID)
	assert.Equal(t, "custom-id", episodes[1].ID)

	e, ok := s.Find("custom-id")
	require.True(t, ok)
	assert.Equal(t, "Starší", e.Title)
}

func TestServiceRefreshFailureKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)
	repo := NewRepository(db)
	require.NoError(t, repo.Migrate())
	require.NoError(t, repo.Upsert(ctx, []Episode{{Title: "Jediná", PublishedAt: time.Now()}}))

	s, err := NewService(ctx, repo, nil)
	require.NoError(t, err)
	require.Len(t, s.Episodes(), 1)

	sqlDB, _ := db.DB()
	require.NoError(t, sqlDB.Close())
	s.Refresh(ctx)

	assert.Len(t, s.Episodes(), 1)
}

func TestRegisterRefreshRejectsBadSpec(t *testing.T) {
	s, err := NewService(context.Background(), nil, nil)
	require.NoError(t, err)

	c := cron.New()
	assert.NoError(t, s.RegisterRefresh(c, "@every 15m"))
	assert.Error(t, s.RegisterRefresh(c, "bogus schedule"))
}

func TestEpisodeRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, err := NewService(context.Background(), nil, nil)
	require.NoError(t, err)

	r := gin.New()
	NewHandler(s).RegisterRoutes(r.Group("/api/v1"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/episodes", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []Episode `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, len(s.Episodes()))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/episodes/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/episodes/youtube-od-nuly", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
