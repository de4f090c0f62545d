package catalog

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"podcastcrm/internal/pkg/logger"
)

// Service serves an in-memory snapshot of the catalog. The snapshot comes
// from the repository when it has rows and from the built-in seed
// otherwise.
type Service struct {
	repo *Repository
	log  *zap.Logger

	mu       sync.RWMutex
	episodes []Episode
	byID     map[string]Episode
}

// NewService loads the initial snapshot. repo may be nil.
func NewService(ctx context.Context, repo *Repository, log *zap.Logger) (*Service, error) {
	s := &Service{repo: repo, log: logger.OrNop(log).Named("catalog")}
	seed, err := SeedEpisodes()
	if err != nil {
		return nil, err
	}
	s.swap(seed)
	s.Refresh(ctx)
	return s, nil
}

// Refresh reloads the snapshot from the repository. A failed read keeps
// the previous snapshot.
func (s *Service) Refresh(ctx context.Context) {
	if s.repo == nil {
		return
	}
	episodes, err := s.repo.List(ctx)
	if err != nil {
		s.log.Warn("catalog refresh failed, keeping previous snapshot", zap.Error(err))
		return
	}
	if len(episodes) == 0 {
		return
	}
	for i := range episodes {
		episodes[i].EnsureID()
	}
	s.swap(episodes)
	s.log.Debug("catalog refreshed", zap.Int("episodes", len(episodes)))
}

func (s *Service) swap(episodes []Episode) {
	byID := make(map[string]Episode, len(episodes))
	for _, e := range episodes {
		byID[e.ID] = e
	}
	s.mu.Lock()
	s.episodes = episodes
	s.byID = byID
	s.mu.Unlock()
}

// Episodes returns a copy of the snapshot.
func (s *Service) Episodes() []Episode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Episode, len(s.episodes))
	copy(out, s.episodes)
	return out
}

// Find looks an episode up by id.
func (s *Service) Find(id string) (Episode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	return e, ok
}

// RegisterRefresh schedules Refresh on c.
func (s *Service) RegisterRefresh(c *cron.Cron, spec string) error {
	_, err := c.AddFunc(spec, func() {
		s.Refresh(context.Background())
	})
	return err
}
