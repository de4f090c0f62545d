package widget

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"podcastcrm/internal/pkg/logger"
)

// Registry keeps the live widgets of all visitors. A page load creates a
// new widget; idle ones are swept.
type Registry struct {
	deps  Deps
	log   *zap.Logger
	now   func() time.Time
	newID func() string

	mu      sync.RWMutex
	widgets map[string]*Controller
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:    deps,
		log:     logger.OrNop(deps.Log).Named("widget.registry"),
		now:     time.Now,
		newID:   uuid.NewString,
		widgets: make(map[string]*Controller),
	}
}

// Create registers a fresh closed widget.
func (r *Registry) Create(language string) *Controller {
	c := NewController(r.newID(), language, r.deps)
	c.now = r.now
	c.lastActive = r.now()
	r.mu.Lock()
	r.widgets[c.ID()] = c
	r.mu.Unlock()
	return c
}

func (r *Registry) Get(id string) (*Controller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.widgets[id]
	return c, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.widgets)
}

// Sweep drops widgets idle for longer than ttl. Widgets waiting on the
// assistant are kept. It returns the number removed.
func (r *Registry) Sweep(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)
	var expired []*Controller

	r.mu.Lock()
	for id, c := range r.widgets {
		if c.LastActive().Before(cutoff) && !c.busy() {
			delete(r.widgets, id)
			expired = append(expired, c)
		}
	}
	r.mu.Unlock()

	for _, c := range expired {
		c.emit(Event{Type: EventExpired})
	}
	if len(expired) > 0 {
		r.log.Info("swept idle widgets", zap.Int("removed", len(expired)), zap.Int("remaining", r.Len()))
	}
	return len(expired)
}

// RegisterSweep schedules Sweep on c.
func (r *Registry) RegisterSweep(c *cron.Cron, spec string, ttl time.Duration) error {
	_, err := c.AddFunc(spec, func() {
		r.Sweep(ttl)
	})
	return err
}
