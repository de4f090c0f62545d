package widget

import (
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcastcrm/internal/pkg/i18n"
)

func TestRegistrySweepsIdleWidgets(t *testing.T) {
	r := NewRegistry(newDeps(t, &scriptedStarter{}, failingLeads{}))
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	stale := r.Create(i18n.Czech)
	var expired []string
	stale.Subscribe(func(e Event) { expired = append(expired, e.Type) })

	now = now.Add(90 * time.Minute)
	fresh := r.Create(i18n.English)

	now = now.Add(40 * time.Minute)
	removed := r.Sweep(2 * time.Hour)

	assert.Equal(t, 1, removed)
	_, ok := r.Get(stale.ID())
	assert.False(t, ok)
	_, ok = r.Get(fresh.ID())
	assert.True(t, ok)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, []string{EventExpired}, expired)
}

func TestRegistryCreateNormalizesLanguage(t *testing.T) {
	r := NewRegistry(newDeps(t, &scriptedStarter{}, failingLeads{}))

	assert.Equal(t, i18n.Czech, r.Create("cs").Language())
	assert.Equal(t, i18n.English, r.Create("fr-FR").Language())
	assert.NotEqual(t, r.Create("cs").ID(), r.Create("cs").ID())
}

func TestRegisterSweep(t *testing.T) {
	r := NewRegistry(newDeps(t, &scriptedStarter{}, failingLeads{}))
	c := cron.New()
	require.NoError(t, r.RegisterSweep(c, "@every 5m", time.Hour))
	assert.Len(t, c.Entries(), 1)
	assert.Error(t, r.RegisterSweep(c, "bogus", time.Hour))
}
