package catalog

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"podcastcrm/internal/database"
)

// Repository reads the episodes table written by the feed sync job.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Migrate() error {
	return database.Migrate(r.db, &Episode{})
}

func (r *Repository) List(ctx context.Context) ([]Episode, error) {
	var episodes []Episode
	err := r.db.WithContext(ctx).Order("published_at DESC").Find(&episodes).Error
	return episodes, err
}

// Upsert inserts or refreshes episodes by id.
func (r *Repository) Upsert(ctx context.Context, episodes []Episode) error {
	if len(episodes) == 0 {
		return nil
	}
	for i := range episodes {
		episodes[i].EnsureID()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "audio_url", "published_at"}),
	}).Create(&episodes).Error
}
