package lead

import (
	"context"
	"time"

	"gorm.io/gorm"

	"podcastcrm/internal/database"
)

// Repository talks to the remote leads table.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the leads table when it is missing.
func (r *Repository) Migrate() error {
	return database.Migrate(r.db, &Row{})
}

// Insert writes one lead; it never upserts.
func (r *Repository) Insert(ctx context.Context, l *Lead) error {
	return r.db.WithContext(ctx).Create(rowFromLead(l)).Error
}

// List returns all leads, newest first.
func (r *Repository) List(ctx context.Context) ([]Lead, error) {
	var rows []Row
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	leads := make([]Lead, 0, len(rows))
	for i := range rows {
		leads = append(leads, rows[i].toLead())
	}
	return leads, nil
}

// Update applies patch to the lead with id. A missing id updates nothing.
func (r *Repository) Update(ctx context.Context, id string, patch Patch, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Row{}).
		Where("id = ?", id).
		Updates(patchColumns(patch, now)).Error
}

// LinkUser attaches an authenticated user and marks the lead converted.
func (r *Repository) LinkUser(ctx context.Context, id, userID string, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Row{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"user_id":    userID,
			"status":     string(StatusConverted),
			"updated_at": now,
		}).Error
}

// Delete removes the lead with id. A missing id is not an error.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Row{}).Error
}

func patchColumns(p Patch, now time.Time) map[string]any {
	cols := map[string]any{"updated_at": now}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.Phone != nil {
		cols["phone"] = nullable(*p.Phone)
	}
	if p.Interest != nil {
		cols["interest"] = *p.Interest
	}
	if p.Notes != nil {
		cols["notes"] = nullable(*p.Notes)
	}
	if p.Campaign != nil {
		cols["campaign"] = nullable(*p.Campaign)
	}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.Tags != nil {
		cols["tags"] = Tags(append([]string{}, (*p.Tags)...))
	}
	return cols
}
