package lead

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"podcastcrm/internal/database"
)

// LocalKey is the key under which the local store keeps its JSON array.
const LocalKey = "leads"

// KVEntry is one key of the local key/value table.
type KVEntry struct {
	Key       string         `gorm:"column:key;primaryKey"`
	Value     datatypes.JSON `gorm:"column:value"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (KVEntry) TableName() string { return "local_storage" }

// LocalStore keeps every lead as one JSON array under LocalKey. Each
// operation reads and rewrites the whole blob, so concurrent writers from
// other processes follow last-write-wins.
type LocalStore struct {
	db *gorm.DB
	mu sync.Mutex
}

// A nil *LocalStore reports ErrLocalUnavailable from every operation.
func NewLocalStore(db *gorm.DB) *LocalStore {
	return &LocalStore{db: db}
}

func (s *LocalStore) Migrate() error {
	return database.Migrate(s.db, &KVEntry{})
}

func (s *LocalStore) load(ctx context.Context) ([]Lead, error) {
	var entry KVEntry
	err := s.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: LocalKey}).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []Lead{}, nil
	}
	if err != nil {
		return nil, err
	}
	var leads []Lead
	if len(entry.Value) == 0 {
		return []Lead{}, nil
	}
	if err := json.Unmarshal(entry.Value, &leads); err != nil {
		return nil, fmt.Errorf("decode local leads: %w", err)
	}
	for i := range leads {
		if leads[i].Tags == nil {
			leads[i].Tags = []string{}
		}
	}
	return leads, nil
}

func (s *LocalStore) save(ctx context.Context, leads []Lead) error {
	blob, err := json.Marshal(leads)
	if err != nil {
		return fmt.Errorf("encode local leads: %w", err)
	}
	entry := KVEntry{Key: LocalKey, Value: datatypes.JSON(blob), UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Insert appends l to the blob.
func (s *LocalStore) Insert(ctx context.Context, l *Lead) error {
	if s == nil {
		return ErrLocalUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	leads, err := s.load(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, append(leads, *l))
}

// List returns the stored leads, newest first.
func (s *LocalStore) List(ctx context.Context) ([]Lead, error) {
	if s == nil {
		return nil, ErrLocalUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	leads, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(leads)
	return leads, nil
}

// Mutate applies fn to the lead with id and saves the blob. A missing id
// leaves the blob untouched.
func (s *LocalStore) Mutate(ctx context.Context, id string, fn func(*Lead)) error {
	if s == nil {
		return ErrLocalUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	leads, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range leads {
		if leads[i].ID == id {
			fn(&leads[i])
			return s.save(ctx, leads)
		}
	}
	return nil
}

// Delete drops the lead with id. A missing id leaves the blob untouched.
func (s *LocalStore) Delete(ctx context.Context, id string) error {
	if s == nil {
		return ErrLocalUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	leads, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := leads[:0]
	for _, l := range leads {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(leads) {
		return nil
	}
	return s.save(ctx, kept)
}

func sortNewestFirst(leads []Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].Date.After(leads[j].Date)
	})
}
