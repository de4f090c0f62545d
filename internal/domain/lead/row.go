package lead

import (
	"database/sql/driver"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Tags is the tags column: a Postgres text[] on the remote store, encoded
// in the same array literal form on SQLite.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "{}", nil
	}
	return pq.StringArray(t).Value()
}

func (t *Tags) Scan(src any) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	*t = Tags(arr)
	return nil
}

func (Tags) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// Row is the shape of the remote leads table.
type Row struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;not null;index"`
	Phone     *string   `gorm:"column:phone"`
	Interest  string    `gorm:"column:interest;not null"`
	Source    string    `gorm:"column:source;not null;index"`
	Notes     *string   `gorm:"column:notes"`
	Tags      Tags      `gorm:"column:tags"`
	Status    string    `gorm:"column:status;not null;default:'new';index"`
	UserID    *string   `gorm:"column:user_id"`
	Campaign  *string   `gorm:"column:campaign"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (Row) TableName() string { return "leads" }

func rowFromLead(l *Lead) *Row {
	return &Row{
		ID:        l.ID,
		Name:      l.Name,
		Email:     l.Email,
		Phone:     nullable(l.Phone),
		Interest:  l.Interest,
		Source:    string(l.Source),
		Notes:     nullable(l.Notes),
		Tags:      Tags(append([]string{}, l.Tags...)),
		Status:    string(l.Status),
		UserID:    nullable(l.UserID),
		Campaign:  nullable(l.Campaign),
		CreatedAt: l.Date,
		UpdatedAt: l.LastUpdated,
	}
}

// toLead maps a row onto the canonical shape: null columns become empty
// optionals and null tags an empty list.
func (r *Row) toLead() Lead {
	tags := []string(r.Tags)
	if tags == nil {
		tags = []string{}
	}
	return Lead{
		ID:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		Phone:       deref(r.Phone),
		Interest:    r.Interest,
		Source:      Source(r.Source),
		Notes:       deref(r.Notes),
		Tags:        tags,
		Status:      Status(r.Status),
		UserID:      deref(r.UserID),
		Campaign:    deref(r.Campaign),
		Date:        r.CreatedAt,
		LastUpdated: r.UpdatedAt,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
