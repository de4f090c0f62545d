package catalog

import (
	"time"

	"github.com/gosimple/slug"
)

// Episode is one podcast episode the assistant can recommend.
type Episode struct {
	ID          string    `json:"id" gorm:"column:id;primaryKey"`
	Title       string    `json:"title" gorm:"column:title;not null"`
	Description string    `json:"description" gorm:"column:description"`
	AudioURL    string    `json:"audioUrl,omitempty" gorm:"column:audio_url"`
	PublishedAt time.Time `json:"publishedAt" gorm:"column:published_at;index"`
}

func (Episode) TableName() string { return "episodes" }

// EnsureID derives the id from the title when it is empty.
func (e *Episode) EnsureID() {
	if e.ID == "" {
		e.ID = slug.Make(e.Title)
	}
}
