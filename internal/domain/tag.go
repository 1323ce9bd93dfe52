package domain

import (
	"fmt"
	"time"
)

// Tag is a named, colored label applied to documents (many-to-many).
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTag creates a tag. Slug uniqueness is enforced by the store.
func NewTag(id, name, slug, color string) *Tag {
	now := time.Now()
	return &Tag{
		ID:        id,
		Name:      name,
		Slug:      slug,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks invariants before persistence.
func (t *Tag) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tag ID is required")
	}
	if t.Name == "" {
		return fmt.Errorf("tag name is required")
	}
	if t.Slug == "" {
		return fmt.Errorf("tag slug is required")
	}
	return nil
}
