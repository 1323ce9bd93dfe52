package domain

import (
	"fmt"
	"time"
)

// Collection is a named, optionally nested grouping of documents,
// independent of tags. Membership lives in a join table.
type Collection struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCollection creates a collection. parentID may be empty for a root collection.
func NewCollection(id, name, parentID string) *Collection {
	now := time.Now()
	return &Collection{
		ID:        id,
		Name:      name,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks invariants before persistence.
func (c *Collection) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("collection ID is required")
	}
	if c.Name == "" {
		return fmt.Errorf("collection name is required")
	}
	if c.ParentID == c.ID {
		return fmt.Errorf("collection cannot be its own parent")
	}
	return nil
}
