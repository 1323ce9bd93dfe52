package domain

import (
	"fmt"
	"time"
)

// HighlightType classifies a captured text span.
type HighlightType string

// Highlight types.
const (
	HighlightIdea       HighlightType = "idea"
	HighlightDefinition HighlightType = "definition"
	HighlightQuote      HighlightType = "quote"
)

// ValidHighlightType reports whether t is a known highlight type.
func ValidHighlightType(t HighlightType) bool {
	switch t {
	case HighlightIdea, HighlightDefinition, HighlightQuote:
		return true
	}
	return false
}

// Highlight is a captured text span within a document.
// Owned by a Document; deleting the document cascades.
type Highlight struct {
	ID            string        `json:"id"`
	DocumentID    string        `json:"document_id"`
	Type          HighlightType `json:"type"`
	Text          string        `json:"text"`
	StartPosition int           `json:"start_position"`
	EndPosition   int           `json:"end_position"`
	Color         string        `json:"color,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// NewHighlight creates a highlight for a document.
func NewHighlight(id, documentID string, typ HighlightType, text string, start, end int, color string) *Highlight {
	return &Highlight{
		ID:            id,
		DocumentID:    documentID,
		Type:          typ,
		Text:          text,
		StartPosition: start,
		EndPosition:   end,
		Color:         color,
		CreatedAt:     time.Now(),
	}
}

// Validate checks invariants before persistence.
func (h *Highlight) Validate() error {
	if h.ID == "" {
		return fmt.Errorf("highlight ID is required")
	}
	if h.DocumentID == "" {
		return fmt.Errorf("highlight document ID is required")
	}
	if !ValidHighlightType(h.Type) {
		return fmt.Errorf("invalid highlight type: %s", h.Type)
	}
	if h.Text == "" {
		return fmt.Errorf("highlight text is required")
	}
	return nil
}

// Note is free text attached either to a Highlight (HighlightID set)
// or directly to a position in a Document (HighlightID empty).
// Cascades on document delete; on highlight delete when attached.
type Note struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	HighlightID string    `json:"highlight_id,omitempty"`
	Text        string    `json:"text"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewNote creates a note. highlightID may be empty for a standalone note.
func NewNote(id, documentID, highlightID, text string, position int) *Note {
	now := time.Now()
	return &Note{
		ID:          id,
		DocumentID:  documentID,
		HighlightID: highlightID,
		Text:        text,
		Position:    position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate checks invariants before persistence.
func (n *Note) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("note ID is required")
	}
	if n.DocumentID == "" {
		return fmt.Errorf("note document ID is required")
	}
	if n.Text == "" {
		return fmt.Errorf("note text is required")
	}
	return nil
}
