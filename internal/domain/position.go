package domain

import "time"

// ReadingPosition is the single progress marker for a document.
// Exactly one row per document; writes are upserts keyed by DocumentID.
type ReadingPosition struct {
	DocumentID string    `json:"document_id"`
	Page       int       `json:"page"`
	Offset     int       `json:"offset"`
	Progress   float64   `json:"progress"` // 0-100, clamped
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewReadingPosition creates a position marker with progress clamped to 0-100.
func NewReadingPosition(documentID string, page, offset int, progress float64) *ReadingPosition {
	return &ReadingPosition{
		DocumentID: documentID,
		Page:       page,
		Offset:     offset,
		Progress:   ClampProgress(progress),
		UpdatedAt:  time.Now(),
	}
}

// ClampProgress bounds a progress percentage to the 0-100 range.
func ClampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
