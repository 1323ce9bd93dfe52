// Package domain contains the core business entities and domain logic for the ReadWell document library.
package domain

import (
	"fmt"
	"time"
)

// DocumentFormat identifies the source file format of an imported document.
type DocumentFormat string

// Supported document formats. Unrecognized extensions import as FormatText.
const (
	FormatPDF  DocumentFormat = "pdf"
	FormatEPUB DocumentFormat = "epub"
	FormatText DocumentFormat = "txt"
	FormatDOCX DocumentFormat = "docx"
)

// ParseFormat maps a file extension (without dot, any case) to a format.
// Unknown extensions map to FormatText so imports never hard-reject a file.
func ParseFormat(ext string) DocumentFormat {
	switch ext {
	case "pdf", "PDF":
		return FormatPDF
	case "epub", "EPUB":
		return FormatEPUB
	case "docx", "DOCX":
		return FormatDOCX
	default:
		return FormatText
	}
}

// DocumentStatus tracks reading lifecycle.
// Transitions are monotonic: unread -> reading -> finished.
type DocumentStatus string

// Document reading statuses.
const (
	StatusUnread   DocumentStatus = "unread"
	StatusReading  DocumentStatus = "reading"
	StatusFinished DocumentStatus = "finished"
)

// statusRank orders statuses for transition checks.
func statusRank(s DocumentStatus) int {
	switch s {
	case StatusUnread:
		return 0
	case StatusReading:
		return 1
	case StatusFinished:
		return 2
	default:
		return -1
	}
}

// ValidStatus reports whether s is a known document status.
func ValidStatus(s DocumentStatus) bool {
	return statusRank(s) >= 0
}

// CanTransition reports whether a status change from -> to is allowed.
// Only forward transitions are permitted here; re-reading resets happen
// through an explicit external reset, not through this check.
func CanTransition(from, to DocumentStatus) bool {
	fr, tr := statusRank(from), statusRank(to)
	if fr < 0 || tr < 0 {
		return false
	}
	return tr >= fr
}

// Document is the root aggregate of the library. All annotation and
// activity entities reference it by ID and cannot outlive it.
type Document struct {
	ID                   string         `json:"id"`
	Title                string         `json:"title"`
	StoragePath          string         `json:"storage_path"`
	Format               DocumentFormat `json:"format"`
	Status               DocumentStatus `json:"status"`
	Author               string         `json:"author,omitempty"`
	Description          string         `json:"description,omitempty"`
	Language             string         `json:"language,omitempty"`
	Publisher            string         `json:"publisher,omitempty"`
	PublishDate          string         `json:"publish_date,omitempty"`
	PageCount            int            `json:"page_count"`
	WordCount            int            `json:"word_count"`
	EstimatedReadingTime int            `json:"estimated_reading_time"` // minutes
	Favorite             bool           `json:"favorite"`
	CoverImagePath       string         `json:"cover_image_path,omitempty"`
	ExtractedText        string         `json:"extracted_text,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	LastOpenedAt         *time.Time     `json:"last_opened_at,omitempty"`
}

// NewDocument creates a freshly imported document with status unread.
func NewDocument(id, title, storagePath string, format DocumentFormat) *Document {
	now := time.Now()
	return &Document{
		ID:          id,
		Title:       title,
		StoragePath: storagePath,
		Format:      format,
		Status:      StatusUnread,
		PageCount:   1, // every document has at least one page
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate checks invariants before persistence.
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("document ID is required")
	}
	if d.Title == "" {
		return fmt.Errorf("document title is required")
	}
	if d.StoragePath == "" {
		return fmt.Errorf("document storage path is required")
	}
	if !ValidStatus(d.Status) {
		return fmt.Errorf("invalid document status: %s", d.Status)
	}
	if d.WordCount < 0 {
		return fmt.Errorf("word count cannot be negative")
	}
	if d.PageCount < 1 {
		return fmt.Errorf("page count must be at least 1")
	}
	return nil
}

// DocumentUpdate is a sparse field set for partial document updates.
// Nil fields are left untouched (merge semantics); an all-nil update
// is a silent no-op at the store layer.
type DocumentUpdate struct {
	Title          *string         `json:"title,omitempty"`
	Status         *DocumentStatus `json:"status,omitempty"`
	Favorite       *bool           `json:"favorite,omitempty"`
	Author         *string         `json:"author,omitempty"`
	Description    *string         `json:"description,omitempty"`
	CoverImagePath *string         `json:"cover_image_path,omitempty"`
	LastOpenedAt   *time.Time      `json:"last_opened_at,omitempty"`
}

// Empty reports whether the update carries no fields.
func (u DocumentUpdate) Empty() bool {
	return u.Title == nil && u.Status == nil && u.Favorite == nil &&
		u.Author == nil && u.Description == nil &&
		u.CoverImagePath == nil && u.LastOpenedAt == nil
}
