// Package backup exports the full library as a versioned JSON envelope
// and restores it. Restores are idempotent: documents that already exist
// are skipped together with their annotations.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/store"
)

// FormatVersion is the backup envelope version. Increment on breaking changes.
const FormatVersion = "1.0"

// Envelope is the on-disk backup format.
type Envelope struct {
	Version    string              `json:"version"`
	ExportID   string              `json:"exportId"`
	ExportedAt time.Time           `json:"exportedAt"`
	Documents  []*domain.Document  `json:"documents"`
	Highlights []*domain.Highlight `json:"highlights"`
	Notes      []*domain.Note      `json:"notes"`
}

// Service creates and restores library backups.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

// New creates a backup service.
func New(st store.Store, logger *slog.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// Export serializes every document with its highlights and notes.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	highlights, err := s.store.ListHighlights(ctx)
	if err != nil {
		return nil, fmt.Errorf("list highlights: %w", err)
	}
	notes, err := s.store.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	env := &Envelope{
		Version:    FormatVersion,
		ExportID:   uuid.NewString(),
		ExportedAt: time.Now().UTC(),
		Documents:  docs,
		Highlights: highlights,
		Notes:      notes,
	}

	s.logger.Info("exported library backup",
		"export_id", env.ExportID,
		"documents", len(docs),
		"highlights", len(highlights),
		"notes", len(notes),
	)
	return json.MarshalIndent(env, "", "  ")
}

// ImportResult summarizes a restore.
type ImportResult struct {
	DocumentsRestored  int `json:"documents_restored"`
	DocumentsSkipped   int `json:"documents_skipped"`
	HighlightsRestored int `json:"highlights_restored"`
	NotesRestored      int `json:"notes_restored"`
}

// Import restores an envelope. Documents whose id already exists are
// skipped along with their highlights and notes, so reimporting a backup
// into the library it came from changes nothing.
func (s *Service) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse backup envelope: %w", err)
	}
	if env.Version == "" {
		return nil, fmt.Errorf("backup envelope missing version")
	}
	if major(env.Version) != major(FormatVersion) {
		return nil, fmt.Errorf("unsupported backup version %s", env.Version)
	}

	result := &ImportResult{}
	restored := make(map[string]bool)

	for _, doc := range env.Documents {
		_, err := s.store.GetDocument(ctx, doc.ID)
		if err == nil {
			result.DocumentsSkipped++
			continue
		}
		if !store.IsNotFound(err) {
			return nil, fmt.Errorf("check document %s: %w", doc.ID, err)
		}
		if err := s.store.CreateDocument(ctx, doc); err != nil {
			return nil, fmt.Errorf("restore document %s: %w", doc.ID, err)
		}
		restored[doc.ID] = true
		result.DocumentsRestored++
	}

	for _, hl := range env.Highlights {
		if !restored[hl.DocumentID] {
			continue
		}
		if err := s.store.CreateHighlight(ctx, hl); err != nil {
			return nil, fmt.Errorf("restore highlight %s: %w", hl.ID, err)
		}
		result.HighlightsRestored++
	}

	for _, note := range env.Notes {
		if !restored[note.DocumentID] {
			continue
		}
		if err := s.store.CreateNote(ctx, note); err != nil {
			return nil, fmt.Errorf("restore note %s: %w", note.ID, err)
		}
		result.NotesRestored++
	}

	s.logger.Info("imported library backup",
		"export_id", env.ExportID,
		"documents_restored", result.DocumentsRestored,
		"documents_skipped", result.DocumentsSkipped,
	)
	return result, nil
}

// major returns the part of a version before the first dot.
func major(version string) string {
	for i := 0; i < len(version); i++ {
		if version[i] == '.' {
			return version[:i]
		}
	}
	return version
}
