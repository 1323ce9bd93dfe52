package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/id"
	"github.com/readwellapp/readwell-server/internal/store"
)

// AnnotationService manages highlights and notes.
type AnnotationService struct {
	store  store.Store
	logger *slog.Logger
}

// NewAnnotationService creates a new annotation service.
func NewAnnotationService(st store.Store, logger *slog.Logger) *AnnotationService {
	return &AnnotationService{store: st, logger: logger}
}

// CreateHighlight captures a text span in a document.
func (s *AnnotationService) CreateHighlight(ctx context.Context, documentID string, typ domain.HighlightType, text string, start, end int, color string) (*domain.Highlight, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.Validationf("highlight text cannot be empty")
	}
	if !domain.ValidHighlightType(typ) {
		return nil, errors.Validationf("unknown highlight type %q", typ)
	}
	if end < start {
		return nil, errors.Validationf("highlight end position before start position")
	}

	hl := domain.NewHighlight(id.MustGenerate("hl"), documentID, typ, text, start, end, color)
	if err := s.store.CreateHighlight(ctx, hl); err != nil {
		return nil, err
	}
	s.logger.Info("created highlight", "highlight_id", hl.ID, "document_id", documentID, "type", typ)
	return hl, nil
}

// GetHighlight returns a highlight by id.
func (s *AnnotationService) GetHighlight(ctx context.Context, highlightID string) (*domain.Highlight, error) {
	return s.store.GetHighlight(ctx, highlightID)
}

// ListHighlights returns all highlights, newest first.
func (s *AnnotationService) ListHighlights(ctx context.Context) ([]*domain.Highlight, error) {
	return s.store.ListHighlights(ctx)
}

// GetDocumentHighlights returns a document's highlights in reading order.
func (s *AnnotationService) GetDocumentHighlights(ctx context.Context, documentID string) ([]*domain.Highlight, error) {
	return s.store.GetDocumentHighlights(ctx, documentID)
}

// DeleteHighlight removes a highlight and the notes attached to it.
func (s *AnnotationService) DeleteHighlight(ctx context.Context, highlightID string) error {
	return s.store.DeleteHighlight(ctx, highlightID)
}

// CreateNote attaches free text to a highlight (highlightID set) or to a
// position in the document (highlightID empty).
func (s *AnnotationService) CreateNote(ctx context.Context, documentID, highlightID, text string, position int) (*domain.Note, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.Validationf("note text cannot be empty")
	}
	if highlightID != "" {
		hl, err := s.store.GetHighlight(ctx, highlightID)
		if err != nil {
			return nil, err
		}
		if hl.DocumentID != documentID {
			return nil, errors.Validationf("highlight %s belongs to a different document", highlightID)
		}
	}

	note := domain.NewNote(id.MustGenerate("note"), documentID, highlightID, text, position)
	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, err
	}
	s.logger.Info("created note", "note_id", note.ID, "document_id", documentID)
	return note, nil
}

// GetNote returns a note by id.
func (s *AnnotationService) GetNote(ctx context.Context, noteID string) (*domain.Note, error) {
	return s.store.GetNote(ctx, noteID)
}

// ListNotes returns all notes, newest first.
func (s *AnnotationService) ListNotes(ctx context.Context) ([]*domain.Note, error) {
	return s.store.ListNotes(ctx)
}

// GetDocumentNotes returns a document's notes in position order.
func (s *AnnotationService) GetDocumentNotes(ctx context.Context, documentID string) ([]*domain.Note, error) {
	return s.store.GetDocumentNotes(ctx, documentID)
}

// DeleteNote removes a note.
func (s *AnnotationService) DeleteNote(ctx context.Context, noteID string) error {
	return s.store.DeleteNote(ctx, noteID)
}
