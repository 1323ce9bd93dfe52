// Package service holds the business logic layer between the HTTP API
// and the store. Services validate input, generate ids, and decide which
// failures are fatal; the store stays a dumb persistence layer.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/parser"
	"github.com/readwellapp/readwell-server/internal/store"
)

// DocumentService manages the document library.
type DocumentService struct {
	store  store.Store
	parser *parser.Parser
	logger *slog.Logger
}

// NewDocumentService creates a new document service.
func NewDocumentService(st store.Store, p *parser.Parser, logger *slog.Logger) *DocumentService {
	return &DocumentService{
		store:  st,
		parser: p,
		logger: logger,
	}
}

// GetDocument returns a single document by id.
func (s *DocumentService) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	return s.store.GetDocument(ctx, id)
}

// ListDocuments returns all documents, optionally filtered by status.
func (s *DocumentService) ListDocuments(ctx context.Context, status domain.DocumentStatus) ([]*domain.Document, error) {
	if status == "" {
		return s.store.ListDocuments(ctx)
	}
	if !domain.ValidStatus(status) {
		return nil, errors.Validationf("unknown document status %q", status)
	}
	return s.store.ListDocumentsByStatus(ctx, status)
}

// UpdateDocument applies a partial update. Status changes must follow the
// unread -> reading -> finished progression.
func (s *DocumentService) UpdateDocument(ctx context.Context, id string, update domain.DocumentUpdate) (*domain.Document, error) {
	if update.Status != nil {
		doc, err := s.store.GetDocument(ctx, id)
		if err != nil {
			return nil, err
		}
		if !domain.ValidStatus(*update.Status) {
			return nil, errors.Validationf("unknown document status %q", *update.Status)
		}
		if !domain.CanTransition(doc.Status, *update.Status) {
			return nil, errors.Validationf("cannot move document from %s to %s", doc.Status, *update.Status)
		}
	}
	if err := s.store.UpdateDocument(ctx, id, update); err != nil {
		return nil, err
	}
	return s.store.GetDocument(ctx, id)
}

// MarkOpened records that the document was just opened and, for a
// document never read before, moves it to the reading status.
func (s *DocumentService) MarkOpened(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	now := nowFunc()
	update := domain.DocumentUpdate{LastOpenedAt: &now}
	if doc.Status == domain.StatusUnread {
		reading := domain.StatusReading
		update.Status = &reading
	}
	if err := s.store.UpdateDocument(ctx, id, update); err != nil {
		return nil, err
	}
	return s.store.GetDocument(ctx, id)
}

// DeleteDocument removes a document, all rows referencing it, and its
// file in managed storage. The file removal is best effort; a document
// row without a file is worse than the reverse.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteDocument(ctx, id); err != nil {
		return err
	}

	if doc.StoragePath != "" {
		if err := os.Remove(doc.StoragePath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove document file",
				"document_id", id, "path", doc.StoragePath, "error", err)
		}
	}
	if doc.CoverImagePath != "" {
		if err := os.Remove(doc.CoverImagePath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove cover image",
				"document_id", id, "path", doc.CoverImagePath, "error", err)
		}
	}

	s.logger.Info("deleted document", "document_id", id, "title", doc.Title)
	return nil
}

// GetChapters returns the chapter listing for an EPUB document.
func (s *DocumentService) GetChapters(ctx context.Context, id string) ([]parser.Chapter, error) {
	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Format != domain.FormatEPUB {
		return nil, errors.Validationf("document %s has no chapters (%s)", id, doc.Format)
	}
	content := s.parser.Parse(doc.StoragePath, doc.Format)
	return content.Chapters, nil
}

// GetChapterContent reads one chapter of an EPUB document on demand and
// returns it converted to Markdown.
func (s *DocumentService) GetChapterContent(ctx context.Context, id, href string) (string, error) {
	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return "", err
	}
	if doc.Format != domain.FormatEPUB {
		return "", errors.ChapterNotFoundf("document %s has no chapters (%s)", id, doc.Format)
	}
	text, err := s.parser.ChapterContent(doc.StoragePath, href)
	if err != nil {
		return "", fmt.Errorf("chapter %s of document %s: %w", href, id, err)
	}
	return text, nil
}
