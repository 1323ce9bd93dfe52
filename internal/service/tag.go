package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/id"
	"github.com/readwellapp/readwell-server/internal/slug"
	"github.com/readwellapp/readwell-server/internal/store"
)

// TagService manages tags and their document assignments.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(st store.Store, logger *slog.Logger) *TagService {
	return &TagService{store: st, logger: logger}
}

// CreateTag creates a tag, deriving its slug from the name. Two names
// that normalize to the same slug are the same tag.
func (s *TagService) CreateTag(ctx context.Context, name, color string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validationf("tag name cannot be empty")
	}
	tagSlug := slug.Make(name)
	if tagSlug == "" {
		return nil, errors.Validationf("tag name %q has no usable characters", name)
	}

	tag := domain.NewTag(id.MustGenerate("tag"), name, tagSlug, color)
	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	s.logger.Info("created tag", "tag_id", tag.ID, "slug", tag.Slug)
	return tag, nil
}

// GetTag returns a tag by id.
func (s *TagService) GetTag(ctx context.Context, tagID string) (*domain.Tag, error) {
	return s.store.GetTag(ctx, tagID)
}

// ListTags returns all tags ordered by name.
func (s *TagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx)
}

// DeleteTag removes a tag and its document assignments.
func (s *TagService) DeleteTag(ctx context.Context, tagID string) error {
	return s.store.DeleteTag(ctx, tagID)
}

// TagDocument assigns a tag to a document. Assigning twice is a no-op.
func (s *TagService) TagDocument(ctx context.Context, documentID, tagID string) error {
	return s.store.TagDocument(ctx, documentID, tagID)
}

// UntagDocument removes a tag assignment. Removing an absent assignment
// is a no-op.
func (s *TagService) UntagDocument(ctx context.Context, documentID, tagID string) error {
	return s.store.UntagDocument(ctx, documentID, tagID)
}

// GetDocumentTags returns the tags assigned to a document.
func (s *TagService) GetDocumentTags(ctx context.Context, documentID string) ([]*domain.Tag, error) {
	return s.store.GetDocumentTags(ctx, documentID)
}

// GetTaggedDocuments returns the documents carrying a tag.
func (s *TagService) GetTaggedDocuments(ctx context.Context, tagID string) ([]*domain.Document, error) {
	ids, err := s.store.GetTaggedDocumentIDs(ctx, tagID)
	if err != nil {
		return nil, err
	}
	docs := make([]*domain.Document, 0, len(ids))
	for _, docID := range ids {
		doc, err := s.store.GetDocument(ctx, docID)
		if err != nil {
			if store.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
