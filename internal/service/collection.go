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

// CollectionService manages reading collections. Collections can nest
// one level deep via ParentID; deleting a parent orphans its children
// rather than deleting them.
type CollectionService struct {
	store  store.Store
	logger *slog.Logger
}

// NewCollectionService creates a new collection service.
func NewCollectionService(st store.Store, logger *slog.Logger) *CollectionService {
	return &CollectionService{store: st, logger: logger}
}

// CreateCollection creates a collection, optionally nested under parentID.
func (s *CollectionService) CreateCollection(ctx context.Context, name, parentID string) (*domain.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validationf("collection name cannot be empty")
	}
	if parentID != "" {
		parent, err := s.store.GetCollection(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if parent.ParentID != "" {
			return nil, errors.Validationf("collections can only nest one level deep")
		}
	}

	coll := domain.NewCollection(id.MustGenerate("col"), name, parentID)
	if err := s.store.CreateCollection(ctx, coll); err != nil {
		return nil, err
	}
	s.logger.Info("created collection", "collection_id", coll.ID, "name", coll.Name)
	return coll, nil
}

// GetCollection returns a collection by id.
func (s *CollectionService) GetCollection(ctx context.Context, collectionID string) (*domain.Collection, error) {
	return s.store.GetCollection(ctx, collectionID)
}

// ListCollections returns all collections.
func (s *CollectionService) ListCollections(ctx context.Context) ([]*domain.Collection, error) {
	return s.store.ListCollections(ctx)
}

// DeleteCollection removes a collection and its memberships. Child
// collections survive with their parent reference cleared.
func (s *CollectionService) DeleteCollection(ctx context.Context, collectionID string) error {
	return s.store.DeleteCollection(ctx, collectionID)
}

// AddDocument puts a document into a collection. Adding twice is a no-op.
func (s *CollectionService) AddDocument(ctx context.Context, collectionID, documentID string) error {
	return s.store.AddDocumentToCollection(ctx, collectionID, documentID)
}

// RemoveDocument takes a document out of a collection.
func (s *CollectionService) RemoveDocument(ctx context.Context, collectionID, documentID string) error {
	return s.store.RemoveDocumentFromCollection(ctx, collectionID, documentID)
}

// GetCollectionDocuments returns the documents in a collection.
func (s *CollectionService) GetCollectionDocuments(ctx context.Context, collectionID string) ([]*domain.Document, error) {
	ids, err := s.store.GetCollectionDocumentIDs(ctx, collectionID)
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
