// Package store defines the persistence interface for the ReadWell server.
package store

import (
	"context"

	"github.com/readwellapp/readwell-server/internal/domain"
)

// SearchIndexer maintains the full-text index as documents change.
// The SQLite store calls it after writes; a no-op implementation is
// installed until the search layer is wired.
type SearchIndexer interface {
	IndexDocument(doc *domain.Document) error
	DeleteDocument(id string) error
}

// NewNoopSearchIndexer returns an indexer that does nothing.
func NewNoopSearchIndexer() SearchIndexer { return noopIndexer{} }

type noopIndexer struct{}

func (noopIndexer) IndexDocument(*domain.Document) error { return nil }
func (noopIndexer) DeleteDocument(string) error          { return nil }

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	SetSearchIndexer(indexer SearchIndexer)

	// Documents
	CreateDocument(ctx context.Context, doc *domain.Document) error
	GetDocument(ctx context.Context, id string) (*domain.Document, error)
	GetDocumentByStoragePath(ctx context.Context, path string) (*domain.Document, error)
	ListDocuments(ctx context.Context) ([]*domain.Document, error)
	ListDocumentsByStatus(ctx context.Context, status domain.DocumentStatus) ([]*domain.Document, error)
	SearchDocumentsByTitle(ctx context.Context, title string) ([]*domain.Document, error)
	UpdateDocument(ctx context.Context, id string, update domain.DocumentUpdate) error
	DeleteDocument(ctx context.Context, id string) error
	CountDocuments(ctx context.Context) (int, error)

	// Tags
	CreateTag(ctx context.Context, t *domain.Tag) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	DeleteTag(ctx context.Context, id string) error
	TagDocument(ctx context.Context, documentID, tagID string) error
	UntagDocument(ctx context.Context, documentID, tagID string) error
	GetDocumentTags(ctx context.Context, documentID string) ([]*domain.Tag, error)
	GetTaggedDocumentIDs(ctx context.Context, tagID string) ([]string, error)

	// Collections
	CreateCollection(ctx context.Context, c *domain.Collection) error
	GetCollection(ctx context.Context, id string) (*domain.Collection, error)
	ListCollections(ctx context.Context) ([]*domain.Collection, error)
	DeleteCollection(ctx context.Context, id string) error
	AddDocumentToCollection(ctx context.Context, collectionID, documentID string) error
	RemoveDocumentFromCollection(ctx context.Context, collectionID, documentID string) error
	GetCollectionDocumentIDs(ctx context.Context, collectionID string) ([]string, error)

	// Reading positions
	UpsertReadingPosition(ctx context.Context, pos *domain.ReadingPosition) error
	GetReadingPosition(ctx context.Context, documentID string) (*domain.ReadingPosition, error)
	DeleteReadingPosition(ctx context.Context, documentID string) error

	// Highlights
	CreateHighlight(ctx context.Context, h *domain.Highlight) error
	GetHighlight(ctx context.Context, id string) (*domain.Highlight, error)
	ListHighlights(ctx context.Context) ([]*domain.Highlight, error)
	GetDocumentHighlights(ctx context.Context, documentID string) ([]*domain.Highlight, error)
	SearchHighlights(ctx context.Context, query string) ([]*domain.Highlight, error)
	DeleteHighlight(ctx context.Context, id string) error

	// Notes
	CreateNote(ctx context.Context, n *domain.Note) error
	GetNote(ctx context.Context, id string) (*domain.Note, error)
	ListNotes(ctx context.Context) ([]*domain.Note, error)
	GetDocumentNotes(ctx context.Context, documentID string) ([]*domain.Note, error)
	SearchNotes(ctx context.Context, query string) ([]*domain.Note, error)
	DeleteNote(ctx context.Context, id string) error

	// Reading sessions
	CreateReadingSession(ctx context.Context, s *domain.ReadingSession) error
	GetReadingSession(ctx context.Context, id string) (*domain.ReadingSession, error)
	UpdateReadingSession(ctx context.Context, s *domain.ReadingSession) error
	ListReadingSessions(ctx context.Context) ([]*domain.ReadingSession, error)
	ListClosedReadingSessions(ctx context.Context) ([]*domain.ReadingSession, error)
	GetDocumentSessions(ctx context.Context, documentID string) ([]*domain.ReadingSession, error)

	// Counters used by tests and maintenance tooling.
	CountRowsReferencing(ctx context.Context, documentID string) (int, error)
}
