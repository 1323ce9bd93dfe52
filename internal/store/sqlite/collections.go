package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/store"
)

const collectionColumns = `id, name, parent_id, created_at, updated_at`

func scanCollection(scanner interface{ Scan(dest ...any) error }) (*domain.Collection, error) {
	var c domain.Collection
	var parentID sql.NullString
	var createdAt, updatedAt string

	err := scanner.Scan(&c.ID, &c.Name, &parentID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		c.ParentID = parentID.String
	}
	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateCollection inserts a new collection.
// Returns store.ErrNotFound if the parent collection does not exist.
func (s *Store) CreateCollection(ctx context.Context, c *domain.Collection) error {
	if err := c.Validate(); err != nil {
		return store.ErrInvalidInput.WithCause(err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, name, parent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, nullString(c.ParentID),
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrNotFound.WithMessage("parent collection not found")
		}
		return err
	}
	return nil
}

// GetCollection retrieves a collection by ID.
func (s *Store) GetCollection(ctx context.Context, id string) (*domain.Collection, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+collectionColumns+` FROM collections WHERE id = ?`, id)

	c, err := scanCollection(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCollections returns all collections ordered by name.
func (s *Store) ListCollections(ctx context.Context) ([]*domain.Collection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+collectionColumns+` FROM collections ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []*domain.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

// DeleteCollection removes a collection. Children are re-rooted (parent_id
// set NULL), membership rows cascade, documents are untouched.
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// AddDocumentToCollection adds a document to a collection. Adding twice
// is a no-op.
func (s *Store) AddDocumentToCollection(ctx context.Context, collectionID, documentID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collection_documents (collection_id, document_id) VALUES (?, ?)
		ON CONFLICT (collection_id, document_id) DO NOTHING`,
		collectionID, documentID)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrNotFound
		}
		return err
	}
	return nil
}

// RemoveDocumentFromCollection removes a document from a collection.
// Removing an absent membership is a no-op.
func (s *Store) RemoveDocumentFromCollection(ctx context.Context, collectionID, documentID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM collection_documents WHERE collection_id = ? AND document_id = ?`,
		collectionID, documentID)
	return err
}

// GetCollectionDocumentIDs returns the IDs of all documents in the collection.
func (s *Store) GetCollectionDocumentIDs(ctx context.Context, collectionID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document_id FROM collection_documents WHERE collection_id = ?`, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
