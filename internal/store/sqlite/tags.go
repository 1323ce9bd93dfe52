package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/store"
)

const tagColumns = `id, name, slug, color, created_at, updated_at`

func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag
	var createdAt, updatedAt string

	err := scanner.Scan(&t.ID, &t.Name, &t.Slug, &t.Color, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// CreateTag inserts a new tag. Returns store.ErrAlreadyExists if a tag
// with the same slug already exists.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	if err := t.Validate(); err != nil {
		return store.ErrInvalidInput.WithCause(err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, slug, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Slug, t.Color,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetTag retrieves a tag by ID.
func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ?`, id)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTagBySlug retrieves a tag by its unique slug.
func (s *Store) GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE slug = ?`, slug)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTags returns all tags ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// DeleteTag removes a tag. Join-table rows cascade; documents are untouched.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
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

// TagDocument associates a tag with a document. Tagging twice is a no-op.
func (s *Store) TagDocument(ctx context.Context, documentID, tagID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO document_tags (document_id, tag_id) VALUES (?, ?)
		ON CONFLICT (document_id, tag_id) DO NOTHING`,
		documentID, tagID)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrNotFound
		}
		return err
	}
	return nil
}

// UntagDocument removes a tag from a document. Removing an absent
// association is a no-op.
func (s *Store) UntagDocument(ctx context.Context, documentID, tagID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM document_tags WHERE document_id = ? AND tag_id = ?`,
		documentID, tagID)
	return err
}

// GetDocumentTags returns all tags applied to a document, ordered by name.
func (s *Store) GetDocumentTags(ctx context.Context, documentID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.slug, t.color, t.created_at, t.updated_at
		FROM tags t
		JOIN document_tags dt ON dt.tag_id = t.id
		WHERE dt.document_id = ?
		ORDER BY t.name ASC`,
		documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// GetTaggedDocumentIDs returns the IDs of all documents carrying the tag.
func (s *Store) GetTaggedDocumentIDs(ctx context.Context, tagID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document_id FROM document_tags WHERE tag_id = ?`, tagID)
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
