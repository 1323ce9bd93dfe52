package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/store"
)

const highlightColumns = `id, document_id, type, text, start_position, end_position, color, created_at`

func scanHighlight(scanner interface{ Scan(dest ...any) error }) (*domain.Highlight, error) {
	var h domain.Highlight
	var createdAt string

	err := scanner.Scan(
		&h.ID, &h.DocumentID, &h.Type, &h.Text,
		&h.StartPosition, &h.EndPosition, &h.Color, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	h.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// CreateHighlight inserts a new highlight.
// Returns store.ErrNotFound if the document does not exist.
func (s *Store) CreateHighlight(ctx context.Context, h *domain.Highlight) error {
	if err := h.Validate(); err != nil {
		return store.ErrInvalidInput.WithCause(err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO highlights (id, document_id, type, text, start_position, end_position, color, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.DocumentID, h.Type, h.Text,
		h.StartPosition, h.EndPosition, h.Color, formatTime(h.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrNotFound.WithMessage("document not found")
		}
		return err
	}
	return nil
}

// GetHighlight retrieves a highlight by ID.
func (s *Store) GetHighlight(ctx context.Context, id string) (*domain.Highlight, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+highlightColumns+` FROM highlights WHERE id = ?`, id)

	h, err := scanHighlight(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// ListHighlights returns all highlights ordered by creation time descending.
func (s *Store) ListHighlights(ctx context.Context) ([]*domain.Highlight, error) {
	return s.queryHighlights(ctx,
		`SELECT `+highlightColumns+` FROM highlights ORDER BY created_at DESC`)
}

// GetDocumentHighlights returns a document's highlights ordered by
// start position.
func (s *Store) GetDocumentHighlights(ctx context.Context, documentID string) ([]*domain.Highlight, error) {
	return s.queryHighlights(ctx,
		`SELECT `+highlightColumns+` FROM highlights WHERE document_id = ? ORDER BY start_position ASC`,
		documentID)
}

// SearchHighlights returns highlights whose text contains the query,
// case-insensitively.
func (s *Store) SearchHighlights(ctx context.Context, query string) ([]*domain.Highlight, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	return s.queryHighlights(ctx,
		`SELECT `+highlightColumns+` FROM highlights
		WHERE lower(text) LIKE ? ESCAPE '\'
		ORDER BY created_at DESC`,
		pattern)
}

func (s *Store) queryHighlights(ctx context.Context, query string, args ...any) ([]*domain.Highlight, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var highlights []*domain.Highlight
	for rows.Next() {
		h, err := scanHighlight(rows)
		if err != nil {
			return nil, err
		}
		highlights = append(highlights, h)
	}
	return highlights, rows.Err()
}

// DeleteHighlight removes a highlight. Notes attached to it cascade;
// standalone notes on the same document survive.
func (s *Store) DeleteHighlight(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM highlights WHERE id = ?`, id)
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

const noteColumns = `id, document_id, highlight_id, text, position, created_at, updated_at`

func scanNote(scanner interface{ Scan(dest ...any) error }) (*domain.Note, error) {
	var n domain.Note
	var highlightID sql.NullString
	var createdAt, updatedAt string

	err := scanner.Scan(&n.ID, &n.DocumentID, &highlightID, &n.Text, &n.Position, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if highlightID.Valid {
		n.HighlightID = highlightID.String
	}
	n.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	n.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateNote inserts a new note. Returns store.ErrNotFound if the
// document, or the highlight when one is referenced, does not exist.
func (s *Store) CreateNote(ctx context.Context, n *domain.Note) error {
	if err := n.Validate(); err != nil {
		return store.ErrInvalidInput.WithCause(err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (id, document_id, highlight_id, text, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.DocumentID, nullString(n.HighlightID), n.Text, n.Position,
		formatTime(n.CreatedAt), formatTime(n.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrNotFound.WithMessage("document or highlight not found")
		}
		return err
	}
	return nil
}

// GetNote retrieves a note by ID.
func (s *Store) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)

	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ListNotes returns all notes ordered by creation time descending.
func (s *Store) ListNotes(ctx context.Context) ([]*domain.Note, error) {
	return s.queryNotes(ctx,
		`SELECT `+noteColumns+` FROM notes ORDER BY created_at DESC`)
}

// GetDocumentNotes returns a document's notes ordered by position.
func (s *Store) GetDocumentNotes(ctx context.Context, documentID string) ([]*domain.Note, error) {
	return s.queryNotes(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE document_id = ? ORDER BY position ASC`,
		documentID)
}

// SearchNotes returns notes whose text contains the query, case-insensitively.
func (s *Store) SearchNotes(ctx context.Context, query string) ([]*domain.Note, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	return s.queryNotes(ctx,
		`SELECT `+noteColumns+` FROM notes
		WHERE lower(text) LIKE ? ESCAPE '\'
		ORDER BY created_at DESC`,
		pattern)
}

func (s *Store) queryNotes(ctx context.Context, query string, args ...any) ([]*domain.Note, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// DeleteNote removes a note.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
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
