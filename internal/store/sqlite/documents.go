package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/store"
)

// documentColumns is the ordered list of columns selected in document queries.
// Must match the scan order in scanDocument.
const documentColumns = `id, title, storage_path, format, status, author, description,
	language, publisher, publish_date, page_count, word_count, estimated_reading_time,
	favorite, cover_image_path, extracted_text, created_at, updated_at, last_opened_at`

// scanDocument scans a sql.Row (or sql.Rows via its Scan method) into a domain.Document.
func scanDocument(scanner interface{ Scan(dest ...any) error }) (*domain.Document, error) {
	var d domain.Document

	var (
		favorite      int
		coverPath     sql.NullString
		extractedText sql.NullString
		createdAt     string
		updatedAt     string
		lastOpenedAt  sql.NullString
	)

	err := scanner.Scan(
		&d.ID,
		&d.Title,
		&d.StoragePath,
		&d.Format,
		&d.Status,
		&d.Author,
		&d.Description,
		&d.Language,
		&d.Publisher,
		&d.PublishDate,
		&d.PageCount,
		&d.WordCount,
		&d.EstimatedReadingTime,
		&favorite,
		&coverPath,
		&extractedText,
		&createdAt,
		&updatedAt,
		&lastOpenedAt,
	)
	if err != nil {
		return nil, err
	}

	d.Favorite = favorite != 0
	if coverPath.Valid {
		d.CoverImagePath = coverPath.String
	}
	if extractedText.Valid {
		d.ExtractedText = extractedText.String
	}

	// Parse timestamps.
	d.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	d.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	d.LastOpenedAt, err = parseNullableTime(lastOpenedAt)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// CreateDocument inserts a new document into the database.
// Returns store.ErrAlreadyExists if the ID or storage path already exists.
func (s *Store) CreateDocument(ctx context.Context, doc *domain.Document) error {
	if err := doc.Validate(); err != nil {
		return store.ErrInvalidInput.WithCause(err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (
			id, title, storage_path, format, status, author, description,
			language, publisher, publish_date, page_count, word_count,
			estimated_reading_time, favorite, cover_image_path, extracted_text,
			created_at, updated_at, last_opened_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID,
		doc.Title,
		doc.StoragePath,
		doc.Format,
		doc.Status,
		doc.Author,
		doc.Description,
		doc.Language,
		doc.Publisher,
		doc.PublishDate,
		doc.PageCount,
		doc.WordCount,
		doc.EstimatedReadingTime,
		boolToInt(doc.Favorite),
		nullString(doc.CoverImagePath),
		nullString(doc.ExtractedText),
		formatTime(doc.CreatedAt),
		formatTime(doc.UpdatedAt),
		nullTimeString(doc.LastOpenedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	if err := s.searchIndexer.IndexDocument(doc); err != nil {
		s.logger.Warn("failed to index document", "document_id", doc.ID, "error", err)
	}

	return nil
}

// GetDocument retrieves a document by ID.
// Returns store.ErrNotFound if the document does not exist.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)

	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// GetDocumentByStoragePath retrieves a document by its managed storage path.
// Returns store.ErrNotFound if no document uses the path.
func (s *Store) GetDocumentByStoragePath(ctx context.Context, path string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE storage_path = ?`, path)

	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListDocuments returns all documents ordered by creation time descending.
func (s *Store) ListDocuments(ctx context.Context) ([]*domain.Document, error) {
	return s.queryDocuments(ctx,
		`SELECT `+documentColumns+` FROM documents ORDER BY created_at DESC`)
}

// ListDocumentsByStatus returns documents with the given status,
// ordered by creation time descending. Uses the status index.
func (s *Store) ListDocumentsByStatus(ctx context.Context, status domain.DocumentStatus) ([]*domain.Document, error) {
	return s.queryDocuments(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE status = ? ORDER BY created_at DESC`,
		status)
}

// SearchDocumentsByTitle returns documents whose title or storage path contains
// the query, case-insensitively. Title matches sort before path-only matches.
func (s *Store) SearchDocumentsByTitle(ctx context.Context, title string) ([]*domain.Document, error) {
	pattern := "%" + escapeLike(strings.ToLower(title)) + "%"
	return s.queryDocuments(ctx,
		`SELECT `+documentColumns+` FROM documents
		WHERE lower(title) LIKE ? ESCAPE '\' OR lower(storage_path) LIKE ? ESCAPE '\'
		ORDER BY CASE WHEN lower(title) LIKE ? ESCAPE '\' THEN 0 ELSE 1 END, title ASC`,
		pattern, pattern, pattern)
}

// queryDocuments runs a query and scans all rows into documents.
func (s *Store) queryDocuments(ctx context.Context, query string, args ...any) ([]*domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// UpdateDocument applies a partial update to a document. Nil fields are left
// untouched (merge semantics). An empty update is a silent no-op.
// Returns store.ErrNotFound if the document does not exist.
func (s *Store) UpdateDocument(ctx context.Context, id string, update domain.DocumentUpdate) error {
	if update.Empty() {
		return nil
	}

	var (
		sets []string
		args []any
	)

	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Status != nil {
		if !domain.ValidStatus(*update.Status) {
			return store.ErrInvalidInput.WithMessage(fmt.Sprintf("invalid status: %s", *update.Status))
		}
		sets = append(sets, "status = ?")
		args = append(args, *update.Status)
	}
	if update.Favorite != nil {
		sets = append(sets, "favorite = ?")
		args = append(args, boolToInt(*update.Favorite))
	}
	if update.Author != nil {
		sets = append(sets, "author = ?")
		args = append(args, *update.Author)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.CoverImagePath != nil {
		sets = append(sets, "cover_image_path = ?")
		args = append(args, nullString(*update.CoverImagePath))
	}
	if update.LastOpenedAt != nil {
		sets = append(sets, "last_opened_at = ?")
		args = append(args, formatTime(*update.LastOpenedAt))
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(nowUTC()))
	args = append(args, id)

	result, err := s.db.ExecContext(ctx,
		`UPDATE documents SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
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

	if doc, err := s.GetDocument(ctx, id); err == nil {
		if err := s.searchIndexer.IndexDocument(doc); err != nil {
			s.logger.Warn("failed to reindex document", "document_id", id, "error", err)
		}
	}

	return nil
}

// DeleteDocument removes a document and, via foreign keys, all of its
// positions, highlights, notes, session rows, and join-table rows.
// The delete runs in a transaction so a partially-deleted document is
// never observable. Returns store.ErrNotFound if the document does not exist.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
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

	if err := tx.Commit(); err != nil {
		return err
	}

	if err := s.searchIndexer.DeleteDocument(id); err != nil {
		s.logger.Warn("failed to remove document from index", "document_id", id, "error", err)
	}

	return nil
}

// CountDocuments returns the total number of documents.
func (s *Store) CountDocuments(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

// CountRowsReferencing counts rows in every dependent table that reference
// the given document ID. Used by tests to verify cascade behavior.
func (s *Store) CountRowsReferencing(ctx context.Context, documentID string) (int, error) {
	var total int
	queries := []string{
		`SELECT COUNT(*) FROM reading_positions WHERE document_id = ?`,
		`SELECT COUNT(*) FROM highlights WHERE document_id = ?`,
		`SELECT COUNT(*) FROM notes WHERE document_id = ?`,
		`SELECT COUNT(*) FROM reading_sessions WHERE document_id = ?`,
		`SELECT COUNT(*) FROM document_tags WHERE document_id = ?`,
		`SELECT COUNT(*) FROM collection_documents WHERE document_id = ?`,
	}
	for _, q := range queries {
		var n int
		if err := s.db.QueryRowContext(ctx, q, documentID).Scan(&n); err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// escapeLike escapes LIKE wildcards in user-supplied substrings.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
