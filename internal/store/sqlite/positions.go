package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/store"
)

// UpsertReadingPosition writes the position marker for a document,
// replacing any existing row. There is never more than one row per
// document. Returns store.ErrNotFound if the document does not exist.
func (s *Store) UpsertReadingPosition(ctx context.Context, pos *domain.ReadingPosition) error {
	if pos.DocumentID == "" {
		return store.ErrInvalidInput.WithMessage("position document ID is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reading_positions (document_id, page, char_offset, progress, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (document_id) DO UPDATE SET
			page = excluded.page,
			char_offset = excluded.char_offset,
			progress = excluded.progress,
			updated_at = excluded.updated_at`,
		pos.DocumentID, pos.Page, pos.Offset,
		domain.ClampProgress(pos.Progress), formatTime(pos.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrNotFound.WithMessage("document not found")
		}
		return err
	}
	return nil
}

// GetReadingPosition retrieves the position marker for a document.
// Returns store.ErrNotFound if none has been saved.
func (s *Store) GetReadingPosition(ctx context.Context, documentID string) (*domain.ReadingPosition, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT document_id, page, char_offset, progress, updated_at
		FROM reading_positions WHERE document_id = ?`,
		documentID)

	var pos domain.ReadingPosition
	var updatedAt string
	err := row.Scan(&pos.DocumentID, &pos.Page, &pos.Offset, &pos.Progress, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	pos.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return &pos, nil
}

// DeleteReadingPosition removes the position marker for a document.
// Deleting an absent marker is a no-op.
func (s *Store) DeleteReadingPosition(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM reading_positions WHERE document_id = ?`, documentID)
	return err
}
