package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/store"
)

const sessionColumns = `id, document_id, start_time, end_time, pages_read, words_read, duration_seconds`

func scanSession(scanner interface{ Scan(dest ...any) error }) (*domain.ReadingSession, error) {
	var rs domain.ReadingSession
	var startTime string
	var endTime sql.NullString

	err := scanner.Scan(
		&rs.ID, &rs.DocumentID, &startTime, &endTime,
		&rs.PagesRead, &rs.WordsRead, &rs.DurationSeconds,
	)
	if err != nil {
		return nil, err
	}

	rs.StartTime, err = parseTime(startTime)
	if err != nil {
		return nil, err
	}
	rs.EndTime, err = parseNullableTime(endTime)
	if err != nil {
		return nil, err
	}
	return &rs, nil
}

// CreateReadingSession inserts a new session, open or closed.
// Returns store.ErrNotFound if the document does not exist.
func (s *Store) CreateReadingSession(ctx context.Context, rs *domain.ReadingSession) error {
	if rs.ID == "" || rs.DocumentID == "" {
		return store.ErrInvalidInput.WithMessage("session ID and document ID are required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reading_sessions (id, document_id, start_time, end_time, pages_read, words_read, duration_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rs.ID, rs.DocumentID, formatTime(rs.StartTime), nullTimeString(rs.EndTime),
		rs.PagesRead, rs.WordsRead, rs.DurationSeconds,
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

// GetReadingSession retrieves a session by ID.
func (s *Store) GetReadingSession(ctx context.Context, id string) (*domain.ReadingSession, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM reading_sessions WHERE id = ?`, id)

	rs, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// UpdateReadingSession rewrites a session row, typically to close it.
// Returns store.ErrNotFound if the session does not exist.
func (s *Store) UpdateReadingSession(ctx context.Context, rs *domain.ReadingSession) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE reading_sessions
		SET start_time = ?, end_time = ?, pages_read = ?, words_read = ?, duration_seconds = ?
		WHERE id = ?`,
		formatTime(rs.StartTime), nullTimeString(rs.EndTime),
		rs.PagesRead, rs.WordsRead, rs.DurationSeconds, rs.ID,
	)
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

// ListReadingSessions returns all sessions ordered by start time descending.
func (s *Store) ListReadingSessions(ctx context.Context) ([]*domain.ReadingSession, error) {
	return s.querySessions(ctx,
		`SELECT `+sessionColumns+` FROM reading_sessions ORDER BY start_time DESC`)
}

// ListClosedReadingSessions returns sessions with an end time, ordered by
// start time descending. Open sessions never contribute to statistics.
func (s *Store) ListClosedReadingSessions(ctx context.Context) ([]*domain.ReadingSession, error) {
	return s.querySessions(ctx,
		`SELECT `+sessionColumns+` FROM reading_sessions WHERE end_time IS NOT NULL ORDER BY start_time DESC`)
}

// GetDocumentSessions returns all sessions for a document ordered by
// start time descending.
func (s *Store) GetDocumentSessions(ctx context.Context, documentID string) ([]*domain.ReadingSession, error) {
	return s.querySessions(ctx,
		`SELECT `+sessionColumns+` FROM reading_sessions WHERE document_id = ? ORDER BY start_time DESC`,
		documentID)
}

func (s *Store) querySessions(ctx context.Context, query string, args ...any) ([]*domain.ReadingSession, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.ReadingSession
	for rows.Next() {
		rs, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, rs)
	}
	return sessions, rows.Err()
}
