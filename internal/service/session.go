package service

import (
	"context"
	"log/slog"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/id"
	"github.com/readwellapp/readwell-server/internal/store"
)

// SessionService tracks reading sessions. Sessions feed the statistics
// layer; only closed sessions count.
type SessionService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(st store.Store, logger *slog.Logger) *SessionService {
	return &SessionService{store: st, logger: logger}
}

// StartSession opens a reading session for a document and returns it.
func (s *SessionService) StartSession(ctx context.Context, documentID string) (*domain.ReadingSession, error) {
	session := domain.NewReadingSession(id.MustGenerate("ses"), documentID)
	if err := s.store.CreateReadingSession(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Info("started reading session", "session_id", session.ID, "document_id", documentID)
	return session, nil
}

// EndSession closes a session, recording pages and words read. Ending a
// session that does not exist is a silent no-op, as is ending one that
// is already closed; clients retry end calls after crashes.
func (s *SessionService) EndSession(ctx context.Context, sessionID string, pagesRead, wordsRead int) error {
	session, err := s.store.GetReadingSession(ctx, sessionID)
	if err != nil {
		if store.IsNotFound(err) {
			s.logger.Debug("ignoring end for unknown session", "session_id", sessionID)
			return nil
		}
		return err
	}
	if !session.IsOpen() {
		s.logger.Debug("ignoring end for closed session", "session_id", sessionID)
		return nil
	}

	session.Close(nowFunc(), pagesRead, wordsRead)
	if err := s.store.UpdateReadingSession(ctx, session); err != nil {
		return err
	}
	s.logger.Info("ended reading session",
		"session_id", session.ID,
		"document_id", session.DocumentID,
		"duration_seconds", session.DurationSeconds,
		"pages_read", session.PagesRead,
	)
	return nil
}

// GetSession returns a session by id.
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*domain.ReadingSession, error) {
	return s.store.GetReadingSession(ctx, sessionID)
}

// GetDocumentSessions returns all sessions for a document, newest first.
func (s *SessionService) GetDocumentSessions(ctx context.Context, documentID string) ([]*domain.ReadingSession, error) {
	return s.store.GetDocumentSessions(ctx, documentID)
}
