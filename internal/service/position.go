package service

import (
	"context"
	"log/slog"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/store"
)

// PositionService tracks the single reading position per document.
type PositionService struct {
	store  store.Store
	logger *slog.Logger
}

// NewPositionService creates a new position service.
func NewPositionService(st store.Store, logger *slog.Logger) *PositionService {
	return &PositionService{store: st, logger: logger}
}

// SavePosition records where reading stopped. Saving for a document that
// already has a position replaces it; there is never more than one.
func (s *PositionService) SavePosition(ctx context.Context, documentID string, page, offset int, progress float64) (*domain.ReadingPosition, error) {
	pos := domain.NewReadingPosition(documentID, page, offset, progress)
	if err := s.store.UpsertReadingPosition(ctx, pos); err != nil {
		return nil, err
	}
	return pos, nil
}

// GetPosition returns the saved position for a document.
func (s *PositionService) GetPosition(ctx context.Context, documentID string) (*domain.ReadingPosition, error) {
	return s.store.GetReadingPosition(ctx, documentID)
}

// ClearPosition drops the saved position. Clearing an absent position
// is a no-op.
func (s *PositionService) ClearPosition(ctx context.Context, documentID string) error {
	return s.store.DeleteReadingPosition(ctx, documentID)
}
