package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readwellapp/readwell-server/internal/domain"
)

func (s *Server) registerReadingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "savePosition",
		Method:      http.MethodPost,
		Path:        "/api/v1/documents/{id}/position",
		Summary:     "Save reading position",
		Description: "Inserts or overwrites the single position for the document",
		Tags:        []string{"Reading"},
	}, s.handleSavePosition)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPosition",
		Method:      http.MethodGet,
		Path:        "/api/v1/documents/{id}/position",
		Summary:     "Get reading position",
		Tags:        []string{"Reading"},
	}, s.handleGetPosition)

	huma.Register(s.api, huma.Operation{
		OperationID: "startSession",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions",
		Summary:     "Start reading session",
		Tags:        []string{"Reading"},
	}, s.handleStartSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "endSession",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/end",
		Summary:     "End reading session",
		Description: "Ending an unknown or already-closed session is a no-op",
		Tags:        []string{"Reading"},
	}, s.handleEndSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "getStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Get reading statistics",
		Tags:        []string{"Reading"},
	}, s.handleGetStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDailyReadingTime",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/daily",
		Summary:     "Get daily reading time",
		Tags:        []string{"Reading"},
	}, s.handleGetDailyReadingTime)
}

// === DTOs ===

// SavePositionRequest is the request body for saving a reading position.
type SavePositionRequest struct {
	Page     int     `json:"page" validate:"gte=0" doc:"Current page"`
	Offset   int     `json:"offset" validate:"gte=0" doc:"Character offset within the page"`
	Progress float64 `json:"progress" doc:"Progress percentage, clamped to 0-100"`
}

// SavePositionInput wraps the save position request for Huma.
type SavePositionInput struct {
	ID   string `path:"id" doc:"Document ID"`
	Body SavePositionRequest
}

// PositionOutput wraps a reading position response.
type PositionOutput struct {
	Body *domain.ReadingPosition
}

// StartSessionRequest is the request body for starting a session.
type StartSessionRequest struct {
	DocumentID string `json:"document_id" validate:"required" doc:"Document being read"`
}

// StartSessionInput wraps the start session request for Huma.
type StartSessionInput struct {
	Body StartSessionRequest
}

// SessionOutput wraps a reading session response.
type SessionOutput struct {
	Body *domain.ReadingSession
}

// EndSessionRequest is the request body for ending a session.
type EndSessionRequest struct {
	PagesRead int `json:"pages_read" validate:"gte=0" doc:"Pages read in this session"`
	WordsRead int `json:"words_read" validate:"gte=0" doc:"Words read in this session"`
}

// EndSessionInput wraps the end session request for Huma.
type EndSessionInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body EndSessionRequest
}

// StatsOutput wraps the aggregated statistics response.
type StatsOutput struct {
	Body *domain.ReadingStats
}

// DailyReadingTimeInput contains parameters for the daily breakdown.
type DailyReadingTimeInput struct {
	Days int `query:"days" default:"7" minimum:"1" maximum:"365" doc:"Number of days, most recent first"`
}

// DailyReadingTimeOutput wraps the per-day reading totals.
type DailyReadingTimeOutput struct {
	Body struct {
		Days []domain.DailyReadingTime `json:"days"`
	}
}

// === Handlers ===

func (s *Server) handleSavePosition(ctx context.Context, input *SavePositionInput) (*PositionOutput, error) {
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}
	pos, err := s.services.Positions.SavePosition(ctx, input.ID,
		input.Body.Page, input.Body.Offset, input.Body.Progress)
	if err != nil {
		return nil, err
	}
	return &PositionOutput{Body: pos}, nil
}

func (s *Server) handleGetPosition(ctx context.Context, input *DocumentIDInput) (*PositionOutput, error) {
	pos, err := s.services.Positions.GetPosition(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PositionOutput{Body: pos}, nil
}

func (s *Server) handleStartSession(ctx context.Context, input *StartSessionInput) (*SessionOutput, error) {
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}
	session, err := s.services.Sessions.StartSession(ctx, input.Body.DocumentID)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: session}, nil
}

func (s *Server) handleEndSession(ctx context.Context, input *EndSessionInput) (*EmptyOutput, error) {
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}
	if err := s.services.Sessions.EndSession(ctx, input.ID,
		input.Body.PagesRead, input.Body.WordsRead); err != nil {
		return nil, err
	}
	return &EmptyOutput{}, nil
}

func (s *Server) handleGetStats(ctx context.Context, _ *struct{}) (*StatsOutput, error) {
	stats, err := s.services.Stats.ComputeStats(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsOutput{Body: stats}, nil
}

func (s *Server) handleGetDailyReadingTime(ctx context.Context, input *DailyReadingTimeInput) (*DailyReadingTimeOutput, error) {
	days, err := s.services.Stats.DailyReadingTime(ctx, input.Days)
	if err != nil {
		return nil, err
	}
	out := &DailyReadingTimeOutput{}
	out.Body.Days = days
	return out, nil
}
