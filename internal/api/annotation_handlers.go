package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readwellapp/readwell-server/internal/domain"
)

func (s *Server) registerAnnotationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createHighlight",
		Method:      http.MethodPost,
		Path:        "/api/v1/documents/{id}/highlights",
		Summary:     "Create highlight",
		Tags:        []string{"Annotations"},
	}, s.handleCreateHighlight)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDocumentHighlights",
		Method:      http.MethodGet,
		Path:        "/api/v1/documents/{id}/highlights",
		Summary:     "List document highlights",
		Tags:        []string{"Annotations"},
	}, s.handleGetDocumentHighlights)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteHighlight",
		Method:      http.MethodDelete,
		Path:        "/api/v1/highlights/{id}",
		Summary:     "Delete highlight",
		Description: "Removes the highlight and notes attached to it",
		Tags:        []string{"Annotations"},
	}, s.handleDeleteHighlight)

	huma.Register(s.api, huma.Operation{
		OperationID: "createNote",
		Method:      http.MethodPost,
		Path:        "/api/v1/documents/{id}/notes",
		Summary:     "Create note",
		Tags:        []string{"Annotations"},
	}, s.handleCreateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDocumentNotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/documents/{id}/notes",
		Summary:     "List document notes",
		Tags:        []string{"Annotations"},
	}, s.handleGetDocumentNotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteNote",
		Method:      http.MethodDelete,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Delete note",
		Tags:        []string{"Annotations"},
	}, s.handleDeleteNote)
}

// === DTOs ===

// CreateHighlightRequest is the request body for creating a highlight.
type CreateHighlightRequest struct {
	Type          string `json:"type" validate:"required,oneof=idea definition quote" doc:"Highlight type"`
	Text          string `json:"text" validate:"required" doc:"Captured text span"`
	StartPosition int    `json:"start_position" validate:"gte=0" doc:"Span start offset"`
	EndPosition   int    `json:"end_position" validate:"gte=0" doc:"Span end offset"`
	Color         string `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"Display color"`
}

// CreateHighlightInput wraps the create highlight request for Huma.
type CreateHighlightInput struct {
	ID   string `path:"id" doc:"Document ID"`
	Body CreateHighlightRequest
}

// HighlightOutput wraps a single highlight response.
type HighlightOutput struct {
	Body *domain.Highlight
}

// HighlightListOutput wraps a highlight list response.
type HighlightListOutput struct {
	Body struct {
		Highlights []*domain.Highlight `json:"highlights"`
	}
}

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	HighlightID string `json:"highlight_id,omitempty" doc:"Highlight to attach to, empty for standalone"`
	Text        string `json:"text" validate:"required" doc:"Note text"`
	Position    int    `json:"position" validate:"gte=0" doc:"Position in the document"`
}

// CreateNoteInput wraps the create note request for Huma.
type CreateNoteInput struct {
	ID   string `path:"id" doc:"Document ID"`
	Body CreateNoteRequest
}

// NoteOutput wraps a single note response.
type NoteOutput struct {
	Body *domain.Note
}

// NoteListOutput wraps a note list response.
type NoteListOutput struct {
	Body struct {
		Notes []*domain.Note `json:"notes"`
	}
}

// AnnotationIDInput identifies a highlight or note by path parameter.
type AnnotationIDInput struct {
	ID string `path:"id" doc:"Annotation ID"`
}

// === Handlers ===

func (s *Server) handleCreateHighlight(ctx context.Context, input *CreateHighlightInput) (*HighlightOutput, error) {
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}
	hl, err := s.services.Annotations.CreateHighlight(ctx, input.ID,
		domain.HighlightType(input.Body.Type), input.Body.Text,
		input.Body.StartPosition, input.Body.EndPosition, input.Body.Color)
	if err != nil {
		return nil, err
	}
	return &HighlightOutput{Body: hl}, nil
}

func (s *Server) handleGetDocumentHighlights(ctx context.Context, input *DocumentIDInput) (*HighlightListOutput, error) {
	highlights, err := s.services.Annotations.GetDocumentHighlights(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	out := &HighlightListOutput{}
	out.Body.Highlights = highlights
	return out, nil
}

func (s *Server) handleDeleteHighlight(ctx context.Context, input *AnnotationIDInput) (*EmptyOutput, error) {
	if err := s.services.Annotations.DeleteHighlight(ctx, input.ID); err != nil {
		return nil, err
	}
	return &EmptyOutput{}, nil
}

func (s *Server) handleCreateNote(ctx context.Context, input *CreateNoteInput) (*NoteOutput, error) {
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}
	note, err := s.services.Annotations.CreateNote(ctx, input.ID,
		input.Body.HighlightID, input.Body.Text, input.Body.Position)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: note}, nil
}

func (s *Server) handleGetDocumentNotes(ctx context.Context, input *DocumentIDInput) (*NoteListOutput, error) {
	notes, err := s.services.Annotations.GetDocumentNotes(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	out := &NoteListOutput{}
	out.Body.Notes = notes
	return out, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *AnnotationIDInput) (*EmptyOutput, error) {
	if err := s.services.Annotations.DeleteNote(ctx, input.ID); err != nil {
		return nil, err
	}
	return &EmptyOutput{}, nil
}
