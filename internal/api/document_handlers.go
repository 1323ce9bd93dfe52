package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/parser"
)

func (s *Server) registerDocumentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listDocuments",
		Method:      http.MethodGet,
		Path:        "/api/v1/documents",
		Summary:     "List documents",
		Tags:        []string{"Documents"},
	}, s.handleListDocuments)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDocument",
		Method:      http.MethodGet,
		Path:        "/api/v1/documents/{id}",
		Summary:     "Get document",
		Tags:        []string{"Documents"},
	}, s.handleGetDocument)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateDocument",
		Method:      http.MethodPatch,
		Path:        "/api/v1/documents/{id}",
		Summary:     "Update document",
		Description: "Applies a partial update; omitted fields are untouched",
		Tags:        []string{"Documents"},
	}, s.handleUpdateDocument)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteDocument",
		Method:      http.MethodDelete,
		Path:        "/api/v1/documents/{id}",
		Summary:     "Delete document",
		Description: "Removes the document, its annotations, positions, sessions, and stored file",
		Tags:        []string{"Documents"},
	}, s.handleDeleteDocument)

	huma.Register(s.api, huma.Operation{
		OperationID: "openDocument",
		Method:      http.MethodPost,
		Path:        "/api/v1/documents/{id}/open",
		Summary:     "Mark document opened",
		Tags:        []string{"Documents"},
	}, s.handleOpenDocument)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDocumentChapters",
		Method:      http.MethodGet,
		Path:        "/api/v1/documents/{id}/chapters",
		Summary:     "List document chapters",
		Tags:        []string{"Documents"},
	}, s.handleGetChapters)

	huma.Register(s.api, huma.Operation{
		OperationID: "getChapterContent",
		Method:      http.MethodGet,
		Path:        "/api/v1/documents/{id}/chapters/content",
		Summary:     "Get chapter content",
		Description: "Fetches one chapter on demand, converted to Markdown",
		Tags:        []string{"Documents"},
	}, s.handleGetChapterContent)
}

// === DTOs ===

// ListDocumentsInput contains parameters for listing documents.
type ListDocumentsInput struct {
	Status string `query:"status" doc:"Filter by reading status (unread, reading, finished)"`
}

// DocumentListOutput wraps a document list response.
type DocumentListOutput struct {
	Body struct {
		Documents []*domain.Document `json:"documents"`
	}
}

// DocumentIDInput identifies a document by path parameter.
type DocumentIDInput struct {
	ID string `path:"id" doc:"Document ID"`
}

// UpdateDocumentRequest is the request body for a partial document update.
type UpdateDocumentRequest struct {
	Title          *string `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Status         *string `json:"status,omitempty" validate:"omitempty,oneof=unread reading finished"`
	Favorite       *bool   `json:"favorite,omitempty"`
	Author         *string `json:"author,omitempty" validate:"omitempty,max=500"`
	Description    *string `json:"description,omitempty"`
	CoverImagePath *string `json:"cover_image_path,omitempty"`
}

// UpdateDocumentInput wraps the update request for Huma.
type UpdateDocumentInput struct {
	ID   string `path:"id" doc:"Document ID"`
	Body UpdateDocumentRequest
}

// ChapterListOutput wraps a chapter list response.
type ChapterListOutput struct {
	Body struct {
		Chapters []parser.Chapter `json:"chapters"`
	}
}

// ChapterContentInput identifies one chapter of a document.
type ChapterContentInput struct {
	ID   string `path:"id" doc:"Document ID"`
	Href string `query:"href" required:"true" doc:"Chapter href from the chapter list"`
}

// ChapterContentOutput wraps chapter text.
type ChapterContentOutput struct {
	Body struct {
		Href    string `json:"href"`
		Content string `json:"content"`
	}
}

// EmptyOutput is a response with no body.
type EmptyOutput struct{}

// === Handlers ===

func (s *Server) handleListDocuments(ctx context.Context, input *ListDocumentsInput) (*DocumentListOutput, error) {
	docs, err := s.services.Documents.ListDocuments(ctx, domain.DocumentStatus(input.Status))
	if err != nil {
		return nil, err
	}
	out := &DocumentListOutput{}
	out.Body.Documents = docs
	return out, nil
}

func (s *Server) handleGetDocument(ctx context.Context, input *DocumentIDInput) (*DocumentOutput, error) {
	doc, err := s.services.Documents.GetDocument(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &DocumentOutput{Body: doc}, nil
}

func (s *Server) handleUpdateDocument(ctx context.Context, input *UpdateDocumentInput) (*DocumentOutput, error) {
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	update := domain.DocumentUpdate{
		Title:          input.Body.Title,
		Favorite:       input.Body.Favorite,
		Author:         input.Body.Author,
		Description:    input.Body.Description,
		CoverImagePath: input.Body.CoverImagePath,
	}
	if input.Body.Status != nil {
		status := domain.DocumentStatus(*input.Body.Status)
		update.Status = &status
	}

	doc, err := s.services.Documents.UpdateDocument(ctx, input.ID, update)
	if err != nil {
		return nil, err
	}
	return &DocumentOutput{Body: doc}, nil
}

func (s *Server) handleDeleteDocument(ctx context.Context, input *DocumentIDInput) (*EmptyOutput, error) {
	if err := s.services.Documents.DeleteDocument(ctx, input.ID); err != nil {
		return nil, err
	}
	return &EmptyOutput{}, nil
}

func (s *Server) handleOpenDocument(ctx context.Context, input *DocumentIDInput) (*DocumentOutput, error) {
	doc, err := s.services.Documents.MarkOpened(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &DocumentOutput{Body: doc}, nil
}

func (s *Server) handleGetChapters(ctx context.Context, input *DocumentIDInput) (*ChapterListOutput, error) {
	chapters, err := s.services.Documents.GetChapters(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	out := &ChapterListOutput{}
	out.Body.Chapters = chapters
	return out, nil
}

func (s *Server) handleGetChapterContent(ctx context.Context, input *ChapterContentInput) (*ChapterContentOutput, error) {
	content, err := s.services.Documents.GetChapterContent(ctx, input.ID, input.Href)
	if err != nil {
		return nil, err
	}
	out := &ChapterContentOutput{}
	out.Body.Href = input.Href
	out.Body.Content = content
	return out, nil
}
