package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readwellapp/readwell-server/internal/domain"
)

func (s *Server) registerImportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "importDocument",
		Method:      http.MethodPost,
		Path:        "/api/v1/import",
		Summary:     "Import document",
		Description: "Imports a file from the local filesystem into the library",
		Tags:        []string{"Import"},
	}, s.handleImport)
}

// ImportRequest is the request body for importing a document.
type ImportRequest struct {
	SourcePath string `json:"source_path" validate:"required" doc:"Path of the file to import"`
	Title      string `json:"title,omitempty" validate:"omitempty,max=500" doc:"Optional display title"`
}

// ImportInput wraps the import request for Huma.
type ImportInput struct {
	Body ImportRequest
}

// DocumentOutput wraps a single document response.
type DocumentOutput struct {
	Body *domain.Document
}

func (s *Server) handleImport(ctx context.Context, input *ImportInput) (*DocumentOutput, error) {
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	doc, err := s.importer.ImportFile(ctx, input.Body.SourcePath, input.Body.Title)
	if err != nil {
		return nil, err
	}
	return &DocumentOutput{Body: doc}, nil
}
