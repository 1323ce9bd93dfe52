package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readwellapp/readwell-server/internal/backup"
)

func (s *Server) registerExportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "exportDocumentMarkdown",
		Method:      http.MethodGet,
		Path:        "/api/v1/documents/{id}/export/markdown",
		Summary:     "Export annotations as Markdown",
		Tags:        []string{"Export"},
	}, s.handleExportMarkdown)

	huma.Register(s.api, huma.Operation{
		OperationID: "exportDocumentJSON",
		Method:      http.MethodGet,
		Path:        "/api/v1/documents/{id}/export/json",
		Summary:     "Export annotations as JSON",
		Tags:        []string{"Export"},
	}, s.handleExportJSON)

	huma.Register(s.api, huma.Operation{
		OperationID: "exportBackup",
		Method:      http.MethodGet,
		Path:        "/api/v1/backup",
		Summary:     "Export library backup",
		Description: "Returns the full library as a versioned JSON envelope",
		Tags:        []string{"Export"},
	}, s.handleExportBackup)

	huma.Register(s.api, huma.Operation{
		OperationID: "importBackup",
		Method:      http.MethodPost,
		Path:        "/api/v1/backup",
		Summary:     "Restore library backup",
		Description: "Restores an envelope; documents that already exist are skipped",
		Tags:        []string{"Export"},
	}, s.handleImportBackup)
}

// === DTOs ===

// MarkdownExportOutput returns rendered Markdown.
type MarkdownExportOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// JSONExportOutput returns a raw JSON export.
type JSONExportOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// ImportBackupInput wraps a raw backup envelope.
type ImportBackupInput struct {
	RawBody []byte
}

// ImportBackupOutput wraps the restore summary.
type ImportBackupOutput struct {
	Body *backup.ImportResult
}

// === Handlers ===

func (s *Server) handleExportMarkdown(ctx context.Context, input *DocumentIDInput) (*MarkdownExportOutput, error) {
	md, err := s.services.Export.ExportMarkdown(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &MarkdownExportOutput{
		ContentType: "text/markdown; charset=utf-8",
		Body:        []byte(md),
	}, nil
}

func (s *Server) handleExportJSON(ctx context.Context, input *DocumentIDInput) (*JSONExportOutput, error) {
	data, err := s.services.Export.ExportJSON(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &JSONExportOutput{
		ContentType: "application/json; charset=utf-8",
		Body:        data,
	}, nil
}

func (s *Server) handleExportBackup(ctx context.Context, _ *struct{}) (*JSONExportOutput, error) {
	data, err := s.backup.Export(ctx)
	if err != nil {
		return nil, err
	}
	return &JSONExportOutput{
		ContentType: "application/json; charset=utf-8",
		Body:        data,
	}, nil
}

func (s *Server) handleImportBackup(ctx context.Context, input *ImportBackupInput) (*ImportBackupOutput, error) {
	result, err := s.backup.Import(ctx, input.RawBody)
	if err != nil {
		return nil, err
	}
	return &ImportBackupOutput{Body: result}, nil
}
