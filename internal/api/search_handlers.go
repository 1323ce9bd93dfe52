package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search library",
		Description: "Case-insensitive substring search over documents, highlights, and notes",
		Tags:        []string{"Search"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchFulltext",
		Method:      http.MethodGet,
		Path:        "/api/v1/search/fulltext",
		Summary:     "Full-text search",
		Description: "Ranked full-text search over document content",
		Tags:        []string{"Search"},
	}, s.handleSearchFulltext)
}

// === DTOs ===

// SearchInput contains the substring search query.
type SearchInput struct {
	Query string `query:"q" doc:"Substring to search for"`
}

// SearchOutput wraps the merged cross-entity result list.
type SearchOutput struct {
	Body struct {
		Results []domain.SearchResult `json:"results"`
	}
}

// FulltextSearchInput contains full-text search parameters.
type FulltextSearchInput struct {
	Query  string `query:"q" required:"true" doc:"Search query"`
	Format string `query:"format" doc:"Filter by format (pdf, epub, txt, docx)"`
	Status string `query:"status" doc:"Filter by status (unread, reading, finished)"`
	Limit  int    `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Maximum hits"`
	Offset int    `query:"offset" default:"0" minimum:"0" doc:"Hits to skip"`
}

// FulltextSearchOutput wraps the ranked full-text result.
type FulltextSearchOutput struct {
	Body *search.Result
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	results, err := s.services.Search.Search(ctx, input.Query)
	if err != nil {
		return nil, err
	}
	out := &SearchOutput{}
	out.Body.Results = results
	return out, nil
}

func (s *Server) handleSearchFulltext(ctx context.Context, input *FulltextSearchInput) (*FulltextSearchOutput, error) {
	params := search.DefaultParams()
	params.Query = input.Query
	params.Format = input.Format
	params.Status = input.Status
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	params.Offset = input.Offset

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	return &FulltextSearchOutput{Body: result}, nil
}
