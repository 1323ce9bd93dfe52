package search

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a full-text search.
type Params struct {
	Query  string
	Format string // Filter by exact format (empty = all)
	Status string // Filter by exact status (empty = all)

	Limit  int
	Offset int

	Highlight bool
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:     20,
		Offset:    0,
		Highlight: true,
	}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit represents a single search result.
type Hit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	Author     string            `json:"author,omitempty"`
	Format     string            `json:"format,omitempty"`
	Status     string            `json:"status,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search executes a full-text query against the index.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = 20
	}

	searchRequest := bleve.NewSearchRequestOptions(
		buildSearchQuery(params), params.Limit, params.Offset, false)
	searchRequest.Fields = []string{"title", "author", "format", "status"}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("author")
		searchRequest.Highlight.AddField("text")
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		h := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if t, ok := hit.Fields["title"].(string); ok {
			h.Title = t
		}
		if a, ok := hit.Fields["author"].(string); ok {
			h.Author = a
		}
		if f, ok := hit.Fields["format"].(string); ok {
			h.Format = f
		}
		if st, ok := hit.Fields["status"].(string); ok {
			h.Status = st
		}
		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}
		result.Hits = append(result.Hits, h)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params. Title matches
// are boosted over body-text matches; a small fuzzy component tolerates
// typos in titles.
func buildSearchQuery(params Params) query.Query {
	var queries []query.Query

	if params.Query != "" {
		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)

		authorMatch := bleve.NewMatchQuery(params.Query)
		authorMatch.SetField("author")
		authorMatch.SetBoost(2.0)

		textMatch := bleve.NewMatchQuery(params.Query)
		textMatch.SetField("text")

		fuzzyTitle := bleve.NewFuzzyQuery(params.Query)
		fuzzyTitle.SetFuzziness(1)
		fuzzyTitle.SetField("title")
		fuzzyTitle.SetBoost(0.8)

		queries = append(queries,
			bleve.NewDisjunctionQuery(titleMatch, authorMatch, textMatch, fuzzyTitle))
	}

	if params.Format != "" {
		fq := bleve.NewTermQuery(params.Format)
		fq.SetField("format")
		queries = append(queries, fq)
	}
	if params.Status != "" {
		sq := bleve.NewTermQuery(params.Status)
		sq.SetField("status")
		queries = append(queries, sq)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}
