package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/store"
)

// snippetMaxRunes bounds result snippets; longer matches are truncated
// with an ellipsis.
const snippetMaxRunes = 100

// SearchService is the cross-entity substring search: case-insensitive
// containment over document titles and paths, highlight text, and note
// text. Deliberately no tokenization or stemming; the full-text index
// is a separate surface.
type SearchService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(st store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{store: st, logger: logger}
}

// Search fans the query out over documents, highlights, and notes and
// merges hits into one flat list, documents first. An empty or
// whitespace-only query returns an empty list without touching the store.
func (s *SearchService) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}

	results := []domain.SearchResult{}
	titles := make(map[string]string)

	docs, err := s.store.SearchDocumentsByTitle(ctx, query)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		titles[doc.ID] = doc.Title
		results = append(results, domain.SearchResult{
			Type:          domain.SearchResultDocument,
			EntityID:      doc.ID,
			DocumentID:    doc.ID,
			DocumentTitle: doc.Title,
			Snippet:       snippet(doc.Title),
		})
	}

	highlights, err := s.store.SearchHighlights(ctx, query)
	if err != nil {
		return nil, err
	}
	for _, hl := range highlights {
		results = append(results, domain.SearchResult{
			Type:          domain.SearchResultHighlight,
			EntityID:      hl.ID,
			DocumentID:    hl.DocumentID,
			DocumentTitle: s.documentTitle(ctx, titles, hl.DocumentID),
			Snippet:       snippet(hl.Text),
			Position:      hl.StartPosition,
		})
	}

	notes, err := s.store.SearchNotes(ctx, query)
	if err != nil {
		return nil, err
	}
	for _, note := range notes {
		results = append(results, domain.SearchResult{
			Type:          domain.SearchResultNote,
			EntityID:      note.ID,
			DocumentID:    note.DocumentID,
			DocumentTitle: s.documentTitle(ctx, titles, note.DocumentID),
			Snippet:       snippet(note.Text),
			Position:      note.Position,
		})
	}

	s.logger.Debug("search completed", "query", query, "results", len(results))
	return results, nil
}

// documentTitle resolves a document's title for display, caching lookups
// across the hits of one query.
func (s *SearchService) documentTitle(ctx context.Context, cache map[string]string, documentID string) string {
	if title, ok := cache[documentID]; ok {
		return title
	}
	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		cache[documentID] = ""
		return ""
	}
	cache[documentID] = doc.Title
	return doc.Title
}

// snippet returns the first ~100 characters of text, with a trailing
// ellipsis when truncated.
func snippet(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= snippetMaxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:snippetMaxRunes]) + "…"
}
