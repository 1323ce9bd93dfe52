package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/store"
)

// ExportService serializes a document's annotations for use outside the
// library. Full-library backup lives in the backup package; this is the
// per-document surface.
type ExportService struct {
	store  store.Store
	logger *slog.Logger
}

// NewExportService creates a new export service.
func NewExportService(st store.Store, logger *slog.Logger) *ExportService {
	return &ExportService{store: st, logger: logger}
}

// DocumentExport is the JSON shape of a per-document annotation export.
type DocumentExport struct {
	ExportedAt time.Time           `json:"exported_at"`
	Document   *domain.Document    `json:"document"`
	Highlights []*domain.Highlight `json:"highlights"`
	Notes      []*domain.Note      `json:"notes"`
}

// ExportJSON returns a document's highlights and notes as indented JSON.
func (s *ExportService) ExportJSON(ctx context.Context, documentID string) ([]byte, error) {
	export, err := s.collect(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(export, "", "  ")
}

// ExportMarkdown renders a document's highlights and notes as a Markdown
// document. Notes attached to a highlight appear nested under it;
// standalone notes get their own section.
func (s *ExportService) ExportMarkdown(ctx context.Context, documentID string) (string, error) {
	export, err := s.collect(ctx, documentID)
	if err != nil {
		return "", err
	}

	notesByHighlight := make(map[string][]*domain.Note)
	var standalone []*domain.Note
	for _, note := range export.Notes {
		if note.HighlightID != "" {
			notesByHighlight[note.HighlightID] = append(notesByHighlight[note.HighlightID], note)
		} else {
			standalone = append(standalone, note)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", export.Document.Title)
	if export.Document.Author != "" {
		fmt.Fprintf(&b, "by %s\n\n", export.Document.Author)
	}
	fmt.Fprintf(&b, "Exported %s\n", export.ExportedAt.Format("2006-01-02"))

	if len(export.Highlights) > 0 {
		b.WriteString("\n## Highlights\n")
		for _, hl := range export.Highlights {
			fmt.Fprintf(&b, "\n> %s\n", strings.ReplaceAll(hl.Text, "\n", "\n> "))
			fmt.Fprintf(&b, "\n*%s, position %d*\n", hl.Type, hl.StartPosition)
			for _, note := range notesByHighlight[hl.ID] {
				fmt.Fprintf(&b, "\n- Note: %s\n", note.Text)
			}
		}
	}

	if len(standalone) > 0 {
		b.WriteString("\n## Notes\n")
		for _, note := range standalone {
			fmt.Fprintf(&b, "\n- %s *(position %d)*\n", note.Text, note.Position)
		}
	}

	return b.String(), nil
}

// collect loads the document and its annotations in reading order.
func (s *ExportService) collect(ctx context.Context, documentID string) (*DocumentExport, error) {
	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	highlights, err := s.store.GetDocumentHighlights(ctx, documentID)
	if err != nil {
		return nil, err
	}
	notes, err := s.store.GetDocumentNotes(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return &DocumentExport{
		ExportedAt: nowFunc(),
		Document:   doc,
		Highlights: highlights,
		Notes:      notes,
	}, nil
}
