package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/store"
)

func TestExportMarkdown(t *testing.T) {
	st := newTestStore(t)
	svc := NewExportService(st, testLogger())
	annotations := NewAnnotationService(st, testLogger())

	doc := mustCreateDocument(t, st, "Walden")
	hl, err := annotations.CreateHighlight(context.Background(), doc.ID,
		domain.HighlightQuote, "I went to the woods", 40, 59, "#ffcc00")
	require.NoError(t, err)
	_, err = annotations.CreateNote(context.Background(), doc.ID, hl.ID,
		"opening of chapter two", 40)
	require.NoError(t, err)
	_, err = annotations.CreateNote(context.Background(), doc.ID, "",
		"reread the pond descriptions", 300)
	require.NoError(t, err)

	md, err := svc.ExportMarkdown(context.Background(), doc.ID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(md, "# Walden\n"))
	assert.Contains(t, md, "## Highlights")
	assert.Contains(t, md, "> I went to the woods")
	assert.Contains(t, md, "*quote, position 40*")
	assert.Contains(t, md, "- Note: opening of chapter two")
	assert.Contains(t, md, "## Notes")
	assert.Contains(t, md, "- reread the pond descriptions *(position 300)*")
}

func TestExportJSON(t *testing.T) {
	st := newTestStore(t)
	svc := NewExportService(st, testLogger())
	annotations := NewAnnotationService(st, testLogger())

	doc := mustCreateDocument(t, st, "Walden")
	_, err := annotations.CreateHighlight(context.Background(), doc.ID,
		domain.HighlightIdea, "economy of living", 5, 22, "")
	require.NoError(t, err)

	data, err := svc.ExportJSON(context.Background(), doc.ID)
	require.NoError(t, err)

	var export DocumentExport
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, doc.ID, export.Document.ID)
	require.Len(t, export.Highlights, 1)
	assert.Equal(t, "economy of living", export.Highlights[0].Text)
	assert.Empty(t, export.Notes)
	assert.False(t, export.ExportedAt.IsZero())
}

func TestExport_UnknownDocument(t *testing.T) {
	st := newTestStore(t)
	svc := NewExportService(st, testLogger())

	_, err := svc.ExportMarkdown(context.Background(), "doc_missing")
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
}
