package backup

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/id"
	"github.com/readwellapp/readwell-server/internal/store"
	"github.com/readwellapp/readwell-server/internal/store/sqlite"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedLibrary(t *testing.T, st store.Store) (docIDs []string, highlightTexts, noteTexts []string) {
	t.Helper()
	ctx := context.Background()

	for _, title := range []string{"Walden", "Dune"} {
		docID := id.MustGenerate("doc")
		doc := domain.NewDocument(docID, title, "/library/"+docID+".txt", domain.FormatText)
		require.NoError(t, st.CreateDocument(ctx, doc))
		docIDs = append(docIDs, docID)

		hl := domain.NewHighlight(id.MustGenerate("hl"), docID,
			domain.HighlightQuote, "a line from "+title, 10, 30, "")
		require.NoError(t, st.CreateHighlight(ctx, hl))
		highlightTexts = append(highlightTexts, hl.Text)

		note := domain.NewNote(id.MustGenerate("note"), docID, hl.ID, "thought on "+title, 10)
		require.NoError(t, st.CreateNote(ctx, note))
		noteTexts = append(noteTexts, note.Text)
	}
	return docIDs, highlightTexts, noteTexts
}

func TestExport_Envelope(t *testing.T) {
	st := newTestStore(t)
	svc := New(st, testLogger())
	seedLibrary(t, st)

	data, err := svc.Export(context.Background())
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, FormatVersion, env.Version)
	assert.NotEmpty(t, env.ExportID)
	assert.False(t, env.ExportedAt.IsZero())
	assert.Len(t, env.Documents, 2)
	assert.Len(t, env.Highlights, 2)
	assert.Len(t, env.Notes, 2)

	// Envelope keys are camelCase.
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "exportId")
	assert.Contains(t, raw, "exportedAt")
	assert.NotContains(t, raw, "export_id")
}

func TestRoundTrip(t *testing.T) {
	source := newTestStore(t)
	docIDs, highlightTexts, noteTexts := seedLibrary(t, source)

	data, err := New(source, testLogger()).Export(context.Background())
	require.NoError(t, err)

	target := newTestStore(t)
	result, err := New(target, testLogger()).Import(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 2, result.DocumentsRestored)
	assert.Zero(t, result.DocumentsSkipped)

	ctx := context.Background()
	for _, docID := range docIDs {
		_, err := target.GetDocument(ctx, docID)
		assert.NoError(t, err)
	}

	highlights, err := target.ListHighlights(ctx)
	require.NoError(t, err)
	var gotHighlights []string
	for _, hl := range highlights {
		gotHighlights = append(gotHighlights, hl.Text)
	}
	assert.ElementsMatch(t, highlightTexts, gotHighlights)

	notes, err := target.ListNotes(ctx)
	require.NoError(t, err)
	var gotNotes []string
	for _, note := range notes {
		gotNotes = append(gotNotes, note.Text)
	}
	assert.ElementsMatch(t, noteTexts, gotNotes)
}

func TestImport_ReimportIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	svc := New(st, testLogger())
	seedLibrary(t, st)

	data, err := svc.Export(context.Background())
	require.NoError(t, err)

	result, err := svc.Import(context.Background(), data)
	require.NoError(t, err)
	assert.Zero(t, result.DocumentsRestored)
	assert.Equal(t, 2, result.DocumentsSkipped)
	assert.Zero(t, result.HighlightsRestored)
	assert.Zero(t, result.NotesRestored)

	docs, err := st.ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestImport_RejectsUnknownVersion(t *testing.T) {
	st := newTestStore(t)
	svc := New(st, testLogger())

	_, err := svc.Import(context.Background(), []byte(`{"version":"2.0"}`))
	require.Error(t, err)

	_, err = svc.Import(context.Background(), []byte(`{}`))
	require.Error(t, err)
}

func TestImport_MalformedJSON(t *testing.T) {
	st := newTestStore(t)
	svc := New(st, testLogger())

	_, err := svc.Import(context.Background(), []byte("not json"))
	require.Error(t, err)
}
