package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readwellapp/readwell-server/internal/backup"
	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/importer"
	"github.com/readwellapp/readwell-server/internal/parser"
	"github.com/readwellapp/readwell-server/internal/ratelimit"
	"github.com/readwellapp/readwell-server/internal/search"
	"github.com/readwellapp/readwell-server/internal/service"
	"github.com/readwellapp/readwell-server/internal/store/sqlite"
)

// setupTestServer builds a server backed by a temp store and index.
func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	index, err := search.NewIndex(search.Options{
		DataPath: filepath.Join(dir, "search"),
		Logger:   logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })
	st.SetSearchIndexer(index)

	p := parser.New(logger)
	imp, err := importer.New(st, p, nil, filepath.Join(dir, "documents"), logger)
	require.NoError(t, err)

	services := Services{
		Documents:   service.NewDocumentService(st, p, logger),
		Tags:        service.NewTagService(st, logger),
		Collections: service.NewCollectionService(st, logger),
		Annotations: service.NewAnnotationService(st, logger),
		Positions:   service.NewPositionService(st, logger),
		Sessions:    service.NewSessionService(st, logger),
		Stats:       service.NewStatsService(st, logger),
		Search:      service.NewSearchService(st, logger),
		Export:      service.NewExportService(st, logger),
	}

	srv := NewServer(services, imp, backup.New(st, logger), index,
		ratelimit.New(100, 100), logger)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, dir
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestImportAndGetDocument(t *testing.T) {
	ts, dir := setupTestServer(t)

	src := filepath.Join(dir, "essay.txt")
	require.NoError(t, os.WriteFile(src, []byte("a short essay about rivers"), 0o644))

	resp := postJSON(t, ts.URL+"/api/v1/import", ImportRequest{SourcePath: src})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc domain.Document
	decodeBody(t, resp, &doc)
	assert.Equal(t, "essay", doc.Title)
	assert.Equal(t, 5, doc.WordCount)

	getResp, err := http.Get(ts.URL + "/api/v1/documents/" + doc.ID)
	require.NoError(t, err)
	var got domain.Document
	decodeBody(t, getResp, &got)
	assert.Equal(t, doc.ID, got.ID)
}

func TestImport_MissingSourceIsUnprocessable(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/import",
		ImportRequest{SourcePath: "/nonexistent/book.epub"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGetDocument_NotFound(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/documents/doc_missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateTag_InvalidColor(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/tags",
		CreateTagRequest{Name: "Essays", Color: "not-a-color"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearch_EmptyQueryReturnsEmptyList(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/search?q=")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Results []domain.SearchResult `json:"results"`
	}
	decodeBody(t, resp, &body)
	assert.Empty(t, body.Results)
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	ts, dir := setupTestServer(t)

	src := filepath.Join(dir, "novel.txt")
	require.NoError(t, os.WriteFile(src, []byte("words of a novel"), 0o644))
	resp := postJSON(t, ts.URL+"/api/v1/import", ImportRequest{SourcePath: src})
	var doc domain.Document
	decodeBody(t, resp, &doc)

	startResp := postJSON(t, ts.URL+"/api/v1/sessions",
		StartSessionRequest{DocumentID: doc.ID})
	require.Equal(t, http.StatusOK, startResp.StatusCode)
	var session domain.ReadingSession
	decodeBody(t, startResp, &session)

	endResp := postJSON(t, fmt.Sprintf("%s/api/v1/sessions/%s/end", ts.URL, session.ID),
		EndSessionRequest{PagesRead: 3, WordsRead: 700})
	defer endResp.Body.Close()
	assert.Less(t, endResp.StatusCode, 300)

	// Ending a stale session id succeeds silently.
	staleResp := postJSON(t, ts.URL+"/api/v1/sessions/ses_stale/end",
		EndSessionRequest{PagesRead: 1, WordsRead: 100})
	defer staleResp.Body.Close()
	assert.Less(t, staleResp.StatusCode, 300)

	statsResp, err := http.Get(ts.URL + "/api/v1/stats")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, statsResp.StatusCode)
	var stats domain.ReadingStats
	decodeBody(t, statsResp, &stats)
	assert.Equal(t, 1, stats.SessionsToday)
	assert.Equal(t, 700, stats.TotalWordsRead)
}

func TestBackupRoundTripOverHTTP(t *testing.T) {
	ts, dir := setupTestServer(t)

	src := filepath.Join(dir, "keeper.txt")
	require.NoError(t, os.WriteFile(src, []byte("text worth keeping"), 0o644))
	resp := postJSON(t, ts.URL+"/api/v1/import", ImportRequest{SourcePath: src})
	var doc domain.Document
	decodeBody(t, resp, &doc)

	exportResp, err := http.Get(ts.URL + "/api/v1/backup")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, exportResp.StatusCode)
	envelope, err := io.ReadAll(exportResp.Body)
	exportResp.Body.Close()
	require.NoError(t, err)

	// Reimporting into the same library skips everything.
	importResp, err := http.Post(ts.URL+"/api/v1/backup", "application/json",
		bytes.NewReader(envelope))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, importResp.StatusCode)

	var result backup.ImportResult
	decodeBody(t, importResp, &result)
	assert.Zero(t, result.DocumentsRestored)
	assert.Equal(t, 1, result.DocumentsSkipped)
}
