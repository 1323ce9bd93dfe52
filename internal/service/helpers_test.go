package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

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

func mustCreateDocument(t *testing.T, st store.Store, title string) *domain.Document {
	t.Helper()
	docID := id.MustGenerate("doc")
	doc := domain.NewDocument(docID, title, "/library/"+docID+".txt", domain.FormatText)
	require.NoError(t, st.CreateDocument(context.Background(), doc))
	return doc
}

// mustCreateClosedSession inserts a session ending at end with the given
// duration, pages, and words.
func mustCreateClosedSession(t *testing.T, st store.Store, documentID string, end time.Time, seconds int64, pages, words int) *domain.ReadingSession {
	t.Helper()
	session := domain.NewReadingSession(id.MustGenerate("ses"), documentID)
	session.StartTime = end.Add(-time.Duration(seconds) * time.Second)
	require.NoError(t, st.CreateReadingSession(context.Background(), session))

	session.EndTime = &end
	session.PagesRead = pages
	session.WordsRead = words
	session.DurationSeconds = seconds
	require.NoError(t, st.UpdateReadingSession(context.Background(), session))
	return session
}

// withFixedNow pins the service clock for the duration of a test.
func withFixedNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = prev })
}
