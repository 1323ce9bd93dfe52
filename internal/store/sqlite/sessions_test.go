package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/store"
)

func TestCreateAndCloseReadingSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := mustCreateDocument(t, s, "doc-1", "Session Target")

	sess := domain.NewReadingSession("rsession-1", doc.ID)
	if err := s.CreateReadingSession(ctx, sess); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	got, err := s.GetReadingSession(ctx, "rsession-1")
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if !got.IsOpen() {
		t.Fatal("freshly created session should be open")
	}

	got.Close(got.StartTime.Add(25*time.Minute+30*time.Second), 12, 3000)
	if err := s.UpdateReadingSession(ctx, got); err != nil {
		t.Fatalf("failed to update session: %v", err)
	}

	closed, err := s.GetReadingSession(ctx, "rsession-1")
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if closed.IsOpen() {
		t.Error("session still open after close")
	}
	if closed.DurationSeconds != 1530 {
		t.Errorf("duration = %d, want 1530", closed.DurationSeconds)
	}
	if closed.PagesRead != 12 || closed.WordsRead != 3000 {
		t.Errorf("counters = (%d, %d), want (12, 3000)", closed.PagesRead, closed.WordsRead)
	}
}

func TestCreateReadingSessionMissingDocument(t *testing.T) {
	s := newTestStore(t)

	err := s.CreateReadingSession(context.Background(),
		domain.NewReadingSession("rsession-1", "doc-missing"))
	if se, ok := err.(*store.Error); !ok || se.Code != store.ErrNotFound.Code {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestUpdateReadingSessionNotFound(t *testing.T) {
	s := newTestStore(t)

	sess := domain.NewReadingSession("rsession-missing", "doc-1")
	if err := s.UpdateReadingSession(context.Background(), sess); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListClosedReadingSessionsExcludesOpen(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := mustCreateDocument(t, s, "doc-1", "Session Target")

	open := domain.NewReadingSession("rsession-open", doc.ID)
	if err := s.CreateReadingSession(ctx, open); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	closed := domain.NewReadingSession("rsession-closed", doc.ID)
	closed.Close(closed.StartTime.Add(5*time.Minute), 3, 600)
	if err := s.CreateReadingSession(ctx, closed); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	sessions, err := s.ListClosedReadingSessions(ctx)
	if err != nil {
		t.Fatalf("failed to list closed sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != "rsession-closed" {
		t.Errorf("got %d sessions, want rsession-closed only", len(sessions))
	}

	all, err := s.ListReadingSessions(ctx)
	if err != nil {
		t.Fatalf("failed to list sessions: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all sessions = %d, want 2", len(all))
	}
}

func TestGetDocumentSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc1 := mustCreateDocument(t, s, "doc-1", "A")
	doc2 := mustCreateDocument(t, s, "doc-2", "B")

	if err := s.CreateReadingSession(ctx, domain.NewReadingSession("rsession-1", doc1.ID)); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if err := s.CreateReadingSession(ctx, domain.NewReadingSession("rsession-2", doc2.ID)); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	sessions, err := s.GetDocumentSessions(ctx, doc1.ID)
	if err != nil {
		t.Fatalf("failed to get document sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != "rsession-1" {
		t.Errorf("got %d sessions, want rsession-1 only", len(sessions))
	}
}
