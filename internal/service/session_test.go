package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readwellapp/readwell-server/internal/store"
)

func TestStartAndEndSession(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())
	doc := mustCreateDocument(t, st, "Walden")

	session, err := svc.StartSession(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.True(t, session.IsOpen())

	withFixedNow(t, session.StartTime.Add(25*time.Minute))
	require.NoError(t, svc.EndSession(context.Background(), session.ID, 12, 3000))

	got, err := svc.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.False(t, got.IsOpen())
	assert.Equal(t, int64(1500), got.DurationSeconds)
	assert.Equal(t, 12, got.PagesRead)
	assert.Equal(t, 3000, got.WordsRead)
}

func TestStartSession_UnknownDocument(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())

	_, err := svc.StartSession(context.Background(), "doc_missing")
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
}

func TestEndSession_UnknownIDIsNoOp(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())

	assert.NoError(t, svc.EndSession(context.Background(), "ses_stale", 3, 500))
}

func TestEndSession_AlreadyClosedIsNoOp(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())
	doc := mustCreateDocument(t, st, "Walden")

	session, err := svc.StartSession(context.Background(), doc.ID)
	require.NoError(t, err)
	require.NoError(t, svc.EndSession(context.Background(), session.ID, 5, 800))

	// A second end must not overwrite the recorded values.
	require.NoError(t, svc.EndSession(context.Background(), session.ID, 99, 99999))

	got, err := svc.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.PagesRead)
	assert.Equal(t, 800, got.WordsRead)
}
