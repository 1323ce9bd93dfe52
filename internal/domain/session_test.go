package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReadingSession(t *testing.T) {
	session := NewReadingSession("rsession-1", "doc-1")

	require.NotNil(t, session)
	assert.Equal(t, "rsession-1", session.ID)
	assert.Equal(t, "doc-1", session.DocumentID)
	assert.False(t, session.StartTime.IsZero())
	assert.Nil(t, session.EndTime)
	assert.True(t, session.IsOpen())
}

func TestReadingSession_Close(t *testing.T) {
	session := NewReadingSession("rsession-1", "doc-1")
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	session.StartTime = start

	end := start.Add(25*time.Minute + 30*time.Second)
	session.Close(end, 12, 3000)

	assert.False(t, session.IsOpen())
	require.NotNil(t, session.EndTime)
	assert.Equal(t, end, *session.EndTime)
	assert.Equal(t, 12, session.PagesRead)
	assert.Equal(t, 3000, session.WordsRead)
	assert.Equal(t, int64(25*60+30), session.DurationSeconds)
}

func TestReadingSession_Close_ClockSkew(t *testing.T) {
	// An end time before the start must not produce a negative duration.
	session := NewReadingSession("rsession-1", "doc-1")
	session.StartTime = time.Now()

	session.Close(session.StartTime.Add(-time.Minute), 0, 0)
	assert.Equal(t, int64(0), session.DurationSeconds)
}
