package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats_Empty(t *testing.T) {
	st := newTestStore(t)
	svc := NewStatsService(st, testLogger())

	stats, err := svc.ComputeStats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalReadingTimeSeconds)
	assert.Zero(t, stats.AverageReadingSpeedWPM)
	assert.Zero(t, stats.CurrentStreakDays)
	assert.Empty(t, stats.MostReadDocumentID)
}

func TestComputeStats_Totals(t *testing.T) {
	st := newTestStore(t)
	svc := NewStatsService(st, testLogger())

	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.Local)
	withFixedNow(t, now)

	doc := mustCreateDocument(t, st, "Walden")
	// Two sessions, 10 minutes total, 2000 words: 200 WPM.
	mustCreateClosedSession(t, st, doc.ID, now.Add(-2*time.Hour), 300, 4, 900)
	mustCreateClosedSession(t, st, doc.ID, now.Add(-1*time.Hour), 300, 5, 1100)

	stats, err := svc.ComputeStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(600), stats.TotalReadingTimeSeconds)
	assert.Equal(t, 9, stats.TotalPagesRead)
	assert.Equal(t, 2000, stats.TotalWordsRead)
	assert.Equal(t, 200, stats.AverageReadingSpeedWPM)
	assert.Equal(t, 2, stats.SessionsToday)
	assert.Equal(t, 2, stats.SessionsThisWeek)
	assert.Equal(t, 2, stats.SessionsThisMonth)
	assert.Equal(t, doc.ID, stats.MostReadDocumentID)
}

func TestComputeStats_WindowCountsUseStartTime(t *testing.T) {
	st := newTestStore(t)
	svc := NewStatsService(st, testLogger())

	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.Local)
	withFixedNow(t, now)

	doc := mustCreateDocument(t, st, "Walden")
	// Started 23:50 yesterday, ended 00:10 today. The session began
	// yesterday, so it is not one of today's sessions.
	end := time.Date(2026, 8, 30, 0, 10, 0, 0, time.Local)
	mustCreateClosedSession(t, st, doc.ID, end, 1200, 6, 800)

	stats, err := svc.ComputeStats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.SessionsToday)
	assert.Equal(t, 1, stats.SessionsThisWeek)
	assert.Equal(t, 1, stats.SessionsThisMonth)
	assert.Equal(t, int64(1200), stats.TotalReadingTimeSeconds)
}

func TestComputeStats_OpenSessionsDoNotCount(t *testing.T) {
	st := newTestStore(t)
	svc := NewStatsService(st, testLogger())
	sessions := NewSessionService(st, testLogger())

	doc := mustCreateDocument(t, st, "Walden")
	_, err := sessions.StartSession(context.Background(), doc.ID)
	require.NoError(t, err)

	stats, err := svc.ComputeStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.SessionsToday)
	assert.Zero(t, stats.TotalReadingTimeSeconds)
}

func TestComputeStats_Streak(t *testing.T) {
	now := time.Date(2026, 8, 30, 20, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		daysAgo  []int // days with a closed session
		expected int
	}{
		{"three day run ending today", []int{0, 1, 2}, 3},
		{"gap before the run", []int{0, 1, 2, 4, 5}, 3},
		{"only yesterday", []int{1}, 0},
		{"today only", []int{0}, 1},
		{"no sessions", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestStore(t)
			svc := NewStatsService(st, testLogger())
			withFixedNow(t, now)

			doc := mustCreateDocument(t, st, "Walden")
			for _, d := range tt.daysAgo {
				end := now.AddDate(0, 0, -d)
				mustCreateClosedSession(t, st, doc.ID, end, 600, 3, 500)
			}

			stats, err := svc.ComputeStats(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stats.CurrentStreakDays)
		})
	}
}

func TestComputeStats_MostReadDocumentTieBreak(t *testing.T) {
	st := newTestStore(t)
	svc := NewStatsService(st, testLogger())

	now := time.Now()
	docA := mustCreateDocument(t, st, "Alpha")
	docB := mustCreateDocument(t, st, "Beta")
	mustCreateClosedSession(t, st, docA.ID, now, 600, 3, 500)
	mustCreateClosedSession(t, st, docB.ID, now, 600, 3, 500)

	stats, err := svc.ComputeStats(context.Background())
	require.NoError(t, err)

	expected := docA.ID
	if docB.ID < docA.ID {
		expected = docB.ID
	}
	assert.Equal(t, expected, stats.MostReadDocumentID)
}

func TestDailyReadingTime(t *testing.T) {
	st := newTestStore(t)
	svc := NewStatsService(st, testLogger())

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local)
	withFixedNow(t, now)

	doc := mustCreateDocument(t, st, "Walden")
	mustCreateClosedSession(t, st, doc.ID, now.Add(-time.Hour), 900, 5, 1000)
	mustCreateClosedSession(t, st, doc.ID, now.AddDate(0, 0, -2), 300, 2, 400)

	daily, err := svc.DailyReadingTime(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, daily, 3)

	// Most recent day first; the gap day reports zero.
	assert.Equal(t, int64(900), daily[0].TotalSeconds)
	assert.Equal(t, int64(0), daily[1].TotalSeconds)
	assert.Equal(t, int64(300), daily[2].TotalSeconds)
	assert.True(t, daily[0].Date.After(daily[1].Date))
	assert.True(t, daily[1].Date.After(daily[2].Date))
}

func TestDailyReadingTime_NonPositiveDays(t *testing.T) {
	st := newTestStore(t)
	svc := NewStatsService(st, testLogger())

	daily, err := svc.DailyReadingTime(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, daily)
}
