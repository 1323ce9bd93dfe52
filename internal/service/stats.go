package service

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/store"
)

// StatsService derives reading statistics from closed sessions.
// Open sessions never count. Window session counts go by when a
// session started; daily totals and the streak go by the local day
// the session ended on.
type StatsService struct {
	store  store.Store
	logger *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(st store.Store, logger *slog.Logger) *StatsService {
	return &StatsService{store: st, logger: logger}
}

const dayKeyFormat = "2006-01-02"

// ComputeStats aggregates all closed sessions into headline statistics.
func (s *StatsService) ComputeStats(ctx context.Context) (*domain.ReadingStats, error) {
	sessions, err := s.store.ListClosedReadingSessions(ctx)
	if err != nil {
		return nil, err
	}

	now := nowFunc()
	dayStart := startOfDay(now)
	weekStart := dayStart.AddDate(0, 0, -6)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := &domain.ReadingStats{}
	activeDays := make(map[string]bool)
	perDocument := make(map[string]int64)

	for _, session := range sessions {
		start := session.StartTime.In(now.Location())
		end := session.EndTime.In(now.Location())

		stats.TotalReadingTimeSeconds += session.DurationSeconds
		stats.TotalPagesRead += session.PagesRead
		stats.TotalWordsRead += session.WordsRead
		perDocument[session.DocumentID] += session.DurationSeconds
		activeDays[end.Format(dayKeyFormat)] = true

		if !start.Before(dayStart) {
			stats.SessionsToday++
		}
		if !start.Before(weekStart) {
			stats.SessionsThisWeek++
		}
		if !start.Before(monthStart) {
			stats.SessionsThisMonth++
		}
	}

	if stats.TotalReadingTimeSeconds > 0 {
		minutes := float64(stats.TotalReadingTimeSeconds) / 60
		stats.AverageReadingSpeedWPM = int(math.Round(float64(stats.TotalWordsRead) / minutes))
	}

	stats.CurrentStreakDays = streakEndingOn(activeDays, dayStart)

	// Most total time wins; equal times resolve to the smaller id so the
	// answer is stable across runs.
	var bestSeconds int64
	for docID, seconds := range perDocument {
		if seconds > bestSeconds || (seconds == bestSeconds && seconds > 0 && docID < stats.MostReadDocumentID) {
			bestSeconds = seconds
			stats.MostReadDocumentID = docID
		}
	}

	return stats, nil
}

// DailyReadingTime returns per-day reading totals for the most recent
// days, today first. Days without reading appear with a zero total.
func (s *StatsService) DailyReadingTime(ctx context.Context, days int) ([]domain.DailyReadingTime, error) {
	if days <= 0 {
		return []domain.DailyReadingTime{}, nil
	}

	sessions, err := s.store.ListClosedReadingSessions(ctx)
	if err != nil {
		return nil, err
	}

	now := nowFunc()
	totals := make(map[string]int64)
	for _, session := range sessions {
		key := session.EndTime.In(now.Location()).Format(dayKeyFormat)
		totals[key] += session.DurationSeconds
	}

	result := make([]domain.DailyReadingTime, 0, days)
	day := startOfDay(now)
	for i := 0; i < days; i++ {
		result = append(result, domain.DailyReadingTime{
			Date:         day,
			TotalSeconds: totals[day.Format(dayKeyFormat)],
		})
		day = day.AddDate(0, 0, -1)
	}
	return result, nil
}

// streakEndingOn counts consecutive active days walking backwards from
// today. A run that does not include today is not a current streak.
func streakEndingOn(activeDays map[string]bool, today time.Time) int {
	streak := 0
	for day := today; activeDays[day.Format(dayKeyFormat)]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
