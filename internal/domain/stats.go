package domain

import "time"

// ReadingStats aggregates all closed reading sessions.
type ReadingStats struct {
	TotalReadingTimeSeconds int64  `json:"total_reading_time_seconds"`
	TotalPagesRead          int    `json:"total_pages_read"`
	TotalWordsRead          int    `json:"total_words_read"`
	AverageReadingSpeedWPM  int    `json:"average_reading_speed_wpm"`
	SessionsToday           int    `json:"sessions_today"`
	SessionsThisWeek        int    `json:"sessions_this_week"`
	SessionsThisMonth       int    `json:"sessions_this_month"`
	CurrentStreakDays       int    `json:"current_streak_days"`
	MostReadDocumentID      string `json:"most_read_document_id,omitempty"`
}

// DailyReadingTime is the summed closed-session duration for one calendar day.
type DailyReadingTime struct {
	Date         time.Time `json:"date"`
	TotalSeconds int64     `json:"total_seconds"`
}

// SearchResultType tags the entity kind of a search hit.
type SearchResultType string

// Search result types.
const (
	SearchResultDocument  SearchResultType = "document"
	SearchResultHighlight SearchResultType = "highlight"
	SearchResultNote      SearchResultType = "note"
)

// SearchResult is one hit in the merged cross-entity result list.
type SearchResult struct {
	Type          SearchResultType `json:"type"`
	EntityID      string           `json:"entity_id"`
	DocumentID    string           `json:"document_id"`
	DocumentTitle string           `json:"document_title"`
	Snippet       string           `json:"snippet"`
	Position      int              `json:"position,omitempty"` // highlights and notes only
}
