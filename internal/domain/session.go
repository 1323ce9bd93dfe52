package domain

import "time"

// ReadingSession is one continuous reading interval for a document.
// EndTime is nil while the session is open. Callers are expected to keep
// at most one open session per document; the data layer does not enforce it.
type ReadingSession struct {
	ID              string     `json:"id"`
	DocumentID      string     `json:"document_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	PagesRead       int        `json:"pages_read"`
	WordsRead       int        `json:"words_read"`
	DurationSeconds int64      `json:"duration_seconds"`
}

// NewReadingSession creates an open session starting now.
func NewReadingSession(id, documentID string) *ReadingSession {
	return &ReadingSession{
		ID:         id,
		DocumentID: documentID,
		StartTime:  time.Now(),
	}
}

// IsOpen returns true if the session has not been closed yet.
func (s *ReadingSession) IsOpen() bool {
	return s.EndTime == nil
}

// Close ends the session at the given time, recording pages/words read.
// Duration is the whole-second interval between start and end.
func (s *ReadingSession) Close(end time.Time, pagesRead, wordsRead int) {
	s.EndTime = &end
	s.PagesRead = pagesRead
	s.WordsRead = wordsRead
	s.DurationSeconds = int64(end.Sub(s.StartTime).Seconds())
	if s.DurationSeconds < 0 {
		s.DurationSeconds = 0
	}
}
