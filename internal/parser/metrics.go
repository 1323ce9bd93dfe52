package parser

import (
	"strings"

	"github.com/readwellapp/readwell-server/internal/domain"
)

// Reading-speed constants. 200 wpm is a common silent-reading average;
// 250 words approximates one printed page.
const (
	wordsPerMinute = 200
	wordsPerPage   = 250
)

// Fixed page estimates for formats whose extraction commonly yields no
// text. Reporting 0 pages would leave a degenerate progress display.
const (
	fallbackPagesPDF     = 10
	fallbackPagesArchive = 5
)

// Metrics are the derived reading metrics for a document.
type Metrics struct {
	WordCount            int `json:"word_count"`
	EstimatedReadingTime int `json:"estimated_reading_time"` // minutes
	PageCount            int `json:"page_count"`
}

// ComputeMetrics derives word count, reading time, and page count from
// extracted text. When extraction yielded no words, page count falls back
// to a fixed per-format estimate instead of 0.
func ComputeMetrics(text string, format domain.DocumentFormat) Metrics {
	wc := len(strings.Fields(text))

	m := Metrics{
		WordCount:            wc,
		EstimatedReadingTime: ceilDiv(wc, wordsPerMinute),
	}

	if wc == 0 {
		switch format {
		case domain.FormatPDF:
			m.PageCount = fallbackPagesPDF
		case domain.FormatEPUB, domain.FormatDOCX:
			m.PageCount = fallbackPagesArchive
		default:
			m.PageCount = 1
		}
		return m
	}

	m.PageCount = max(ceilDiv(wc, wordsPerPage), 1)
	return m
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
