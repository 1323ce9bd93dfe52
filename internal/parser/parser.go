// Package parser converts imported files into a canonical text and
// structure representation. Parsers degrade, they do not fail: every
// parse returns a usable ParsedContent even for corrupt input.
package parser

import (
	"log/slog"

	"github.com/readwellapp/readwell-server/internal/domain"
)

// Chapter is one entry in a document's table of contents.
type Chapter struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Href  string `json:"href"`
	Order int    `json:"order"`
}

// ParsedContent is the canonical representation produced by every parser:
// metadata, flattened visible text, and an optional chapter list.
// Text holds only genuinely extracted text; when extraction produced
// nothing, Placeholder carries an explanatory message instead, so the
// metrics calculator still sees zero words.
type ParsedContent struct {
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	Publisher   string    `json:"publisher"`
	PublishDate string    `json:"publish_date"`
	Text        string    `json:"text"`
	Placeholder string    `json:"placeholder,omitempty"`
	Chapters    []Chapter `json:"chapters,omitempty"`
}

// DisplayText returns the extracted text, or the placeholder when
// extraction yielded nothing. Never empty.
func (c *ParsedContent) DisplayText() string {
	if c.Text != "" {
		return c.Text
	}
	if c.Placeholder != "" {
		return c.Placeholder
	}
	return "No text could be extracted from this document."
}

// Parser dispatches files to the format-specific extraction paths.
type Parser struct {
	logger *slog.Logger
}

// New creates a parser.
func New(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse extracts content from the file at path according to its format.
// It never returns an error: extraction failures produce degraded content
// with default metadata and placeholder text.
func (p *Parser) Parse(path string, format domain.DocumentFormat) *ParsedContent {
	switch format {
	case domain.FormatEPUB:
		return p.parseEPUB(path)
	case domain.FormatDOCX:
		return p.parseDOCX(path)
	case domain.FormatPDF:
		return p.parsePDF(path)
	default:
		return p.parseText(path)
	}
}
