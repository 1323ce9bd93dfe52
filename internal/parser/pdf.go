package parser

import (
	"strings"

	"rsc.io/pdf"
)

const pdfPlaceholderText = "Text extraction is not available for this PDF."

// parsePDF attempts best-effort text extraction. PDF extraction fails
// often enough that an empty result is an expected outcome; the metrics
// calculator then applies the fixed page fallback.
func (p *Parser) parsePDF(path string) *ParsedContent {
	content := &ParsedContent{Placeholder: pdfPlaceholderText}

	text := func() (extracted string) {
		// The pdf library panics on malformed files.
		defer func() {
			if r := recover(); r != nil {
				p.logger.Warn("pdf extraction panicked", "path", path, "panic", r)
				extracted = ""
			}
		}()

		reader, err := pdf.Open(path)
		if err != nil {
			p.logger.Warn("failed to open pdf", "path", path, "error", err)
			return ""
		}

		var pages []string
		for i := 1; i <= reader.NumPage(); i++ {
			page := reader.Page(i)
			if page.V.IsNull() {
				continue
			}
			var b strings.Builder
			for _, item := range page.Content().Text {
				b.WriteString(item.S)
				b.WriteByte(' ')
			}
			if pageText := collapseWhitespace(b.String()); pageText != "" {
				pages = append(pages, pageText)
			}
		}
		return strings.Join(pages, "\n\n")
	}()

	content.Text = text
	return content
}
