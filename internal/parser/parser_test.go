package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/readwellapp/readwell-server/internal/domain"
)

func TestParsePlainText(t *testing.T) {
	p := newTestParser()
	path := writeTestFile(t, "notes.txt", []byte("plain text content here"))

	content := p.Parse(path, domain.FormatText)

	assert.Equal(t, "plain text content here", content.Text)
	assert.Empty(t, content.Chapters)
	assert.Empty(t, content.Title)
}

func TestParseUnreadableFileDegrades(t *testing.T) {
	p := newTestParser()

	content := p.Parse("/nonexistent/file.txt", domain.FormatText)

	assert.Empty(t, content.Text)
	assert.NotEmpty(t, content.DisplayText())
}

func TestParseCorruptPDFDegrades(t *testing.T) {
	p := newTestParser()
	path := writeTestFile(t, "broken.pdf", []byte("%PDF-1.4 garbage"))

	content := p.Parse(path, domain.FormatPDF)

	assert.Empty(t, content.Text)
	assert.NotEmpty(t, content.DisplayText())

	m := ComputeMetrics(content.Text, domain.FormatPDF)
	assert.Equal(t, 10, m.PageCount)
}

func TestDisplayTextPrefersExtractedText(t *testing.T) {
	c := &ParsedContent{Text: "real text", Placeholder: "placeholder"}
	assert.Equal(t, "real text", c.DisplayText())

	c = &ParsedContent{Placeholder: "placeholder"}
	assert.Equal(t, "placeholder", c.DisplayText())

	c = &ParsedContent{}
	assert.NotEmpty(t, c.DisplayText())
}

func TestExtractVisibleText(t *testing.T) {
	text := extractVisibleText(`<html><body>
		<h1>Heading</h1>
		<p>Some   spaced   text.</p>
		<script>var x = 1;</script>
		<style>.a { color: red }</style>
	</body></html>`)

	assert.Contains(t, text, "Heading")
	assert.Contains(t, text, "Some spaced text.")
	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "color: red")
}

func TestHTMLToMarkdown(t *testing.T) {
	md := htmlToMarkdown("<p>A <strong>bold</strong> claim.</p>")
	assert.Contains(t, md, "**bold**")

	// Plain text passes through untouched.
	assert.Equal(t, "no markup", htmlToMarkdown("no markup"))
}
