package parser

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readwellapp/readwell-server/internal/domain"
)

const testDocumentXML = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph </w:t></w:r><w:r><w:t>with two runs.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

func buildTestDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestParseDOCX(t *testing.T) {
	p := newTestParser()
	path := writeTestFile(t, "doc.docx", buildTestDOCX(t, testDocumentXML))

	content := p.Parse(path, domain.FormatDOCX)

	assert.Contains(t, content.Text, "First paragraph with two runs.")
	assert.Contains(t, content.Text, "Second paragraph.")
	assert.Empty(t, content.Chapters)
}

func TestParseDOCXParagraphSeparation(t *testing.T) {
	p := newTestParser()
	path := writeTestFile(t, "doc.docx", buildTestDOCX(t, testDocumentXML))

	content := p.Parse(path, domain.FormatDOCX)

	assert.Equal(t, "First paragraph with two runs.\n\nSecond paragraph.", content.Text)
}

func TestParseDOCXCorruptDegrades(t *testing.T) {
	p := newTestParser()
	path := writeTestFile(t, "broken.docx", []byte("not a zip"))

	content := p.Parse(path, domain.FormatDOCX)

	assert.Empty(t, content.Text)
	assert.NotEmpty(t, content.DisplayText())

	m := ComputeMetrics(content.Text, domain.FormatDOCX)
	assert.Equal(t, 5, m.PageCount)
}

func TestParseDOCXMissingDocumentPart(t *testing.T) {
	p := newTestParser()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	path := writeTestFile(t, "partial.docx", buf.Bytes())
	content := p.Parse(path, domain.FormatDOCX)

	assert.Empty(t, content.Text)
	assert.NotEmpty(t, content.DisplayText())
}
