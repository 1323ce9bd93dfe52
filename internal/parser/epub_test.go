package parser

import (
	"archive/zip"
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/errors"
)

func newTestParser() *Parser {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeTestFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

const testContainerXML = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const testOPF = `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" xmlns:dc="http://purl.org/dc/elements/1.1/" version="3.0">
  <metadata>
    <dc:title>Winds of Change</dc:title>
    <dc:creator>J. Author</dc:creator>
    <dc:description>&lt;p&gt;A story of &lt;b&gt;weather&lt;/b&gt;.&lt;/p&gt;</dc:description>
    <dc:language>de</dc:language>
    <dc:publisher>Example Press</dc:publisher>
    <dc:date>2021-03-01</dc:date>
  </metadata>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="c1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="c2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
    <item id="css" href="styles.css" media-type="text/css"/>
  </manifest>
</package>`

const testNav = `<html xmlns="http://www.w3.org/1999/xhtml">
<body><nav epub:type="toc">
  <ol>
    <li><a href="ch1.xhtml">The Storm</a></li>
    <li><a href="ch2.xhtml">The Calm</a></li>
  </ol>
</nav></body></html>`

func buildTestEPUB(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func standardTestEPUB(t *testing.T) []byte {
	return buildTestEPUB(t, map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": testContainerXML,
		"OEBPS/content.opf":      testOPF,
		"OEBPS/nav.xhtml":        testNav,
		"OEBPS/ch1.xhtml":        `<html><head><style>p{}</style></head><body><p>It was a dark and stormy night.</p></body></html>`,
		"OEBPS/ch2.xhtml":        `<html><body><p>The morning came quietly.</p><script>alert(1)</script></body></html>`,
		"OEBPS/styles.css":       "body {}",
	})
}

func TestParseEPUBMetadata(t *testing.T) {
	p := newTestParser()
	path := writeTestFile(t, "book.epub", standardTestEPUB(t))

	content := p.Parse(path, domain.FormatEPUB)

	assert.Equal(t, "Winds of Change", content.Title)
	assert.Equal(t, "J. Author", content.Author)
	assert.Equal(t, "de", content.Language)
	assert.Equal(t, "Example Press", content.Publisher)
	assert.Equal(t, "2021-03-01", content.PublishDate)
	assert.Contains(t, content.Description, "weather")
	assert.NotContains(t, content.Description, "<b>")
}

func TestParseEPUBChaptersPreferNavLabels(t *testing.T) {
	p := newTestParser()
	path := writeTestFile(t, "book.epub", standardTestEPUB(t))

	content := p.Parse(path, domain.FormatEPUB)

	require.Len(t, content.Chapters, 2)
	assert.Equal(t, "The Storm", content.Chapters[0].Title)
	assert.Equal(t, "The Calm", content.Chapters[1].Title)
	assert.Equal(t, "ch1.xhtml", content.Chapters[0].Href)
	assert.Equal(t, 1, content.Chapters[0].Order)
	assert.Equal(t, 2, content.Chapters[1].Order)
}

func TestParseEPUBFlattenedText(t *testing.T) {
	p := newTestParser()
	path := writeTestFile(t, "book.epub", standardTestEPUB(t))

	content := p.Parse(path, domain.FormatEPUB)

	assert.Contains(t, content.Text, "It was a dark and stormy night.")
	assert.Contains(t, content.Text, "The morning came quietly.")
	assert.NotContains(t, content.Text, "alert(1)")
	assert.NotContains(t, content.Text, "p{}")
}

func TestParseEPUBSynthesizedChapterTitles(t *testing.T) {
	p := newTestParser()
	data := buildTestEPUB(t, map[string]string{
		"META-INF/container.xml": testContainerXML,
		"OEBPS/content.opf": `<package xmlns:dc="http://purl.org/dc/elements/1.1/">
			<metadata><dc:title>No Nav</dc:title></metadata>
			<manifest>
				<item id="c1" href="a.xhtml" media-type="application/xhtml+xml"/>
				<item id="c2" href="b.xhtml" media-type="application/xhtml+xml"/>
			</manifest>
		</package>`,
		"OEBPS/a.xhtml": "<html><body>one</body></html>",
		"OEBPS/b.xhtml": "<html><body>two</body></html>",
	})
	path := writeTestFile(t, "book.epub", data)

	content := p.Parse(path, domain.FormatEPUB)

	require.Len(t, content.Chapters, 2)
	assert.Equal(t, "Chapter 1", content.Chapters[0].Title)
	assert.Equal(t, "Chapter 2", content.Chapters[1].Title)
}

func TestParseEPUBMissingContainerFallsBackToDefaultPaths(t *testing.T) {
	p := newTestParser()
	data := buildTestEPUB(t, map[string]string{
		"OEBPS/content.opf": `<package xmlns:dc="http://purl.org/dc/elements/1.1/">
			<metadata><dc:title>Found Anyway</dc:title></metadata>
			<manifest><item id="c1" href="c.xhtml" media-type="application/xhtml+xml"/></manifest>
		</package>`,
		"OEBPS/c.xhtml": "<html><body>content here</body></html>",
	})
	path := writeTestFile(t, "book.epub", data)

	content := p.Parse(path, domain.FormatEPUB)

	assert.Equal(t, "Found Anyway", content.Title)
	assert.Contains(t, content.Text, "content here")
}

func TestParseEPUBZeroByteDegrades(t *testing.T) {
	p := newTestParser()
	path := writeTestFile(t, "empty.epub", nil)

	content := p.Parse(path, domain.FormatEPUB)

	assert.Equal(t, "Unknown EPUB", content.Title)
	assert.Equal(t, "Unknown", content.Author)
	assert.Equal(t, "en", content.Language)
	assert.Empty(t, content.Chapters)
	assert.Empty(t, content.Text)
	assert.NotEmpty(t, content.DisplayText())

	m := ComputeMetrics(content.Text, domain.FormatEPUB)
	assert.Equal(t, 5, m.PageCount)
}

func TestParseEPUBEmptyMetadataUsesDefaults(t *testing.T) {
	p := newTestParser()
	data := buildTestEPUB(t, map[string]string{
		"META-INF/container.xml": testContainerXML,
		"OEBPS/content.opf":      `<package><metadata/><manifest/></package>`,
	})
	path := writeTestFile(t, "book.epub", data)

	content := p.Parse(path, domain.FormatEPUB)

	assert.Equal(t, "Unknown EPUB", content.Title)
	assert.Equal(t, "Unknown", content.Author)
	assert.Equal(t, "en", content.Language)
}

func TestChapterContent(t *testing.T) {
	p := newTestParser()
	path := writeTestFile(t, "book.epub", standardTestEPUB(t))

	text, err := p.ChapterContent(path, "ch1.xhtml")
	require.NoError(t, err)
	assert.Contains(t, text, "dark and stormy")
}

func TestChapterContentPathNormalization(t *testing.T) {
	p := newTestParser()
	path := writeTestFile(t, "book.epub", standardTestEPUB(t))

	for _, href := range []string{"./ch1.xhtml", "/OEBPS/ch1.xhtml", "ch1.xhtml#section-2"} {
		text, err := p.ChapterContent(path, href)
		require.NoError(t, err, "href %q", href)
		assert.Contains(t, text, "dark and stormy", "href %q", href)
	}
}

func TestChapterContentNotFound(t *testing.T) {
	p := newTestParser()
	path := writeTestFile(t, "book.epub", standardTestEPUB(t))

	_, err := p.ChapterContent(path, "missing.xhtml")
	assert.True(t, errors.Is(err, errors.ErrChapterNotFound))
}
