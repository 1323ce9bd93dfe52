package archive

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readwellapp/readwell-server/internal/errors"
)

func buildZip(t *testing.T, files map[string]string) []byte {
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

func TestOpenAndReadEntry(t *testing.T) {
	data := buildZip(t, map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": "<container/>",
	})

	r, err := Open(data)
	require.NoError(t, err)

	content, err := r.ReadEntry("META-INF/container.xml")
	require.NoError(t, err)
	assert.Equal(t, "<container/>", string(content))

	assert.True(t, r.Has("mimetype"))
	assert.Len(t, r.Entries(), 2)
}

func TestOpenCorruptArchive(t *testing.T) {
	_, err := Open([]byte("this is not a zip file"))
	assert.True(t, errors.Is(err, errors.ErrCorruptArchive))
}

func TestOpenEmptyBytes(t *testing.T) {
	_, err := Open(nil)
	assert.True(t, errors.Is(err, errors.ErrCorruptArchive))
}

func TestReadEntryNotFound(t *testing.T) {
	r, err := Open(buildZip(t, map[string]string{"a.txt": "a"}))
	require.NoError(t, err)

	_, err = r.ReadEntry("missing.txt")
	assert.True(t, errors.Is(err, errors.ErrEntryNotFound))
}

func TestReadEntryCaseInsensitiveFallback(t *testing.T) {
	r, err := Open(buildZip(t, map[string]string{"Word/Document.xml": "<w:document/>"}))
	require.NoError(t, err)

	content, err := r.ReadEntry("word/document.xml")
	require.NoError(t, err)
	assert.Equal(t, "<w:document/>", string(content))
}

func TestEntriesWithExtension(t *testing.T) {
	r, err := Open(buildZip(t, map[string]string{
		"ch1.xhtml":  "<html/>",
		"ch2.XHTML":  "<html/>",
		"styles.css": "body {}",
	}))
	require.NoError(t, err)

	names := r.EntriesWithExtension(".xhtml")
	assert.Len(t, names, 2)
}
