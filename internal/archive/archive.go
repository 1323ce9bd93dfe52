// Package archive reads ZIP containers. EPUB and DOCX files are both
// ZIP archives with format-specific layouts, so the parsers share this
// reader instead of touching archive/zip directly.
package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"strings"

	"github.com/readwellapp/readwell-server/internal/errors"
)

// Reader provides entry-level access to a ZIP container held in memory.
type Reader struct {
	zr *zip.Reader
}

// Open parses raw bytes as a ZIP container.
// Returns errors.ErrCorruptArchive if the bytes are not a valid archive,
// including the zero-byte case.
func Open(data []byte) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.ErrCorruptArchive.WithCause(err)
	}
	return &Reader{zr: zr}, nil
}

// Entries returns the names of all entries in archive order.
func (r *Reader) Entries() []string {
	names := make([]string, 0, len(r.zr.File))
	for _, f := range r.zr.File {
		names = append(names, f.Name)
	}
	return names
}

// Has reports whether the archive contains the named entry.
func (r *Reader) Has(name string) bool {
	return r.find(name) != nil
}

// ReadEntry returns the full contents of the named entry.
// Returns errors.ErrEntryNotFound if no such entry exists and
// errors.ErrCorruptArchive if the entry exists but cannot be decompressed.
func (r *Reader) ReadEntry(name string) ([]byte, error) {
	f := r.find(name)
	if f == nil {
		return nil, errors.EntryNotFoundf("entry %q not found in archive", name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeCorruptArchive, "open entry %q", name)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeCorruptArchive, "read entry %q", name)
	}
	return data, nil
}

// EntriesWithExtension returns entry names carrying the given extension
// (with dot, case-insensitive), in archive order.
func (r *Reader) EntriesWithExtension(ext string) []string {
	ext = strings.ToLower(ext)
	var names []string
	for _, f := range r.zr.File {
		if strings.ToLower(path.Ext(f.Name)) == ext {
			names = append(names, f.Name)
		}
	}
	return names
}

// find locates an entry by exact name, falling back to a case-insensitive
// match. Archives written on case-insensitive filesystems sometimes vary
// the casing of well-known entry names.
func (r *Reader) find(name string) *zip.File {
	for _, f := range r.zr.File {
		if f.Name == name {
			return f
		}
	}
	for _, f := range r.zr.File {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}
