// Package search provides full-text search over the library using Bleve.
// It complements the store's substring search with analyzed, ranked
// matching over the extracted document text.
package search

import "github.com/readwellapp/readwell-server/internal/domain"

// IndexedDocument is the structure stored in the Bleve index. The
// extracted text is indexed but not stored; the store remains the
// source of truth for content.
type IndexedDocument struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	Format    string `json:"format"`
	Status    string `json:"status"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve uses Go struct field names by default, but the index mapping
// uses lowercase names, so the conversion is explicit.
func (d *IndexedDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"title":      d.Title,
		"format":     d.Format,
		"status":     d.Status,
		"created_at": d.CreatedAt,
	}
	if d.Author != "" {
		m["author"] = d.Author
	}
	if d.Publisher != "" {
		m["publisher"] = d.Publisher
	}
	if d.Text != "" {
		m["text"] = d.Text
	}
	return m
}

// FromDomain converts a library document into its indexed form.
func FromDomain(doc *domain.Document) *IndexedDocument {
	return &IndexedDocument{
		ID:        doc.ID,
		Title:     doc.Title,
		Author:    doc.Author,
		Publisher: doc.Publisher,
		Format:    string(doc.Format),
		Status:    string(doc.Status),
		Text:      doc.ExtractedText,
		CreatedAt: doc.CreatedAt.UnixMilli(),
	}
}
