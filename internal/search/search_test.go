package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readwellapp/readwell-server/internal/domain"
)

func setupTestIndex(t *testing.T) *Index {
	t.Helper()

	index, err := NewIndex(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	return index
}

func indexedTestDocument(id, title, author, text string) *domain.Document {
	doc := domain.NewDocument(id, title, "/data/documents/"+id+".epub", domain.FormatEPUB)
	doc.Author = author
	doc.ExtractedText = text
	return doc
}

func TestNewIndexEmpty(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestIndexDocument(t *testing.T) {
	index := setupTestIndex(t)

	err := index.IndexDocument(indexedTestDocument("doc-1", "The Hobbit", "J.R.R. Tolkien", "in a hole in the ground"))
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestIndexDocumentsBatch(t *testing.T) {
	index := setupTestIndex(t)

	docs := []*domain.Document{
		indexedTestDocument("doc-1", "Book One", "", ""),
		indexedTestDocument("doc-2", "Book Two", "", ""),
		indexedTestDocument("doc-3", "Book Three", "", ""),
	}
	require.NoError(t, index.IndexDocuments(docs))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestSearchTitleMatch(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexDocument(
		indexedTestDocument("doc-1", "Distributed Systems", "M. van Steen", "consensus and replication")))
	require.NoError(t, index.IndexDocument(
		indexedTestDocument("doc-2", "Cooking Basics", "A. Chef", "knife skills")))

	params := DefaultParams()
	params.Query = "distributed"
	result, err := index.Search(ctx, params)
	require.NoError(t, err)

	require.Len(t, result.Hits, 1)
	assert.Equal(t, "doc-1", result.Hits[0].ID)
	assert.Equal(t, "Distributed Systems", result.Hits[0].Title)
}

func TestSearchBodyTextMatch(t *testing.T) {
	index := setupTestIndex(t)

	require.NoError(t, index.IndexDocument(
		indexedTestDocument("doc-1", "Untitled Essay", "", "the raft consensus algorithm explained simply")))

	params := DefaultParams()
	params.Query = "consensus"
	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)

	require.Len(t, result.Hits, 1)
	assert.Equal(t, "doc-1", result.Hits[0].ID)
}

func TestSearchFormatFilter(t *testing.T) {
	index := setupTestIndex(t)

	epub := indexedTestDocument("doc-1", "Shared Title", "", "")
	require.NoError(t, index.IndexDocument(epub))

	pdfDoc := domain.NewDocument("doc-2", "Shared Title", "/data/documents/doc-2.pdf", domain.FormatPDF)
	require.NoError(t, index.IndexDocument(pdfDoc))

	params := DefaultParams()
	params.Query = "shared"
	params.Format = "pdf"
	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)

	require.Len(t, result.Hits, 1)
	assert.Equal(t, "doc-2", result.Hits[0].ID)
}

func TestDeleteDocument(t *testing.T) {
	index := setupTestIndex(t)

	require.NoError(t, index.IndexDocument(indexedTestDocument("doc-1", "Transient", "", "")))
	require.NoError(t, index.DeleteDocument("doc-1"))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestRebuildEmptiesIndex(t *testing.T) {
	index := setupTestIndex(t)

	require.NoError(t, index.IndexDocument(indexedTestDocument("doc-1", "Old Content", "", "")))
	require.NoError(t, index.Rebuild())

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}
