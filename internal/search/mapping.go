package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for library documents.
// Titles and authors get English analysis with term vectors for
// highlighting; the body text is searchable but never stored; format and
// status are exact-match keywords for filtering.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	authorFieldMapping := bleve.NewTextFieldMapping()
	authorFieldMapping.Analyzer = en.AnalyzerName
	authorFieldMapping.Store = true
	authorFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("author", authorFieldMapping)

	publisherFieldMapping := bleve.NewTextFieldMapping()
	publisherFieldMapping.Analyzer = en.AnalyzerName
	publisherFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("publisher", publisherFieldMapping)

	// Body text: searchable, highlightable, too large to store.
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = en.AnalyzerName
	textFieldMapping.Store = false
	textFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("text", textFieldMapping)

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	formatFieldMapping := bleve.NewTextFieldMapping()
	formatFieldMapping.Analyzer = keyword.Name
	formatFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("format", formatFieldMapping)

	statusFieldMapping := bleve.NewTextFieldMapping()
	statusFieldMapping.Analyzer = keyword.Name
	statusFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("status", statusFieldMapping)

	createdAtFieldMapping := bleve.NewNumericFieldMapping()
	createdAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
