// Package importer turns source files into library documents: copy into
// managed storage, parse, compute metrics, persist. Parser failures
// degrade; only an unreadable source or a failed insert aborts an import.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/readwellapp/readwell-server/internal/domain"
	"github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/id"
	"github.com/readwellapp/readwell-server/internal/media/covers"
	"github.com/readwellapp/readwell-server/internal/parser"
	"github.com/readwellapp/readwell-server/internal/store"
)

// Importer orchestrates the import pipeline. Imports of different files
// are independent and may run concurrently; each import is a sequential
// pipeline.
type Importer struct {
	store        store.Store
	parser       *parser.Parser
	covers       *covers.Extractor
	documentsDir string
	logger       *slog.Logger

	// Tracks in-flight cover generation so shutdown can drain it.
	coverWork sync.WaitGroup
}

// New creates an importer writing files into documentsDir.
// The covers extractor may be nil; cover generation is then skipped.
func New(st store.Store, p *parser.Parser, coversExtractor *covers.Extractor, documentsDir string, logger *slog.Logger) (*Importer, error) {
	if err := os.MkdirAll(documentsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create documents directory: %w", err)
	}
	return &Importer{
		store:        st,
		parser:       p,
		covers:       coversExtractor,
		documentsDir: documentsDir,
		logger:       logger,
	}, nil
}

// ImportFile imports the file at sourcePath into the library. The
// optional suggestedName overrides the parsed or derived title.
// Returns errors.ErrSourceUnavailable if the source cannot be read or
// copied; parser failures never fail the import.
func (i *Importer) ImportFile(ctx context.Context, sourcePath, suggestedName string) (*domain.Document, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(sourcePath), "."))
	format := domain.ParseFormat(ext)
	if ext == "" {
		ext = "txt"
	}

	docID := id.MustGenerate("doc")
	storagePath := filepath.Join(i.documentsDir, docID+"."+ext)

	if err := copyFile(sourcePath, storagePath); err != nil {
		return nil, errors.SourceUnavailable(
			fmt.Sprintf("cannot read or copy %s", sourcePath)).WithCause(err)
	}

	content := i.parser.Parse(storagePath, format)
	metrics := parser.ComputeMetrics(content.Text, format)

	title := strings.TrimSpace(suggestedName)
	if title == "" {
		title = content.Title
	}
	if title == "" {
		title = titleFromFilename(sourcePath)
	}

	doc := domain.NewDocument(docID, title, storagePath, format)
	doc.Author = content.Author
	doc.Description = content.Description
	doc.Language = content.Language
	doc.Publisher = content.Publisher
	doc.PublishDate = content.PublishDate
	doc.WordCount = metrics.WordCount
	doc.EstimatedReadingTime = metrics.EstimatedReadingTime
	doc.PageCount = metrics.PageCount
	doc.ExtractedText = content.DisplayText()

	if err := i.store.CreateDocument(ctx, doc); err != nil {
		// Don't leave an orphaned file in managed storage.
		if rmErr := os.Remove(storagePath); rmErr != nil {
			i.logger.Warn("failed to remove orphaned storage file",
				"path", storagePath, "error", rmErr)
		}
		return nil, err
	}

	i.logger.Info("imported document",
		"document_id", doc.ID,
		"title", doc.Title,
		"format", doc.Format,
		"words", doc.WordCount,
		"pages", doc.PageCount,
	)

	if format == domain.FormatEPUB && i.covers != nil {
		i.generateCoverAsync(doc.ID, storagePath)
	}

	return doc, nil
}

// generateCoverAsync extracts the cover in the background and patches
// the document row on success. Fire-and-forget relative to the import.
func (i *Importer) generateCoverAsync(documentID, storagePath string) {
	i.coverWork.Add(1)
	go func() {
		defer i.coverWork.Done()

		result, err := i.covers.ExtractEPUBCover(storagePath, documentID)
		if err != nil {
			i.logger.Warn("cover extraction failed",
				"document_id", documentID, "error", err)
			return
		}
		if result == nil {
			return
		}

		update := domain.DocumentUpdate{CoverImagePath: &result.Path}
		if err := i.store.UpdateDocument(context.Background(), documentID, update); err != nil {
			i.logger.Warn("failed to record cover path",
				"document_id", documentID, "error", err)
		}
	}()
}

// Drain blocks until all in-flight cover generation has finished.
// Called on shutdown and by tests.
func (i *Importer) Drain() {
	i.coverWork.Wait()
}

// titleFromFilename derives a display title from the source file name.
func titleFromFilename(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// copyFile copies src to dst, failing if the source cannot be opened or
// fully read. A partially written destination is removed.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
