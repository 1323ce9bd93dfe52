package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/readwellapp/readwell-server/internal/config"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve full-text index and wires it into
// the store so document writes keep the index current.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	index, err := search.NewIndex(search.Options{
		DataPath: cfg.SearchPath(),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	storeHandle.SetSearchIndexer(index)

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}

// TriggerSearchReindexIfNeeded backfills the full-text index when it is
// empty but the library already has documents. Should be called after all
// services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	docs, err := storeHandle.ListDocuments(ctx)
	if err != nil || len(docs) == 0 {
		return
	}

	log.Info("Search index is empty but documents exist, triggering initial reindex",
		"document_count", len(docs),
	)

	go func() {
		if err := indexHandle.IndexDocuments(docs); err != nil {
			log.Error("Initial search reindex failed", "error", err)
		} else {
			count, _ := indexHandle.DocumentCount()
			log.Info("Initial search reindex completed", "documents", count)
		}
	}()
}
