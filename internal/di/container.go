// Package di provides dependency injection configuration for the ReadWell server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/readwellapp/readwell-server/internal/backup"
	"github.com/readwellapp/readwell-server/internal/config"
	"github.com/readwellapp/readwell-server/internal/di/providers"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/media/covers"
	"github.com/readwellapp/readwell-server/internal/parser"
	"github.com/readwellapp/readwell-server/internal/ratelimit"
	"github.com/readwellapp/readwell-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Storage layer
	do.Provide(injector, providers.ProvideCoverStorage)
	do.Provide(injector, providers.ProvideCoverExtractor)

	// Import pipeline
	do.Provide(injector, providers.ProvideParser)
	do.Provide(injector, providers.ProvideImporter)
	do.Provide(injector, providers.ProvideImportLimiter)

	// Business services
	do.Provide(injector, providers.ProvideDocumentService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideCollectionService)
	do.Provide(injector, providers.ProvideAnnotationService)
	do.Provide(injector, providers.ProvidePositionService)
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideStatsService)
	do.Provide(injector, providers.ProvideSearchService)
	do.Provide(injector, providers.ProvideExportService)
	do.Provide(injector, providers.ProvideBackupService)

	// Workers
	do.Provide(injector, providers.ProvideFileWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*covers.Storage](injector)
	_ = do.MustInvoke[*covers.Extractor](injector)
	_ = do.MustInvoke[*parser.Parser](injector)
	_ = do.MustInvoke[*providers.ImporterHandle](injector)
	_ = do.MustInvoke[*ratelimit.KeyedRateLimiter](injector)

	// Business services
	_ = do.MustInvoke[*service.DocumentService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.CollectionService](injector)
	_ = do.MustInvoke[*service.AnnotationService](injector)
	_ = do.MustInvoke[*service.PositionService](injector)
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.StatsService](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*service.ExportService](injector)
	_ = do.MustInvoke[*backup.Service](injector)

	// Workers
	_ = do.MustInvoke[*providers.FileWatcherHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Backfill the full-text index for libraries created before search existed
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
