package providers

import (
	"github.com/samber/do/v2"

	"github.com/readwellapp/readwell-server/internal/backup"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/parser"
	"github.com/readwellapp/readwell-server/internal/service"
)

// ProvideDocumentService provides the document service.
func ProvideDocumentService(i do.Injector) (*service.DocumentService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	p := do.MustInvoke[*parser.Parser](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewDocumentService(storeHandle.Store, p, log.Logger), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewTagService(storeHandle.Store, log.Logger), nil
}

// ProvideCollectionService provides the collection service.
func ProvideCollectionService(i do.Injector) (*service.CollectionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewCollectionService(storeHandle.Store, log.Logger), nil
}

// ProvideAnnotationService provides the highlight and note service.
func ProvideAnnotationService(i do.Injector) (*service.AnnotationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewAnnotationService(storeHandle.Store, log.Logger), nil
}

// ProvidePositionService provides the reading position service.
func ProvidePositionService(i do.Injector) (*service.PositionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewPositionService(storeHandle.Store, log.Logger), nil
}

// ProvideSessionService provides the reading session service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewSessionService(storeHandle.Store, log.Logger), nil
}

// ProvideStatsService provides the reading statistics service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewStatsService(storeHandle.Store, log.Logger), nil
}

// ProvideSearchService provides the library substring search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewSearchService(storeHandle.Store, log.Logger), nil
}

// ProvideExportService provides the document export service.
func ProvideExportService(i do.Injector) (*service.ExportService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewExportService(storeHandle.Store, log.Logger), nil
}

// ProvideBackupService provides the full-library backup service.
func ProvideBackupService(i do.Injector) (*backup.Service, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return backup.New(storeHandle.Store, log.Logger), nil
}
