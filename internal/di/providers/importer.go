package providers

import (
	"github.com/samber/do/v2"

	"github.com/readwellapp/readwell-server/internal/config"
	"github.com/readwellapp/readwell-server/internal/importer"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/media/covers"
	"github.com/readwellapp/readwell-server/internal/parser"
	"github.com/readwellapp/readwell-server/internal/ratelimit"
)

// ProvideParser provides the document format parser.
func ProvideParser(i do.Injector) (*parser.Parser, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return parser.New(log.Logger), nil
}

// ImporterHandle wraps the importer with shutdown capability so in-flight
// cover generation finishes before the process exits.
type ImporterHandle struct {
	*importer.Importer
}

// Shutdown implements do.Shutdownable.
func (h *ImporterHandle) Shutdown() error {
	h.Drain()
	return nil
}

// ProvideImporter provides the document import pipeline.
func ProvideImporter(i do.Injector) (*ImporterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	p := do.MustInvoke[*parser.Parser](i)
	extractor := do.MustInvoke[*covers.Extractor](i)

	imp, err := importer.New(storeHandle.Store, p, extractor, cfg.DocumentsPath(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Importer ready", "documents_path", cfg.DocumentsPath())

	return &ImporterHandle{Importer: imp}, nil
}

// ProvideImportLimiter provides the per-client rate limiter for the import endpoint.
func ProvideImportLimiter(i do.Injector) (*ratelimit.KeyedRateLimiter, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return ratelimit.New(cfg.Import.RateLimitPerSecond, cfg.Import.RateLimitBurst), nil
}
