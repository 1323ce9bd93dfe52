package providers

import (
	"github.com/samber/do/v2"

	"github.com/readwellapp/readwell-server/internal/config"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/media/covers"
)

// ProvideCoverStorage provides on-disk storage for extracted cover images.
func ProvideCoverStorage(i do.Injector) (*covers.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := covers.NewStorage(cfg.ThumbnailsPath())
	if err != nil {
		return nil, err
	}

	log.Info("Cover storage ready", "path", cfg.ThumbnailsPath())

	return storage, nil
}

// ProvideCoverExtractor provides the EPUB cover extractor.
func ProvideCoverExtractor(i do.Injector) (*covers.Extractor, error) {
	storage := do.MustInvoke[*covers.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return covers.NewExtractor(storage, log.Logger), nil
}
