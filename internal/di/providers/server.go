package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/readwellapp/readwell-server/internal/api"
	"github.com/readwellapp/readwell-server/internal/backup"
	"github.com/readwellapp/readwell-server/internal/config"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/ratelimit"
	"github.com/readwellapp/readwell-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	importerHandle := do.MustInvoke[*ImporterHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	backupSvc := do.MustInvoke[*backup.Service](i)
	importLimiter := do.MustInvoke[*ratelimit.KeyedRateLimiter](i)

	services := api.Services{
		Documents:   do.MustInvoke[*service.DocumentService](i),
		Tags:        do.MustInvoke[*service.TagService](i),
		Collections: do.MustInvoke[*service.CollectionService](i),
		Annotations: do.MustInvoke[*service.AnnotationService](i),
		Positions:   do.MustInvoke[*service.PositionService](i),
		Sessions:    do.MustInvoke[*service.SessionService](i),
		Stats:       do.MustInvoke[*service.StatsService](i),
		Search:      do.MustInvoke[*service.SearchService](i),
		Export:      do.MustInvoke[*service.ExportService](i),
	}

	handler := api.NewServer(services, importerHandle.Importer, backupSvc, indexHandle.Index, importLimiter, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
