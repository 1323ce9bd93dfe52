// Package api provides the HTTP API server and handlers for the ReadWell application.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/readwellapp/readwell-server/internal/backup"
	"github.com/readwellapp/readwell-server/internal/importer"
	"github.com/readwellapp/readwell-server/internal/ratelimit"
	"github.com/readwellapp/readwell-server/internal/search"
	"github.com/readwellapp/readwell-server/internal/service"
	"github.com/readwellapp/readwell-server/internal/validation"
)

// Version is the API version reported by the health endpoint.
const Version = "1.0.0"

// Services bundles the business-logic dependencies of the HTTP layer.
type Services struct {
	Documents   *service.DocumentService
	Tags        *service.TagService
	Collections *service.CollectionService
	Annotations *service.AnnotationService
	Positions   *service.PositionService
	Sessions    *service.SessionService
	Stats       *service.StatsService
	Search      *service.SearchService
	Export      *service.ExportService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services Services
	importer *importer.Importer
	backup   *backup.Service
	index    *search.Index
	validate *validation.Validator
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services Services, imp *importer.Importer, backupSvc *backup.Service, index *search.Index, importLimiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) *Server {
	s := &Server{
		services: services,
		importer: imp,
		backup:   backupSvc,
		index:    index,
		validate: validation.New(),
		router:   chi.NewRouter(),
		logger:   logger,
	}

	s.setupMiddleware(importLimiter)

	RegisterErrorHandler()
	humaConfig := huma.DefaultConfig("ReadWell API", Version)
	s.api = humachi.New(s.router, humaConfig)

	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(importLimiter *ratelimit.KeyedRateLimiter) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if importLimiter != nil {
		limit := rateLimitMiddleware(importLimiter, s.logger)
		s.router.Use(func(next http.Handler) http.Handler {
			limited := limit(next)
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if strings.HasPrefix(r.URL.Path, "/api/v1/import") {
					limited.ServeHTTP(w, r)
					return
				}
				next.ServeHTTP(w, r)
			})
		})
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	s.registerImportRoutes()
	s.registerDocumentRoutes()
	s.registerTagRoutes()
	s.registerCollectionRoutes()
	s.registerAnnotationRoutes()
	s.registerReadingRoutes()
	s.registerSearchRoutes()
	s.registerExportRoutes()
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy","version":"` + Version + `"}`))
}
