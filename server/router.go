package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ebogdum/notes-app/config"
	"github.com/ebogdum/notes-app/metrics"
	"github.com/ebogdum/notes-app/notes"
	"github.com/ebogdum/notes-app/server/handlers"
	"github.com/ebogdum/notes-app/server/middleware"
	"github.com/ebogdum/notes-app/web"
)

// NewRouter creates and configures the HTTP router
func NewRouter(store notes.Store, cfg config.AppConfig, logger *zap.Logger) chi.Router {
	metrics.NotesStored.Set(float64(store.Len()))

	r := chi.NewRouter()

	// Access logging wraps recovery so a recovered panic is logged with its 500
	r.Use(middleware.RequestIDMiddleware())
	// Forwarding headers are client-controlled unless a proxy sets them
	if cfg.Server.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.AccessLogMiddleware(logger))
	r.Use(middleware.RecoverMiddleware(logger))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityPolicy()))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         cfg.CORS.MaxAge,
	}))

	r.Get("/health", handlers.Health(time.Now, logger))
	r.Get("/logs", handlers.LogsRedirect(cfg.Dashboard, cfg.App.Name, logger))

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/notes", func(r chi.Router) {
			r.Get("/", handlers.ListNotes(store, logger))
			r.Post("/", handlers.CreateNote(store, logger))
			r.Put("/{id}", handlers.UpdateNote(store, logger))
			r.Delete("/{id}", handlers.DeleteNote(store, logger))
		})
		r.Get("/docs/doc.json", handlers.APIDocs(logger))
	})

	// Front-end assets, including index.html at /
	static := http.FileServer(http.FS(web.Static()))
	r.Get("/*", static.ServeHTTP)
	r.Head("/*", static.ServeHTTP)

	logger.Info("HTTP router configured successfully")

	return r
}
