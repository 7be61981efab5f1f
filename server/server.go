// Package server exposes the CSV proxy, the listings API and the rendered card grid.
package server

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"callforscience/config"
	"callforscience/i18n"
	"callforscience/services"
	"callforscience/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server serves one fresh snapshot of the dataset per request.
type Server struct {
	cfg     *config.Config
	source  services.Source
	catalog *services.Catalog
	bundle  *i18n.Bundle
	logger  *utils.Logger
	tmpl    *template.Template
	now     func() time.Time
}

// New builds a Server reading the CSV from source.
func New(cfg *config.Config, source services.Source, bundle *i18n.Bundle, logger *utils.Logger) (*Server, error) {
	tmpl, err := template.New("index.html").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("server: parse templates: %w", err)
	}
	return &Server{
		cfg:     cfg,
		source:  source,
		catalog: services.NewCatalog(source, logger),
		bundle:  bundle,
		logger:  logger,
		tmpl:    tmpl,
		now:     time.Now,
	}, nil
}

// Router returns the HTTP handler with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger.Zap()))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/csv", s.handleCSV)
		r.Group(func(r chi.Router) {
			r.Use(locale(s.bundle))
			r.Get("/listings", s.handleListings)
			r.Get("/topics", s.handleTopics)
		})
	})

	r.With(locale(s.bundle)).Get("/", s.handleIndex)

	return r
}
