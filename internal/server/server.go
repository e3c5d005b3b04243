// Package server provides the HTTP API used by the song browser and the
// linkage review UI.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/huapala/huapala/internal/archive"
	"github.com/huapala/huapala/internal/linkage"
	"github.com/huapala/huapala/internal/util"
)

// Catalog holds the read-only archive records served by the API
type Catalog struct {
	Songs   []archive.Song
	People  []archive.Person
	Entries []archive.SongbookEntry
}

// Server is the HTTP server for the Huapala API
type Server struct {
	catalog *Catalog
	review  *linkage.Store
	source  linkage.Source
	server  *http.Server
}

// NewServer creates a server. review and source may be nil when no
// suggestions are configured; the linkage routes then answer 503.
func NewServer(catalog *Catalog, review *linkage.Store, source linkage.Source) *Server {
	if catalog == nil {
		catalog = &Catalog{}
	}
	return &Server{
		catalog: catalog,
		review:  review,
		source:  source,
	}
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/songs", s.handleSongs)
		r.Get("/people", s.handlePeople)
		r.Get("/songbook-entries", s.handleEntries)

		r.Route("/linkages", func(r chi.Router) {
			r.Use(s.requireReview)
			r.Get("/", s.handleLinkages)
			r.Get("/stats", s.handleLinkageStats)
			r.Post("/reload", s.handleReload)
			r.Put("/{key}", s.handleSetStatus)
		})
	})

	return r
}

// Start serves on addr and blocks until the server stops
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	util.InfoLog("Starting server on %s", addr)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) requireReview(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.review == nil {
			s.respondError(w, http.StatusServiceUnavailable, "linkage review not configured")
			return
		}
		next.ServeHTTP(w, r)
	})
}
