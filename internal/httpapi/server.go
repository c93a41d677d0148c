// Package httpapi exposes the site store to the map UI over JSON.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sells-group/campus-atlas/internal/analysis"
	"github.com/sells-group/campus-atlas/internal/legend"
)

// Server holds the handler dependencies.
type Server struct {
	store     *analysis.Store
	addresses []string
	legend    []legend.Entry
}

// NewServer creates the API server around an injected store.
func NewServer(store *analysis.Store, addresses []string, legendEntries []legend.Entry) *Server {
	return &Server{
		store:     store,
		addresses: addresses,
		legend:    legendEntries,
	}
}

// Router builds the chi route tree. The permissive CORS policy exists for
// the browser-hosted map UI.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/addresses", s.handleAddresses)
		r.Get("/legend", s.handleLegend)
		r.Get("/export", s.handleExport)

		r.Post("/sites", s.handleRegisterSite)
		r.Route("/sites/{address}", func(r chi.Router) {
			r.Get("/", s.handleGetSite)
			r.Get("/totals", s.handleGetTotals)
			r.Put("/notes", s.handleSetNotes)

			r.Post("/areas", s.handleAddArea)
			r.Put("/areas/{index}", s.handleUpdateArea)
			r.Put("/areas/{index}/floors", s.handleUpdateFloors)
			r.Delete("/areas/{index}", s.handleDeleteArea)
		})
	})

	return r
}
