package http

import (
	"skiphire/frontend/skips"

	"github.com/go-chi/chi/v5"
)

// RegisterSkipRoutes registers the skip selection page and its commands.
func (s *Server) RegisterSkipRoutes(r chi.Router) chi.Router {
	deps := s.deps()

	r.Get("/skips", skips.SkipsPageQueryHandler(deps))
	r.Post("/skips/reload", skips.ReloadCommandHandler(deps))
	r.Post("/skips/filters", skips.UpdateFiltersCommandHandler(deps))
	r.Post("/skips/filters/reset", skips.ResetFiltersCommandHandler(deps))
	r.Post("/skips/help", skips.ToggleHelpCommandHandler(deps))
	r.Post("/skips/continue", skips.ContinueCommandHandler(deps))
	r.Post("/skips/{id}/select", skips.SelectSkipCommandHandler(deps))

	r.Get("/skips/export.csv", skips.ExportCSVQueryHandler(deps))
	r.Get("/skips/export.xlsx", skips.ExportXLSXQueryHandler(deps))
	r.Get("/skips/selection/quote.pdf", skips.QuotePDFQueryHandler(deps))
	return r
}

// RegisterAPIRoutes registers the stateless JSON endpoints.
func (s *Server) RegisterAPIRoutes(r chi.Router) chi.Router {
	deps := s.deps()

	r.Route("/api/skips", func(r chi.Router) {
		r.Get("/", skips.SkipsAPIQueryHandler(deps))
		r.Get("/fetches", skips.FetchRunsAPIQueryHandler(deps))
	})
	return r
}
