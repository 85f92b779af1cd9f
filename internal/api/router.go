package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Router wires the API routes and middleware around the Server's handlers.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(instrument)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/statistics", s.handleStatistics)
		r.Get("/categories", s.handleCategories)

		r.Get("/profiles", s.handleListProfiles)
		r.Get("/profiles/{profileID}", s.handleGetProfile)
		r.Get("/accounts/{accountID}/profiles", s.handleAccountProfiles)
		r.Get("/dashboard/{profileID}", s.handleDashboard)

		r.Get("/recommendations/{profileID}", s.handleRecommend)
		r.Get("/recommendations/{profileID}/category/{category}", s.handleRecommendByCategory)

		r.Get("/titles", s.handleListTitles)
		r.Get("/titles/filter", s.handleFilterTitles)
		r.Get("/titles/search", s.handleSearch)
		r.Get("/titles/{showID}", s.handleGetTitle)
		r.Get("/titles/{showID}/similar", s.handleSimilarTitles)
	})

	return r
}
