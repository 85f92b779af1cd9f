package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Belphemur/streamly/internal/apperrors"
	"github.com/Belphemur/streamly/internal/engine"
	"github.com/Belphemur/streamly/internal/models"
	"github.com/Belphemur/streamly/internal/store"
)

// Server bundles the handlers' dependencies.
type Server struct {
	engine   *engine.Engine
	catalog  store.CatalogView
	profiles store.ProfileView
	logger   zerolog.Logger
}

// NewServer creates a Server.
func NewServer(eng *engine.Engine, catalog store.CatalogView, profiles store.ProfileView, logger zerolog.Logger) *Server {
	return &Server{engine: eng, catalog: catalog, profiles: profiles, logger: logger}
}

// storeReadErr keeps not-found errors intact and wraps everything else as
// store-unavailable so direct reads map to 503 like the engine paths do.
func storeReadErr(op string, err error) error {
	if errors.Is(err, &apperrors.ErrNotFound{}) {
		return err
	}
	return apperrors.NewStoreUnavailableError(op, err)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, map[string]string{"service": "streamly", "state": "ok"}, 1)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.catalog.Statistics(r.Context())
	if err != nil {
		writeError(w, s.logger, apperrors.NewStoreUnavailableError("statistics", err))
		return
	}
	writeData(w, stats, 1)
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.profiles.ListProfiles(r.Context())
	if err != nil {
		writeError(w, s.logger, apperrors.NewStoreUnavailableError("profile list", err))
		return
	}
	writeData(w, profiles, len(profiles))
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathInt(r, "profileID")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	profile, err := s.profiles.GetProfile(r.Context(), profileID)
	if err != nil {
		writeError(w, s.logger, storeReadErr("profile lookup", err))
		return
	}
	writeData(w, profile, 1)
}

func (s *Server) handleAccountProfiles(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathInt(r, "accountID")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	profiles, err := s.profiles.GetProfilesByAccount(r.Context(), accountID)
	if err != nil {
		writeError(w, s.logger, storeReadErr("account profiles", err))
		return
	}
	writeData(w, profiles, len(profiles))
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathInt(r, "profileID")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	var exclude []string
	if raw := r.URL.Query().Get("exclude"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				exclude = append(exclude, id)
			}
		}
	}

	result, err := s.engine.Recommend(r.Context(), profileID, limit, exclude)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, result, result.Count)
}

func (s *Server) handleRecommendByCategory(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathInt(r, "profileID")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	category := chi.URLParam(r, "category")

	result, err := s.engine.RecommendByCategory(r.Context(), profileID, category, limit)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, result, result.Count)
}

// dashboardData aggregates everything the landing view needs in one call.
type dashboardData struct {
	Profile         *models.Profile         `json:"profile"`
	Recommendations *engine.RecommendResult `json:"recommendations"`
	Categories      []string                `json:"categories"`
	Statistics      *models.CatalogStats    `json:"statistics"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathInt(r, "profileID")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	profile, err := s.profiles.GetProfile(r.Context(), profileID)
	if err != nil {
		writeError(w, s.logger, storeReadErr("profile lookup", err))
		return
	}
	result, err := s.engine.Recommend(r.Context(), profileID, 0, nil)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	categories, err := s.catalog.Categories(r.Context())
	if err != nil {
		writeError(w, s.logger, apperrors.NewStoreUnavailableError("categories", err))
		return
	}
	stats, err := s.catalog.Statistics(r.Context())
	if err != nil {
		writeError(w, s.logger, apperrors.NewStoreUnavailableError("statistics", err))
		return
	}

	writeData(w, dashboardData{
		Profile:         profile,
		Recommendations: result,
		Categories:      categories,
		Statistics:      stats,
	}, 1)
}

// pagination mirrors the paginated titles response shape.
type pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int64 `json:"pages"`
}

func (s *Server) handleListTitles(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	perPage, err := queryInt(r, "per_page", 20)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	sortBy := r.URL.Query().Get("sort_by")
	order := r.URL.Query().Get("order")

	titles, total, err := s.catalog.ListTitles(r.Context(), page, perPage, sortBy, order)
	if err != nil {
		writeError(w, s.logger, apperrors.NewStoreUnavailableError("title list", err))
		return
	}

	count := len(titles)
	writeJSON(w, http.StatusOK, envelope{
		Status: "success",
		Data:   titles,
		Count:  &count,
		Extra: pagination{
			Page:    page,
			PerPage: perPage,
			Total:   total,
			Pages:   (total + int64(perPage) - 1) / int64(perPage),
		},
	})
}

func (s *Server) handleFilterTitles(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseFilters(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	titles, err := s.engine.FilterTitles(r.Context(), criteria, limit)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, titles, len(titles))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	titles, err := s.engine.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, titles, len(titles))
}

func (s *Server) handleGetTitle(w http.ResponseWriter, r *http.Request) {
	title, err := s.catalog.GetTitleByShowID(r.Context(), chi.URLParam(r, "showID"))
	if err != nil {
		writeError(w, s.logger, storeReadErr("title lookup", err))
		return
	}
	writeData(w, title, 1)
}

func (s *Server) handleSimilarTitles(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	similar, err := s.engine.SimilarTitles(r.Context(), chi.URLParam(r, "showID"), limit)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, similar, len(similar))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.Categories(r.Context())
	if err != nil {
		writeError(w, s.logger, apperrors.NewStoreUnavailableError("categories", err))
		return
	}
	writeData(w, categories, len(categories))
}

// parseFilters builds the hard filter set from query parameters. The
// literal "all" means "not set", matching what the dashboard sends.
func parseFilters(r *http.Request) (engine.HardFilters, error) {
	q := r.URL.Query()
	var criteria engine.HardFilters

	if v := q.Get("category"); v != "" && v != "all" {
		criteria.Category = v
	}
	if v := q.Get("type"); v != "" && v != "all" {
		if v == "kids" {
			criteria.KidsOnly = true
		} else {
			criteria.ContentType = models.ParseContentType(v)
			if criteria.ContentType == models.TypeUnknown {
				return criteria, apperrors.NewInvalidQueryError("type", "must be Movie, Series or kids")
			}
		}
	}
	if v := q.Get("age_rating"); v != "" && v != "all" {
		criteria.AgeRating = models.ParseAgeRating(v)
		if criteria.AgeRating == models.RatingUnknown {
			return criteria, apperrors.NewInvalidQueryError("age_rating", "unrecognized rating tier")
		}
	}

	var err error
	if criteria.YearMin, err = queryInt(r, "year_min", 0); err != nil {
		return criteria, err
	}
	if criteria.YearMax, err = queryInt(r, "year_max", 0); err != nil {
		return criteria, err
	}
	if criteria.YearMin != 0 && criteria.YearMax != 0 && criteria.YearMin > criteria.YearMax {
		return criteria, apperrors.NewInvalidQueryError("year_min", "must not exceed year_max")
	}

	if v := q.Get("language"); v != "" && v != "all" {
		criteria.Language = v
	}
	if v := q.Get("min_rating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return criteria, apperrors.NewInvalidQueryError("min_rating", "must be a number")
		}
		criteria.MinRating = &f
	}
	if strings.EqualFold(q.Get("kids_only"), "true") {
		criteria.KidsOnly = true
	}
	return criteria, nil
}

func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, apperrors.NewInvalidQueryError(name, "must be an integer")
	}
	return v, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewInvalidQueryError(name, "must be an integer")
	}
	return v, nil
}
