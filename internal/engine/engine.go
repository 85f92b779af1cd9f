package engine

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Belphemur/streamly/internal/apperrors"
	"github.com/Belphemur/streamly/internal/config"
	"github.com/Belphemur/streamly/internal/metrics"
	"github.com/Belphemur/streamly/internal/models"
	"github.com/Belphemur/streamly/internal/store"
)

// Engine answers recommendation, search and filter queries over the catalog
// and profile stores. It holds no mutable state of its own; every call reads
// a catalog snapshot, derives scores from it and returns.
type Engine struct {
	catalog  store.CatalogView
	profiles store.ProfileView
	cfg      *config.Config
	logger   zerolog.Logger
	now      func() time.Time
}

// New creates an Engine over the given views.
func New(catalog store.CatalogView, profiles store.ProfileView, cfg *config.Config, logger zerolog.Logger) *Engine {
	return &Engine{
		catalog:  catalog,
		profiles: profiles,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// RecommendResult is the outcome of one recommendation call, including the
// eligibility report so API responses can explain sparse results.
type RecommendResult struct {
	ProfileID       int                     `json:"profile_id"`
	Count           int                     `json:"count"`
	Recommendations []models.Recommendation `json:"recommendations"`
	Report          FilterReport            `json:"report"`
}

// Recommend returns the top ranked titles for a profile. Show IDs in
// excludeIDs (e.g. already watched) are removed before ranking. A profile
// that may see nothing gets an empty result, not an error.
func (e *Engine) Recommend(ctx context.Context, profileID, limit int, excludeIDs []string) (*RecommendResult, error) {
	limit = clampLimit(limit, e.cfg.Limits.Recommend)

	profile, err := e.lookupProfile(ctx, profileID)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	titles, err := e.catalog.GetAllTitles(ctx)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		return nil, apperrors.NewStoreUnavailableError("catalog read", err)
	}

	exclude := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		exclude[id] = struct{}{}
	}

	result := e.rank(titles, profile, HardFilters{}, exclude, limit)
	metrics.RecommendationsTotal.WithLabelValues("success").Inc()

	e.logger.Debug().
		Int("profile_id", profileID).
		Int("candidates", result.Report.Candidates).
		Int("eligible", result.Report.Eligible).
		Int("returned", result.Count).
		Msg("Recommendations computed")
	return result, nil
}

// RecommendByCategory narrows recommendations to a single category. The
// ranking still happens over the whole eligible set so scores stay
// comparable across categories.
func (e *Engine) RecommendByCategory(ctx context.Context, profileID int, category string, limit int) (*RecommendResult, error) {
	limit = clampLimit(limit, e.cfg.Limits.Recommend)

	profile, err := e.lookupProfile(ctx, profileID)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	titles, err := e.catalog.GetAllTitles(ctx)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		return nil, apperrors.NewStoreUnavailableError("catalog read", err)
	}

	result := e.rank(titles, profile, HardFilters{Category: category}, nil, limit)
	metrics.RecommendationsTotal.WithLabelValues("success").Inc()
	return result, nil
}

// rank runs the gate, scorer and aggregator over one catalog snapshot.
func (e *Engine) rank(titles []models.Title, profile *models.Profile, hard HardFilters, exclude map[string]struct{}, limit int) *RecommendResult {
	gate := NewGate(e.cfg)
	eligible, report := gate.Filter(titles, profile, hard, exclude)

	if report.UnratedExcluded > 0 {
		metrics.DataQualityExclusionsTotal.WithLabelValues("unrated_title").Add(float64(report.UnratedExcluded))
	}
	if report.UnknownBand {
		metrics.DataQualityExclusionsTotal.WithLabelValues("unknown_age_band").Inc()
		e.logger.Warn().
			Int("profile_id", profile.ProfileID).
			Str("age_band", profile.AgeBand.String()).
			Msg("Profile has unrecognized age band, restricting to kids-safe catalog")
	}

	scorer := NewScorer(e.cfg.Scoring, e.now().Year(), titles)
	recommendations := Rank(eligible, profile, scorer, e.cfg.Scoring.Weights, limit)
	return &RecommendResult{
		ProfileID:       profile.ProfileID,
		Count:           len(recommendations),
		Recommendations: recommendations,
		Report:          report,
	}
}

// Search finds titles whose name contains the query, case-insensitively.
// Results are ordered by match position, then name, then show ID; an empty
// match set is a successful empty result.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]models.Title, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewInvalidQueryError("q", "search query must not be empty")
	}
	limit = clampLimit(limit, e.cfg.Limits.Search)

	titles, err := e.catalog.GetAllTitles(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("catalog read", err)
	}

	needle := strings.ToLower(query)
	type match struct {
		title    models.Title
		position int
	}
	var matches []match
	for i := range titles {
		pos := strings.Index(strings.ToLower(titles[i].TitleName), needle)
		if pos < 0 {
			continue
		}
		matches = append(matches, match{title: titles[i], position: pos})
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := &matches[i], &matches[j]
		if a.position != b.position {
			return a.position < b.position
		}
		if a.title.TitleName != b.title.TitleName {
			return a.title.TitleName < b.title.TitleName
		}
		return a.title.ShowID < b.title.ShowID
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]models.Title, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.title)
	}
	return out, nil
}

// FilterTitles applies caller filters to the catalog without any viewer
// context: no age gating and no feature scoring. Results are ordered by
// rating descending with unrated titles last.
func (e *Engine) FilterTitles(ctx context.Context, criteria HardFilters, limit int) ([]models.Title, error) {
	limit = clampLimit(limit, e.cfg.Limits.Filter)

	titles, err := e.catalog.GetAllTitles(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("catalog read", err)
	}

	gate := NewGate(e.cfg)
	matched, _ := gate.Filter(titles, nil, criteria, nil)

	sort.Slice(matched, func(i, j int) bool {
		if c := compareRatingDesc(matched[i].Rating, matched[j].Rating); c != 0 {
			return c < 0
		}
		return matched[i].ShowID < matched[j].ShowID
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Similarity point values, carried over from the catalog curation rules:
// shared category is the entry ticket, shared sub-category weighs as much,
// shared type less, and year and rating proximity decay linearly.
const (
	similarityCategory    = 10.0
	similaritySubCategory = 10.0
	similarityType        = 5.0
	similarityYearWindow  = 5
	similarityRatingBand  = 1.0
)

// SimilarTitles returns catalog titles most similar to the given show,
// restricted to its category.
func (e *Engine) SimilarTitles(ctx context.Context, showID string, limit int) ([]models.SimilarTitle, error) {
	limit = clampLimit(limit, e.cfg.Limits.Similar)

	reference, err := e.catalog.GetTitleByShowID(ctx, showID)
	if err != nil {
		if errors.Is(err, &apperrors.ErrNotFound{}) {
			return nil, err
		}
		return nil, apperrors.NewStoreUnavailableError("title read", err)
	}

	titles, err := e.catalog.GetAllTitles(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("catalog read", err)
	}

	var scored []models.SimilarTitle
	for i := range titles {
		t := &titles[i]
		if t.ShowID == showID || !strings.EqualFold(t.Category, reference.Category) {
			continue
		}
		scored = append(scored, models.SimilarTitle{
			ShowID:    t.ShowID,
			TitleName: t.TitleName,
			Category:  t.Category,
			Year:      t.Year,
			Rating:    t.Rating,
			Score:     similarityScore(reference, t),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ShowID < scored[j].ShowID
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func similarityScore(a, b *models.Title) float64 {
	score := similarityCategory

	if a.SubCategory != "" && strings.EqualFold(a.SubCategory, b.SubCategory) {
		score += similaritySubCategory
	}
	if a.ContentType == b.ContentType {
		score += similarityType
	}

	yearDiff := a.Year - b.Year
	if yearDiff < 0 {
		yearDiff = -yearDiff
	}
	if yearDiff <= similarityYearWindow {
		score += float64(similarityYearWindow-yearDiff) * 2
	}

	if a.Rating != nil && b.Rating != nil {
		ratingDiff := *a.Rating - *b.Rating
		if ratingDiff < 0 {
			ratingDiff = -ratingDiff
		}
		if ratingDiff <= similarityRatingBand {
			score += (similarityRatingBand - ratingDiff) * 10
		}
	}
	return score
}

func (e *Engine) lookupProfile(ctx context.Context, profileID int) (*models.Profile, error) {
	profile, err := e.profiles.GetProfile(ctx, profileID)
	if err != nil {
		if errors.Is(err, &apperrors.ErrNotFound{}) {
			return nil, err
		}
		return nil, apperrors.NewStoreUnavailableError("profile read "+strconv.Itoa(profileID), err)
	}
	return profile, nil
}

// clampLimit maps a caller-supplied limit onto the configured range:
// non-positive falls back to the default, anything above the cap is cut to
// the cap.
func clampLimit(limit int, lc config.LimitConfig) int {
	if limit <= 0 {
		return lc.Default
	}
	if limit > lc.Max {
		return lc.Max
	}
	return limit
}
