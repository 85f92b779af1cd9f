package engine

import (
	"math"
	"strings"

	"github.com/Belphemur/streamly/internal/config"
	"github.com/Belphemur/streamly/internal/models"
)

// Neutral values for sub-scores when the underlying signal is absent. An
// absent signal must neither reward nor punish a title, so it sits in the
// middle of the [0,1] range.
const (
	neutralPreference = 0.5
	neutralLanguage   = 0.5
	neutralQuality    = 0.5

	relatedPreference = 0.5
	englishFallback   = 0.7
	languageMismatch  = 0.3
)

// Subscores holds the five per-title feature scores, each in [0,1].
type Subscores struct {
	Preference float64 `json:"preference"`
	Language   float64 `json:"language"`
	Quality    float64 `json:"quality"`
	Recency    float64 `json:"recency"`
	Popularity float64 `json:"popularity"`
}

// Composite collapses the sub-scores into the 0-100 presentation scale,
// rounded to two decimals.
func (s Subscores) Composite(w config.Weights) float64 {
	raw := s.Preference*w.Preference +
		s.Language*w.Language +
		s.Quality*w.Quality +
		s.Recency*w.Recency +
		s.Popularity*w.Popularity
	return math.Round(raw*100*100) / 100
}

// Scorer computes feature scores for one catalog snapshot. It is built per
// request from the scoring configuration plus catalog context (current year
// and the largest vote count seen), so the same inputs always produce the
// same scores.
type Scorer struct {
	cfg         config.ScoringConfig
	currentYear int
	logMaxVotes float64
}

// NewScorer derives a Scorer for the given catalog snapshot.
func NewScorer(cfg config.ScoringConfig, currentYear int, titles []models.Title) *Scorer {
	var maxVotes int64
	for i := range titles {
		if v := titles[i].VoteCount(); v > maxVotes {
			maxVotes = v
		}
	}
	return &Scorer{
		cfg:         cfg,
		currentYear: currentYear,
		logMaxVotes: math.Log1p(float64(maxVotes)),
	}
}

// Score computes the five sub-scores for a title as seen by a profile.
func (s *Scorer) Score(t *models.Title, profile *models.Profile) Subscores {
	return Subscores{
		Preference: preferenceScore(t, profile.PreferenceTags()),
		Language:   languageScore(t.Language, profile.PreferredLanguage),
		Quality:    qualityScore(t),
		Recency:    s.recencyScore(t.Year),
		Popularity: s.popularityScore(t),
	}
}

// preferenceScore matches the title's category and sub-category against the
// profile's preference tags. Exact match wins over a related (substring)
// match; a profile without tags is neutral toward everything.
func preferenceScore(t *models.Title, tags []string) float64 {
	if len(tags) == 0 {
		return neutralPreference
	}

	category := strings.ToLower(t.Category)
	subCategory := strings.ToLower(t.SubCategory)

	best := 0.0
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		if lower == category || (subCategory != "" && lower == subCategory) {
			return 1.0
		}
		if category != "" && (strings.Contains(category, lower) || strings.Contains(lower, category)) {
			best = relatedPreference
		}
	}
	return best
}

func languageScore(titleLang, profileLang string) float64 {
	titleLang = strings.TrimSpace(titleLang)
	profileLang = strings.TrimSpace(profileLang)
	if titleLang == "" || profileLang == "" ||
		strings.EqualFold(titleLang, "Unknown") || strings.EqualFold(profileLang, "Unknown") {
		return neutralLanguage
	}
	if strings.EqualFold(titleLang, profileLang) {
		return 1.0
	}
	// English content travels well across language preferences.
	if strings.EqualFold(titleLang, "English") {
		return englishFallback
	}
	return languageMismatch
}

func qualityScore(t *models.Title) float64 {
	if t.Rating == nil {
		return neutralQuality
	}
	score := *t.Rating / 10
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// recencyScore decays linearly from 1.0 at the fresh threshold to 0.0 at
// the stale threshold.
func (s *Scorer) recencyScore(year int) float64 {
	age := s.currentYear - year
	fresh := s.cfg.RecencyFreshYears
	stale := s.cfg.RecencyStaleYears
	switch {
	case age <= fresh:
		return 1.0
	case age >= stale:
		return 0.0
	default:
		return float64(stale-age) / float64(stale-fresh)
	}
}

// popularityScore normalizes the vote count against the catalog maximum on a
// log scale, so a handful of blockbusters does not flatten everything else
// to zero.
func (s *Scorer) popularityScore(t *models.Title) float64 {
	votes := t.VoteCount()
	if votes <= 0 || s.logMaxVotes == 0 {
		return 0
	}
	score := math.Log1p(float64(votes)) / s.logMaxVotes
	if score > 1 {
		return 1
	}
	return score
}
