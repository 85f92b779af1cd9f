package engine

import (
	"strings"

	"github.com/Belphemur/streamly/internal/config"
	"github.com/Belphemur/streamly/internal/models"
)

// HardFilters are caller-supplied constraints, AND-combined after the
// mandatory age gating. Zero values mean "not set".
type HardFilters struct {
	Category    string
	ContentType models.ContentType
	AgeRating   models.AgeRating
	YearMin     int
	YearMax     int
	Language    string
	MinRating   *float64
	KidsOnly    bool
}

// FilterReport tallies what the eligibility pass did, so callers can tell
// "nothing matched" apart from "data quality dropped everything".
type FilterReport struct {
	Candidates      int  `json:"candidates"`
	Eligible        int  `json:"eligible"`
	UnratedExcluded int  `json:"unrated_excluded"`
	UnknownBand     bool `json:"unknown_band_fallback"`
}

// Gate applies the mandatory age-safety rules. The kids-safe set and the
// band ceilings come from configuration and cannot be widened by any
// request parameter.
type Gate struct {
	kidsSafe map[models.AgeRating]bool
	ceiling  func(models.AgeBand) (models.AgeRating, bool)
}

// NewGate builds a Gate from the loaded configuration.
func NewGate(cfg *config.Config) *Gate {
	return &Gate{
		kidsSafe: cfg.KidsSafeSet(),
		ceiling:  cfg.BandCeiling,
	}
}

// Filter returns the titles the profile may be shown, after the mandatory
// gating, the caller's hard filters and the exclusion set. A nil profile
// skips the age gating entirely (used by the catalog filter endpoint, which
// has no viewer context). Output order is unspecified.
func (g *Gate) Filter(titles []models.Title, profile *models.Profile, hard HardFilters, exclude map[string]struct{}) ([]models.Title, FilterReport) {
	report := FilterReport{Candidates: len(titles)}

	eligible := make([]models.Title, 0, len(titles))
	for i := range titles {
		t := &titles[i]

		if profile != nil {
			ok, unrated := g.permitted(t, profile, &report)
			if unrated {
				report.UnratedExcluded++
				continue
			}
			if !ok {
				continue
			}
		}
		if !matchesHardFilters(t, hard) {
			continue
		}
		if _, excluded := exclude[t.ShowID]; excluded {
			continue
		}
		eligible = append(eligible, *t)
	}

	report.Eligible = len(eligible)
	return eligible, report
}

// permitted decides whether the profile may see the title at all. The second
// return value flags a title dropped for carrying no usable age rating.
func (g *Gate) permitted(t *models.Title, profile *models.Profile, report *FilterReport) (ok bool, unrated bool) {
	if t.AgeRating == models.RatingUnknown {
		return false, true
	}

	if profile.KidsProfile {
		return t.IsKidsContent && g.kidsSafe[t.AgeRating], false
	}

	ceiling, known := g.ceiling(profile.AgeBand)
	if !known {
		// Unrecognized age band: treat the viewer as the youngest audience
		// rather than the oldest.
		report.UnknownBand = true
		return g.kidsSafe[t.AgeRating], false
	}
	return t.AgeRating <= ceiling, false
}

func matchesHardFilters(t *models.Title, hard HardFilters) bool {
	if hard.Category != "" && !strings.EqualFold(t.Category, hard.Category) {
		return false
	}
	if hard.ContentType != models.TypeUnknown && t.ContentType != hard.ContentType {
		return false
	}
	if hard.AgeRating != models.RatingUnknown && t.AgeRating != hard.AgeRating {
		return false
	}
	if hard.YearMin != 0 && t.Year < hard.YearMin {
		return false
	}
	if hard.YearMax != 0 && t.Year > hard.YearMax {
		return false
	}
	if hard.Language != "" && !strings.EqualFold(t.Language, hard.Language) {
		return false
	}
	if hard.MinRating != nil && (t.Rating == nil || *t.Rating < *hard.MinRating) {
		return false
	}
	if hard.KidsOnly && !t.IsKidsContent {
		return false
	}
	return true
}
