package engine

import (
	"sort"

	"github.com/Belphemur/streamly/internal/config"
	"github.com/Belphemur/streamly/internal/models"
)

type scoredTitle struct {
	title     *models.Title
	subscores Subscores
	composite float64
}

// Rank scores every eligible title for the profile, orders the results and
// truncates to limit (limit <= 0 means no truncation). The ordering is a
// total order: composite descending, then rating descending with unrated
// titles last, then votes descending, then show ID ascending. Identical
// inputs always produce the identical sequence.
func Rank(eligible []models.Title, profile *models.Profile, scorer *Scorer, weights config.Weights, limit int) []models.Recommendation {
	scored := make([]scoredTitle, 0, len(eligible))
	for i := range eligible {
		t := &eligible[i]
		sub := scorer.Score(t, profile)
		scored = append(scored, scoredTitle{
			title:     t,
			subscores: sub,
			composite: sub.Composite(weights),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		return rankedBefore(&scored[i], &scored[j])
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	out := make([]models.Recommendation, 0, len(scored))
	for _, s := range scored {
		out = append(out, toRecommendation(s.title, s.composite))
	}
	return out
}

func rankedBefore(a, b *scoredTitle) bool {
	if a.composite != b.composite {
		return a.composite > b.composite
	}
	if c := compareRatingDesc(a.title.Rating, b.title.Rating); c != 0 {
		return c < 0
	}
	if av, bv := a.title.VoteCount(), b.title.VoteCount(); av != bv {
		return av > bv
	}
	return a.title.ShowID < b.title.ShowID
}

// compareRatingDesc orders present ratings high to low and sorts nil after
// any present value.
func compareRatingDesc(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	default:
		return 0
	}
}

func toRecommendation(t *models.Title, score float64) models.Recommendation {
	return models.Recommendation{
		ShowID:      t.ShowID,
		TitleName:   t.TitleName,
		Category:    t.Category,
		SubCategory: t.SubCategory,
		ContentType: t.ContentType,
		Duration:    t.Duration,
		AgeRating:   t.AgeRating,
		Year:        t.Year,
		Language:    t.Language,
		Rating:      t.Rating,
		Score:       score,
	}
}
