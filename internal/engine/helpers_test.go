package engine

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Belphemur/streamly/internal/config"
	"github.com/Belphemur/streamly/internal/models"
	"github.com/Belphemur/streamly/internal/store"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int64) *int64       { return &v }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Scoring = config.ScoringConfig{
		Weights: config.Weights{
			Preference: 0.30,
			Language:   0.20,
			Quality:    0.25,
			Recency:    0.10,
			Popularity: 0.15,
		},
		RecencyFreshYears: 1,
		RecencyStaleYears: 20,
		KidsSafeRatings:   []string{"G", "PG"},
		BandCeilings: map[string]string{
			"<13":   "PG",
			"13-17": "13+",
			"18-24": "18+",
			"25-34": "18+",
			"35-49": "18+",
			"50+":   "18+",
		},
	}
	cfg.Limits.Recommend = config.LimitConfig{Default: 10, Max: 50}
	cfg.Limits.Filter = config.LimitConfig{Default: 50, Max: 100}
	cfg.Limits.Search = config.LimitConfig{Default: 20, Max: 50}
	cfg.Limits.Similar = config.LimitConfig{Default: 10, Max: 20}
	return cfg
}

func kidsTitle(showID, name string) models.Title {
	return models.Title{
		ShowID:        showID,
		TitleName:     name,
		Category:      "Animation",
		ContentType:   models.TypeSeries,
		AgeRating:     models.RatingPG,
		Year:          2023,
		Language:      "English",
		IsKidsContent: true,
		Rating:        floatPtr(7.0),
		Votes:         intPtr(1000),
	}
}

func adultTitle(showID, name string) models.Title {
	return models.Title{
		ShowID:      showID,
		TitleName:   name,
		Category:    "Drama",
		ContentType: models.TypeMovie,
		AgeRating:   models.Rating18Plus,
		Year:        2021,
		Language:    "English",
		Rating:      floatPtr(9.5),
		Votes:       intPtr(500000),
	}
}

func adultProfile(id int) models.Profile {
	return models.Profile{
		ProfileID:         id,
		AccountID:         1,
		ProfileName:       "Adult",
		AgeBand:           models.Band25To34,
		PreferredLanguage: "English",
		CreatedAt:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func kidsProfile(id int) models.Profile {
	p := adultProfile(id)
	p.ProfileName = "Kid"
	p.KidsProfile = true
	p.AgeBand = models.BandUnder13
	return p
}

// newTestEngine wires an Engine over a memory store seeded with the given
// data, pinned to a fixed clock so recency scores are stable.
func newTestEngine(t *testing.T, titles []models.Title, profiles []models.Profile) *Engine {
	t.Helper()
	s, err := store.Open("memory", store.Options{})
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	if err := s.ReplaceCatalog(ctx, titles); err != nil {
		t.Fatalf("ReplaceCatalog failed: %v", err)
	}
	if err := s.ReplaceProfiles(ctx, nil, profiles); err != nil {
		t.Fatalf("ReplaceProfiles failed: %v", err)
	}

	e := New(s, s, testConfig(), zerolog.Nop())
	e.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return e
}
