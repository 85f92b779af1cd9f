package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/Belphemur/streamly/internal/apperrors"
	"github.com/Belphemur/streamly/internal/models"
)

func TestRecommendKidsProfileNeverSeesAdultContent(t *testing.T) {
	titles := []models.Title{
		kidsTitle("k1", "Happy Cartoon"),
		adultTitle("a1", "Acclaimed Thriller"), // highest raw scores in the catalog
	}
	e := newTestEngine(t, titles, []models.Profile{kidsProfile(1)})

	result, err := e.Recommend(context.Background(), 1, 10, nil)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if result.Count != 1 {
		t.Fatalf("Expected exactly 1 recommendation, got %d", result.Count)
	}
	if result.Recommendations[0].ShowID != "k1" {
		t.Errorf("Kids profile received %s", result.Recommendations[0].ShowID)
	}
}

func TestRecommendUnknownProfile(t *testing.T) {
	e := newTestEngine(t, []models.Title{kidsTitle("k1", "Cartoon")}, nil)

	_, err := e.Recommend(context.Background(), 404, 10, nil)
	if !errors.Is(err, &apperrors.ErrNotFound{}) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func TestRecommendExcludesWatchedTitles(t *testing.T) {
	titles := []models.Title{
		kidsTitle("k1", "Cartoon One"),
		kidsTitle("k2", "Cartoon Two"),
	}
	e := newTestEngine(t, titles, []models.Profile{adultProfile(1)})

	result, err := e.Recommend(context.Background(), 1, 10, []string{"k1"})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	for _, rec := range result.Recommendations {
		if rec.ShowID == "k1" {
			t.Error("Excluded show ID surfaced in recommendations")
		}
	}
	if result.Count != 1 {
		t.Errorf("Expected 1 recommendation after exclusion, got %d", result.Count)
	}
}

func TestRecommendDeterministic(t *testing.T) {
	titles := []models.Title{
		kidsTitle("k1", "Cartoon"),
		adultTitle("a1", "Thriller"),
		{ShowID: "m1", TitleName: "Quiet Film", Category: "Drama", ContentType: models.TypeMovie, AgeRating: models.Rating13Plus, Year: 2019, Language: "French", Rating: floatPtr(7.1), Votes: intPtr(900)},
	}
	profile := adultProfile(1)
	profile.Preferences = "Drama"
	e := newTestEngine(t, titles, []models.Profile{profile})

	first, err := e.Recommend(context.Background(), 1, 10, nil)
	if err != nil {
		t.Fatalf("First Recommend failed: %v", err)
	}
	second, err := e.Recommend(context.Background(), 1, 10, nil)
	if err != nil {
		t.Fatalf("Second Recommend failed: %v", err)
	}
	if first.Count != second.Count {
		t.Fatalf("Counts differ: %d vs %d", first.Count, second.Count)
	}
	for i := range first.Recommendations {
		if first.Recommendations[i] != second.Recommendations[i] {
			t.Errorf("Position %d differs between identical calls", i)
		}
	}
}

func TestRecommendLimitClamping(t *testing.T) {
	var titles []models.Title
	for i := 0; i < 60; i++ {
		titles = append(titles, models.Title{
			ShowID:    "s" + string(rune('a'+i/26)) + string(rune('a'+i%26)),
			TitleName: "Title",
			Category:  "Drama",
			AgeRating: models.RatingPG,
			Year:      2020,
		})
	}
	e := newTestEngine(t, titles, []models.Profile{adultProfile(1)})
	ctx := context.Background()

	byDefault, err := e.Recommend(ctx, 1, 0, nil)
	if err != nil {
		t.Fatalf("Recommend with zero limit failed: %v", err)
	}
	if byDefault.Count != 10 {
		t.Errorf("Expected default limit 10, got %d", byDefault.Count)
	}

	clamped, err := e.Recommend(ctx, 1, 500, nil)
	if err != nil {
		t.Fatalf("Recommend with oversized limit failed: %v", err)
	}
	if clamped.Count != 50 {
		t.Errorf("Expected limit clamped to 50, got %d", clamped.Count)
	}
}

func TestRecommendEmptyEligibleSetIsSuccess(t *testing.T) {
	// Everything in the catalog is adult-only; the kids profile gets an
	// empty result, not an error.
	e := newTestEngine(t, []models.Title{adultTitle("a1", "Thriller")}, []models.Profile{kidsProfile(1)})

	result, err := e.Recommend(context.Background(), 1, 10, nil)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if result.Count != 0 || len(result.Recommendations) != 0 {
		t.Errorf("Expected empty result, got %+v", result)
	}
	if result.Report.Candidates != 1 || result.Report.Eligible != 0 {
		t.Errorf("Report should show the gated candidate: %+v", result.Report)
	}
}

func TestRecommendReportsUnratedExclusions(t *testing.T) {
	titles := []models.Title{
		kidsTitle("k1", "Cartoon"),
		{ShowID: "u1", TitleName: "Mystery Meat", Category: "Drama", Year: 2020},
	}
	e := newTestEngine(t, titles, []models.Profile{adultProfile(1)})

	result, err := e.Recommend(context.Background(), 1, 10, nil)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if result.Report.UnratedExcluded != 1 {
		t.Errorf("Expected 1 unrated exclusion in report, got %d", result.Report.UnratedExcluded)
	}
}

func TestRecommendByCategory(t *testing.T) {
	titles := []models.Title{
		kidsTitle("k1", "Cartoon"),
		adultTitle("a1", "Thriller"),
		{ShowID: "d1", TitleName: "Second Drama", Category: "Drama", ContentType: models.TypeMovie, AgeRating: models.Rating16Plus, Year: 2015, Language: "English", Rating: floatPtr(6.5), Votes: intPtr(2000)},
	}
	e := newTestEngine(t, titles, []models.Profile{adultProfile(1)})

	result, err := e.RecommendByCategory(context.Background(), 1, "Drama", 10)
	if err != nil {
		t.Fatalf("RecommendByCategory failed: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("Expected 2 drama recommendations, got %d", result.Count)
	}
	for _, rec := range result.Recommendations {
		if rec.Category != "Drama" {
			t.Errorf("Unexpected category %s", rec.Category)
		}
	}
}

func TestSearch(t *testing.T) {
	titles := []models.Title{
		{ShowID: "s1", TitleName: "The Dark Forest", Category: "Drama", AgeRating: models.RatingPG, Year: 2020},
		{ShowID: "s2", TitleName: "Dark Waters", Category: "Drama", AgeRating: models.RatingPG, Year: 2019},
		{ShowID: "s3", TitleName: "Light Comedy", Category: "Comedy", AgeRating: models.RatingPG, Year: 2021},
	}
	e := newTestEngine(t, titles, nil)
	ctx := context.Background()

	results, err := e.Search(ctx, "dark", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(results))
	}
	// "Dark Waters" matches at position 0, "The Dark Forest" at position 4.
	if results[0].ShowID != "s2" || results[1].ShowID != "s1" {
		t.Errorf("Match position ordering wrong: %s, %s", results[0].ShowID, results[1].ShowID)
	}

	empty, err := e.Search(ctx, "zzz nothing", 10)
	if err != nil {
		t.Fatalf("Search with no matches failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected empty result, got %d", len(empty))
	}
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	e := newTestEngine(t, nil, nil)

	for _, q := range []string{"", "   ", "\t"} {
		_, err := e.Search(context.Background(), q, 10)
		if !errors.Is(err, &apperrors.ErrInvalidQuery{}) {
			t.Errorf("Query %q: expected invalid-query error, got %v", q, err)
		}
	}
}

func TestFilterTitles(t *testing.T) {
	titles := []models.Title{
		{ShowID: "f1", TitleName: "Old Drama", Category: "Drama", ContentType: models.TypeMovie, AgeRating: models.Rating16Plus, Year: 1995, Language: "English", Rating: floatPtr(8.8)},
		{ShowID: "f2", TitleName: "New Drama", Category: "Drama", ContentType: models.TypeSeries, AgeRating: models.Rating18Plus, Year: 2022, Language: "English", Rating: floatPtr(7.0)},
		{ShowID: "f3", TitleName: "Comedy", Category: "Comedy", ContentType: models.TypeMovie, AgeRating: models.RatingPG, Year: 2018, Language: "English"},
	}
	e := newTestEngine(t, titles, nil)
	ctx := context.Background()

	dramas, err := e.FilterTitles(ctx, HardFilters{Category: "Drama"}, 10)
	if err != nil {
		t.Fatalf("FilterTitles failed: %v", err)
	}
	if len(dramas) != 2 {
		t.Fatalf("Expected 2 dramas, got %d", len(dramas))
	}
	if dramas[0].ShowID != "f1" {
		t.Errorf("Expected rating-descending order, got %s first", dramas[0].ShowID)
	}

	// Unrated titles sort last but are not dropped without a MinRating.
	all, err := e.FilterTitles(ctx, HardFilters{}, 10)
	if err != nil {
		t.Fatalf("FilterTitles without criteria failed: %v", err)
	}
	if len(all) != 3 || all[2].ShowID != "f3" {
		t.Errorf("Expected unrated title last, got %+v", all)
	}

	rated, err := e.FilterTitles(ctx, HardFilters{MinRating: floatPtr(8.0)}, 10)
	if err != nil {
		t.Fatalf("FilterTitles with min rating failed: %v", err)
	}
	if len(rated) != 1 || rated[0].ShowID != "f1" {
		t.Errorf("Expected only f1 above 8.0, got %+v", rated)
	}
}

func TestSimilarTitles(t *testing.T) {
	titles := []models.Title{
		{ShowID: "ref", TitleName: "Reference", Category: "Drama", SubCategory: "Crime", ContentType: models.TypeMovie, AgeRating: models.Rating16Plus, Year: 2020, Rating: floatPtr(8.0)},
		{ShowID: "close", TitleName: "Close Match", Category: "Drama", SubCategory: "Crime", ContentType: models.TypeMovie, AgeRating: models.Rating16Plus, Year: 2021, Rating: floatPtr(8.2)},
		{ShowID: "far", TitleName: "Loose Match", Category: "Drama", SubCategory: "Romance", ContentType: models.TypeSeries, AgeRating: models.RatingPG, Year: 1990, Rating: floatPtr(5.0)},
		{ShowID: "other", TitleName: "Comedy", Category: "Comedy", ContentType: models.TypeMovie, AgeRating: models.RatingPG, Year: 2020},
	}
	e := newTestEngine(t, titles, nil)
	ctx := context.Background()

	similar, err := e.SimilarTitles(ctx, "ref", 10)
	if err != nil {
		t.Fatalf("SimilarTitles failed: %v", err)
	}
	if len(similar) != 2 {
		t.Fatalf("Expected 2 similar titles within the category, got %d", len(similar))
	}
	if similar[0].ShowID != "close" {
		t.Errorf("Expected close before far, got %s first", similar[0].ShowID)
	}
	if similar[0].Score <= similar[1].Score {
		t.Errorf("Similarity scores not descending: %f then %f", similar[0].Score, similar[1].Score)
	}
	for _, s := range similar {
		if s.ShowID == "ref" {
			t.Error("Reference title included in its own similar list")
		}
	}

	_, err = e.SimilarTitles(ctx, "missing", 10)
	if !errors.Is(err, &apperrors.ErrNotFound{}) {
		t.Errorf("Expected not-found for unknown show, got %v", err)
	}
}

func TestSimilarityScore(t *testing.T) {
	ref := models.Title{Category: "Drama", SubCategory: "Crime", ContentType: models.TypeMovie, Year: 2020, Rating: floatPtr(8.0)}

	identical := ref
	// Same sub-category, type, year and rating: 10 + 10 + 5 + 10 + 10.
	if got := similarityScore(&ref, &identical); got != 45.0 {
		t.Errorf("Identical titles: expected 45, got %f", got)
	}

	distant := models.Title{Category: "Drama", SubCategory: "Romance", ContentType: models.TypeSeries, Year: 1990}
	if got := similarityScore(&ref, &distant); got != 10.0 {
		t.Errorf("Distant title: expected only category points, got %f", got)
	}

	nearYear := models.Title{Category: "Drama", SubCategory: "Romance", ContentType: models.TypeSeries, Year: 2018}
	// Category 10 plus (5-2)*2 year points.
	if got := similarityScore(&ref, &nearYear); got != 16.0 {
		t.Errorf("Near-year title: expected 16, got %f", got)
	}
}

func TestClampLimit(t *testing.T) {
	lc := testConfig().Limits.Recommend
	tests := []struct{ in, want int }{
		{0, 10},
		{-5, 10},
		{25, 25},
		{50, 50},
		{500, 50},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.in, lc); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
