package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Belphemur/streamly/internal/models"
)

const titlesCSV = `show_id,title_name,category,sub_category,type,duration,age_rating,year,origin_region,language,episode_count,is_kids_content,imdb_rating,imdb_votes
s1,Happy Cartoon,Animation,Kids,Series,25,PG,2022,US,English,24,True,7.5,12000
s2,Mislabeled Show,Drama,,Series,45,18+,2020,GB,English,8,True,8.1,50000
s3,Long Movie,Drama,Crime,Movie,130,16+,2019,US,English,6,False,7.9,30000
s4,,,,Movie,90,,2015,,,0,False,,
s5,Broken Row,Drama,Crime,Movie,100,PG,not-a-year,US,English,1,False,6.0,100
`

const profilesCSV = `profile_id,account_id,profile_name,kids_profile,age_band,preferred_language,created_at,preferences
1,100,Sam,False,25-34,English,2023-01-15,"Drama, Thriller"
2,100,Junior,True,<13,English,2023-02-01,
3,200,Lena,False,35-49,German,2022-06-10,Comedy
4,200,Max,False,18-24,German,2022-05-01,Drama
5,200,Nina,False,50+,French,2022-07-20,Romance
bad,200,Ghost,False,25-34,French,2022-08-01,
`

func newTestCleaner() *Cleaner {
	return NewCleaner(zerolog.Nop())
}

func TestLoadTitlesCleaningRules(t *testing.T) {
	c := newTestCleaner()
	titles, err := c.LoadTitles(strings.NewReader(titlesCSV))
	if err != nil {
		t.Fatalf("LoadTitles failed: %v", err)
	}
	if len(titles) != 4 {
		t.Fatalf("Expected 4 titles (one skipped), got %d", len(titles))
	}

	byID := make(map[string]models.Title)
	for _, title := range titles {
		byID[title.ShowID] = title
	}

	// Kids flag holds only for safe ratings.
	if !byID["s1"].IsKidsContent {
		t.Error("s1 should keep its kids flag")
	}
	if byID["s2"].IsKidsContent {
		t.Error("s2 is rated 18+ and must lose its kids flag")
	}

	// Movies are single-episode by definition.
	if got := byID["s3"].EpisodeCount; got != 1 {
		t.Errorf("s3 episode count: expected 1, got %d", got)
	}
	if got := byID["s1"].EpisodeCount; got != 24 {
		t.Errorf("s1 episode count must stay 24, got %d", got)
	}

	// Missing descriptive fields get fallbacks.
	s4 := byID["s4"]
	if s4.Category != "Unknown" || s4.SubCategory != "Unknown" || s4.OriginRegion != "Unknown" || s4.Language != "Unknown" {
		t.Errorf("s4 fallbacks wrong: %+v", s4)
	}
	if s4.AgeRating != models.RatingUnknown {
		t.Errorf("s4 should carry an unknown rating, got %s", s4.AgeRating)
	}
	if s4.Rating != nil || s4.Votes != nil {
		t.Error("s4 missing IMDb fields must stay nil")
	}
	if s4.EpisodeCount != 1 {
		t.Errorf("s4 is a movie and should default to 1 episode, got %d", s4.EpisodeCount)
	}

	// Sub-category falls back to the category, not to "Unknown".
	if got := byID["s2"].SubCategory; got != "Drama" {
		t.Errorf("s2 sub-category: expected Drama, got %s", got)
	}

	report := c.Report()
	if report.TitlesRead != 4 || report.SkippedRows != 1 {
		t.Errorf("Report rows wrong: %+v", report)
	}
	if report.KidsFlagsCleared != 1 || report.MovieEpisodeFixes != 1 {
		t.Errorf("Report fixes wrong: %+v", report)
	}
	if report.FilledCategories != 1 || report.FilledSubCats != 2 {
		t.Errorf("Report fills wrong: %+v", report)
	}
}

func TestLoadProfiles(t *testing.T) {
	c := newTestCleaner()
	profiles, err := c.LoadProfiles(strings.NewReader(profilesCSV))
	if err != nil {
		t.Fatalf("LoadProfiles failed: %v", err)
	}
	if len(profiles) != 5 {
		t.Fatalf("Expected 5 profiles (one skipped), got %d", len(profiles))
	}

	first := profiles[0]
	if first.ProfileID != 1 || first.AccountID != 100 {
		t.Errorf("First profile IDs wrong: %+v", first)
	}
	if first.AgeBand != models.Band25To34 {
		t.Errorf("Expected 25-34 band, got %s", first.AgeBand)
	}
	if got := first.PreferenceTags(); len(got) != 2 || got[0] != "Drama" || got[1] != "Thriller" {
		t.Errorf("Preference tags wrong: %v", got)
	}
	if first.CreatedAt != time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC) {
		t.Errorf("Created at wrong: %v", first.CreatedAt)
	}
	if !profiles[1].KidsProfile {
		t.Error("Profile 2 should be a kids profile")
	}
	if c.Report().SkippedRows != 1 {
		t.Errorf("Expected 1 skipped profile row, got %d", c.Report().SkippedRows)
	}
}

func TestDeriveAccounts(t *testing.T) {
	c := newTestCleaner()
	profiles, err := c.LoadProfiles(strings.NewReader(profilesCSV))
	if err != nil {
		t.Fatalf("LoadProfiles failed: %v", err)
	}

	accounts := c.DeriveAccounts(profiles)
	if len(accounts) != 2 {
		t.Fatalf("Expected 2 accounts, got %d", len(accounts))
	}

	a100, a200 := accounts[0], accounts[1]
	if a100.AccountID != 100 || a200.AccountID != 200 {
		t.Fatalf("Accounts not ordered by ID: %+v", accounts)
	}

	if a100.ProfileCount != 2 || a200.ProfileCount != 3 {
		t.Errorf("Profile counts wrong: %d, %d", a100.ProfileCount, a200.ProfileCount)
	}
	// Earliest profile creation wins.
	if a200.CreatedAt != time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("Account 200 created at wrong: %v", a200.CreatedAt)
	}
	// German appears twice for account 200, French once.
	if a200.PrimaryLanguage != "German" {
		t.Errorf("Account 200 primary language: expected German, got %s", a200.PrimaryLanguage)
	}
	if a100.PrimaryLanguage != "English" {
		t.Errorf("Account 100 primary language: expected English, got %s", a100.PrimaryLanguage)
	}
}

func TestModalLanguageTieBreak(t *testing.T) {
	counts := map[string]int{"French": 2, "English": 2, "German": 1}
	if got := modalLanguage(counts); got != "English" {
		t.Errorf("Expected alphabetical tie-break to English, got %s", got)
	}
	if got := modalLanguage(nil); got != "" {
		t.Errorf("Expected empty string for no languages, got %q", got)
	}
}

func TestReportSteps(t *testing.T) {
	r := &Report{TitlesRead: 10, KidsFlagsCleared: 2}
	steps := r.Steps()
	if len(steps) == 0 {
		t.Fatal("Expected report steps")
	}
	if !strings.Contains(steps[1], "2 kids flags") {
		t.Errorf("Unexpected step text: %s", steps[1])
	}
}
