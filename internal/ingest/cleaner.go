package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Belphemur/streamly/internal/models"
)

// Report tallies what one cleaning run did to the raw data. Every count is
// a correction, not an error: the pipeline repairs what it can and only
// skips rows it cannot parse at all.
type Report struct {
	TitlesRead        int `json:"titles_read"`
	ProfilesRead      int `json:"profiles_read"`
	AccountsDerived   int `json:"accounts_derived"`
	SkippedRows       int `json:"skipped_rows"`
	KidsFlagsCleared  int `json:"kids_flags_cleared"`
	MovieEpisodeFixes int `json:"movie_episode_fixes"`
	FilledCategories  int `json:"filled_categories"`
	FilledSubCats     int `json:"filled_sub_categories"`
	FilledRegions     int `json:"filled_regions"`
	FilledLanguages   int `json:"filled_languages"`
}

// Steps renders the report as human-readable lines for logs and the
// cleaning report file.
func (r *Report) Steps() []string {
	return []string{
		fmt.Sprintf("Read %d titles, %d profiles (%d rows skipped)", r.TitlesRead, r.ProfilesRead, r.SkippedRows),
		fmt.Sprintf("Cleared %d kids flags on titles rated 16+/18+", r.KidsFlagsCleared),
		fmt.Sprintf("Reset episode count on %d movies", r.MovieEpisodeFixes),
		fmt.Sprintf("Filled %d missing categories", r.FilledCategories),
		fmt.Sprintf("Filled %d missing sub-categories", r.FilledSubCats),
		fmt.Sprintf("Filled %d missing origin regions", r.FilledRegions),
		fmt.Sprintf("Filled %d missing languages", r.FilledLanguages),
		fmt.Sprintf("Derived %d accounts from profiles", r.AccountsDerived),
	}
}

// Cleaner parses the raw CSV exports and repairs the known data quality
// problems before anything reaches the store.
type Cleaner struct {
	logger zerolog.Logger
	report Report
}

// NewCleaner creates a Cleaner.
func NewCleaner(logger zerolog.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Report returns the tallies accumulated so far.
func (c *Cleaner) Report() *Report {
	return &c.report
}

// header maps CSV column names to indices so the parsers tolerate column
// reordering in the exports.
type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	record, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	h := make(header, len(record))
	for i, name := range record {
		h[strings.TrimSpace(name)] = i
	}
	return h, nil
}

func (h header) field(record []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// LoadTitles parses titles.csv and applies the cleaning rules: kids flags
// on 16+/18+ titles are cleared, movies are forced to one episode, and
// missing descriptive fields get fallbacks. Rows without a usable show ID
// or numeric fields are skipped, never fatal.
func (c *Cleaner) LoadTitles(r io.Reader) ([]models.Title, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	h, err := readHeader(reader)
	if err != nil {
		return nil, err
	}

	var titles []models.Title
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			c.skipRow("titles", err)
			continue
		}

		showID := h.field(record, "show_id")
		if showID == "" {
			c.skipRow("titles", fmt.Errorf("missing show_id"))
			continue
		}

		year, err := strconv.Atoi(h.field(record, "year"))
		if err != nil {
			c.skipRow("titles", fmt.Errorf("show %s: bad year: %w", showID, err))
			continue
		}

		t := models.Title{
			ShowID:        showID,
			TitleName:     h.field(record, "title_name"),
			Category:      h.field(record, "category"),
			SubCategory:   h.field(record, "sub_category"),
			ContentType:   models.ParseContentType(h.field(record, "type")),
			Duration:      atoiOrZero(h.field(record, "duration")),
			AgeRating:     models.ParseAgeRating(h.field(record, "age_rating")),
			Year:          year,
			OriginRegion:  h.field(record, "origin_region"),
			Language:      h.field(record, "language"),
			EpisodeCount:  atoiOrZero(h.field(record, "episode_count")),
			IsKidsContent: parseBool(h.field(record, "is_kids_content")),
			Rating:        parseOptionalFloat(h.field(record, "imdb_rating")),
			Votes:         parseOptionalInt(h.field(record, "imdb_votes")),
		}

		c.cleanTitle(&t)
		titles = append(titles, t)
	}

	c.report.TitlesRead = len(titles)
	return titles, nil
}

func (c *Cleaner) cleanTitle(t *models.Title) {
	if t.IsKidsContent && (t.AgeRating == models.Rating16Plus || t.AgeRating == models.Rating18Plus) {
		t.IsKidsContent = false
		c.report.KidsFlagsCleared++
	}
	if t.ContentType == models.TypeMovie && t.EpisodeCount > 1 {
		t.EpisodeCount = 1
		c.report.MovieEpisodeFixes++
	}
	if t.ContentType == models.TypeMovie && t.EpisodeCount == 0 {
		t.EpisodeCount = 1
	}
	if t.Category == "" {
		t.Category = "Unknown"
		c.report.FilledCategories++
	}
	if t.SubCategory == "" {
		t.SubCategory = t.Category
		c.report.FilledSubCats++
	}
	if t.OriginRegion == "" {
		t.OriginRegion = "Unknown"
		c.report.FilledRegions++
	}
	if t.Language == "" {
		t.Language = "Unknown"
		c.report.FilledLanguages++
	}
}

// LoadProfiles parses profiles.csv.
func (c *Cleaner) LoadProfiles(r io.Reader) ([]models.Profile, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	h, err := readHeader(reader)
	if err != nil {
		return nil, err
	}

	var profiles []models.Profile
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			c.skipRow("profiles", err)
			continue
		}

		profileID, err := strconv.Atoi(h.field(record, "profile_id"))
		if err != nil {
			c.skipRow("profiles", fmt.Errorf("bad profile_id: %w", err))
			continue
		}
		accountID, err := strconv.Atoi(h.field(record, "account_id"))
		if err != nil {
			c.skipRow("profiles", fmt.Errorf("profile %d: bad account_id: %w", profileID, err))
			continue
		}

		profiles = append(profiles, models.Profile{
			ProfileID:         profileID,
			AccountID:         accountID,
			ProfileName:       h.field(record, "profile_name"),
			KidsProfile:       parseBool(h.field(record, "kids_profile")),
			AgeBand:           models.ParseAgeBand(h.field(record, "age_band")),
			PreferredLanguage: h.field(record, "preferred_language"),
			CreatedAt:         parseDate(h.field(record, "created_at")),
			Preferences:       h.field(record, "preferences"),
		})
	}

	c.report.ProfilesRead = len(profiles)
	return profiles, nil
}

// DeriveAccounts aggregates profiles into accounts: earliest profile
// creation date, profile count, and the most common preferred language
// (ties broken alphabetically so the result is stable).
func (c *Cleaner) DeriveAccounts(profiles []models.Profile) []models.Account {
	type agg struct {
		createdAt time.Time
		count     int
		languages map[string]int
	}
	byAccount := make(map[int]*agg)
	for i := range profiles {
		p := &profiles[i]
		a, ok := byAccount[p.AccountID]
		if !ok {
			a = &agg{createdAt: p.CreatedAt, languages: make(map[string]int)}
			byAccount[p.AccountID] = a
		}
		if !p.CreatedAt.IsZero() && (a.createdAt.IsZero() || p.CreatedAt.Before(a.createdAt)) {
			a.createdAt = p.CreatedAt
		}
		a.count++
		if p.PreferredLanguage != "" {
			a.languages[p.PreferredLanguage]++
		}
	}

	accounts := make([]models.Account, 0, len(byAccount))
	for id, a := range byAccount {
		accounts = append(accounts, models.Account{
			AccountID:       id,
			CreatedAt:       a.createdAt,
			PrimaryLanguage: modalLanguage(a.languages),
			ProfileCount:    a.count,
		})
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].AccountID < accounts[j].AccountID })

	c.report.AccountsDerived = len(accounts)
	return accounts
}

func modalLanguage(counts map[string]int) string {
	best := ""
	bestCount := 0
	for lang, n := range counts {
		if n > bestCount || (n == bestCount && lang < best) {
			best = lang
			bestCount = n
		}
	}
	return best
}

func (c *Cleaner) skipRow(dataset string, err error) {
	c.report.SkippedRows++
	c.logger.Warn().Err(err).Str("dataset", dataset).Msg("Skipping unparseable row")
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}

func parseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseOptionalInt(s string) *int64 {
	if s == "" {
		return nil
	}
	// Vote counts sometimes arrive as floats ("12345.0") in the export.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		n := int64(f)
		return &n
	}
	return nil
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
