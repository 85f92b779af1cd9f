package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Belphemur/streamly/internal/apperrors"
	"github.com/Belphemur/streamly/internal/models"
)

func init() {
	Register("memory", newMemoryStore)
}

// memoryStore keeps the catalog and profiles in process memory. It backs
// tests and small deployments where an embedded database is overkill; the
// engine cannot tell it apart from the sqlite provider.
type memoryStore struct {
	mu       sync.RWMutex
	titles   []models.Title
	accounts []models.Account
	profiles []models.Profile
}

func newMemoryStore(Options) (Store, error) {
	return &memoryStore{}, nil
}

func (m *memoryStore) Migrate(context.Context) error {
	return nil
}

func (m *memoryStore) GetAllTitles(context.Context) ([]models.Title, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Title, len(m.titles))
	copy(out, m.titles)
	return out, nil
}

func (m *memoryStore) GetTitleByShowID(_ context.Context, showID string) (*models.Title, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.titles {
		if m.titles[i].ShowID == showID {
			t := m.titles[i]
			return &t, nil
		}
	}
	return nil, apperrors.NewTitleNotFoundError(showID)
}

func (m *memoryStore) ListTitles(_ context.Context, page, perPage int, sortBy, order string) ([]models.Title, int64, error) {
	if page < 1 {
		page = 1
	}
	sortBy, order = NormalizeSort(sortBy, order)

	m.mu.RLock()
	titles := make([]models.Title, len(m.titles))
	copy(titles, m.titles)
	m.mu.RUnlock()

	asc := order == "asc"
	sort.SliceStable(titles, func(i, j int) bool {
		less := lessByField(&titles[i], &titles[j], sortBy)
		if asc {
			return less
		}
		return lessByField(&titles[j], &titles[i], sortBy)
	})

	total := int64(len(titles))
	start := (page - 1) * perPage
	if start >= len(titles) {
		return nil, total, nil
	}
	end := start + perPage
	if end > len(titles) {
		end = len(titles)
	}
	return titles[start:end], total, nil
}

// lessByField orders titles on a single column; nil ratings sort below any
// present rating so "top rated" pages never lead with unrated titles.
func lessByField(a, b *models.Title, field string) bool {
	switch field {
	case "year":
		return a.Year < b.Year
	case "title_name":
		return a.TitleName < b.TitleName
	case "duration":
		return a.Duration < b.Duration
	default: // imdb_rating
		switch {
		case a.Rating == nil && b.Rating == nil:
			return false
		case a.Rating == nil:
			return true
		case b.Rating == nil:
			return false
		default:
			return *a.Rating < *b.Rating
		}
	}
}

func (m *memoryStore) Categories(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	var categories []string
	for i := range m.titles {
		c := m.titles[i].Category
		if c == "" || c == "Unknown" || seen[c] {
			continue
		}
		seen[c] = true
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, nil
}

func (m *memoryStore) Statistics(context.Context) (*models.CatalogStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &models.CatalogStats{
		TotalAccounts: int64(len(m.accounts)),
		TotalProfiles: int64(len(m.profiles)),
		TotalTitles:   int64(len(m.titles)),
	}

	for i := range m.profiles {
		if m.profiles[i].KidsProfile {
			stats.KidsProfiles++
		}
	}

	var ratingSum float64
	categories := make(map[string]bool)
	languages := make(map[string]bool)
	regions := make(map[string]bool)
	for i := range m.titles {
		t := &m.titles[i]
		if t.IsKidsContent {
			stats.KidsContent++
		}
		switch t.ContentType {
		case models.TypeMovie:
			stats.Movies++
		case models.TypeSeries:
			stats.Series++
		}
		if t.Rating != nil {
			stats.RatedTitles++
			ratingSum += *t.Rating
		}
		categories[t.Category] = true
		languages[strings.ToLower(t.Language)] = true
		regions[t.OriginRegion] = true
	}
	if stats.RatedTitles > 0 {
		avg := ratingSum / float64(stats.RatedTitles)
		stats.AvgRating = &avg
	}
	stats.UniqueCategories = int64(len(categories))
	stats.UniqueLanguages = int64(len(languages))
	stats.UniqueRegions = int64(len(regions))

	return stats, nil
}

func (m *memoryStore) GetProfile(_ context.Context, profileID int) (*models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.profiles {
		if m.profiles[i].ProfileID == profileID {
			p := m.profiles[i]
			return &p, nil
		}
	}
	return nil, apperrors.NewProfileNotFoundError(profileID)
}

func (m *memoryStore) ListProfiles(context.Context) ([]models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Profile, len(m.profiles))
	copy(out, m.profiles)
	sort.Slice(out, func(i, j int) bool { return out[i].ProfileID < out[j].ProfileID })
	return out, nil
}

func (m *memoryStore) GetProfilesByAccount(_ context.Context, accountID int) ([]models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Profile
	for i := range m.profiles {
		if m.profiles[i].AccountID == accountID {
			out = append(out, m.profiles[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProfileID < out[j].ProfileID })
	return out, nil
}

func (m *memoryStore) ReplaceCatalog(_ context.Context, titles []models.Title) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.titles = make([]models.Title, len(titles))
	copy(m.titles, titles)
	return nil
}

func (m *memoryStore) ReplaceProfiles(_ context.Context, accounts []models.Account, profiles []models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accounts = make([]models.Account, len(accounts))
	copy(m.accounts, accounts)
	m.profiles = make([]models.Profile, len(profiles))
	copy(m.profiles, profiles)
	return nil
}

func (m *memoryStore) Close() error {
	return nil
}
