package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Belphemur/streamly/internal/models"
)

// CatalogView is the read-only capability set over the title catalog that
// the recommendation engine consumes. Absent numeric fields stay nil on the
// returned titles; implementations must never coerce them to zero.
type CatalogView interface {
	// GetAllTitles returns the full catalog snapshot.
	GetAllTitles(ctx context.Context) ([]models.Title, error)

	// GetTitleByShowID resolves a single title; apperrors.ErrNotFound when absent.
	GetTitleByShowID(ctx context.Context, showID string) (*models.Title, error)

	// ListTitles returns one page of titles plus the total count.
	// sortBy must be one of the ValidSortFields; order is "asc" or "desc".
	ListTitles(ctx context.Context, page, perPage int, sortBy, order string) ([]models.Title, int64, error)

	// Categories returns the distinct non-empty category names, sorted,
	// excluding the "Unknown" placeholder.
	Categories(ctx context.Context) ([]string, error)

	// Statistics summarizes the store contents.
	Statistics(ctx context.Context) (*models.CatalogStats, error)
}

// ProfileView is the read-only capability set over viewer profiles.
type ProfileView interface {
	// GetProfile resolves a profile; apperrors.ErrNotFound when absent.
	GetProfile(ctx context.Context, profileID int) (*models.Profile, error)

	// ListProfiles returns every profile ordered by profile ID.
	ListProfiles(ctx context.Context) ([]models.Profile, error)

	// GetProfilesByAccount returns the profiles belonging to one account.
	GetProfilesByAccount(ctx context.Context, accountID int) ([]models.Profile, error)
}

// Store combines both views with the write operations the ingest pipeline
// needs. The engine only ever sees the view interfaces.
type Store interface {
	CatalogView
	ProfileView

	// Migrate creates or updates the schema.
	Migrate(ctx context.Context) error

	// ReplaceCatalog atomically swaps the title catalog for the given set.
	ReplaceCatalog(ctx context.Context, titles []models.Title) error

	// ReplaceProfiles atomically swaps accounts and profiles.
	ReplaceProfiles(ctx context.Context, accounts []models.Account, profiles []models.Profile) error

	// Close releases the underlying resources.
	Close() error
}

// Options holds the configuration needed to open a store.
type Options struct {
	// Path is the database file location for file-backed providers.
	Path string
}

// Provider is a constructor function that opens a Store from options.
type Provider func(opts Options) (Store, error)

var (
	mu        sync.RWMutex
	providers = make(map[string]Provider)
)

// Register registers a store provider under the given name.
// It panics if the name is already registered or the provider is nil.
func Register(name string, p Provider) {
	mu.Lock()
	defer mu.Unlock()

	if p == nil {
		panic("store: Register provider is nil")
	}
	if _, exists := providers[name]; exists {
		panic(fmt.Sprintf("store: provider %q already registered", name))
	}
	providers[name] = p
}

// Open opens a Store using the named provider.
func Open(name string, opts Options) (Store, error) {
	mu.RLock()
	p, ok := providers[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("store: unknown provider %q (registered: %v)", name, RegisteredProviders())
	}
	return p(opts)
}

// RegisteredProviders returns a sorted list of registered provider names.
func RegisteredProviders() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidSortFields enumerates the columns ListTitles accepts. Anything else
// falls back to DefaultSortField.
var ValidSortFields = map[string]bool{
	"imdb_rating": true,
	"year":        true,
	"title_name":  true,
	"duration":    true,
}

// DefaultSortField is used when the caller supplies no (or an invalid) sort field.
const DefaultSortField = "imdb_rating"

// NormalizeSort maps caller-supplied sort parameters onto a known column and
// direction so providers never interpolate raw input into a query.
func NormalizeSort(sortBy, order string) (string, string) {
	if !ValidSortFields[sortBy] {
		sortBy = DefaultSortField
	}
	if strings.ToLower(order) != "asc" {
		return sortBy, "desc"
	}
	return sortBy, "asc"
}
