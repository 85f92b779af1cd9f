package store

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/Belphemur/streamly/internal/cache"
	"github.com/Belphemur/streamly/internal/models"
)

// catalogSnapshotKey is the single cache key under which the serialized
// title catalog lives.
const catalogSnapshotKey = "catalog"

// CachedCatalog decorates a CatalogView with a snapshot cache for the
// expensive GetAllTitles read. Every other method passes straight through.
//
// The cache is process-scoped state with explicit invalidation: the ingest
// pipeline calls Invalidate after a reload, so determinism of the engine is
// preserved (a call sees either the old snapshot or the new one, never a mix).
type CachedCatalog struct {
	inner  CatalogView
	cache  cache.Cache
	logger zerolog.Logger
}

// NewCachedCatalog wraps inner with snapshot caching.
func NewCachedCatalog(inner CatalogView, c cache.Cache, logger zerolog.Logger) *CachedCatalog {
	return &CachedCatalog{inner: inner, cache: c, logger: logger}
}

func (c *CachedCatalog) GetAllTitles(ctx context.Context) ([]models.Title, error) {
	if data, ok := c.cache.Get(catalogSnapshotKey); ok {
		var titles []models.Title
		if err := json.Unmarshal(data, &titles); err == nil {
			return titles, nil
		}
		// A corrupt snapshot is dropped and re-read from the store.
		c.logger.Warn().Msg("Dropping undecodable catalog snapshot from cache")
		c.cache.Invalidate(catalogSnapshotKey)
	}

	titles, err := c.inner.GetAllTitles(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(titles); err == nil {
		c.cache.Set(catalogSnapshotKey, data)
	} else {
		c.logger.Warn().Err(err).Msg("Failed to serialize catalog snapshot for caching")
	}
	return titles, nil
}

func (c *CachedCatalog) GetTitleByShowID(ctx context.Context, showID string) (*models.Title, error) {
	return c.inner.GetTitleByShowID(ctx, showID)
}

func (c *CachedCatalog) ListTitles(ctx context.Context, page, perPage int, sortBy, order string) ([]models.Title, int64, error) {
	return c.inner.ListTitles(ctx, page, perPage, sortBy, order)
}

func (c *CachedCatalog) Categories(ctx context.Context) ([]string, error) {
	return c.inner.Categories(ctx)
}

func (c *CachedCatalog) Statistics(ctx context.Context) (*models.CatalogStats, error) {
	return c.inner.Statistics(ctx)
}

// Invalidate drops the cached snapshot. Must be called after every catalog
// reload.
func (c *CachedCatalog) Invalidate() {
	c.cache.Invalidate(catalogSnapshotKey)
}
