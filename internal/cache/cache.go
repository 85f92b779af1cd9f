package cache

// EvictCallback is called when an entry is evicted from the cache.
// Not all providers support eviction callbacks (e.g., Redis relies on server-side expiry).
type EvictCallback func(key string, value []byte)

// Cache defines the interface for the catalog snapshot cache. Only serialized
// snapshots pass through it, so values are opaque byte slices.
//
// The engine itself stays stateless: the cache is the only process-scoped
// state around it, and ingest reloads must call Invalidate so a stale
// snapshot can never outlive a data reload.
type Cache interface {
	// Get retrieves a value by key. Returns the value and true if found, or nil and false if not.
	Get(key string) ([]byte, bool)

	// Set stores a value with the given key. If the key already exists, it is overwritten.
	Set(key string, value []byte)

	// Invalidate removes the entry for key, if present. Used on data reload.
	Invalidate(key string)

	// Len returns the number of entries currently in the cache.
	Len() int

	// Close releases any resources held by the cache (e.g., network connections).
	// For in-memory caches, this is a no-op.
	Close() error
}
