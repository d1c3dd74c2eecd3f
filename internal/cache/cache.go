// Package cache implements the engine's two-tier TTL cache: a per-symbol
// tier shadowing every successful store upsert, and a per-filter-query
// tier that is unconditionally evicted at the end of every scheduler
// cycle. Both tiers are backed by github.com/patrickmn/go-cache, the same
// in-memory TTL cache golang-stock-scryper uses for its alert dedup cache.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"stockengine/internal/model"
)

// Config controls TTL and the cleanup sweep interval for both tiers.
type Config struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// DefaultConfig matches spec.md §6: cache_ttl_secs default 300.
func DefaultConfig() Config {
	return Config{TTL: 5 * time.Minute, CleanupInterval: 10 * time.Minute}
}

// Cache is the two-tier cache: Symbols keyed by symbol, Queries keyed by a
// canonicalized filter string.
type Cache struct {
	symbols *gocache.Cache
	queries *gocache.Cache
}

// New creates a Cache with the given config for both tiers.
func New(cfg Config) *Cache {
	return &Cache{
		symbols: gocache.New(cfg.TTL, cfg.CleanupInterval),
		queries: gocache.New(cfg.TTL, cfg.CleanupInterval),
	}
}

// PutSymbol refreshes the symbol-cache entry for an analysis. Called on
// every successful store upsert.
func (c *Cache) PutSymbol(a model.Analysis) {
	c.symbols.SetDefault(string(a.Symbol), a)
}

// GetSymbol returns the cached Analysis for symbol, if present and unexpired.
func (c *Cache) GetSymbol(symbol model.Symbol) (model.Analysis, bool) {
	v, ok := c.symbols.Get(string(symbol))
	if !ok {
		return model.Analysis{}, false
	}
	return v.(model.Analysis), true
}

// WarmSymbols populates the symbol cache from a durability snapshot, the
// way the engine warms up from store.all() at process start.
func (c *Cache) WarmSymbols(analyses []model.Analysis) {
	for _, a := range analyses {
		c.PutSymbol(a)
	}
}

// PutQuery stores a materialized query result under its canonical key.
func (c *Cache) PutQuery(key string, result model.QueryResult) {
	c.queries.SetDefault(key, result)
}

// GetQuery returns the cached query result for key, if present and unexpired.
func (c *Cache) GetQuery(key string) (model.QueryResult, bool) {
	v, ok := c.queries.Get(key)
	if !ok {
		return model.QueryResult{}, false
	}
	return v.(model.QueryResult), true
}

// InvalidateQueries evicts every query-cache entry unconditionally. Called
// once a scheduler cycle reaches SETTLING; per-symbol entries are left to
// natural TTL.
func (c *Cache) InvalidateQueries() {
	c.queries.Flush()
}

// QueryCount reports the number of live query-cache entries (for tests).
func (c *Cache) QueryCount() int {
	return c.queries.ItemCount()
}
