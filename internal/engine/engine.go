// Package engine aggregates the store, cache, bus, fetcher, and scheduler
// behind the capability surface the rest of the system consumes: get_all,
// get, filter, progress snapshot/subscribe, and history. It holds no
// business logic of its own beyond routing to the right collaborator and
// the cache-then-store fallback for single-symbol reads.
package engine

import (
	"context"

	"stockengine/internal/bus"
	"stockengine/internal/cache"
	"stockengine/internal/fetcher"
	"stockengine/internal/model"
	"stockengine/internal/query"
	"stockengine/internal/scheduler"
	"stockengine/internal/store"
)

// Engine exposes the engine's boundary surface to transports (HTTP, RPC,
// in-process callers) without exposing its internal collaborators.
type Engine struct {
	store     store.AnalysisStore
	cache     *cache.Cache
	bus       *bus.Bus
	fetcher   fetcher.Fetcher
	scheduler *scheduler.Scheduler
}

// New wires an Engine from its already-constructed collaborators.
func New(st store.AnalysisStore, c *cache.Cache, b *bus.Bus, f fetcher.Fetcher, sch *scheduler.Scheduler) *Engine {
	return &Engine{store: st, cache: c, bus: b, fetcher: f, scheduler: sch}
}

// GetAll returns every stored analysis.
func (e *Engine) GetAll(ctx context.Context) ([]model.Analysis, error) {
	return e.store.All(ctx)
}

// Get returns the analysis for symbol, preferring the symbol cache and
// falling back to the store on a miss.
func (e *Engine) Get(ctx context.Context, symbol model.Symbol) (model.Analysis, bool, error) {
	if a, ok := e.cache.GetSymbol(symbol); ok {
		return a, true, nil
	}
	return e.store.Get(ctx, symbol)
}

// Filter returns a page of analyses and a pagination descriptor for f,
// serving from the query cache when a canonicalized-equivalent filter was
// already materialized this cycle.
func (e *Engine) Filter(ctx context.Context, f model.Filter) (model.QueryResult, bool, error) {
	key := query.CacheKey(f)
	if cached, ok := e.cache.GetQuery(key); ok {
		return cached, true, nil
	}

	snapshot, err := e.store.All(ctx)
	if err != nil {
		return model.QueryResult{}, false, err
	}

	result := query.Apply(snapshot, f)
	e.cache.PutQuery(key, result)
	return result, false, nil
}

// ProgressSnapshot returns the current CycleProgress.
func (e *Engine) ProgressSnapshot() model.CycleProgress {
	return e.scheduler.Snapshot()
}

// ProgressSubscribe joins the progress bus. Callers must call Unsubscribe
// on the returned subscription when done.
func (e *Engine) ProgressSubscribe() *bus.Subscription {
	return e.bus.Subscribe()
}

// History bypasses both cache tiers and calls the fetcher directly,
// for chart views that want the raw series rather than the latest
// computed Analysis.
func (e *Engine) History(ctx context.Context, symbol model.Symbol, days int) (model.PriceSeries, error) {
	return e.fetcher.FetchDailyBars(ctx, symbol, days)
}
