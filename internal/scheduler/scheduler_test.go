package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockengine/internal/bus"
	"stockengine/internal/cache"
	"stockengine/internal/fetcher"
	"stockengine/internal/logger"
	"stockengine/internal/model"
	"stockengine/internal/store"
	"stockengine/internal/universe"
)

// funcFetcher dispatches per-symbol, unlike fetcher.MockFetcher's linear
// call-order script, so tests can assign distinct outcomes per symbol.
type funcFetcher struct {
	fn    func(symbol model.Symbol) (model.PriceSeries, error)
	calls []model.Symbol
}

func (f *funcFetcher) FetchDailyBars(_ context.Context, symbol model.Symbol, _ int) (model.PriceSeries, error) {
	f.calls = append(f.calls, symbol)
	return f.fn(symbol)
}

func seriesWithCloses(symbol model.Symbol, closes []float64) model.PriceSeries {
	bars := make([]model.HistoricalBar, len(closes))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.HistoricalBar{Date: base.AddDate(0, 0, i), Close: c, Volume: 1000}
	}
	return model.PriceSeries{Symbol: symbol, Bars: bars}
}

func flatCloses(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func newTestScheduler(f fetcher.Fetcher, roster []universe.Entry, cfg Config) (*Scheduler, *store.MemoryStore) {
	st := store.NewMemoryStore()
	c := cache.New(cache.DefaultConfig())
	b := bus.New(4)
	return New(st, c, b, f, roster, cfg, logger.NewNop()), st
}

func TestRunCycle_ErrorIsolation(t *testing.T) {
	roster := []universe.Entry{{Symbol: "A"}, {Symbol: "B"}, {Symbol: "C"}}
	ff := &funcFetcher{fn: func(symbol model.Symbol) (model.PriceSeries, error) {
		if symbol == "B" {
			return model.PriceSeries{}, fetcher.ErrNoData
		}
		return seriesWithCloses(symbol, flatCloses(30, 100)), nil
	}}

	s, st := newTestScheduler(ff, roster, Config{HistoryDays: 90, Workers: 1})

	require.NoError(t, s.RunCycle(context.Background()))

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.AnalyzedInCycle)
	assert.Equal(t, 1, snap.ErrorsInCycle)

	for _, sym := range []model.Symbol{"A", "C"} {
		_, ok, _ := st.Get(context.Background(), sym)
		assert.True(t, ok, "expected analysis for %s", sym)
	}
	_, ok, _ := st.Get(context.Background(), "B")
	assert.False(t, ok, "expected no analysis for B")
}

func TestRunCycle_FreshnessSkipsFetch(t *testing.T) {
	roster := []universe.Entry{{Symbol: "AAPL"}}
	ff := &funcFetcher{fn: func(symbol model.Symbol) (model.PriceSeries, error) {
		return seriesWithCloses(symbol, flatCloses(30, 100)), nil
	}}

	s, st := newTestScheduler(ff, roster, Config{HistoryDays: 90, AnalysisInterval: time.Hour, Workers: 1})
	st.Upsert(context.Background(), model.Analysis{
		Symbol:     "AAPL",
		AnalyzedAt: time.Now().Add(-500 * time.Second),
	})

	require.NoError(t, s.RunCycle(context.Background()))

	assert.Empty(t, ff.calls, "expected 0 fetcher calls for fresh symbol")
	snap := s.Snapshot()
	assert.Equal(t, 1, snap.SkippedInCycle)
}

func TestRunCycle_InvalidatesQueryCacheOnSettle(t *testing.T) {
	roster := []universe.Entry{{Symbol: "AAPL"}}
	ff := &funcFetcher{fn: func(symbol model.Symbol) (model.PriceSeries, error) {
		return seriesWithCloses(symbol, flatCloses(30, 100)), nil
	}}
	s, _ := newTestScheduler(ff, roster, Config{HistoryDays: 90, Workers: 1})

	c := cache.New(cache.DefaultConfig())
	s.cache = c
	c.PutQuery("k", model.QueryResult{})

	require.NoError(t, s.RunCycle(context.Background()))
	assert.Zero(t, c.QueryCount(), "expected query cache empty after cycle settle")
}

func TestRunCycle_ProgressIsMonotonic(t *testing.T) {
	roster := make([]universe.Entry, 10)
	for i := range roster {
		roster[i] = universe.Entry{Symbol: model.Symbol(string(rune('A' + i)))}
	}
	ff := &funcFetcher{fn: func(symbol model.Symbol) (model.PriceSeries, error) {
		return seriesWithCloses(symbol, flatCloses(30, 100)), nil
	}}
	s, _ := newTestScheduler(ff, roster, Config{HistoryDays: 90, Workers: 1})

	sub := s.bus.Subscribe()
	defer sub.Unsubscribe()

	done := make(chan struct{})
	var lastAnalyzed, lastSkipped, lastErrors int
	monotonic := true
	go func() {
		for p := range sub.C {
			if p.AnalyzedInCycle < lastAnalyzed || p.SkippedInCycle < lastSkipped || p.ErrorsInCycle < lastErrors {
				monotonic = false
			}
			lastAnalyzed, lastSkipped, lastErrors = p.AnalyzedInCycle, p.SkippedInCycle, p.ErrorsInCycle
		}
		close(done)
	}()

	require.NoError(t, s.RunCycle(context.Background()))
	sub.Unsubscribe()
	<-done

	assert.True(t, monotonic, "observed a non-monotonic progress counter")
}

func TestPacer_EnforcesMinimumGapBetweenCalls(t *testing.T) {
	p := newPacer(50*time.Millisecond, 0)
	ctx := context.Background()

	require.NoError(t, p.wait(ctx))
	start := time.Now()
	require.NoError(t, p.wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond, "expected second wait to be paced by ~50ms")
}
