package engine

import (
	"context"
	"testing"
	"time"

	"github.com/guregu/null/v6"

	"stockengine/internal/bus"
	"stockengine/internal/cache"
	"stockengine/internal/fetcher"
	"stockengine/internal/logger"
	"stockengine/internal/model"
	"stockengine/internal/scheduler"
	"stockengine/internal/store"
	"stockengine/internal/universe"
)

func newTestEngine(t *testing.T) (*Engine, store.AnalysisStore) {
	t.Helper()
	st := store.NewMemoryStore()
	c := cache.New(cache.DefaultConfig())
	b := bus.New(4)
	f := &fetcher.MockFetcher{}
	sch := scheduler.New(st, c, b, f, []universe.Entry{}, scheduler.Config{Workers: 1}, logger.NewNop())
	return New(st, c, b, f, sch), st
}

func TestEngine_GetFallsBackToStoreOnCacheMiss(t *testing.T) {
	e, st := newTestEngine(t)
	want := model.Analysis{Symbol: "AAPL", Price: 150, AnalyzedAt: time.Now()}
	st.Upsert(context.Background(), want)

	got, ok, err := e.Get(context.Background(), "AAPL")
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if got.Price != 150 {
		t.Errorf("got price %v, want 150", got.Price)
	}
}

func TestEngine_FilterMaterializesAndCaches(t *testing.T) {
	e, st := newTestEngine(t)
	st.Upsert(context.Background(), model.Analysis{Symbol: "AAPL", MarketCap: null.FloatFrom(100)})

	res, cached, err := e.Filter(context.Background(), model.Filter{})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if cached {
		t.Error("expected first call to be a cache miss")
	}
	if len(res.Stocks) != 1 {
		t.Fatalf("expected 1 stock, got %d", len(res.Stocks))
	}

	_, cached2, err := e.Filter(context.Background(), model.Filter{})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if !cached2 {
		t.Error("expected second identical call to be a cache hit")
	}
}

func TestEngine_ProgressSubscribeAndSnapshot(t *testing.T) {
	e, _ := newTestEngine(t)
	sub := e.ProgressSubscribe()
	defer sub.Unsubscribe()

	snap := e.ProgressSnapshot()
	if snap.AnalyzedInCycle != 0 {
		t.Errorf("expected zero-value snapshot before any cycle, got %+v", snap)
	}
}
