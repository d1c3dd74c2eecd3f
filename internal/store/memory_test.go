package store

import (
	"context"
	"testing"

	"github.com/guregu/null/v6"

	"stockengine/internal/model"
)

func TestMemoryStore_UpsertGetAll(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	a := model.Analysis{Symbol: "AAPL", Price: 100, RSI: null.FloatFrom(55.5)}
	if err := s.Upsert(ctx, a); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, ok, err := s.Get(ctx, "AAPL")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.RSI.Float64 != 55.5 {
		t.Errorf("got RSI %v, want 55.5", got.RSI.Float64)
	}

	if _, ok, _ := s.Get(ctx, "MSFT"); ok {
		t.Error("expected miss for unknown symbol")
	}

	if err := s.Upsert(ctx, model.Analysis{Symbol: "MSFT", Price: 200}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 || all[0].Symbol != "AAPL" || all[1].Symbol != "MSFT" {
		t.Errorf("expected [AAPL, MSFT] sorted, got %+v", all)
	}

	n, err := s.Count(ctx)
	if err != nil || n != 2 {
		t.Errorf("expected count 2, got %d err=%v", n, err)
	}
}

func TestMemoryStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.Upsert(ctx, model.Analysis{Symbol: "AAPL", Price: 100})
	s.Upsert(ctx, model.Analysis{Symbol: "AAPL", Price: 150})

	got, _, _ := s.Get(ctx, "AAPL")
	if got.Price != 150 {
		t.Errorf("expected overwritten price 150, got %v", got.Price)
	}

	n, _ := s.Count(ctx)
	if n != 1 {
		t.Errorf("expected single row after overwrite, got count %d", n)
	}
}
