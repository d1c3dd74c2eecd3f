package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockengine/internal/model"
)

func TestCache_SymbolRoundTrip(t *testing.T) {
	c := New(Config{TTL: time.Minute, CleanupInterval: time.Minute})
	a := model.Analysis{Symbol: "AAPL", Price: 123.45}

	c.PutSymbol(a)
	got, ok := c.GetSymbol("AAPL")
	require.True(t, ok, "expected symbol cache hit")
	assert.Equal(t, 123.45, got.Price)

	_, ok = c.GetSymbol("MSFT")
	assert.False(t, ok, "expected miss for unknown symbol")
}

func TestCache_QueryInvalidationIsUnconditional(t *testing.T) {
	c := New(Config{TTL: time.Minute, CleanupInterval: time.Minute})
	c.PutQuery("k1", model.QueryResult{})
	c.PutQuery("k2", model.QueryResult{})

	require.Equal(t, 2, c.QueryCount())

	c.InvalidateQueries()

	assert.Zero(t, c.QueryCount(), "expected 0 query cache entries after invalidation")
	_, ok := c.GetQuery("k1")
	assert.False(t, ok, "expected query cache miss after invalidation")
}

func TestCache_WarmSymbols(t *testing.T) {
	c := New(DefaultConfig())
	c.WarmSymbols([]model.Analysis{
		{Symbol: "AAPL"},
		{Symbol: "MSFT"},
	})
	_, ok := c.GetSymbol("AAPL")
	assert.True(t, ok, "expected AAPL warmed into symbol cache")
	_, ok = c.GetSymbol("MSFT")
	assert.True(t, ok, "expected MSFT warmed into symbol cache")
}
