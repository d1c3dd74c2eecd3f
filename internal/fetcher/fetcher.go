package fetcher

import (
	"context"

	"stockengine/internal/model"
)

// Fetcher retrieves daily OHLCV bars for a symbol. It does not know about
// the scheduler's global pacing; it only implements per-call retry.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol model.Symbol, days int) (model.PriceSeries, error)
}
