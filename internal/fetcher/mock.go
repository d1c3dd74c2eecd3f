package fetcher

import (
	"context"

	"stockengine/internal/model"
)

// MockFetcher returns controllable, scripted responses for tests. Results
// is consumed left-to-right on successive calls, whatever the symbol; the
// last entry repeats once exhausted.
type MockFetcher struct {
	Results []MockResult
	Calls   []model.Symbol
	calls   int
}

// MockResult is one scripted outcome: either a series or a *Error.
type MockResult struct {
	Series model.PriceSeries
	Err    error
}

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol model.Symbol, _ int) (model.PriceSeries, error) {
	m.Calls = append(m.Calls, symbol)
	idx := m.calls
	if idx >= len(m.Results) {
		idx = len(m.Results) - 1
	}
	m.calls++
	if idx < 0 {
		return model.PriceSeries{}, newError(NoData, nil)
	}
	r := m.Results[idx]
	return r.Series, r.Err
}
