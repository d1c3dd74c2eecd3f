package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"stockengine/internal/model"
)

// HTTPFetcher retrieves daily OHLCV bars from a chart-style quote upstream
// (timestamp array + parallel open/high/low/close/volume arrays), the same
// response shape the teacher's YahooFetcher parses.
type HTTPFetcher struct {
	Client     *http.Client
	BaseURL    string
	UserAgent  string
	RetryCfg   RetryConfig
}

// NewHTTPFetcher creates an HTTPFetcher with a bounded per-request timeout.
func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		Client:    &http.Client{Timeout: timeout},
		BaseURL:   baseURL,
		UserAgent: "Mozilla/5.0 (compatible; stockengine/1.0)",
		RetryCfg:  DefaultRetryConfig(),
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// FetchDailyBars issues a single request for at least days trading days of
// history, retrying per RetryCfg on RateLimited/Transport.
func (f *HTTPFetcher) FetchDailyBars(ctx context.Context, symbol model.Symbol, days int) (model.PriceSeries, error) {
	return withRetry(ctx, f.RetryCfg, func() (model.PriceSeries, error) {
		return f.fetchOnce(ctx, symbol, days)
	})
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, symbol model.Symbol, days int) (model.PriceSeries, error) {
	rng := rangeFor(days)
	u := fmt.Sprintf("%s/%s?interval=1d&range=%s", f.BaseURL, url.PathEscape(string(symbol)), rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return model.PriceSeries{}, newError(Transport, err)
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return model.PriceSeries{}, newError(Transport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.PriceSeries{}, newError(Transport, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return model.PriceSeries{}, newError(RateLimited, fmt.Errorf("status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return model.PriceSeries{}, newError(Transport, fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return model.PriceSeries{}, newError(Transport, err)
	}
	if chart.Chart.Error != nil {
		return model.PriceSeries{}, newError(NoData, fmt.Errorf("%s", chart.Chart.Error.Description))
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return model.PriceSeries{}, newError(NoData, fmt.Errorf("empty result"))
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return model.PriceSeries{}, newError(NoData, fmt.Errorf("no quote block"))
	}
	quote := result.Indicators.Quote[0]

	bars := make([]model.HistoricalBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, okO := toFloat(indexOrNil(quote.Open, i))
		h, okH := toFloat(indexOrNil(quote.High, i))
		l, okL := toFloat(indexOrNil(quote.Low, i))
		c, okC := toFloat(indexOrNil(quote.Close, i))
		if !okO || !okH || !okL || !okC {
			continue // drop any bar missing open, high, low or close
		}
		// A missing volume does not drop the bar; it is recorded as 0.
		v, _ := toFloat(indexOrNil(quote.Volume, i))
		bars = append(bars, model.HistoricalBar{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: int64(v),
		})
	}

	if len(bars) == 0 {
		return model.PriceSeries{}, newError(NoData, fmt.Errorf("no usable bars"))
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return model.PriceSeries{Symbol: symbol, Bars: bars}, nil
}

func indexOrNil(arr []interface{}, i int) interface{} {
	if i >= len(arr) {
		return nil
	}
	return arr[i]
}

// rangeFor picks the smallest upstream range that spans at least days
// trading days (roughly 20 per calendar month, 250 per year).
func rangeFor(days int) string {
	switch {
	case days <= 20:
		return "1mo"
	case days <= 60:
		return "3mo"
	case days <= 120:
		return "6mo"
	case days <= 250:
		return "1y"
	case days <= 500:
		return "2y"
	default:
		return "max"
	}
}
