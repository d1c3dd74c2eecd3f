package fetcher

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"stockengine/internal/model"
)

// RetryConfig controls the per-call retry/backoff budget. Base delay
// doubles each attempt; a small random jitter is added to every retry
// interval.
type RetryConfig struct {
	MaxRetries    int
	BackoffBase   time.Duration
	JitterMax     time.Duration
}

// DefaultRetryConfig matches spec.md §4.2: base 2s doubling to 3 retries,
// 0-2s jitter.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  3,
		BackoffBase: 2 * time.Second,
		JitterMax:   2 * time.Second,
	}
}

// withRetry calls fn, retrying on RateLimited or Transport per cfg.
// NoData is never retried. The context may cancel an in-flight backoff
// sleep.
func withRetry(ctx context.Context, cfg RetryConfig, fn func() (model.PriceSeries, error)) (model.PriceSeries, error) {
	var lastErr error
	backoff := cfg.BackoffBase

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		series, err := fn()
		if err == nil {
			return series, nil
		}
		lastErr = err

		var fe *Error
		if !errors.As(err, &fe) {
			return model.PriceSeries{}, err
		}
		if fe.Kind == NoData {
			return model.PriceSeries{}, err
		}
		if attempt == cfg.MaxRetries {
			break
		}

		jitter := time.Duration(0)
		if cfg.JitterMax > 0 {
			jitter = time.Duration(rand.Int63n(int64(cfg.JitterMax)))
		}
		select {
		case <-ctx.Done():
			return model.PriceSeries{}, ctx.Err()
		case <-time.After(backoff + jitter):
		}
		backoff *= 2
	}

	return model.PriceSeries{}, lastErr
}
