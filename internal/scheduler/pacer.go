package scheduler

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// pacer enforces a single global last-request timestamp shared by every
// worker, so a bounded fan-out of K workers still respects the same
// upstream rate limit a single sequential worker would.
type pacer struct {
	mu         sync.Mutex
	last       time.Time
	baseDelay  time.Duration
	jitterMax  time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

func newPacer(baseDelay, jitterMax time.Duration) *pacer {
	return &pacer{
		baseDelay: baseDelay,
		jitterMax: jitterMax,
		sleep:     sleepCtx,
	}
}

// wait blocks until baseDelay+jitter has elapsed since the last call's
// release, then reserves the current time as the new "last request" and
// returns. It is interruptible by ctx cancellation.
func (p *pacer) wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	jitter := time.Duration(0)
	if p.jitterMax > 0 {
		jitter = time.Duration(rand.Int63n(int64(p.jitterMax)))
	}
	target := p.baseDelay + jitter

	if !p.last.IsZero() {
		elapsed := time.Since(p.last)
		if remaining := target - elapsed; remaining > 0 {
			if err := p.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	p.last = time.Now()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
