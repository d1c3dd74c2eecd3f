// Package scheduler implements the cycle loop: the heart of the engine.
// It walks the symbol universe, enforces per-symbol freshness, paces
// outbound fetches against a single shared rate limit, runs the indicator
// kernel, and persists + caches + publishes the result — one symbol at a
// time by default, or across a small bounded pool of workers sharing the
// same pace token.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"stockengine/internal/bus"
	"stockengine/internal/cache"
	"stockengine/internal/fetcher"
	"stockengine/internal/kernel"
	"stockengine/internal/logger"
	"stockengine/internal/model"
	"stockengine/internal/store"
	"stockengine/internal/universe"
)

// Config holds the scheduler's tunables. See internal/config for how these
// map onto the engine's documented configuration surface.
type Config struct {
	AnalysisInterval time.Duration
	BaseDelay        time.Duration
	JitterMax        time.Duration
	HistoryDays      int
	Workers          int
}

// Scheduler runs the cycle loop described above. It holds its
// collaborators by capability, constructed once and passed in, so tests
// can substitute fakes trivially.
type Scheduler struct {
	store    store.AnalysisStore
	cache    *cache.Cache
	bus      *bus.Bus
	fetcher  fetcher.Fetcher
	universe []universe.Entry
	cfg      Config
	log      *logger.Logger
	pacer    *pacer
	now      func() time.Time

	progMu   sync.Mutex
	progress model.CycleProgress
}

// New constructs a Scheduler from its collaborators and configuration.
func New(st store.AnalysisStore, c *cache.Cache, b *bus.Bus, f fetcher.Fetcher, roster []universe.Entry, cfg Config, log *logger.Logger) *Scheduler {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Scheduler{
		store:    st,
		cache:    c,
		bus:      b,
		fetcher:  f,
		universe: roster,
		cfg:      cfg,
		log:      log,
		pacer:    newPacer(cfg.BaseDelay, cfg.JitterMax),
		now:      time.Now,
	}
}

// WarmUp populates the symbol cache from the store's durable snapshot, so
// the query layer can serve immediately at process start.
func (s *Scheduler) WarmUp(ctx context.Context) error {
	all, err := s.store.All(ctx)
	if err != nil {
		return err
	}
	s.cache.WarmSymbols(all)
	s.log.Info("warmed symbol cache", logger.IntField("count", len(all)))
	return nil
}

// Run loops RunCycle forever, sleeping cycleInterval between cycles, until
// ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, cycleInterval time.Duration) {
	if err := s.WarmUp(ctx); err != nil {
		s.log.Error("warm up failed", logger.ErrorField(err))
	}

	for {
		if ctx.Err() != nil {
			return
		}
		if err := s.RunCycle(ctx); err != nil {
			s.log.Error("cycle aborted", logger.ErrorField(err))
		}

		timer := time.NewTimer(cycleInterval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// RunCycle performs IDLE->RUNNING->SETTLING->IDLE once: walks the universe,
// analyzing every stale symbol, then invalidates the query cache.
func (s *Scheduler) RunCycle(ctx context.Context) error {
	s.enterRunning()

	if s.cfg.Workers <= 1 {
		s.runSequential(ctx)
	} else {
		s.runFanOut(ctx)
	}

	s.enterSettling()
	return nil
}

func (s *Scheduler) enterRunning() {
	s.progMu.Lock()
	s.progress = model.CycleProgress{
		TotalSymbols: len(s.universe),
		CycleStart:   s.now(),
	}
	snap := s.progress
	s.progMu.Unlock()
	s.bus.Publish(snap)
}

func (s *Scheduler) enterSettling() {
	s.cache.InvalidateQueries()
	snap := s.Snapshot()
	s.bus.Publish(snap)
	s.log.Info("cycle settled",
		logger.IntField("analyzed", snap.AnalyzedInCycle),
		logger.IntField("skipped", snap.SkippedInCycle),
		logger.IntField("errors", snap.ErrorsInCycle),
		logger.Field("duration", s.now().Sub(snap.CycleStart)))
}

func (s *Scheduler) runSequential(ctx context.Context) {
	for _, entry := range s.universe {
		if ctx.Err() != nil {
			return
		}
		s.processEntry(ctx, entry)
	}
}

// runFanOut spreads the universe across cfg.Workers goroutines that all
// share the same pacer, so the upstream rate limit is still respected
// globally rather than per worker.
func (s *Scheduler) runFanOut(ctx context.Context) {
	jobs := make(chan universe.Entry)
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < s.cfg.Workers; i++ {
		g.Go(func() error {
			for entry := range jobs {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.processEntry(gctx, entry)
			}
			return nil
		})
	}

feed:
	for _, entry := range s.universe {
		if ctx.Err() != nil {
			break feed
		}
		select {
		case jobs <- entry:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)

	_ = g.Wait()
}

// processEntry runs one symbol through freshness check, pace, fetch,
// compute, persist, publish. Errors for this symbol are absorbed and
// counted; they never abort the cycle.
func (s *Scheduler) processEntry(ctx context.Context, entry universe.Entry) {
	s.setCurrentSymbol(entry.Symbol)

	existing, found, err := s.store.Get(ctx, entry.Symbol)
	if err != nil {
		s.log.Error("store get failed", logger.StringField("symbol", string(entry.Symbol)), logger.ErrorField(err))
		s.incErrors()
		return
	}
	if found && s.now().Sub(existing.AnalyzedAt) < s.cfg.AnalysisInterval {
		s.incSkipped()
		return
	}

	if err := s.pacer.wait(ctx); err != nil {
		return
	}

	series, err := s.fetcher.FetchDailyBars(ctx, entry.Symbol, s.cfg.HistoryDays)
	if err != nil {
		s.logFetchError(entry.Symbol, err)
		s.incErrors()
		return
	}

	analysis := kernel.Analyze(series, entry.MarketCap, entry.Sector, s.now())

	if err := s.store.Upsert(ctx, analysis); err != nil {
		s.log.Error("store upsert failed", logger.StringField("symbol", string(entry.Symbol)), logger.ErrorField(err))
		s.incErrors()
		return
	}
	s.cache.PutSymbol(analysis)

	s.incAnalyzed()
}

func (s *Scheduler) logFetchError(symbol model.Symbol, err error) {
	switch {
	case errors.Is(err, fetcher.ErrNoData):
		s.log.Warn("no data for symbol", logger.StringField("symbol", string(symbol)))
	case errors.Is(err, fetcher.ErrRateLimited):
		s.log.Warn("rate limited", logger.StringField("symbol", string(symbol)), logger.ErrorField(err))
	default:
		s.log.Error("fetch failed", logger.StringField("symbol", string(symbol)), logger.ErrorField(err))
	}
}

// Snapshot returns the current CycleProgress.
func (s *Scheduler) Snapshot() model.CycleProgress {
	s.progMu.Lock()
	defer s.progMu.Unlock()
	return s.progress
}

func (s *Scheduler) setCurrentSymbol(sym model.Symbol) {
	s.progMu.Lock()
	s.progress.CurrentSymbol = sym
	snap := s.progress
	s.progMu.Unlock()
	s.bus.Publish(snap)
}

func (s *Scheduler) incAnalyzed() {
	s.progMu.Lock()
	s.progress.AnalyzedInCycle++
	snap := s.progress
	s.progMu.Unlock()
	s.bus.Publish(snap)
}

func (s *Scheduler) incSkipped() {
	s.progMu.Lock()
	s.progress.SkippedInCycle++
	snap := s.progress
	s.progMu.Unlock()
	s.bus.Publish(snap)
}

func (s *Scheduler) incErrors() {
	s.progMu.Lock()
	s.progress.ErrorsInCycle++
	snap := s.progress
	s.progMu.Unlock()
	s.bus.Publish(snap)
}
