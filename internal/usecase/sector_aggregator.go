package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	"SectorPulse/internal/services/analysis"
	xlogger "SectorPulse/pkg/logger"
)

var (
	// ErrNoSymbols means the sector has no ticker members; no fetch is attempted.
	ErrNoSymbols = errors.New("no symbols found for sector")
	// ErrNoSectorData means every ticker in the sector failed or had no history.
	ErrNoSectorData = errors.New("unable to build monthly data for sector")
)

// FetchFunc runs the fetch+compute step for one ticker.
type FetchFunc func(ctx context.Context, symbol string) models.FetchOutcome

// Scheduler dispatches per-ticker fetches. Both implementations must yield
// the same set of outcomes; only the dispatch order/parallelism differs.
type Scheduler interface {
	Run(ctx context.Context, symbols []string, fetch FetchFunc) []models.FetchOutcome
}

// ConcurrentScheduler fans out fetches with at most Limit in flight.
type ConcurrentScheduler struct {
	Limit int
}

func (s ConcurrentScheduler) Run(ctx context.Context, symbols []string, fetch FetchFunc) []models.FetchOutcome {
	limit := s.Limit
	if limit <= 0 {
		limit = DefaultMaxConcurrency
	}

	results := make([]models.FetchOutcome, len(symbols))
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = fetch(ctx, sym)
		}(i, sym)
	}
	wg.Wait()
	return results
}

// SequentialScheduler fetches tickers one at a time. Used where concurrency
// is disabled; results are identical to the concurrent path.
type SequentialScheduler struct{}

func (SequentialScheduler) Run(ctx context.Context, symbols []string, fetch FetchFunc) []models.FetchOutcome {
	results := make([]models.FetchOutcome, len(symbols))
	for i, sym := range symbols {
		results[i] = fetch(ctx, sym)
	}
	return results
}

// DefaultMaxConcurrency bounds simultaneous upstream fetches.
const DefaultMaxConcurrency = 8

// SectorAggregator computes the equal-weight average monthly-return matrix
// across all tickers of a sector. Individual ticker failures are recorded and
// excluded; they never abort the sector computation.
type SectorAggregator struct {
	source  domrepo.PriceSource
	sched   Scheduler
	metrics domrepo.Metrics
	logger  *xlogger.Logger
}

func NewSectorAggregator(source domrepo.PriceSource, sched Scheduler, metrics domrepo.Metrics, logger *xlogger.Logger) *SectorAggregator {
	return &SectorAggregator{source: source, sched: sched, metrics: metrics, logger: logger}
}

// FetchOne fetches one ticker's history and computes its return matrix,
// classifying failures as typed skip outcomes.
func (a *SectorAggregator) FetchOne(ctx context.Context, symbol string) models.FetchOutcome {
	a.metrics.FetchInFlight(1)
	defer a.metrics.FetchInFlight(-1)

	start := time.Now()
	series, err := a.source.DailyCloses(ctx, symbol)
	if err != nil {
		a.metrics.RecordFetch("error", time.Since(start).Seconds())
		return models.FetchOutcome{Symbol: symbol, Skip: models.SkipFetchError, Err: err}
	}

	matrix := analysis.MonthlyReturns(series)
	if matrix.Empty() {
		a.metrics.RecordFetch("empty", time.Since(start).Seconds())
		return models.FetchOutcome{Symbol: symbol, Skip: models.SkipEmptyData}
	}
	a.metrics.RecordFetch("ok", time.Since(start).Seconds())
	return models.FetchOutcome{Symbol: symbol, Matrix: matrix}
}

// Aggregate builds the sector matrix over the given membership. Tickers that
// fail or have no history are skipped; if all of them are skipped the sector
// computation fails and nothing is cached by callers.
func (a *SectorAggregator) Aggregate(ctx context.Context, sector string, symbols []string) (models.ReturnMatrix, error) {
	if len(symbols) == 0 {
		return models.ReturnMatrix{}, fmt.Errorf("%w %q", ErrNoSymbols, sector)
	}

	start := time.Now()
	outcomes := a.sched.Run(ctx, symbols, a.FetchOne)

	matrices := make([]models.ReturnMatrix, 0, len(outcomes))
	for _, o := range outcomes {
		if o.OK() {
			matrices = append(matrices, o.Matrix)
			continue
		}
		if o.Skip == models.SkipFetchError {
			a.logger.Warn("ticker fetch skipped",
				xlogger.String("symbol", o.Symbol),
				xlogger.String("sector", sector),
				xlogger.Error(o.Err))
		} else {
			a.logger.Debug("ticker has no history",
				xlogger.String("symbol", o.Symbol),
				xlogger.String("sector", sector))
		}
	}

	if len(matrices) == 0 {
		return models.ReturnMatrix{}, fmt.Errorf("%w %q", ErrNoSectorData, sector)
	}

	result := analysis.AggregateMean(matrices)
	a.metrics.RecordAggregation(time.Since(start).Seconds())
	a.logger.Info("sector aggregated",
		xlogger.String("sector", sector),
		xlogger.Int("symbols", len(symbols)),
		xlogger.Int("used", len(matrices)))
	return result, nil
}
