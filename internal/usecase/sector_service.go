package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	xlogger "SectorPulse/pkg/logger"
)

// SectorService orchestrates sector aggregation through the durable cache:
// read-through on normal requests, bypass-and-overwrite on force refresh.
type SectorService struct {
	agg      *SectorAggregator
	store    domrepo.SectorStore
	universe domrepo.Universe
	metrics  domrepo.Metrics
	logger   *xlogger.Logger
	useCache bool
}

func NewSectorService(agg *SectorAggregator, store domrepo.SectorStore, universe domrepo.Universe, metrics domrepo.Metrics, logger *xlogger.Logger, useCache bool) *SectorService {
	return &SectorService{agg: agg, store: store, universe: universe, metrics: metrics, logger: logger, useCache: useCache}
}

// SectorMatrix returns the sector's aggregated matrix, served from cache
// unless forceRefresh is set. Cache entries are trusted as-is: staleness is
// reported as an age, never enforced as an expiry.
func (s *SectorService) SectorMatrix(ctx context.Context, sector string, forceRefresh bool) (models.SectorResponse, error) {
	resp := models.SectorResponse{Sector: sector}

	if s.useCache && !forceRefresh {
		m, err := s.store.Get(ctx, sector)
		switch {
		case err == nil:
			s.metrics.RecordCache("hit")
			resp.Matrix = m
			resp.Cached = true
			resp.CacheAgeSeconds = s.cacheAge(ctx, sector)
			return resp, nil
		case errors.Is(err, domrepo.ErrEntryNotFound):
			s.metrics.RecordCache("miss")
		default:
			// undecodable entry: drop it and recompute
			s.metrics.RecordCache("corrupt")
			s.logger.Warn("sector cache entry corrupt, deleting",
				xlogger.String("sector", sector), xlogger.Error(err))
			if derr := s.store.Delete(ctx, sector); derr != nil {
				s.logger.Warn("sector cache delete failed",
					xlogger.String("sector", sector), xlogger.Error(derr))
			}
		}
	}

	m, err := s.agg.Aggregate(ctx, sector, s.universe.SymbolsFor(sector))
	if err != nil {
		return models.SectorResponse{}, err
	}

	if s.useCache {
		if werr := s.store.Put(ctx, sector, m); werr != nil {
			// the computed result is still good; only the cache write is lost
			s.metrics.RecordCache("write-error")
			s.logger.Warn("sector cache write failed",
				xlogger.String("sector", sector), xlogger.Error(werr))
		} else {
			s.metrics.RecordCache("write")
		}
	}

	resp.Matrix = m
	resp.CacheAgeSeconds = s.cacheAge(ctx, sector)
	return resp, nil
}

// TickerMatrix fetches and computes the matrix for a single ticker. No
// retrievable history is "no data" (empty matrix), not a failure.
func (s *SectorService) TickerMatrix(ctx context.Context, symbol string) (models.TickerResponse, error) {
	o := s.agg.FetchOne(ctx, symbol)
	if o.Skip == models.SkipFetchError {
		return models.TickerResponse{}, o.Err
	}
	return models.TickerResponse{Symbol: symbol, Matrix: o.Matrix}, nil
}

// Sectors lists all known sectors with membership size and cache age.
func (s *SectorService) Sectors(ctx context.Context) []models.SectorInfo {
	names := s.universe.Sectors()
	sort.Strings(names)
	out := make([]models.SectorInfo, 0, len(names))
	for _, name := range names {
		info := models.SectorInfo{Name: name, Symbols: len(s.universe.SymbolsFor(name))}
		if s.useCache {
			info.CacheAgeSeconds = s.cacheAge(ctx, name)
		}
		out = append(out, info)
	}
	return out
}

// RefreshAll recomputes and rewrites every sector cache entry sequentially,
// reporting per-sector status. Sector failures do not stop the sweep.
func (s *SectorService) RefreshAll(ctx context.Context) models.RefreshStatus {
	status := make(models.RefreshStatus)
	names := s.universe.Sectors()
	sort.Strings(names)
	for _, name := range names {
		if _, err := s.SectorMatrix(ctx, name, true); err != nil {
			status[name] = "error: " + err.Error()
			continue
		}
		status[name] = "ok"
	}
	return status
}

func (s *SectorService) cacheAge(ctx context.Context, sector string) *float64 {
	if !s.useCache {
		return nil
	}
	mt, ok := s.store.ModTime(ctx, sector)
	if !ok {
		return nil
	}
	age := time.Since(mt).Seconds()
	return &age
}
