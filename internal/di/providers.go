package di

import (
	"fmt"

	domrepo "SectorPulse/internal/domain/repository"
	"SectorPulse/internal/handler/api"
	internalrepo "SectorPulse/internal/repository"
	"SectorPulse/internal/service/metadata"
	"SectorPulse/internal/service/yahoo"
	"SectorPulse/internal/usecase"
	pkgcache "SectorPulse/pkg/cache"
	"SectorPulse/pkg/config"
	xhttp "SectorPulse/pkg/http"
	xlogger "SectorPulse/pkg/logger"
	"SectorPulse/pkg/metrics"
	"SectorPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*xlogger.Logger, error) {
	l, err := xlogger.New(&xlogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvidePriceSource creates the Yahoo Finance fetcher.
func ProvidePriceSource(cfg *config.Config) domrepo.PriceSource {
	opts := []yahoo.Option{
		yahoo.WithTimeout(cfg.Yahoo.Timeout),
		yahoo.WithRateLimit(cfg.Yahoo.RatePerSec, cfg.Yahoo.Burst),
	}
	if cfg.Yahoo.BaseURL != "" {
		opts = append(opts, yahoo.WithBaseURL(cfg.Yahoo.BaseURL))
	}
	if cfg.Yahoo.UserAgent != "" {
		opts = append(opts, yahoo.WithUserAgent(cfg.Yahoo.UserAgent))
	}
	return yahoo.New(opts...)
}

// ProvideUniverse loads the sector-membership metadata.
func ProvideUniverse(cfg *config.Config) (domrepo.Universe, error) {
	u, err := metadata.Load(cfg.Metadata.Path)
	if err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	return u, nil
}

// ProvideSectorStore creates the configured sector cache backend.
func ProvideSectorStore(cfg *config.Config) (domrepo.SectorStore, error) {
	switch cfg.Cache.Backend {
	case "redis":
		rc, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
			pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
			pkgcache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return internalrepo.NewCacheSectorStore(rc, rc), nil
	default:
		store, err := internalrepo.NewFileSectorStore(cfg.Cache.Dir)
		if err != nil {
			return nil, fmt.Errorf("file cache: %w", err)
		}
		return store, nil
	}
}

// ProvideScheduler selects the aggregation scheduling strategy.
func ProvideScheduler(cfg *config.Config) usecase.Scheduler {
	if cfg.Aggregator.Mode == "sequential" {
		return usecase.SequentialScheduler{}
	}
	return usecase.ConcurrentScheduler{Limit: cfg.Aggregator.MaxConcurrency}
}

// ProvideSectorAggregator creates the fan-out aggregator.
func ProvideSectorAggregator(source domrepo.PriceSource, sched usecase.Scheduler, m domrepo.Metrics, l *xlogger.Logger) *usecase.SectorAggregator {
	return usecase.NewSectorAggregator(source, sched, m, l)
}

// ProvideSectorService creates the cache-orchestrating service.
func ProvideSectorService(agg *usecase.SectorAggregator, store domrepo.SectorStore, u domrepo.Universe, m domrepo.Metrics, l *xlogger.Logger, cfg *config.Config) *usecase.SectorService {
	return usecase.NewSectorService(agg, store, u, m, l, cfg.Cache.Enabled)
}

// ProvideHandler creates the dashboard HTTP handler.
func ProvideHandler(l *xlogger.Logger, svc *usecase.SectorService) xhttp.Handler {
	return api.NewDashboardHandler(l, svc)
}

// ProvideApp assembles the application.
func ProvideApp(cfg *config.Config, l *xlogger.Logger, svc *usecase.SectorService, store domrepo.SectorStore, h xhttp.Handler) *server.App {
	return server.New(cfg, l, svc, store, h)
}
