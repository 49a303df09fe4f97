package commands

import (
	"context"

	"sjsage522/deliveryscraper/config"
	"sjsage522/deliveryscraper/helpers"
	"sjsage522/deliveryscraper/internal/scraper"
	"sjsage522/deliveryscraper/logger"
	"sjsage522/deliveryscraper/services/cache"
	"sjsage522/deliveryscraper/services/publisher"
	"sjsage522/deliveryscraper/services/storage"
	"sjsage522/deliveryscraper/services/worker"
)

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Postgres  *storage.PostgresWriter
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.Postgres != nil {
		s.Postgres.Close()
	}
}

// initializeServices connects the optional backends. A backend that is
// configured but unreachable is logged and left out of the run.
func initializeServices(ctx context.Context, cfg *config.Config) *Services {
	log := logger.ForWorker()
	services := &Services{}

	if cfg.MemcacheAddr != "" {
		mc := cache.NewMemcacheService(cfg.MemcacheAddr, cfg.HTTPTimeout)
		if err := mc.Ping(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.MemcacheAddr).Msg("Memcache unavailable, caching disabled")
		} else {
			services.Cache = mc
			log.Info().Str("addr", cfg.MemcacheAddr).Msg("Connected to Memcache")
		}
	}

	if cfg.RedisAddr != "" {
		rp := publisher.NewRedisPublisher(ctx, publisher.RedisOptions{
			Addr:            cfg.RedisAddr,
			DB:              cfg.RedisDB,
			StreamPrefix:    cfg.RedisStream,
			StreamCount:     cfg.RedisStreamCount,
			StreamMaxLength: cfg.RedisStreamMaxLength,
		})
		if err := rp.Ping(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, publishing disabled")
			rp.Close()
		} else {
			services.Publisher = rp
			log.Info().
				Str("addr", cfg.RedisAddr).
				Int("db", cfg.RedisDB).
				Str("stream", cfg.RedisStream).
				Msg("Connected to Redis")
		}
	}

	if cfg.PostgresDSN != "" {
		pw, err := storage.NewPostgresWriter(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Warn().Err(err).Msg("Postgres unavailable, relational sink disabled")
		} else {
			services.Postgres = pw
			log.Info().Msg("Connected to Postgres")
		}
	}

	return services
}

// newRunWorker wires the scraping pipeline for cfg onto services
func newRunWorker(cfg *config.Config, services *Services) *worker.Worker {
	client := helpers.NewClient(helpers.ClientOptions{
		UserAgent:        cfg.UserAgent,
		Timeout:          cfg.HTTPTimeout,
		CloudflareBypass: cfg.CloudflareBypass,
	})

	deps := worker.Dependencies{
		Resolver: &scraper.DirectoryResolver{
			Client:             client,
			URLTemplate:        cfg.DirectoryURLTemplate,
			CityNameSelector:   cfg.CityNameSelector,
			PostalLinkSelector: cfg.PostalLinkSelector,
			CacheSvc:           services.Cache,
			CacheTTL:           cfg.CacheTTL,
		},
		Fetcher: &scraper.ListingFetcher{
			Client:      client,
			URLTemplate: cfg.ListingURLTemplate,
			CacheSvc:    services.Cache,
			CacheTTL:    cfg.CacheTTL,
			BlockTime:   cfg.RateLimitBlock,
		},
		Writer:    storage.NewCSVWriter(),
		Publisher: services.Publisher,
	}
	if services.Postgres != nil {
		deps.Sink = services.Postgres
	}

	return worker.NewWorker(cfg, deps)
}
