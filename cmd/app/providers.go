package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/trip-planner/internal/domain/assistant"
	"github.com/yanqian/trip-planner/internal/domain/auth"
	"github.com/yanqian/trip-planner/internal/domain/budget"
	"github.com/yanqian/trip-planner/internal/domain/catalog"
	"github.com/yanqian/trip-planner/internal/domain/itinerary"
	"github.com/yanqian/trip-planner/internal/domain/recommend"
	"github.com/yanqian/trip-planner/internal/domain/route"
	"github.com/yanqian/trip-planner/internal/domain/weather"
	"github.com/yanqian/trip-planner/internal/infra/booking"
	"github.com/yanqian/trip-planner/internal/infra/config"
	"github.com/yanqian/trip-planner/internal/infra/googlemaps"
	"github.com/yanqian/trip-planner/internal/infra/llm/chatgpt"
	"github.com/yanqian/trip-planner/internal/infra/openmeteo"
	"github.com/yanqian/trip-planner/internal/infra/querycache"
	"github.com/yanqian/trip-planner/internal/infra/triprepo"
	"github.com/yanqian/trip-planner/internal/infra/userrepo"
	httpiface "github.com/yanqian/trip-planner/internal/interface/http"
	"github.com/yanqian/trip-planner/pkg/fallback"
	"github.com/yanqian/trip-planner/pkg/metrics"
)

// providerGuards holds one circuit breaker per upstream.
type providerGuards struct {
	Places  *fallback.Guard
	Hotels  *fallback.Guard
	Maps    *fallback.Guard
	Weather *fallback.Guard
	LLM     *fallback.Guard
}

func provideGuards(cfg *config.Config, reg *metrics.Registry, logger *slog.Logger) providerGuards {
	b := cfg.Providers.Breaker
	settings := fallback.BreakerSettings{
		Enabled:      b.Enabled,
		FailureRatio: b.FailureRatio,
		MinRequests:  b.MinRequests,
		OpenTimeout:  b.OpenTimeout,
	}
	return providerGuards{
		Places:  fallback.NewGuard(catalog.SourceGooglePlaces, settings, reg, logger),
		Hotels:  fallback.NewGuard(catalog.SourceBooking, settings, reg, logger),
		Maps:    fallback.NewGuard("google_maps", settings, reg, logger),
		Weather: fallback.NewGuard(weather.SourceOpenMeteo, settings, reg, logger),
		LLM:     fallback.NewGuard(assistant.SourceOpenAI, settings, reg, logger),
	}
}

func provideQueryCache(cfg *config.Config, reg *metrics.Registry, logger *slog.Logger) (catalog.Cache, func(), error) {
	if cfg.Cache.Valkey.Enabled {
		if cache, ok := connectValkey(cfg, reg, logger); ok {
			return cache, func() { _ = cache.Close() }, nil
		}
	}
	cache, err := querycache.NewMemoryCache(querycache.MemoryOptions{
		LifeWindow:  cfg.Cache.LongestTTL(),
		CleanWindow: cfg.Cache.SweepInterval,
		MaxSizeMB:   cfg.Cache.MaxSizeMB,
	}, reg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("query cache using memory", "lifeWindow", cfg.Cache.LongestTTL().String())
	return cache, func() { _ = cache.Close() }, nil
}

func connectValkey(cfg *config.Config, reg *metrics.Registry, logger *slog.Logger) (*querycache.ValkeyCache, bool) {
	opt, err := buildValkeyOptions(cfg.Cache.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return nil, false
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		client.Close()
		return nil, false
	}
	logger.Info("query cache using valkey", "addr", cfg.Cache.Valkey.Addr)
	return querycache.NewValkeyCache(client, "trip", reg), true
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideWeatherCache(cache catalog.Cache) weather.Cache {
	return cache
}

func provideUserRepository(cfg *config.Config, logger *slog.Logger) (auth.Repository, func()) {
	memory := userrepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory user repository")
		return memory, func() {}
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory user repository", "error", err)
		return memory, func() {}
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory user repository", "error", err)
		return memory, func() {}
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory user repository", "error", err)
		pool.Close()
		return memory, func() {}
	}
	repo := userrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("postgres schema setup failed, using memory user repository", "error", err)
		pool.Close()
		return memory, func() {}
	}
	logger.Info("postgres user repository enabled")
	return repo, pool.Close
}

func provideTripRepository(cfg *config.Config, logger *slog.Logger) (itinerary.Repository, func()) {
	memory := triprepo.NewMemoryRepository()
	uri := strings.TrimSpace(cfg.Mongo.URI)
	if uri == "" {
		logger.Info("mongo uri not set, using memory itinerary repository")
		return memory, func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := triprepo.Connect(ctx, uri)
	if err != nil {
		logger.Error("mongo unavailable, using memory itinerary repository", "error", err)
		return memory, func() {}
	}
	repo := triprepo.NewMongoRepository(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Warn("mongo index creation failed", "error", err)
	}
	logger.Info("mongo itinerary repository enabled", "database", cfg.Mongo.Database, "collection", cfg.Mongo.Collection)
	return repo, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
}

func provideGoogleClient(cfg *config.Config) *googlemaps.Client {
	g := cfg.Providers.Google
	return googlemaps.NewClient(g.APIKey, g.BaseURL, cfg.Providers.Timeout)
}

func provideBookingClient(cfg *config.Config) *booking.Client {
	b := cfg.Providers.Booking
	return booking.NewClient(b.APIKey, b.Host, b.BaseURL, cfg.Providers.Timeout)
}

func provideOpenMeteoClient(cfg *config.Config) *openmeteo.Client {
	return openmeteo.NewClient(cfg.Providers.OpenMeteo.BaseURL, cfg.Providers.Timeout)
}

func provideChatGPTClient(cfg *config.Config) *chatgpt.Client {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.Providers.Timeout)
}

func provideCatalogService(cfg *config.Config, maps *googlemaps.Client, hotels *booking.Client, cache catalog.Cache, guards providerGuards, dataset *catalog.Dataset, logger *slog.Logger) catalog.Service {
	return catalog.NewService(
		catalog.Config{CacheTTL: cfg.Cache.TTL},
		maps, hotels, maps, cache,
		catalog.Guards{Places: guards.Places, Hotels: guards.Hotels},
		dataset, logger,
	)
}

func provideRouteService(cfg *config.Config, maps *googlemaps.Client, guards providerGuards, logger *slog.Logger) route.Service {
	return route.NewService(
		route.Config{DefaultMode: cfg.Planner.DefaultTravelMode},
		route.Providers{Matrix: maps, Directions: maps, Guard: guards.Maps},
		logger,
	)
}

func provideBudgetConfig(cfg *config.Config) budget.Config {
	return budget.Config{DefaultCurrency: cfg.Planner.DefaultCurrency}
}

func provideRecommendService(cfg *config.Config, searcher catalog.Service, logger *slog.Logger) recommend.Service {
	seed := uint64(time.Now().UnixNano())
	return recommend.NewService(recommend.Config{
		Limit:      cfg.Planner.RecommendationLimit,
		Clusters:   cfg.Planner.ClusterCount,
		Iterations: cfg.Planner.ClusterIterations,
	}, searcher, rand.New(rand.NewPCG(seed, seed>>1)), logger)
}

func provideScheduler(cfg *config.Config, router route.Service) *itinerary.Scheduler {
	return itinerary.NewScheduler(itinerary.SchedulerConfig{
		DayStart:     cfg.Planner.DayStart,
		TravelBuffer: cfg.Planner.TravelBuffer,
		TravelMode:   cfg.Planner.DefaultTravelMode,
	}, router)
}

func provideItineraryService(cfg *config.Config, scheduler *itinerary.Scheduler, searcher catalog.Service, repo itinerary.Repository, logger *slog.Logger) itinerary.Service {
	return itinerary.NewService(itinerary.Config{MaxDays: cfg.Planner.MaxDays}, scheduler, searcher, repo, logger)
}

func provideWeatherService(cfg *config.Config, client *openmeteo.Client, cache weather.Cache, guards providerGuards, logger *slog.Logger) weather.Service {
	return weather.NewService(weather.Config{CacheTTL: cfg.Cache.WeatherTTL}, client, cache, guards.Weather, logger)
}

func provideAssistantService(cfg *config.Config, client *chatgpt.Client, guards providerGuards, logger *slog.Logger) assistant.Service {
	return assistant.NewService(assistant.Config{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Prompt:      cfg.LLM.Prompt,
	}, client, guards.LLM, logger)
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}
}

func provideRateLimiter(cfg *config.Config) (*httpiface.RateLimiter, func()) {
	rl := cfg.HTTP.RateLimit
	if !rl.Enabled || rl.RequestsPerMinute <= 0 {
		return nil, func() {}
	}
	limiter := httpiface.NewRateLimiter(rl)
	return limiter, limiter.Stop
}
