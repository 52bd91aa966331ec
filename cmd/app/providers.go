package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/paybench/salary-advisor/internal/domain/recommendation"
	"github.com/paybench/salary-advisor/internal/infra/benchmarkrepo"
	"github.com/paybench/salary-advisor/internal/infra/config"
	"github.com/paybench/salary-advisor/internal/infra/embedding"
	"github.com/paybench/salary-advisor/internal/infra/locationrepo"
	"github.com/paybench/salary-advisor/internal/infra/marketrepo"
	"github.com/paybench/salary-advisor/internal/infra/reccache"
	"github.com/paybench/salary-advisor/internal/infra/snapshot"
)

func provideEngineConfig(cfg *config.Config) recommendation.Config {
	conf := cfg.Recommendation.Confidence
	return recommendation.Config{
		DefaultTopK:      cfg.Matching.DefaultTopK,
		MaxTopK:          cfg.Matching.MaxTopK,
		MinSimilarity:    cfg.Matching.MinSimilarity,
		BaselineLocation: cfg.Recommendation.BaselineLocation,
		MatchTimeout:     cfg.Matching.Timeout,
		OverallTimeout:   cfg.Recommendation.OverallTimeout,
		SampleSizeTarget: cfg.Recommendation.SampleSizeTarget,
		Weights: recommendation.ConfidenceWeights{
			MatchQuality:       conf.MatchQuality,
			SampleAdequacy:     conf.SampleAdequacy,
			Coverage:           conf.Coverage,
			LocationConfidence: conf.LocationConfidence,
		},
		Thresholds: recommendation.ConfidenceThresholds{
			High:   conf.HighThreshold,
			Medium: conf.MediumThreshold,
		},
	}
}

func provideEmbeddingClient(cfg *config.Config, logger *slog.Logger) (recommendation.EmbeddingClient, error) {
	if strings.TrimSpace(cfg.Embedding.APIKey) == "" {
		logger.Warn("embedding api key not set, using deterministic embedder")
		return embedding.NewDeterministic(cfg.Embedding.Dimension), nil
	}
	return embedding.NewClient(embedding.Config{
		APIKey:         cfg.Embedding.APIKey,
		BaseURL:        cfg.Embedding.BaseURL,
		Model:          cfg.Embedding.Model,
		Dimension:      cfg.Embedding.Dimension,
		Timeout:        cfg.Embedding.Timeout,
		MaxRetries:     cfg.Embedding.MaxRetries,
		MaxInputTokens: cfg.Embedding.MaxInputTokens,
	}, logger)
}

// dataStores bundles the three read-only stores so they can share one
// Postgres pool or one loaded snapshot.
type dataStores struct {
	benchmark recommendation.BenchmarkStore
	market    recommendation.MarketDataStore
	location  recommendation.LocationIndexStore
}

func provideDataStores(cfg *config.Config, logger *slog.Logger) (*dataStores, error) {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn != "" {
		pool, err := newPgxPool(cfg, dsn)
		if err != nil {
			return nil, err
		}
		logger.Info("postgres data stores enabled")
		return &dataStores{
			benchmark: benchmarkrepo.NewPostgresStore(pool),
			market:    marketrepo.NewPostgresStore(pool),
			location:  locationrepo.NewPostgresStore(pool),
		}, nil
	}

	benchmark := benchmarkrepo.NewMemoryStore()
	market := marketrepo.NewMemoryStore()
	location := locationrepo.NewMemoryStore()

	if cfg.Snapshot.Enabled {
		loader, err := snapshot.NewLoader(snapshot.Config{
			Endpoint:  cfg.Snapshot.Endpoint,
			AccessKey: cfg.Snapshot.AccessKey,
			SecretKey: cfg.Snapshot.SecretKey,
			UseSSL:    cfg.Snapshot.UseSSL,
			Bucket:    cfg.Snapshot.Bucket,
			Object:    cfg.Snapshot.Object,
		}, logger)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		snap, err := loader.Load(ctx)
		if err != nil {
			return nil, err
		}
		benchmark.Seed(snap.Jobs)
		market.Seed(snap.MarketData)
		location.Seed(snap.LocationIndex)
	} else {
		logger.Warn("postgres dsn not set and snapshot loading disabled, data stores start empty")
	}

	return &dataStores{benchmark: benchmark, market: market, location: location}, nil
}

func newPgxPool(cfg *config.Config, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func provideBenchmarkStore(stores *dataStores) recommendation.BenchmarkStore {
	return stores.benchmark
}

func provideMarketDataStore(stores *dataStores) recommendation.MarketDataStore {
	return stores.market
}

func provideLocationIndexStore(stores *dataStores) recommendation.LocationIndexStore {
	return stores.location
}

func provideRecommender(
	cfg *config.Config,
	engineCfg recommendation.Config,
	embedder recommendation.EmbeddingClient,
	benchmark recommendation.BenchmarkStore,
	market recommendation.MarketDataStore,
	location recommendation.LocationIndexStore,
	logger *slog.Logger,
) recommendation.Recommender {
	engine := recommendation.NewEngine(engineCfg, embedder, benchmark, market, location, logger)
	if !cfg.Cache.Enabled {
		return engine
	}
	cache := provideResultCache(cfg, logger)
	return recommendation.NewCachedEngine(engine, cache, cfg.Cache.TTL, logger)
}

func provideResultCache(cfg *config.Config, logger *slog.Logger) recommendation.ResultCache {
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return reccache.NewMemoryCache()
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return reccache.NewMemoryCache()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		return reccache.NewMemoryCache()
	}
	logger.Info("valkey result cache enabled", "addr", cfg.Cache.Addr)
	return reccache.NewValkeyCache(client, cfg.Cache.Prefix)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Cache.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Cache.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Cache.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
