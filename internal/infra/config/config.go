package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP           HTTPConfig           `yaml:"http"`
	Embedding      EmbeddingConfig      `yaml:"embedding"`
	Matching       MatchingConfig       `yaml:"matching"`
	Recommendation RecommendationConfig `yaml:"recommendation"`
	Cache          CacheConfig          `yaml:"cache"`
	Postgres       PostgresConfig       `yaml:"postgres"`
	Snapshot       SnapshotConfig       `yaml:"snapshot"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// EmbeddingConfig contains settings for the embedding provider.
type EmbeddingConfig struct {
	APIKey         string        `yaml:"apiKey"`
	BaseURL        string        `yaml:"baseUrl"`
	Model          string        `yaml:"model"`
	Dimension      int           `yaml:"dimension"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"maxRetries"`
	MaxInputTokens int           `yaml:"maxInputTokens"`
}

// MatchingConfig bounds the job matching phase.
type MatchingConfig struct {
	DefaultTopK   int           `yaml:"defaultTopK"`
	MaxTopK       int           `yaml:"maxTopK"`
	MinSimilarity float64       `yaml:"minSimilarity"`
	Timeout       time.Duration `yaml:"timeout"`
}

// RecommendationConfig tunes the assembly pipeline and the confidence model.
type RecommendationConfig struct {
	OverallTimeout   time.Duration     `yaml:"overallTimeout"`
	BaselineLocation string            `yaml:"baselineLocation"`
	SampleSizeTarget int               `yaml:"sampleSizeTarget"`
	Confidence       ConfidenceWeights `yaml:"confidence"`
}

// ConfidenceWeights exposes the factor weights and level thresholds as
// configuration rather than code.
type ConfidenceWeights struct {
	MatchQuality       float64 `yaml:"matchQuality"`
	SampleAdequacy     float64 `yaml:"sampleAdequacy"`
	Coverage           float64 `yaml:"coverage"`
	LocationConfidence float64 `yaml:"locationConfidence"`
	HighThreshold      float64 `yaml:"highThreshold"`
	MediumThreshold    float64 `yaml:"mediumThreshold"`
}

// CacheConfig controls the optional result cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Addr    string        `yaml:"addr"`
	TTL     time.Duration `yaml:"ttl"`
	Prefix  string        `yaml:"prefix"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// SnapshotConfig points at the published benchmark snapshot used to seed the
// in-memory stores when Postgres is not configured.
type SnapshotConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    bool   `yaml:"useSsl"`
	Bucket    string `yaml:"bucket"`
	Object    string `yaml:"object"`
}

// hardOverallTimeout is the ceiling no configured deadline may exceed.
const hardOverallTimeout = 5 * time.Second

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("EMBEDDING_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}
	if v := os.Getenv("EMBEDDING_BASE_URL"); v != "" {
		cfg.Embedding.BaseURL = v
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("EMBEDDING_DIMENSION"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Embedding.Dimension = parsed
		}
	}
	if v := os.Getenv("EMBEDDING_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Embedding.Timeout = parsed
		}
	}
	if v := os.Getenv("EMBEDDING_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Embedding.MaxRetries = parsed
		}
	}
	if v := os.Getenv("MATCHING_TOP_K"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Matching.DefaultTopK = parsed
		}
	}
	if v := os.Getenv("MATCHING_MAX_TOP_K"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Matching.MaxTopK = parsed
		}
	}
	if v := os.Getenv("MATCHING_MIN_SIMILARITY"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Matching.MinSimilarity = parsed
		}
	}
	if v := os.Getenv("MATCHING_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Matching.Timeout = parsed
		}
	}
	if v := os.Getenv("RECOMMEND_OVERALL_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Recommendation.OverallTimeout = parsed
		}
	}
	if v := os.Getenv("RECOMMEND_BASELINE_LOCATION"); v != "" {
		cfg.Recommendation.BaselineLocation = v
	}
	if v := os.Getenv("RECOMMEND_SAMPLE_SIZE_TARGET"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Recommendation.SampleSizeTarget = parsed
		}
	}
	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = parsed
		}
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("SNAPSHOT_ENABLED"); v != "" {
		cfg.Snapshot.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("SNAPSHOT_ENDPOINT"); v != "" {
		cfg.Snapshot.Endpoint = v
	}
	if v := os.Getenv("SNAPSHOT_ACCESS_KEY"); v != "" {
		cfg.Snapshot.AccessKey = v
	}
	if v := os.Getenv("SNAPSHOT_SECRET_KEY"); v != "" {
		cfg.Snapshot.SecretKey = v
	}
	if v := os.Getenv("SNAPSHOT_BUCKET"); v != "" {
		cfg.Snapshot.Bucket = v
	}
	if v := os.Getenv("SNAPSHOT_OBJECT"); v != "" {
		cfg.Snapshot.Object = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		Embedding: EmbeddingConfig{
			Model:          "text-embedding-3-small",
			Dimension:      1536,
			Timeout:        time.Second,
			MaxRetries:     2,
			MaxInputTokens: 8000,
		},
		Matching: MatchingConfig{
			DefaultTopK:   5,
			MaxTopK:       20,
			MinSimilarity: 0.7,
			Timeout:       time.Second,
		},
		Recommendation: RecommendationConfig{
			OverallTimeout:   2 * time.Second,
			BaselineLocation: "Singapore",
			SampleSizeTarget: 100,
			Confidence: ConfidenceWeights{
				MatchQuality:       0.4,
				SampleAdequacy:     0.25,
				Coverage:           0.15,
				LocationConfidence: 0.2,
				HighThreshold:      0.75,
				MediumThreshold:    0.45,
			},
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     24 * time.Hour,
			Prefix:  "rec",
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
			MinConns: 0,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Embedding.Dimension <= 0 {
		return errors.New("embedding.dimension must be positive")
	}
	if c.Embedding.MaxRetries < 0 {
		return errors.New("embedding.maxRetries cannot be negative")
	}
	if c.Matching.DefaultTopK <= 0 {
		return errors.New("matching.defaultTopK must be positive")
	}
	if c.Matching.MaxTopK < c.Matching.DefaultTopK {
		return errors.New("matching.maxTopK cannot be below matching.defaultTopK")
	}
	if c.Matching.MinSimilarity < 0 || c.Matching.MinSimilarity > 1 {
		return errors.New("matching.minSimilarity must be within [0,1]")
	}
	if c.Matching.Timeout <= 0 {
		return errors.New("matching.timeout must be positive")
	}
	if c.Recommendation.OverallTimeout <= 0 {
		return errors.New("recommendation.overallTimeout must be positive")
	}
	if c.Recommendation.OverallTimeout > hardOverallTimeout {
		return fmt.Errorf("recommendation.overallTimeout cannot exceed %s", hardOverallTimeout)
	}
	if c.Matching.Timeout > c.Recommendation.OverallTimeout {
		return errors.New("matching.timeout cannot exceed recommendation.overallTimeout")
	}
	if c.Recommendation.SampleSizeTarget <= 0 {
		return errors.New("recommendation.sampleSizeTarget must be positive")
	}
	w := c.Recommendation.Confidence
	sum := w.MatchQuality + w.SampleAdequacy + w.Coverage + w.LocationConfidence
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("recommendation.confidence weights must sum to 1, got %v", sum)
	}
	if w.HighThreshold <= w.MediumThreshold {
		return errors.New("recommendation.confidence.highThreshold must exceed mediumThreshold")
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Addr) == "" {
		return errors.New("cache.addr cannot be empty when the result cache is enabled")
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl cannot be negative")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.Snapshot.Enabled {
		if c.Snapshot.Endpoint == "" {
			return errors.New("snapshot.endpoint cannot be empty when snapshot loading is enabled")
		}
		if c.Snapshot.Bucket == "" || c.Snapshot.Object == "" {
			return errors.New("snapshot.bucket and snapshot.object must be set when snapshot loading is enabled")
		}
	}
	return nil
}
