package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	domain "github.com/paybench/salary-advisor/internal/domain/recommendation"
)

// Snapshot bundles the benchmark catalog, market-data rows and location
// index published by the offline ingestion pipeline.
type Snapshot struct {
	Jobs          []domain.JobRecord          `json:"jobs"`
	MarketData    []domain.MarketDataRow      `json:"marketData"`
	LocationIndex []domain.LocationIndexEntry `json:"locationIndex"`
}

// Config locates the snapshot object in S3-compatible storage.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Object    string
}

// Loader reads a published snapshot from S3-compatible object storage. It is
// strictly a read path; producing the snapshot is the ingestion pipeline's
// job.
type Loader struct {
	client *minio.Client
	cfg    Config
	logger *slog.Logger
}

// NewLoader constructs the loader.
func NewLoader(cfg Config, logger *slog.Logger) (*Loader, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("snapshot endpoint cannot be empty")
	}
	if cfg.Bucket == "" || cfg.Object == "" {
		return nil, fmt.Errorf("snapshot bucket and object must be set")
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}
	return &Loader{
		client: client,
		cfg:    cfg,
		logger: logger.With("component", "snapshot.loader"),
	}, nil
}

// Load fetches and decodes the snapshot object.
func (l *Loader) Load(ctx context.Context) (Snapshot, error) {
	obj, err := l.client.GetObject(ctx, l.cfg.Bucket, l.cfg.Object, minio.GetObjectOptions{})
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch snapshot object: %w", err)
	}
	defer obj.Close()

	var snap Snapshot
	if err := json.NewDecoder(obj).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	l.logger.Info("snapshot loaded",
		"jobs", len(snap.Jobs),
		"market_rows", len(snap.MarketData),
		"locations", len(snap.LocationIndex),
	)
	return snap, nil
}
