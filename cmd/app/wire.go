//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/paybench/salary-advisor/internal/bootstrap"
	"github.com/paybench/salary-advisor/internal/infra/config"
	httpiface "github.com/paybench/salary-advisor/internal/interface/http"
	"github.com/paybench/salary-advisor/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideEngineConfig,
		provideEmbeddingClient,
		provideDataStores,
		provideBenchmarkStore,
		provideMarketDataStore,
		provideLocationIndexStore,
		provideRecommender,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
