//go:build wireinject
// +build wireinject

package di

import (
	"CoinScreen/pkg/config"
	"CoinScreen/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideCache,

		// Repositories
		ProvidePriceStore,
		ProvideResultStore,
		ProvideLeaderboardPublisher,
		ProvideMarketStream,

		// Domain services
		ProvideScoringConfig,
		ProvideTrendPeriods,
		ProvideEngine,
		ProvideCoinGecko,

		// Use cases
		ProvideTickProcessor,
		ProvidePriceCollector,
		ProvideScreeningRunner,
		ProvideHistorySync,
		ProvideQueue,

		// HTTP
		ProvideScreeningHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
