//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"GoldCast/pkg/config"
	"GoldCast/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideKafkaProducer,
		ProvideEventPublisher,
		ProvideLogger,
		ProvideMetrics,
		ProvideAPIMetrics,

		ProvideStore,
		ProvidePriceFeed,
		ProvideCache,
		ProvideNotifier,

		ProvideEngineConfig,
		ProvideEngine,

		ProvideHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return &server.App{}, nil
}
