//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"medilens/internal"
	"medilens/internal/controllers"
	"medilens/internal/gateway"
	"medilens/internal/persistence"
	"medilens/internal/providers"
	"medilens/internal/services"
	"medilens/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		persistence.NewZstdCompressor,
		persistence.NewFileMedium,
		persistence.NewHistoryStore,
		gateway.NewOpenAIGateway,
		services.NewSystemClock,
		services.NewHistoryService,
		services.NewSessionService,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
