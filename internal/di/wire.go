//go:build wireinject
// +build wireinject

package di

import (
	"SectorPulse/pkg/config"
	"SectorPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Data inputs
		ProvidePriceSource,
		ProvideUniverse,
		ProvideSectorStore,

		// Use cases
		ProvideScheduler,
		ProvideSectorAggregator,
		ProvideSectorService,

		// Presentation and lifecycle
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
