package fx

import (
	"championship-sim/internal/config"
	"championship-sim/internal/database"
	"championship-sim/internal/logger"
	"championship-sim/internal/repository"
	"championship-sim/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewStandingsRepository),
	fx.Provide(repository.NewTournamentRepository),
	// store bindings
	fx.Provide(func(r *repository.PlayerRepository) service.PlayerStore { return r }),
	fx.Provide(func(r *repository.StandingsRepository) service.StandingsStore { return r }),
	fx.Provide(func(r *repository.TournamentRepository) service.ResultsSink { return r }),
	// svc
	fx.Provide(service.NewSimulationService),
	fx.Provide(service.NewStandingsService),
)
