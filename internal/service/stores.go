package service

import (
	"context"

	"championship-sim/internal/domain"
)

// PlayerStore is the player pool the simulator draws fields from. The
// sqlite repository is the only implementation outside of tests.
type PlayerStore interface {
	LoadAll(ctx context.Context) ([]domain.Player, error)
	Get(ctx context.Context, id int64) (*domain.Player, error)
	Upsert(ctx context.Context, player *domain.Player) error
	UpsertBatch(ctx context.Context, players []domain.Player) error
	Count(ctx context.Context) (int, error)
	UpdateCareerStats(ctx context.Context, result domain.TournamentResult) error
}

// StandingsStore persists the championship-points ledger between runs.
type StandingsStore interface {
	LoadStandings(ctx context.Context) ([]domain.StandingEntry, error)
	SaveStandings(ctx context.Context, entries []domain.StandingEntry) error
}

// ResultsSink receives finished tournaments. Sink failures never fail a
// simulation, the in-memory result is the source of truth for callers.
type ResultsSink interface {
	RecordTournament(ctx context.Context, result domain.TournamentResult) error
}
