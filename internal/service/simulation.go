package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"championship-sim/internal/config"
	"championship-sim/internal/constants"
	"championship-sim/internal/domain"
	"championship-sim/internal/ledger"
	"championship-sim/internal/sim"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type SimulationService struct {
	players   PlayerStore
	standings StandingsStore
	sink      ResultsSink
	cfg       *config.Config
	logger    zerolog.Logger
}

func NewSimulationService(
	players PlayerStore,
	standings StandingsStore,
	sink ResultsSink,
	cfg *config.Config,
	logger zerolog.Logger,
) *SimulationService {
	return &SimulationService{
		players:   players,
		standings: standings,
		sink:      sink,
		cfg:       cfg,
		logger:    logger,
	}
}

type BatchParams struct {
	Runs        int
	FieldSize   int // 0 draws a random size from the scenario range per run
	Seed        int64
	Parallelism int
	CutoffRank  int  // optional ledger rank to watch after each run, 0 disables
	Persist     bool // write the awarded ledger back to the store (single run only)
}

// RunSummary is the per-run line reported back to the caller.
type RunSummary struct {
	Run           int
	TournamentID  string
	Seed          int64
	FieldSize     int
	DayTwoSize    int
	RoundsPlayed  int
	BrutalMatches int
	Champion      string
	ChampionCP    int
	AwardsApplied int
	CutoffName    string
	CutoffTotal   int
	NoAdvancement bool
}

type BatchResult struct {
	BatchID         string
	Summaries       []RunSummary
	PersistFailures int
	Elapsed         time.Duration
}

// runOutcome carries everything a finished run produced: the summary for
// the caller, the record for the sink, and the awarded ledger.
type runOutcome struct {
	summary RunSummary
	record  *domain.TournamentResult
	awarded *ledger.Ledger
}

// RunBatch simulates params.Runs independent tournaments over the stored
// player pool. Runs are isolated: each gets its own seeded generator and
// its own clone of the baseline ledger, so run i's results are identical
// whether the batch runs sequentially or in parallel. A run ending in
// ErrNoAdvancement is reported in its summary, not treated as a batch
// failure.
func (s *SimulationService) RunBatch(ctx context.Context, params BatchParams) (*BatchResult, error) {
	if params.Runs < 1 {
		return nil, fmt.Errorf("invalid run count %d", params.Runs)
	}
	parallelism := params.Parallelism
	if parallelism < 1 {
		parallelism = constants.DefaultBatchParallelism
	}

	pool, err := s.players.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load player pool: %w", err)
	}
	if len(pool) < 2 {
		return nil, fmt.Errorf("player pool has %d players, need at least 2", len(pool))
	}

	table, err := s.cfg.Scenario.PointsTable()
	if err != nil {
		return nil, fmt.Errorf("invalid points table: %w", err)
	}

	baseline, err := s.standings.LoadStandings(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load standings, awarding against an empty ledger")
		baseline = nil
	}
	baseLedger := ledger.New(baseline, table, s.logger)

	batchID := uuid.New().String()
	start := time.Now()
	s.logger.Info().
		Str("batch_id", batchID).
		Int("runs", params.Runs).
		Int("parallelism", parallelism).
		Int("pool_size", len(pool)).
		Int64("seed", params.Seed).
		Msg("starting simulation batch")

	outcomes := make([]runOutcome, params.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i := 0; i < params.Runs; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = s.runOne(i, pool, baseLedger, params)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("simulation batch interrupted: %w", err)
	}

	result := &BatchResult{
		BatchID:   batchID,
		Summaries: make([]RunSummary, params.Runs),
	}
	for i, outcome := range outcomes {
		result.Summaries[i] = outcome.summary
		if outcome.record == nil {
			continue
		}
		if err := s.sink.RecordTournament(ctx, *outcome.record); err != nil {
			result.PersistFailures++
			s.logger.Warn().Err(err).
				Str("tournament_id", outcome.record.TournamentID).
				Msg("failed to record tournament")
		}
		if err := s.players.UpdateCareerStats(ctx, *outcome.record); err != nil {
			result.PersistFailures++
			s.logger.Warn().Err(err).
				Str("tournament_id", outcome.record.TournamentID).
				Msg("failed to update career stats")
		}
	}

	if params.Persist {
		if params.Runs == 1 && outcomes[0].awarded != nil {
			if err := s.standings.SaveStandings(ctx, outcomes[0].awarded.Entries()); err != nil {
				result.PersistFailures++
				s.logger.Warn().Err(err).Msg("failed to persist awarded standings")
			}
		} else {
			s.logger.Warn().Int("runs", params.Runs).
				Msg("persisting standings requires a single run, skipping")
		}
	}

	result.Elapsed = time.Since(start)
	s.logger.Info().
		Str("batch_id", batchID).
		Dur("elapsed", result.Elapsed).
		Int("persist_failures", result.PersistFailures).
		Msg("simulation batch finished")
	return result, nil
}

func (s *SimulationService) runOne(runIdx int, pool []domain.Player, base *ledger.Ledger, params BatchParams) runOutcome {
	seed := params.Seed + int64(runIdx)
	rng := rand.New(rand.NewSource(seed))
	runLogger := s.logger.With().Int("run", runIdx).Int64("seed", seed).Logger()

	size := s.fieldSize(params, len(pool), rng, runLogger)
	field := pool[:size]

	tournament := sim.NewTournament(field, s.cfg.Scenario.TournamentConfig(), rng, runLogger)
	res, err := tournament.Run()
	if err != nil {
		if errors.Is(err, sim.ErrNoAdvancement) {
			runLogger.Warn().Int("field_size", size).Msg("run ended with no day-2 field")
			return runOutcome{summary: RunSummary{
				Run:           runIdx,
				Seed:          seed,
				FieldSize:     size,
				NoAdvancement: true,
			}}
		}
		// Run never returns other errors today; keep the guard anyway.
		runLogger.Error().Err(err).Msg("run failed")
		return runOutcome{summary: RunSummary{Run: runIdx, Seed: seed, FieldSize: size}}
	}

	awarded := base.Clone()
	applied := 0
	for _, pr := range res.Standings {
		if awarded.AwardPlacement(pr.Name, pr.Placement) {
			applied++
		}
	}

	summary := RunSummary{
		Run:           runIdx,
		TournamentID:  uuid.New().String(),
		Seed:          seed,
		FieldSize:     res.FieldSize,
		DayTwoSize:    res.DayTwoSize,
		RoundsPlayed:  res.RoundsPlayed,
		BrutalMatches: res.BrutalMatches,
		Champion:      res.Standings[0].Name,
		ChampionCP:    res.Standings[0].CP,
		AwardsApplied: applied,
	}
	if params.CutoffRank > 0 {
		if entry, ok := awarded.EntryAtRank(params.CutoffRank); ok {
			summary.CutoffName = entry.Name
			summary.CutoffTotal = entry.TotalCP
		}
	}

	record := &domain.TournamentResult{
		TournamentID: summary.TournamentID,
		Seed:         seed,
		FieldSize:    res.FieldSize,
		DayTwoSize:   res.DayTwoSize,
		Standings:    res.Standings,
		FinishedAt:   time.Now(),
	}
	return runOutcome{summary: summary, record: record, awarded: awarded}
}

// fieldSize resolves the per-run field size: an explicit request clamped
// to the pool, otherwise a draw from the scenario range. A pool smaller
// than the requested or drawn size degrades to the whole pool.
func (s *SimulationService) fieldSize(params BatchParams, poolSize int, rng *rand.Rand, logger zerolog.Logger) int {
	size := params.FieldSize
	if size <= 0 {
		scenario := s.cfg.Scenario
		size = scenario.MinFieldSize
		if spread := scenario.MaxFieldSize - scenario.MinFieldSize; spread > 0 {
			size += rng.Intn(spread + 1)
		}
	}
	if size > poolSize {
		logger.Warn().
			Int("requested", size).
			Int("pool_size", poolSize).
			Msg("field size exceeds player pool, using whole pool")
		size = poolSize
	}
	if size < 2 {
		size = 2
	}
	return size
}
