package service

import (
	"context"
	"fmt"
	"testing"

	"championship-sim/internal/config"
	"championship-sim/internal/domain"
	"championship-sim/internal/ledger"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayerStore struct {
	players     []domain.Player
	careerCalls int
	failCareer  bool
}

func (f *fakePlayerStore) LoadAll(ctx context.Context) ([]domain.Player, error) {
	return f.players, nil
}

func (f *fakePlayerStore) Get(ctx context.Context, id int64) (*domain.Player, error) {
	for i := range f.players {
		if f.players[i].ID == id {
			p := f.players[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakePlayerStore) Upsert(ctx context.Context, player *domain.Player) error { return nil }

func (f *fakePlayerStore) UpsertBatch(ctx context.Context, players []domain.Player) error {
	f.players = players
	return nil
}

func (f *fakePlayerStore) Count(ctx context.Context) (int, error) { return len(f.players), nil }

func (f *fakePlayerStore) UpdateCareerStats(ctx context.Context, result domain.TournamentResult) error {
	if f.failCareer {
		return fmt.Errorf("career stats unavailable")
	}
	f.careerCalls++
	return nil
}

type fakeStandingsStore struct {
	entries  []domain.StandingEntry
	saved    [][]domain.StandingEntry
	failSave bool
}

func (f *fakeStandingsStore) LoadStandings(ctx context.Context) ([]domain.StandingEntry, error) {
	return f.entries, nil
}

func (f *fakeStandingsStore) SaveStandings(ctx context.Context, entries []domain.StandingEntry) error {
	if f.failSave {
		return fmt.Errorf("standings store unavailable")
	}
	f.saved = append(f.saved, entries)
	return nil
}

type fakeSink struct {
	records []domain.TournamentResult
	fail    bool
}

func (f *fakeSink) RecordTournament(ctx context.Context, result domain.TournamentResult) error {
	if f.fail {
		return fmt.Errorf("sink unavailable")
	}
	f.records = append(f.records, result)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Scenario: config.Scenario{
			DayOneRounds: 4,
			DayTwoRounds: 2,
			CutoffPoints: 6,
			TieRate:      0.15,
			MinFieldSize: 16,
			MaxFieldSize: 32,
			PointsBands:  ledger.DefaultBands(),
		},
	}
}

func testPool(n int) []domain.Player {
	pool := make([]domain.Player, n)
	for i := range pool {
		pool[i] = domain.Player{
			ID:   int64(i + 1),
			Name: fmt.Sprintf("Player %d", i+1),
			CP:   100 + i*25,
		}
	}
	return pool
}

func newTestService(players *fakePlayerStore, standings *fakeStandingsStore, sink *fakeSink) *SimulationService {
	return NewSimulationService(players, standings, sink, testConfig(), zerolog.Nop())
}

// TestRunBatch_RecordsEveryRun checks each run lands in the sink with a
// distinct seed and full standings
func TestRunBatch_RecordsEveryRun(t *testing.T) {
	players := &fakePlayerStore{players: testPool(40)}
	sink := &fakeSink{}
	svc := newTestService(players, &fakeStandingsStore{}, sink)

	result, err := svc.RunBatch(context.Background(), BatchParams{Runs: 3, Seed: 100, FieldSize: 40})
	require.NoError(t, err)

	require.Len(t, result.Summaries, 3)
	require.Len(t, sink.records, 3)
	assert.Equal(t, 3, players.careerCalls)
	assert.Zero(t, result.PersistFailures)

	seeds := make(map[int64]bool)
	for i, rec := range sink.records {
		assert.Len(t, rec.Standings, 40)
		assert.Equal(t, result.Summaries[i].TournamentID, rec.TournamentID)
		seeds[rec.Seed] = true
	}
	assert.Len(t, seeds, 3)
}

// TestRunBatch_DeterministicAcrossParallelism checks per-run isolation:
// results do not depend on worker count
func TestRunBatch_DeterministicAcrossParallelism(t *testing.T) {
	run := func(parallelism int) []RunSummary {
		svc := newTestService(&fakePlayerStore{players: testPool(40)}, &fakeStandingsStore{}, &fakeSink{})
		result, err := svc.RunBatch(context.Background(), BatchParams{
			Runs:        4,
			Seed:        7,
			FieldSize:   40,
			Parallelism: parallelism,
		})
		require.NoError(t, err)
		// tournament IDs are freshly generated per batch, blank them out
		for i := range result.Summaries {
			result.Summaries[i].TournamentID = ""
		}
		return result.Summaries
	}

	assert.Equal(t, run(1), run(4))
}

// TestRunBatch_ClampsFieldToPool checks an oversized request degrades to
// the whole pool instead of failing
func TestRunBatch_ClampsFieldToPool(t *testing.T) {
	svc := newTestService(&fakePlayerStore{players: testPool(24)}, &fakeStandingsStore{}, &fakeSink{})

	result, err := svc.RunBatch(context.Background(), BatchParams{Runs: 1, Seed: 5, FieldSize: 4000})
	require.NoError(t, err)
	assert.Equal(t, 24, result.Summaries[0].FieldSize)
}

// TestRunBatch_PersistenceFailureIsNonFatal checks sink and career
// failures are counted, not returned
func TestRunBatch_PersistenceFailureIsNonFatal(t *testing.T) {
	players := &fakePlayerStore{players: testPool(30), failCareer: true}
	svc := newTestService(players, &fakeStandingsStore{}, &fakeSink{fail: true})

	result, err := svc.RunBatch(context.Background(), BatchParams{Runs: 2, Seed: 9, FieldSize: 30})
	require.NoError(t, err)
	assert.Equal(t, 4, result.PersistFailures)
	require.Len(t, result.Summaries, 2)
	assert.NotEmpty(t, result.Summaries[0].Champion)
}

// TestRunBatch_AwardsAgainstBaseline checks ledger awards land for
// players present in the standings and the baseline stays untouched
// across runs
func TestRunBatch_AwardsAgainstBaseline(t *testing.T) {
	pool := testPool(32)
	standings := &fakeStandingsStore{}
	for _, p := range pool {
		standings.entries = append(standings.entries, domain.StandingEntry{Name: p.Name})
	}
	svc := newTestService(&fakePlayerStore{players: pool}, standings, &fakeSink{})

	result, err := svc.RunBatch(context.Background(), BatchParams{
		Runs:       2,
		Seed:       31,
		FieldSize:  32,
		CutoffRank: 1,
	})
	require.NoError(t, err)

	for _, summary := range result.Summaries {
		// every placement through 1024th scores, so the whole field awards
		assert.Equal(t, 32, summary.AwardsApplied)
		assert.NotEmpty(t, summary.CutoffName)
		assert.Greater(t, summary.CutoffTotal, 0)
	}
}

// TestRunBatch_PersistSingleRun checks the awarded ledger is written back
// only for single-run batches
func TestRunBatch_PersistSingleRun(t *testing.T) {
	pool := testPool(20)
	standings := &fakeStandingsStore{}
	for _, p := range pool {
		standings.entries = append(standings.entries, domain.StandingEntry{Name: p.Name})
	}
	svc := newTestService(&fakePlayerStore{players: pool}, standings, &fakeSink{})

	_, err := svc.RunBatch(context.Background(), BatchParams{Runs: 1, Seed: 2, FieldSize: 20, Persist: true})
	require.NoError(t, err)
	require.Len(t, standings.saved, 1)
	assert.Len(t, standings.saved[0], 20)

	multi := newTestService(&fakePlayerStore{players: pool}, standings, &fakeSink{})
	_, err = multi.RunBatch(context.Background(), BatchParams{Runs: 2, Seed: 2, FieldSize: 20, Persist: true})
	require.NoError(t, err)
	assert.Len(t, standings.saved, 1, "multi-run persist must be skipped")
}

// TestRunBatch_RejectsBadParams covers the guard clauses
func TestRunBatch_RejectsBadParams(t *testing.T) {
	svc := newTestService(&fakePlayerStore{players: testPool(10)}, &fakeStandingsStore{}, &fakeSink{})
	_, err := svc.RunBatch(context.Background(), BatchParams{Runs: 0, Seed: 1})
	assert.Error(t, err)

	empty := newTestService(&fakePlayerStore{}, &fakeStandingsStore{}, &fakeSink{})
	_, err = empty.RunBatch(context.Background(), BatchParams{Runs: 1, Seed: 1})
	assert.Error(t, err)
}
