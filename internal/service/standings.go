package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"championship-sim/internal/config"
	"championship-sim/internal/constants"
	"championship-sim/internal/domain"
	"championship-sim/internal/ledger"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog"
)

type StandingsService struct {
	store  StandingsStore
	table  ledger.PointsTable
	logger zerolog.Logger
}

func NewStandingsService(store StandingsStore, cfg *config.Config, logger zerolog.Logger) (*StandingsService, error) {
	table, err := cfg.Scenario.PointsTable()
	if err != nil {
		return nil, fmt.Errorf("invalid points table: %w", err)
	}
	return &StandingsService{
		store:  store,
		table:  table,
		logger: logger,
	}, nil
}

// Apply folds one tournament's placements into the stored ledger and
// persists the result. The awarded entries and changed count are always
// returned; a save failure comes back as the error alongside them.
func (s *StandingsService) Apply(ctx context.Context, result domain.TournamentResult) ([]domain.StandingEntry, int, error) {
	baseline, err := s.store.LoadStandings(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load standings: %w", err)
	}

	lgr := ledger.New(baseline, s.table, s.logger)
	applied := 0
	for _, pr := range result.Standings {
		if lgr.AwardPlacement(pr.Name, pr.Placement) {
			applied++
		}
	}

	entries := lgr.Entries()
	s.logger.Info().
		Str("tournament_id", result.TournamentID).
		Int("awards_applied", applied).
		Msg("ledger awards applied")

	if err := s.store.SaveStandings(ctx, entries); err != nil {
		return entries, applied, fmt.Errorf("failed to persist standings: %w", err)
	}
	return entries, applied, nil
}

func (s *StandingsService) All(ctx context.Context) ([]domain.StandingEntry, error) {
	return s.store.LoadStandings(ctx)
}

func (s *StandingsService) Replace(ctx context.Context, entries []domain.StandingEntry) error {
	// Rebuilding through the ledger normalizes finish ordering and the
	// derived CP sums before anything hits the store.
	lgr := ledger.New(entries, s.table, s.logger)
	return s.store.SaveStandings(ctx, lgr.Entries())
}

func (s *StandingsService) TopN(ctx context.Context, n int) ([]domain.StandingEntry, error) {
	entries, err := s.store.LoadStandings(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalCP != entries[j].TotalCP {
			return entries[i].TotalCP > entries[j].TotalCP
		}
		return entries[i].Name < entries[j].Name
	})
	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries, nil
}

// Search fuzzy-matches a name against both ledger name columns,
// case-insensitively, and returns the best matches in rank order.
func (s *StandingsService) Search(ctx context.Context, query string) ([]domain.StandingEntry, error) {
	entries, err := s.store.LoadStandings(ctx)
	if err != nil {
		return nil, err
	}

	// Convert names to lowercase for better matching
	lookup := make(map[string]int)
	var namesLower []string
	for i, entry := range entries {
		for _, name := range []string{entry.Name, entry.AltName} {
			if name == "" {
				continue
			}
			lower := strings.ToLower(name)
			if _, seen := lookup[lower]; seen {
				continue
			}
			lookup[lower] = i
			namesLower = append(namesLower, lower)
		}
	}

	ranks := fuzzy.RankFind(strings.ToLower(query), namesLower)
	sort.Sort(ranks)

	var results []domain.StandingEntry
	seen := make(map[int]bool)
	for _, rank := range ranks {
		idx := lookup[rank.Target]
		if seen[idx] {
			continue
		}
		seen[idx] = true
		results = append(results, entries[idx])
		if len(results) >= constants.SearchSuggestionLimit {
			break
		}
	}
	return results, nil
}
