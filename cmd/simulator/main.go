package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"championship-sim/internal/config"
	"championship-sim/internal/constants"
	"championship-sim/internal/csvio"
	"championship-sim/internal/domain"
	fxmodules "championship-sim/internal/fx"
	"championship-sim/internal/generator"
	applog "championship-sim/internal/logger"
	"championship-sim/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type options struct {
	Mode       string
	Runs       int
	Players    int
	Seed       int64
	Top        int
	Search     string
	CutoffRank int
	File       string
	Persist    bool
	Workers    int
}

const defaultPoolSize = 8000

func main() {
	opts := parseFlags()
	fx.New(
		fxmodules.Module,
		fx.Supply(opts),
		fx.Invoke(run),
	).Run()
}

func parseFlags() options {
	mode := flag.String("mode", "simulate", "one of: seed, simulate, standings, import, export")
	runs := flag.Int("runs", 1, "number of independent tournament runs")
	players := flag.Int("players", 0, "field size per run, or pool size in seed mode (0 uses defaults)")
	seed := flag.Int64("seed", time.Now().UnixNano()%1_000_000, "base RNG seed")
	top := flag.Int("top", 20, "rows to print in standings mode")
	search := flag.String("search", "", "fuzzy name search in standings mode")
	cutoffRank := flag.Int("cutoff-rank", 0, "ledger rank to report after each run (0 disables)")
	file := flag.String("file", "", "CSV path for import and export modes")
	persist := flag.Bool("persist", false, "write awarded standings back to the database (single run only)")
	workers := flag.Int("workers", constants.DefaultBatchParallelism, "concurrent runs in simulate mode")
	flag.Parse()

	return options{
		Mode:       *mode,
		Runs:       *runs,
		Players:    *players,
		Seed:       *seed,
		Top:        *top,
		Search:     *search,
		CutoffRank: *cutoffRank,
		File:       *file,
		Persist:    *persist,
		Workers:    *workers,
	}
}

func run(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	opts options,
	simSvc *service.SimulationService,
	standingsSvc *service.StandingsService,
	players service.PlayerStore,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		applog.SetLevel(level)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := execute(context.Background(), opts, simSvc, standingsSvc, players, logger); err != nil {
					logger.Error().Err(err).Str("mode", opts.Mode).Msg("command failed")
				}
				if err := shutdowner.Shutdown(); err != nil {
					logger.Error().Err(err).Msg("shutdown failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			return nil
		},
	})
}

func execute(
	ctx context.Context,
	opts options,
	simSvc *service.SimulationService,
	standingsSvc *service.StandingsService,
	players service.PlayerStore,
	logger zerolog.Logger,
) error {
	switch opts.Mode {
	case "seed":
		return seedPool(ctx, opts, players, logger)
	case "simulate":
		// batches can run for a long time, no deadline here
		return simulate(ctx, opts, simSvc)
	case "standings":
		ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
		defer cancel()
		return printStandings(ctx, opts, standingsSvc)
	case "import":
		ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
		defer cancel()
		return importStandings(ctx, opts, standingsSvc, logger)
	case "export":
		ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
		defer cancel()
		return exportStandings(ctx, opts, standingsSvc, logger)
	default:
		return fmt.Errorf("unknown mode %q", opts.Mode)
	}
}

func seedPool(ctx context.Context, opts options, players service.PlayerStore, logger zerolog.Logger) error {
	size := opts.Players
	if size <= 0 {
		size = defaultPoolSize
	}

	pool, err := generator.New(opts.Seed).Players(size)
	if err != nil {
		return err
	}
	if err := players.UpsertBatch(ctx, pool); err != nil {
		return fmt.Errorf("failed to seed player pool: %w", err)
	}

	logger.Info().Int("players", len(pool)).Int64("seed", opts.Seed).Msg("player pool seeded")
	return nil
}

func simulate(ctx context.Context, opts options, simSvc *service.SimulationService) error {
	result, err := simSvc.RunBatch(ctx, service.BatchParams{
		Runs:        opts.Runs,
		FieldSize:   opts.Players,
		Seed:        opts.Seed,
		Parallelism: opts.Workers,
		CutoffRank:  opts.CutoffRank,
		Persist:     opts.Persist,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "run\tseed\tfield\tday2\tbrutal\tchampion\tcp\tawards")
	for _, s := range result.Summaries {
		if s.NoAdvancement {
			fmt.Fprintf(w, "%d\t%d\t%d\t-\t-\tno day-2 field\t-\t-\n", s.Run, s.Seed, s.FieldSize)
			continue
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%s\t%d\t%d\n",
			s.Run, s.Seed, s.FieldSize, s.DayTwoSize, s.BrutalMatches,
			s.Champion, s.ChampionCP, s.AwardsApplied)
	}
	w.Flush()

	if opts.CutoffRank > 0 {
		fmt.Printf("\nledger rank %d after each run:\n", opts.CutoffRank)
		for _, s := range result.Summaries {
			if s.CutoffName == "" {
				continue
			}
			fmt.Printf("  run %d: %s with %d CP\n", s.Run, s.CutoffName, s.CutoffTotal)
		}
	}

	fmt.Printf("\nbatch %s finished in %s (%d persist failures)\n",
		result.BatchID, result.Elapsed.Round(time.Millisecond), result.PersistFailures)
	return nil
}

func printStandings(ctx context.Context, opts options, standingsSvc *service.StandingsService) error {
	var (
		entries []domain.StandingEntry
		err     error
	)
	if opts.Search != "" {
		entries, err = standingsSvc.Search(ctx, opts.Search)
	} else {
		entries, err = standingsSvc.TopN(ctx, opts.Top)
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no standings found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "rank\tname\tfinishes\ttop5\tlocals\ttotal")
	for i, entry := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\n",
			i+1, entry.Name, csvio.FormatFinishes(entry.Finishes),
			entry.TopFiveCP, entry.LocalsCP, entry.TotalCP)
	}
	return w.Flush()
}

func importStandings(ctx context.Context, opts options, standingsSvc *service.StandingsService, logger zerolog.Logger) error {
	if opts.File == "" {
		return fmt.Errorf("import mode requires -file")
	}
	entries, err := csvio.ImportStandings(opts.File)
	if err != nil {
		return err
	}
	if err := standingsSvc.Replace(ctx, entries); err != nil {
		return err
	}
	logger.Info().Int("entries", len(entries)).Str("file", opts.File).Msg("standings imported")
	return nil
}

func exportStandings(ctx context.Context, opts options, standingsSvc *service.StandingsService, logger zerolog.Logger) error {
	if opts.File == "" {
		return fmt.Errorf("export mode requires -file")
	}
	entries, err := standingsSvc.All(ctx)
	if err != nil {
		return err
	}
	if err := csvio.ExportStandings(opts.File, entries); err != nil {
		return err
	}
	logger.Info().Int("entries", len(entries)).Str("file", opts.File).Msg("standings exported")
	return nil
}
