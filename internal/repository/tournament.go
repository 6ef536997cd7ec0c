package repository

import (
	"context"
	"database/sql"
	"fmt"

	"championship-sim/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type TournamentRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewTournamentRepository(sqlDB *sql.DB, logger zerolog.Logger) *TournamentRepository {
	return &TournamentRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// RecordTournament persists a finished run and its full final standings in
// one transaction.
func (r *TournamentRepository) RecordTournament(ctx context.Context, result domain.TournamentResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO tournaments (id, seed, field_size, day_two_size, finished_at)
		VALUES (?, ?, ?, ?, ?)`,
		result.TournamentID, result.Seed, result.FieldSize, result.DayTwoSize, result.FinishedAt,
	); err != nil {
		return fmt.Errorf("failed to insert tournament %s: %w", result.TournamentID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tournament_results (
			id, tournament_id, player_id, name, cp, placement,
			match_points, wins, losses, ties, made_day_two
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare results insert: %w", err)
	}
	defer stmt.Close()

	for _, res := range result.Standings {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			id, result.TournamentID, res.PlayerID, res.Name, res.CP, res.Placement,
			res.MatchPoints, res.Wins, res.Losses, res.Ties, res.MadeDayTwo,
		); err != nil {
			return fmt.Errorf("failed to insert result for player %d: %w", res.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tournament %s: %w", result.TournamentID, err)
	}

	r.logger.Debug().
		Str("tournament_id", result.TournamentID).
		Int("field_size", result.FieldSize).
		Msg("tournament recorded")
	return nil
}
