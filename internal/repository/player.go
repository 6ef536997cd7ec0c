package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"championship-sim/internal/constants"
	"championship-sim/internal/domain"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		db:     sqlDB,
		logger: logger,
	}
}

const playerColumns = `id, name, global_rank, rating_zone, cp,
	career_tournaments, career_match_points, career_wins, career_losses,
	career_ties, career_top_cuts, career_titles, created_at, updated_at`

// LoadAll returns the full player pool ordered by CP descending, which is
// the order the simulator samples fields from.
func (r *PlayerRepository) LoadAll(ctx context.Context) ([]domain.Player, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players ORDER BY cp DESC, global_rank ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}

	return players, nil
}

// Get returns nil without error when the player does not exist.
func (r *PlayerRepository) Get(ctx context.Context, id int64) (*domain.Player, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = ?`, id)

	p, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, player *domain.Player) error {
	_, err := r.db.ExecContext(ctx, upsertPlayerQuery, upsertPlayerArgs(player)...)
	if err != nil {
		return fmt.Errorf("failed to upsert player %d: %w", player.ID, err)
	}
	return nil
}

// UpsertBatch writes a generated or imported pool in a single transaction,
// chunked so statement buffers stay bounded for multi-thousand player pools.
func (r *PlayerRepository) UpsertBatch(ctx context.Context, players []domain.Player) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertPlayerQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < len(players); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(players) {
			end = len(players)
		}

		for _, player := range players[i:end] {
			if _, err := stmt.ExecContext(ctx, upsertPlayerArgs(&player)...); err != nil {
				return fmt.Errorf("failed to upsert player %d: %w", player.ID, err)
			}
		}
	}

	r.logger.Debug().Int("count", len(players)).Msg("player batch upserted")
	return tx.Commit()
}

// UpdateCareerStats folds one tournament's results into the players'
// career counters.
func (r *PlayerRepository) UpdateCareerStats(ctx context.Context, result domain.TournamentResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE players SET
			career_tournaments = career_tournaments + 1,
			career_match_points = career_match_points + ?,
			career_wins = career_wins + ?,
			career_losses = career_losses + ?,
			career_ties = career_ties + ?,
			career_top_cuts = career_top_cuts + ?,
			career_titles = career_titles + ?,
			updated_at = ?
		WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare career update: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, res := range result.Standings {
		topCut := 0
		if res.MadeDayTwo {
			topCut = 1
		}
		title := 0
		if res.Placement == 1 {
			title = 1
		}
		if _, err := stmt.ExecContext(ctx,
			res.MatchPoints, res.Wins, res.Losses, res.Ties,
			topCut, title, now, res.PlayerID,
		); err != nil {
			return fmt.Errorf("failed to update career stats for player %d: %w", res.PlayerID, err)
		}
	}

	return tx.Commit()
}

const upsertPlayerQuery = `
	INSERT INTO players (` + playerColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		global_rank = excluded.global_rank,
		rating_zone = excluded.rating_zone,
		cp = excluded.cp,
		updated_at = excluded.updated_at`

func upsertPlayerArgs(p *domain.Player) []any {
	return []any{
		p.ID, p.Name, p.GlobalRank, string(p.Zone), p.CP,
		p.CareerTournaments, p.CareerMatchPoints, p.CareerWins, p.CareerLosses,
		p.CareerTies, p.CareerTopCuts, p.CareerTitles, p.CreatedAt, p.UpdatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (domain.Player, error) {
	var p domain.Player
	var zone string
	err := row.Scan(
		&p.ID, &p.Name, &p.GlobalRank, &zone, &p.CP,
		&p.CareerTournaments, &p.CareerMatchPoints, &p.CareerWins, &p.CareerLosses,
		&p.CareerTies, &p.CareerTopCuts, &p.CareerTitles, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return p, err
	}
	if err != nil {
		return p, fmt.Errorf("failed to scan player: %w", err)
	}
	p.Zone = domain.RatingZone(zone)
	return p, nil
}
