package repository

import (
	"context"
	"database/sql"
	"fmt"

	"championship-sim/internal/csvio"
	"championship-sim/internal/domain"

	"github.com/rs/zerolog"
)

type StandingsRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewStandingsRepository(sqlDB *sql.DB, logger zerolog.Logger) *StandingsRepository {
	return &StandingsRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *StandingsRepository) LoadStandings(ctx context.Context) ([]domain.StandingEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, alt_name, finishes, top_five_cp, locals_cp, total_cp
		FROM standings
		ORDER BY total_cp DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings: %w", err)
	}
	defer rows.Close()

	var entries []domain.StandingEntry
	for rows.Next() {
		var entry domain.StandingEntry
		var finishes string
		if err := rows.Scan(
			&entry.Name, &entry.AltName, &finishes,
			&entry.TopFiveCP, &entry.LocalsCP, &entry.TotalCP,
		); err != nil {
			return nil, fmt.Errorf("failed to scan standings row: %w", err)
		}
		entry.Finishes, err = csvio.ParseFinishes(finishes)
		if err != nil {
			return nil, fmt.Errorf("corrupt finishes for %s: %w", entry.Name, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate standings: %w", err)
	}

	return entries, nil
}

// SaveStandings replaces the stored ledger atomically. The ledger is small
// (hundreds of rows) so full replacement is simpler than diffing awards.
func (r *StandingsRepository) SaveStandings(ctx context.Context, entries []domain.StandingEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM standings`); err != nil {
		return fmt.Errorf("failed to clear standings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO standings (name, alt_name, finishes, top_five_cp, locals_cp, total_cp)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare standings insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.ExecContext(ctx,
			entry.Name, entry.AltName, csvio.FormatFinishes(entry.Finishes),
			entry.TopFiveCP, entry.LocalsCP, entry.TotalCP,
		); err != nil {
			return fmt.Errorf("failed to insert standings row for %s: %w", entry.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit standings: %w", err)
	}

	r.logger.Debug().Int("count", len(entries)).Msg("standings saved")
	return nil
}
