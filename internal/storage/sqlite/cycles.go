package sqlite

import (
	"context"
	"fmt"

	"github.com/tandadapp/backend/internal/models"
)

// GetCycles returns the ordered cycle list of a group, or nil when
// cycles have not been generated yet.
func (s *SQLiteStore) GetCycles(ctx context.Context, groupID string) ([]models.Cycle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, start_date, end_date, turn_holder, collected_amount,
		        contributions_complete, paid_out
		 FROM cycles WHERE group_id = ? ORDER BY idx`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get cycles: %w", err)
	}
	defer rows.Close()

	var cycles []models.Cycle
	for rows.Next() {
		var c models.Cycle
		var idx, complete, paid int
		if err := rows.Scan(&idx, &c.StartDate, &c.EndDate, &c.TurnHolder,
			&c.CollectedAmount, &complete, &paid); err != nil {
			return nil, fmt.Errorf("failed to scan cycle: %w", err)
		}
		c.ContributionsComplete = complete != 0
		c.PaidOut = paid != 0
		cycles = append(cycles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cycles: %w", err)
	}

	if cycles == nil {
		return nil, nil // Cycles not initialized
	}

	for i := range cycles {
		contributors, err := s.cycleContributors(ctx, groupID, i)
		if err != nil {
			return nil, err
		}
		cycles[i].Contributors = contributors
	}

	return cycles, nil
}

// PutCycles replaces the full cycle list of a group in one transaction.
// The read-modify-write callers in the service layer hold the group
// lock, so replace-all keeps the rows and the in-memory list identical.
func (s *SQLiteStore) PutCycles(ctx context.Context, groupID string, cycles []models.Cycle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM cycle_contributors WHERE group_id = ?", groupID); err != nil {
		return fmt.Errorf("failed to clear cycle contributors: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM cycles WHERE group_id = ?", groupID); err != nil {
		return fmt.Errorf("failed to clear cycles: %w", err)
	}

	for i, c := range cycles {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO cycles (group_id, idx, start_date, end_date, turn_holder,
			                     collected_amount, contributions_complete, paid_out)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			groupID, i, c.StartDate, c.EndDate, c.TurnHolder,
			c.CollectedAmount, boolToInt(c.ContributionsComplete), boolToInt(c.PaidOut),
		)
		if err != nil {
			return fmt.Errorf("failed to insert cycle: %w", err)
		}

		for _, account := range c.Contributors {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO cycle_contributors (group_id, idx, account) VALUES (?, ?, ?)",
				groupID, i, account,
			)
			if err != nil {
				return fmt.Errorf("failed to insert cycle contributor: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// cycleContributors loads the contributor set of one cycle.
func (s *SQLiteStore) cycleContributors(ctx context.Context, groupID string, idx int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT account FROM cycle_contributors WHERE group_id = ? AND idx = ? ORDER BY rowid",
		groupID, idx,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get cycle contributors: %w", err)
	}
	defer rows.Close()

	var contributors []string
	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return nil, fmt.Errorf("failed to scan cycle contributor: %w", err)
		}
		contributors = append(contributors, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cycle contributors: %w", err)
	}

	return contributors, nil
}
