package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/tandadapp/backend/internal/models"
)

// AppendContribution appends one entry to the contribution history.
func (s *SQLiteStore) AppendContribution(ctx context.Context, c *models.Contribution) error {
	if c.Timestamp == 0 {
		c.Timestamp = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO contributions (group_id, account, amount, timestamp) VALUES (?, ?, ?, ?)",
		c.GroupID, c.Account, c.Amount, c.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contribution: %w", err)
	}

	return nil
}

// HistoryFor returns the contribution history of one account in one
// group, oldest first.
func (s *SQLiteStore) HistoryFor(ctx context.Context, groupID, account string) ([]*models.Contribution, error) {
	return s.queryContributions(ctx,
		`SELECT group_id, account, amount, timestamp FROM contributions
		 WHERE group_id = ? AND account = ? ORDER BY id`,
		groupID, account,
	)
}

// GroupHistory returns every contribution recorded for a group, oldest first.
func (s *SQLiteStore) GroupHistory(ctx context.Context, groupID string) ([]*models.Contribution, error) {
	return s.queryContributions(ctx,
		`SELECT group_id, account, amount, timestamp FROM contributions
		 WHERE group_id = ? ORDER BY id`,
		groupID,
	)
}

// AllHistories returns the full contribution history keyed by group id.
func (s *SQLiteStore) AllHistories(ctx context.Context) (map[string][]*models.Contribution, error) {
	all, err := s.queryContributions(ctx,
		"SELECT group_id, account, amount, timestamp FROM contributions ORDER BY id")
	if err != nil {
		return nil, err
	}

	histories := make(map[string][]*models.Contribution)
	for _, c := range all {
		histories[c.GroupID] = append(histories[c.GroupID], c)
	}

	return histories, nil
}

func (s *SQLiteStore) queryContributions(ctx context.Context, query string, args ...interface{}) ([]*models.Contribution, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contributions: %w", err)
	}
	defer rows.Close()

	var contributions []*models.Contribution
	for rows.Next() {
		c := &models.Contribution{}
		if err := rows.Scan(&c.GroupID, &c.Account, &c.Amount, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		contributions = append(contributions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributions: %w", err)
	}

	return contributions, nil
}
