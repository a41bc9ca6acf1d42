package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tandadapp/backend/internal/models"
)

// RecordTransfer persists an executed payout to the database.
func (s *SQLiteStore) RecordTransfer(ctx context.Context, t *models.Transfer) error {
	// Generate ID if not set
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transfers (id, group_id, cycle_idx, recipient, amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.GroupID, t.CycleIndex, t.Recipient, t.Amount, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transfer: %w", err)
	}

	return nil
}
