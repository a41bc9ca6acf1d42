package service

import (
	"context"

	"github.com/tandadapp/backend/internal/models"
	"github.com/tandadapp/backend/internal/storage"
)

// HistoryService answers queries over the append-only contribution
// history. The history is written by the cycle ledger and never read
// back for completion logic; it exists for audit and listing.
type HistoryService struct {
	store storage.Store
}

// For returns the contributions of one account in one group, oldest
// first. Empty when there are none.
func (s *HistoryService) For(ctx context.Context, groupID, account string) ([]*models.Contribution, error) {
	history, err := s.store.HistoryFor(ctx, groupID, account)
	if err != nil {
		return nil, err
	}
	if history == nil {
		return []*models.Contribution{}, nil
	}
	return history, nil
}

// All returns every group's full history, keyed by group id.
func (s *HistoryService) All(ctx context.Context) (map[string][]*models.Contribution, error) {
	return s.store.AllHistories(ctx)
}
