// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/tandadapp/backend/internal/models"
)

// Store defines the persistence interface for the tanda ledger. It
// covers the four ledger collections (groups, cycle lists, members,
// contribution histories) plus login accounts and payout transfers.
// This abstraction allows swapping storage backends (SQLite,
// PostgreSQL, etc.) without changing the service layer.
//
// Lookups return (nil, nil) when the key is unknown; only storage
// failures produce errors. The service layer owns the not-found
// semantics.
type Store interface {
	// CreateGroup persists a new group. The group.ID and
	// group.CreatedAt fields are populated by the store if unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by id, or nil if it does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// UpdateGroup rewrites an existing group, including its member set.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// ListGroups returns every group in creation order.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// GetCycles returns the ordered cycle list of a group, or nil if
	// cycles have not been generated.
	GetCycles(ctx context.Context, groupID string) ([]models.Cycle, error)

	// PutCycles replaces the cycle list of a group atomically.
	PutCycles(ctx context.Context, groupID string, cycles []models.Cycle) error

	// GetMember retrieves the membership index of an account, or nil.
	GetMember(ctx context.Context, account string) (*models.Member, error)

	// PutMember upserts the membership index of an account.
	PutMember(ctx context.Context, member *models.Member) error

	// ListMemberAccounts returns every account with a membership
	// record, in first-seen order.
	ListMemberAccounts(ctx context.Context) ([]string, error)

	// AppendContribution appends one entry to the contribution history.
	AppendContribution(ctx context.Context, c *models.Contribution) error

	// HistoryFor returns the contribution history of one account in
	// one group, oldest first. Empty when there is none.
	HistoryFor(ctx context.Context, groupID, account string) ([]*models.Contribution, error)

	// GroupHistory returns every contribution recorded for a group,
	// oldest first.
	GroupHistory(ctx context.Context, groupID string) ([]*models.Contribution, error)

	// AllHistories returns the full contribution history keyed by
	// group id.
	AllHistories(ctx context.Context) (map[string][]*models.Contribution, error)

	// RecordTransfer persists an executed payout for audit.
	RecordTransfer(ctx context.Context, t *models.Transfer) error

	// CreateAccount persists a new login account.
	CreateAccount(ctx context.Context, account *models.Account) error

	// GetAccount retrieves a login account by name, or nil.
	GetAccount(ctx context.Context, name string) (*models.Account, error)

	// Close releases any resources held by the store.
	Close() error
}
