package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tandadapp/backend/internal/models"
)

// CreateAccount inserts a new login account into the database.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.CreatedAt == 0 {
		account.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO accounts (name, password_hash, created_at) VALUES (?, ?, ?)",
		account.Name, account.PasswordHash, account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetAccount retrieves a login account by name.
// Returns (nil, nil) when the account does not exist.
func (s *SQLiteStore) GetAccount(ctx context.Context, name string) (*models.Account, error) {
	account := &models.Account{}
	err := s.db.QueryRowContext(ctx,
		"SELECT name, password_hash, created_at FROM accounts WHERE name = ?",
		name,
	).Scan(&account.Name, &account.PasswordHash, &account.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil // Account not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}
