package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tandadapp/backend/internal/models"
)

// GetMember retrieves the membership index of an account.
// Returns (nil, nil) when the account has never interacted.
func (s *SQLiteStore) GetMember(ctx context.Context, account string) (*models.Member, error) {
	member := &models.Member{}
	var seq int64

	err := s.db.QueryRowContext(ctx,
		"SELECT account, created_at, seq FROM members WHERE account = ?",
		account,
	).Scan(&member.Account, &member.CreatedAt, &seq)
	if err == sql.ErrNoRows {
		return nil, nil // Member not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id, role FROM member_groups WHERE account = ? ORDER BY position",
		account,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get member groups: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var groupID, role string
		if err := rows.Scan(&groupID, &role); err != nil {
			return nil, fmt.Errorf("failed to scan member group: %w", err)
		}
		if role == "creator" {
			member.Created = append(member.Created, groupID)
		} else {
			member.Joined = append(member.Joined, groupID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate member groups: %w", err)
	}

	return member, nil
}

// PutMember upserts the membership index of an account.
func (s *SQLiteStore) PutMember(ctx context.Context, member *models.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// seq preserves first-seen order for ListMemberAccounts; reuse the
	// existing value on update.
	var seq int64
	err = tx.QueryRowContext(ctx, "SELECT seq FROM members WHERE account = ?", member.Account).Scan(&seq)
	if err == sql.ErrNoRows {
		if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) + 1 FROM members").Scan(&seq); err != nil {
			return fmt.Errorf("failed to allocate member sequence: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to check member existence: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO members (account, created_at, seq) VALUES (?, ?, ?)
		 ON CONFLICT(account) DO UPDATE SET created_at = excluded.created_at`,
		member.Account, member.CreatedAt, seq,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert member: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM member_groups WHERE account = ?", member.Account); err != nil {
		return fmt.Errorf("failed to clear member groups: %w", err)
	}

	pos := 0
	for _, groupID := range member.Created {
		if err := insertMemberGroup(ctx, tx, member.Account, groupID, "creator", pos); err != nil {
			return err
		}
		pos++
	}
	for _, groupID := range member.Joined {
		if err := insertMemberGroup(ctx, tx, member.Account, groupID, "member", pos); err != nil {
			return err
		}
		pos++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertMemberGroup(ctx context.Context, tx *sql.Tx, account, groupID, role string, pos int) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO member_groups (account, group_id, role, position) VALUES (?, ?, ?, ?)",
		account, groupID, role, pos,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member group: %w", err)
	}
	return nil
}

// ListMemberAccounts returns every account with a membership record,
// in first-seen order.
func (s *SQLiteStore) ListMemberAccounts(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT account FROM members ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to list member accounts: %w", err)
	}
	defer rows.Close()

	var accounts []string
	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return nil, fmt.Errorf("failed to scan member account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate member accounts: %w", err)
	}

	return accounts, nil
}
