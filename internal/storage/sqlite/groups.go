package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tandadapp/backend/internal/models"
)

// CreateGroup persists a new group and its (initially empty) member set.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	// Generate ID and timestamp if not set
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, creator, name, member_capacity, contribution_amount,
		                     cycle_length_days, start_date, end_date, active, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Creator, group.Name, group.MemberCapacity, group.ContributionAmount,
		group.CycleLengthDays, group.StartDate, group.EndDate, boolToInt(group.Active),
		string(group.Status), group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for i, account := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, account, position) VALUES (?, ?, ?)",
			group.ID, account, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by id, including its member set.
// Returns (nil, nil) when the group does not exist.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	var active int
	var status string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, creator, name, member_capacity, contribution_amount, cycle_length_days,
		        start_date, end_date, active, status, created_at
		 FROM groups WHERE id = ?`,
		groupID,
	).Scan(&group.ID, &group.Creator, &group.Name, &group.MemberCapacity, &group.ContributionAmount,
		&group.CycleLengthDays, &group.StartDate, &group.EndDate, &active, &status, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil // Group not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	group.Active = active != 0
	group.Status = models.GroupStatus(status)

	members, err := s.groupMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	group.Members = members

	return group, nil
}

// UpdateGroup rewrites a group row and replaces its member set.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE groups
		 SET creator = ?, name = ?, member_capacity = ?, contribution_amount = ?,
		     cycle_length_days = ?, start_date = ?, end_date = ?, active = ?, status = ?
		 WHERE id = ?`,
		group.Creator, group.Name, group.MemberCapacity, group.ContributionAmount,
		group.CycleLengthDays, group.StartDate, group.EndDate, boolToInt(group.Active),
		string(group.Status), group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("group not found: %s", group.ID)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM group_members WHERE group_id = ?", group.ID); err != nil {
		return fmt.Errorf("failed to clear group members: %w", err)
	}
	for i, account := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, account, position) VALUES (?, ?, ?)",
			group.ID, account, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListGroups returns every group in creation order.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, creator, name, member_capacity, contribution_amount, cycle_length_days,
		        start_date, end_date, active, status, created_at
		 FROM groups ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		var active int
		var status string
		if err := rows.Scan(&group.ID, &group.Creator, &group.Name, &group.MemberCapacity,
			&group.ContributionAmount, &group.CycleLengthDays, &group.StartDate, &group.EndDate,
			&active, &status, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		group.Active = active != 0
		group.Status = models.GroupStatus(status)
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		members, err := s.groupMembers(ctx, group.ID)
		if err != nil {
			return nil, err
		}
		group.Members = members
	}

	return groups, nil
}

// groupMembers loads the member set of a group in join order.
func (s *SQLiteStore) groupMembers(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT account FROM group_members WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return members, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
