package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paysharehq/payshare/internal/apperrors"
	"github.com/paysharehq/payshare/internal/models"
	"github.com/paysharehq/payshare/internal/reconcile"
)

// CreateGroup atomically inserts the group row and one member row per input.
// Member paid flags are forced false regardless of the input: a new group
// starts fully unpaid.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group, members []models.MemberInput) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	if group.UpdatedAt == 0 {
		group.UpdatedAt = group.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, creator_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.CreatorID, group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for _, m := range members {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO group_members (group_id, user_id, amount, paid)
			 VALUES (?, ?, ?, 0)`,
			group.ID, m.UserID, m.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert member %s: %w", m.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroupDetail retrieves a group with its members joined with display
// names. Returns (nil, nil) when the group does not exist.
func (s *SQLiteStore) GetGroupDetail(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		`SELECT g.id, g.name, g.creator_id, u.display_name, g.created_at, g.updated_at
		 FROM groups g
		 JOIN users u ON u.id = g.creator_id
		 WHERE g.id = ?`,
		groupID,
	).Scan(&group.ID, &group.Name, &group.CreatorID, &group.CreatorName, &group.CreatedAt, &group.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	group.Members, err = s.listMembers(ctx, s.db, groupID)
	if err != nil {
		return nil, err
	}

	return group, nil
}

// querier abstracts *sql.DB and *sql.Tx so member reads can run either
// standalone or inside a reconciliation transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *SQLiteStore) listMembers(ctx context.Context, q querier, groupID string) ([]models.Member, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT m.group_id, m.user_id, u.display_name, m.amount, m.paid
		 FROM group_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.group_id = ?
		 ORDER BY m.rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		var amount string
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.DisplayName, &amount, &m.Paid); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse member amount %q: %w", amount, err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// DeleteGroup removes the group. The ON DELETE CASCADE constraint removes
// its member rows in the same atomic statement, so no member row can
// outlive its group.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.Newf(apperrors.KindNotFound, "group not found: %s", groupID)
	}

	return nil
}

// SetPaymentStatus updates only the paid flag of one member row; the amount
// is untouched.
func (s *SQLiteStore) SetPaymentStatus(ctx context.Context, groupID, userID string, paid bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE group_members SET paid = ? WHERE group_id = ? AND user_id = ?",
		paid, groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.Newf(apperrors.KindNotFound, "member %s not found in group %s", userID, groupID)
	}

	return nil
}

// ReconcileGroup applies a membership reconciliation inside one transaction:
// optional rename, then the remove/add/update diff between the group's
// current members and the proposal. Any failure rolls back every step, so a
// mid-sequence error leaves the ledger exactly as it was.
func (s *SQLiteStore) ReconcileGroup(ctx context.Context, groupID, newName string, proposed []models.MemberInput) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&exists)
	if err == sql.ErrNoRows {
		return apperrors.Newf(apperrors.KindNotFound, "group not found: %s", groupID)
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}

	if newName != "" {
		if _, err := tx.ExecContext(ctx,
			"UPDATE groups SET name = ? WHERE id = ?", newName, groupID,
		); err != nil {
			return fmt.Errorf("failed to rename group: %w", err)
		}
	}

	current, err := s.listMembers(ctx, tx, groupID)
	if err != nil {
		return err
	}

	diff, err := reconcile.ComputeDiff(current, proposed)
	if err != nil {
		return err
	}

	for _, userID := range diff.Remove {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM group_members WHERE group_id = ? AND user_id = ?",
			groupID, userID,
		); err != nil {
			return fmt.Errorf("failed to remove member %s: %w", userID, err)
		}
	}

	for _, m := range diff.Add {
		// Paid is already forced false by ComputeDiff.
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, user_id, amount, paid) VALUES (?, ?, ?, ?)",
			groupID, m.UserID, m.Amount.String(), m.Paid,
		); err != nil {
			return fmt.Errorf("failed to add member %s: %w", m.UserID, err)
		}
	}

	for _, m := range diff.Update {
		if _, err := tx.ExecContext(ctx,
			"UPDATE group_members SET amount = ?, paid = ? WHERE group_id = ? AND user_id = ?",
			m.Amount.String(), m.Paid, groupID, m.UserID,
		); err != nil {
			return fmt.Errorf("failed to update member %s: %w", m.UserID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE groups SET updated_at = ? WHERE id = ?", time.Now().Unix(), groupID,
	); err != nil {
		return fmt.Errorf("failed to touch group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListMemberships returns payer role records for every group the user has a
// member row in, in insertion order.
func (s *SQLiteStore) ListMemberships(ctx context.Context, userID string) ([]models.RoleRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, m.paid
		 FROM group_members m
		 JOIN groups g ON g.id = m.group_id
		 WHERE m.user_id = ?
		 ORDER BY m.rowid`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var records []models.RoleRecord
	for rows.Next() {
		var r models.RoleRecord
		var paid bool
		if err := rows.Scan(&r.GroupID, &r.GroupName, &paid); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		r.Role = models.RolePayer
		if paid {
			r.Status = models.RoleStatusPaid
		} else {
			r.Status = models.RoleStatusUnpaid
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}

	return records, nil
}

// ListGroupsCreatedBy returns creator role records for every group the user
// created.
func (s *SQLiteStore) ListGroupsCreatedBy(ctx context.Context, userID string) ([]models.RoleRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM groups WHERE creator_id = ? ORDER BY created_at, rowid`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list created groups: %w", err)
	}
	defer rows.Close()

	var records []models.RoleRecord
	for rows.Next() {
		r := models.RoleRecord{Role: models.RoleCreator, Status: models.RoleStatusCreator}
		if err := rows.Scan(&r.GroupID, &r.GroupName); err != nil {
			return nil, fmt.Errorf("failed to scan created group: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate created groups: %w", err)
	}

	return records, nil
}

// ListUnpaidMembers returns the users behind every unpaid member row of the
// group.
func (s *SQLiteStore) ListUnpaidMembers(ctx context.Context, groupID string) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.display_name, u.fcm_token, u.created_at, u.updated_at
		 FROM group_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.group_id = ? AND m.paid = 0
		 ORDER BY m.rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid members: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.DisplayName, &user.FCMToken, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unpaid member: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate unpaid members: %w", err)
	}

	return users, nil
}
