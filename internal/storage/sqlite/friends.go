package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/paysharehq/payshare/internal/models"
)

// CreateFriend inserts a single directed friendship row.
// The idx_friends_pair unique index rejects a second row for the same
// unordered pair; callers are expected to have run FriendshipExists first
// so that duplicates surface as a clean conflict instead of a constraint
// violation.
func (s *SQLiteStore) CreateFriend(ctx context.Context, friend *models.Friend) error {
	if friend.Status == "" {
		friend.Status = models.FriendStatusAccepted
	}
	if friend.CreatedAt == 0 {
		friend.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO friends (requester_id, recipient_id, status, created_at)
		 VALUES (?, ?, ?, ?)`,
		friend.RequesterID, friend.RecipientID, string(friend.Status), friend.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create friend: %w", err)
	}

	return nil
}

// FriendshipExists reports whether a friendship row exists between the two
// users in either direction.
func (s *SQLiteStore) FriendshipExists(ctx context.Context, userA, userB string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM friends
		 WHERE (requester_id = ? AND recipient_id = ?)
		    OR (requester_id = ? AND recipient_id = ?)`,
		userA, userB, userB, userA,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}

	return count > 0, nil
}

// ListFriendsOf returns the other party of every accepted friendship the
// user appears in, in insertion order.
func (s *SQLiteStore) ListFriendsOf(ctx context.Context, userID string) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.display_name, u.fcm_token, u.created_at, u.updated_at
		 FROM friends f
		 JOIN users u ON u.id = CASE WHEN f.requester_id = ? THEN f.recipient_id ELSE f.requester_id END
		 WHERE (f.requester_id = ? OR f.recipient_id = ?) AND f.status = ?
		 ORDER BY f.created_at, f.rowid`,
		userID, userID, userID, string(models.FriendStatusAccepted),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var friends []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.DisplayName, &user.FCMToken, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}

	return friends, nil
}
