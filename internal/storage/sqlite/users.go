package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/paysharehq/payshare/internal/apperrors"
	"github.com/paysharehq/payshare/internal/models"
)

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}
	if user.UpdatedAt == 0 {
		user.UpdatedAt = user.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, display_name, fcm_token, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.DisplayName, user.FCMToken, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID. Returns (nil, nil) when the user does
// not exist.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, display_name, fcm_token, created_at, updated_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(&user.ID, &user.DisplayName, &user.FCMToken, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// UpdateUserToken replaces the user's push-notification token.
func (s *SQLiteStore) UpdateUserToken(ctx context.Context, id, token string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET fcm_token = ?, updated_at = ? WHERE id = ?",
		token, time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update user token: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.Newf(apperrors.KindNotFound, "user not found: %s", id)
	}

	return nil
}
