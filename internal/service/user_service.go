// Package service implements the application operations on top of the
// storage and notification boundaries.
package service

import (
	"context"
	"log/slog"

	"github.com/paysharehq/payshare/internal/apperrors"
	"github.com/paysharehq/payshare/internal/auth"
	"github.com/paysharehq/payshare/internal/models"
	"github.com/paysharehq/payshare/internal/storage"
)

// UserService handles registration and login.
type UserService struct {
	store storage.Store
	jwt   *auth.JWTManager
}

// NewUserService creates a new UserService.
func NewUserService(store storage.Store, jwt *auth.JWTManager) *UserService {
	return &UserService{store: store, jwt: jwt}
}

// Register creates a new user with an externally assigned ID.
func (s *UserService) Register(ctx context.Context, id, displayName string) (*models.User, error) {
	slog.Info("Register request received", "user_id", id)

	if id == "" || displayName == "" {
		return nil, apperrors.New(apperrors.KindInvalidRequest, "userID and displayName are required")
	}

	existing, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up user", err)
	}
	if existing != nil {
		return nil, apperrors.Newf(apperrors.KindConflict, "userID already exists: %s", id)
	}

	user := &models.User{ID: id, DisplayName: displayName}
	if err := s.store.CreateUser(ctx, user); err != nil {
		slog.Error("Register failed", "user_id", id, "error", err)
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to create user", err)
	}

	slog.Info("User registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the (id, displayName) pair, stores the device's push token,
// and returns the user together with a signed session token.
func (s *UserService) Login(ctx context.Context, id, displayName, fcmToken string) (*models.User, string, error) {
	slog.Info("Login request received", "user_id", id)

	if id == "" || displayName == "" {
		return nil, "", apperrors.New(apperrors.KindInvalidRequest, "userID and displayName are required")
	}

	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.KindInternal, "failed to look up user", err)
	}
	if user == nil || user.DisplayName != displayName {
		return nil, "", apperrors.New(apperrors.KindInvalidRequest, "invalid userID or displayName")
	}

	if err := s.store.UpdateUserToken(ctx, id, fcmToken); err != nil {
		slog.Error("Login token update failed", "user_id", id, "error", err)
		return nil, "", err
	}
	user.FCMToken = fcmToken

	token, err := s.jwt.Generate(user)
	if err != nil {
		slog.Error("Login token generation failed", "user_id", id, "error", err)
		return nil, "", apperrors.Wrap(apperrors.KindInternal, "failed to generate token", err)
	}

	slog.Info("User logged in", "user_id", user.ID)
	return user, token, nil
}
