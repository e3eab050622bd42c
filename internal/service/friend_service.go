package service

import (
	"context"
	"log/slog"

	"github.com/paysharehq/payshare/internal/apperrors"
	"github.com/paysharehq/payshare/internal/models"
	"github.com/paysharehq/payshare/internal/storage"
)

// FriendService manages the symmetric friendship graph.
type FriendService struct {
	store storage.Store
}

// NewFriendService creates a new FriendService.
func NewFriendService(store storage.Store) *FriendService {
	return &FriendService{store: store}
}

// AddFriend creates an accepted friendship between two existing users.
// The edge is stored once, in the requester-to-recipient direction; the
// symmetric existence check keeps the unordered pair unique.
func (s *FriendService) AddFriend(ctx context.Context, userID, friendID string) (*models.Friend, error) {
	slog.Info("AddFriend request received", "user_id", userID, "friend_id", friendID)

	if userID == "" || friendID == "" {
		return nil, apperrors.New(apperrors.KindInvalidRequest, "userID and friendID are required")
	}
	if userID == friendID {
		return nil, apperrors.New(apperrors.KindInvalidRequest, "cannot add yourself as friend")
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up user", err)
	}
	friendUser, err := s.store.GetUser(ctx, friendID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up user", err)
	}
	if user == nil || friendUser == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "one or both users not found")
	}

	exists, err := s.store.FriendshipExists(ctx, userID, friendID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to check friendship", err)
	}
	if exists {
		return nil, apperrors.New(apperrors.KindConflict, "already friends or pending")
	}

	friend := &models.Friend{
		RequesterID: userID,
		RecipientID: friendID,
		Status:      models.FriendStatusAccepted,
	}
	if err := s.store.CreateFriend(ctx, friend); err != nil {
		slog.Error("AddFriend failed", "user_id", userID, "friend_id", friendID, "error", err)
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to create friendship", err)
	}

	slog.Info("Friendship created", "user_id", userID, "friend_id", friendID)
	return friend, nil
}

// ListFriends returns the other party of every friendship the user appears
// in. A user with no friends gets an empty list, not an error.
func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]*models.User, error) {
	slog.Info("ListFriends request received", "user_id", userID)

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up user", err)
	}
	if user == nil {
		return nil, apperrors.Newf(apperrors.KindNotFound, "user not found: %s", userID)
	}

	friends, err := s.store.ListFriendsOf(ctx, userID)
	if err != nil {
		slog.Error("ListFriends failed", "user_id", userID, "error", err)
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list friends", err)
	}
	if friends == nil {
		friends = []*models.User{}
	}

	slog.Info("ListFriends successful", "user_id", userID, "count", len(friends))
	return friends, nil
}
