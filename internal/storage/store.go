// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/paysharehq/payshare/internal/models"
)

// Store defines the persistence operations for users, friendships, and
// group ledgers. The abstraction allows swapping storage backends (SQLite,
// PostgreSQL, etc.) without changing the service layer.
//
// Lookup methods return (nil, nil) when the record does not exist; the
// service layer turns that into a NotFound error. Mutations that require an
// existing record fail with a NotFound kind themselves. Multi-row mutations
// (CreateGroup, DeleteGroup, ReconcileGroup) are atomic: they either apply
// completely or leave the store untouched.
type Store interface {
	// CreateUser inserts a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID, or (nil, nil) if absent.
	GetUser(ctx context.Context, id string) (*models.User, error)

	// UpdateUserToken replaces the user's push-notification token.
	UpdateUserToken(ctx context.Context, id, token string) error

	// CreateFriend inserts a single directed friendship row.
	CreateFriend(ctx context.Context, friend *models.Friend) error

	// FriendshipExists reports whether a friendship row exists between the
	// two users in either direction.
	FriendshipExists(ctx context.Context, userA, userB string) (bool, error)

	// ListFriendsOf returns the other party of every accepted friendship
	// the user appears in, in insertion order.
	ListFriendsOf(ctx context.Context, userID string) ([]*models.User, error)

	// CreateGroup atomically inserts the group and one member row per
	// input. Member paid flags are forced false: a new group starts fully
	// unpaid. Fills in ID and timestamps when unset.
	CreateGroup(ctx context.Context, group *models.Group, members []models.MemberInput) error

	// GetGroupDetail retrieves a group with its members, each joined with
	// the member's display name, or (nil, nil) if the group is absent.
	GetGroupDetail(ctx context.Context, groupID string) (*models.Group, error)

	// DeleteGroup removes the group and cascades to all its member rows
	// in the same atomic operation.
	DeleteGroup(ctx context.Context, groupID string) error

	// SetPaymentStatus updates only the paid flag of one member row.
	SetPaymentStatus(ctx context.Context, groupID, userID string, paid bool) error

	// ReconcileGroup applies a membership reconciliation inside a single
	// transaction: optional rename, then the remove/add/update diff
	// between the group's current members and the proposal. A failure at
	// any step rolls back every step.
	ReconcileGroup(ctx context.Context, groupID, newName string, proposed []models.MemberInput) error

	// ListMemberships returns payer role records for every group the user
	// has a member row in.
	ListMemberships(ctx context.Context, userID string) ([]models.RoleRecord, error)

	// ListGroupsCreatedBy returns creator role records for every group the
	// user created.
	ListGroupsCreatedBy(ctx context.Context, userID string) ([]models.RoleRecord, error)

	// ListUnpaidMembers returns the users behind every unpaid member row
	// of the group.
	ListUnpaidMembers(ctx context.Context, groupID string) ([]*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
