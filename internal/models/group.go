package models

import "github.com/shopspring/decimal"

// Group represents a shared-expense group.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Hot Pot Friday").
	Name string

	// CreatorID is the user who created the group. Immutable after creation.
	CreatorID string

	// CreatorName is the creator's display name, joined on reads.
	CreatorName string

	// Members are the ledger entries for this group. Populated on detail
	// reads and after creation/reconciliation.
	Members []Member

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last name or member change.
	UpdatedAt int64
}

// Member is one user's ledger entry within a group.
// Its identity is the composite (GroupID, UserID) pair.
type Member struct {
	// GroupID is the owning group.
	GroupID string

	// UserID is the member.
	UserID string

	// DisplayName is the member's display name, joined on reads.
	DisplayName string

	// Amount is how much this member owes. Never negative.
	Amount decimal.Decimal

	// Paid reports whether this member has settled their amount.
	Paid bool
}

// MemberInput is one proposed ledger entry in a create or reconcile request.
//
// Paid is honored only on the update path of reconciliation; members being
// created (group creation or re-addition) always start unpaid regardless of
// the value supplied here.
type MemberInput struct {
	UserID string
	Amount decimal.Decimal
	Paid   bool
}

// Role is a user's relationship to a group.
type Role string

// RoleStatus qualifies a RoleRecord.
type RoleStatus string

const (
	RoleCreator Role = "creator"
	RolePayer   Role = "payer"

	RoleStatusCreator RoleStatus = "creator"
	RoleStatusPaid    RoleStatus = "paid"
	RoleStatusUnpaid  RoleStatus = "unpaid"
)

// RoleRecord is a derived view of one user's relationship to one group.
// It is computed per request from Group.CreatorID and Member.Paid and is
// never persisted. Exactly one record exists per (user, group) pair, with
// the creator role taking precedence when both apply.
type RoleRecord struct {
	GroupID   string
	GroupName string
	Role      Role
	Status    RoleStatus
}
