package models

// FriendStatus is the lifecycle state of a friendship.
type FriendStatus string

const (
	// FriendStatusAccepted is the only state this model uses: adding a
	// friend is immediate acceptance, there is no pending/request phase.
	FriendStatusAccepted FriendStatus = "ACCEPTED"
)

// Friend is a single directed row representing an undirected friendship.
//
// For any unordered pair {A, B} at most one row exists, in either direction.
// The storage layer enforces this with a canonicalized unique index; the
// service layer additionally performs a symmetric existence check so the
// caller gets a clean conflict error instead of a constraint violation.
type Friend struct {
	// RequesterID is the user who initiated the friendship.
	RequesterID string

	// RecipientID is the other party. Never equal to RequesterID.
	RecipientID string

	// Status is always ACCEPTED in the current model.
	Status FriendStatus

	// CreatedAt is the Unix timestamp when the friendship was created.
	CreatedAt int64
}
