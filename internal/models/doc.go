// Package models defines the core domain models for PayShare.
//
// # Entities
//
//   - User: a registered identity with an optional push-notification token
//   - Friend: a directed row representing an undirected, accepted friendship
//   - Group: a shared-expense group owned by its creator
//   - Member: one user's ledger entry inside a group (amount owed + paid flag)
//
// # Derived views
//
//   - RoleRecord: a user's relationship to one group (creator or payer),
//     computed per request and never persisted
//
// # Design notes
//
// Relationships use ID strings instead of struct pointers to avoid circular
// references. Members are exclusively owned by their Group: a Member row never
// outlives its parent Group (the storage layer cascades deletes). Amounts use
// decimal.Decimal so the ledger never accumulates float drift.
package models
