// Package reconcile computes membership diffs for group reconciliation.
//
// The diff itself is a pure function so it can be tested without any storage;
// the storage layer applies a computed diff inside a single transaction.
package reconcile

import (
	"github.com/paysharehq/payshare/internal/apperrors"
	"github.com/paysharehq/payshare/internal/models"
)

// Diff is the minimal set of changes turning a group's current member set
// into a proposed one.
type Diff struct {
	// Remove holds userIDs present now but absent from the proposal.
	// Removing a member discards its amount/paid history.
	Remove []string

	// Add holds proposed entries whose user is not currently a member.
	// Paid is always false here: a newly (re-)added member starts unpaid
	// regardless of what the caller supplied.
	Add []models.MemberInput

	// Update holds proposed entries whose user is already a member.
	// Amount and Paid are taken verbatim from the proposal; this is the
	// only path where a group editor can overwrite an existing member's
	// paid flag directly.
	Update []models.MemberInput
}

// Empty reports whether the diff changes nothing.
func (d Diff) Empty() bool {
	return len(d.Remove) == 0 && len(d.Add) == 0 && len(d.Update) == 0
}

// ComputeDiff computes the add/remove/update sets between the current members
// of a group and a proposed member list.
//
// Proposed entries with duplicate userIDs are rejected with InvalidRequest
// rather than resolved last-write-wins, so a buggy client cannot silently
// lose an entry. Negative amounts are rejected the same way.
func ComputeDiff(current []models.Member, proposed []models.MemberInput) (Diff, error) {
	proposedIDs := make(map[string]struct{}, len(proposed))
	for _, p := range proposed {
		if p.UserID == "" {
			return Diff{}, apperrors.New(apperrors.KindInvalidRequest, "member userID must not be empty")
		}
		if p.Amount.IsNegative() {
			return Diff{}, apperrors.Newf(apperrors.KindInvalidRequest, "member %s has negative amount", p.UserID)
		}
		if _, ok := proposedIDs[p.UserID]; ok {
			return Diff{}, apperrors.Newf(apperrors.KindInvalidRequest, "duplicate member %s in proposal", p.UserID)
		}
		proposedIDs[p.UserID] = struct{}{}
	}

	currentIDs := make(map[string]struct{}, len(current))
	var diff Diff
	for _, m := range current {
		currentIDs[m.UserID] = struct{}{}
		if _, ok := proposedIDs[m.UserID]; !ok {
			diff.Remove = append(diff.Remove, m.UserID)
		}
	}

	for _, p := range proposed {
		if _, ok := currentIDs[p.UserID]; ok {
			diff.Update = append(diff.Update, p)
		} else {
			p.Paid = false
			diff.Add = append(diff.Add, p)
		}
	}

	return diff, nil
}
