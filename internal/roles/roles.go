// Package roles merges a user's memberships and creatorships into one
// de-duplicated per-group role view.
package roles

import "github.com/paysharehq/payshare/internal/models"

// Merge combines payer records (groups where the user has a ledger entry)
// with creator records (groups the user created) into exactly one RoleRecord
// per group.
//
// Precedence is explicit: when a group appears in both inputs, the creator
// record wins. Output order is the payer input order, with creator-only
// groups appended in their input order; groups promoted from payer to
// creator keep their original position.
func Merge(asPayer, asCreator []models.RoleRecord) []models.RoleRecord {
	index := make(map[string]int, len(asPayer))
	merged := make([]models.RoleRecord, 0, len(asPayer)+len(asCreator))

	for _, r := range asPayer {
		if _, ok := index[r.GroupID]; ok {
			continue
		}
		index[r.GroupID] = len(merged)
		merged = append(merged, r)
	}

	for _, r := range asCreator {
		if i, ok := index[r.GroupID]; ok {
			merged[i] = r
			continue
		}
		index[r.GroupID] = len(merged)
		merged = append(merged, r)
	}

	return merged
}
