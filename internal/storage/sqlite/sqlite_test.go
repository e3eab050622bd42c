package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/paysharehq/payshare/internal/apperrors"
	"github.com/paysharehq/payshare/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "payshare-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func seedUser(t *testing.T, store *SQLiteStore, id, name, token string) {
	t.Helper()
	err := store.CreateUser(context.Background(), &models.User{ID: id, DisplayName: name, FCMToken: token})
	if err != nil {
		t.Fatalf("Failed to seed user %s: %v", id, err)
	}
}

func amount(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		seedUser(t, store, "u1", "Alice", "tok-1")

		user, err := store.GetUser(ctx, "u1")
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if user == nil {
			t.Fatal("expected user, got nil")
		}
		if user.DisplayName != "Alice" || user.FCMToken != "tok-1" {
			t.Errorf("unexpected user: %+v", user)
		}
		if user.CreatedAt == 0 || user.UpdatedAt == 0 {
			t.Error("expected timestamps to be set")
		}
	})

	t.Run("get missing returns nil", func(t *testing.T) {
		user, err := store.GetUser(ctx, "nobody")
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if user != nil {
			t.Errorf("expected nil, got %+v", user)
		}
	})

	t.Run("update token", func(t *testing.T) {
		seedUser(t, store, "u2", "Bob", "")

		if err := store.UpdateUserToken(ctx, "u2", "tok-new"); err != nil {
			t.Fatalf("UpdateUserToken failed: %v", err)
		}

		user, _ := store.GetUser(ctx, "u2")
		if user.FCMToken != "tok-new" {
			t.Errorf("token: got %q, want %q", user.FCMToken, "tok-new")
		}
	})

	t.Run("update token of missing user is NotFound", func(t *testing.T) {
		err := store.UpdateUserToken(ctx, "nobody", "tok")
		if !apperrors.IsKind(err, apperrors.KindNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

func TestFriends(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, "u1", "Alice", "")
	seedUser(t, store, "u2", "Bob", "")
	seedUser(t, store, "u3", "Charlie", "")

	t.Run("create and symmetric existence", func(t *testing.T) {
		err := store.CreateFriend(ctx, &models.Friend{RequesterID: "u1", RecipientID: "u2"})
		if err != nil {
			t.Fatalf("CreateFriend failed: %v", err)
		}

		for _, pair := range [][2]string{{"u1", "u2"}, {"u2", "u1"}} {
			exists, err := store.FriendshipExists(ctx, pair[0], pair[1])
			if err != nil {
				t.Fatalf("FriendshipExists failed: %v", err)
			}
			if !exists {
				t.Errorf("expected friendship to exist for %v", pair)
			}
		}

		exists, err := store.FriendshipExists(ctx, "u1", "u3")
		if err != nil {
			t.Fatalf("FriendshipExists failed: %v", err)
		}
		if exists {
			t.Error("expected no friendship between u1 and u3")
		}
	})

	t.Run("canonical index rejects reversed duplicate", func(t *testing.T) {
		err := store.CreateFriend(ctx, &models.Friend{RequesterID: "u2", RecipientID: "u1"})
		if err == nil {
			t.Fatal("expected unique constraint violation for reversed pair")
		}
	})

	t.Run("list returns other party from both directions", func(t *testing.T) {
		if err := store.CreateFriend(ctx, &models.Friend{RequesterID: "u3", RecipientID: "u1"}); err != nil {
			t.Fatalf("CreateFriend failed: %v", err)
		}

		friends, err := store.ListFriendsOf(ctx, "u1")
		if err != nil {
			t.Fatalf("ListFriendsOf failed: %v", err)
		}
		if len(friends) != 2 {
			t.Fatalf("expected 2 friends, got %d", len(friends))
		}

		ids := map[string]bool{friends[0].ID: true, friends[1].ID: true}
		if !ids["u2"] || !ids["u3"] {
			t.Errorf("expected u2 and u3, got %v", ids)
		}
	})

	t.Run("no friends is empty not error", func(t *testing.T) {
		seedUser(t, store, "loner", "Dan", "")
		friends, err := store.ListFriendsOf(ctx, "loner")
		if err != nil {
			t.Fatalf("ListFriendsOf failed: %v", err)
		}
		if len(friends) != 0 {
			t.Errorf("expected no friends, got %d", len(friends))
		}
	})
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, "u1", "Alice", "tok-1")
	seedUser(t, store, "u2", "Bob", "")
	seedUser(t, store, "u3", "Charlie", "tok-3")

	t.Run("create forces members unpaid and generates id", func(t *testing.T) {
		group := &models.Group{Name: "Trip", CreatorID: "u1"}
		members := []models.MemberInput{
			{UserID: "u2", Amount: amount(100), Paid: true},
			{UserID: "u3", Amount: amount(50), Paid: true},
		}

		if err := store.CreateGroup(ctx, group, members); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" {
			t.Error("expected group ID to be generated")
		}

		detail, err := store.GetGroupDetail(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroupDetail failed: %v", err)
		}
		if detail == nil {
			t.Fatal("expected group detail")
		}
		if detail.CreatorName != "Alice" {
			t.Errorf("creator name: got %q, want Alice", detail.CreatorName)
		}
		if len(detail.Members) != 2 {
			t.Fatalf("expected 2 members, got %d", len(detail.Members))
		}
		for _, m := range detail.Members {
			if m.Paid {
				t.Errorf("member %s must start unpaid", m.UserID)
			}
			if m.DisplayName == "" {
				t.Errorf("member %s missing display name", m.UserID)
			}
		}
	})

	t.Run("get missing group returns nil", func(t *testing.T) {
		detail, err := store.GetGroupDetail(ctx, "nonexistent")
		if err != nil {
			t.Fatalf("GetGroupDetail failed: %v", err)
		}
		if detail != nil {
			t.Errorf("expected nil, got %+v", detail)
		}
	})

	t.Run("set payment status updates only the flag", func(t *testing.T) {
		group := &models.Group{Name: "Dinner", CreatorID: "u1"}
		if err := store.CreateGroup(ctx, group, []models.MemberInput{{UserID: "u2", Amount: amount(80)}}); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		if err := store.SetPaymentStatus(ctx, group.ID, "u2", true); err != nil {
			t.Fatalf("SetPaymentStatus failed: %v", err)
		}

		detail, _ := store.GetGroupDetail(ctx, group.ID)
		if !detail.Members[0].Paid {
			t.Error("expected member to be paid")
		}
		if !detail.Members[0].Amount.Equal(amount(80)) {
			t.Errorf("amount changed: got %s", detail.Members[0].Amount)
		}

		err := store.SetPaymentStatus(ctx, group.ID, "u3", true)
		if !apperrors.IsKind(err, apperrors.KindNotFound) {
			t.Errorf("expected NotFound for non-member, got %v", err)
		}
	})

	t.Run("delete cascades to members", func(t *testing.T) {
		group := &models.Group{Name: "Doomed", CreatorID: "u1"}
		if err := store.CreateGroup(ctx, group, []models.MemberInput{{UserID: "u2", Amount: amount(10)}}); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}

		detail, err := store.GetGroupDetail(ctx, group.ID)
		if err != nil || detail != nil {
			t.Errorf("expected group gone, got %+v err %v", detail, err)
		}

		memberships, err := store.ListMemberships(ctx, "u2")
		if err != nil {
			t.Fatalf("ListMemberships failed: %v", err)
		}
		for _, r := range memberships {
			if r.GroupID == group.ID {
				t.Error("member row outlived its group")
			}
		}

		err = store.DeleteGroup(ctx, group.ID)
		if !apperrors.IsKind(err, apperrors.KindNotFound) {
			t.Errorf("expected NotFound on second delete, got %v", err)
		}
	})

	t.Run("unpaid members", func(t *testing.T) {
		group := &models.Group{Name: "Karaoke", CreatorID: "u1"}
		members := []models.MemberInput{
			{UserID: "u2", Amount: amount(30)},
			{UserID: "u3", Amount: amount(30)},
		}
		if err := store.CreateGroup(ctx, group, members); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if err := store.SetPaymentStatus(ctx, group.ID, "u2", true); err != nil {
			t.Fatalf("SetPaymentStatus failed: %v", err)
		}

		unpaid, err := store.ListUnpaidMembers(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListUnpaidMembers failed: %v", err)
		}
		if len(unpaid) != 1 || unpaid[0].ID != "u3" {
			t.Errorf("expected only u3 unpaid, got %+v", unpaid)
		}
	})
}

func TestReconcileGroup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, "u1", "Alice", "")
	seedUser(t, store, "u2", "Bob", "")
	seedUser(t, store, "u3", "Charlie", "")

	newGroup := func(t *testing.T, members ...models.MemberInput) *models.Group {
		t.Helper()
		group := &models.Group{Name: "Ledger", CreatorID: "u1"}
		if err := store.CreateGroup(ctx, group, members); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		return group
	}

	memberByID := func(g *models.Group, userID string) *models.Member {
		for i := range g.Members {
			if g.Members[i].UserID == userID {
				return &g.Members[i]
			}
		}
		return nil
	}

	t.Run("add remove update in one call", func(t *testing.T) {
		group := newGroup(t,
			models.MemberInput{UserID: "u2", Amount: amount(100)},
		)
		if err := store.SetPaymentStatus(ctx, group.ID, "u2", true); err != nil {
			t.Fatalf("SetPaymentStatus failed: %v", err)
		}

		proposed := []models.MemberInput{
			{UserID: "u2", Amount: amount(60), Paid: true},
			{UserID: "u3", Amount: amount(40), Paid: true},
		}
		if err := store.ReconcileGroup(ctx, group.ID, "Ledger v2", proposed); err != nil {
			t.Fatalf("ReconcileGroup failed: %v", err)
		}

		detail, _ := store.GetGroupDetail(ctx, group.ID)
		if detail.Name != "Ledger v2" {
			t.Errorf("name: got %q, want %q", detail.Name, "Ledger v2")
		}
		if len(detail.Members) != 2 {
			t.Fatalf("expected 2 members, got %d", len(detail.Members))
		}

		u2 := memberByID(detail, "u2")
		if u2 == nil || !u2.Amount.Equal(amount(60)) || !u2.Paid {
			t.Errorf("u2 update wrong: %+v", u2)
		}
		u3 := memberByID(detail, "u3")
		if u3 == nil || !u3.Amount.Equal(amount(40)) {
			t.Fatalf("u3 addition wrong: %+v", u3)
		}
		if u3.Paid {
			t.Error("re-added member must start unpaid despite proposed paid flag")
		}
	})

	t.Run("empty proposal empties group without deleting it", func(t *testing.T) {
		group := newGroup(t,
			models.MemberInput{UserID: "u2", Amount: amount(10)},
			models.MemberInput{UserID: "u3", Amount: amount(10)},
		)

		if err := store.ReconcileGroup(ctx, group.ID, "Renamed", nil); err != nil {
			t.Fatalf("ReconcileGroup failed: %v", err)
		}

		detail, _ := store.GetGroupDetail(ctx, group.ID)
		if detail == nil {
			t.Fatal("group must survive an emptying reconcile")
		}
		if detail.Name != "Renamed" {
			t.Errorf("name: got %q, want Renamed", detail.Name)
		}
		if len(detail.Members) != 0 {
			t.Errorf("expected empty member set, got %d", len(detail.Members))
		}
	})

	t.Run("idempotent when reapplied", func(t *testing.T) {
		group := newGroup(t, models.MemberInput{UserID: "u2", Amount: amount(55)})

		proposed := []models.MemberInput{{UserID: "u2", Amount: amount(55), Paid: false}}
		if err := store.ReconcileGroup(ctx, group.ID, "", proposed); err != nil {
			t.Fatalf("first reconcile failed: %v", err)
		}
		first, _ := store.GetGroupDetail(ctx, group.ID)

		// Feed the resulting state back in as the proposal.
		again := make([]models.MemberInput, len(first.Members))
		for i, m := range first.Members {
			again[i] = models.MemberInput{UserID: m.UserID, Amount: m.Amount, Paid: m.Paid}
		}
		if err := store.ReconcileGroup(ctx, group.ID, "", again); err != nil {
			t.Fatalf("second reconcile failed: %v", err)
		}

		second, _ := store.GetGroupDetail(ctx, group.ID)
		if len(second.Members) != len(first.Members) {
			t.Fatalf("member count changed: %d -> %d", len(first.Members), len(second.Members))
		}
		for i := range first.Members {
			if !second.Members[i].Amount.Equal(first.Members[i].Amount) ||
				second.Members[i].Paid != first.Members[i].Paid {
				t.Errorf("member %s changed: %+v -> %+v",
					first.Members[i].UserID, first.Members[i], second.Members[i])
			}
		}
	})

	t.Run("failure mid-apply leaves state untouched", func(t *testing.T) {
		group := newGroup(t, models.MemberInput{UserID: "u2", Amount: amount(100)})
		before, _ := store.GetGroupDetail(ctx, group.ID)

		// "ghost" violates the members foreign key, aborting the
		// transaction after the removal of u2 already executed.
		proposed := []models.MemberInput{{UserID: "ghost", Amount: amount(40)}}
		if err := store.ReconcileGroup(ctx, group.ID, "Broken", proposed); err == nil {
			t.Fatal("expected reconcile to fail on unknown member")
		}

		after, _ := store.GetGroupDetail(ctx, group.ID)
		if after.Name != before.Name {
			t.Errorf("name leaked from aborted transaction: %q", after.Name)
		}
		if len(after.Members) != 1 || after.Members[0].UserID != "u2" {
			t.Fatalf("member set changed by aborted reconcile: %+v", after.Members)
		}
		if !after.Members[0].Amount.Equal(amount(100)) {
			t.Errorf("amount changed by aborted reconcile: %s", after.Members[0].Amount)
		}
	})

	t.Run("missing group is NotFound", func(t *testing.T) {
		err := store.ReconcileGroup(ctx, "nonexistent", "", nil)
		if !apperrors.IsKind(err, apperrors.KindNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})

	t.Run("duplicate proposal is InvalidRequest", func(t *testing.T) {
		group := newGroup(t, models.MemberInput{UserID: "u2", Amount: amount(10)})

		proposed := []models.MemberInput{
			{UserID: "u2", Amount: amount(10)},
			{UserID: "u2", Amount: amount(20)},
		}
		err := store.ReconcileGroup(ctx, group.ID, "", proposed)
		if !apperrors.IsKind(err, apperrors.KindInvalidRequest) {
			t.Errorf("expected InvalidRequest, got %v", err)
		}
	})
}

func TestRoleListings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, "u1", "Alice", "")
	seedUser(t, store, "u2", "Bob", "")

	group := &models.Group{Name: "Picnic", CreatorID: "u1"}
	if err := store.CreateGroup(ctx, group, []models.MemberInput{{UserID: "u2", Amount: amount(20)}}); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	created, err := store.ListGroupsCreatedBy(ctx, "u1")
	if err != nil {
		t.Fatalf("ListGroupsCreatedBy failed: %v", err)
	}
	if len(created) != 1 || created[0].Role != models.RoleCreator || created[0].Status != models.RoleStatusCreator {
		t.Errorf("unexpected creator records: %+v", created)
	}

	memberships, err := store.ListMemberships(ctx, "u2")
	if err != nil {
		t.Fatalf("ListMemberships failed: %v", err)
	}
	if len(memberships) != 1 || memberships[0].Role != models.RolePayer || memberships[0].Status != models.RoleStatusUnpaid {
		t.Errorf("unexpected payer records: %+v", memberships)
	}

	if err := store.SetPaymentStatus(ctx, group.ID, "u2", true); err != nil {
		t.Fatalf("SetPaymentStatus failed: %v", err)
	}
	memberships, _ = store.ListMemberships(ctx, "u2")
	if memberships[0].Status != models.RoleStatusPaid {
		t.Errorf("expected paid status, got %s", memberships[0].Status)
	}
}
