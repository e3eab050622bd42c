package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/paysharehq/payshare/internal/apperrors"
	"github.com/paysharehq/payshare/internal/models"
	"github.com/paysharehq/payshare/internal/notify"
	"github.com/paysharehq/payshare/internal/reconcile"
	"github.com/paysharehq/payshare/internal/roles"
	"github.com/paysharehq/payshare/internal/storage"
)

// GroupService owns the group ledger: creation, reads, deletion, payment
// status, membership reconciliation, the per-user role view, and the
// notification call sites.
type GroupService struct {
	store      storage.Store
	dispatcher notify.Dispatcher
}

// NewGroupService creates a new GroupService with the given storage backend
// and notification dispatcher.
func NewGroupService(store storage.Store, dispatcher notify.Dispatcher) *GroupService {
	return &GroupService{store: store, dispatcher: dispatcher}
}

// CreateGroup creates a group with its initial members. Every member starts
// unpaid regardless of the input's paid flags.
func (s *GroupService) CreateGroup(ctx context.Context, name, creatorID string, members []models.MemberInput) (*models.Group, error) {
	slog.Info("CreateGroup request received", "name", name, "creator_id", creatorID, "members_count", len(members))

	if name == "" {
		return nil, apperrors.New(apperrors.KindInvalidRequest, "group name is required")
	}

	creator, err := s.store.GetUser(ctx, creatorID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up creator", err)
	}
	if creator == nil {
		return nil, apperrors.Newf(apperrors.KindNotFound, "creator not found: %s", creatorID)
	}

	// Initial members obey the same rules as a reconciliation proposal
	// against an empty group: no duplicates, no negative amounts.
	if _, err := reconcile.ComputeDiff(nil, members); err != nil {
		return nil, err
	}

	group := &models.Group{Name: name, CreatorID: creatorID}
	if err := s.store.CreateGroup(ctx, group, members); err != nil {
		slog.Error("CreateGroup failed", "name", name, "error", err)
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to create group", err)
	}

	created, err := s.store.GetGroupDetail(ctx, group.ID)
	if err != nil || created == nil {
		slog.Error("CreateGroup re-read failed", "group_id", group.ID, "error", err)
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to load created group", err)
	}

	slog.Info("Group created", "group_id", created.ID, "members_count", len(created.Members))
	return created, nil
}

// GetGroupDetail retrieves a group with its members joined with display
// names.
func (s *GroupService) GetGroupDetail(ctx context.Context, groupID string) (*models.Group, error) {
	slog.Info("GetGroupDetail request received", "group_id", groupID)

	group, err := s.store.GetGroupDetail(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupDetail failed", "group_id", groupID, "error", err)
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to get group", err)
	}
	if group == nil {
		return nil, apperrors.Newf(apperrors.KindNotFound, "group not found: %s", groupID)
	}

	return group, nil
}

// DeleteGroup removes a group and all its member rows.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID string) error {
	slog.Info("DeleteGroup request received", "group_id", groupID)

	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", groupID, "error", err)
		return err
	}

	slog.Info("Group deleted", "group_id", groupID)
	return nil
}

// Reconcile applies a membership change as one atomic operation: optional
// rename plus the minimal remove/add/update diff between the group's current
// members and the proposal. An empty proposal empties the group without
// deleting it. The returned group is re-read after commit so the caller sees
// ground truth rather than an assembled in-memory guess.
func (s *GroupService) Reconcile(ctx context.Context, groupID, newName string, proposed []models.MemberInput) (*models.Group, error) {
	slog.Info("Reconcile request received", "group_id", groupID, "new_name", newName, "members_count", len(proposed))

	if groupID == "" {
		return nil, apperrors.New(apperrors.KindInvalidRequest, "groupID is required")
	}

	if err := s.store.ReconcileGroup(ctx, groupID, newName, proposed); err != nil {
		slog.Error("Reconcile failed", "group_id", groupID, "error", err)
		switch apperrors.KindOf(err) {
		case apperrors.KindNotFound, apperrors.KindInvalidRequest:
			return nil, err
		default:
			return nil, apperrors.Wrap(apperrors.KindReconciliationFailed, "reconciliation could not commit", err)
		}
	}

	group, err := s.store.GetGroupDetail(ctx, groupID)
	if err != nil || group == nil {
		slog.Error("Reconcile re-read failed", "group_id", groupID, "error", err)
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to load reconciled group", err)
	}

	slog.Info("Group reconciled", "group_id", groupID, "members_count", len(group.Members))
	return group, nil
}

// SetPaymentStatus updates one member's paid flag and best-effort notifies
// that member. It exists separately from Reconcile because it is triggered
// by the payer, not the group editor, and must not require recomputing the
// membership diff.
func (s *GroupService) SetPaymentStatus(ctx context.Context, groupID, userID string, paid bool) error {
	slog.Info("SetPaymentStatus request received", "group_id", groupID, "user_id", userID, "paid", paid)

	group, err := s.store.GetGroupDetail(ctx, groupID)
	if err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "failed to get group", err)
	}
	if group == nil {
		return apperrors.Newf(apperrors.KindNotFound, "group not found: %s", groupID)
	}

	if err := s.store.SetPaymentStatus(ctx, groupID, userID, paid); err != nil {
		slog.Error("SetPaymentStatus failed", "group_id", groupID, "user_id", userID, "error", err)
		return err
	}

	s.notifyPaymentStatus(ctx, group, userID, paid)

	slog.Info("Payment status updated", "group_id", groupID, "user_id", userID, "paid", paid)
	return nil
}

// notifyPaymentStatus tells the member their status changed. Delivery is
// best-effort: a missing token or a failed send never fails the update.
func (s *GroupService) notifyPaymentStatus(ctx context.Context, group *models.Group, userID string, paid bool) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		slog.Warn("Payment status notification skipped", "user_id", userID, "error", err)
		return
	}
	if user == nil || user.FCMToken == "" {
		return
	}

	status := "unpaid"
	if paid {
		status = "paid"
	}
	notify.SendAll(ctx, s.dispatcher, []notify.Message{{
		Token: user.FCMToken,
		Title: "Payment status updated",
		Body:  fmt.Sprintf("Your payment status in %s is now %s", group.Name, status),
		Data:  map[string]string{"groupID": group.ID, "type": "payment_status_updated"},
	}})
}

// NotifyUnpaidMembers sends a payment reminder to every unpaid member that
// has a notification token. It returns the number of delivered reminders;
// per-recipient failures are logged by the dispatch layer and do not fail
// the call.
func (s *GroupService) NotifyUnpaidMembers(ctx context.Context, groupID string) (int, error) {
	slog.Info("NotifyUnpaidMembers request received", "group_id", groupID)

	group, err := s.store.GetGroupDetail(ctx, groupID)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.KindInternal, "failed to get group", err)
	}
	if group == nil {
		return 0, apperrors.Newf(apperrors.KindNotFound, "group not found: %s", groupID)
	}

	unpaid, err := s.store.ListUnpaidMembers(ctx, groupID)
	if err != nil {
		slog.Error("NotifyUnpaidMembers failed", "group_id", groupID, "error", err)
		return 0, apperrors.Wrap(apperrors.KindInternal, "failed to list unpaid members", err)
	}

	var msgs []notify.Message
	for _, user := range unpaid {
		// No token means no reachable device; skip silently.
		if user.FCMToken == "" {
			continue
		}
		msgs = append(msgs, notify.Message{
			Token: user.FCMToken,
			Title: "Payment reminder",
			Body:  fmt.Sprintf("Please remember to pay your share of %s", group.Name),
			Data:  map[string]string{"groupID": group.ID, "type": "payment_reminder"},
		})
	}

	delivered := notify.SendAll(ctx, s.dispatcher, msgs)
	slog.Info("NotifyUnpaidMembers successful", "group_id", groupID, "eligible", len(msgs), "delivered", delivered)
	return delivered, nil
}

// RolesFor computes the de-duplicated per-group role view for one user:
// payer records from memberships, creator records from created groups, with
// creator taking precedence when both apply to the same group.
func (s *GroupService) RolesFor(ctx context.Context, userID string) ([]models.RoleRecord, error) {
	slog.Info("RolesFor request received", "user_id", userID)

	asPayer, err := s.store.ListMemberships(ctx, userID)
	if err != nil {
		slog.Error("RolesFor failed", "user_id", userID, "error", err)
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list memberships", err)
	}

	asCreator, err := s.store.ListGroupsCreatedBy(ctx, userID)
	if err != nil {
		slog.Error("RolesFor failed", "user_id", userID, "error", err)
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list created groups", err)
	}

	merged := roles.Merge(asPayer, asCreator)
	slog.Info("RolesFor successful", "user_id", userID, "count", len(merged))
	return merged, nil
}
