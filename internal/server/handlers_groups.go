package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/paysharehq/payshare/internal/apperrors"
	"github.com/paysharehq/payshare/internal/models"
)

type memberInput struct {
	UserID    string          `json:"userID"`
	Amount    decimal.Decimal `json:"amount"`
	PayStatus bool            `json:"payStatus"`
}

type createGroupRequest struct {
	GroupName string        `json:"groupName"`
	CreatorID string        `json:"creatorID"`
	Members   []memberInput `json:"members"`
}

type editGroupRequest struct {
	GroupID   string        `json:"groupID"`
	GroupName string        `json:"groupName"`
	Members   []memberInput `json:"members"`
}

type memberView struct {
	UserID    string          `json:"userID"`
	UserName  string          `json:"userName"`
	Amount    decimal.Decimal `json:"amount"`
	PayStatus bool            `json:"payStatus"`
}

type groupView struct {
	GroupID     string       `json:"groupID"`
	GroupName   string       `json:"groupName"`
	CreatorID   string       `json:"creatorID"`
	CreatorName string       `json:"creatorName"`
	Members     []memberView `json:"members"`
	CreatedAt   int64        `json:"createdAt"`
	UpdatedAt   int64        `json:"updatedAt"`
}

func toMemberInputs(members []memberInput) []models.MemberInput {
	inputs := make([]models.MemberInput, len(members))
	for i, m := range members {
		inputs[i] = models.MemberInput{UserID: m.UserID, Amount: m.Amount, Paid: m.PayStatus}
	}
	return inputs
}

func toGroupView(group *models.Group) groupView {
	view := groupView{
		GroupID:     group.ID,
		GroupName:   group.Name,
		CreatorID:   group.CreatorID,
		CreatorName: group.CreatorName,
		Members:     make([]memberView, 0, len(group.Members)),
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}
	for _, m := range group.Members {
		view.Members = append(view.Members, memberView{
			UserID:    m.UserID,
			UserName:  m.DisplayName,
			Amount:    m.Amount,
			PayStatus: m.Paid,
		})
	}
	return view
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	group, err := s.groups.CreateGroup(r.Context(), req.GroupName, req.CreatorID, toMemberInputs(req.Members))
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusCreated, toGroupView(group))
}

func (s *Server) handleEditGroup(w http.ResponseWriter, r *http.Request) {
	var req editGroupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	group, err := s.groups.Reconcile(r.Context(), req.GroupID, req.GroupName, toMemberInputs(req.Members))
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, toGroupView(group))
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.groups.GetGroupDetail(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, toGroupView(group))
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.DeleteGroup(r.Context(), chi.URLParam(r, "groupID")); err != nil {
		respondError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Group deleted successfully")
}

func (s *Server) handleUserGroups(w http.ResponseWriter, r *http.Request) {
	records, err := s.groups.RolesFor(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, err)
		return
	}

	data := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		data = append(data, map[string]any{
			"groupID":   rec.GroupID,
			"groupName": rec.GroupName,
			"role":      rec.Role,
			"status":    rec.Status,
		})
	}

	respondData(w, http.StatusOK, data)
}

func (s *Server) handleSetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	userID := chi.URLParam(r, "userID")
	status := chi.URLParam(r, "status")

	if status != "paid" && status != "unpaid" {
		respondError(w, apperrors.Newf(apperrors.KindInvalidRequest, "invalid status: %s", status))
		return
	}

	if err := s.groups.SetPaymentStatus(r.Context(), groupID, userID, status == "paid"); err != nil {
		respondError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Payment status updated successfully")
}

func (s *Server) handleNotifyUnpaid(w http.ResponseWriter, r *http.Request) {
	delivered, err := s.groups.NotifyUnpaidMembers(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		respondError(w, err)
		return
	}

	if delivered == 0 {
		respondMessage(w, http.StatusOK, "No users to notify")
		return
	}
	respondMessage(w, http.StatusOK, "Notification sent successfully")
}
