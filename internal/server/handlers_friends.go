package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type addFriendRequest struct {
	UserID   string `json:"userID"`
	FriendID string `json:"friendID"`
}

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	var req addFriendRequest
	if !decodeBody(w, r, &req) {
		return
	}

	friend, err := s.friends.AddFriend(r.Context(), req.UserID, req.FriendID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusCreated, map[string]any{
		"userID":   friend.RequesterID,
		"friendID": friend.RecipientID,
		"status":   friend.Status,
	})
}

func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	friends, err := s.friends.ListFriends(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	data := make([]map[string]any, 0, len(friends))
	for _, f := range friends {
		data = append(data, map[string]any{
			"userID":   f.ID,
			"userName": f.DisplayName,
		})
	}

	count := len(data)
	respond(w, http.StatusOK, envelope{Success: true, Data: data, Count: &count})
}
