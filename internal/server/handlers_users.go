package server

import "net/http"

type registerRequest struct {
	UserID   string `json:"userID"`
	UserName string `json:"userName"`
}

type loginRequest struct {
	UserID   string `json:"userID"`
	UserName string `json:"userName"`
	FCMToken string `json:"fcmToken"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.users.Register(r.Context(), req.UserID, req.UserName)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusCreated, map[string]any{
		"userID":   user.ID,
		"userName": user.DisplayName,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, token, err := s.users.Login(r.Context(), req.UserID, req.UserName, req.FCMToken)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"userID":   user.ID,
		"userName": user.DisplayName,
		"fcmToken": user.FCMToken,
		"token":    token,
	})
}
