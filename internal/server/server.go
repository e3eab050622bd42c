// Package server exposes the application services as a JSON REST API.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paysharehq/payshare/internal/apperrors"
	"github.com/paysharehq/payshare/internal/auth"
	"github.com/paysharehq/payshare/internal/middleware"
	"github.com/paysharehq/payshare/internal/service"
)

// Server holds the services behind the HTTP routes.
type Server struct {
	users   *service.UserService
	friends *service.FriendService
	groups  *service.GroupService
	jwt     *auth.JWTManager
}

// New creates a Server.
func New(users *service.UserService, friends *service.FriendService, groups *service.GroupService, jwt *auth.JWTManager) *Server {
	return &Server{users: users, friends: friends, groups: groups, jwt: jwt}
}

// Router builds the route tree. Registration and login are public; every
// other route requires a Bearer session token.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Post("/users/register", s.handleRegister)
		r.Post("/users/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(s.jwt))

			r.Post("/friends", s.handleAddFriend)
			r.Get("/users/{userID}/friends", s.handleListFriends)

			r.Post("/groups", s.handleCreateGroup)
			r.Put("/groups", s.handleEditGroup)
			r.Get("/groups/{groupID}", s.handleGetGroup)
			r.Delete("/groups/{groupID}", s.handleDeleteGroup)
			r.Get("/users/{userID}/groups", s.handleUserGroups)
			r.Patch("/groups/{groupID}/members/{userID}/status/{status}", s.handleSetPaymentStatus)
			r.Post("/groups/{groupID}/notify", s.handleNotifyUnpaid)
		})
	})

	return r
}

// envelope is the JSON response shape shared by every route.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

func respond(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondData(w http.ResponseWriter, status int, data any) {
	respond(w, status, envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respond(w, status, envelope{Success: true, Message: message})
}

// respondError maps the error kind to an HTTP status and hides internal
// detail from unclassified errors.
func respondError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)
	message := "internal server error"
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	respond(w, kind.HTTPStatus(), envelope{Success: false, Message: message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid request body"})
		return false
	}
	return true
}
