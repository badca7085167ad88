// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/matchday/internal/domain/types"
)

// UserDependencies defines the interface for user operations.
type UserDependencies interface {
	UserDetail(ctx context.Context, userID string) (types.UserDetail, error)
	UpsertUserProfile(ctx context.Context, userID, displayName, profileURL, avatarURL string) error
}

// UsersHandler handles user requests.
type UsersHandler struct {
	deps UserDependencies
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(deps UserDependencies) *UsersHandler {
	return &UsersHandler{deps: deps}
}

// profileRequest is the PUT /users/{id} body.
type profileRequest struct {
	DisplayName string `json:"display_name"`
	ProfileURL  string `json:"profile_url"`
	AvatarURL   string `json:"avatar_url"`
}

// HandleUser routes GET and PUT /users/{user_id} requests.
func (h *UsersHandler) HandleUser(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimPrefix(r.URL.Path, "/users/")
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		detail, err := h.deps.UserDetail(r.Context(), userID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, detail)

	case http.MethodPut:
		var req profileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if err := h.deps.UpsertUserProfile(r.Context(), userID, req.DisplayName, req.ProfileURL, req.AvatarURL); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ackResponse{Status: "ok"})

	default:
		http.NotFound(w, r)
	}
}
