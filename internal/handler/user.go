package handler

import (
	"net/http"

	"pantry-chef-api/internal/service"
	"pantry-chef-api/pkg/response"
)

// UserHandler exposes the identity resolver.
type UserHandler struct {
	identityService *service.IdentityService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(identityService *service.IdentityService) *UserHandler {
	return &UserHandler{identityService: identityService}
}

type syncedUser struct {
	ID         string  `json:"id"`
	ExternalID string  `json:"externalId"`
	Email      *string `json:"email"`
}

type syncResponse struct {
	Success bool       `json:"success"`
	User    syncedUser `json:"user"`
}

// Sync handles POST /api/v1/user/sync
func (h *UserHandler) Sync(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.identityService)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, syncResponse{
		Success: true,
		User: syncedUser{
			ID:         user.ID,
			ExternalID: user.ExternalID,
			Email:      user.Email,
		},
	})
}
