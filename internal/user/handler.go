package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/idea-portal/internal/core/policy"
	"github.com/frahmantamala/idea-portal/internal/transport"
)

type ServiceAPI interface {
	GetMe(ctx context.Context, caller policy.Identity) (*User, error)
	ListUsers(ctx context.Context, caller policy.Identity) ([]*User, error)
	ChangeRole(ctx context.Context, caller policy.Identity, id int64, dto ChangeRoleDTO) error
	DeleteUser(ctx context.Context, caller policy.Identity, id int64) error
	ResetPassword(ctx context.Context, caller policy.Identity, id int64, dto ResetPasswordDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	caller := policy.IdentityFromContext(r.Context())

	u, err := h.Service.GetMe(r.Context(), caller)
	if err != nil {
		h.Logger.Error("GetCurrentUser: service GetMe failed", "user_id", caller.UserID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	caller := policy.IdentityFromContext(r.Context())

	users, err := h.Service.ListUsers(r.Context(), caller)
	if err != nil {
		h.Logger.Warn("ListUsers: service error", "user_id", caller.UserID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, users)
}

// ChangeRole handles PUT /users/{id}/role
func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	caller := policy.IdentityFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto ChangeRoleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		// Self-protection wins over a bad payload.
		if authErr := policy.Authorize(caller, policy.ActionChangeRole, policy.Account(id)); authErr != nil {
			err = authErr
		}
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.ChangeRole(r.Context(), caller, id, dto); err != nil {
		h.Logger.Warn("ChangeRole: service error", "target_id", id, "user_id", caller.UserID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: "User role updated successfully"})
}

// DeleteUser handles DELETE /users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	caller := policy.IdentityFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.DeleteUser(r.Context(), caller, id); err != nil {
		h.Logger.Warn("DeleteUser: service error", "target_id", id, "user_id", caller.UserID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}

// ResetPassword handles PUT /users/{id}/password
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	caller := policy.IdentityFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto ResetPasswordDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.ResetPassword(r.Context(), caller, id, dto); err != nil {
		h.Logger.Warn("ResetPassword: service error", "target_id", id, "user_id", caller.UserID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Password reset successfully"})
}
