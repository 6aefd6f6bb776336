package notification

import (
	"context"
	"net/http"

	"github.com/frahmantamala/idea-portal/internal/core/policy"
	"github.com/frahmantamala/idea-portal/internal/transport"
)

type ServiceAPI interface {
	ListForCaller(ctx context.Context, caller policy.Identity) ([]*Notification, error)
	MarkRead(ctx context.Context, caller policy.Identity, dto MarkReadDTO) (*MarkReadResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	caller := policy.IdentityFromContext(r.Context())

	notifications, err := h.Service.ListForCaller(r.Context(), caller)
	if err != nil {
		h.Logger.Warn("ListNotifications: failed", "user_id", caller.UserID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, notifications)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	caller := policy.IdentityFromContext(r.Context())

	var dto MarkReadDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Warn("MarkRead: invalid body", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.MarkRead(r.Context(), caller, dto)
	if err != nil {
		h.Logger.Warn("MarkRead: failed", "user_id", caller.UserID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}
