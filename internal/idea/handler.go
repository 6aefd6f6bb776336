package idea

import (
	"context"
	"net/http"

	"github.com/frahmantamala/idea-portal/internal/core/policy"
	"github.com/frahmantamala/idea-portal/internal/reaction"
	"github.com/frahmantamala/idea-portal/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, caller policy.Identity, dto IdeaDTO) (*Idea, error)
	Update(ctx context.Context, caller policy.Identity, id int64, dto IdeaDTO) (*Idea, error)
	Withdraw(ctx context.Context, caller policy.Identity, id int64) error
	BulkUpdateStatus(ctx context.Context, caller policy.Identity, dto BulkStatusDTO) (*BulkStatusResult, error)
	React(ctx context.Context, caller policy.Identity, id int64, dto ReactDTO) (*reaction.Result, error)
	AddComment(ctx context.Context, caller policy.Identity, id int64, dto CommentDTO) (*Comment, error)
	ListComments(ctx context.Context, caller policy.Identity, id int64) ([]*Comment, error)
	List(ctx context.Context, caller policy.Identity, filter ListFilter) ([]*View, error)
	ListByOwner(ctx context.Context, caller policy.Identity, ownerID int64) ([]*View, error)
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

func (h *Handler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	caller := policy.IdentityFromContext(r.Context())

	filter, err := ParseListFilter(r.URL.Query())
	if err != nil {
		h.Logger.Warn("ListIdeas: invalid filter", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	views, err := h.Service.List(r.Context(), caller, filter)
	if err != nil {
		h.Logger.Error("ListIdeas: service error", "error", err, "user_id", caller.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) ListUserIdeas(w http.ResponseWriter, r *http.Request) {
	caller := policy.IdentityFromContext(r.Context())

	ownerID, err := h.IDParam(r, "userId")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	views, err := h.Service.ListByOwner(r.Context(), caller, ownerID)
	if err != nil {
		h.Logger.Error("ListUserIdeas: service error", "error", err, "owner_id", ownerID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) CreateIdea(w http.ResponseWriter, r *http.Request) {
	caller := policy.IdentityFromContext(r.Context())

	var dto IdeaDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Warn("CreateIdea: invalid request body", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	created, err := h.Service.Create(r.Context(), caller, dto)
	if err != nil {
		h.Logger.Error("CreateIdea: service error", "error", err, "user_id", caller.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateIdea: idea created successfully",
		"idea_id", created.ID,
		"user_id", caller.UserID,
		"status", created.Status)

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateIdea(w http.ResponseWriter, r *http.Request) {
	caller := policy.IdentityFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto IdeaDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Warn("UpdateIdea: invalid request body", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	updated, err := h.Service.Update(r.Context(), caller, id, dto)
	if err != nil {
		h.Logger.Error("UpdateIdea: service error", "error", err, "idea_id", id, "user_id", caller.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteIdea(w http.ResponseWriter, r *http.Request) {
	caller := policy.IdentityFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.Withdraw(r.Context(), caller, id); err != nil {
		h.Logger.Error("DeleteIdea: service error", "error", err, "idea_id", id, "user_id", caller.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Idea deleted successfully"})
}

func (h *Handler) UpdateStatuses(w http.ResponseWriter, r *http.Request) {
	caller := policy.IdentityFromContext(r.Context())

	var dto BulkStatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Warn("UpdateStatuses: invalid request body", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.BulkUpdateStatus(r.Context(), caller, dto)
	if err != nil {
		h.Logger.Error("UpdateStatuses: service error", "error", err, "user_id", caller.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) React(w http.ResponseWriter, r *http.Request) {
	caller := policy.IdentityFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto ReactDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Warn("React: invalid request body", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.React(r.Context(), caller, id, dto)
	if err != nil {
		h.Logger.Error("React: service error", "error", err, "idea_id", id, "user_id", caller.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	caller := policy.IdentityFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	comments, err := h.Service.ListComments(r.Context(), caller, id)
	if err != nil {
		h.Logger.Error("ListComments: service error", "error", err, "idea_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, comments)
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	caller := policy.IdentityFromContext(r.Context())

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto CommentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Warn("AddComment: invalid request body", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	comment, err := h.Service.AddComment(r.Context(), caller, id, dto)
	if err != nil {
		h.Logger.Error("AddComment: service error", "error", err, "idea_id", id, "user_id", caller.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, comment)
}
