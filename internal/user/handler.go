package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/transport"
)

type ServiceAPI interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	List(ctx context.Context) ([]*User, error)
	UpdateAccess(ctx context.Context, callerID, targetID int64, req UpdateAccessRequest) error
	UpdateEmail(ctx context.Context, targetID int64, email string) error
	Delete(ctx context.Context, callerID, targetID int64) error
	ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error
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

// Register handles POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	u, err := h.Service.Register(r.Context(), req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, RegisterResponse{
		Success: true,
		Message: MsgUserCreated,
		User:    u.ToSummary(),
	})
}

// ListUsers handles GET /api/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	out := make([]Summary, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToSummary())
	}
	h.WriteJSON(w, http.StatusOK, out)
}

// UpdateAccess handles PATCH /api/users/{id}
func (h *Handler) UpdateAccess(w http.ResponseWriter, r *http.Request) {
	targetID, ok := h.ParseIDParam(r, "id")
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidUserID)
		return
	}

	var req UpdateAccessRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.UpdateAccess(r.Context(), internal.UserIDFromContext(r.Context()), targetID, req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Success: true, Message: MsgUserUpdated})
}

// UpdateEmail handles PATCH /api/users/{id}/email
func (h *Handler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	targetID, ok := h.ParseIDParam(r, "id")
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidUserID)
		return
	}

	var req UpdateEmailRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.UpdateEmail(r.Context(), targetID, req.Email); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Success: true, Message: MsgEmailUpdated})
}

// DeleteUser handles DELETE /api/users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	targetID, ok := h.ParseIDParam(r, "id")
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidUserID)
		return
	}

	if err := h.Service.Delete(r.Context(), internal.UserIDFromContext(r.Context()), targetID); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Success: true, Message: MsgUserDeleted})
}

// ChangePassword handles POST /api/users/change-password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.ChangePassword(r.Context(), p.UserID, req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Success: true, Message: MsgPasswordChanged})
}
