package passwordreset

import (
	"context"
	"net/http"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/transport"
)

type ServiceAPI interface {
	ForgotPassword(ctx context.Context, email, clientIP string) error
	ValidateToken(ctx context.Context, secret string) ValidationResult
	ResetPassword(ctx context.Context, secret, newPassword string) error
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

// ForgotPassword handles POST /api/auth/forgot-password
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.writeFailure(w, r, err)
		return
	}

	if err := h.Service.ForgotPassword(r.Context(), req.Email, transport.ClientIP(r)); err != nil {
		h.writeFailure(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Success: true, Message: MsgRequestAccepted})
}

// ValidateToken handles GET /api/auth/reset-password/validate
func (h *Handler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	result := h.Service.ValidateToken(r.Context(), r.URL.Query().Get("token"))
	h.WriteJSON(w, http.StatusOK, result)
}

// ResetPassword handles POST /api/auth/reset-password
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.writeFailure(w, r, err)
		return
	}

	if err := h.Service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		h.writeFailure(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Success: true, Message: MsgPasswordChanged})
}

// writeFailure renders client errors as {success:false, message}.
func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	if appErr, ok := internal.IsAppError(err); ok && appErr.StatusCode < http.StatusInternalServerError {
		h.WriteError(w, appErr.StatusCode, appErr.Message)
		return
	}
	h.HandleServiceError(w, r, err)
}
