package auth

import (
	"net/http"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/session"
	"github.com/frahmantamala/police-portal/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	cookies *session.CookieCodec
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, cookies *session.CookieCodec) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		cookies:     cookies,
	}
}

// Login handles POST /api/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.Login(r.Context(), req, transport.ClientIP(r))
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.StatusCode < http.StatusInternalServerError {
			h.WriteError(w, appErr.StatusCode, appErr.Message)
			return
		}
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.cookies.SetCookie(w, result.Session.ID, result.User.ID); err != nil {
		h.Logger.Error("failed to sign session cookie", "user_id", result.User.ID, "error", err)
		h.HandleServiceError(w, r, err)
		return
	}

	profile := result.User.ToProfile()
	h.WriteJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		Message: MsgLoginSuccess,
		User:    &profile,
	})
}

// Me handles GET /api/auth/me. It expects Identify to run first.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteJSON(w, http.StatusUnauthorized, MeResponse{Authenticated: false})
		return
	}

	h.WriteJSON(w, http.StatusOK, MeResponse{
		Authenticated: true,
		User:          ProfileFromPrincipal(p),
	})
}

// Logout handles POST /api/auth/logout. It succeeds without a session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID, _, err := h.cookies.Read(r); err == nil {
		if err := h.Service.Logout(r.Context(), sessionID); err != nil {
			h.HandleServiceError(w, r, err)
			return
		}
	}

	h.cookies.ClearCookie(w)
	h.WriteJSON(w, http.StatusOK, LogoutResponse{Success: true})
}
