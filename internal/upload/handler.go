package upload

import (
	"context"
	"net/http"

	"github.com/frahmantamala/police-portal/internal/transport"
)

type ServiceAPI interface {
	RequestURL(ctx context.Context, req Request, clientIP string) (*Response, error)
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

// RequestURL handles POST /api/uploads/request-url
func (h *Handler) RequestURL(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	resp, err := h.Service.RequestURL(r.Context(), req, transport.ClientIP(r))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
