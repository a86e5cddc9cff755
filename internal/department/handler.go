package department

import (
	"context"
	"net/http"

	"github.com/frahmantamala/police-portal/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*Department, error)
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

// List handles GET /api/departments
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*Department{}
	}
	h.WriteJSON(w, http.StatusOK, items)
}
