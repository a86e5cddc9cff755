package announcement

import (
	"context"
	"net/http"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/core/permission"
	"github.com/frahmantamala/police-portal/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, filter *Type) ([]*Announcement, error)
	Create(ctx context.Context, req CreateRequest) (*Announcement, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*Announcement, error)
	Delete(ctx context.Context, id int64) error
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

// List handles GET /api/announcements. The public feed is open; anything
// that includes internal items needs an announcement permission on the
// principal attached by the Identify middleware.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var filter *Type
	if raw := r.URL.Query().Get("type"); raw != "" {
		t, err := ParseType(raw)
		if err != nil {
			h.HandleServiceError(w, r, errInvalidType)
			return
		}
		filter = &t
	}

	if filter == nil || *filter != TypePublic {
		p, ok := internal.PrincipalFromContext(r.Context())
		if !ok {
			h.HandleServiceError(w, r, internal.ErrUnauthorized)
			return
		}
		if !p.Permissions.AllowsAny(permission.ViewAnnouncements, permission.ManageAnnouncements) {
			h.HandleServiceError(w, r, internal.ErrForbidden)
			return
		}
	}

	items, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*Announcement{}
	}
	h.WriteJSON(w, http.StatusOK, items)
}

// Create handles POST /api/announcements
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	a, err := h.Service.Create(r.Context(), req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, a)
}

// Update handles PATCH /api/announcements/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseIDParam(r, "id")
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidID)
		return
	}

	var req UpdateRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	a, err := h.Service.Update(r.Context(), id, req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

// Delete handles DELETE /api/announcements/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseIDParam(r, "id")
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidID)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DeleteResponse{Success: true})
}
