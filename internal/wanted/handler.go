package wanted

import (
	"context"
	"net/http"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/transport"
)

type ServiceAPI interface {
	ListPersons(ctx context.Context) ([]*Person, error)
	CreatePerson(ctx context.Context, req CreatePersonRequest) (*Person, error)
	UpdatePerson(ctx context.Context, id int64, req UpdatePersonRequest) (*Person, error)
	DeletePerson(ctx context.Context, id int64) error

	ListVehicles(ctx context.Context, publicOnly bool) ([]*Vehicle, error)
	CreateVehicle(ctx context.Context, req CreateVehicleRequest) (*Vehicle, error)
	UpdateVehicle(ctx context.Context, id int64, req UpdateVehicleRequest) (*Vehicle, error)
	DeleteVehicle(ctx context.Context, id int64) error
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

// ListPersons handles GET /api/wanted
func (h *Handler) ListPersons(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListPersons(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*Person{}
	}
	h.WriteJSON(w, http.StatusOK, items)
}

// CreatePerson handles POST /api/wanted
func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req CreatePersonRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	p, err := h.Service.CreatePerson(r.Context(), req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, p)
}

// UpdatePerson handles PATCH /api/wanted/{id}
func (h *Handler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseIDParam(r, "id")
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidID)
		return
	}

	var req UpdatePersonRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	p, err := h.Service.UpdatePerson(r.Context(), id, req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

// DeletePerson handles DELETE /api/wanted/{id}
func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseIDParam(r, "id")
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidID)
		return
	}

	if err := h.Service.DeletePerson(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DeleteResponse{Success: true})
}

// ListVehicles handles GET /api/wanted-vehicles
func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	h.listVehicles(w, r, false)
}

// ListPublicVehicles handles GET /api/wanted-vehicles/public
func (h *Handler) ListPublicVehicles(w http.ResponseWriter, r *http.Request) {
	h.listVehicles(w, r, true)
}

func (h *Handler) listVehicles(w http.ResponseWriter, r *http.Request, publicOnly bool) {
	items, err := h.Service.ListVehicles(r.Context(), publicOnly)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*Vehicle{}
	}
	h.WriteJSON(w, http.StatusOK, items)
}

// CreateVehicle handles POST /api/wanted-vehicles
func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req CreateVehicleRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	v, err := h.Service.CreateVehicle(r.Context(), req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, v)
}

// UpdateVehicle handles PATCH /api/wanted-vehicles/{id}
func (h *Handler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseIDParam(r, "id")
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidID)
		return
	}

	var req UpdateVehicleRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	v, err := h.Service.UpdateVehicle(r.Context(), id, req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, v)
}

// DeleteVehicle handles DELETE /api/wanted-vehicles/{id}
func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseIDParam(r, "id")
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidID)
		return
	}

	if err := h.Service.DeleteVehicle(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DeleteResponse{Success: true})
}
