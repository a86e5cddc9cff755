package personnel

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*Personnel, error)
	Create(ctx context.Context, req CreateRequest) (*Personnel, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*Personnel, error)
	Delete(ctx context.Context, id int64) error

	ListRecords(ctx context.Context, personnelID *int64) ([]*Record, error)
	CreateRecord(ctx context.Context, author string, req CreateRecordRequest) (*Record, error)
	DeleteRecord(ctx context.Context, id int64) error
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

// List handles GET /api/personnel
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*Personnel{}
	}
	h.WriteJSON(w, http.StatusOK, items)
}

// Create handles POST /api/personnel
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	p, err := h.Service.Create(r.Context(), req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, p)
}

// Update handles PATCH /api/personnel/{id}
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

	p, err := h.Service.Update(r.Context(), id, req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/personnel/{id}
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

// ListRecords handles GET /api/personnel-records?personnelId=
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	var personnelID *int64
	if raw := r.URL.Query().Get("personnelId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.HandleServiceError(w, r, internal.ErrInvalidID)
			return
		}
		personnelID = &id
	}

	items, err := h.Service.ListRecords(r.Context(), personnelID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*Record{}
	}
	h.WriteJSON(w, http.StatusOK, items)
}

// CreateRecord handles POST /api/personnel-records
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req CreateRecordRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var author string
	if p, ok := internal.PrincipalFromContext(r.Context()); ok {
		author = p.Username
	}

	rec, err := h.Service.CreateRecord(r.Context(), author, req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, rec)
}

// DeleteRecord handles DELETE /api/personnel-records/{id}
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseIDParam(r, "id")
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidID)
		return
	}

	if err := h.Service.DeleteRecord(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DeleteResponse{Success: true})
}
