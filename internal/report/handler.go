package report

import (
	"context"
	"net/http"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/transport"
)

type ServiceAPI interface {
	Submit(ctx context.Context, req SubmitRequest) (*Report, error)
	List(ctx context.Context) ([]*Report, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*Report, error)
	Delete(ctx context.Context, id int64) error

	ListInternal(ctx context.Context) ([]*InternalReport, error)
	CreateInternal(ctx context.Context, req CreateInternalRequest) (*InternalReport, error)
	UpdateInternalStatus(ctx context.Context, id int64, status string) (*InternalReport, error)
	DeleteInternal(ctx context.Context, id int64) error
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

// Submit handles POST /api/report
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if _, err := h.Service.Submit(r.Context(), req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, SubmitResponse{Success: true, Message: MsgSubmitted})
}

// List handles GET /api/reports
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*Report{}
	}
	h.WriteJSON(w, http.StatusOK, items)
}

// UpdateStatus handles PATCH /api/reports/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, status, ok := h.statusRequest(w, r)
	if !ok {
		return
	}

	rep, err := h.Service.UpdateStatus(r.Context(), id, status)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rep)
}

// Delete handles DELETE /api/reports/{id}
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

// ListInternal handles GET /api/internal-reports
func (h *Handler) ListInternal(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListInternal(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*InternalReport{}
	}
	h.WriteJSON(w, http.StatusOK, items)
}

// CreateInternal handles POST /api/internal-reports
func (h *Handler) CreateInternal(w http.ResponseWriter, r *http.Request) {
	var req CreateInternalRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	rep, err := h.Service.CreateInternal(r.Context(), req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, rep)
}

// UpdateInternalStatus handles PATCH /api/internal-reports/{id}/status
func (h *Handler) UpdateInternalStatus(w http.ResponseWriter, r *http.Request) {
	id, status, ok := h.statusRequest(w, r)
	if !ok {
		return
	}

	rep, err := h.Service.UpdateInternalStatus(r.Context(), id, status)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rep)
}

// DeleteInternal handles DELETE /api/internal-reports/{id}
func (h *Handler) DeleteInternal(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseIDParam(r, "id")
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidID)
		return
	}

	if err := h.Service.DeleteInternal(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DeleteResponse{Success: true})
}

func (h *Handler) statusRequest(w http.ResponseWriter, r *http.Request) (int64, string, bool) {
	id, ok := h.ParseIDParam(r, "id")
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidID)
		return 0, "", false
	}

	var req StatusRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, err)
		return 0, "", false
	}
	return id, req.Status, true
}
