package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/pkg/logger"
	"github.com/go-chi/chi"
)

const maxBodyBytes = 1 << 20

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes a plain message error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Warn("http error", "status", status, "message", message)
	h.WriteJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// WriteAppError renders an AppError with its status and taxonomy fields.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	h.WriteJSON(w, status, body)
}

// HandleServiceError maps service errors onto the error taxonomy. Unknown
// errors become a generic 500 and only the log carries the cause.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	lg := logger.From(r.Context())

	appErr, ok := internal.IsAppError(err)
	if !ok {
		lg.Error("unhandled service error", "path", r.URL.Path, "error", err)
		h.WriteAppError(w, internal.NewInternalError(internal.MsgServerError, err))
		return
	}

	switch {
	case appErr.StatusCode >= http.StatusInternalServerError:
		lg.Error("service error", "path", r.URL.Path, "code", appErr.Code, "error", appErr)
	case appErr.Type == internal.ErrorTypeForbidden || appErr.Type == internal.ErrorTypeUnauthorized:
		lg.Warn("access denied", "path", r.URL.Path, "code", appErr.Code)
	default:
		lg.Debug("request rejected", "path", r.URL.Path, "code", appErr.Code, "message", appErr.Message)
	}

	h.WriteAppError(w, appErr)
}

// DecodeJSON reads a bounded JSON body into dst.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return internal.ErrInvalidBody
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return internal.ErrInvalidBody
		}
		return internal.ErrInvalidBody.WithCause(err)
	}
	return nil
}

// ParseIDParam reads a positive integer URL parameter.
func (h *BaseHandler) ParseIDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ClientIP prefers the first X-Forwarded-For hop set by the proxy.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
