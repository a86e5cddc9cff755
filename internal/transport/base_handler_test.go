package transport_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestTransport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Transport Suite")
}

var _ = Describe("BaseHandler", func() {
	var h *transport.BaseHandler

	BeforeEach(func() {
		h = transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	decode := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	It("renders app errors with their status and taxonomy", func() {
		rec := httptest.NewRecorder()
		h.HandleServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), internal.ErrForbidden)

		Expect(rec.Code).To(Equal(http.StatusForbidden))
		body := decode(rec)
		Expect(body["success"]).To(Equal(false))
		Expect(body["type"]).To(Equal("FORBIDDEN"))
		Expect(body["message"]).To(Equal(internal.MsgForbidden))
	})

	It("hides unknown errors behind a generic 500", func() {
		rec := httptest.NewRecorder()
		h.HandleServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: connection refused"))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).NotTo(ContainSubstring("connection refused"))
		Expect(decode(rec)["message"]).To(Equal(internal.MsgServerError))
	})

	It("exposes the field of validation errors", func() {
		rec := httptest.NewRecorder()
		h.HandleServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), internal.ErrPasswordTooShort)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(decode(rec)["field"]).To(Equal("newPassword"))
	})

	It("rejects malformed bodies", func() {
		var dst struct{ Name string }
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
		Expect(errors.Is(h.DecodeJSON(req, &dst), internal.ErrInvalidBody)).To(BeTrue())
	})

	It("derives the client ip from forwarding headers", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		Expect(transport.ClientIP(req)).To(Equal("10.0.0.1"))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.5:4444"
		Expect(transport.ClientIP(req)).To(Equal("192.168.1.5"))
	})
})
