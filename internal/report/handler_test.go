package report_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"

	reportDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/report"
	"github.com/frahmantamala/police-portal/internal/report"
	reportPostgres "github.com/frahmantamala/police-portal/internal/report/postgres"
	"github.com/frahmantamala/police-portal/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Report Handler Integration", func() {
	var router chi.Router

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&reportDatamodel.Report{}, &reportDatamodel.InternalReport{})).To(Succeed())

		service := report.NewService(reportPostgres.NewReportRepository(db), slogger)
		handler := report.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Post("/api/report", handler.Submit)
		router.Get("/api/reports", handler.List)
		router.Patch("/api/reports/{id}/status", handler.UpdateStatus)
		router.Delete("/api/reports/{id}", handler.Delete)
		router.Get("/api/internal-reports", handler.ListInternal)
		router.Post("/api/internal-reports", handler.CreateInternal)
		router.Patch("/api/internal-reports/{id}/status", handler.UpdateInternalStatus)
		router.Delete("/api/internal-reports/{id}", handler.DeleteInternal)
	})

	It("accepts a public report and keeps its attachments", func() {
		w := do(http.MethodPost, "/api/report", validSubmission())
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"success":true,"message":"تم إرسال البلاغ بنجاح"}`))

		w = do(http.MethodGet, "/api/reports", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var items []report.Report
		Expect(json.Unmarshal(w.Body.Bytes(), &items)).To(Succeed())
		Expect(items).To(HaveLen(1))
		Expect(items[0].Attachments).To(Equal([]string{"/bucket/uploads/a.png"}))
		Expect(items[0].Status).To(Equal(report.StatusPending))
	})

	It("renders validation failures with the field name", func() {
		req := validSubmission()
		req.Attachments = nil

		w := do(http.MethodPost, "/api/report", req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body["message"]).To(Equal(report.MsgAttachmentsMissing))
		Expect(body["field"]).To(Equal("attachments"))
	})

	It("moves a report through the status set and deletes it", func() {
		Expect(do(http.MethodPost, "/api/report", validSubmission()).Code).To(Equal(http.StatusOK))

		w := do(http.MethodPatch, "/api/reports/1/status", report.StatusRequest{Status: "reviewed"})
		Expect(w.Code).To(Equal(http.StatusOK))
		var r report.Report
		Expect(json.Unmarshal(w.Body.Bytes(), &r)).To(Succeed())
		Expect(r.Status).To(Equal(report.StatusReviewed))

		w = do(http.MethodPatch, "/api/reports/1/status", report.StatusRequest{Status: "archived"})
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		Expect(do(http.MethodDelete, "/api/reports/1", nil).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodDelete, "/api/reports/1", nil).Code).To(Equal(http.StatusNotFound))
	})

	It("handles the internal report lifecycle", func() {
		from := int64(3)
		w := do(http.MethodPost, "/api/internal-reports", report.CreateInternalRequest{
			FromPersonnelID: &from,
			FromName:        "ملازم خالد",
			ToName:          "رقيب فهد",
			Subject:         "تأخر عن المناوبة",
			Content:         "تأخر ساعتين",
			Attachment:      "/bucket/uploads/proof.png",
		})
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created report.InternalReport
		Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())
		Expect(created.FromPersonnelID).To(Equal(int64(3)))
		Expect(created.ToPersonnelID).To(BeZero())

		path := "/api/internal-reports/" + strconv.FormatInt(created.ID, 10)
		w = do(http.MethodPatch, path+"/status", report.StatusRequest{Status: "resolved"})
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodGet, "/api/internal-reports", nil)
		var items []report.InternalReport
		Expect(json.Unmarshal(w.Body.Bytes(), &items)).To(Succeed())
		Expect(items).To(HaveLen(1))
		Expect(items[0].Status).To(Equal(report.StatusResolved))

		Expect(do(http.MethodDelete, path, nil).Code).To(Equal(http.StatusOK))
	})

	It("rejects internal reports without an attachment", func() {
		w := do(http.MethodPost, "/api/internal-reports", report.CreateInternalRequest{
			FromName: "أ", ToName: "ب", Subject: "ج", Content: "د",
		})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(report.MsgAttachmentRequired))
	})
})
