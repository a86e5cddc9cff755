package department_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	departmentDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/department"
	"github.com/frahmantamala/police-portal/internal/department"
	departmentPostgres "github.com/frahmantamala/police-portal/internal/department/postgres"
	"github.com/frahmantamala/police-portal/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDepartment(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Department Suite")
}

var _ = Describe("Department Handler Integration", func() {
	var (
		ctx     context.Context
		repo    department.Repository
		service *department.Service
		handler *department.Handler
	)

	BeforeEach(func() {
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&departmentDatamodel.Department{})).To(Succeed())

		repo = departmentPostgres.NewDepartmentRepository(db)
		service = department.NewService(repo, slogger)
		handler = department.NewHandler(&transport.BaseHandler{Logger: slogger}, service)
	})

	It("returns an empty array before seeding", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/departments", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`[]`))
	})

	It("seeds the five default departments once", func() {
		inserted, err := service.EnsureDefaults(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(inserted).To(Equal(5))

		inserted, err = service.EnsureDefaults(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(inserted).To(BeZero())

		count, err := repo.Count(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(int64(5)))
	})

	It("lists departments in insertion order", func() {
		_, err := service.EnsureDefaults(ctx)
		Expect(err).NotTo(HaveOccurred())

		req := httptest.NewRequest(http.MethodGet, "/api/departments", nil)
		w := httptest.NewRecorder()
		handler.List(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var items []department.Department
		Expect(json.NewDecoder(w.Body).Decode(&items)).To(Succeed())
		Expect(items).To(HaveLen(5))
		Expect(items[0].Title).To(Equal("الدوريات"))
		Expect(items[0].Icon).To(Equal("Shield"))
		Expect(items[4].Title).To(Equal("الشؤون"))
	})
})
