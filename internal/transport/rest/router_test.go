package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/announcement"
	announcementPostgres "github.com/frahmantamala/police-portal/internal/announcement/postgres"
	"github.com/frahmantamala/police-portal/internal/auth"
	announcementDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/announcement"
	departmentDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/department"
	passwordresetDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/passwordreset"
	personnelDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/personnel"
	reportDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/report"
	userDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/user"
	wantedDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/wanted"
	"github.com/frahmantamala/police-portal/internal/department"
	departmentPostgres "github.com/frahmantamala/police-portal/internal/department/postgres"
	"github.com/frahmantamala/police-portal/internal/observability"
	"github.com/frahmantamala/police-portal/internal/password"
	"github.com/frahmantamala/police-portal/internal/personnel"
	personnelPostgres "github.com/frahmantamala/police-portal/internal/personnel/postgres"
	"github.com/frahmantamala/police-portal/internal/ratelimit"
	"github.com/frahmantamala/police-portal/internal/report"
	reportPostgres "github.com/frahmantamala/police-portal/internal/report/postgres"
	"github.com/frahmantamala/police-portal/internal/session"
	"github.com/frahmantamala/police-portal/internal/transport"
	"github.com/frahmantamala/police-portal/internal/transport/middleware"
	"github.com/frahmantamala/police-portal/internal/transport/rest"
	"github.com/frahmantamala/police-portal/internal/user"
	userPostgres "github.com/frahmantamala/police-portal/internal/user/postgres"
	"github.com/frahmantamala/police-portal/internal/wanted"
	wantedPostgres "github.com/frahmantamala/police-portal/internal/wanted/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Router", func() {
	var (
		db     *gorm.DB
		mr     *miniredis.Miniredis
		router *chi.Mux
	)

	BeforeEach(func() {
		var err error
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(
			&userDatamodel.User{},
			&userDatamodel.Permission{},
			&userDatamodel.UserPermission{},
			&passwordresetDatamodel.Token{},
			&departmentDatamodel.Department{},
			&announcementDatamodel.Announcement{},
			&wantedDatamodel.Person{},
			&wantedDatamodel.Vehicle{},
			&reportDatamodel.Report{},
			&reportDatamodel.InternalReport{},
			&personnelDatamodel.Personnel{},
			&personnelDatamodel.Record{},
		)).To(Succeed())

		mr, err = miniredis.Run()
		Expect(err).NotTo(HaveOccurred())
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

		hasher := password.NewHasher(password.MinCost)
		users := userPostgres.NewUserRepository(db)
		userService := user.NewService(users, hasher, lg)
		_, err = userService.EnsureAdmin(context.Background(), "1234")
		Expect(err).NotTo(HaveOccurred())

		metrics := observability.NewMetrics(prometheus.NewRegistry())
		limiter := ratelimit.NewLimiter(rdb, "test", map[ratelimit.Scope]ratelimit.Rule{})
		sessions := session.NewStore(rdb, "test", time.Hour)
		cookies := session.NewCookieCodec("0123456789abcdef0123456789abcdef", "portal_session", false, time.Hour)
		authService := auth.NewService(users, sessions, hasher, limiter, metrics, lg)
		base := transport.NewBaseHandler(lg)

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, rest.Routes{
			Logger:         lg,
			AllowedOrigins: []string{"https://dashboard.example"},
			Metrics:        metrics,
			MetricsPath:    "/metrics",

			Authorizer:    auth.NewAuthorizer(base, authService, cookies, metrics),
			Auth:          auth.NewHandler(base, authService, cookies),
			Users:         user.NewHandler(base, userService),
			Departments:   department.NewHandler(base, department.NewService(departmentPostgres.NewDepartmentRepository(db), lg)),
			Announcements: announcement.NewHandler(base, announcement.NewService(announcementPostgres.NewAnnouncementRepository(db), lg)),
			Wanted:        wanted.NewHandler(base, wanted.NewService(wantedPostgres.NewWantedRepository(db), lg)),
			Reports:       report.NewHandler(base, report.NewService(reportPostgres.NewReportRepository(db), lg)),
			Personnel:     personnel.NewHandler(base, personnel.NewService(personnelPostgres.NewPersonnelRepository(db), lg)),
		})
	})

	AfterEach(func() {
		mr.Close()
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	do := func(method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	login := func(username, pass string) []*http.Cookie {
		rec := do(http.MethodPost, "/api/login", map[string]string{"username": username, "password": pass}, nil)
		Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
		cookies := rec.Result().Cookies()
		Expect(cookies).NotTo(BeEmpty())
		return cookies
	}

	register := func(admin []*http.Cookie, username string) int64 {
		rec := do(http.MethodPost, "/api/auth/register", map[string]string{"username": username, "password": "abcd"}, admin)
		Expect(rec.Code).To(Equal(http.StatusCreated), rec.Body.String())
		var resp user.RegisterResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		return resp.User.ID
	}

	message := func(rec *httptest.ResponseRecorder) string {
		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		msg, _ := body["message"].(string)
		return msg
	}

	It("serves public content without a session", func() {
		Expect(do(http.MethodGet, "/api/departments", nil, nil).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/api/announcements?type=public", nil, nil).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/api/wanted", nil, nil).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/api/wanted-vehicles/public", nil, nil).Code).To(Equal(http.StatusOK))
	})

	It("rejects guarded routes without a session with 401", func() {
		for _, path := range []string{"/api/reports", "/api/users", "/api/personnel", "/api/wanted-vehicles", "/api/announcements"} {
			Expect(do(http.MethodGet, path, nil, nil).Code).To(Equal(http.StatusUnauthorized), path)
		}
		Expect(do(http.MethodPost, "/api/users/change-password", map[string]string{}, nil).Code).To(Equal(http.StatusUnauthorized))
	})

	It("reports the session state on /api/auth/me", func() {
		rec := do(http.MethodGet, "/api/auth/me", nil, nil)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(rec.Body.String()).To(ContainSubstring(`"authenticated":false`))

		rec = do(http.MethodGet, "/api/auth/me", nil, login("admin", "1234"))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"authenticated":true`))
		Expect(rec.Body.String()).To(ContainSubstring(`"username":"admin"`))
	})

	It("forbids view_only users from manager routes", func() {
		admin := login("admin", "1234")
		register(admin, "cadet")
		cadet := login("cadet", "abcd")

		rec := do(http.MethodGet, "/api/users", nil, cadet)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(message(rec)).To(Equal(internal.MsgAdminRequired))

		Expect(do(http.MethodGet, "/api/reports", nil, cadet).Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodGet, "/api/internal-reports", nil, cadet).Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodPost, "/api/internal-reports", map[string]string{}, cadet).Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodGet, "/api/announcements", nil, cadet).Code).To(Equal(http.StatusForbidden))
	})

	It("lets manage_users act on every guarded area", func() {
		admin := login("admin", "1234")
		for _, path := range []string{"/api/reports", "/api/internal-reports", "/api/users", "/api/personnel", "/api/personnel-records", "/api/wanted-vehicles", "/api/announcements"} {
			Expect(do(http.MethodGet, path, nil, admin).Code).To(Equal(http.StatusOK), path)
		}
	})

	It("applies permission changes on the very next request", func() {
		admin := login("admin", "1234")
		id := register(admin, "cadet")
		cadet := login("cadet", "abcd")
		Expect(do(http.MethodGet, "/api/reports", nil, cadet).Code).To(Equal(http.StatusForbidden))

		rec := do(http.MethodPatch, "/api/users/"+strconv.FormatInt(id, 10), map[string]interface{}{"permissions": []string{"manage_reports"}}, admin)
		Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())

		Expect(do(http.MethodGet, "/api/reports", nil, cadet).Code).To(Equal(http.StatusOK))

		rec = do(http.MethodPatch, "/api/users/"+strconv.FormatInt(id, 10), map[string]interface{}{"permissions": []string{}}, admin)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/api/reports", nil, cadet).Code).To(Equal(http.StatusForbidden))
	})

	It("ends the session once the user is deleted", func() {
		admin := login("admin", "1234")
		id := register(admin, "cadet")
		cadet := login("cadet", "abcd")

		Expect(do(http.MethodDelete, "/api/users/"+strconv.FormatInt(id, 10), nil, admin).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/api/auth/me", nil, cadet).Code).To(Equal(http.StatusUnauthorized))
	})

	It("refuses self-targeting admin actions with 400", func() {
		admin := login("admin", "1234")
		rec := do(http.MethodGet, "/api/auth/me", nil, admin)
		var me auth.MeResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &me)).To(Succeed())
		self := "/api/users/" + strconv.FormatInt(me.User.ID, 10)

		Expect(do(http.MethodDelete, self, nil, admin).Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodPatch, self, map[string]interface{}{"permissions": []string{}}, admin).Code).To(Equal(http.StatusBadRequest))
	})

	It("stores usernames trimmed so they can log in and stay unique", func() {
		admin := login("admin", "1234")
		register(admin, "bob ")

		rec := do(http.MethodGet, "/api/auth/me", nil, login("bob ", "abcd"))
		Expect(rec.Body.String()).To(ContainSubstring(`"username":"bob"`))
		login("bob", "abcd")

		rec = do(http.MethodPost, "/api/auth/register", map[string]string{"username": "bob", "password": "abcd"}, admin)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(message(rec)).To(Equal(user.MsgUsernameTaken))
	})

	It("accepts public report submissions", func() {
		rec := do(http.MethodPost, "/api/report", map[string]interface{}{
			"name":        "citizen",
			"discord":     "123456789012345678",
			"content":     "stolen car",
			"attachments": []string{"/portal-uploads/uploads/a.png"},
		}, nil)
		Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
	})

	It("stamps responses with a trace id and serves metrics", func() {
		rec := do(http.MethodGet, "/api/departments", nil, nil)
		Expect(rec.Header().Get(middleware.TraceHeader)).NotTo(BeEmpty())

		rec = do(http.MethodGet, "/metrics", nil, nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`portal_http_requests_total{method="GET",route="/api/departments",status="200"}`))
	})
})
