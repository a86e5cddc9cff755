package passwordreset_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"

	passwordresetDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/passwordreset"
	userDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/police-portal/internal/core/permission"
	"github.com/frahmantamala/police-portal/internal/core/rank"
	"github.com/frahmantamala/police-portal/internal/password"
	"github.com/frahmantamala/police-portal/internal/passwordreset"
	passwordresetPostgres "github.com/frahmantamala/police-portal/internal/passwordreset/postgres"
	"github.com/frahmantamala/police-portal/internal/transport"
	"github.com/frahmantamala/police-portal/internal/user"
	userPostgres "github.com/frahmantamala/police-portal/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Password Reset Handler Integration", func() {
	var (
		db        *gorm.DB
		users     user.Repository
		publisher *capturingPublisher
		handler   *passwordreset.Handler
		hasher    *password.Hasher
		bob       *user.User
	)

	post := func(h http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		req := httptest.NewRequest(http.MethodPost, "/", &buf)
		w := httptest.NewRecorder()
		h(w, req)
		return w
	}

	validate := func(secret string) passwordreset.ValidationResult {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/reset-password/validate?token="+url.QueryEscape(secret), nil)
		w := httptest.NewRecorder()
		handler.ValidateToken(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))

		var result passwordreset.ValidationResult
		Expect(json.Unmarshal(w.Body.Bytes(), &result)).To(Succeed())
		return result
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

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
		)).To(Succeed())

		hasher = password.NewHasher(password.MinCost)
		users = userPostgres.NewUserRepository(db)
		hash, err := hasher.Hash("old-password")
		Expect(err).NotTo(HaveOccurred())
		bob = &user.User{
			Username:     "bob",
			PasswordHash: hash,
			Rank:         rank.Recruit,
			Permissions:  permission.NewSet(permission.ViewOnly),
			DisplayName:  "bob",
			Email:        "realuser@x.com",
		}
		Expect(users.Create(context.Background(), bob)).To(Succeed())

		publisher = &capturingPublisher{}
		service := passwordreset.NewService(passwordresetPostgres.NewTokenRepository(db), users, hasher, publisher, "https://portal.example", slogger)
		handler = passwordreset.NewHandler(&transport.BaseHandler{Logger: slogger}, service)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("answers known and unknown emails with byte-identical bodies", func() {
		unknown := post(handler.ForgotPassword, map[string]string{"email": "nobody@x.com"})
		known := post(handler.ForgotPassword, map[string]string{"email": "realuser@x.com"})

		Expect(unknown.Code).To(Equal(http.StatusOK))
		Expect(known.Code).To(Equal(http.StatusOK))
		Expect(known.Body.Bytes()).To(Equal(unknown.Body.Bytes()))
		Expect(known.Body.String()).To(MatchJSON(`{"success":true,"message":"إذا كان البريد الإلكتروني مسجلاً، ستصلك رسالة لإعادة تعيين كلمة المرور"}`))
		Expect(publisher.events).To(HaveLen(1))
	})

	It("rejects a missing email with 400", func() {
		w := post(handler.ForgotPassword, map[string]string{})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(passwordreset.MsgEmailRequired))
	})

	It("keeps one live token per user", func() {
		post(handler.ForgotPassword, map[string]string{"email": "realuser@x.com"})
		first := publisher.lastSecret()
		post(handler.ForgotPassword, map[string]string{"email": "realuser@x.com"})
		second := publisher.lastSecret()

		var count int64
		Expect(db.Model(&passwordresetDatamodel.Token{}).Where("user_id = ?", bob.ID).Count(&count).Error).To(Succeed())
		Expect(count).To(Equal(int64(1)))

		Expect(validate(first).Valid).To(BeFalse())
		Expect(validate(second).Valid).To(BeTrue())
	})

	It("resets the password once and reports replays as already used", func() {
		post(handler.ForgotPassword, map[string]string{"email": "realuser@x.com"})
		secret := publisher.lastSecret()

		w := post(handler.ResetPassword, map[string]string{"token": secret, "newPassword": "abcd"})
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"success":true,"message":"تم تغيير كلمة المرور بنجاح"}`))

		w = post(handler.ResetPassword, map[string]string{"token": secret, "newPassword": "efgh"})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("تم استخدام هذا الرمز بالفعل"))

		Expect(validate(secret)).To(Equal(passwordreset.ValidationResult{Valid: false, Message: passwordreset.MsgTokenConsumed}))

		stored, err := users.GetByID(context.Background(), bob.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(hasher.Verify("abcd", stored.PasswordHash)).To(BeTrue())
		Expect(hasher.Verify("efgh", stored.PasswordHash)).To(BeFalse())
	})

	It("reports unknown tokens on reset", func() {
		w := post(handler.ResetPassword, map[string]string{"token": "deadbeef", "newPassword": "abcd"})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(passwordreset.MsgTokenUnknown))
	})
})
