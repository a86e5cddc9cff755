package user_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"

	"github.com/frahmantamala/police-portal/internal"
	passwordresetDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/passwordreset"
	userDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/police-portal/internal/core/permission"
	"github.com/frahmantamala/police-portal/internal/core/rank"
	"github.com/frahmantamala/police-portal/internal/password"
	"github.com/frahmantamala/police-portal/internal/transport"
	"github.com/frahmantamala/police-portal/internal/user"
	userPostgres "github.com/frahmantamala/police-portal/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("User Handler Integration", func() {
	var (
		db      *gorm.DB
		repo    user.Repository
		handler *user.Handler
		router  chi.Router
		admin   *user.User
		caller  *internal.Principal
	)

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

		err = db.AutoMigrate(
			&userDatamodel.User{},
			&userDatamodel.Permission{},
			&userDatamodel.UserPermission{},
			&passwordresetDatamodel.Token{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = userPostgres.NewUserRepository(db)
		service := user.NewService(repo, password.NewHasher(password.MinCost), slogger)
		handler = user.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		hash, err := password.NewHasher(password.MinCost).Hash("1234")
		Expect(err).NotTo(HaveOccurred())
		admin = &user.User{
			Username:     "admin",
			PasswordHash: hash,
			Rank:         rank.MajorGeneral,
			Permissions:  permission.NewSet(permission.ManageUsers),
			DisplayName:  "مدير النظام",
		}
		Expect(repo.Create(context.Background(), admin)).To(Succeed())
		caller = &internal.Principal{UserID: admin.ID, Username: admin.Username, Permissions: admin.Permissions}

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithPrincipal(r.Context(), caller)))
			})
		})
		router.Post("/api/auth/register", handler.Register)
		router.Get("/api/users", handler.ListUsers)
		router.Patch("/api/users/{id}", handler.UpdateAccess)
		router.Patch("/api/users/{id}/email", handler.UpdateEmail)
		router.Delete("/api/users/{id}", handler.DeleteUser)
		router.Post("/api/users/change-password", handler.ChangePassword)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("registers bob with defaults and lists him without a password hash", func() {
		w := do(http.MethodPost, "/api/auth/register", map[string]string{"username": "bob", "password": "abcd"})
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created user.RegisterResponse
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.Success).To(BeTrue())
		Expect(created.User.Username).To(Equal("bob"))

		w = do(http.MethodGet, "/api/users", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))
		Expect(w.Body.String()).NotTo(ContainSubstring("$2a$"))

		var listed []map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &listed)).To(Succeed())
		Expect(listed).To(HaveLen(2))

		var bob map[string]interface{}
		for _, entry := range listed {
			if entry["username"] == "bob" {
				bob = entry
			}
		}
		Expect(bob).NotTo(BeNil())
		Expect(bob["permissions"]).To(Equal([]interface{}{"view_only"}))
		Expect(bob["rank"]).To(Equal("مجند"))
	})

	It("answers a duplicate registration with 400", func() {
		do(http.MethodPost, "/api/auth/register", map[string]string{"username": "bob", "password": "abcd"})
		w := do(http.MethodPost, "/api/auth/register", map[string]string{"username": "bob", "password": "abcd"})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(user.MsgUsernameTaken))
	})

	It("rejects self-targeted PATCH and DELETE with 400", func() {
		path := "/api/users/" + strconv.FormatInt(admin.ID, 10)

		w := do(http.MethodPatch, path, map[string]interface{}{"permissions": []string{"view_only"}})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(user.MsgSelfModification))

		w = do(http.MethodDelete, path, nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(user.MsgSelfDeletion))

		stored, err := repo.GetByID(context.Background(), admin.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.Permissions).To(Equal(permission.NewSet(permission.ManageUsers)))
	})

	It("rejects a non-numeric id", func() {
		w := do(http.MethodDelete, "/api/users/abc", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(internal.MsgInvalidUserID))
	})

	It("updates another user's access and email, then deletes them", func() {
		do(http.MethodPost, "/api/auth/register", map[string]string{"username": "bob", "password": "abcd"})
		bob, err := repo.GetByUsername(context.Background(), "bob")
		Expect(err).NotTo(HaveOccurred())
		path := "/api/users/" + strconv.FormatInt(bob.ID, 10)

		w := do(http.MethodPatch, path, map[string]interface{}{"rank": "رقيب", "permissions": []string{"manage_wanted"}})
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodPatch, path+"/email", map[string]string{"email": "bob@example.com"})
		Expect(w.Code).To(Equal(http.StatusOK))

		bob, err = repo.GetByID(context.Background(), bob.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(bob.Permissions).To(Equal(permission.NewSet(permission.ManageWanted)))
		Expect(bob.Email).To(Equal("bob@example.com"))

		w = do(http.MethodDelete, path, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		_, err = repo.GetByID(context.Background(), bob.ID)
		Expect(err).To(MatchError(user.ErrNotFound))
	})

	It("changes the caller's password only with the right current password", func() {
		w := do(http.MethodPost, "/api/users/change-password", map[string]string{"currentPassword": "nope", "newPassword": "abcd"})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(user.MsgWrongCurrentPassword))

		w = do(http.MethodPost, "/api/users/change-password", map[string]string{"currentPassword": "1234", "newPassword": "abcd"})
		Expect(w.Code).To(Equal(http.StatusOK))

		stored, err := repo.GetByID(context.Background(), admin.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(password.NewHasher(password.MinCost).Verify("abcd", stored.PasswordHash)).To(BeTrue())
	})
})
