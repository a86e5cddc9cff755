package postgres_test

import (
	"context"
	"testing"
	"time"

	passwordresetDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/passwordreset"
	userDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/police-portal/internal/passwordreset"
	passwordresetPostgres "github.com/frahmantamala/police-portal/internal/passwordreset/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestPasswordResetPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Password Reset Postgres Suite")
}

var _ = Describe("Token Repository", func() {
	var (
		ctx    context.Context
		db     *gorm.DB
		repo   passwordreset.Repository
		userID int64
		now    time.Time
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(&userDatamodel.User{}, &passwordresetDatamodel.Token{})).To(Succeed())

		u := &userDatamodel.User{Username: "bob", PasswordHash: "old", Rank: "مجند", CreatedAt: now, UpdatedAt: now}
		Expect(db.Create(u).Error).To(Succeed())
		userID = u.ID

		repo = passwordresetPostgres.NewTokenRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("replaces earlier tokens of the same user", func() {
		_, err := repo.Replace(ctx, userID, "first", now.Add(15*time.Minute))
		Expect(err).NotTo(HaveOccurred())
		second, err := repo.Replace(ctx, userID, "second", now.Add(15*time.Minute))
		Expect(err).NotTo(HaveOccurred())

		_, err = repo.GetByHash(ctx, "first")
		Expect(err).To(MatchError(passwordreset.ErrNotFound))

		found, err := repo.GetByHash(ctx, "second")
		Expect(err).NotTo(HaveOccurred())
		Expect(found.ID).To(Equal(second.ID))
		Expect(found.Consumed()).To(BeFalse())
	})

	It("consumes a live token once and keeps it as a tombstone", func() {
		tok, err := repo.Replace(ctx, userID, "secret-hash", now.Add(15*time.Minute))
		Expect(err).NotTo(HaveOccurred())

		Expect(repo.Consume(ctx, tok.ID, userID, "new-hash", now)).To(Succeed())
		Expect(repo.Consume(ctx, tok.ID, userID, "newer-hash", now)).To(MatchError(passwordreset.ErrTokenUnavailable))

		var stored userDatamodel.User
		Expect(db.First(&stored, userID).Error).To(Succeed())
		Expect(stored.PasswordHash).To(Equal("new-hash"))

		found, err := repo.GetByHash(ctx, "secret-hash")
		Expect(err).NotTo(HaveOccurred())
		Expect(found.Consumed()).To(BeTrue())
	})

	It("refuses an expired token", func() {
		tok, err := repo.Replace(ctx, userID, "secret-hash", now.Add(15*time.Minute))
		Expect(err).NotTo(HaveOccurred())

		Expect(repo.Consume(ctx, tok.ID, userID, "new-hash", now.Add(16*time.Minute))).To(MatchError(passwordreset.ErrTokenUnavailable))

		var stored userDatamodel.User
		Expect(db.First(&stored, userID).Error).To(Succeed())
		Expect(stored.PasswordHash).To(Equal("old"))
	})

	It("deletes the user's other tokens on consumption", func() {
		tok, err := repo.Replace(ctx, userID, "live", now.Add(15*time.Minute))
		Expect(err).NotTo(HaveOccurred())
		stray := &passwordresetDatamodel.Token{UserID: userID, TokenHash: "stray", ExpiresAt: now.Add(time.Minute), CreatedAt: now}
		Expect(db.Create(stray).Error).To(Succeed())

		Expect(repo.Consume(ctx, tok.ID, userID, "new-hash", now)).To(Succeed())

		_, err = repo.GetByHash(ctx, "stray")
		Expect(err).To(MatchError(passwordreset.ErrNotFound))
	})
})
