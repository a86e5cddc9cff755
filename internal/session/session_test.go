package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/frahmantamala/police-portal/internal/session"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
)

func TestSession(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Session Suite")
}

var _ = Describe("Store", func() {
	var (
		mr    *miniredis.Miniredis
		store *session.Store
		ctx   context.Context
	)

	BeforeEach(func() {
		var err error
		mr, err = miniredis.Run()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(mr.Close)

		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		DeferCleanup(client.Close)

		store = session.NewStore(client, "test", time.Hour)
		ctx = context.Background()
	})

	It("round-trips a created session", func() {
		created, err := store.Create(ctx, 7, "bob", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(created.ID).NotTo(BeEmpty())

		loaded, err := store.Get(ctx, created.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.UserID).To(Equal(int64(7)))
		Expect(loaded.Permissions).To(BeEmpty())
		Expect(mr.TTL("test:session:" + created.ID)).To(Equal(time.Hour))
	})

	It("reports unknown sessions", func() {
		_, err := store.Get(ctx, "missing")
		Expect(err).To(MatchError(session.ErrNotFound))
	})

	It("overwrites the cache without resetting the TTL", func() {
		created, _ := store.Create(ctx, 7, "bob", []string{"view_only"})
		mr.FastForward(10 * time.Minute)

		created.Permissions = []string{"manage_wanted"}
		Expect(store.Refresh(ctx, created)).To(Succeed())

		loaded, _ := store.Get(ctx, created.ID)
		Expect(loaded.Permissions).To(ConsistOf("manage_wanted"))
		Expect(mr.TTL("test:session:" + created.ID)).To(Equal(50 * time.Minute))
	})

	It("does not resurrect a deleted session on refresh", func() {
		created, _ := store.Create(ctx, 7, "bob", nil)
		Expect(store.Delete(ctx, created.ID)).To(Succeed())
		Expect(store.Refresh(ctx, created)).To(MatchError(session.ErrNotFound))
		Expect(store.Delete(ctx, created.ID)).To(Succeed())
	})

	It("expires with its TTL", func() {
		created, _ := store.Create(ctx, 7, "bob", nil)
		mr.FastForward(2 * time.Hour)
		_, err := store.Get(ctx, created.ID)
		Expect(err).To(MatchError(session.ErrNotFound))
	})
})

var _ = Describe("CookieCodec", func() {
	var codec *session.CookieCodec

	BeforeEach(func() {
		codec = session.NewCookieCodec("0123456789abcdef0123456789abcdef", "portal_session", false, time.Hour)
	})

	It("round-trips a session reference", func() {
		value, err := codec.Encode("sid-1", 42)
		Expect(err).NotTo(HaveOccurred())

		sid, uid, err := codec.Decode(value)
		Expect(err).NotTo(HaveOccurred())
		Expect(sid).To(Equal("sid-1"))
		Expect(uid).To(Equal(int64(42)))
	})

	It("rejects cookies signed with another secret", func() {
		other := session.NewCookieCodec("ffffffffffffffffffffffffffffffff", "portal_session", false, time.Hour)
		value, _ := other.Encode("sid-1", 42)
		_, _, err := codec.Decode(value)
		Expect(err).To(MatchError(session.ErrInvalidCookie))
	})

	It("writes an HttpOnly cookie that Read accepts", func() {
		rec := httptest.NewRecorder()
		Expect(codec.SetCookie(rec, "sid-2", 5)).To(Succeed())

		cookies := rec.Result().Cookies()
		Expect(cookies).To(HaveLen(1))
		Expect(cookies[0].HttpOnly).To(BeTrue())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookies[0])
		sid, uid, err := codec.Read(req)
		Expect(err).NotTo(HaveOccurred())
		Expect(sid).To(Equal("sid-2"))
		Expect(uid).To(Equal(int64(5)))
	})

	It("reports a missing cookie", func() {
		_, _, err := codec.Read(httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(err).To(MatchError(session.ErrNoCookie))
	})

	It("expires a cleared cookie", func() {
		rec := httptest.NewRecorder()
		codec.ClearCookie(rec)
		Expect(rec.Result().Cookies()[0].MaxAge).To(BeNumerically("<", 0))
	})
})
