package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/frahmantamala/police-portal/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("delivers asynchronously with a context that survives cancellation", func() {
		var seen atomic.Value
		bus.Subscribe(events.EventTypePasswordResetRequested, func(ctx context.Context, e events.Event) error {
			time.Sleep(10 * time.Millisecond)
			seen.Store(ctx.Err() == nil)
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		evt := events.NewPasswordResetRequested("a@b.c", "http://x/reset-password?token=t", time.Now().Add(15*time.Minute))
		Expect(bus.Publish(ctx, evt)).To(Succeed())
		cancel()

		waitCtx, done := context.WithTimeout(context.Background(), time.Second)
		defer done()
		Expect(bus.Wait(waitCtx)).To(Succeed())
		Expect(seen.Load()).To(Equal(true))
	})

	It("returns handler errors from PublishSync", func() {
		bus.Subscribe("x", func(context.Context, events.Event) error { return errors.New("boom") })
		err := bus.PublishSync(context.Background(), events.BaseEvent{ID: "1", Type: "x"})
		Expect(err).To(MatchError(ContainSubstring("boom")))
	})

	It("ignores events without subscribers", func() {
		Expect(bus.Publish(context.Background(), events.BaseEvent{ID: "1", Type: "none"})).To(Succeed())
	})

	It("keeps the reset link out of the payload", func() {
		evt := events.NewPasswordResetRequested("a@b.c", "http://x/reset-password?token=secret", time.Now())
		Expect(evt.Payload()).NotTo(HaveKey("link"))
		Expect(evt.EventType()).To(Equal("password_reset.requested"))
	})
})
