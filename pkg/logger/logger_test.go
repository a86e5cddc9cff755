package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/frahmantamala/police-portal/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("Logger", func() {
	It("lazily builds a default logger", func() {
		Expect(logger.LoggerWrapper()).NotTo(BeNil())
	})

	It("returns the default logger for a bare context", func() {
		Expect(logger.From(context.Background())).To(BeIdenticalTo(logger.LoggerWrapper()))
	})

	It("stores a derived logger in the context", func() {
		ctx := logger.With(context.Background(), "traceID", "abc")
		Expect(logger.From(ctx)).NotTo(BeIdenticalTo(logger.LoggerWrapper()))
	})

	It("accepts an explicit level", func() {
		logger.Init("production", "warn")
		Expect(logger.LoggerWrapper().Enabled(context.Background(), 0)).To(BeFalse())
		logger.Init("development", "")
	})
})

var _ = Describe("Setup", func() {
	AfterEach(func() {
		logger.Init("development", "")
	})

	It("honours the configured level for text output", func() {
		logger.Setup("text", "error")
		Expect(logger.LoggerWrapper().Enabled(context.Background(), slog.LevelWarn)).To(BeFalse())
		Expect(logger.LoggerWrapper().Enabled(context.Background(), slog.LevelError)).To(BeTrue())
	})

	It("defaults json output to info", func() {
		logger.Setup("json", "")
		Expect(logger.LoggerWrapper().Enabled(context.Background(), slog.LevelDebug)).To(BeFalse())
		Expect(logger.LoggerWrapper().Enabled(context.Background(), slog.LevelInfo)).To(BeTrue())
	})
})
