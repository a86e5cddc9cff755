package swagger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/frahmantamala/police-portal/internal/transport/swagger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSwagger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Swagger Suite")
}

var _ = Describe("LoadSpec", func() {
	ctx := context.Background()

	It("accepts the shipped api document", func() {
		raw, err := swagger.LoadSpec(ctx, filepath.Join("..", "..", "..", "api", "openapi.yml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(ContainSubstring("/api/auth/reset-password"))
	})

	It("rejects a document that fails validation", func() {
		path := filepath.Join(GinkgoT().TempDir(), "broken.yml")
		Expect(os.WriteFile(path, []byte("openapi: 3.0.3\ninfo:\n  version: 1.0.0\npaths: {}\n"), 0o600)).To(Succeed())

		_, err := swagger.LoadSpec(ctx, path)
		Expect(err).To(MatchError(ContainSubstring("invalid openapi spec")))
	})

	It("reports a missing file", func() {
		_, err := swagger.LoadSpec(ctx, filepath.Join(GinkgoT().TempDir(), "absent.yml"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("SpecHandler", func() {
	It("serves the document as yaml", func() {
		rec := httptest.NewRecorder()
		swagger.SpecHandler([]byte("openapi: 3.0.3\n")).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, swagger.SpecRoute, nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/yaml"))
		Expect(rec.Body.String()).To(Equal("openapi: 3.0.3\n"))
	})
})
