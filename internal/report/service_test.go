package report_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/discord"
	"github.com/frahmantamala/police-portal/internal/report"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestReport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Suite")
}

type MockRepository struct {
	reports    []*report.Report
	internals  []*report.InternalReport
	shouldFail bool
}

func (m *MockRepository) SetShouldFail(fail bool) {
	m.shouldFail = fail
}

func (m *MockRepository) List(ctx context.Context) ([]*report.Report, error) {
	if m.shouldFail {
		return nil, errors.New("mock error")
	}
	return m.reports, nil
}

func (m *MockRepository) Create(ctx context.Context, r *report.Report) error {
	if m.shouldFail {
		return errors.New("mock error")
	}
	r.ID = int64(len(m.reports) + 1)
	m.reports = append(m.reports, r)
	return nil
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id int64, status report.Status) (*report.Report, error) {
	for _, r := range m.reports {
		if r.ID == id {
			r.Status = status
			return r, nil
		}
	}
	return nil, report.ErrNotFound
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	return report.ErrNotFound
}

func (m *MockRepository) ListInternal(ctx context.Context) ([]*report.InternalReport, error) {
	return m.internals, nil
}

func (m *MockRepository) CreateInternal(ctx context.Context, r *report.InternalReport) error {
	if m.shouldFail {
		return errors.New("mock error")
	}
	r.ID = int64(len(m.internals) + 1)
	m.internals = append(m.internals, r)
	return nil
}

func (m *MockRepository) UpdateInternalStatus(ctx context.Context, id int64, status report.Status) (*report.InternalReport, error) {
	return nil, report.ErrNotFound
}

func (m *MockRepository) DeleteInternal(ctx context.Context, id int64) error {
	return nil
}

type stubChecker struct {
	result discord.Membership
	calls  int
}

func (s *stubChecker) Verify(ctx context.Context, discordID string) discord.Membership {
	s.calls++
	return s.result
}

func validSubmission() report.SubmitRequest {
	return report.SubmitRequest{
		Name:        "مواطن",
		Discord:     "123456789012345678",
		Content:     "بلاغ عن مخالفة",
		Attachments: []string{"/bucket/uploads/a.png"},
	}
}

var _ = Describe("Report Service", func() {
	var (
		ctx     context.Context
		repo    *MockRepository
		service *report.Service
		logger  *slog.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &MockRepository{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = report.NewService(repo, logger)
	})

	Describe("Submit", func() {
		It("stores a valid report as pending", func() {
			r, err := service.Submit(ctx, validSubmission())
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Status).To(Equal(report.StatusPending))
			Expect(repo.reports).To(HaveLen(1))
		})

		DescribeTable("rejects malformed discord ids",
			func(id string) {
				req := validSubmission()
				req.Discord = id

				_, err := service.Submit(ctx, req)
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Message).To(Equal(report.MsgInvalidDiscord))
				Expect(appErr.Field()).To(Equal("discord"))
			},
			Entry("too short", "1234567890123456"),
			Entry("too long", "12345678901234567890"),
			Entry("not digits", "12345678901234567a"),
			Entry("empty", ""),
		)

		It("requires at least one attachment", func() {
			req := validSubmission()
			req.Attachments = []string{" "}

			_, err := service.Submit(ctx, req)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Message).To(Equal(report.MsgAttachmentsMissing))
			Expect(repo.reports).To(BeEmpty())
		})

		It("skips the membership check when none is configured", func() {
			_, err := service.Submit(ctx, validSubmission())
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects non-members with the verifier message", func() {
			checker := &stubChecker{result: discord.Membership{Error: discord.MsgUnknownMember}}
			service = report.NewService(repo, logger, report.WithMembershipCheck(checker))

			_, err := service.Submit(ctx, validSubmission())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Message).To(Equal(discord.MsgUnknownMember))
			Expect(appErr.Code).To(Equal(internal.ErrCodeNotCommunityMember))
			Expect(checker.calls).To(Equal(1))
			Expect(repo.reports).To(BeEmpty())
		})

		It("accepts members", func() {
			checker := &stubChecker{result: discord.Membership{IsMember: true, Username: "citizen"}}
			service = report.NewService(repo, logger, report.WithMembershipCheck(checker))

			_, err := service.Submit(ctx, validSubmission())
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.reports).To(HaveLen(1))
		})

		It("hides store failures behind a server error", func() {
			repo.SetShouldFail(true)

			_, err := service.Submit(ctx, validSubmission())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})

	Describe("UpdateStatus", func() {
		It("rejects values outside the status set", func() {
			_, err := service.UpdateStatus(ctx, 1, "closed")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Message).To(Equal(report.MsgInvalidStatus))
		})

		It("maps a missing report to 404", func() {
			_, err := service.UpdateStatus(ctx, 9, "resolved")
			Expect(errors.Is(err, internal.ErrRecordNotFound)).To(BeTrue())
		})
	})

	Describe("CreateInternal", func() {
		It("requires the attachment", func() {
			_, err := service.CreateInternal(ctx, report.CreateInternalRequest{
				FromName: "أ", ToName: "ب", Subject: "مخالفة", Content: "تفاصيل",
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Message).To(Equal(report.MsgAttachmentRequired))
		})

		It("defaults missing personnel ids to zero", func() {
			r, err := service.CreateInternal(ctx, report.CreateInternalRequest{
				FromName: "أ", ToName: "ب", Subject: "مخالفة", Content: "تفاصيل", Attachment: "/b/uploads/x.pdf",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(r.FromPersonnelID).To(BeZero())
			Expect(r.ToPersonnelID).To(BeZero())
			Expect(r.Status).To(Equal(report.StatusPending))
		})
	})
})
