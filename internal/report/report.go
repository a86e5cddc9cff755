package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	reportDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/report"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
	StatusResolved Status = "resolved"
)

var (
	ErrNotFound      = errors.New("report not found")
	ErrUnknownStatus = errors.New("unknown report status")
)

func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusPending, StatusReviewed, StatusResolved:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

const (
	MsgSubmitted          = "تم إرسال البلاغ بنجاح"
	MsgNameRequired       = "الاسم مطلوب"
	MsgContentRequired    = "تفاصيل البلاغ مطلوبة"
	MsgInvalidDiscord     = "حساب الديسكورد يجب أن يكون 17-19 رقماً"
	MsgAttachmentsMissing = "يجب رفع ملف واحد على الأقل"
	MsgAttachmentRequired = "المرفق مطلوب"
	MsgFromRequired       = "اسم المرسل مطلوب"
	MsgToRequired         = "اسم المستلم مطلوب"
	MsgSubjectRequired    = "الموضوع مطلوب"
	MsgInvalidStatus      = "Invalid status value"
)

// Report is a citizen complaint submitted from the public site.
type Report struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Discord     string    `json:"discord"`
	Content     string    `json:"content"`
	Attachments []string  `json:"attachments"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// InternalReport is sent by one officer about another.
type InternalReport struct {
	ID              int64     `json:"id"`
	FromPersonnelID int64     `json:"fromPersonnelId"`
	FromName        string    `json:"fromName"`
	ToPersonnelID   int64     `json:"toPersonnelId"`
	ToName          string    `json:"toName"`
	Subject         string    `json:"subject"`
	Content         string    `json:"content"`
	Attachment      string    `json:"attachment"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Repository interface {
	List(ctx context.Context) ([]*Report, error)
	Create(ctx context.Context, r *Report) error
	UpdateStatus(ctx context.Context, id int64, status Status) (*Report, error)
	Delete(ctx context.Context, id int64) error

	ListInternal(ctx context.Context) ([]*InternalReport, error)
	CreateInternal(ctx context.Context, r *InternalReport) error
	UpdateInternalStatus(ctx context.Context, id int64, status Status) (*InternalReport, error)
	DeleteInternal(ctx context.Context, id int64) error
}

func ToDataModel(r *Report) *reportDatamodel.Report {
	return &reportDatamodel.Report{
		ID:          r.ID,
		Name:        r.Name,
		Discord:     r.Discord,
		Content:     r.Content,
		Attachments: r.Attachments,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
	}
}

func FromDataModel(r *reportDatamodel.Report) *Report {
	attachments := r.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return &Report{
		ID:          r.ID,
		Name:        r.Name,
		Discord:     r.Discord,
		Content:     r.Content,
		Attachments: attachments,
		Status:      Status(r.Status),
		CreatedAt:   r.CreatedAt,
	}
}

func InternalToDataModel(r *InternalReport) *reportDatamodel.InternalReport {
	return &reportDatamodel.InternalReport{
		ID:              r.ID,
		FromPersonnelID: r.FromPersonnelID,
		FromName:        r.FromName,
		ToPersonnelID:   r.ToPersonnelID,
		ToName:          r.ToName,
		Subject:         r.Subject,
		Content:         r.Content,
		Attachment:      r.Attachment,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
	}
}

func InternalFromDataModel(r *reportDatamodel.InternalReport) *InternalReport {
	return &InternalReport{
		ID:              r.ID,
		FromPersonnelID: r.FromPersonnelID,
		FromName:        r.FromName,
		ToPersonnelID:   r.ToPersonnelID,
		ToName:          r.ToName,
		Subject:         r.Subject,
		Content:         r.Content,
		Attachment:      r.Attachment,
		Status:          Status(r.Status),
		CreatedAt:       r.CreatedAt,
	}
}
