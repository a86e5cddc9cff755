package announcement

import (
	"context"
	"errors"
	"fmt"
	"time"

	announcementDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/announcement"
)

type Type string

const (
	TypePublic   Type = "public"
	TypeInternal Type = "internal"
)

var (
	ErrNotFound    = errors.New("announcement not found")
	ErrUnknownType = errors.New("unknown announcement type")
)

func ParseType(raw string) (Type, error) {
	switch t := Type(raw); t {
	case TypePublic, TypeInternal:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, raw)
}

const (
	MsgTitleRequired   = "العنوان مطلوب"
	MsgContentRequired = "المحتوى مطلوب"
	MsgInvalidType     = "نوع الإعلان غير صالح"
)

type Announcement struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      Type      `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// Patch carries the fields of a partial update; nil leaves a field untouched.
type Patch struct {
	Title   *string
	Content *string
	Type    *Type
}

type Repository interface {
	List(ctx context.Context, filter *Type) ([]*Announcement, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, a *Announcement) error
	Update(ctx context.Context, id int64, patch Patch) (*Announcement, error)
	Delete(ctx context.Context, id int64) error
}

// Defaults is seeded into an empty table.
func Defaults() []*Announcement {
	return []*Announcement{
		{Title: "افتتاح التقديم", Content: "تم فتح باب القبول والتسجيل في الأكاديمية لهذا الموسم.", Type: TypePublic},
		{Title: "اجتماع طارئ", Content: "يوجد اجتماع لجميع الضباط في القاعة الرئيسية الساعة ٨ مساءً.", Type: TypeInternal},
	}
}

func ToDataModel(a *Announcement) *announcementDatamodel.Announcement {
	return &announcementDatamodel.Announcement{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Type:      string(a.Type),
		CreatedAt: a.CreatedAt,
	}
}

func FromDataModel(a *announcementDatamodel.Announcement) *Announcement {
	return &Announcement{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Type:      Type(a.Type),
		CreatedAt: a.CreatedAt,
	}
}
