package personnel

import (
	"context"
	"errors"
	"fmt"
	"time"

	personnelDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/personnel"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusOnLeave   Status = "on_leave"
	StatusSuspended Status = "suspended"
	StatusResigned  Status = "resigned"
	StatusRetired   Status = "retired"
)

type RecordType string

const (
	RecordPromotion    RecordType = "promotion"
	RecordWarning      RecordType = "warning"
	RecordLeave        RecordType = "leave"
	RecordNote         RecordType = "note"
	RecordDiscipline   RecordType = "discipline"
	RecordCommendation RecordType = "commendation"
)

var (
	ErrNotFound          = errors.New("personnel entry not found")
	ErrUnknownStatus     = errors.New("unknown personnel status")
	ErrUnknownRecordType = errors.New("unknown record type")
)

const (
	MsgNameRequired       = "الاسم مطلوب"
	MsgRankRequired       = "الرتبة مطلوبة"
	MsgInvalidRank        = "الرتبة غير صالحة"
	MsgDepartmentRequired = "القسم مطلوب"
	MsgTitleRequired      = "العنوان مطلوب"
	MsgPersonnelRequired  = "يجب تحديد العسكري"
	MsgInvalidStatus      = "الحالة غير صالحة"
	MsgInvalidRecordType  = "نوع السجل غير صالح"
	MsgInvalidDate        = "التاريخ غير صالح"
)

// ParseStatus defaults an empty value to active.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case "":
		return StatusActive, nil
	case StatusActive, StatusOnLeave, StatusSuspended, StatusResigned, StatusRetired:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

func ParseRecordType(raw string) (RecordType, error) {
	switch t := RecordType(raw); t {
	case RecordPromotion, RecordWarning, RecordLeave, RecordNote, RecordDiscipline, RecordCommendation:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRecordType, raw)
}

// Personnel is one officer file in military affairs.
type Personnel struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Rank       string    `json:"rank"`
	Badge      *string   `json:"badge"`
	Department string    `json:"department"`
	Discord    *string   `json:"discord"`
	JoinDate   time.Time `json:"joinDate"`
	Status     Status    `json:"status"`
	ImageURL   *string   `json:"imageUrl"`
	Notes      *string   `json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Record struct {
	ID          int64      `json:"id"`
	PersonnelID int64      `json:"personnelId"`
	Type        RecordType `json:"type"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	ImageURL    *string    `json:"imageUrl"`
	Date        time.Time  `json:"date"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Changes maps column names to new values for a partial update.
type Changes map[string]interface{}

type Repository interface {
	List(ctx context.Context) ([]*Personnel, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, p *Personnel) error
	Update(ctx context.Context, id int64, changes Changes) (*Personnel, error)
	Delete(ctx context.Context, id int64) error

	ListRecords(ctx context.Context, personnelID *int64) ([]*Record, error)
	CreateRecord(ctx context.Context, r *Record) error
	DeleteRecord(ctx context.Context, id int64) error
}

func ToDataModel(p *Personnel) *personnelDatamodel.Personnel {
	return &personnelDatamodel.Personnel{
		ID:         p.ID,
		Name:       p.Name,
		Rank:       p.Rank,
		Badge:      p.Badge,
		Department: p.Department,
		Discord:    p.Discord,
		JoinDate:   p.JoinDate,
		Status:     string(p.Status),
		ImageURL:   p.ImageURL,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
	}
}

func FromDataModel(p *personnelDatamodel.Personnel) *Personnel {
	return &Personnel{
		ID:         p.ID,
		Name:       p.Name,
		Rank:       p.Rank,
		Badge:      p.Badge,
		Department: p.Department,
		Discord:    p.Discord,
		JoinDate:   p.JoinDate,
		Status:     Status(p.Status),
		ImageURL:   p.ImageURL,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
	}
}

func RecordToDataModel(r *Record) *personnelDatamodel.Record {
	return &personnelDatamodel.Record{
		ID:          r.ID,
		PersonnelID: r.PersonnelID,
		Type:        string(r.Type),
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Date:        r.Date,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
	}
}

func RecordFromDataModel(r *personnelDatamodel.Record) *Record {
	return &Record{
		ID:          r.ID,
		PersonnelID: r.PersonnelID,
		Type:        RecordType(r.Type),
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Date:        r.Date,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
	}
}
