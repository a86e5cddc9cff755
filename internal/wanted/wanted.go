package wanted

import (
	"context"
	"errors"
	"fmt"
	"time"

	wantedDatamodel "github.com/frahmantamala/police-portal/internal/core/datamodel/wanted"
)

type PersonStatus string

const (
	PersonWanted   PersonStatus = "wanted"
	PersonCaptured PersonStatus = "captured"
)

type VehicleStatus string

const (
	VehicleWanted VehicleStatus = "wanted"
	VehicleFound  VehicleStatus = "found"
)

type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityInternal Visibility = "internal"
)

var (
	ErrNotFound      = errors.New("wanted entry not found")
	ErrUnknownStatus = errors.New("unknown status")
	ErrUnknownScope  = errors.New("unknown visibility")
)

const (
	MsgNameRequired        = "الاسم مطلوب"
	MsgCrimeRequired       = "التهمة مطلوبة"
	MsgPlateRequired       = "رقم اللوحة مطلوب"
	MsgVehicleTypeRequired = "نوع السيارة مطلوب"
	MsgReasonRequired      = "سبب الطلب مطلوب"
	MsgInvalidStatus       = "الحالة غير صالحة"
	MsgInvalidVisibility   = "نطاق الظهور غير صالح"
)

// ParsePersonStatus defaults an empty value to wanted.
func ParsePersonStatus(raw string) (PersonStatus, error) {
	switch s := PersonStatus(raw); s {
	case "":
		return PersonWanted, nil
	case PersonWanted, PersonCaptured:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

// ParseVehicleStatus defaults an empty value to wanted.
func ParseVehicleStatus(raw string) (VehicleStatus, error) {
	switch s := VehicleStatus(raw); s {
	case "":
		return VehicleWanted, nil
	case VehicleWanted, VehicleFound:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

// ParseVisibility defaults an empty value to public.
func ParseVisibility(raw string) (Visibility, error) {
	switch v := Visibility(raw); v {
	case "":
		return VisibilityPublic, nil
	case VisibilityPublic, VisibilityInternal:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScope, raw)
}

type Person struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Crime     string       `json:"crime"`
	Status    PersonStatus `json:"status"`
	ImageURL  *string      `json:"imageUrl"`
	CreatedAt time.Time    `json:"createdAt"`
}

type Vehicle struct {
	ID          int64         `json:"id"`
	PlateNumber string        `json:"plateNumber"`
	VehicleType string        `json:"vehicleType"`
	Color       *string       `json:"color"`
	Reason      string        `json:"reason"`
	Status      VehicleStatus `json:"status"`
	Visibility  Visibility    `json:"visibility"`
	ImageURL    *string       `json:"imageUrl"`
	Notes       *string       `json:"notes"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Changes maps column names to new values for a partial update.
type Changes map[string]interface{}

type Repository interface {
	ListPersons(ctx context.Context) ([]*Person, error)
	CreatePerson(ctx context.Context, p *Person) error
	UpdatePerson(ctx context.Context, id int64, changes Changes) (*Person, error)
	DeletePerson(ctx context.Context, id int64) error

	ListVehicles(ctx context.Context, visibility *Visibility) ([]*Vehicle, error)
	CreateVehicle(ctx context.Context, v *Vehicle) error
	UpdateVehicle(ctx context.Context, id int64, changes Changes) (*Vehicle, error)
	DeleteVehicle(ctx context.Context, id int64) error
}

func PersonToDataModel(p *Person) *wantedDatamodel.Person {
	return &wantedDatamodel.Person{
		ID:        p.ID,
		Name:      p.Name,
		Crime:     p.Crime,
		Status:    string(p.Status),
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
	}
}

func PersonFromDataModel(p *wantedDatamodel.Person) *Person {
	return &Person{
		ID:        p.ID,
		Name:      p.Name,
		Crime:     p.Crime,
		Status:    PersonStatus(p.Status),
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
	}
}

func VehicleToDataModel(v *Vehicle) *wantedDatamodel.Vehicle {
	return &wantedDatamodel.Vehicle{
		ID:          v.ID,
		PlateNumber: v.PlateNumber,
		VehicleType: v.VehicleType,
		Color:       v.Color,
		Reason:      v.Reason,
		Status:      string(v.Status),
		Visibility:  string(v.Visibility),
		ImageURL:    v.ImageURL,
		Notes:       v.Notes,
		CreatedAt:   v.CreatedAt,
	}
}

func VehicleFromDataModel(v *wantedDatamodel.Vehicle) *Vehicle {
	return &Vehicle{
		ID:          v.ID,
		PlateNumber: v.PlateNumber,
		VehicleType: v.VehicleType,
		Color:       v.Color,
		Reason:      v.Reason,
		Status:      VehicleStatus(v.Status),
		Visibility:  Visibility(v.Visibility),
		ImageURL:    v.ImageURL,
		Notes:       v.Notes,
		CreatedAt:   v.CreatedAt,
	}
}
